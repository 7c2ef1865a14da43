// Package validation checks stored wire routes against the board they sit on.
// Boards loaded from disk keep their waypoints as saved, so a moved or resized
// component can leave a wire that no longer fits.
package validation

import (
	"fmt"

	"schemroute/circuit"
	"schemroute/core"
	"schemroute/grid"
	"schemroute/obstacles"
)

// WireValidator validates the waypoints of every wire on a board.
type WireValidator struct {
	grid  grid.Grid
	index *obstacles.Index
	// strictMode also rejects wires crossing the bodies of the components
	// they connect.
	strictMode bool
	errors     []ValidationError
}

// ValidationError describes one problem with one wire.
type ValidationError struct {
	Wire    core.WireID
	At      core.Point
	Message string
}

// NewWireValidator creates a validator using the routing grid and footprint
// clearance.
func NewWireValidator(g grid.Grid, clearance int) *WireValidator {
	return &WireValidator{grid: g, index: obstacles.NewIndex(g, clearance)}
}

// SetStrictMode enables or disables strict validation.
func (v *WireValidator) SetStrictMode(strict bool) {
	v.strictMode = strict
}

// Validate checks every wire in creation order.
func (v *WireValidator) Validate(b *circuit.Board) []ValidationError {
	v.errors = nil
	footprints := b.Footprints()
	for _, w := range b.Wires() {
		v.checkWire(b, w, footprints)
	}
	return v.errors
}

func (v *WireValidator) checkWire(b *circuit.Board, w *circuit.Wire, footprints []obstacles.Footprint) {
	from, err := b.TerminalPoint(w.From)
	if err != nil {
		v.addError(w.ID, core.Point{}, "%v", err)
		return
	}
	to, err := b.TerminalPoint(w.To)
	if err != nil {
		v.addError(w.ID, core.Point{}, "%v", err)
		return
	}
	start, goal := v.grid.ToCell(from), v.grid.ToCell(to)

	pts := w.Waypoints
	if len(pts) == 0 {
		v.addError(w.ID, from, "wire has no route")
		return
	}
	if len(pts) == 1 && start != goal {
		v.addError(w.ID, pts[0], "single waypoint cannot join %s and %s", w.From, w.To)
		return
	}
	if got := v.grid.ToCell(pts[0]); got != start {
		v.addError(w.ID, pts[0], "route starts at %v, terminal %s is at %v", got, w.From, start)
	}
	if got := v.grid.ToCell(pts[len(pts)-1]); got != goal {
		v.addError(w.ID, pts[len(pts)-1], "route ends at %v, terminal %s is at %v", got, w.To, goal)
	}

	for i := 1; i < len(pts); i++ {
		a, c := v.grid.ToCell(pts[i-1]), v.grid.ToCell(pts[i])
		if a.Col != c.Col && a.Row != c.Row {
			v.addError(w.ID, pts[i-1], "segment to %v is not orthogonal", pts[i])
			return
		}
	}

	crossed := make(map[core.ComponentID]bool)
	for _, cell := range v.grid.RasterizePoints(pts) {
		if cell == start || cell == goal {
			continue
		}
		for _, f := range footprints {
			if crossed[f.Owner] || !v.strictMode && (f.Owner == w.From.Component || f.Owner == w.To.Component) {
				continue
			}
			if v.index.FootprintCells(f).Contains(cell) {
				crossed[f.Owner] = true
				v.addError(w.ID, v.grid.ToPoint(cell), "route crosses component %s", f.Owner)
			}
		}
	}
}

func (v *WireValidator) addError(wire core.WireID, at core.Point, format string, args ...any) {
	v.errors = append(v.errors, ValidationError{
		Wire:    wire,
		At:      at,
		Message: fmt.Sprintf(format, args...),
	})
}

// String formats the error for display.
func (e ValidationError) String() string {
	return fmt.Sprintf("%s at (%g,%g): %s", e.Wire, e.At.X, e.At.Y, e.Message)
}
