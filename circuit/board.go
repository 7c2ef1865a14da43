// Package circuit holds the placed components and routed wires of a
// schematic. Both live in flat collections keyed by stable IDs; a wire only
// refers to terminals by ID, so removing a component is an explicit cleanup
// of the wires attached to it.
package circuit

import (
	"time"

	"github.com/google/uuid"

	"schemroute/core"
	"schemroute/obstacles"
	"schemroute/pathfinding"
	"schemroute/rerrors"
)

// Component is a placed part with connection terminals.
type Component struct {
	ID     core.ComponentID `json:"id"`
	Kind   string           `json:"kind,omitempty"`
	Bounds core.Box         `json:"bounds"`
	// Terminals are offsets from the top-left corner of Bounds.
	Terminals []core.Point `json:"terminals"`
}

// TerminalPoint returns the canvas position of terminal i.
func (c Component) TerminalPoint(i int) (core.Point, bool) {
	if i < 0 || i >= len(c.Terminals) {
		return core.Point{}, false
	}
	off := c.Terminals[i]
	return c.Bounds.Min().Add(off.X, off.Y), true
}

// Route is one strategy's path for a wire in comparison mode.
type Route struct {
	Strategy   pathfinding.StrategyID
	Waypoints  []core.Point
	Cells      int // length of the raw cell path
	Iterations int
	Elapsed    time.Duration
}

// Wire connects two terminals.
type Wire struct {
	ID        core.WireID
	From      core.TerminalRef
	To        core.TerminalRef
	Algorithm pathfinding.StrategyID
	Waypoints []core.Point

	// Routes and Unrouted are filled only in comparison mode and are never
	// persisted. Unrouted lists the strategies that found no path.
	Routes   map[pathfinding.StrategyID]Route
	Unrouted []pathfinding.StrategyID
}

// Routed reports whether the wire has an active polyline.
func (w *Wire) Routed() bool {
	return len(w.Waypoints) > 0
}

// Attached reports whether either end of the wire is on the component.
func (w *Wire) Attached(id core.ComponentID) bool {
	return w.From.Component == id || w.To.Component == id
}

// Board is the arena of components and wires.
type Board struct {
	components map[core.ComponentID]*Component
	compOrder  []core.ComponentID
	wires      map[core.WireID]*Wire
	wireOrder  []core.WireID
	newID      func() core.WireID
}

// NewBoard creates an empty board. Wire IDs are random UUIDs.
func NewBoard() *Board {
	return &Board{
		components: make(map[core.ComponentID]*Component),
		wires:      make(map[core.WireID]*Wire),
		newID:      func() core.WireID { return core.WireID(uuid.NewString()) },
	}
}

// SetIDGenerator replaces the wire ID generator.
func (b *Board) SetIDGenerator(gen func() core.WireID) {
	b.newID = gen
}

// NewWireID mints an unused wire ID.
func (b *Board) NewWireID() core.WireID {
	for {
		id := b.newID()
		if _, taken := b.wires[id]; !taken && id != "" {
			return id
		}
	}
}

// AddComponent places a component. IDs must be unique and non-empty.
func (b *Board) AddComponent(c Component) error {
	if c.ID == "" {
		return rerrors.New(rerrors.ErrCodeInvalidRequest, "component ID cannot be empty")
	}
	if _, exists := b.components[c.ID]; exists {
		return rerrors.New(rerrors.ErrCodeInvalidRequest, "component %q already exists", c.ID)
	}
	if c.Bounds.Width < 0 || c.Bounds.Height < 0 {
		return rerrors.New(rerrors.ErrCodeInvalidRequest, "component %q has negative size", c.ID)
	}
	stored := c
	stored.Terminals = append([]core.Point(nil), c.Terminals...)
	b.components[c.ID] = &stored
	b.compOrder = append(b.compOrder, c.ID)
	return nil
}

// Component returns a copy of the component.
func (b *Board) Component(id core.ComponentID) (Component, bool) {
	c, ok := b.components[id]
	if !ok {
		return Component{}, false
	}
	return *c, true
}

// Components returns every component in placement order.
func (b *Board) Components() []Component {
	out := make([]Component, 0, len(b.compOrder))
	for _, id := range b.compOrder {
		out = append(out, *b.components[id])
	}
	return out
}

// MoveComponent translates a component. Attached wires are not re-routed here.
func (b *Board) MoveComponent(id core.ComponentID, dx, dy float64) error {
	c, ok := b.components[id]
	if !ok {
		return rerrors.New(rerrors.ErrCodeUnknownComponent, "component %q does not exist", id)
	}
	c.Bounds.X += dx
	c.Bounds.Y += dy
	return nil
}

// RemoveComponent deletes a component and every wire attached to it. It
// returns the IDs of the deleted wires.
func (b *Board) RemoveComponent(id core.ComponentID) ([]core.WireID, error) {
	if _, ok := b.components[id]; !ok {
		return nil, rerrors.New(rerrors.ErrCodeUnknownComponent, "component %q does not exist", id)
	}
	removed := b.WiresAttached(id)
	for _, wid := range removed {
		b.deleteWire(wid)
	}
	delete(b.components, id)
	b.compOrder = removeID(b.compOrder, id)
	return removed, nil
}

// TerminalPoint resolves a terminal reference to its canvas position.
func (b *Board) TerminalPoint(ref core.TerminalRef) (core.Point, error) {
	c, ok := b.components[ref.Component]
	if !ok {
		return core.Point{}, rerrors.New(rerrors.ErrCodeUnknownComponent, "component %q does not exist", ref.Component)
	}
	p, ok := c.TerminalPoint(ref.Index)
	if !ok {
		return core.Point{}, rerrors.New(rerrors.ErrCodeUnknownTerminal, "component %q has no terminal %d", ref.Component, ref.Index)
	}
	return p, nil
}

// Footprints returns the obstacle footprint of every component.
func (b *Board) Footprints() []obstacles.Footprint {
	out := make([]obstacles.Footprint, 0, len(b.compOrder))
	for _, id := range b.compOrder {
		c := b.components[id]
		out = append(out, obstacles.Footprint{Owner: c.ID, Box: c.Bounds})
	}
	return out
}

// PutWire stores w, replacing any wire with the same ID. An empty ID is
// replaced by a fresh one.
func (b *Board) PutWire(w *Wire) error {
	for _, ref := range []core.TerminalRef{w.From, w.To} {
		if _, err := b.TerminalPoint(ref); err != nil {
			return err
		}
	}
	if w.ID == "" {
		w.ID = b.NewWireID()
	}
	if _, exists := b.wires[w.ID]; !exists {
		b.wireOrder = append(b.wireOrder, w.ID)
	}
	b.wires[w.ID] = w
	return nil
}

// Wire returns the wire with the given ID.
func (b *Board) Wire(id core.WireID) (*Wire, bool) {
	w, ok := b.wires[id]
	return w, ok
}

// Wires returns every wire in creation order.
func (b *Board) Wires() []*Wire {
	out := make([]*Wire, 0, len(b.wireOrder))
	for _, id := range b.wireOrder {
		out = append(out, b.wires[id])
	}
	return out
}

// WiresAttached returns the IDs of the wires touching a component, in creation order.
func (b *Board) WiresAttached(id core.ComponentID) []core.WireID {
	var out []core.WireID
	for _, wid := range b.wireOrder {
		if b.wires[wid].Attached(id) {
			out = append(out, wid)
		}
	}
	return out
}

// DeleteWire removes a wire.
func (b *Board) DeleteWire(id core.WireID) error {
	if _, ok := b.wires[id]; !ok {
		return rerrors.New(rerrors.ErrCodeUnknownWire, "wire %q does not exist", id)
	}
	b.deleteWire(id)
	return nil
}

func (b *Board) deleteWire(id core.WireID) {
	delete(b.wires, id)
	b.wireOrder = removeID(b.wireOrder, id)
}

// Clear removes every component and wire.
func (b *Board) Clear() {
	b.components = make(map[core.ComponentID]*Component)
	b.compOrder = nil
	b.wires = make(map[core.WireID]*Wire)
	b.wireOrder = nil
}

func removeID[T comparable](ids []T, id T) []T {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
