// Package grid discretizes canvas space into square cells of one snap unit.
package grid

import (
	"math"

	"schemroute/core"
	"schemroute/geometry"
)

// DefaultUnit is the canvas snap unit used when none is configured.
const DefaultUnit = 10.0

// Directions lists the four unit moves in the fixed order every search
// strategy expands them: +x, -x, +y, -y. The order decides tie-breaking,
// so it must never vary between strategies.
var Directions = [4]core.Cell{
	{Col: 1, Row: 0},
	{Col: -1, Row: 0},
	{Col: 0, Row: 1},
	{Col: 0, Row: -1},
}

// Grid converts between canvas coordinates and cells.
type Grid struct {
	Unit float64
}

// New creates a grid with the given snap unit. Non-positive units fall back to DefaultUnit.
func New(unit float64) Grid {
	if unit <= 0 {
		unit = DefaultUnit
	}
	return Grid{Unit: unit}
}

// ToCell maps a point to the nearest cell. Ties round toward positive
// infinity, matching the canvas snap.
func (g Grid) ToCell(p core.Point) core.Cell {
	return core.Cell{
		Col: g.snap(p.X),
		Row: g.snap(p.Y),
	}
}

func (g Grid) snap(v float64) int {
	return int(math.Floor(v/g.Unit + 0.5))
}

// ToPoint returns the canvas coordinate of a cell.
func (g Grid) ToPoint(c core.Cell) core.Point {
	return core.Point{
		X: float64(c.Col) * g.Unit,
		Y: float64(c.Row) * g.Unit,
	}
}

// BoxCells returns the cell rect covered by a canvas box. Both snapped
// corners are included, so a terminal sitting on the edge of the box lies
// inside the rect.
func (g Grid) BoxCells(b core.Box) core.Rect {
	lo := g.ToCell(b.Min())
	hi := g.ToCell(b.Max())
	return core.Rect{
		Min: lo,
		Max: core.Cell{Col: hi.Col + 1, Row: hi.Row + 1},
	}
}

// Neighbors returns the four 4-connected neighbors of c in Directions order.
func Neighbors(c core.Cell) [4]core.Cell {
	var out [4]core.Cell
	for i, d := range Directions {
		out[i] = c.Add(d)
	}
	return out
}

// Rasterize expands a polyline of cells into the full cell sequence it
// passes through. Orthogonal segments are walked directly; a diagonal
// segment is walked horizontally first, then vertically.
func Rasterize(corners []core.Cell) []core.Cell {
	if len(corners) == 0 {
		return nil
	}
	cells := []core.Cell{corners[0]}
	cur := corners[0]
	for _, next := range corners[1:] {
		for cur.Col != next.Col {
			cur.Col += geometry.Sign(next.Col - cur.Col)
			cells = append(cells, cur)
		}
		for cur.Row != next.Row {
			cur.Row += geometry.Sign(next.Row - cur.Row)
			cells = append(cells, cur)
		}
	}
	return cells
}

// RasterizePoints snaps each waypoint to a cell and rasterizes the result.
func (g Grid) RasterizePoints(points []core.Point) []core.Cell {
	corners := make([]core.Cell, len(points))
	for i, p := range points {
		corners[i] = g.ToCell(p)
	}
	return Rasterize(corners)
}
