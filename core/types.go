// Package core contains the fundamental types shared by the schematic wire router.
package core

import "fmt"

// Cell identifies one grid square. Coordinates may be negative since the
// canvas extends in every direction from the origin.
type Cell struct {
	Col, Row int
}

// String returns the cell as "(col,row)".
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Col, c.Row)
}

// Add returns c offset by d.
func (c Cell) Add(d Cell) Cell {
	return Cell{Col: c.Col + d.Col, Row: c.Row + d.Row}
}

// Adjacent reports whether c and o differ by exactly one unit in exactly one axis.
func (c Cell) Adjacent(o Cell) bool {
	dc := c.Col - o.Col
	dr := c.Row - o.Row
	return (dr == 0 && (dc == 1 || dc == -1)) || (dc == 0 && (dr == 1 || dr == -1))
}

// Point is a continuous canvas coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Box is an axis-aligned rectangle in canvas coordinates.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Min returns the top-left corner of the box.
func (b Box) Min() Point {
	return Point{X: b.X, Y: b.Y}
}

// Max returns the bottom-right corner of the box.
func (b Box) Max() Point {
	return Point{X: b.X + b.Width, Y: b.Y + b.Height}
}

// Contains checks if a point lies inside the box, edges included.
func (b Box) Contains(p Point) bool {
	return p.X >= b.X && p.X <= b.X+b.Width &&
		p.Y >= b.Y && p.Y <= b.Y+b.Height
}

// Rect is a rectangular region of cells. Min is inclusive, Max is exclusive.
type Rect struct {
	Min, Max Cell
}

// Width returns the number of columns in the rect.
func (r Rect) Width() int {
	return r.Max.Col - r.Min.Col
}

// Height returns the number of rows in the rect.
func (r Rect) Height() int {
	return r.Max.Row - r.Min.Row
}

// Area returns the number of cells covered by the rect.
func (r Rect) Area() int {
	if r.Empty() {
		return 0
	}
	return r.Width() * r.Height()
}

// Empty reports whether the rect covers no cells.
func (r Rect) Empty() bool {
	return r.Max.Col <= r.Min.Col || r.Max.Row <= r.Min.Row
}

// Contains checks if a cell is within the rect.
func (r Rect) Contains(c Cell) bool {
	return c.Col >= r.Min.Col && c.Col < r.Max.Col &&
		c.Row >= r.Min.Row && c.Row < r.Max.Row
}

// Inset grows the rect by n cells on every side (shrinks it for negative n).
func (r Rect) Inset(n int) Rect {
	return Rect{
		Min: Cell{Col: r.Min.Col - n, Row: r.Min.Row - n},
		Max: Cell{Col: r.Max.Col + n, Row: r.Max.Row + n},
	}
}

// Union returns the smallest rect covering both r and o. An empty rect
// contributes nothing.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	return Rect{
		Min: Cell{Col: min(r.Min.Col, o.Min.Col), Row: min(r.Min.Row, o.Min.Row)},
		Max: Cell{Col: max(r.Max.Col, o.Max.Col), Row: max(r.Max.Row, o.Max.Row)},
	}
}

// CellRect returns the one-cell rect holding c.
func CellRect(c Cell) Rect {
	return Rect{Min: c, Max: Cell{Col: c.Col + 1, Row: c.Row + 1}}
}

// ComponentID identifies a placed component.
type ComponentID string

// TerminalRef names one terminal of a component by index.
type TerminalRef struct {
	Component ComponentID `json:"component"`
	Index     int         `json:"terminal"`
}

// String returns the reference as "component:index".
func (t TerminalRef) String() string {
	return fmt.Sprintf("%s:%d", t.Component, t.Index)
}

// WireID identifies a wire.
type WireID string

// Path is an ordered sequence of cells from start to goal inclusive.
type Path []Cell

// Len returns the number of cells in the path.
func (p Path) Len() int {
	return len(p)
}

// IsEmpty returns true if the path has no cells.
func (p Path) IsEmpty() bool {
	return len(p) == 0
}

// Moves returns the number of unit moves along the path.
func (p Path) Moves() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}
