package obstacles

import (
	"schemroute/core"
	"schemroute/grid"
)

// Index rasterizes component footprints onto the grid.
type Index struct {
	grid      grid.Grid
	clearance int // extra cells blocked around every footprint
}

// NewIndex creates an obstacle index for the given grid.
func NewIndex(g grid.Grid, clearance int) *Index {
	if clearance < 0 {
		clearance = 0
	}
	return &Index{grid: g, clearance: clearance}
}

// FootprintCells returns the cell rect a footprint occupies, clearance included.
func (ix *Index) FootprintCells(f Footprint) core.Rect {
	return ix.grid.BoxCells(f.Box).Inset(ix.clearance)
}

// BlockedCells unions the footprints of every component not named in
// q.Owners and removes q.Start and q.Goal from the result.
func (ix *Index) BlockedCells(footprints []Footprint, q Query) Set {
	blocked := make(Set)
	for _, f := range footprints {
		if q.owns(f.Owner) {
			continue
		}
		r := ix.FootprintCells(f)
		for row := r.Min.Row; row < r.Max.Row; row++ {
			for col := r.Min.Col; col < r.Max.Col; col++ {
				blocked[core.Cell{Col: col, Row: row}] = struct{}{}
			}
		}
	}
	delete(blocked, q.Start)
	delete(blocked, q.Goal)
	return blocked
}

// Extent returns the cell rect covering every footprint.
func (ix *Index) Extent(footprints []Footprint) core.Rect {
	var r core.Rect
	for _, f := range footprints {
		r = r.Union(ix.FootprintCells(f))
	}
	return r
}
