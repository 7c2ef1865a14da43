// Package obstacles computes the grid cells blocked by placed components.
package obstacles

import "schemroute/core"

// Footprint is the visual extent of one placed component.
type Footprint struct {
	Owner core.ComponentID
	Box   core.Box
}

// Query describes one routing request. Footprints owned by Owners are
// skipped and Start/Goal are never blocked.
type Query struct {
	Start  core.Cell
	Goal   core.Cell
	Owners []core.ComponentID
}

func (q Query) owns(id core.ComponentID) bool {
	for _, o := range q.Owners {
		if o == id {
			return true
		}
	}
	return false
}

// Set is the set of blocked cells for one routing request.
// It is built once per request and only read afterwards.
type Set map[core.Cell]struct{}

// Contains reports whether c is in the set.
func (s Set) Contains(c core.Cell) bool {
	_, ok := s[c]
	return ok
}

// Blocked reports whether c is blocked. A nil set blocks nothing.
func (s Set) Blocked(c core.Cell) bool {
	return s.Contains(c)
}

// Len returns the number of blocked cells.
func (s Set) Len() int {
	return len(s)
}

// FromCells builds a set from a list of cells.
func FromCells(cells ...core.Cell) Set {
	s := make(Set, len(cells))
	for _, c := range cells {
		s[c] = struct{}{}
	}
	return s
}
