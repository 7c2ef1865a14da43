package pathfinding

import (
	"math"
	"time"

	"schemroute/core"
	"schemroute/geometry"
	"schemroute/grid"
)

// IDAStarPathFinder runs depth-first searches bounded by an f = g + h
// threshold, raising the threshold to the smallest f that exceeded it until
// the goal is reached. It keeps no open or closed set; only the cells on the
// current path are remembered, to avoid walking in circles.
//
// Iterations accumulate across threshold passes: every cell whose f fits
// the current threshold counts once each time it is visited, so cells are
// counted again on each deeper pass.
type IDAStarPathFinder struct {
	maxIterations int
}

// NewIDAStar creates an IDA* path finder.
func NewIDAStar(opts Options) *IDAStarPathFinder {
	return &IDAStarPathFinder{maxIterations: opts.maxIterations()}
}

// ID returns IDAStar.
func (f *IDAStarPathFinder) ID() StrategyID {
	return IDAStar
}

// idaSearch holds the state of one FindPath call.
type idaSearch struct {
	goal       core.Cell
	blocked    func(core.Cell) bool
	bounds     core.Rect
	threshold  int
	path       core.Path
	onPath     map[core.Cell]bool
	iterations int
	limit      int
	aborted    bool
}

// FindPath runs the search.
func (f *IDAStarPathFinder) FindPath(start, goal core.Cell, blocked func(core.Cell) bool, bounds core.Rect) Result {
	began := time.Now()
	if !usable(start, blocked, bounds) || !usable(goal, blocked, bounds) {
		return notFound(0, began)
	}

	s := &idaSearch{
		goal:      goal,
		blocked:   blocked,
		bounds:    bounds,
		threshold: geometry.Manhattan(start, goal),
		path:      core.Path{start},
		onPath:    map[core.Cell]bool{start: true},
		limit:     f.maxIterations,
	}

	// A simple path never has more moves than the bounds have cells.
	maxThreshold := bounds.Area()

	for {
		next, found := s.search(0)
		if found {
			path := make(core.Path, len(s.path))
			copy(path, s.path)
			return Result{
				Path:       path,
				Found:      true,
				Iterations: s.iterations,
				Elapsed:    time.Since(began),
			}
		}
		if s.aborted || next == math.MaxInt || next > maxThreshold {
			return notFound(s.iterations, began)
		}
		s.threshold = next
	}
}

// search extends the path from its last cell. It returns the smallest f
// that exceeded the threshold, or found == true with s.path ending at goal.
func (s *idaSearch) search(g int) (next int, found bool) {
	cell := s.path[len(s.path)-1]
	f := g + geometry.Manhattan(cell, s.goal)
	if f > s.threshold {
		return f, false
	}
	if s.iterations >= s.limit {
		s.aborted = true
		return math.MaxInt, false
	}
	s.iterations++

	if cell == s.goal {
		return f, true
	}

	next = math.MaxInt
	for _, n := range grid.Neighbors(cell) {
		if s.onPath[n] || !usable(n, s.blocked, s.bounds) {
			continue
		}
		s.path = append(s.path, n)
		s.onPath[n] = true

		t, ok := s.search(g + 1)
		if ok {
			return t, true
		}

		s.path = s.path[:len(s.path)-1]
		delete(s.onPath, n)

		if s.aborted {
			return math.MaxInt, false
		}
		if t < next {
			next = t
		}
	}
	return next, false
}
