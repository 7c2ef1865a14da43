package pathfinding

import (
	"time"

	"schemroute/core"
	"schemroute/geometry"
	"schemroute/grid"
)

// bestFirst is the open/closed-set search shared by A* and Dijkstra. Each
// move costs one unit; nodes are ordered by g + heuristic with ties broken
// by insertion order.
type bestFirst struct {
	id            StrategyID
	maxIterations int
	heuristic     func(from, goal core.Cell) int
}

// AStarPathFinder searches with the Manhattan-distance heuristic.
type AStarPathFinder struct {
	bestFirst
}

// NewAStar creates an A* path finder.
func NewAStar(opts Options) *AStarPathFinder {
	return &AStarPathFinder{bestFirst{
		id:            AStar,
		maxIterations: opts.maxIterations(),
		heuristic:     geometry.Manhattan,
	}}
}

// ID returns the strategy this search implements.
func (b *bestFirst) ID() StrategyID {
	return b.id
}

// FindPath runs the search. Every non-stale pop, including the goal's,
// counts as one iteration.
func (b *bestFirst) FindPath(start, goal core.Cell, blocked func(core.Cell) bool, bounds core.Rect) Result {
	began := time.Now()
	if !usable(start, blocked, bounds) || !usable(goal, blocked, bounds) {
		return notFound(0, began)
	}

	open := &openSet{}
	gCost := map[core.Cell]int{start: 0}
	parent := make(map[core.Cell]core.Cell)
	closed := make(map[core.Cell]bool)

	open.push(start, 0, b.heuristic(start, goal))
	iterations := 0

	for open.size() > 0 {
		current := open.pop()
		if closed[current.cell] || current.g > gCost[current.cell] {
			continue // stale entry
		}
		if iterations >= b.maxIterations {
			return notFound(iterations, began)
		}
		iterations++

		if current.cell == goal {
			return Result{
				Path:       reconstructPath(parent, start, goal),
				Found:      true,
				Iterations: iterations,
				Elapsed:    time.Since(began),
			}
		}
		closed[current.cell] = true

		for _, next := range grid.Neighbors(current.cell) {
			if closed[next] || !usable(next, blocked, bounds) {
				continue
			}
			g := current.g + 1
			if known, seen := gCost[next]; seen && g >= known {
				continue
			}
			gCost[next] = g
			parent[next] = current.cell
			open.push(next, g, g+b.heuristic(next, goal))
		}
	}

	return notFound(iterations, began)
}

// reconstructPath walks parent links back from goal.
func reconstructPath(parent map[core.Cell]core.Cell, start, goal core.Cell) core.Path {
	var reversed core.Path
	for c := goal; ; c = parent[c] {
		reversed = append(reversed, c)
		if c == start {
			break
		}
	}
	path := make(core.Path, len(reversed))
	for i, c := range reversed {
		path[len(reversed)-1-i] = c
	}
	return path
}
