package pathfinding

import "schemroute/core"

// DijkstraPathFinder is uniform-cost search: A* with a zero heuristic.
type DijkstraPathFinder struct {
	bestFirst
}

// NewDijkstra creates a Dijkstra path finder.
func NewDijkstra(opts Options) *DijkstraPathFinder {
	return &DijkstraPathFinder{bestFirst{
		id:            Dijkstra,
		maxIterations: opts.maxIterations(),
		heuristic:     func(core.Cell, core.Cell) int { return 0 },
	}}
}
