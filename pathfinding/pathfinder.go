// Package pathfinding finds orthogonal, obstacle-avoiding paths between grid
// cells. Three interchangeable strategies share one contract so their paths
// and effort can be compared side by side.
package pathfinding

import (
	"strings"
	"time"

	"schemroute/core"
	"schemroute/rerrors"
)

// DefaultMaxIterations caps the expansions a single search may perform.
const DefaultMaxIterations = 200000

// StrategyID names one of the fixed search strategies.
type StrategyID int

const (
	AStar StrategyID = iota
	IDAStar
	Dijkstra
)

// AllStrategies returns every strategy in display order.
func AllStrategies() []StrategyID {
	return []StrategyID{AStar, IDAStar, Dijkstra}
}

// String returns the display name of the strategy.
func (s StrategyID) String() string {
	switch s {
	case AStar:
		return "A*"
	case IDAStar:
		return "IDA*"
	case Dijkstra:
		return "Dijkstra"
	default:
		return "Unknown"
	}
}

// Key returns the configuration name of the strategy.
func (s StrategyID) Key() string {
	switch s {
	case AStar:
		return "astar"
	case IDAStar:
		return "idastar"
	case Dijkstra:
		return "dijkstra"
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of the known strategies.
func (s StrategyID) Valid() bool {
	return s >= AStar && s <= Dijkstra
}

// ParseStrategy accepts either the key ("astar") or display name ("A*"), case-insensitively.
func ParseStrategy(name string) (StrategyID, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, s := range AllStrategies() {
		if n == s.Key() || n == strings.ToLower(s.String()) {
			return s, nil
		}
	}
	return 0, rerrors.New(rerrors.ErrCodeInvalidRequest, "unknown routing strategy %q", name)
}

// Result is the outcome of one FindPath call. A search that could not reach
// the goal returns Found == false and an empty Path; this is an ordinary
// outcome, not an error.
type Result struct {
	Path       core.Path
	Found      bool
	Iterations int
	Elapsed    time.Duration
}

// Strategy finds a path from start to goal. Cells for which blocked returns
// true, and cells outside bounds, are never entered.
type Strategy interface {
	ID() StrategyID
	FindPath(start, goal core.Cell, blocked func(core.Cell) bool, bounds core.Rect) Result
}

// Options tunes the search limits shared by all strategies.
type Options struct {
	MaxIterations int
}

// DefaultOptions returns the standard search limits.
func DefaultOptions() Options {
	return Options{MaxIterations: DefaultMaxIterations}
}

func (o Options) maxIterations() int {
	if o.MaxIterations <= 0 {
		return DefaultMaxIterations
	}
	return o.MaxIterations
}

// New creates the strategy named by id.
func New(id StrategyID, opts Options) (Strategy, error) {
	switch id {
	case AStar:
		return NewAStar(opts), nil
	case IDAStar:
		return NewIDAStar(opts), nil
	case Dijkstra:
		return NewDijkstra(opts), nil
	default:
		return nil, rerrors.New(rerrors.ErrCodeInvalidRequest, "unknown routing strategy %d", int(id))
	}
}

// usable reports whether a search may stand on c.
func usable(c core.Cell, blocked func(core.Cell) bool, bounds core.Rect) bool {
	if !bounds.Contains(c) {
		return false
	}
	return blocked == nil || !blocked(c)
}

// notFound finishes a failed search.
func notFound(iterations int, began time.Time) Result {
	return Result{Iterations: iterations, Elapsed: time.Since(began)}
}
