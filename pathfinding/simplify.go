package pathfinding

import (
	"fmt"
	"strings"

	"schemroute/core"
	"schemroute/geometry"
	"schemroute/grid"
)

// direction returns the unit heading from a to b, diagonal for non-orthogonal pairs.
func direction(a, b core.Cell) core.Cell {
	return core.Cell{
		Col: geometry.Sign(b.Col - a.Col),
		Row: geometry.Sign(b.Row - a.Row),
	}
}

// SimplifyCells keeps the first cell, every cell where the heading changes,
// and the last cell. Repeated cells are dropped. Works on raw paths and on
// already-simplified corner lists alike.
func SimplifyCells(cells []core.Cell) []core.Cell {
	deduped := make([]core.Cell, 0, len(cells))
	for i, c := range cells {
		if i > 0 && c == cells[i-1] {
			continue
		}
		deduped = append(deduped, c)
	}
	if len(deduped) <= 2 {
		return deduped
	}

	simplified := []core.Cell{deduped[0]}
	for i := 1; i < len(deduped)-1; i++ {
		if direction(deduped[i-1], deduped[i]) != direction(deduped[i], deduped[i+1]) {
			simplified = append(simplified, deduped[i])
		}
	}
	return append(simplified, deduped[len(deduped)-1])
}

// Simplify turns a raw cell path into the waypoint polyline stored on a wire.
func Simplify(g grid.Grid, cells []core.Cell) []core.Point {
	corners := SimplifyCells(cells)
	points := make([]core.Point, len(corners))
	for i, c := range corners {
		points[i] = g.ToPoint(c)
	}
	return points
}

// Bends returns the number of direction changes along a path.
func Bends(cells []core.Cell) int {
	n := len(SimplifyCells(cells)) - 2
	if n < 0 {
		return 0
	}
	return n
}

// ValidatePath checks that path runs from start to goal through unblocked,
// 4-adjacent cells.
func ValidatePath(path core.Path, start, goal core.Cell, blocked func(core.Cell) bool) error {
	if path.IsEmpty() {
		return fmt.Errorf("path is empty")
	}
	if path[0] != start {
		return fmt.Errorf("path starts at %v, want %v", path[0], start)
	}
	if path[len(path)-1] != goal {
		return fmt.Errorf("path ends at %v, want %v", path[len(path)-1], goal)
	}
	for i, c := range path {
		if blocked != nil && blocked(c) {
			return fmt.Errorf("path crosses blocked cell %v at index %d", c, i)
		}
		if i > 0 && !path[i-1].Adjacent(c) {
			return fmt.Errorf("path not continuous at %d: %v -> %v", i, path[i-1], c)
		}
	}
	return nil
}

// PathToString converts a path to a string representation for debugging.
func PathToString(path core.Path) string {
	if path.IsEmpty() {
		return "empty path"
	}
	parts := make([]string, len(path))
	for i, c := range path {
		parts[i] = c.String()
	}
	return fmt.Sprintf("Path (moves=%d): %s", path.Moves(), strings.Join(parts, " → "))
}
