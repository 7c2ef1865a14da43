// Package geometry holds the small integer helpers used by the grid and the search strategies.
package geometry

import "schemroute/core"

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Sign returns -1, 0 or 1 matching the sign of x.
func Sign(x int) int {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	default:
		return 0
	}
}

// Manhattan returns the 4-connected distance between two cells.
func Manhattan(a, b core.Cell) int {
	return Abs(b.Col-a.Col) + Abs(b.Row-a.Row)
}
