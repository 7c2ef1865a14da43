package obstacles

import (
	"strings"

	"schemroute/core"
)

// Map chars used by Render.
const (
	BlockedChar = '#'
	OpenChar    = '.'
	PathChar    = '*'
)

// Render draws the blocked cells inside bounds as an ASCII map, one row per
// line. Cells on any of the given paths are drawn with PathChar.
func Render(s Set, bounds core.Rect, paths ...[]core.Cell) string {
	onPath := make(map[core.Cell]bool)
	for _, p := range paths {
		for _, c := range p {
			onPath[c] = true
		}
	}

	var b strings.Builder
	for row := bounds.Min.Row; row < bounds.Max.Row; row++ {
		for col := bounds.Min.Col; col < bounds.Max.Col; col++ {
			c := core.Cell{Col: col, Row: row}
			switch {
			case onPath[c]:
				b.WriteRune(PathChar)
			case s.Contains(c):
				b.WriteRune(BlockedChar)
			default:
				b.WriteRune(OpenChar)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// ParseMap reads an ASCII map where 'X' or '#' marks a blocked cell. The
// first character of the first non-empty line is cell (0,0).
func ParseMap(m string) Set {
	s := make(Set)
	lines := strings.Split(strings.TrimSpace(m), "\n")
	for row, line := range lines {
		for col, ch := range strings.TrimSpace(line) {
			if ch == 'X' || ch == BlockedChar {
				s[core.Cell{Col: col, Row: row}] = struct{}{}
			}
		}
	}
	return s
}
