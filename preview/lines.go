package preview

import "schemroute/core"

// Connection bits of one screen cell.
const (
	up = 1 << iota
	down
	left
	right
)

// LineStyle maps a cell's connection mask to the rune drawn there.
type LineStyle struct {
	Runes    [16]rune
	Terminal rune
}

// UnicodeLines draws with box-drawing characters.
func UnicodeLines() LineStyle {
	var s LineStyle
	s.Runes = [16]rune{
		0:                        ' ',
		up:                       '│',
		down:                     '│',
		up | down:                '│',
		left:                     '─',
		right:                    '─',
		left | right:             '─',
		down | right:             '┌',
		down | left:              '┐',
		up | right:               '└',
		up | left:                '┘',
		up | down | right:        '├',
		up | down | left:         '┤',
		left | right | down:      '┬',
		left | right | up:        '┴',
		up | down | left | right: '┼',
	}
	s.Terminal = '•'
	return s
}

// ASCIILines draws with plain ASCII for terminals without Unicode support.
func ASCIILines() LineStyle {
	var s LineStyle
	for m := range s.Runes {
		switch {
		case m == 0:
			s.Runes[m] = ' '
		case m&(left|right) == 0:
			s.Runes[m] = '|'
		case m&(up|down) == 0:
			s.Runes[m] = '-'
		default:
			s.Runes[m] = '+'
		}
	}
	s.Terminal = 'o'
	return s
}

// mask returns the connection bits of r, or 0 if r is not a line rune.
func (s LineStyle) mask(r rune) int {
	// Exact corners and tees first; straight runes map to their full span.
	for m := len(s.Runes) - 1; m > 0; m-- {
		if s.Runes[m] == r {
			return m
		}
	}
	return 0
}

// toward returns the bit for the move from c to n.
func toward(c, n core.Cell) int {
	switch {
	case n.Row < c.Row:
		return up
	case n.Row > c.Row:
		return down
	case n.Col < c.Col:
		return left
	case n.Col > c.Col:
		return right
	}
	return 0
}

// cellMasks returns the connection mask of every cell on a rasterized path.
func cellMasks(cells []core.Cell) []int {
	masks := make([]int, len(cells))
	for i, c := range cells {
		if i > 0 {
			masks[i] |= toward(c, cells[i-1])
		}
		if i < len(cells)-1 {
			masks[i] |= toward(c, cells[i+1])
		}
	}
	return masks
}
