package obstacles

import "schemroute/core"

// Scatter blocks roughly density (0..1) of the cells inside bounds using a
// deterministic integer hash, so the same arguments always give the same
// field. Cells listed in keep are left open.
func Scatter(bounds core.Rect, density float64, seed uint32, keep ...core.Cell) Set {
	s := make(Set)
	if density <= 0 {
		return s
	}
	threshold := uint32(density * 1000)
	for row := bounds.Min.Row; row < bounds.Max.Row; row++ {
		for col := bounds.Min.Col; col < bounds.Max.Col; col++ {
			hash := uint32(col*7919+row*1337) + seed*2654435761
			hash = (hash ^ (hash >> 16)) * 0x45d9f3b
			hash = hash ^ (hash >> 16)
			if hash%1000 < threshold {
				s[core.Cell{Col: col, Row: row}] = struct{}{}
			}
		}
	}
	for _, c := range keep {
		delete(s, c)
	}
	return s
}
