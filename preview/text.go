package preview

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Text renders the board without colors or the status line, one string
// line per grid row with trailing blanks trimmed.
func (p *Preview) Text() (string, error) {
	frame := p.Frame()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		return "", err
	}
	defer s.Fini()
	s.SetSize(frame.Width(), frame.Height())

	s.Clear()
	p.origin = frame.Min
	p.drawBoard(s)
	s.Show()

	cells, w, h := s.GetContents()
	var b strings.Builder
	line := make([]rune, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			line[x] = ' '
			if rs := cells[y*w+x].Runes; len(rs) > 0 {
				line[x] = rs[0]
			}
		}
		b.WriteString(strings.TrimRight(string(line), " "))
		b.WriteByte('\n')
	}
	return b.String(), nil
}
