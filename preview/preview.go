// Package preview draws a routed board on a terminal screen. Each grid cell
// maps to one screen cell. Comparison layers are painted in ascending
// z-order so the highest layer ends up on top.
package preview

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"schemroute/core"
	"schemroute/pathfinding"
	"schemroute/routing"
)

var (
	componentStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	labelStyle     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	statusStyle    = tcell.StyleDefault.Foreground(tcell.ColorSilver)
)

// Preview renders one harness.
type Preview struct {
	harness *routing.Harness
	lines   LineStyle
	origin  core.Cell
}

// New creates a preview of h drawn with Unicode box characters.
func New(h *routing.Harness) *Preview {
	return &Preview{harness: h, lines: UnicodeLines()}
}

// SetLines replaces the line characters.
func (p *Preview) SetLines(s LineStyle) {
	p.lines = s
}

// Frame returns the cell rect holding every component and wire, with a
// one-cell border.
func (p *Preview) Frame() core.Rect {
	g := p.harness.Grid()
	var r core.Rect
	for _, c := range p.harness.Board().Components() {
		r = r.Union(g.BoxCells(c.Bounds))
	}
	for _, v := range p.harness.Render() {
		for _, c := range g.RasterizePoints(v.Active) {
			r = r.Union(core.CellRect(c))
		}
		for _, l := range v.Layers {
			for _, c := range g.RasterizePoints(l.Points) {
				r = r.Union(core.CellRect(c))
			}
		}
	}
	return r.Inset(1)
}

// Draw paints the board and the status line, then shows the screen.
func (p *Preview) Draw(s tcell.Screen) {
	s.Clear()
	p.origin = p.Frame().Min
	p.drawBoard(s)
	p.drawStatus(s)
	s.Show()
}

func (p *Preview) drawBoard(s tcell.Screen) {
	g := p.harness.Grid()
	for _, c := range p.harness.Board().Components() {
		p.drawComponent(s, g.BoxCells(c.Bounds), string(c.ID))
	}

	reg := p.harness.Registry()
	for _, v := range p.harness.Render() {
		if len(v.Layers) == 0 {
			// routed outside comparison mode: draw the active polyline in
			// its strategy's color
			if l := reg.Layer(v.Algorithm); l != nil {
				p.drawPolyline(s, v.Active, styleFor(l.Color))
			}
			continue
		}
		for _, l := range v.Layers {
			if l.Visible {
				p.drawPolyline(s, l.Points, styleFor(l.Color))
			}
		}
	}
}

func styleFor(color string) tcell.Style {
	return tcell.StyleDefault.Foreground(tcell.GetColor(color))
}

func (p *Preview) screenPos(c core.Cell) (int, int) {
	return c.Col - p.origin.Col, c.Row - p.origin.Row
}

// put merges line bits into whatever line is already on screen.
func (p *Preview) put(s tcell.Screen, c core.Cell, m int, style tcell.Style) {
	x, y := p.screenPos(c)
	prev, _, _, _ := s.GetContent(x, y)
	s.SetContent(x, y, p.lines.Runes[m|p.lines.mask(prev)], nil, style)
}

func (p *Preview) drawComponent(s tcell.Screen, r core.Rect, label string) {
	last := core.Cell{Col: r.Max.Col - 1, Row: r.Max.Row - 1}
	for col := r.Min.Col; col <= last.Col; col++ {
		for _, row := range []int{r.Min.Row, last.Row} {
			m := 0
			if col > r.Min.Col {
				m |= left
			}
			if col < last.Col {
				m |= right
			}
			if row == r.Min.Row && last.Row > r.Min.Row {
				m |= down
			}
			if row == last.Row && last.Row > r.Min.Row {
				m |= up
			}
			if col == r.Min.Col || col == last.Col {
				p.put(s, core.Cell{Col: col, Row: row}, m, componentStyle)
			} else {
				p.put(s, core.Cell{Col: col, Row: row}, m&(left|right), componentStyle)
			}
		}
	}
	for row := r.Min.Row + 1; row < last.Row; row++ {
		p.put(s, core.Cell{Col: r.Min.Col, Row: row}, up|down, componentStyle)
		p.put(s, core.Cell{Col: last.Col, Row: row}, up|down, componentStyle)
	}

	x, y := p.screenPos(core.Cell{Col: r.Min.Col + 1, Row: r.Min.Row})
	for i, ch := range []rune(label) {
		if i >= r.Width()-2 {
			break
		}
		s.SetContent(x+i, y, ch, nil, labelStyle)
	}
}

func (p *Preview) drawPolyline(s tcell.Screen, pts []core.Point, style tcell.Style) {
	cells := p.harness.Grid().RasterizePoints(pts)
	if len(cells) == 0 {
		return
	}
	for i, m := range cellMasks(cells) {
		p.put(s, cells[i], m, style)
	}
	for _, end := range []core.Cell{cells[0], cells[len(cells)-1]} {
		x, y := p.screenPos(end)
		s.SetContent(x, y, p.lines.Terminal, nil, style)
	}
}

// drawStatus writes the layer toggles on the bottom row.
func (p *Preview) drawStatus(s tcell.Screen) {
	_, h := s.Size()
	x := 0
	reg := p.harness.Registry()
	for i, id := range pathfinding.AllStrategies() {
		l := reg.Layer(id)
		style := statusStyle.Dim(true)
		state := "off"
		if l.Visible {
			style = styleFor(l.Color)
			state = "on"
		}
		x = drawText(s, x, h-1, fmt.Sprintf("[%d] %s %s  ", i+1, l.Name(), state), style)
	}
	drawText(s, x, h-1, "[q] quit", statusStyle)
}

func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) int {
	for _, ch := range text {
		s.SetContent(x, y, ch, nil, style)
		x++
	}
	return x
}

// Run draws the board and handles keys until the user quits. Keys 1-3
// toggle the layer of the matching strategy.
func (p *Preview) Run(s tcell.Screen) error {
	for {
		p.Draw(s)
		ev := s.PollEvent()
		if ev == nil {
			return nil
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			s.Sync()
		case *tcell.EventKey:
			quit, err := p.handleKey(ev)
			if quit || err != nil {
				return err
			}
		}
	}
}

func (p *Preview) handleKey(ev *tcell.EventKey) (bool, error) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true, nil
	case tcell.KeyRune:
	default:
		return false, nil
	}

	r := ev.Rune()
	if r == 'q' {
		return true, nil
	}
	all := pathfinding.AllStrategies()
	n := int(r - '1')
	if n < 0 || n >= len(all) {
		return false, nil
	}
	l := p.harness.Registry().Layer(all[n])
	return false, p.harness.SetLayerVisible(all[n], !l.Visible)
}

// Show opens the terminal, runs the preview and restores the terminal.
func Show(h *routing.Harness) error {
	s, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := s.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer s.Fini()
	return New(h).Run(s)
}
