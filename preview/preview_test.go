package preview

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"schemroute/circuit"
	"schemroute/core"
	"schemroute/pathfinding"
	"schemroute/routing"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

// straightBoard has two parts connected by a wire along row 1:
//
//	A cols 0-2, B cols 10-12, wire (2,1) -> (10,1).
func straightBoard(t *testing.T) *routing.Harness {
	t.Helper()
	h := routing.New(nil, routing.DefaultOptions())
	_ = h.AddComponent(circuit.Component{ID: "A", Bounds: core.Box{Width: 20, Height: 20}, Terminals: []core.Point{{X: 20, Y: 10}}})
	_ = h.AddComponent(circuit.Component{ID: "B", Bounds: core.Box{X: 100, Width: 20, Height: 20}, Terminals: []core.Point{{X: 0, Y: 10}}})
	if _, err := h.Connect(core.TerminalRef{Component: "A"}, core.TerminalRef{Component: "B"}); err != nil {
		t.Fatal(err)
	}
	return h
}

func row(s tcell.SimulationScreen, y int) string {
	cells, w, _ := s.GetContents()
	out := make([]rune, w)
	for x := 0; x < w; x++ {
		out[x] = ' '
		if rs := cells[y*w+x].Runes; len(rs) > 0 {
			out[x] = rs[0]
		}
	}
	return string(out)
}

func fg(s tcell.SimulationScreen, x, y int) tcell.Color {
	cells, w, _ := s.GetContents()
	c, _, _ := cells[y*w+x].Style.Decompose()
	return c
}

func TestDrawStraightWire(t *testing.T) {
	h := straightBoard(t)
	s := newScreen(t, 16, 6)
	p := New(h)

	if got := p.Frame(); got != (core.Rect{Min: core.Cell{Col: -1, Row: -1}, Max: core.Cell{Col: 14, Row: 4}}) {
		t.Fatalf("Frame = %+v", got)
	}
	p.Draw(s)

	want := []string{
		"                ",
		" ┌A┐       ┌B┐  ",
		" │ •───────• │  ",
		" └─┘       └─┘  ",
	}
	for y, line := range want {
		if got := row(s, y); got != line {
			t.Errorf("row %d:\n got %q\nwant %q", y, got, line)
		}
	}

	astar := tcell.GetColor(h.Registry().Layer(pathfinding.AStar).Color)
	if fg(s, 5, 2) != astar {
		t.Error("active polyline should use the default strategy's color")
	}
	if fg(s, 1, 2) == astar {
		t.Error("component outline should not use a layer color")
	}
}

func TestDrawASCII(t *testing.T) {
	h := straightBoard(t)
	s := newScreen(t, 16, 6)
	p := New(h)
	p.SetLines(ASCIILines())
	p.Draw(s)

	if got := row(s, 1); got != " +A+       +B+  " {
		t.Errorf("top row = %q", got)
	}
	if got := row(s, 2); got != " | o-------o |  " {
		t.Errorf("wire row = %q", got)
	}
}

func TestJunctionsMerge(t *testing.T) {
	h := routing.New(nil, routing.DefaultOptions())
	s := newScreen(t, 10, 10)
	p := New(h)
	p.origin = core.Cell{}
	s.Clear()

	g := h.Grid()
	p.drawPolyline(s, []core.Point{g.ToPoint(core.Cell{Col: 0, Row: 2}), g.ToPoint(core.Cell{Col: 4, Row: 2})}, tcell.StyleDefault)
	p.drawPolyline(s, []core.Point{g.ToPoint(core.Cell{Col: 2, Row: 0}), g.ToPoint(core.Cell{Col: 2, Row: 4})}, tcell.StyleDefault)
	s.Show()

	if got := string([]rune(row(s, 2))[:5]); got != "•─┼─•" {
		t.Errorf("crossing row = %q", got)
	}
}

func countColor(s tcell.SimulationScreen, c tcell.Color) int {
	cells, _, _ := s.GetContents()
	n := 0
	for _, cell := range cells {
		if fg, _, _ := cell.Style.Decompose(); fg == c {
			n++
		}
	}
	return n
}

func TestHiddenLayersAreNotDrawn(t *testing.T) {
	h := straightBoard(t)
	_ = h.SetActiveStrategies(pathfinding.AllStrategies())
	if err := h.RerouteAll(); err != nil {
		t.Fatal(err)
	}

	s := newScreen(t, 40, 8)
	p := New(h)
	astar := tcell.GetColor(h.Registry().Layer(pathfinding.AStar).Color)
	idastar := tcell.GetColor(h.Registry().Layer(pathfinding.IDAStar).Color)

	p.Draw(s)
	if countColor(s, astar) == 0 {
		t.Fatal("A* should be drawn on top")
	}

	_ = h.SetLayerVisible(pathfinding.AStar, false)
	p.Draw(s)
	if n := countColor(s, astar); n != 0 {
		t.Errorf("hidden A* layer still colors %d cells", n)
	}
	if countColor(s, idastar) == 0 {
		t.Error("IDA* should show once A* is hidden")
	}
}

func TestRunTogglesLayers(t *testing.T) {
	h := straightBoard(t)
	s := newScreen(t, 40, 8)

	s.InjectKey(tcell.KeyRune, '2', tcell.ModNone)
	s.InjectKey(tcell.KeyRune, '9', tcell.ModNone)
	s.InjectKey(tcell.KeyRune, '3', tcell.ModNone)
	s.InjectKey(tcell.KeyRune, '3', tcell.ModNone)
	s.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	if err := New(h).Run(s); err != nil {
		t.Fatal(err)
	}

	reg := h.Registry()
	if reg.Layer(pathfinding.IDAStar).Visible {
		t.Error("key 2 should hide the IDA* layer")
	}
	if !reg.Layer(pathfinding.Dijkstra).Visible || !reg.Layer(pathfinding.AStar).Visible {
		t.Error("other layers should stay visible")
	}
	if got := row(s, 7); got[:14] != "[1] A* on  [2]" {
		t.Errorf("status line = %q", got)
	}
}

func TestRunQuitsOnEscape(t *testing.T) {
	s := newScreen(t, 20, 5)
	s.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
	if err := New(routing.New(nil, routing.DefaultOptions())).Run(s); err != nil {
		t.Fatal(err)
	}
}

func TestText(t *testing.T) {
	p := New(straightBoard(t))
	p.SetLines(ASCIILines())

	got, err := p.Text()
	if err != nil {
		t.Fatal(err)
	}
	want := "\n" +
		" +A+       +B+\n" +
		" | o-------o |\n" +
		" +-+       +-+\n" +
		"\n"
	if got != want {
		t.Errorf("Text() =\n%s\nwant\n%s", got, want)
	}
}
