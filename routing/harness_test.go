package routing

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"schemroute/circuit"
	"schemroute/config"
	"schemroute/core"
	"schemroute/obstacles"
	"schemroute/pathfinding"
	"schemroute/rerrors"
)

// testHarness places two resistors on row 1 with a block between them:
//
//	R1 cols 0-4, R2 cols 20-24, C1 cols 10-12, all on rows 0-2.
//
// R1:1 sits at cell (4,1) and R2:0 at cell (20,1).
func testHarness(t *testing.T, opts Options) *Harness {
	t.Helper()
	h := New(nil, opts)
	n := 0
	h.Board().SetIDGenerator(func() core.WireID {
		n++
		return core.WireID(fmt.Sprintf("w%d", n))
	})
	for _, c := range []circuit.Component{
		{ID: "R1", Bounds: core.Box{X: 0, Y: 0, Width: 40, Height: 20}, Terminals: []core.Point{{X: 0, Y: 10}, {X: 40, Y: 10}}},
		{ID: "R2", Bounds: core.Box{X: 200, Y: 0, Width: 40, Height: 20}, Terminals: []core.Point{{X: 0, Y: 10}, {X: 40, Y: 10}}},
		{ID: "C1", Bounds: core.Box{X: 100, Y: 0, Width: 20, Height: 20}},
	} {
		if err := h.AddComponent(c); err != nil {
			t.Fatal(err)
		}
	}
	return h
}

var (
	r1Out = core.TerminalRef{Component: "R1", Index: 1}
	r1In  = core.TerminalRef{Component: "R1", Index: 0}
	r2In  = core.TerminalRef{Component: "R2", Index: 0}
	r2Out = core.TerminalRef{Component: "R2", Index: 1}
)

// checkPolyline asserts that the waypoints rasterize to a valid path
// avoiding the block between the resistors.
func checkPolyline(t *testing.T, h *Harness, pts []core.Point, from, to core.Point) {
	t.Helper()
	if len(pts) < 2 {
		t.Fatalf("expected a polyline, got %v", pts)
	}
	if pts[0] != from || pts[len(pts)-1] != to {
		t.Errorf("polyline runs %v -> %v, want %v -> %v", pts[0], pts[len(pts)-1], from, to)
	}
	block := core.Rect{Min: core.Cell{Col: 10, Row: 0}, Max: core.Cell{Col: 13, Row: 3}}
	cells := h.Grid().RasterizePoints(pts)
	err := pathfinding.ValidatePath(cells, cells[0], cells[len(cells)-1], func(c core.Cell) bool {
		return block.Contains(c)
	})
	if err != nil {
		t.Errorf("invalid route: %v", err)
	}
}

func TestConnectComparesEveryStrategy(t *testing.T) {
	h := testHarness(t, DefaultOptions())
	if err := h.SetActiveStrategies(pathfinding.AllStrategies()); err != nil {
		t.Fatal(err)
	}

	w, err := h.Connect(r1Out, r2In)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if w.ID != "w1" || w.Algorithm != pathfinding.AStar {
		t.Errorf("wire = %s routed by %v", w.ID, w.Algorithm)
	}
	checkPolyline(t, h, w.Waypoints, core.Point{X: 40, Y: 10}, core.Point{X: 200, Y: 10})

	if len(w.Routes) != 3 || len(w.Unrouted) != 0 {
		t.Fatalf("expected 3 routes and no failures, got %d routes, unrouted %v", len(w.Routes), w.Unrouted)
	}
	for id, r := range w.Routes {
		// 16 columns plus a 2-row detour each way around the block
		if r.Cells != 21 {
			t.Errorf("%v: path has %d cells, want 21", id, r.Cells)
		}
		checkPolyline(t, h, r.Waypoints, core.Point{X: 40, Y: 10}, core.Point{X: 200, Y: 10})
	}
	if !reflect.DeepEqual(w.Waypoints, w.Routes[pathfinding.AStar].Waypoints) {
		t.Error("active polyline should be the default strategy's route")
	}
	if w.Routes[pathfinding.AStar].Iterations > w.Routes[pathfinding.Dijkstra].Iterations {
		t.Errorf("A* expanded %d cells, Dijkstra %d", w.Routes[pathfinding.AStar].Iterations, w.Routes[pathfinding.Dijkstra].Iterations)
	}

	for name, s := range h.Report() {
		if s.WireCount != 1 {
			t.Errorf("%s: wire count = %d, want 1", name, s.WireCount)
		}
	}
}

func TestConnectWithoutComparison(t *testing.T) {
	h := testHarness(t, DefaultOptions())

	w, err := h.Connect(r1Out, r2In)
	if err != nil {
		t.Fatal(err)
	}
	if w.Routes != nil || w.Unrouted != nil {
		t.Error("comparison data should stay empty outside comparison mode")
	}

	report := h.Report()
	if report["A*"].WireCount != 1 {
		t.Errorf("A* wire count = %d, want 1", report["A*"].WireCount)
	}
	if report["IDA*"].WireCount != 0 || report["Dijkstra"].WireCount != 0 {
		t.Error("strategies that did not run should report nothing")
	}
	if views := h.Render(); len(views) != 1 || len(views[0].Layers) != 0 {
		t.Errorf("render should carry only the active polyline, got %+v", views)
	}
}

func TestConnectInvalidRequest(t *testing.T) {
	canvas := core.Rect{Min: core.Cell{Col: -5, Row: -5}, Max: core.Cell{Col: 10, Row: 10}}
	bounded := DefaultOptions()
	bounded.Canvas = &canvas

	tests := []struct {
		name string
		opts Options
		from core.TerminalRef
		to   core.TerminalRef
		code rerrors.Code
	}{
		{"unknown component", DefaultOptions(), r1Out, core.TerminalRef{Component: "Q9"}, rerrors.ErrCodeUnknownComponent},
		{"unknown terminal", DefaultOptions(), core.TerminalRef{Component: "R1", Index: 2}, r2In, rerrors.ErrCodeUnknownTerminal},
		{"outside canvas", bounded, r1Out, r2In, rerrors.ErrCodeOutOfBounds},
		{"same terminal", DefaultOptions(), r1Out, r1Out, rerrors.ErrCodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := testHarness(t, tt.opts)
			w, err := h.Connect(tt.from, tt.to)
			if w != nil {
				t.Error("no wire should be returned")
			}
			if !rerrors.Is(err, tt.code) || !rerrors.IsInvalidRequest(err) {
				t.Errorf("expected %s, got %v", tt.code, err)
			}
			if len(h.Board().Wires()) != 0 {
				t.Error("no partial wire should be stored")
			}
		})
	}
}

// cage surrounds R2's input terminal so nothing can reach it.
var cage = circuit.Component{ID: "CAGE", Bounds: core.Box{X: 180, Y: -10, Width: 40, Height: 40}}

func TestConnectNotFoundCreatesNoWire(t *testing.T) {
	h := testHarness(t, DefaultOptions())
	if err := h.AddComponent(cage); err != nil {
		t.Fatal(err)
	}

	w, err := h.Connect(r1Out, r2In)
	if w != nil || !rerrors.IsNotFound(err) {
		t.Fatalf("expected NOT_FOUND and no wire, got %v, %v", w, err)
	}
	if len(h.Board().Wires()) != 0 {
		t.Error("failed connection should not store a wire")
	}
	if h.Report()["A*"].WireCount != 0 {
		t.Error("failed search should not be recorded")
	}
}

func TestRerouteNotFoundKeepsWire(t *testing.T) {
	h := testHarness(t, DefaultOptions())
	_ = h.SetActiveStrategies([]pathfinding.StrategyID{pathfinding.AStar, pathfinding.Dijkstra})

	w, err := h.Connect(r1Out, r2In)
	if err != nil {
		t.Fatal(err)
	}
	if err := h.AddComponent(cage); err != nil {
		t.Fatal(err)
	}

	got, err := h.Reroute(w.ID)
	if !rerrors.IsNotFound(err) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
	if got != w || got.Routed() {
		t.Error("wire should be kept without waypoints")
	}
	want := []pathfinding.StrategyID{pathfinding.AStar, pathfinding.Dijkstra}
	if len(got.Routes) != 0 || !reflect.DeepEqual(got.Unrouted, want) {
		t.Errorf("routes = %v, unrouted = %v", got.Routes, got.Unrouted)
	}
	for name, s := range h.Report() {
		if s.WireCount != 0 {
			t.Errorf("%s still counts the unroutable wire", name)
		}
	}
}

func TestRerouteAfterMove(t *testing.T) {
	h := testHarness(t, DefaultOptions())
	_ = h.SetActiveStrategies([]pathfinding.StrategyID{pathfinding.AStar})

	w, err := h.Connect(r1Out, r2In)
	if err != nil {
		t.Fatal(err)
	}
	before := append([]core.Point(nil), w.Waypoints...)

	rerouted, err := h.MoveComponent("R2", 40, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(rerouted) != 1 || rerouted[0] != w {
		t.Fatalf("expected the attached wire to be rerouted, got %v", rerouted)
	}
	if reflect.DeepEqual(before, w.Waypoints) {
		t.Error("waypoints should be replaced")
	}
	checkPolyline(t, h, w.Waypoints, core.Point{X: 40, Y: 10}, core.Point{X: 240, Y: 10})

	agg := h.Registry().Layer(pathfinding.AStar).Aggregate()
	route := w.Routes[pathfinding.AStar]
	if agg.WireCount != 1 || agg.TotalIterations != route.Iterations || agg.TotalRuntime != route.Elapsed {
		t.Errorf("aggregate %+v should hold only the new route %+v", agg, route)
	}
}

func TestMoveOutsideCanvasChangesNothing(t *testing.T) {
	canvas := core.Rect{Min: core.Cell{Col: -5, Row: -5}, Max: core.Cell{Col: 30, Row: 10}}
	opts := DefaultOptions()
	opts.Canvas = &canvas
	h := testHarness(t, opts)

	w, err := h.Connect(r1Out, r2In)
	if err != nil {
		t.Fatal(err)
	}
	before := append([]core.Point(nil), w.Waypoints...)
	agg := h.Registry().Layer(pathfinding.AStar).Aggregate()

	rerouted, err := h.MoveComponent("R2", 1000, 0)
	if !rerrors.Is(err, rerrors.ErrCodeOutOfBounds) {
		t.Fatalf("expected OUT_OF_BOUNDS, got %v", err)
	}
	if rerouted != nil {
		t.Errorf("no wire should be rerouted, got %v", rerouted)
	}
	if c, _ := h.Board().Component("R2"); c.Bounds.X != 200 {
		t.Errorf("R2 moved to x=%v", c.Bounds.X)
	}
	if !reflect.DeepEqual(before, w.Waypoints) {
		t.Errorf("waypoints changed: %v -> %v", before, w.Waypoints)
	}
	if got := h.Registry().Layer(pathfinding.AStar).Aggregate(); got != agg {
		t.Errorf("aggregate changed: %+v -> %+v", agg, got)
	}

	if _, err := h.MoveComponent("R2", 40, 0); err != nil {
		t.Fatalf("move inside the canvas: %v", err)
	}
	checkPolyline(t, h, w.Waypoints, core.Point{X: 40, Y: 10}, core.Point{X: 240, Y: 10})
}

func TestAggregatesTrackWires(t *testing.T) {
	h := testHarness(t, DefaultOptions())
	_ = h.SetActiveStrategies([]pathfinding.StrategyID{pathfinding.AStar})

	var wires []*circuit.Wire
	for _, pair := range [][2]core.TerminalRef{{r1Out, r2In}, {r1In, r2Out}, {r2Out, r1In}} {
		w, err := h.Connect(pair[0], pair[1])
		if err != nil {
			t.Fatalf("Connect %v -> %v: %v", pair[0], pair[1], err)
		}
		wires = append(wires, w)
	}

	check := func(ws []*circuit.Wire) {
		t.Helper()
		var iters int
		var runtime time.Duration
		for _, w := range ws {
			iters += w.Routes[pathfinding.AStar].Iterations
			runtime += w.Routes[pathfinding.AStar].Elapsed
		}
		s := h.Report()["A*"]
		if s.WireCount != len(ws) {
			t.Fatalf("wire count = %d, want %d", s.WireCount, len(ws))
		}
		if len(ws) == 0 {
			return
		}
		if s.AvgIterations != float64(iters)/float64(len(ws)) {
			t.Errorf("avg iterations = %v, want %v", s.AvgIterations, float64(iters)/float64(len(ws)))
		}
		if s.AvgRuntime != runtime/time.Duration(len(ws)) {
			t.Errorf("avg runtime = %v, want %v", s.AvgRuntime, runtime/time.Duration(len(ws)))
		}
	}

	check(wires)

	if err := h.DeleteWire(wires[1].ID); err != nil {
		t.Fatal(err)
	}
	check([]*circuit.Wire{wires[0], wires[2]})

	if _, err := h.Reroute(wires[0].ID); err != nil {
		t.Fatal(err)
	}
	check([]*circuit.Wire{wires[0], wires[2]})

	if err := h.RemoveComponent("R1"); err != nil {
		t.Fatal(err)
	}
	check(nil)
	if len(h.Board().Wires()) != 0 {
		t.Error("removing R1 should delete every wire attached to it")
	}
	if err := h.DeleteWire(wires[0].ID); !rerrors.Is(err, rerrors.ErrCodeUnknownWire) {
		t.Errorf("expected UNKNOWN_WIRE, got %v", err)
	}
}

func TestClearResetsLayers(t *testing.T) {
	h := testHarness(t, DefaultOptions())
	_ = h.SetActiveStrategies([]pathfinding.StrategyID{pathfinding.Dijkstra})
	if _, err := h.Connect(r1Out, r2In); err != nil {
		t.Fatal(err)
	}

	h.Clear()

	if len(h.Board().Components()) != 0 || len(h.Board().Wires()) != 0 {
		t.Error("board should be empty")
	}
	for name, s := range h.Report() {
		if s.WireCount != 0 || s.AvgIterations != 0 || s.AvgRuntime != 0 {
			t.Errorf("%s not reset: %+v", name, s)
		}
	}
	if !reflect.DeepEqual(h.Registry().Active(), []pathfinding.StrategyID{pathfinding.Dijkstra}) {
		t.Error("clearing should keep the comparison selection")
	}
}

func TestRenderLayers(t *testing.T) {
	h := testHarness(t, DefaultOptions())
	_ = h.SetActiveStrategies(pathfinding.AllStrategies())
	w, err := h.Connect(r1Out, r2In)
	if err != nil {
		t.Fatal(err)
	}
	if err := h.SetLayerVisible(pathfinding.IDAStar, false); err != nil {
		t.Fatal(err)
	}

	views := h.Render()
	if len(views) != 1 {
		t.Fatalf("expected one wire view, got %d", len(views))
	}
	v := views[0]
	if v.ID != w.ID || !reflect.DeepEqual(v.Active, w.Waypoints) {
		t.Errorf("view %+v does not match wire", v)
	}

	var order []pathfinding.StrategyID
	for i, l := range v.Layers {
		order = append(order, l.Strategy)
		if i > 0 && v.Layers[i-1].ZOrder > l.ZOrder {
			t.Error("layers should be in ascending z-order")
		}
		if l.Visible != (l.Strategy != pathfinding.IDAStar) {
			t.Errorf("%v visible = %v", l.Strategy, l.Visible)
		}
		if l.Color == "" {
			t.Errorf("%v has no color", l.Strategy)
		}
	}
	want := []pathfinding.StrategyID{pathfinding.Dijkstra, pathfinding.IDAStar, pathfinding.AStar}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("layer order = %v, want %v", order, want)
	}

	if err := h.SetLayerVisible(pathfinding.StrategyID(9), true); !rerrors.IsInvalidRequest(err) {
		t.Errorf("expected invalid request for an unknown layer, got %v", err)
	}
}

func TestTerminalInsideAnotherFootprint(t *testing.T) {
	h := testHarness(t, DefaultOptions())
	// covers cells (20,1)-(21,2), including R2's input terminal
	pad := circuit.Component{ID: "PAD", Bounds: core.Box{X: 200, Y: 10, Width: 10, Height: 10}}
	if err := h.AddComponent(pad); err != nil {
		t.Fatal(err)
	}

	req, err := h.resolve(r1Out, r2In)
	if err != nil {
		t.Fatal(err)
	}
	blocked := h.index.BlockedCells(h.Board().Footprints(), obstacles.Query{Start: req.start, Goal: req.goal})
	if blocked.Contains(req.goal) || blocked.Contains(req.start) {
		t.Error("start and goal must never be blocked")
	}
	if !blocked.Contains(core.Cell{Col: 21, Row: 1}) {
		t.Error("the rest of the pad should stay blocked")
	}

	if _, err := h.Connect(r1Out, r2In); err != nil {
		t.Errorf("terminal inside a footprint should still be reachable: %v", err)
	}
}

func TestBoundsFollowComponents(t *testing.T) {
	h := testHarness(t, DefaultOptions())

	got, err := h.Bounds(core.Cell{Col: 4, Row: 1}, core.Cell{Col: 20, Row: 1})
	if err != nil {
		t.Fatal(err)
	}
	want := core.Rect{Min: core.Cell{Col: -20, Row: -20}, Max: core.Cell{Col: 45, Row: 23}}
	if got != want {
		t.Errorf("Bounds = %+v, want %+v", got, want)
	}

	got, _ = h.Bounds(core.Cell{Col: 100, Row: 0}, core.Cell{Col: 4, Row: 1})
	if !got.Contains(core.Cell{Col: 100, Row: 0}) || got.Max.Col != 121 {
		t.Errorf("bounds should grow to cover a far terminal, got %+v", got)
	}
}

func TestFromConfig(t *testing.T) {
	cfg, err := config.Parse([]byte(`
[search]
default = "dijkstra"
compare = ["astar"]

[layers.astar]
z_order = 7
`))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	h, err := FromConfig(nil, cfg, logger)
	if err != nil {
		t.Fatal(err)
	}

	want := []pathfinding.StrategyID{pathfinding.Dijkstra, pathfinding.AStar}
	if !reflect.DeepEqual(h.Registry().Planned(), want) {
		t.Errorf("planned = %v, want %v", h.Registry().Planned(), want)
	}
	if h.Registry().Layer(pathfinding.AStar).ZOrder != 7 {
		t.Error("layer style from config not applied")
	}

	_ = h.AddComponent(circuit.Component{ID: "A", Bounds: core.Box{Width: 20, Height: 20}, Terminals: []core.Point{{X: 20, Y: 10}}})
	_ = h.AddComponent(circuit.Component{ID: "B", Bounds: core.Box{X: 100, Width: 20, Height: 20}, Terminals: []core.Point{{X: 0, Y: 10}}})
	w, err := h.Connect(core.TerminalRef{Component: "A"}, core.TerminalRef{Component: "B"})
	if err != nil {
		t.Fatal(err)
	}
	if w.Algorithm != pathfinding.Dijkstra || len(w.Routes) != 2 {
		t.Errorf("wire routed by %v with %d routes", w.Algorithm, len(w.Routes))
	}
	if !strings.Contains(buf.String(), "strategy finished") || !strings.Contains(buf.String(), "wire connected") {
		t.Errorf("expected search logs, got:\n%s", buf.String())
	}
}
