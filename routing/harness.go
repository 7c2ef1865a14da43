// Package routing connects terminals with wires and keeps the comparison
// layers in step with the board.
//
// A Harness owns one circuit.Board and one layers.Registry. Every routing
// request resolves both terminals to cells, builds the obstacle set once, and
// runs the default strategy followed by any comparison strategies against
// the same snapshot.
package routing

import (
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"schemroute/circuit"
	"schemroute/config"
	"schemroute/core"
	"schemroute/grid"
	"schemroute/layers"
	"schemroute/obstacles"
	"schemroute/pathfinding"
	"schemroute/rerrors"
)

// Options configures a Harness.
type Options struct {
	Grid      grid.Grid
	Clearance int // cells blocked around each footprint
	Margin    int // cells of slack around the component extent
	// Canvas fixes the search bounds. Nil derives them from the components.
	Canvas *core.Rect
	Search pathfinding.Options
	Styles map[pathfinding.StrategyID]layers.Style
	Logger *log.Logger
}

// DefaultOptions returns options matching config.Default.
func DefaultOptions() Options {
	return Options{
		Grid:   grid.New(grid.DefaultUnit),
		Margin: 20,
		Search: pathfinding.DefaultOptions(),
	}
}

// Harness routes wires on a board with every planned strategy.
type Harness struct {
	board      *circuit.Board
	grid       grid.Grid
	index      *obstacles.Index
	margin     int
	canvas     *core.Rect
	strategies map[pathfinding.StrategyID]pathfinding.Strategy
	registry   *layers.Registry
	log        *log.Logger
}

// New creates a harness over board. A nil board starts empty.
func New(board *circuit.Board, opts Options) *Harness {
	if board == nil {
		board = circuit.NewBoard()
	}
	if opts.Grid.Unit <= 0 {
		opts.Grid = grid.New(grid.DefaultUnit)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	h := &Harness{
		board:      board,
		grid:       opts.Grid,
		index:      obstacles.NewIndex(opts.Grid, opts.Clearance),
		margin:     max(opts.Margin, 0),
		strategies: make(map[pathfinding.StrategyID]pathfinding.Strategy),
		registry:   layers.NewRegistry(opts.Styles),
		log:        logger,
	}
	if opts.Canvas != nil {
		r := *opts.Canvas
		h.canvas = &r
	}
	for _, s := range []pathfinding.Strategy{
		pathfinding.NewAStar(opts.Search),
		pathfinding.NewIDAStar(opts.Search),
		pathfinding.NewDijkstra(opts.Search),
	} {
		h.strategies[s.ID()] = s
	}
	return h
}

// FromConfig creates a harness with the grid, limits, layer styles and
// strategy selection of cfg.
func FromConfig(board *circuit.Board, cfg config.Config, logger *log.Logger) (*Harness, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts := Options{
		Grid:      cfg.GridModel(),
		Clearance: cfg.Grid.Clearance,
		Margin:    cfg.Grid.Margin,
		Search:    cfg.SearchOptions(),
		Styles:    cfg.Styles(),
		Logger:    logger,
	}
	if r, ok := cfg.CanvasRect(); ok {
		opts.Canvas = &r
	}
	h := New(board, opts)
	if err := h.SetDefaultStrategy(cfg.DefaultStrategy()); err != nil {
		return nil, err
	}
	if err := h.SetActiveStrategies(cfg.CompareStrategies()); err != nil {
		return nil, err
	}
	return h, nil
}

// Board returns the board the harness routes on.
func (h *Harness) Board() *circuit.Board { return h.board }

// Registry returns the layer registry.
func (h *Harness) Registry() *layers.Registry { return h.registry }

// Grid returns the snap grid.
func (h *Harness) Grid() grid.Grid { return h.grid }

// request is one resolved routing request.
type request struct {
	from, to    core.TerminalRef
	start, goal core.Cell
	bounds      core.Rect
}

func (h *Harness) resolve(from, to core.TerminalRef) (request, error) {
	if from == to {
		return request{}, rerrors.New(rerrors.ErrCodeInvalidRequest, "cannot connect terminal %s to itself", from)
	}
	p1, err := h.board.TerminalPoint(from)
	if err != nil {
		return request{}, err
	}
	p2, err := h.board.TerminalPoint(to)
	if err != nil {
		return request{}, err
	}
	req := request{from: from, to: to, start: h.grid.ToCell(p1), goal: h.grid.ToCell(p2)}
	req.bounds, err = h.Bounds(req.start, req.goal)
	if err != nil {
		return request{}, err
	}
	return req, nil
}

// Bounds returns the search region for a request between start and goal.
// With a fixed canvas both cells must lie inside it. Otherwise the region is
// the component extent grown to cover both cells, plus the margin.
func (h *Harness) Bounds(start, goal core.Cell) (core.Rect, error) {
	if h.canvas != nil {
		for _, c := range []core.Cell{start, goal} {
			if !h.canvas.Contains(c) {
				return core.Rect{}, rerrors.New(rerrors.ErrCodeOutOfBounds, "cell %v is outside the canvas", c)
			}
		}
		return *h.canvas, nil
	}
	r := h.index.Extent(h.board.Footprints())
	r = r.Union(core.CellRect(start)).Union(core.CellRect(goal))
	return r.Inset(h.margin), nil
}

// outcome is the result of every planned strategy for one request.
type outcome struct {
	def      pathfinding.StrategyID
	results  map[pathfinding.StrategyID]pathfinding.Result
	order    []pathfinding.StrategyID
	compared bool
}

func (o outcome) active() pathfinding.Result {
	return o.results[o.def]
}

// search runs the planned strategies against one shared obstacle snapshot.
func (h *Harness) search(req request) outcome {
	blocked := h.index.BlockedCells(h.board.Footprints(), obstacles.Query{
		Start:  req.start,
		Goal:   req.goal,
		Owners: []core.ComponentID{req.from.Component, req.to.Component},
	})

	out := outcome{
		def:      h.registry.Default(),
		results:  make(map[pathfinding.StrategyID]pathfinding.Result),
		order:    h.registry.Planned(),
		compared: h.registry.ComparisonMode(),
	}
	for _, id := range out.order {
		res := h.strategies[id].FindPath(req.start, req.goal, blocked.Blocked, req.bounds)
		out.results[id] = res
		h.log.Debug("strategy finished",
			"strategy", id,
			"from", req.from,
			"to", req.to,
			"found", res.Found,
			"cells", res.Path.Len(),
			"iterations", res.Iterations,
			"elapsed", res.Elapsed)
	}
	return out
}

// apply replaces the wire's routing state with the outcome and records
// layer metrics for every strategy that found a path.
func (h *Harness) apply(w *circuit.Wire, out outcome) {
	w.Algorithm = out.def
	w.Waypoints = nil
	w.Routes = nil
	w.Unrouted = nil

	if res := out.active(); res.Found {
		w.Waypoints = pathfinding.Simplify(h.grid, res.Path)
	}
	if out.compared {
		w.Routes = make(map[pathfinding.StrategyID]circuit.Route)
	}
	for _, id := range out.order {
		res := out.results[id]
		if !res.Found {
			if out.compared {
				w.Unrouted = append(w.Unrouted, id)
			}
			continue
		}
		h.registry.Record(w.ID, id, layers.Metrics{Iterations: res.Iterations, Elapsed: res.Elapsed})
		if out.compared {
			w.Routes[id] = circuit.Route{
				Strategy:   id,
				Waypoints:  pathfinding.Simplify(h.grid, res.Path),
				Cells:      res.Path.Len(),
				Iterations: res.Iterations,
				Elapsed:    res.Elapsed,
			}
		}
	}
}

func notFound(req request, def pathfinding.StrategyID) error {
	return rerrors.New(rerrors.ErrCodeNotFound, "%s found no path from %s to %s", def, req.from, req.to)
}

// Connect routes a new wire between two terminals. When the default strategy
// finds no path no wire is created and a NOT_FOUND error is returned.
func (h *Harness) Connect(from, to core.TerminalRef) (*circuit.Wire, error) {
	req, err := h.resolve(from, to)
	if err != nil {
		return nil, err
	}
	out := h.search(req)
	if !out.active().Found {
		return nil, notFound(req, out.def)
	}

	w := &circuit.Wire{ID: h.board.NewWireID(), From: from, To: to}
	h.apply(w, out)
	if err := h.board.PutWire(w); err != nil {
		h.registry.Forget(w.ID)
		return nil, err
	}
	h.log.Info("wire connected", "wire", w.ID, "from", from, "to", to, "waypoints", len(w.Waypoints))
	return w, nil
}

// Reroute recomputes an existing wire. Its previous layer contributions are
// dropped before the new ones are recorded. When the default strategy finds
// no path the wire is kept without waypoints and returned together with a
// NOT_FOUND error. Invalid requests leave the wire untouched.
func (h *Harness) Reroute(id core.WireID) (*circuit.Wire, error) {
	w, ok := h.board.Wire(id)
	if !ok {
		return nil, rerrors.New(rerrors.ErrCodeUnknownWire, "wire %q does not exist", id)
	}
	req, err := h.resolve(w.From, w.To)
	if err != nil {
		return nil, err
	}

	h.registry.Forget(id)
	out := h.search(req)
	h.apply(w, out)
	if !w.Routed() {
		h.log.Warn("wire lost its route", "wire", id, "strategy", out.def)
		return w, notFound(req, out.def)
	}
	h.log.Info("wire rerouted", "wire", id, "waypoints", len(w.Waypoints))
	return w, nil
}

// RerouteAttached reroutes every wire attached to a component. Failures do
// not stop the remaining wires; their errors are joined.
func (h *Harness) RerouteAttached(id core.ComponentID) ([]*circuit.Wire, error) {
	if _, ok := h.board.Component(id); !ok {
		return nil, rerrors.New(rerrors.ErrCodeUnknownComponent, "component %q does not exist", id)
	}
	var (
		wires []*circuit.Wire
		errs  []error
	)
	for _, wid := range h.board.WiresAttached(id) {
		w, err := h.Reroute(wid)
		if w != nil {
			wires = append(wires, w)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return wires, errors.Join(errs...)
}

// RerouteAll reroutes every wire on the board in creation order.
func (h *Harness) RerouteAll() error {
	var errs []error
	for _, w := range h.board.Wires() {
		if _, err := h.Reroute(w.ID); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// AddComponent places a component. Existing wires are not rerouted.
func (h *Harness) AddComponent(c circuit.Component) error {
	return h.board.AddComponent(c)
}

// MoveComponent translates a component and reroutes its wires. A move that
// would put an attached terminal outside the canvas is rejected before
// anything changes.
func (h *Harness) MoveComponent(id core.ComponentID, dx, dy float64) ([]*circuit.Wire, error) {
	if err := h.checkMove(id, dx, dy); err != nil {
		return nil, err
	}
	if err := h.board.MoveComponent(id, dx, dy); err != nil {
		return nil, err
	}
	h.log.Debug("component moved", "component", id, "dx", dx, "dy", dy)
	return h.RerouteAttached(id)
}

// checkMove resolves the terminals of id's wires at their moved positions.
func (h *Harness) checkMove(id core.ComponentID, dx, dy float64) error {
	if _, ok := h.board.Component(id); !ok {
		return rerrors.New(rerrors.ErrCodeUnknownComponent, "component %q does not exist", id)
	}
	if h.canvas == nil {
		return nil
	}
	for _, wid := range h.board.WiresAttached(id) {
		w, _ := h.board.Wire(wid)
		for _, ref := range []core.TerminalRef{w.From, w.To} {
			if ref.Component != id {
				continue
			}
			p, err := h.board.TerminalPoint(ref)
			if err != nil {
				return err
			}
			if c := h.grid.ToCell(p.Add(dx, dy)); !h.canvas.Contains(c) {
				return rerrors.New(rerrors.ErrCodeOutOfBounds, "wire %s: cell %v is outside the canvas", wid, c)
			}
		}
	}
	return nil
}

// DeleteWire removes a wire and its layer contributions.
func (h *Harness) DeleteWire(id core.WireID) error {
	if err := h.board.DeleteWire(id); err != nil {
		return err
	}
	h.registry.Forget(id)
	h.log.Info("wire deleted", "wire", id)
	return nil
}

// RemoveComponent deletes a component with its attached wires and their
// layer contributions.
func (h *Harness) RemoveComponent(id core.ComponentID) error {
	removed, err := h.board.RemoveComponent(id)
	if err != nil {
		return err
	}
	for _, wid := range removed {
		h.registry.Forget(wid)
	}
	h.log.Info("component removed", "component", id, "wires", len(removed))
	return nil
}

// Clear empties the board and resets every layer aggregate.
func (h *Harness) Clear() {
	h.board.Clear()
	h.registry.Clear()
	h.log.Info("canvas cleared")
}

// SetActiveStrategies selects the comparison strategies. No search runs.
func (h *Harness) SetActiveStrategies(ids []pathfinding.StrategyID) error {
	return h.registry.SetActive(ids)
}

// SetDefaultStrategy selects the strategy producing each wire's active polyline.
func (h *Harness) SetDefaultStrategy(id pathfinding.StrategyID) error {
	return h.registry.SetDefault(id)
}

// SetLayerVisible toggles a layer. No search runs.
func (h *Harness) SetLayerVisible(id pathfinding.StrategyID, visible bool) error {
	return h.registry.SetVisible(id, visible)
}

// Report returns the per-strategy performance summary.
func (h *Harness) Report() layers.Report {
	return h.registry.Report()
}
