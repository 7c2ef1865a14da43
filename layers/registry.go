package layers

import (
	"sort"
	"time"

	"schemroute/core"
	"schemroute/pathfinding"
	"schemroute/rerrors"
)

// Registry holds the fixed set of strategy layers, the default routing
// strategy and the strategies active for comparison. Each Registry owns its
// own styles; registries never share state.
type Registry struct {
	layers map[pathfinding.StrategyID]*Layer
	active []pathfinding.StrategyID
	def    pathfinding.StrategyID
}

// NewRegistry creates one layer per strategy. Strategies missing from
// styles get the default style.
func NewRegistry(styles map[pathfinding.StrategyID]Style) *Registry {
	defaults := DefaultStyles()
	r := &Registry{
		layers: make(map[pathfinding.StrategyID]*Layer),
		def:    pathfinding.AStar,
	}
	for _, id := range pathfinding.AllStrategies() {
		style, ok := styles[id]
		if !ok {
			style = defaults[id]
		}
		r.layers[id] = newLayer(id, style)
	}
	return r
}

// Layer returns the layer of a strategy, or nil for an unknown strategy.
func (r *Registry) Layer(id pathfinding.StrategyID) *Layer {
	return r.layers[id]
}

// Layers returns every layer ordered by ascending z-order, so painting them
// in order leaves the highest on top. Equal z-orders keep strategy order.
func (r *Registry) Layers() []*Layer {
	out := make([]*Layer, 0, len(r.layers))
	for _, id := range pathfinding.AllStrategies() {
		out = append(out, r.layers[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ZOrder < out[j].ZOrder })
	return out
}

// SetActive selects the strategies run in comparison mode. Duplicates are
// dropped; an empty list turns comparison mode off.
func (r *Registry) SetActive(ids []pathfinding.StrategyID) error {
	seen := make(map[pathfinding.StrategyID]bool)
	active := make([]pathfinding.StrategyID, 0, len(ids))
	for _, id := range ids {
		if !id.Valid() {
			return rerrors.New(rerrors.ErrCodeInvalidRequest, "unknown routing strategy %d", int(id))
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		active = append(active, id)
	}
	r.active = active
	return nil
}

// Active returns the comparison strategies in selection order.
func (r *Registry) Active() []pathfinding.StrategyID {
	return append([]pathfinding.StrategyID(nil), r.active...)
}

// ComparisonMode reports whether any comparison strategy is active.
func (r *Registry) ComparisonMode() bool {
	return len(r.active) > 0
}

// SetDefault selects the strategy whose path becomes a wire's active polyline.
func (r *Registry) SetDefault(id pathfinding.StrategyID) error {
	if !id.Valid() {
		return rerrors.New(rerrors.ErrCodeInvalidRequest, "unknown routing strategy %d", int(id))
	}
	r.def = id
	return nil
}

// Default returns the routing strategy.
func (r *Registry) Default() pathfinding.StrategyID {
	return r.def
}

// Planned returns the strategies one routing request runs: the default
// first, then the comparison strategies not already listed.
func (r *Registry) Planned() []pathfinding.StrategyID {
	plan := []pathfinding.StrategyID{r.def}
	for _, id := range r.active {
		if id != r.def {
			plan = append(plan, id)
		}
	}
	return plan
}

// SetVisible toggles whether a layer is drawn.
func (r *Registry) SetVisible(id pathfinding.StrategyID, visible bool) error {
	l := r.layers[id]
	if l == nil {
		return rerrors.New(rerrors.ErrCodeInvalidRequest, "unknown routing strategy %d", int(id))
	}
	l.Visible = visible
	return nil
}

// Record stores the wire's metrics on a strategy's layer, replacing any
// previous contribution from the same wire.
func (r *Registry) Record(wire core.WireID, id pathfinding.StrategyID, m Metrics) {
	if l := r.layers[id]; l != nil {
		l.record(wire, m)
	}
}

// Forget subtracts the wire's contributions from every layer.
func (r *Registry) Forget(wire core.WireID) {
	for _, l := range r.layers {
		l.forget(wire)
	}
}

// Clear empties every layer. Styles, the default strategy and the active
// set are kept.
func (r *Registry) Clear() {
	for _, l := range r.layers {
		l.clear()
	}
}

// Stats summarises one layer.
type Stats struct {
	WireCount     int
	AvgRuntime    time.Duration
	AvgIterations float64
}

// Report maps strategy display names to their stats.
type Report map[string]Stats

// Report reads the current aggregates. A layer without wires reports zeros.
func (r *Registry) Report() Report {
	report := make(Report, len(r.layers))
	for id, l := range r.layers {
		var s Stats
		if n := l.agg.WireCount; n > 0 {
			s = Stats{
				WireCount:     n,
				AvgRuntime:    l.agg.TotalRuntime / time.Duration(n),
				AvgIterations: float64(l.agg.TotalIterations) / float64(n),
			}
		}
		report[id.String()] = s
	}
	return report
}
