package routing

import (
	"schemroute/core"
	"schemroute/pathfinding"
)

// LayerPath is one strategy's polyline tagged with its layer style.
type LayerPath struct {
	Strategy pathfinding.StrategyID
	Color    string
	ZOrder   int
	Visible  bool
	Points   []core.Point
}

// WireView is what a renderer needs to draw one wire.
type WireView struct {
	ID        core.WireID
	Algorithm pathfinding.StrategyID
	Active    []core.Point
	// Layers holds the comparison polylines in ascending z-order. It is
	// empty unless the wire was routed in comparison mode.
	Layers []LayerPath
}

// Render returns every wire in creation order. Layer styles are read at call
// time, so visibility toggles show up without rerouting.
func (h *Harness) Render() []WireView {
	ordered := h.registry.Layers()
	wires := h.board.Wires()
	views := make([]WireView, 0, len(wires))
	for _, w := range wires {
		v := WireView{
			ID:        w.ID,
			Algorithm: w.Algorithm,
			Active:    append([]core.Point(nil), w.Waypoints...),
		}
		for _, l := range ordered {
			route, ok := w.Routes[l.Strategy]
			if !ok {
				continue
			}
			v.Layers = append(v.Layers, LayerPath{
				Strategy: l.Strategy,
				Color:    l.Color,
				ZOrder:   l.ZOrder,
				Visible:  l.Visible,
				Points:   append([]core.Point(nil), route.Waypoints...),
			})
		}
		views = append(views, v)
	}
	return views
}
