// Package layers keeps one display layer per routing strategy and the
// running performance aggregates used to compare them.
package layers

import (
	"sort"
	"time"

	"schemroute/core"
	"schemroute/pathfinding"
)

// Metrics is the effort one strategy spent on one wire.
type Metrics struct {
	Iterations int
	Elapsed    time.Duration
}

// Style is the renderer-facing configuration of a layer.
type Style struct {
	Color   string // hex color, e.g. "#e5484d"
	ZOrder  int    // paint priority, higher draws on top
	Visible bool
}

// DefaultStyles returns the standard layer styles.
func DefaultStyles() map[pathfinding.StrategyID]Style {
	return map[pathfinding.StrategyID]Style{
		pathfinding.AStar:    {Color: "#e5484d", ZOrder: 3, Visible: true},
		pathfinding.IDAStar:  {Color: "#3e63dd", ZOrder: 2, Visible: true},
		pathfinding.Dijkstra: {Color: "#30a46c", ZOrder: 1, Visible: true},
	}
}

// Aggregate is the running total over every wire currently on a layer.
type Aggregate struct {
	WireCount       int
	TotalRuntime    time.Duration
	TotalIterations int
}

func (a *Aggregate) add(m Metrics) {
	a.WireCount++
	a.TotalRuntime += m.Elapsed
	a.TotalIterations += m.Iterations
}

func (a *Aggregate) sub(m Metrics) {
	a.WireCount--
	a.TotalRuntime -= m.Elapsed
	a.TotalIterations -= m.Iterations
}

// Layer groups the paths one strategy produced. It indexes wires by ID and
// never owns them.
type Layer struct {
	Strategy pathfinding.StrategyID
	Style

	agg   Aggregate
	wires map[core.WireID]Metrics
}

func newLayer(id pathfinding.StrategyID, style Style) *Layer {
	return &Layer{
		Strategy: id,
		Style:    style,
		wires:    make(map[core.WireID]Metrics),
	}
}

// Name returns the display name of the layer's strategy.
func (l *Layer) Name() string {
	return l.Strategy.String()
}

// Aggregate returns the layer's running totals.
func (l *Layer) Aggregate() Aggregate {
	return l.agg
}

// Has reports whether the wire has a path on this layer.
func (l *Layer) Has(id core.WireID) bool {
	_, ok := l.wires[id]
	return ok
}

// Wires returns the IDs of the wires on this layer, sorted.
func (l *Layer) Wires() []core.WireID {
	ids := make([]core.WireID, 0, len(l.wires))
	for id := range l.wires {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// record replaces the wire's contribution.
func (l *Layer) record(id core.WireID, m Metrics) {
	l.forget(id)
	l.wires[id] = m
	l.agg.add(m)
}

// forget removes the wire's contribution, if any.
func (l *Layer) forget(id core.WireID) bool {
	old, ok := l.wires[id]
	if !ok {
		return false
	}
	delete(l.wires, id)
	l.agg.sub(old)
	return true
}

func (l *Layer) clear() {
	l.wires = make(map[core.WireID]Metrics)
	l.agg = Aggregate{}
}
