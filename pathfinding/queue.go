package pathfinding

import (
	"container/heap"

	"schemroute/core"
)

// queueItem is one entry of the open set.
type queueItem struct {
	cell  core.Cell
	g     int
	f     int
	seq   int // insertion order, breaks ties between equal f
	index int
}

// nodeQueue is a min-heap ordered by f, then by insertion order.
type nodeQueue []*queueItem

func (q nodeQueue) Len() int { return len(q) }

func (q nodeQueue) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	return q[i].seq < q[j].seq
}

func (q nodeQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *nodeQueue) Push(x interface{}) {
	item := x.(*queueItem)
	item.index = len(*q)
	*q = append(*q, item)
}

// Pop removes the last item and marks it as no longer queued.
func (q *nodeQueue) Pop() interface{} {
	n := len(*q) - 1
	item := (*q)[n]
	(*q)[n] = nil
	item.index = -1
	*q = (*q)[:n]
	return item
}

// openSet wraps the heap with an insertion counter.
type openSet struct {
	q   nodeQueue
	seq int
}

func (o *openSet) push(c core.Cell, g, f int) {
	heap.Push(&o.q, &queueItem{cell: c, g: g, f: f, seq: o.seq})
	o.seq++
}

func (o *openSet) pop() *queueItem {
	return heap.Pop(&o.q).(*queueItem)
}

func (o *openSet) size() int {
	return o.q.Len()
}
