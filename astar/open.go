package astar

import (
	"container/heap"

	"github.com/katalvlaran/ddsolve/core"
)

// node is one search node of the arena.
type node[S any] struct {
	state    S
	g        int64 // accumulated value
	h        int64 // fast upper bound on the completion
	depth    int
	parent   int // arena index, -1 for the root
	decision core.Decision
}

// entry is one open-list slot.
type entry struct {
	id  int     // arena index
	f   float64 // weighted evaluation
	ub  int64   // g + h
	seq uint64  // insertion order
}

// openList is a max-heap of entries: larger f, then larger ub, then the
// more promising state, then FIFO.
type openList[S any] struct {
	entries []entry
	nodes   *[]node[S]
	ranking core.StateRanking[S]
}

func (o *openList[S]) Len() int { return len(o.entries) }

func (o *openList[S]) Less(i, j int) bool {
	a, b := o.entries[i], o.entries[j]
	if a.f != b.f {
		return a.f > b.f
	}
	if a.ub != b.ub {
		return a.ub > b.ub
	}
	if c := o.ranking.Compare((*o.nodes)[a.id].state, (*o.nodes)[b.id].state); c != 0 {
		return c > 0
	}
	return a.seq < b.seq
}

func (o *openList[S]) Swap(i, j int) { o.entries[i], o.entries[j] = o.entries[j], o.entries[i] }
func (o *openList[S]) Push(x any)    { o.entries = append(o.entries, x.(entry)) }

func (o *openList[S]) Pop() any {
	n := len(o.entries)
	e := o.entries[n-1]
	o.entries = o.entries[:n-1]
	return e
}

// maxUB returns the largest bound of the open entries, or core.NegInf.
func (o *openList[S]) maxUB() int64 {
	best := core.NegInf
	for _, e := range o.entries {
		best = core.Max(best, e.ub)
	}
	return best
}

// rekey recomputes every evaluation for weight w and restores the heap.
func (o *openList[S]) rekey(w float64) {
	for i := range o.entries {
		n := &(*o.nodes)[o.entries[i].id]
		o.entries[i].f = evaluate(n.g, n.h, w)
	}
	heap.Init(o)
}

// evaluate is the weighted evaluation of a node.
func evaluate(g, h int64, w float64) float64 {
	if w == 1 {
		return float64(core.SatAdd(g, h))
	}
	if h >= 0 {
		return float64(g) + float64(h)/w
	}
	return float64(g) + float64(h)*w
}
