package frontier

import (
	"container/heap"
	"fmt"

	"github.com/katalvlaran/ddsolve/core"
	"github.com/katalvlaran/ddsolve/mdd"
)

// Frontier is the set of open subproblems.
type Frontier[S any] interface {
	Push(sub *core.Subproblem[S])
	Pop() (*core.Subproblem[S], bool)
	Len() int
	Clear()
}

// item wraps a subproblem with its heap bookkeeping.
type item[S any] struct {
	sub   *core.Subproblem[S]
	seq   uint64 // insertion order, for FIFO tie-breaks
	index int    // position in the heap, maintained by Swap
}

// subPQ is a max-heap of *item ordered by bound, ranking, value, then seq.
type subPQ[S any] struct {
	items   []*item[S]
	ranking core.StateRanking[S]
}

func (pq *subPQ[S]) Len() int { return len(pq.items) }

func (pq *subPQ[S]) Less(i, j int) bool {
	a, b := pq.items[i], pq.items[j]
	if a.sub.UB != b.sub.UB {
		return a.sub.UB > b.sub.UB
	}
	if c := pq.ranking.Compare(a.sub.State, b.sub.State); c != 0 {
		return c > 0
	}
	if a.sub.Value != b.sub.Value {
		return a.sub.Value > b.sub.Value
	}
	return a.seq < b.seq
}

func (pq *subPQ[S]) Swap(i, j int) {
	pq.items[i], pq.items[j] = pq.items[j], pq.items[i]
	pq.items[i].index = i
	pq.items[j].index = j
}

// Push is called by heap.Push; x must be of type *item[S].
func (pq *subPQ[S]) Push(x any) {
	it := x.(*item[S])
	it.index = len(pq.items)
	pq.items = append(pq.items, it)
}

// Pop is called by heap.Pop.
func (pq *subPQ[S]) Pop() any {
	old := pq.items
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	pq.items = old[:n-1]
	it.index = -1
	return it
}

// Simple is a plain priority frontier.
type Simple[S any] struct {
	pq  subPQ[S]
	seq uint64
}

// NewSimple returns an empty frontier breaking bound ties with ranking.
func NewSimple[S any](ranking core.StateRanking[S]) *Simple[S] {
	return &Simple[S]{pq: subPQ[S]{ranking: ranking}}
}

// Push adds sub.
func (f *Simple[S]) Push(sub *core.Subproblem[S]) {
	f.seq++
	heap.Push(&f.pq, &item[S]{sub: sub, seq: f.seq})
}

// Pop removes and returns the most promising subproblem.
func (f *Simple[S]) Pop() (*core.Subproblem[S], bool) {
	if f.pq.Len() == 0 {
		return nil, false
	}
	return heap.Pop(&f.pq).(*item[S]).sub, true
}

// Len returns the number of residents.
func (f *Simple[S]) Len() int { return f.pq.Len() }

// Clear drops every resident.
func (f *Simple[S]) Clear() {
	f.pq.items = nil
	f.seq = 0
}

// key identifies a resident of NoDup.
type key[S comparable] struct {
	depth int
	state S
}

// NoDup is a priority frontier keeping one entry per (depth, state).
type NoDup[S comparable] struct {
	pq    subPQ[S]
	index map[key[S]]*item[S]
	seq   uint64
}

// NewNoDup returns an empty deduplicating frontier.
func NewNoDup[S comparable](ranking core.StateRanking[S]) *NoDup[S] {
	return &NoDup[S]{
		pq:    subPQ[S]{ranking: ranking},
		index: make(map[key[S]]*item[S]),
	}
}

// Push adds sub, or replaces the resident sharing its depth and state when
// sub has a larger value.
func (f *NoDup[S]) Push(sub *core.Subproblem[S]) {
	k := key[S]{depth: sub.Depth(), state: sub.State}
	if it, ok := f.index[k]; ok {
		if sub.Value > it.sub.Value {
			it.sub = sub
			heap.Fix(&f.pq, it.index)
		}
		return
	}
	f.seq++
	it := &item[S]{sub: sub, seq: f.seq}
	f.index[k] = it
	heap.Push(&f.pq, it)
}

// Pop removes and returns the most promising subproblem.
func (f *NoDup[S]) Pop() (*core.Subproblem[S], bool) {
	if f.pq.Len() == 0 {
		return nil, false
	}
	it := heap.Pop(&f.pq).(*item[S])
	delete(f.index, key[S]{depth: it.sub.Depth(), state: it.sub.State})
	return it.sub, true
}

// Len returns the number of residents.
func (f *NoDup[S]) Len() int { return f.pq.Len() }

// Clear drops every resident.
func (f *NoDup[S]) Clear() {
	f.pq.items = nil
	clear(f.index)
	f.seq = 0
}

// Refill pushes the cutset of a relaxed diagram into f, skipping the
// subproblems whose upper bound does not exceed bestLB. It returns the
// number of subproblems pushed.
//
// Errors: those of (*mdd.Diagram).Cutset.
func Refill[S comparable](f Frontier[S], d *mdd.Diagram[S], policy mdd.CutsetType, bestLB int64) (int, error) {
	cutset, err := d.Cutset(policy)
	if err != nil {
		return 0, fmt.Errorf("frontier: refill: %w", err)
	}
	pushed := 0
	for _, sub := range cutset {
		if sub.UB <= bestLB || sub.UB == core.NegInf {
			continue
		}
		f.Push(sub)
		pushed++
	}
	return pushed, nil
}
