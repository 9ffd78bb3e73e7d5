package dominance

import (
	"sync"

	"github.com/katalvlaran/ddsolve/core"
)

// Checker answers dominance queries for a search.
type Checker[S any] interface {
	// IsDominatedOrInsert reports whether (state, value) is dominated by a
	// recorded entry; if not, the entry is recorded.
	IsDominatedOrInsert(state S, depth int, value int64) bool

	// Clear forgets every entry.
	Clear()
}

// Empty never reports dominance.
type Empty[S any] struct{}

// IsDominatedOrInsert implements Checker.
func (Empty[S]) IsDominatedOrInsert(S, int, int64) bool { return false }

// Clear implements Checker.
func (Empty[S]) Clear() {}

// entry is one member of a Pareto front.
type entry struct {
	coords []int64
	value  int64
}

// front is the Pareto front of one key.
type front struct {
	mu      sync.Mutex
	entries []entry
}

// Simple is a Checker backed by one Pareto front per key.
type Simple[S any, K comparable] struct {
	model  core.Dominance[S, K]
	mu     sync.RWMutex
	fronts map[K]*front
}

// NewSimple returns an empty checker over the model's dominance structure.
func NewSimple[S any, K comparable](model core.Dominance[S, K]) *Simple[S, K] {
	return &Simple[S, K]{model: model, fronts: make(map[K]*front)}
}

// frontOf returns the front of k, creating it when missing.
func (c *Simple[S, K]) frontOf(k K) *front {
	c.mu.RLock()
	f, ok := c.fronts[k]
	c.mu.RUnlock()
	if ok {
		return f
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok = c.fronts[k]; !ok {
		f = &front{}
		c.fronts[k] = f
	}
	return f
}

// IsDominatedOrInsert implements Checker. States without a key are never
// dominated and never recorded. The depth is not consulted: models whose
// dominance depends on it fold it into their key.
func (c *Simple[S, K]) IsDominatedOrInsert(state S, _ int, value int64) bool {
	k, ok := c.model.Key(state)
	if !ok {
		return false
	}
	dims := c.model.NbDimensions(state)
	e := entry{coords: make([]int64, dims), value: value}
	for i := range e.coords {
		e.coords[i] = c.model.Coordinate(state, i)
	}
	useValue := c.model.UseValue()

	f := c.frontOf(k)
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, o := range f.entries {
		if dominates(o, e, useValue) {
			return true
		}
	}
	kept := f.entries[:0]
	for _, o := range f.entries {
		if !dominates(e, o, useValue) {
			kept = append(kept, o)
		}
	}
	f.entries = append(kept, e)

	return false
}

// dominates reports whether a is at least as good as b on every coordinate
// (and on the value when useValue).
func dominates(a, b entry, useValue bool) bool {
	if len(a.coords) != len(b.coords) {
		return false
	}
	if useValue && a.value < b.value {
		return false
	}
	for i := range a.coords {
		if a.coords[i] < b.coords[i] {
			return false
		}
	}
	return true
}

// Clear implements Checker.
func (c *Simple[S, K]) Clear() {
	c.mu.Lock()
	clear(c.fronts)
	c.mu.Unlock()
}

// Len returns the total number of recorded entries.
func (c *Simple[S, K]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, f := range c.fronts {
		f.mu.Lock()
		n += len(f.entries)
		f.mu.Unlock()
	}
	return n
}
