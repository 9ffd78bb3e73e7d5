package cache

import (
	"fmt"
	"sync"
)

// Threshold is the pruning threshold of one (depth, state).
type Threshold struct {
	Value    int64
	Explored bool
}

// Compare returns -1, 0 or +1 when t is below, equal to or above o.
func (t Threshold) Compare(o Threshold) int {
	switch {
	case t.Value < o.Value:
		return -1
	case t.Value > o.Value:
		return 1
	case t.Explored == o.Explored:
		return 0
	case o.Explored:
		return -1
	}
	return 1
}

// String implements fmt.Stringer.
func (t Threshold) String() string {
	return fmt.Sprintf("θ=%d explored=%t", t.Value, t.Explored)
}

// Cache stores thresholds keyed by (depth, state).
type Cache[S comparable] interface {
	Get(depth int, state S) (Threshold, bool)

	// Set stores th unless a greater or equal threshold is already present.
	Set(depth int, state S, th Threshold)

	// MustExplore reports whether a subproblem reaching state at depth with
	// value may still improve the incumbent.
	MustExplore(depth int, state S, value int64) bool

	Clear()
}

// MustExplore is the decision rule shared by every Cache: explore when no
// threshold is known, when value beats it, or when value equals an
// unexplored threshold.
func MustExplore(th Threshold, found bool, value int64) bool {
	if !found {
		return true
	}
	return value > th.Value || (value == th.Value && !th.Explored)
}

// Empty is a Cache that stores nothing.
type Empty[S comparable] struct{}

func (Empty[S]) Get(int, S) (Threshold, bool)   { return Threshold{}, false }
func (Empty[S]) Set(int, S, Threshold)          {}
func (Empty[S]) MustExplore(int, S, int64) bool { return true }
func (Empty[S]) Clear()                         {}

// Simple is a Cache with one map per depth.
type Simple[S comparable] struct {
	mu     sync.RWMutex
	layers []map[S]Threshold
}

// NewSimple returns an empty cache sized for nbVars+1 depths. Deeper
// depths are allocated on demand.
func NewSimple[S comparable](nbVars int) *Simple[S] {
	return &Simple[S]{layers: make([]map[S]Threshold, 0, nbVars+1)}
}

// Get returns the threshold stored at (depth, state).
func (c *Simple[S]) Get(depth int, state S) (Threshold, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if depth < 0 || depth >= len(c.layers) || c.layers[depth] == nil {
		return Threshold{}, false
	}
	th, ok := c.layers[depth][state]
	return th, ok
}

// Set raises the threshold at (depth, state) to th.
func (c *Simple[S]) Set(depth int, state S, th Threshold) {
	if depth < 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for len(c.layers) <= depth {
		c.layers = append(c.layers, nil)
	}
	if c.layers[depth] == nil {
		c.layers[depth] = make(map[S]Threshold)
	}
	if old, ok := c.layers[depth][state]; ok && old.Compare(th) >= 0 {
		return
	}
	c.layers[depth][state] = th
}

// MustExplore implements Cache.
func (c *Simple[S]) MustExplore(depth int, state S, value int64) bool {
	th, ok := c.Get(depth, state)
	return MustExplore(th, ok, value)
}

// Clear drops every threshold.
func (c *Simple[S]) Clear() {
	c.mu.Lock()
	c.layers = c.layers[:0]
	c.mu.Unlock()
}

// Len returns the number of stored thresholds.
func (c *Simple[S]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, l := range c.layers {
		n += len(l)
	}
	return n
}
