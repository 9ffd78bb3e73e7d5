package core

import (
	"sync/atomic"
	"time"
)

// FixedWidth caps every diagram at the same width.
type FixedWidth[S any] struct {
	Width int
}

// MaxWidth implements WidthHeuristic.
func (w FixedWidth[S]) MaxWidth(*Subproblem[S]) int { return w.Width }

// NbUnassignedWidth sizes diagrams by the number of variables still free
// below the subproblem, so deep subproblems get narrow diagrams.
type NbUnassignedWidth[S any] struct {
	NbVars int
}

// MaxWidth implements WidthHeuristic.
func (w NbUnassignedWidth[S]) MaxWidth(sub *Subproblem[S]) int {
	n := w.NbVars - sub.Depth()
	if n < 1 {
		return 1
	}
	return n
}

// TimesWidth multiplies the width of another heuristic by Factor.
type TimesWidth[S any] struct {
	Inner  WidthHeuristic[S]
	Factor int
}

// MaxWidth implements WidthHeuristic.
func (w TimesWidth[S]) MaxWidth(sub *Subproblem[S]) int {
	return w.Inner.MaxWidth(sub) * w.Factor
}

// NaturalOrder returns variable depth while depth < n: the stock
// variable-selection heuristic for models branching in index order.
func NaturalOrder(depth, n int) (Variable, bool) {
	if depth >= n {
		return Variable{}, false
	}
	return NewVariable(depth), true
}

// NoCutoff never stops the search.
type NoCutoff struct{}

// MustStop implements Cutoff.
func (NoCutoff) MustStop() bool { return false }

// TimeBudget stops the search once its deadline has passed.
type TimeBudget struct {
	deadline time.Time
}

// NewTimeBudget returns a cutoff firing d after the call.
func NewTimeBudget(d time.Duration) *TimeBudget {
	return &TimeBudget{deadline: time.Now().Add(d)}
}

// MustStop implements Cutoff.
func (b *TimeBudget) MustStop() bool { return time.Now().After(b.deadline) }

// IterationBudget stops the search after Max calls to MustStop.
// It is safe for concurrent use.
type IterationBudget struct {
	Max   int64
	count atomic.Int64
}

// MustStop implements Cutoff.
func (b *IterationBudget) MustStop() bool { return b.count.Add(1) > b.Max }

// AnyCutoff stops as soon as one of its members does.
type AnyCutoff []Cutoff

// MustStop implements Cutoff.
func (a AnyCutoff) MustStop() bool {
	for _, c := range a {
		if c != nil && c.MustStop() {
			return true
		}
	}
	return false
}
