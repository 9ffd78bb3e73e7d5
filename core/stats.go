package core

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Status is the termination status of a search.
type Status int

const (
	// Unknown: an external stop condition fired before the search could
	// conclude. Any incumbent is unverified.
	Unknown Status = iota

	// Sat: a feasible solution is known but not proven optimal. Reported for
	// the anytime incumbents emitted while a search is still running.
	Sat

	// Optimal: the incumbent is proven optimal.
	Optimal

	// Unsat: the instance has no feasible solution.
	Unsat
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case Sat:
		return "SAT"
	case Optimal:
		return "OPTIMAL"
	case Unsat:
		return "UNSAT"
	default:
		return "UNKNOWN"
	}
}

// Statistics is the immutable record produced once at the end of a run.
type Statistics struct {
	RunID        string        // UUID tagging the run and its log lines
	Status       Status        // termination status
	Iterations   int           // subproblems popped from the frontier
	Explored     int           // subproblems actually expanded or compiled
	Pruned       int           // subproblems discarded by bound, cache or dominance
	PeakFrontier int           // largest frontier size observed
	Duration     time.Duration // wall-clock time of the run
	HasSolution  bool          // whether BestValue holds a feasible value
	BestValue    int64         // best primal value (NegInf without solution)
	BestBound    int64         // best proven upper bound
	Gap          float64       // relative optimality gap in [0, 1]
}

// String renders a one-line summary.
func (s Statistics) String() string {
	best := "none"
	if s.HasSolution {
		best = fmt.Sprintf("%d", s.BestValue)
	}
	return fmt.Sprintf("status=%s best=%s bound=%s gap=%.4f iterations=%d explored=%d pruned=%d peak=%d duration=%s",
		s.Status, best, FormatBound(s.BestBound), s.Gap, s.Iterations, s.Explored, s.Pruned, s.PeakFrontier,
		s.Duration.Round(time.Microsecond))
}

// FormatBound renders a bound, spelling out the infinities.
func FormatBound(b int64) string {
	switch b {
	case NegInf:
		return "-inf"
	case PosInf:
		return "+inf"
	}
	return fmt.Sprintf("%d", b)
}

// Gap returns the relative optimality gap between a lower bound lb and an
// upper bound ub: 0 when they meet, 1 when lb is unknown (NegInf) or ub is
// infinite, (ub-lb)/max(|ub|,|lb|) otherwise.
//
// Complexity: O(1).
func Gap(lb, ub int64) float64 {
	if ub <= lb {
		return 0
	}
	if IsInf(lb) || IsInf(ub) {
		return 1
	}
	fl, fu := float64(lb), float64(ub)
	den := math.Max(math.Abs(fl), math.Abs(fu))
	if den == 0 {
		return 0
	}
	g := (fu - fl) / den
	if g > 1 {
		return 1
	}
	return g
}

// Solver is the outward-facing contract shared by the search drivers.
type Solver interface {
	// Maximize runs the search to completion or until a stop condition
	// fires. verbosity (0..4) only affects logging; exportDiagram asks the
	// driver to export its first compiled diagrams.
	Maximize(ctx context.Context, verbosity int, exportDiagram bool) (Statistics, error)

	// BestValue returns the incumbent value, if any.
	BestValue() (int64, bool)

	// BestSolution returns the incumbent decisions sorted by variable, if any.
	BestSolution() ([]Decision, bool)

	// BestLowerBound returns the incumbent value or NegInf.
	BestLowerBound() int64

	// BestUpperBound returns the best proven upper bound.
	BestUpperBound() int64

	// Gap returns the current relative optimality gap.
	Gap() float64
}
