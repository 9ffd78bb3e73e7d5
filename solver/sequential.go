package solver

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/katalvlaran/ddsolve/cache"
	"github.com/katalvlaran/ddsolve/core"
	"github.com/katalvlaran/ddsolve/frontier"
	"github.com/katalvlaran/ddsolve/mdd"
	"github.com/katalvlaran/ddsolve/observability"
)

// Sequential is the single-threaded branch-and-bound driver.
// A Sequential is not safe for concurrent use; Maximize may be called again
// after it returns, which restarts the search from scratch.
type Sequential[S comparable] struct {
	in   Input[S]
	opts Options

	// Run state
	run       *log.Logger
	verbosity int
	started   time.Time
	deadline  time.Time
	stats     core.Statistics

	// Incumbent
	best     int64
	solution []core.Decision
	found    bool

	// Best proven upper bound: the last popped bound.
	bestUB int64

	// Export
	export             bool
	exportedRelaxed    bool
	exportedRestricted bool
}

var _ core.Solver = (*Sequential[int])(nil)

// New validates the input and the options and returns a ready driver.
//
// Errors: core.ErrNilProblem, core.ErrNilRelaxation, core.ErrNilRanking,
// core.ErrNilWidth for missing components, ErrBadOptions for invalid options.
func New[S comparable](in Input[S], opts Options) (*Sequential[S], error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := opts.normalize(); err != nil {
		return nil, err
	}

	return &Sequential[S]{
		in:     in,
		opts:   opts,
		best:   core.NegInf,
		bestUB: core.PosInf,
	}, nil
}

// BestValue implements core.Solver.
func (s *Sequential[S]) BestValue() (int64, bool) { return s.best, s.found }

// BestSolution implements core.Solver.
func (s *Sequential[S]) BestSolution() ([]core.Decision, bool) {
	if !s.found {
		return nil, false
	}
	out := make([]core.Decision, len(s.solution))
	copy(out, s.solution)
	return out, true
}

// BestLowerBound implements core.Solver.
func (s *Sequential[S]) BestLowerBound() int64 { return s.best }

// BestUpperBound implements core.Solver.
func (s *Sequential[S]) BestUpperBound() int64 { return s.bestUB }

// Gap implements core.Solver.
func (s *Sequential[S]) Gap() float64 {
	if s.stats.Status == core.Optimal || s.stats.Status == core.Unsat {
		return 0
	}
	return core.Gap(s.best, s.bestUB)
}

// Maximize implements core.Solver.
//
// The returned error is non-nil only when the model breaks its contract
// (core.ErrModelViolation) or a component fails; stop conditions end the
// search with status core.Unknown and a nil error.
func (s *Sequential[S]) Maximize(ctx context.Context, verbosity int, exportDiagram bool) (core.Statistics, error) {
	s.reset(verbosity, exportDiagram)
	s.run.Debug("search started", "variables", s.in.Problem.NbVariables(), "cutset", s.opts.Cutset)

	root := core.Root(s.in.Problem, s.in.Relaxation)
	s.bestUB = root.UB
	if root.UB != core.NegInf {
		s.in.Frontier.Push(root)
	}

	status, err := s.loop(ctx)
	if err != nil {
		s.finish(ctx, core.Unknown)
		return s.stats, err
	}
	s.finish(ctx, status)

	return s.stats, nil
}

// reset prepares a fresh run.
func (s *Sequential[S]) reset(verbosity int, exportDiagram bool) {
	s.in.Frontier.Clear()
	s.in.Dominance.Clear()
	s.in.Cache.Clear()

	s.verbosity = verbosity
	s.started = time.Now()
	s.deadline = time.Time{}
	if s.opts.TimeLimit > 0 {
		s.deadline = s.started.Add(s.opts.TimeLimit)
	}
	s.stats = core.Statistics{RunID: uuid.NewString()}
	s.run = s.opts.Logger.With("run", s.stats.RunID, "solver", "bb")
	if verbosity >= 4 {
		s.run.SetLevel(log.DebugLevel)
	}

	s.best = core.NegInf
	s.solution = nil
	s.found = false
	s.bestUB = core.PosInf

	s.export = exportDiagram
	s.exportedRelaxed = false
	s.exportedRestricted = false
}

// mustStop checks every external stop condition.
func (s *Sequential[S]) mustStop(ctx context.Context) bool {
	switch {
	case ctx.Err() != nil:
		return true
	case !s.deadline.IsZero() && time.Now().After(s.deadline):
		return true
	case s.opts.MaxIterations > 0 && s.stats.Iterations >= s.opts.MaxIterations:
		return true
	}
	return s.in.Cutoff.MustStop()
}

// loop runs the search and returns its termination status.
func (s *Sequential[S]) loop(ctx context.Context) (core.Status, error) {
	exhausted := func() core.Status {
		if s.found {
			return core.Optimal
		}
		return core.Unsat
	}

	for {
		if s.mustStop(ctx) {
			s.run.Debug("stop condition reached", "iterations", s.stats.Iterations)
			return core.Unknown, nil
		}

		sub, ok := s.in.Frontier.Pop()
		if !ok {
			return exhausted(), nil
		}
		s.stats.Iterations++
		s.opts.Hooks.OnIteration(ctx, s.stats.Iterations, s.in.Frontier.Len())
		s.progress()

		if sub.UB <= s.best {
			// Popped bounds never increase: nothing left can improve.
			s.opts.Hooks.OnPrune(ctx, observability.PruneBound)
			s.stats.Pruned++
			return exhausted(), nil
		}
		s.bestUB = sub.UB

		if err := s.process(ctx, sub); err != nil {
			return core.Unknown, err
		}
		if l := s.in.Frontier.Len(); l > s.stats.PeakFrontier {
			s.stats.PeakFrontier = l
		}
	}
}

// process handles one popped subproblem.
func (s *Sequential[S]) process(ctx context.Context, sub *core.Subproblem[S]) error {
	depth := sub.Depth()
	if s.verbosity >= 4 {
		s.run.Debug("subproblem", "depth", depth, "value", sub.Value, "ub", core.FormatBound(sub.UB))
	}

	if !s.in.Cache.MustExplore(depth, sub.State, sub.Value) {
		s.prune(ctx, observability.PruneCache)
		return nil
	}
	if depth > 0 && s.in.Dominance.IsDominatedOrInsert(sub.State, depth, sub.Value) {
		s.prune(ctx, observability.PruneDominance)
		return nil
	}
	s.stats.Explored++
	width := s.in.Width.MaxWidth(sub)

	relaxed, err := s.compile(ctx, mdd.Relaxed, sub, width)
	if err != nil {
		return err
	}
	if s.export && !s.exportedRelaxed {
		s.exportedRelaxed = true
		s.exportDiagram(ctx, "relaxed", relaxed)
	}

	if relaxed.Bound() <= s.best {
		s.settle(sub, relaxed)
		s.prune(ctx, observability.PruneBound)
		return nil
	}
	if relaxed.IsExact() || relaxed.BestIsExact() {
		s.improve(ctx, relaxed)
		s.settle(sub, relaxed)
		return nil
	}

	restricted, err := s.compile(ctx, mdd.Restricted, sub, width)
	if err != nil {
		return err
	}
	if s.export && !s.exportedRestricted {
		s.exportedRestricted = true
		s.exportDiagram(ctx, "restricted", restricted)
	}
	s.improve(ctx, restricted)
	if restricted.IsExact() {
		s.settle(sub, restricted)
		return nil
	}

	n, err := frontier.Refill(s.in.Frontier, relaxed, s.opts.Cutset, s.best)
	if err != nil {
		return fmt.Errorf("solver: %w", err)
	}
	if s.verbosity >= 4 {
		s.run.Debug("branched", "depth", depth, "children", n, "relaxed", core.FormatBound(relaxed.Bound()))
	}
	s.in.Cache.Set(depth, sub.State, cache.Threshold{Value: sub.Value, Explored: true})

	return nil
}

// settle records the threshold of a subproblem whose best completion is
// bounded by d: any later arrival at the same state with a value of at most
// best - (bound - sub.Value) cannot beat the incumbent.
func (s *Sequential[S]) settle(sub *core.Subproblem[S], d *mdd.Diagram[S]) {
	theta := core.PosInf
	if m := core.Max(d.Bound(), d.PrunedBound()); m != core.NegInf {
		theta = core.Max(sub.Value, core.SatSub(s.best, core.SatSub(m, sub.Value)))
	}
	s.in.Cache.Set(sub.Depth(), sub.State, cache.Threshold{Value: theta, Explored: true})
}

// compile builds one diagram for sub and reports it.
func (s *Sequential[S]) compile(ctx context.Context, kind mdd.CompilationType, sub *core.Subproblem[S], width int) (*mdd.Diagram[S], error) {
	start := time.Now()
	d, err := mdd.Compile(mdd.CompilationInput[S]{
		Kind:       kind,
		Problem:    s.in.Problem,
		Relaxation: s.in.Relaxation,
		Ranking:    s.in.Ranking,
		Residual:   sub,
		MaxWidth:   width,
		BestLB:     s.best,
	})
	if err != nil {
		return nil, fmt.Errorf("solver: %s compilation at depth %d: %w", kind, sub.Depth(), err)
	}
	s.opts.Hooks.OnCompile(ctx, kind.String(), width, d.NbLayers(), time.Since(start))

	return d, nil
}

// improve adopts the best solution of d when it beats the incumbent.
func (s *Sequential[S]) improve(ctx context.Context, d *mdd.Diagram[S]) {
	v, ok := d.BestValue()
	if !ok || v <= s.best {
		return
	}
	sol, _ := d.Solution()
	s.best, s.solution, s.found = v, sol, true
	s.opts.Hooks.OnIncumbent(ctx, v)
	if s.verbosity >= 2 {
		s.run.Info("new incumbent",
			"value", v,
			"bound", core.FormatBound(s.bestUB),
			"gap", fmt.Sprintf("%.4f", core.Gap(v, s.bestUB)),
			"iteration", s.stats.Iterations,
			"source", d.Kind())
	}
}

func (s *Sequential[S]) prune(ctx context.Context, reason string) {
	s.stats.Pruned++
	s.opts.Hooks.OnPrune(ctx, reason)
	if s.verbosity >= 4 {
		s.run.Debug("pruned", "reason", reason)
	}
}

// progress logs the frontier statistics every ReportEvery iterations.
func (s *Sequential[S]) progress() {
	if s.verbosity < 3 || s.stats.Iterations%s.opts.ReportEvery != 0 {
		return
	}
	s.run.Info("progress",
		"iterations", s.stats.Iterations,
		"frontier", s.in.Frontier.Len(),
		"best", core.FormatBound(s.best),
		"bound", core.FormatBound(s.bestUB),
		"gap", fmt.Sprintf("%.4f", core.Gap(s.best, s.bestUB)),
		"elapsed", time.Since(s.started).Round(time.Millisecond))
}

// finish freezes the statistics for status.
func (s *Sequential[S]) finish(ctx context.Context, status core.Status) {
	switch status {
	case core.Optimal:
		s.bestUB = s.best
	case core.Unsat:
		s.bestUB = core.NegInf
	}
	s.in.Frontier.Clear()

	s.stats.Status = status
	s.stats.Duration = time.Since(s.started)
	s.stats.HasSolution = s.found
	s.stats.BestValue = s.best
	s.stats.BestBound = s.bestUB
	s.stats.Gap = s.Gap()

	s.opts.Hooks.OnComplete(ctx, s.stats)
	if s.verbosity >= 1 {
		s.run.Info("search finished",
			"status", status,
			"best", core.FormatBound(s.best),
			"bound", core.FormatBound(s.bestUB),
			"gap", fmt.Sprintf("%.4f", s.stats.Gap),
			"iterations", s.stats.Iterations,
			"explored", s.stats.Explored,
			"pruned", s.stats.Pruned,
			"duration", s.stats.Duration.Round(time.Millisecond))
	}
}
