package astar

import (
	"container/heap"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/katalvlaran/ddsolve/core"
	"github.com/katalvlaran/ddsolve/observability"
)

// key identifies a state reached at a given depth.
type key[S comparable] struct {
	depth int
	state S
}

// Anytime is the anytime weighted A* driver. It is not safe for concurrent
// use; Maximize restarts the search from scratch.
type Anytime[S comparable] struct {
	in   Input[S]
	opts Options

	run       *log.Logger
	verbosity int
	started   time.Time
	deadline  time.Time
	stats     core.Statistics
	weight    float64

	nodes []node[S]
	open  *openList[S]
	bestG map[key[S]]int64
	seq   uint64

	best     int64
	solution []core.Decision
	found    bool
	bestUB   int64
}

var _ core.Solver = (*Anytime[int])(nil)

// New validates the input and options.
//
// Errors: core.ErrNilProblem, core.ErrNilRelaxation, core.ErrNilRanking,
// ErrBadWeight, ErrBadOptions.
func New[S comparable](in Input[S], opts Options) (*Anytime[S], error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := opts.normalize(); err != nil {
		return nil, err
	}

	return &Anytime[S]{in: in, opts: opts, best: core.NegInf, bestUB: core.PosInf}, nil
}

func (a *Anytime[S]) BestValue() (int64, bool) { return a.best, a.found }
func (a *Anytime[S]) BestLowerBound() int64    { return a.best }
func (a *Anytime[S]) BestUpperBound() int64    { return a.bestUB }

func (a *Anytime[S]) BestSolution() ([]core.Decision, bool) {
	if !a.found {
		return nil, false
	}
	out := make([]core.Decision, len(a.solution))
	copy(out, a.solution)
	return out, true
}

func (a *Anytime[S]) Gap() float64 {
	if a.stats.Status == core.Optimal || a.stats.Status == core.Unsat {
		return 0
	}
	return core.Gap(a.best, a.bestUB)
}

// Weight returns the weight currently in force.
func (a *Anytime[S]) Weight() float64 { return a.weight }

// Maximize implements core.Solver. Diagram export is not supported and is
// ignored with a warning.
func (a *Anytime[S]) Maximize(ctx context.Context, verbosity int, exportDiagram bool) (core.Statistics, error) {
	a.reset(verbosity)
	if exportDiagram {
		a.run.Warn("diagram export is not supported by the A* driver")
	}

	root := a.in.Problem.InitialState()
	g := a.in.Problem.InitialValue()
	h := a.in.Relaxation.FastUpperBound(root)
	a.bestUB = core.SatAdd(g, h)
	if h != core.NegInf {
		a.push(node[S]{state: root, g: g, h: h, parent: -1})
	}

	status, err := a.loop(ctx)
	a.finish(ctx, status)

	return a.stats, err
}

func (a *Anytime[S]) reset(verbosity int) {
	a.verbosity = verbosity
	a.started = time.Now()
	a.deadline = time.Time{}
	if a.opts.TimeLimit > 0 {
		a.deadline = a.started.Add(a.opts.TimeLimit)
	}
	a.stats = core.Statistics{RunID: uuid.NewString()}
	a.run = a.opts.Logger.With("run", a.stats.RunID, "solver", "astar")
	if verbosity >= 4 {
		a.run.SetLevel(log.DebugLevel)
	}
	a.weight = a.opts.Weight

	a.nodes = a.nodes[:0]
	a.open = &openList[S]{nodes: &a.nodes, ranking: a.in.Ranking}
	a.bestG = make(map[key[S]]int64)
	a.seq = 0
	a.in.Dominance.Clear()

	a.best = core.NegInf
	a.solution = nil
	a.found = false
	a.bestUB = core.PosInf
}

// push stores n in the arena and opens it.
func (a *Anytime[S]) push(n node[S]) {
	a.nodes = append(a.nodes, n)
	a.bestG[key[S]{n.depth, n.state}] = n.g
	heap.Push(a.open, entry{
		id:  len(a.nodes) - 1,
		f:   evaluate(n.g, n.h, a.weight),
		ub:  core.SatAdd(n.g, n.h),
		seq: a.seq,
	})
	a.seq++
	if l := a.open.Len(); l > a.stats.PeakFrontier {
		a.stats.PeakFrontier = l
	}
}

func (a *Anytime[S]) mustStop(ctx context.Context) bool {
	switch {
	case ctx.Err() != nil:
		return true
	case !a.deadline.IsZero() && time.Now().After(a.deadline):
		return true
	case a.opts.MaxIterations > 0 && a.stats.Iterations >= a.opts.MaxIterations:
		return true
	}
	return a.in.Cutoff.MustStop()
}

func (a *Anytime[S]) loop(ctx context.Context) (core.Status, error) {
	exhausted := func() core.Status {
		if a.found {
			return core.Optimal
		}
		return core.Unsat
	}
	nbVars := a.in.Problem.NbVariables()

	for {
		if a.mustStop(ctx) {
			return core.Unknown, nil
		}
		if a.open.Len() == 0 {
			return exhausted(), nil
		}
		e := heap.Pop(a.open).(entry)
		n := a.nodes[e.id]
		a.stats.Iterations++
		a.opts.Hooks.OnIteration(ctx, a.stats.Iterations, a.open.Len())
		a.progress()

		if a.bestG[key[S]{n.depth, n.state}] > n.g {
			a.prune(ctx, observability.PruneStale)
			continue
		}
		if e.ub <= a.best {
			if a.weight == 1 {
				// Plain A*: nothing left in the open list can do better.
				return core.Optimal, nil
			}
			a.prune(ctx, observability.PruneBound)
			continue
		}
		if a.weight == 1 {
			a.bestUB = core.Min(a.bestUB, e.ub)
		}

		if n.depth == nbVars {
			a.improve(ctx, e.id)
			continue
		}
		if err := a.expand(ctx, e.id); err != nil {
			return core.Unknown, err
		}
	}
}

// expand opens the children of node id.
func (a *Anytime[S]) expand(ctx context.Context, id int) error {
	n := a.nodes[id]
	a.stats.Explored++
	v, ok := a.in.Problem.NextVariable(n.depth, []S{n.state})
	if !ok {
		return fmt.Errorf("astar: %w", core.Violation("no variable to branch on at depth %d of %d", n.depth, a.in.Problem.NbVariables()))
	}
	if a.verbosity >= 4 {
		a.run.Debug("expand", "depth", n.depth, "g", n.g, "h", core.FormatBound(n.h), "var", v)
	}

	var children []node[S]
	a.in.Problem.ForEachInDomain(v, n.state, func(d core.Decision) {
		next := a.in.Problem.Transition(n.state, d)
		g := core.SatAdd(n.g, a.in.Problem.TransitionCost(n.state, next, d))
		children = append(children, node[S]{state: next, g: g, depth: n.depth + 1, parent: id, decision: d})
	})

	for _, c := range children {
		c.h = a.in.Relaxation.FastUpperBound(c.state)
		if c.h == core.NegInf || core.SatAdd(c.g, c.h) <= a.best {
			a.prune(ctx, observability.PruneBound)
			continue
		}
		if old, seen := a.bestG[key[S]{c.depth, c.state}]; seen && c.g <= old {
			continue
		}
		if a.in.Dominance.IsDominatedOrInsert(c.state, c.depth, c.g) {
			a.prune(ctx, observability.PruneDominance)
			continue
		}
		a.push(c)
	}

	return nil
}

// improve adopts terminal node id when it beats the incumbent, then decays
// the weight.
func (a *Anytime[S]) improve(ctx context.Context, id int) {
	n := a.nodes[id]
	if n.g <= a.best {
		return
	}
	a.best, a.solution, a.found = n.g, a.pathTo(id), true
	a.bestUB = core.Max(a.best, core.Min(a.bestUB, a.open.maxUB()))

	inc := Incumbent{
		Value:     a.best,
		Solution:  slices.Clone(a.solution),
		Bound:     a.bestUB,
		Gap:       core.Gap(a.best, a.bestUB),
		Weight:    a.weight,
		Iteration: a.stats.Iterations,
		Elapsed:   time.Since(a.started),
	}
	a.opts.Hooks.OnIncumbent(ctx, a.best)
	if a.opts.OnIncumbent != nil {
		a.opts.OnIncumbent(inc)
	}
	if a.verbosity >= 2 {
		a.run.Info("new incumbent",
			"status", inc.Status(),
			"value", inc.Value,
			"bound", core.FormatBound(inc.Bound),
			"gap", fmt.Sprintf("%.4f", inc.Gap),
			"weight", inc.Weight,
			"iteration", inc.Iteration)
	}

	if a.weight > 1 && a.opts.WeightDecay < 1 {
		a.weight = max(1, a.weight*a.opts.WeightDecay)
		a.open.rekey(a.weight)
	}
}

// pathTo rebuilds the decisions leading to node id, sorted by variable.
func (a *Anytime[S]) pathTo(id int) []core.Decision {
	var out []core.Decision
	for n := id; a.nodes[n].parent >= 0; n = a.nodes[n].parent {
		out = append(out, a.nodes[n].decision)
	}
	return core.SortDecisions(out)
}

func (a *Anytime[S]) prune(ctx context.Context, reason string) {
	a.stats.Pruned++
	a.opts.Hooks.OnPrune(ctx, reason)
}

func (a *Anytime[S]) progress() {
	if a.verbosity < 3 || a.stats.Iterations%a.opts.ReportEvery != 0 {
		return
	}
	a.run.Info("progress",
		"iterations", a.stats.Iterations,
		"open", a.open.Len(),
		"nodes", len(a.nodes),
		"best", core.FormatBound(a.best),
		"weight", a.weight,
		"elapsed", time.Since(a.started).Round(time.Millisecond))
}

func (a *Anytime[S]) finish(ctx context.Context, status core.Status) {
	switch status {
	case core.Optimal:
		a.bestUB = a.best
	case core.Unsat:
		a.bestUB = core.NegInf
	default:
		a.bestUB = core.Max(a.best, core.Min(a.bestUB, a.open.maxUB()))
	}

	a.stats.Status = status
	a.stats.Duration = time.Since(a.started)
	a.stats.HasSolution = a.found
	a.stats.BestValue = a.best
	a.stats.BestBound = a.bestUB
	a.stats.Gap = a.Gap()

	a.opts.Hooks.OnComplete(ctx, a.stats)
	if a.verbosity >= 1 {
		a.run.Info("search finished",
			"status", status,
			"best", core.FormatBound(a.best),
			"bound", core.FormatBound(a.bestUB),
			"gap", fmt.Sprintf("%.4f", a.stats.Gap),
			"iterations", a.stats.Iterations,
			"explored", a.stats.Explored,
			"pruned", a.stats.Pruned,
			"duration", a.stats.Duration.Round(time.Millisecond))
	}
}
