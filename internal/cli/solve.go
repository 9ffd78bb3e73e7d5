package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/katalvlaran/ddsolve/astar"
	"github.com/katalvlaran/ddsolve/config"
	"github.com/katalvlaran/ddsolve/core"
	"github.com/katalvlaran/ddsolve/dominance"
	"github.com/katalvlaran/ddsolve/frontier"
	"github.com/katalvlaran/ddsolve/metrics"
	"github.com/katalvlaran/ddsolve/observability"
	"github.com/katalvlaran/ddsolve/solver"
)

// model is what every bundled example provides.
type model[S comparable] interface {
	core.Problem[S]
	core.Relaxation[S]
	core.StateRanking[S]
}

// instance is one model ready to be solved.
type instance[S comparable] struct {
	name      string
	model     model[S]
	dominance dominance.Checker[S]
	render    func(value int64, sol []core.Decision) string
}

// solve runs the configured driver on inst and prints its summary to out.
func solve[S comparable](ctx context.Context, c *CLI, r run, inst instance[S], out io.Writer) (core.Statistics, error) {
	c.SetLogLevel(r.level)
	logger := c.Logger.With("model", inst.name)

	var hooks observability.SearchHooks = observability.NoopSearchHooks{}
	if r.metricsAddr != "" {
		reg := prometheus.NewRegistry()
		hooks = metrics.New(reg)
		stop, err := serveMetrics(ctx, r.metricsAddr, reg, logger)
		if err != nil {
			return core.Statistics{}, err
		}
		defer stop()
	}

	s, err := newSolver(r, inst, logger, hooks)
	if err != nil {
		return core.Statistics{}, err
	}

	stats, err := s.Maximize(ctx, r.cfg.Log.Verbosity, r.export)
	if err != nil {
		return stats, err
	}

	sol, _ := s.BestSolution()
	detail := ""
	if stats.HasSolution && inst.render != nil {
		detail = inst.render(stats.BestValue, sol)
	}
	printSummary(out, inst.name, r.solver, stats, detail)

	return stats, nil
}

// newSolver builds the driver selected by r.
func newSolver[S comparable](r run, inst instance[S], logger *log.Logger, hooks observability.SearchHooks) (core.Solver, error) {
	m := inst.model

	if r.solver == solverAStar {
		opts, err := r.cfg.AStarOptions()
		if err != nil {
			return nil, err
		}
		opts.Logger = logger
		opts.Hooks = hooks
		return astar.New(astar.Input[S]{
			Problem:    m,
			Relaxation: m,
			Ranking:    m,
			Dominance:  inst.dominance,
		}, opts)
	}

	opts, err := r.cfg.SolverOptions()
	if err != nil {
		return nil, err
	}
	opts.Logger = logger
	opts.Hooks = hooks

	var width core.WidthHeuristic[S] = core.NbUnassignedWidth[S]{NbVars: m.NbVariables()}
	if r.cfg.Solver.Width > 0 {
		width = core.FixedWidth[S]{Width: r.cfg.Solver.Width}
	}
	var open frontier.Frontier[S] = frontier.NewSimple[S](m)
	if r.cfg.Solver.Frontier == config.FrontierNoDup {
		open = frontier.NewNoDup[S](m)
	}

	return solver.New(solver.Input[S]{
		Problem:    m,
		Relaxation: m,
		Ranking:    m,
		Width:      width,
		Dominance:  inst.dominance,
		Frontier:   open,
	}, opts)
}
