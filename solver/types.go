package solver

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/katalvlaran/ddsolve/cache"
	"github.com/katalvlaran/ddsolve/core"
	"github.com/katalvlaran/ddsolve/dominance"
	"github.com/katalvlaran/ddsolve/frontier"
	"github.com/katalvlaran/ddsolve/mdd"
	"github.com/katalvlaran/ddsolve/observability"
)

// ErrBadOptions indicates an invalid Options value.
var ErrBadOptions = errors.New("solver: invalid options")

// Input gathers the model and the search components of a driver.
// Problem, Relaxation, Ranking and Width are required; the other fields
// default to no dominance, a fresh Simple cache, a Simple frontier and no
// cutoff.
type Input[S comparable] struct {
	Problem    core.Problem[S]
	Relaxation core.Relaxation[S]
	Ranking    core.StateRanking[S]
	Width      core.WidthHeuristic[S]
	Dominance  dominance.Checker[S]
	Cache      cache.Cache[S]
	Frontier   frontier.Frontier[S]
	Cutoff     core.Cutoff
}

// validate checks the required fields and fills the optional ones.
func (in *Input[S]) validate() error {
	switch {
	case in.Problem == nil:
		return core.ErrNilProblem
	case in.Relaxation == nil:
		return core.ErrNilRelaxation
	case in.Ranking == nil:
		return core.ErrNilRanking
	case in.Width == nil:
		return core.ErrNilWidth
	}
	if in.Dominance == nil {
		in.Dominance = dominance.Empty[S]{}
	}
	if in.Cache == nil {
		in.Cache = cache.NewSimple[S](in.Problem.NbVariables())
	}
	if in.Frontier == nil {
		in.Frontier = frontier.NewSimple[S](in.Ranking)
	}
	if in.Cutoff == nil {
		in.Cutoff = core.NoCutoff{}
	}
	return nil
}

// Options configures a Sequential driver.
//   - Cutset: cutset policy used to re-seed the frontier (default Frontier).
//   - TimeLimit: wall-clock budget per Maximize; 0 disables it.
//   - MaxIterations: popped-subproblem budget per Maximize; 0 disables it.
//   - ReportEvery: iterations between progress lines at verbosity >= 3.
//   - ExportDir, ExportSVG: where and how diagrams are exported.
//   - Logger: destination of the run log (default log.Default()).
//   - Hooks: search event sink (default no-op).
type Options struct {
	Cutset        mdd.CutsetType
	TimeLimit     time.Duration
	MaxIterations int
	ReportEvery   int
	ExportDir     string
	ExportSVG     bool
	Logger        *log.Logger
	Hooks         observability.SearchHooks
}

// DefaultOptions returns the recommended defaults.
func DefaultOptions() Options {
	return Options{
		Cutset:      mdd.Frontier,
		ReportEvery: 1000,
		ExportDir:   ".",
	}
}

// normalize validates o and fills its zero fields with defaults.
func (o *Options) normalize() error {
	if o.TimeLimit < 0 {
		return fmt.Errorf("%w: negative time limit %s", ErrBadOptions, o.TimeLimit)
	}
	if o.MaxIterations < 0 {
		return fmt.Errorf("%w: negative iteration limit %d", ErrBadOptions, o.MaxIterations)
	}
	if o.ReportEvery < 0 {
		return fmt.Errorf("%w: negative report period %d", ErrBadOptions, o.ReportEvery)
	}
	if o.Cutset != mdd.LastExactLayer && o.Cutset != mdd.Frontier {
		return fmt.Errorf("%w: %w", ErrBadOptions, mdd.ErrUnknownCutset)
	}
	if o.ReportEvery == 0 {
		o.ReportEvery = 1000
	}
	if o.ExportDir == "" {
		o.ExportDir = "."
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	if o.Hooks == nil {
		o.Hooks = observability.NoopSearchHooks{}
	}
	return nil
}
