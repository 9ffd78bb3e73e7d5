package astar

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/katalvlaran/ddsolve/core"
	"github.com/katalvlaran/ddsolve/dominance"
	"github.com/katalvlaran/ddsolve/observability"
)

var (
	// ErrBadWeight indicates a weight below 1 or a decay outside (0, 1].
	ErrBadWeight = errors.New("astar: invalid weight")

	// ErrBadOptions indicates another invalid Options value.
	ErrBadOptions = errors.New("astar: invalid options")
)

// Input gathers the model of an Anytime search. Problem, Relaxation and
// Ranking are required; Dominance defaults to none and Cutoff to never.
type Input[S comparable] struct {
	Problem    core.Problem[S]
	Relaxation core.Relaxation[S]
	Ranking    core.StateRanking[S]
	Dominance  dominance.Checker[S]
	Cutoff     core.Cutoff
}

func (in *Input[S]) validate() error {
	switch {
	case in.Problem == nil:
		return core.ErrNilProblem
	case in.Relaxation == nil:
		return core.ErrNilRelaxation
	case in.Ranking == nil:
		return core.ErrNilRanking
	}
	if in.Dominance == nil {
		in.Dominance = dominance.Empty[S]{}
	}
	if in.Cutoff == nil {
		in.Cutoff = core.NoCutoff{}
	}
	return nil
}

// Incumbent describes one anytime solution.
type Incumbent struct {
	Value     int64           // objective value
	Solution  []core.Decision // decisions sorted by variable
	Bound     int64           // best proven upper bound when found
	Gap       float64         // relative gap between Value and Bound
	Weight    float64         // weight in force when found
	Iteration int             // iteration that found it
	Elapsed   time.Duration   // time since the start of the run
}

// Status is always core.Sat: an emitted incumbent is not yet proven optimal.
func (Incumbent) Status() core.Status { return core.Sat }

// Options configures an Anytime driver.
type Options struct {
	// Weight is the initial weight w >= 1. 1 gives plain A*.
	Weight float64

	// WeightDecay multiplies the weight after every new incumbent, never
	// going below 1. Must lie in (0, 1]; 1 keeps the weight fixed.
	WeightDecay float64

	// TimeLimit and MaxIterations stop the search with status Unknown.
	// Zero disables them.
	TimeLimit     time.Duration
	MaxIterations int

	// ReportEvery is the number of iterations between progress lines at
	// verbosity >= 3.
	ReportEvery int

	// OnIncumbent, when set, receives every new incumbent synchronously.
	OnIncumbent func(Incumbent)

	Logger *log.Logger
	Hooks  observability.SearchHooks
}

// DefaultOptions returns plain A* (w = 1, no decay).
func DefaultOptions() Options {
	return Options{
		Weight:      1,
		WeightDecay: 1,
		ReportEvery: 1000,
	}
}

func (o *Options) normalize() error {
	if o.Weight == 0 {
		o.Weight = 1
	}
	if o.WeightDecay == 0 {
		o.WeightDecay = 1
	}
	if !(o.Weight >= 1) {
		return fmt.Errorf("%w: weight %g < 1", ErrBadWeight, o.Weight)
	}
	if !(o.WeightDecay > 0 && o.WeightDecay <= 1) {
		return fmt.Errorf("%w: decay %g outside (0, 1]", ErrBadWeight, o.WeightDecay)
	}
	if o.TimeLimit < 0 || o.MaxIterations < 0 || o.ReportEvery < 0 {
		return fmt.Errorf("%w: negative limit", ErrBadOptions)
	}
	if o.ReportEvery == 0 {
		o.ReportEvery = 1000
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	if o.Hooks == nil {
		o.Hooks = observability.NoopSearchHooks{}
	}
	return nil
}
