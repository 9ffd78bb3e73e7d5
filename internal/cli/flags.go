package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/ddsolve/config"
)

// Driver names accepted by --solver.
const (
	solverBB    = "bb"
	solverAStar = "astar"
)

// flags holds the persistent flag values.
type flags struct {
	solver      string
	width       int
	cutset      string
	frontier    string
	timeout     time.Duration
	verbosity   int
	export      string
	svg         bool
	config      string
	weight      float64
	decay       float64
	metricsAddr string
	verbose     bool
}

func (f *flags) register(cmd *cobra.Command) {
	p := cmd.PersistentFlags()
	p.StringVar(&f.solver, "solver", solverBB, "search driver: bb or astar")
	p.IntVarP(&f.width, "width", "w", 0, "maximum diagram width (0: number of unassigned variables)")
	p.StringVar(&f.cutset, "cutset", "frontier", "cutset policy: frontier or lel")
	p.StringVar(&f.frontier, "frontier", config.FrontierSimple, "frontier implementation: simple or nodup")
	p.DurationVarP(&f.timeout, "timeout", "t", 0, "time limit (0: none)")
	p.IntVar(&f.verbosity, "verbosity", 1, "search log verbosity, 0 to 4")
	p.StringVar(&f.export, "export", "", "export the first relaxed and restricted diagrams to this directory")
	p.BoolVar(&f.svg, "svg", false, "export diagrams, also rendered as SVG")
	p.StringVarP(&f.config, "config", "c", "", "TOML configuration file")
	p.Float64Var(&f.weight, "weight", 1, "initial A* weight (>= 1)")
	p.Float64Var(&f.decay, "weight-decay", 1, "A* weight decay per incumbent, in (0, 1]")
	p.StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while solving")
	p.BoolVarP(&f.verbose, "verbose", "v", false, "enable debug logging")
}

// run is the resolved configuration of one invocation.
type run struct {
	cfg         config.Config
	level       log.Level
	solver      string
	export      bool
	metricsAddr string
}

// resolve merges defaults, the configuration file and the flags the user
// set explicitly.
func (f *flags) resolve(cmd *cobra.Command) (run, error) {
	cfg := config.Default()
	if f.config != "" {
		var err error
		if cfg, err = config.Load(f.config); err != nil {
			return run{}, err
		}
	}

	changed := cmd.Flags().Changed
	if changed("width") {
		cfg.Solver.Width = f.width
	}
	if changed("cutset") {
		cfg.Solver.Cutset = f.cutset
	}
	if changed("frontier") {
		cfg.Solver.Frontier = f.frontier
	}
	if changed("timeout") {
		cfg.Solver.TimeLimit = f.timeout
	}
	if changed("verbosity") {
		cfg.Log.Verbosity = f.verbosity
	}
	if changed("export") {
		cfg.Solver.ExportDir = f.export
		cfg.Solver.Export = true
	}
	if changed("svg") {
		cfg.Solver.ExportSVG = f.svg
		cfg.Solver.Export = cfg.Solver.Export || f.svg
	}
	if changed("weight") {
		cfg.AStar.Weight = f.weight
	}
	if changed("weight-decay") {
		cfg.AStar.WeightDecay = f.decay
	}
	if err := cfg.Validate(); err != nil {
		return run{}, err
	}

	switch f.solver {
	case solverBB, solverAStar:
	default:
		return run{}, fmt.Errorf("unknown solver %q (want %s or %s)", f.solver, solverBB, solverAStar)
	}

	level, err := cfg.LogLevel()
	if err != nil {
		return run{}, err
	}
	if f.verbose {
		level = log.DebugLevel
	}

	return run{
		cfg:         cfg,
		level:       level,
		solver:      f.solver,
		export:      cfg.Solver.Export,
		metricsAddr: f.metricsAddr,
	}, nil
}
