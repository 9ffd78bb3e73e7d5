package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/katalvlaran/ddsolve/astar"
	"github.com/katalvlaran/ddsolve/mdd"
	"github.com/katalvlaran/ddsolve/solver"
)

// ErrInvalidConfig indicates a malformed or inconsistent configuration.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Frontier implementations selectable from a file.
const (
	FrontierSimple = "simple"
	FrontierNoDup  = "nodup"
)

// Config is the content of a configuration file.
type Config struct {
	Solver SolverConfig `toml:"solver"`
	AStar  AStarConfig  `toml:"astar"`
	Log    LogConfig    `toml:"log"`
}

// SolverConfig configures the branch-and-bound driver.
type SolverConfig struct {
	Width         int           `toml:"width"`
	Cutset        string        `toml:"cutset"`
	Frontier      string        `toml:"frontier"`
	TimeLimit     time.Duration `toml:"time_limit"`
	MaxIterations int           `toml:"max_iterations"`
	ReportEvery   int           `toml:"report_every"`
	Export        bool          `toml:"export"`
	ExportDir     string        `toml:"export_dir"`
	ExportSVG     bool          `toml:"export_svg"`
}

// AStarConfig configures the anytime A* driver.
type AStarConfig struct {
	Weight      float64 `toml:"weight"`
	WeightDecay float64 `toml:"weight_decay"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level     string `toml:"level"`
	Verbosity int    `toml:"verbosity"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	so := solver.DefaultOptions()
	ao := astar.DefaultOptions()
	return Config{
		Solver: SolverConfig{
			Cutset:      so.Cutset.String(),
			Frontier:    FrontierSimple,
			ReportEvery: so.ReportEvery,
			ExportDir:   so.ExportDir,
		},
		AStar: AStarConfig{Weight: ao.Weight, WeightDecay: ao.WeightDecay},
		Log:   LogConfig{Level: "info", Verbosity: 1},
	}
}

// Load reads and parses the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data over Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%w: unknown keys %s", ErrInvalidConfig, strings.Join(keys, ", "))
	}
	// Naming an export target turns export on unless the file says otherwise.
	if !md.IsDefined("solver", "export") &&
		(md.IsDefined("solver", "export_dir") || md.IsDefined("solver", "export_svg")) {
		cfg.Solver.Export = true
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field.
func (c Config) Validate() error {
	if _, err := c.SolverOptions(); err != nil {
		return err
	}
	if _, err := c.AStarOptions(); err != nil {
		return err
	}
	if c.Solver.Width < 0 {
		return fmt.Errorf("%w: negative width %d", ErrInvalidConfig, c.Solver.Width)
	}
	switch c.Solver.Frontier {
	case FrontierSimple, FrontierNoDup:
	default:
		return fmt.Errorf("%w: unknown frontier %q", ErrInvalidConfig, c.Solver.Frontier)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if c.Log.Verbosity < 0 || c.Log.Verbosity > 4 {
		return fmt.Errorf("%w: verbosity %d outside [0, 4]", ErrInvalidConfig, c.Log.Verbosity)
	}
	return nil
}

// SolverOptions converts the [solver] section. Logger and Hooks are left
// for the caller.
func (c Config) SolverOptions() (solver.Options, error) {
	cutset, err := mdd.ParseCutset(c.Solver.Cutset)
	if err != nil {
		return solver.Options{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	opts := solver.Options{
		Cutset:        cutset,
		TimeLimit:     c.Solver.TimeLimit,
		MaxIterations: c.Solver.MaxIterations,
		ReportEvery:   c.Solver.ReportEvery,
		ExportDir:     c.Solver.ExportDir,
		ExportSVG:     c.Solver.ExportSVG,
	}
	if opts.TimeLimit < 0 || opts.MaxIterations < 0 || opts.ReportEvery < 0 {
		return solver.Options{}, fmt.Errorf("%w: negative solver limit", ErrInvalidConfig)
	}
	return opts, nil
}

// AStarOptions converts the [astar] section, sharing the limits of the
// [solver] section.
func (c Config) AStarOptions() (astar.Options, error) {
	if !(c.AStar.Weight >= 1) {
		return astar.Options{}, fmt.Errorf("%w: %w: weight %g", ErrInvalidConfig, astar.ErrBadWeight, c.AStar.Weight)
	}
	if !(c.AStar.WeightDecay > 0 && c.AStar.WeightDecay <= 1) {
		return astar.Options{}, fmt.Errorf("%w: %w: decay %g", ErrInvalidConfig, astar.ErrBadWeight, c.AStar.WeightDecay)
	}
	return astar.Options{
		Weight:        c.AStar.Weight,
		WeightDecay:   c.AStar.WeightDecay,
		TimeLimit:     c.Solver.TimeLimit,
		MaxIterations: c.Solver.MaxIterations,
		ReportEvery:   c.Solver.ReportEvery,
	}, nil
}

// LogLevel parses the [log] level.
func (c Config) LogLevel() (log.Level, error) {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return lvl, nil
}
