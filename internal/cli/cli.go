// Package cli implements the ddsolve command-line interface.
//
// Each subcommand reads one instance of a bundled model, runs the selected
// driver and prints a styled summary on the command's output. Progress and
// diagnostics go to the logger (stderr), controlled by --verbosity and
// --verbose.
//
// Settings come from defaults, then the --config TOML file, then the flags
// explicitly set on the command line.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

const appName = "ddsolve"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	flags flags
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "ddsolve solves discrete optimization problems with decision diagrams",
		Long: `ddsolve maximizes discrete optimization models with a branch-and-bound over ` +
			`relaxed and restricted decision diagrams, or with an anytime weighted A* search.`,
		SilenceUsage: true,
	}

	c.flags.register(root)

	root.AddCommand(c.knapsackCommand())
	root.AddCommand(c.golombCommand())
	root.AddCommand(c.tsptwCommand())

	return root
}
