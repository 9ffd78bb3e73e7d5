package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/ddsolve/core"
	"github.com/katalvlaran/ddsolve/dominance"
	"github.com/katalvlaran/ddsolve/examples/golomb"
	"github.com/katalvlaran/ddsolve/examples/knapsack"
	"github.com/katalvlaran/ddsolve/examples/tsptw"
)

func (c *CLI) knapsackCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "knapsack FILE",
		Short: "Solve a 0/1 knapsack instance",
		Long: `Solve a 0/1 knapsack instance. The file starts with "n capacity" followed by ` +
			`n lines "profit weight"; lines starting with # are ignored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := c.flags.resolve(cmd)
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			inst, err := knapsack.Read(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			m, err := knapsack.New(inst)
			if err != nil {
				return err
			}

			_, err = solve(cmd.Context(), c, r, instance[knapsack.State]{
				name:      "knapsack",
				model:     m,
				dominance: dominance.NewSimple[knapsack.State, int](m),
				render: func(_ int64, sol []core.Decision) string {
					var items []string
					for _, d := range sol {
						if d.Value == 1 {
							items = append(items, strconv.Itoa(d.Variable.ID()))
						}
					}
					return "items " + strings.Join(items, " ")
				},
			}, cmd.OutOrStdout())
			return err
		},
	}
}

func (c *CLI) golombCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "golomb N",
		Short: "Find an optimal Golomb ruler with N marks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := c.flags.resolve(cmd)
			if err != nil {
				return err
			}
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid number of marks %q: %w", args[0], err)
			}
			m, err := golomb.New(n)
			if err != nil {
				return err
			}

			_, err = solve(cmd.Context(), c, r, instance[golomb.State]{
				name:  "golomb",
				model: m,
				render: func(value int64, sol []core.Decision) string {
					return fmt.Sprintf("marks %v, length %d", golomb.Ruler(sol), -value)
				},
			}, cmd.OutOrStdout())
			return err
		},
	}
}

func (c *CLI) tsptwCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tsptw FILE",
		Short: "Solve a travelling salesman instance with time windows",
		Long: `Solve a travelling salesman instance with time windows. The file holds the ` +
			`number of nodes n, the n×n travel time matrix, then one "earliest latest" window per node. ` +
			`Node 0 is the depot.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := c.flags.resolve(cmd)
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			inst, err := tsptw.Read(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			m, err := tsptw.New(inst)
			if err != nil {
				return err
			}

			_, err = solve(cmd.Context(), c, r, instance[tsptw.State]{
				name:      "tsptw",
				model:     m,
				dominance: dominance.NewSimple[tsptw.State, tsptw.Key](m),
				render: func(value int64, sol []core.Decision) string {
					return fmt.Sprintf("tour %v, travel time %d", tsptw.Tour(sol), -value)
				},
			}, cmd.OutOrStdout())
			return err
		},
	}
}
