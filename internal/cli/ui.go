package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/katalvlaran/ddsolve/core"
)

var (
	colorCyan   = lipgloss.Color("36")  // Teal - titles
	colorGreen  = lipgloss.Color("35")  // Green - proven results
	colorYellow = lipgloss.Color("220") // Amber - unproven results
	colorRed    = lipgloss.Color("167") // Soft red - infeasible
	colorDim    = lipgloss.Color("240") // Dim gray - labels
)

var (
	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleLabel = lipgloss.NewStyle().Foreground(colorDim).Width(11)
	styleValue = lipgloss.NewStyle().Bold(true)
)

// statusStyle colors a termination status.
func statusStyle(s core.Status) lipgloss.Style {
	switch s {
	case core.Optimal:
		return lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	case core.Unsat:
		return lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	default:
		return lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	}
}

// printSummary writes the result block of one run.
func printSummary(w io.Writer, model, driver string, stats core.Statistics, detail string) {
	best := "none"
	if stats.HasSolution {
		best = fmt.Sprintf("%d", stats.BestValue)
	}
	rows := [][2]string{
		{"status", statusStyle(stats.Status).Render(stats.Status.String())},
		{"best", styleValue.Render(best)},
		{"bound", core.FormatBound(stats.BestBound)},
		{"gap", fmt.Sprintf("%.2f%%", 100*stats.Gap)},
		{"iterations", fmt.Sprintf("%d (explored %d, pruned %d)", stats.Iterations, stats.Explored, stats.Pruned)},
		{"duration", stats.Duration.Round(time.Millisecond).String()},
	}
	if detail != "" {
		rows = append(rows, [2]string{"solution", detail})
	}

	var b strings.Builder
	b.WriteString(styleTitle.Render(fmt.Sprintf("%s · %s", model, driver)))
	b.WriteString("\n")
	for _, r := range rows {
		b.WriteString(styleLabel.Render(r[0]) + " " + r[1] + "\n")
	}
	fmt.Fprint(w, b.String())
}
