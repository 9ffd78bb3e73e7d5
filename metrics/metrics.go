// Package metrics exports search progress as Prometheus metrics.
//
// Hooks implements observability.SearchHooks. All collectors are registered
// on the Registerer given to New, so several solvers may run side by side
// with their own registries.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/katalvlaran/ddsolve/core"
	"github.com/katalvlaran/ddsolve/observability"
)

// Hooks records search events into Prometheus collectors.
type Hooks struct {
	iterations      prometheus.Counter
	frontierSize    prometheus.Gauge
	compileDuration *prometheus.HistogramVec
	compileLayers   *prometheus.GaugeVec
	pruned          *prometheus.CounterVec
	incumbents      prometheus.Counter
	incumbentValue  prometheus.Gauge
	runs            *prometheus.CounterVec
	gap             prometheus.Gauge
}

var _ observability.SearchHooks = (*Hooks)(nil)

// New registers the search collectors on reg and returns the hooks feeding
// them. It panics if a collector is already registered on reg, like
// promauto.
func New(reg prometheus.Registerer) *Hooks {
	f := promauto.With(reg)
	return &Hooks{
		iterations: f.NewCounter(prometheus.CounterOpts{
			Name: "ddsolve_iterations_total",
			Help: "Subproblems popped from the frontier",
		}),
		frontierSize: f.NewGauge(prometheus.GaugeOpts{
			Name: "ddsolve_frontier_size",
			Help: "Current number of open subproblems",
		}),
		compileDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ddsolve_compile_duration_seconds",
			Help:    "Duration of decision diagram compilations",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
		}, []string{"kind"}),
		compileLayers: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ddsolve_compile_layers",
			Help: "Number of layers of the last compiled diagram",
		}, []string{"kind"}),
		pruned: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ddsolve_pruned_total",
			Help: "Subproblems discarded, by reason",
		}, []string{"reason"}),
		incumbents: f.NewCounter(prometheus.CounterOpts{
			Name: "ddsolve_incumbents_total",
			Help: "Improving solutions found",
		}),
		incumbentValue: f.NewGauge(prometheus.GaugeOpts{
			Name: "ddsolve_incumbent_value",
			Help: "Value of the best solution found so far",
		}),
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ddsolve_runs_total",
			Help: "Completed searches, by final status",
		}, []string{"status"}),
		gap: f.NewGauge(prometheus.GaugeOpts{
			Name: "ddsolve_gap",
			Help: "Relative optimality gap of the last completed search",
		}),
	}
}

func (h *Hooks) OnIteration(_ context.Context, _ int, frontierLen int) {
	h.iterations.Inc()
	h.frontierSize.Set(float64(frontierLen))
}

func (h *Hooks) OnCompile(_ context.Context, kind string, _ int, layers int, took time.Duration) {
	h.compileDuration.WithLabelValues(kind).Observe(took.Seconds())
	h.compileLayers.WithLabelValues(kind).Set(float64(layers))
}

func (h *Hooks) OnPrune(_ context.Context, reason string) {
	h.pruned.WithLabelValues(reason).Inc()
}

func (h *Hooks) OnIncumbent(_ context.Context, value int64) {
	h.incumbents.Inc()
	h.incumbentValue.Set(float64(value))
}

func (h *Hooks) OnComplete(_ context.Context, stats core.Statistics) {
	h.runs.WithLabelValues(stats.Status.String()).Inc()
	h.gap.Set(stats.Gap)
	h.frontierSize.Set(0)
}
