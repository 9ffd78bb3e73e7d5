// Package observability defines the hooks through which the search drivers
// report their progress.
//
// Drivers call the hooks synchronously from their single search goroutine;
// implementations must be cheap and must not block. A hook never influences
// the search.
package observability

import (
	"context"
	"time"

	"github.com/katalvlaran/ddsolve/core"
)

// Prune reasons reported through OnPrune.
const (
	PruneBound     = "bound"     // upper bound cannot beat the incumbent
	PruneCache     = "cache"     // threshold cache says already covered
	PruneDominance = "dominance" // dominated by an earlier subproblem
	PruneStale     = "stale"     // superseded entry of the open list
)

// SearchHooks receives search events.
type SearchHooks interface {
	// OnIteration fires once per popped subproblem.
	OnIteration(ctx context.Context, iteration int, frontierLen int)

	// OnCompile fires after each diagram compilation.
	OnCompile(ctx context.Context, kind string, width int, layers int, took time.Duration)

	// OnPrune fires when a subproblem is discarded.
	OnPrune(ctx context.Context, reason string)

	// OnIncumbent fires when a better solution is found.
	OnIncumbent(ctx context.Context, value int64)

	// OnComplete fires once with the final statistics.
	OnComplete(ctx context.Context, stats core.Statistics)
}

// NoopSearchHooks ignores every event.
type NoopSearchHooks struct{}

var _ SearchHooks = NoopSearchHooks{}

func (NoopSearchHooks) OnIteration(context.Context, int, int)                      {}
func (NoopSearchHooks) OnCompile(context.Context, string, int, int, time.Duration) {}
func (NoopSearchHooks) OnPrune(context.Context, string)                            {}
func (NoopSearchHooks) OnIncumbent(context.Context, int64)                         {}
func (NoopSearchHooks) OnComplete(context.Context, core.Statistics)                {}

// Multi fans every event out to several hooks, in order.
type Multi []SearchHooks

var _ SearchHooks = Multi(nil)

func (m Multi) OnIteration(ctx context.Context, iteration, frontierLen int) {
	for _, h := range m {
		h.OnIteration(ctx, iteration, frontierLen)
	}
}

func (m Multi) OnCompile(ctx context.Context, kind string, width, layers int, took time.Duration) {
	for _, h := range m {
		h.OnCompile(ctx, kind, width, layers, took)
	}
}

func (m Multi) OnPrune(ctx context.Context, reason string) {
	for _, h := range m {
		h.OnPrune(ctx, reason)
	}
}

func (m Multi) OnIncumbent(ctx context.Context, value int64) {
	for _, h := range m {
		h.OnIncumbent(ctx, value)
	}
}

func (m Multi) OnComplete(ctx context.Context, stats core.Statistics) {
	for _, h := range m {
		h.OnComplete(ctx, stats)
	}
}
