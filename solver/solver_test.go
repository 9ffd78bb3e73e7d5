package solver_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ddsolve/cache"
	"github.com/katalvlaran/ddsolve/core"
	"github.com/katalvlaran/ddsolve/dominance"
	"github.com/katalvlaran/ddsolve/examples/golomb"
	"github.com/katalvlaran/ddsolve/examples/knapsack"
	"github.com/katalvlaran/ddsolve/examples/tsptw"
	"github.com/katalvlaran/ddsolve/frontier"
	"github.com/katalvlaran/ddsolve/mdd"
	"github.com/katalvlaran/ddsolve/observability"
	"github.com/katalvlaran/ddsolve/solver"
)

var seeds = []int64{1, 2, 3, 4, 5, 6}

// quiet discards every log line.
func quiet() solver.Options {
	opts := solver.DefaultOptions()
	opts.Logger = log.New(&bytes.Buffer{})
	return opts
}

func knapsackInput(t *testing.T, n int, seed int64) (solver.Input[knapsack.State], *knapsack.Model, int64) {
	t.Helper()
	inst := knapsack.Random(n, 40, seed)
	m, err := knapsack.New(inst)
	require.NoError(t, err)
	opt, err := knapsack.Optimum(inst)
	require.NoError(t, err)

	return solver.Input[knapsack.State]{
		Problem:    m,
		Relaxation: m,
		Ranking:    m,
		Width:      core.FixedWidth[knapsack.State]{Width: 3},
	}, m, opt
}

func TestSequential_KnapsackMatchesOracle(t *testing.T) {
	type variant struct {
		name     string
		cutset   mdd.CutsetType
		noDup    bool
		dominate bool
	}
	variants := []variant{
		{name: "frontier", cutset: mdd.Frontier},
		{name: "lel", cutset: mdd.LastExactLayer},
		{name: "frontier/nodup", cutset: mdd.Frontier, noDup: true},
		{name: "lel/dominance", cutset: mdd.LastExactLayer, dominate: true},
	}

	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			for _, seed := range seeds {
				in, m, opt := knapsackInput(t, 18, seed)
				if v.noDup {
					in.Frontier = frontier.NewNoDup[knapsack.State](m)
				}
				if v.dominate {
					in.Dominance = dominance.NewSimple[knapsack.State, int](m)
				}
				opts := quiet()
				opts.Cutset = v.cutset
				s, err := solver.New(in, opts)
				require.NoError(t, err)

				stats, err := s.Maximize(context.Background(), 0, false)
				require.NoError(t, err)
				require.Equal(t, core.Optimal, stats.Status, "seed %d", seed)

				got, ok := s.BestValue()
				require.True(t, ok)
				assert.Equal(t, opt, got, "seed %d", seed)
				assert.Equal(t, opt, stats.BestBound)
				assert.Zero(t, stats.Gap)
				assert.Zero(t, s.Gap())

				sol, ok := s.BestSolution()
				require.True(t, ok)
				val, err := m.Evaluate(sol)
				require.NoError(t, err)
				assert.Equal(t, opt, val)
			}
		})
	}
}

func TestSequential_Golomb(t *testing.T) {
	lengths := map[int]int64{3: 3, 4: 6, 5: 11, 6: 17}
	for n, length := range lengths {
		m, err := golomb.New(n)
		require.NoError(t, err)
		s, err := solver.New(solver.Input[golomb.State]{
			Problem:    m,
			Relaxation: m,
			Ranking:    m,
			Width:      core.FixedWidth[golomb.State]{Width: 10},
		}, quiet())
		require.NoError(t, err)

		stats, err := s.Maximize(context.Background(), 0, false)
		require.NoError(t, err)
		assert.Equal(t, core.Optimal, stats.Status, "n=%d", n)
		assert.Equal(t, -length, stats.BestValue, "n=%d", n)

		sol, ok := s.BestSolution()
		require.True(t, ok)
		assert.True(t, golomb.IsGolomb(golomb.Ruler(sol)), "n=%d", n)
	}
}

func TestSequential_TSPTWMatchesExact(t *testing.T) {
	for _, seed := range seeds {
		inst := tsptw.Random(8, 40, 15, seed)
		want, err := tsptw.Exact(inst)
		require.NoError(t, err)

		m, err := tsptw.New(inst)
		require.NoError(t, err)
		s, err := solver.New(solver.Input[tsptw.State]{
			Problem:    m,
			Relaxation: m,
			Ranking:    m,
			Width:      core.NbUnassignedWidth[tsptw.State]{NbVars: m.NbVariables()},
			Dominance:  dominance.NewSimple[tsptw.State, tsptw.Key](m),
		}, quiet())
		require.NoError(t, err)

		stats, err := s.Maximize(context.Background(), 0, false)
		require.NoError(t, err)
		require.Equal(t, core.Optimal, stats.Status, "seed %d", seed)
		assert.Equal(t, -want.Cost, stats.BestValue, "seed %d", seed)

		sol, _ := s.BestSolution()
		cost, err := m.Evaluate(tsptw.Tour(sol))
		require.NoError(t, err)
		assert.Equal(t, want.Cost, cost)
	}
}

func TestSequential_Unsat(t *testing.T) {
	inst, err := tsptw.Read(strings.NewReader("4\n0 2 4 3\n2 0 2 5\n4 2 0 2\n3 5 2 0\n0 100\n0 3\n0 1\n0 20\n"))
	require.NoError(t, err)
	m, err := tsptw.New(inst)
	require.NoError(t, err)
	s, err := solver.New(solver.Input[tsptw.State]{
		Problem:    m,
		Relaxation: m,
		Ranking:    m,
		Width:      core.FixedWidth[tsptw.State]{Width: 2},
	}, quiet())
	require.NoError(t, err)

	stats, err := s.Maximize(context.Background(), 0, false)
	require.NoError(t, err)
	assert.Equal(t, core.Unsat, stats.Status)
	assert.False(t, stats.HasSolution)
	assert.Equal(t, core.NegInf, stats.BestBound)
	_, ok := s.BestSolution()
	assert.False(t, ok)
	assert.Zero(t, s.Gap())
}

func TestSequential_StopConditions(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	cases := map[string]struct {
		ctx    context.Context
		cutoff core.Cutoff
		opts   func(*solver.Options)
	}{
		"cancelled context": {ctx: cancelled},
		"cutoff":            {ctx: context.Background(), cutoff: &core.IterationBudget{Max: 0}},
		"iteration limit": {ctx: context.Background(), opts: func(o *solver.Options) {
			o.MaxIterations = 1
		}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			in, _, _ := knapsackInput(t, 40, 7)
			in.Width = core.FixedWidth[knapsack.State]{Width: 1}
			in.Cutoff = tc.cutoff
			opts := quiet()
			if tc.opts != nil {
				tc.opts(&opts)
			}
			s, err := solver.New(in, opts)
			require.NoError(t, err)

			stats, err := s.Maximize(tc.ctx, 0, false)
			require.NoError(t, err)
			assert.Equal(t, core.Unknown, stats.Status)
			assert.LessOrEqual(t, stats.Iterations, 1)
			if stats.HasSolution {
				assert.GreaterOrEqual(t, stats.BestBound, stats.BestValue)
			} else {
				assert.Equal(t, 1.0, stats.Gap)
			}
		})
	}
}

func TestSequential_Rerun(t *testing.T) {
	in, _, opt := knapsackInput(t, 15, 3)
	s, err := solver.New(in, quiet())
	require.NoError(t, err)

	first, err := s.Maximize(context.Background(), 0, false)
	require.NoError(t, err)
	second, err := s.Maximize(context.Background(), 0, false)
	require.NoError(t, err)

	assert.Equal(t, opt, first.BestValue)
	assert.Equal(t, first.BestValue, second.BestValue)
	assert.Equal(t, first.Iterations, second.Iterations)
	assert.NotEqual(t, first.RunID, second.RunID)
}

// recorder counts search events.
type recorder struct {
	observability.NoopSearchHooks
	iterations int
	compiles   map[string]int
	incumbents []int64
	prunes     map[string]int
	completed  []core.Statistics
}

func (r *recorder) OnIteration(context.Context, int, int) { r.iterations++ }

func (r *recorder) OnCompile(_ context.Context, kind string, _, _ int, _ time.Duration) {
	r.compiles[kind]++
}

func (r *recorder) OnIncumbent(_ context.Context, v int64) { r.incumbents = append(r.incumbents, v) }

func (r *recorder) OnPrune(_ context.Context, reason string) { r.prunes[reason]++ }

func (r *recorder) OnComplete(_ context.Context, s core.Statistics) {
	r.completed = append(r.completed, s)
}

func TestSequential_Hooks(t *testing.T) {
	in, _, opt := knapsackInput(t, 20, 5)
	in.Cache = cache.NewSimple[knapsack.State](20)
	rec := &recorder{compiles: map[string]int{}, prunes: map[string]int{}}
	opts := quiet()
	opts.Hooks = rec
	s, err := solver.New(in, opts)
	require.NoError(t, err)

	stats, err := s.Maximize(context.Background(), 0, false)
	require.NoError(t, err)

	assert.Equal(t, stats.Iterations, rec.iterations)
	assert.Positive(t, rec.compiles[mdd.Relaxed.String()])
	require.NotEmpty(t, rec.incumbents)
	for i := 1; i < len(rec.incumbents); i++ {
		assert.Greater(t, rec.incumbents[i], rec.incumbents[i-1], "incumbents strictly improve")
	}
	assert.Equal(t, opt, rec.incumbents[len(rec.incumbents)-1])
	require.Len(t, rec.completed, 1)
	assert.Equal(t, stats, rec.completed[0])
}

func TestSequential_ThresholdCacheSkipsSubproblems(t *testing.T) {
	run := func(c cache.Cache[knapsack.State]) (core.Statistics, *recorder) {
		in, _, _ := knapsackInput(t, 30, 1)
		in.Width = core.FixedWidth[knapsack.State]{Width: 2}
		in.Cache = c
		rec := &recorder{compiles: map[string]int{}, prunes: map[string]int{}}
		opts := quiet()
		opts.Hooks = rec
		s, err := solver.New(in, opts)
		require.NoError(t, err)
		stats, err := s.Maximize(context.Background(), 0, false)
		require.NoError(t, err)
		require.Equal(t, core.Optimal, stats.Status)
		return stats, rec
	}
	_, _, opt := knapsackInput(t, 30, 1)

	cached, rec := run(cache.NewSimple[knapsack.State](30))
	plain, plainRec := run(cache.Empty[knapsack.State]{})

	assert.Equal(t, opt, cached.BestValue)
	assert.Equal(t, opt, plain.BestValue)
	assert.Positive(t, rec.prunes[observability.PruneCache])
	assert.Zero(t, plainRec.prunes[observability.PruneCache])
	assert.Less(t, cached.Iterations, plain.Iterations)
}

func TestSequential_Logging(t *testing.T) {
	in, _, _ := knapsackInput(t, 12, 2)
	var buf bytes.Buffer
	opts := solver.DefaultOptions()
	opts.Logger = log.New(&buf)
	s, err := solver.New(in, opts)
	require.NoError(t, err)

	stats, err := s.Maximize(context.Background(), 2, false)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "new incumbent")
	assert.Contains(t, out, "search finished")
	assert.Contains(t, out, stats.RunID)
	assert.NotContains(t, out, "progress")

	buf.Reset()
	_, err = s.Maximize(context.Background(), 0, false)
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestSequential_ExportsDiagrams(t *testing.T) {
	in, _, _ := knapsackInput(t, 12, 4)
	dir := filepath.Join(t.TempDir(), "out")
	opts := quiet()
	opts.ExportDir = dir
	s, err := solver.New(in, opts)
	require.NoError(t, err)

	_, err = s.Maximize(context.Background(), 0, true)
	require.NoError(t, err)

	dot, err := os.ReadFile(filepath.Join(dir, "relaxed.dot"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(dot), `digraph "relaxed"`))
}

func TestWriteDiagram_SVG(t *testing.T) {
	_, m, _ := knapsackInput(t, 6, 1)
	d, err := mdd.Compile(mdd.CompilationInput[knapsack.State]{
		Kind:       mdd.Relaxed,
		Problem:    m,
		Relaxation: m,
		Ranking:    m,
		Residual:   core.Root[knapsack.State](m, m),
		MaxWidth:   2,
		BestLB:     core.NegInf,
	})
	require.NoError(t, err)

	paths, err := solver.WriteDiagram(context.Background(), t.TempDir(), "relaxed", d, true)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	svg, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")
}

func TestNew_Errors(t *testing.T) {
	in, _, _ := knapsackInput(t, 5, 1)

	missing := in
	missing.Problem = nil
	_, err := solver.New(missing, quiet())
	assert.ErrorIs(t, err, core.ErrNilProblem)

	missing = in
	missing.Width = nil
	_, err = solver.New(missing, quiet())
	assert.ErrorIs(t, err, core.ErrNilWidth)

	bad := []func(*solver.Options){
		func(o *solver.Options) { o.TimeLimit = -time.Second },
		func(o *solver.Options) { o.MaxIterations = -1 },
		func(o *solver.Options) { o.ReportEvery = -5 },
		func(o *solver.Options) { o.Cutset = mdd.CutsetType(9) },
	}
	for i, mutate := range bad {
		opts := quiet()
		mutate(&opts)
		_, err = solver.New(in, opts)
		assert.True(t, errors.Is(err, solver.ErrBadOptions), "case %d: %v", i, err)
	}
}

// violating breaks the relaxation contract.
type violating struct{ *knapsack.Model }

func (violating) Relax(_, _, _ knapsack.State, _ core.Decision, cost int64) int64 { return cost - 1 }

func TestSequential_ModelViolation(t *testing.T) {
	in, m, _ := knapsackInput(t, 20, 1)
	in.Relaxation = violating{m}
	in.Width = core.FixedWidth[knapsack.State]{Width: 2}
	s, err := solver.New(in, quiet())
	require.NoError(t, err)

	stats, err := s.Maximize(context.Background(), 0, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrModelViolation))
	assert.Equal(t, core.Unknown, stats.Status)
}
