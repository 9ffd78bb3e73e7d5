package frontier_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/ddsolve/core"
	"github.com/katalvlaran/ddsolve/examples/knapsack"
	"github.com/katalvlaran/ddsolve/frontier"
	"github.com/katalvlaran/ddsolve/mdd"
)

// byValue ranks integer states by their value.
var byValue = core.RankingFunc[int](func(a, b int) int { return a - b })

func sub(state int, value, ub int64, depth int) *core.Subproblem[int] {
	return &core.Subproblem[int]{State: state, Value: value, UB: ub, Path: make([]core.Decision, depth)}
}

// FrontierSuite runs the ordering properties against both implementations.
type FrontierSuite struct {
	suite.Suite
	make func() frontier.Frontier[int]
}

func (s *FrontierSuite) TestEmpty() {
	f := s.make()
	_, ok := f.Pop()
	s.False(ok)
	s.Equal(0, f.Len())
}

func (s *FrontierSuite) TestPopsNonIncreasingBounds() {
	r := rand.New(rand.NewSource(42))
	for round := 0; round < 20; round++ {
		f := s.make()
		n := 1 + r.Intn(200)
		for i := 0; i < n; i++ {
			// Distinct states keep NoDup from folding entries.
			f.Push(sub(round*1000+i, r.Int63n(50), r.Int63n(100)-50, r.Intn(5)))
		}
		s.Equal(n, f.Len())

		prev := core.PosInf
		for f.Len() > 0 {
			got, ok := f.Pop()
			s.Require().True(ok)
			s.LessOrEqual(got.UB, prev)
			prev = got.UB
		}
	}
}

func (s *FrontierSuite) TestTieBreaks() {
	f := s.make()
	f.Push(sub(1, 0, 10, 1))
	f.Push(sub(2, 0, 10, 1)) // better ranking
	f.Push(sub(3, 0, 12, 1)) // better bound
	f.Push(sub(0, 5, 10, 1)) // worse ranking, despite value
	order := []int{3, 2, 1, 0}
	for _, want := range order {
		got, ok := f.Pop()
		s.Require().True(ok)
		s.Equal(want, got.State)
	}
}

func (s *FrontierSuite) TestClear() {
	f := s.make()
	f.Push(sub(1, 0, 1, 0))
	f.Push(sub(2, 0, 1, 0))
	f.Clear()
	s.Equal(0, f.Len())
	f.Push(sub(1, 0, 1, 0))
	s.Equal(1, f.Len())
}

func TestSimple(t *testing.T) {
	suite.Run(t, &FrontierSuite{make: func() frontier.Frontier[int] { return frontier.NewSimple[int](byValue) }})
}

func TestNoDup(t *testing.T) {
	suite.Run(t, &FrontierSuite{make: func() frontier.Frontier[int] { return frontier.NewNoDup[int](byValue) }})
}

func TestSimple_FIFOOnFullTie(t *testing.T) {
	f := frontier.NewSimple[int](core.RankingFunc[int](func(int, int) int { return 0 }))
	first, second := sub(7, 1, 3, 0), sub(7, 1, 3, 0)
	f.Push(first)
	f.Push(second)
	got, _ := f.Pop()
	assert.Same(t, first, got)
	got, _ = f.Pop()
	assert.Same(t, second, got)
}

func TestNoDup_KeepsBestValue(t *testing.T) {
	f := frontier.NewNoDup[int](byValue)
	f.Push(sub(4, 1, 10, 2))
	f.Push(sub(4, 3, 12, 2)) // same key, better value: replaces
	f.Push(sub(4, 2, 20, 2)) // same key, worse value: dropped
	f.Push(sub(4, 0, 5, 3))  // other depth: distinct
	require.Equal(t, 2, f.Len())

	got, _ := f.Pop()
	assert.Equal(t, int64(3), got.Value)
	assert.Equal(t, int64(12), got.UB)
	got, _ = f.Pop()
	assert.Equal(t, 3, got.Depth())

	// A popped key may come back.
	f.Push(sub(4, 0, 1, 2))
	assert.Equal(t, 1, f.Len())
}

func TestRefill(t *testing.T) {
	m, err := knapsack.New(knapsack.Random(10, 25, 3))
	require.NoError(t, err)
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
	cutset, err := d.Cutset(mdd.Frontier)
	require.NoError(t, err)

	f := frontier.NewSimple[knapsack.State](m)
	pushed, err := frontier.Refill[knapsack.State](f, d, mdd.Frontier, core.NegInf)
	require.NoError(t, err)
	assert.Equal(t, len(cutset), pushed)
	assert.Equal(t, pushed, f.Len())

	// Nothing beats an infinite incumbent.
	f.Clear()
	pushed, err = frontier.Refill[knapsack.State](f, d, mdd.LastExactLayer, core.PosInf)
	require.NoError(t, err)
	assert.Zero(t, pushed)

	restricted, err := mdd.Compile(mdd.CompilationInput[knapsack.State]{
		Kind: mdd.Restricted, Problem: m, Relaxation: m, Ranking: m,
		Residual: core.Root[knapsack.State](m, m), MaxWidth: 2, BestLB: core.NegInf,
	})
	require.NoError(t, err)
	_, err = frontier.Refill[knapsack.State](f, restricted, mdd.Frontier, core.NegInf)
	assert.ErrorIs(t, err, mdd.ErrNotRelaxed)
}
