package core

// Problem describes the state space of a maximization problem.
//
// Contract:
//   - Transition never mutates its input; it returns the successor state.
//   - ForEachInDomain yields only feasible decisions for v from state, and
//     every yielded Decision carries Variable == v.
//   - NextVariable returns the variable to branch on at the given depth
//     (number of decisions already taken), or false when every variable is
//     assigned. layer holds the states of the layer about to be expanded.
type Problem[S comparable] interface {
	NbVariables() int
	InitialState() S
	InitialValue() int64
	Transition(state S, d Decision) S
	TransitionCost(source, dest S, d Decision) int64
	NextVariable(depth int, layer []S) (Variable, bool)
	ForEachInDomain(v Variable, state S, yield func(Decision))
}

// Relaxation supplies the over-approximation operators used by relaxed
// diagrams and the admissible bound used everywhere.
//
// Contract:
//   - Merge returns a state whose completions include the completions of
//     every merged state.
//   - Relax returns the cost of an edge redirected from dest to merged; the
//     difference with cost is the relaxation penalty and must be >= 0.
//   - FastUpperBound returns an upper bound on the best completion value
//     from state, or NegInf if no completion exists.
type Relaxation[S comparable] interface {
	Merge(states []S) S
	Relax(source, dest, merged S, d Decision, cost int64) int64
	FastUpperBound(state S) int64
}

// StateRanking is a total preference order between states, used for
// frontier tie-breaks and restriction/relaxation candidate selection.
// Compare returns > 0 when a is more promising than b, < 0 when b is, and 0
// when they rank equal.
type StateRanking[S any] interface {
	Compare(a, b S) int
}

// WidthHeuristic maps a subproblem to the maximum width of the diagrams
// compiled for it. The returned width must be >= 1.
type WidthHeuristic[S any] interface {
	MaxWidth(sub *Subproblem[S]) int
}

// Dominance exposes the dominance structure of a model.
//
// Two states sharing a Key are interchangeable for all downstream
// decisions; a state whose coordinates are all >= another's (and whose
// value is >= when UseValue is true) can never lead to a worse outcome.
// Key returns false for states that are not subject to dominance.
type Dominance[S any, K comparable] interface {
	Key(state S) (K, bool)
	NbDimensions(state S) int
	Coordinate(state S, i int) int64
	UseValue() bool
}

// Cutoff is an external stop condition. Drivers consult it only between
// top-level iterations.
type Cutoff interface {
	MustStop() bool
}

// RankingFunc adapts a comparison function to StateRanking.
type RankingFunc[S any] func(a, b S) int

// Compare implements StateRanking.
func (f RankingFunc[S]) Compare(a, b S) int { return f(a, b) }
