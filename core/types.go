package core

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Sentinel errors shared by all components.
var (
	// ErrModelViolation indicates that an external model broke its contract
	// (e.g., a relaxation that lowers an edge cost). It is a fatal
	// configuration error, never recovered by the drivers.
	ErrModelViolation = errors.New("core: model contract violation")

	// ErrNilProblem indicates that a driver was built without a Problem.
	ErrNilProblem = errors.New("core: problem is nil")

	// ErrNilRelaxation indicates that a driver was built without a Relaxation.
	ErrNilRelaxation = errors.New("core: relaxation is nil")

	// ErrNilRanking indicates that a driver was built without a StateRanking.
	ErrNilRanking = errors.New("core: state ranking is nil")

	// ErrNilWidth indicates that a driver was built without a WidthHeuristic.
	ErrNilWidth = errors.New("core: width heuristic is nil")
)

// Violation wraps ErrModelViolation with a formatted description of the
// offending call.
func Violation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrModelViolation, fmt.Sprintf(format, args...))
}

// Variable identifies one decision variable of a problem.
// The zero value is variable 0.
type Variable struct {
	id int
}

// NewVariable returns the variable with the given index.
func NewVariable(id int) Variable { return Variable{id: id} }

// ID returns the index of the variable.
func (v Variable) ID() int { return v.id }

// String implements fmt.Stringer.
func (v Variable) String() string { return fmt.Sprintf("x%d", v.id) }

// Decision is an immutable (variable, value) pair: one edge of a diagram or
// search tree.
type Decision struct {
	Variable Variable
	Value    int64
}

// String implements fmt.Stringer ("x3=1").
func (d Decision) String() string { return fmt.Sprintf("%s=%d", d.Variable, d.Value) }

// SortDecisions orders decisions by variable index in place and returns the
// same slice.
func SortDecisions(ds []Decision) []Decision {
	slices.SortFunc(ds, func(a, b Decision) int { return a.Variable.id - b.Variable.id })
	return ds
}

// FormatSolution renders a solution as "x0=1 x1=0 ...", sorted by variable.
func FormatSolution(ds []Decision) string {
	sorted := SortDecisions(slices.Clone(ds))
	parts := make([]string, len(sorted))
	for i, d := range sorted {
		parts[i] = d.String()
	}
	return strings.Join(parts, " ")
}

// Subproblem is the unit of work exchanged between the compiler, the
// frontier and the drivers.
//
// Invariant (admissibility): UB >= Value + the best completion value
// reachable from State. Violating it breaks optimality.
type Subproblem[S any] struct {
	// State is the model state reached by Path.
	State S

	// Value is the accumulated cost of Path (longest path from the root).
	Value int64

	// UB is an upper bound on any complete solution extending Path.
	UB int64

	// Path lists the decisions taken from the root state to State.
	Path []Decision
}

// Depth returns the number of decisions already taken.
func (s *Subproblem[S]) Depth() int { return len(s.Path) }

// Root builds the subproblem representing the whole instance.
// The upper bound is the model's fast bound on the initial state.
func Root[S comparable](p Problem[S], r Relaxation[S]) *Subproblem[S] {
	state := p.InitialState()
	value := p.InitialValue()

	return &Subproblem[S]{
		State: state,
		Value: value,
		UB:    SatAdd(value, r.FastUpperBound(state)),
		Path:  nil,
	}
}
