package mdd

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/ddsolve/core"
)

// Sentinel errors returned by the compiler.
var (
	// ErrNilResidual indicates that no root subproblem was supplied.
	ErrNilResidual = errors.New("mdd: residual subproblem is nil")

	// ErrUnknownKind indicates an unsupported CompilationType.
	ErrUnknownKind = errors.New("mdd: unknown compilation type")

	// ErrUnknownCutset indicates an unsupported CutsetType.
	ErrUnknownCutset = errors.New("mdd: unknown cutset type")

	// ErrNotRelaxed indicates a cutset request on a non-relaxed diagram.
	ErrNotRelaxed = errors.New("mdd: cutset requires a relaxed diagram")
)

// CompilationType selects how a diagram copes with the width bound.
type CompilationType int

const (
	// Exact compiles without any width bound.
	Exact CompilationType = iota
	// Relaxed merges the worst nodes of an oversized layer.
	Relaxed
	// Restricted drops the worst nodes of an oversized layer.
	Restricted
)

// String implements fmt.Stringer.
func (k CompilationType) String() string {
	switch k {
	case Exact:
		return "exact"
	case Relaxed:
		return "relaxed"
	case Restricted:
		return "restricted"
	}
	return fmt.Sprintf("CompilationType(%d)", int(k))
}

// CutsetType selects the cutset extraction policy. The zero value is
// Frontier.
type CutsetType int

const (
	// Frontier returns the exact nodes having an inexact child, plus the
	// exact terminal nodes.
	Frontier CutsetType = iota
	// LastExactLayer returns the deepest layer in which every node is exact.
	LastExactLayer
)

// String implements fmt.Stringer.
func (c CutsetType) String() string {
	switch c {
	case LastExactLayer:
		return "lel"
	case Frontier:
		return "frontier"
	}
	return fmt.Sprintf("CutsetType(%d)", int(c))
}

// ParseCutset maps "lel" / "last-exact-layer" and "frontier" to a CutsetType.
func ParseCutset(s string) (CutsetType, error) {
	switch s {
	case "lel", "last-exact-layer", "LastExactLayer":
		return LastExactLayer, nil
	case "frontier", "Frontier":
		return Frontier, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCutset, s)
}

// CompilationInput gathers everything needed to compile one diagram.
//
// Relaxation is required for every kind: its fast bound drives pruning and
// node ranking. Ranking and MaxWidth are only consulted by the width-bounded
// kinds. BestLB is the best known primal value, or core.NegInf.
type CompilationInput[S comparable] struct {
	Kind       CompilationType
	Problem    core.Problem[S]
	Relaxation core.Relaxation[S]
	Ranking    core.StateRanking[S]
	Residual   *core.Subproblem[S]
	MaxWidth   int
	BestLB     int64
}

// validate checks the structural preconditions of a compilation.
func (in *CompilationInput[S]) validate() error {
	if in.Problem == nil {
		return core.ErrNilProblem
	}
	if in.Relaxation == nil {
		return core.ErrNilRelaxation
	}
	if in.Residual == nil {
		return ErrNilResidual
	}
	switch in.Kind {
	case Exact:
		return nil
	case Relaxed, Restricted:
		if in.Ranking == nil {
			return core.ErrNilRanking
		}
		if in.MaxWidth < 1 {
			return core.Violation("max width %d < 1", in.MaxWidth)
		}
		return nil
	}
	return fmt.Errorf("%w: %d", ErrUnknownKind, int(in.Kind))
}

// node is one arena entry of a diagram.
type node[S comparable] struct {
	state   S
	value   int64 // longest path value from the root
	fub     int64 // model fast upper bound from state
	rub     int64 // longest path value to the terminal layer (NegInf if none)
	best    int   // inbound edge on the longest path, -1 for the root
	inbound []int // inbound edge ids
	layer   int
	exact   bool // no merge on any path from the root
	merged  bool // produced (or absorbed) by a relaxation merge
	cutset  bool // member of the frontier cutset
}

// ub is the node upper bound used for ranking and pruning.
func (n *node[S]) ub() int64 { return core.SatAdd(n.value, n.fub) }

// edge is one arena entry linking two nodes of consecutive layers.
type edge struct {
	from     int
	to       int
	decision core.Decision
	cost     int64
}
