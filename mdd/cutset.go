package mdd

import (
	"fmt"
	"slices"

	"github.com/katalvlaran/ddsolve/core"
)

// Kind returns the compilation kind of the diagram.
func (d *Diagram[S]) Kind() CompilationType { return d.kind }

// IsExact reports whether no node was merged or dropped while compiling.
// An exact diagram of any kind solves its residual subproblem.
func (d *Diagram[S]) IsExact() bool { return d.exact }

// Complete reports whether the diagram reached the terminal layer.
func (d *Diagram[S]) Complete() bool { return d.complete && d.best >= 0 }

// NbLayers returns the number of layers, root included.
func (d *Diagram[S]) NbLayers() int { return len(d.layers) }

// LayerWidth returns the number of nodes kept in layer l.
func (d *Diagram[S]) LayerWidth(l int) int {
	if l < 0 || l >= len(d.layers) {
		return 0
	}
	return len(d.layers[l])
}

// NbNodes returns the number of nodes allocated in the arena, including the
// nodes dropped by a restriction or absorbed by a merge.
func (d *Diagram[S]) NbNodes() int { return len(d.nodes) }

// LastExactLayer returns the index of the deepest layer preceding every merge
// or drop. It equals NbLayers()-1 for exact diagrams.
func (d *Diagram[S]) LastExactLayer() int { return d.lel }

// BestValue returns the value of the best terminal node.
// For a relaxed diagram this is an upper bound on the residual subproblem;
// for the other kinds it is the value of a feasible solution.
func (d *Diagram[S]) BestValue() (int64, bool) {
	if !d.Complete() {
		return core.NegInf, false
	}
	return d.nodes[d.best].value, true
}

// Bound returns BestValue, or core.NegInf when no terminal was reached.
func (d *Diagram[S]) Bound() int64 {
	v, _ := d.BestValue()
	return v
}

// PrunedBound returns the largest upper bound among the nodes left
// unexpanded because they could not beat the compilation's lower bound, or
// core.NegInf if none was. Any solution of the residual subproblem lies
// below max(Bound, PrunedBound) for a relaxed diagram.
func (d *Diagram[S]) PrunedBound() int64 { return d.pruned }

// BestIsExact reports whether the best terminal node is exact, i.e. its
// longest path is a feasible solution even in a relaxed diagram.
func (d *Diagram[S]) BestIsExact() bool {
	return d.Complete() && d.nodes[d.best].exact
}

// Solution returns the residual path followed by the decisions of the
// longest path to the best terminal node, sorted by variable.
func (d *Diagram[S]) Solution() ([]core.Decision, bool) {
	if !d.Complete() {
		return nil, false
	}
	return core.SortDecisions(d.pathTo(d.best)), true
}

// pathTo returns the residual path plus the longest path from the root to
// node id, in root-to-node order. The result is a fresh slice.
func (d *Diagram[S]) pathTo(id int) []core.Decision {
	var rev []core.Decision
	for n := id; d.nodes[n].best >= 0; {
		e := d.edges[d.nodes[n].best]
		rev = append(rev, e.decision)
		n = e.from
	}
	out := make([]core.Decision, 0, len(d.residual.Path)+len(rev))
	out = append(out, d.residual.Path...)
	for i := len(rev) - 1; i >= 0; i-- {
		out = append(out, rev[i])
	}

	return out
}

// Cutset returns the subproblems rooted at the cutset nodes selected by
// policy, in layer order. Every complete solution of the residual subproblem
// that may beat the compilation's lower bound passes through one of them.
//
// Each subproblem carries the node's exact value and best path, and the
// upper bound value + min(local bound, fast bound), capped by the residual's
// own bound. Nodes without a path to the terminal layer are skipped.
//
// A nil slice is returned for exact diagrams (nothing is left to explore).
//
// Errors: ErrNotRelaxed if the diagram is not relaxed, ErrUnknownCutset for
// an unsupported policy.
//
// Complexity: O(|cutset| · n) for the path reconstruction.
func (d *Diagram[S]) Cutset(policy CutsetType) ([]*core.Subproblem[S], error) {
	if d.kind != Relaxed {
		return nil, fmt.Errorf("%w: got %s", ErrNotRelaxed, d.kind)
	}
	if d.exact {
		return nil, nil
	}

	var ids []int
	switch policy {
	case LastExactLayer:
		ids = d.layers[d.lel]
	case Frontier:
		for _, layer := range d.layers {
			for _, id := range layer {
				if d.nodes[id].cutset {
					ids = append(ids, id)
				}
			}
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCutset, int(policy))
	}

	out := make([]*core.Subproblem[S], 0, len(ids))
	for _, id := range ids {
		n := &d.nodes[id]
		if n.rub == core.NegInf {
			continue
		}
		out = append(out, &core.Subproblem[S]{
			State: n.state,
			Value: n.value,
			UB:    core.Min(core.SatAdd(n.value, core.Min(n.rub, n.fub)), d.residual.UB),
			Path:  d.pathTo(id),
		})
	}

	return out, nil
}

// TerminalPath is one complete root-to-terminal path of a diagram.
type TerminalPath struct {
	Decisions []core.Decision // residual path plus the path's decisions, sorted
	Value     int64           // residual value plus the path's edge costs
}

// TerminalPaths enumerates every root-to-terminal path, best values first.
// Its size is exponential in the number of layers: it exists for inspection
// and testing of small diagrams.
func (d *Diagram[S]) TerminalPaths() []TerminalPath {
	if !d.Complete() {
		return nil
	}

	var (
		out   []TerminalPath
		stack []core.Decision
		walk  func(id int, acc int64)
	)
	walk = func(id int, acc int64) {
		n := &d.nodes[id]
		if n.layer == 0 {
			ds := slices.Clone(d.residual.Path)
			for i := len(stack) - 1; i >= 0; i-- {
				ds = append(ds, stack[i])
			}
			out = append(out, TerminalPath{
				Decisions: core.SortDecisions(ds),
				Value:     core.SatAdd(d.residual.Value, acc),
			})
			return
		}
		for _, eid := range n.inbound {
			e := d.edges[eid]
			stack = append(stack, e.decision)
			walk(e.from, core.SatAdd(acc, e.cost))
			stack = stack[:len(stack)-1]
		}
	}
	for _, id := range d.layers[len(d.layers)-1] {
		walk(id, 0)
	}

	slices.SortStableFunc(out, func(a, b TerminalPath) int {
		switch {
		case a.Value > b.Value:
			return -1
		case a.Value < b.Value:
			return 1
		}
		return 0
	})

	return out
}
