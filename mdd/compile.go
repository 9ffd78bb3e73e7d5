package mdd

import (
	"slices"

	"github.com/katalvlaran/ddsolve/core"
)

// Diagram is a compiled layered decision diagram. It owns its node and edge
// arenas; nothing inside is shared with other diagrams.
type Diagram[S comparable] struct {
	kind     CompilationType
	residual *core.Subproblem[S]
	nodes    []node[S]
	edges    []edge
	layers   [][]int
	exact    bool  // no node was merged or dropped
	lel      int   // index of the last exact layer
	complete bool  // the last layer is the terminal layer
	best     int   // best terminal node id, -1 if none
	pruned   int64 // largest bound of a node left unexpanded by BestLB
}

// compiler holds the hot-path state of a single compilation.
type compiler[S comparable] struct {
	in       CompilationInput[S]
	d        *Diagram[S]
	nbVars   int
	assigned []bool
}

// Compile builds the diagram described by in.
//
// Steps:
//  1. Validate the input and seed layer 0 with the residual state.
//  2. While the problem selects a variable: expand every worthwhile node of
//     the current layer over the variable's domain, deduplicating equal
//     successor states.
//  3. Squash the new layer when it exceeds MaxWidth (restricted: drop,
//     relaxed: merge), except for the first layer below the root and the
//     terminal layer.
//  4. Pick the best terminal node, then run a backward pass computing the
//     longest path to the terminal layer of every node, and mark the
//     frontier cutset.
//
// Errors: core.ErrNilProblem, core.ErrNilRelaxation, core.ErrNilRanking,
// ErrNilResidual, ErrUnknownKind, and core.ErrModelViolation wrapped with
// the offending call.
func Compile[S comparable](in CompilationInput[S]) (*Diagram[S], error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	c := &compiler[S]{
		in:     in,
		nbVars: in.Problem.NbVariables(),
		d: &Diagram[S]{
			kind:     in.Kind,
			residual: in.Residual,
			exact:    true,
			best:     -1,
			pruned:   core.NegInf,
		},
	}
	if err := c.markAssigned(); err != nil {
		return nil, err
	}

	root := c.addNode(in.Residual.State, in.Residual.Value, 0, true)
	c.d.layers = append(c.d.layers, []int{root})

	depth := in.Residual.Depth()
	for {
		current := c.d.layers[len(c.d.layers)-1]
		v, ok := c.in.Problem.NextVariable(depth, c.statesOf(current))
		if !ok {
			if depth != c.nbVars {
				return nil, core.Violation("NextVariable stopped at depth %d of %d", depth, c.nbVars)
			}
			c.d.complete = true
			break
		}
		if err := c.assign(v); err != nil {
			return nil, err
		}

		next, err := c.expand(current, v)
		if err != nil {
			return nil, err
		}
		depth++

		if len(next) == 0 {
			// Every branch died: no terminal layer will be reached.
			c.d.layers = append(c.d.layers, next)
			break
		}

		terminal := depth >= c.nbVars
		if c.in.Kind != Exact && !terminal && len(c.d.layers) >= 2 && len(next) > c.in.MaxWidth {
			if next, err = c.squash(next, len(c.d.layers)); err != nil {
				return nil, err
			}
			if c.d.exact {
				c.d.exact = false
				c.d.lel = len(c.d.layers) - 1
			}
		}
		c.d.layers = append(c.d.layers, next)
	}
	if c.d.exact {
		c.d.lel = len(c.d.layers) - 1
	}

	c.finalize()

	return c.d, nil
}

// markAssigned records the variables already fixed by the residual path.
func (c *compiler[S]) markAssigned() error {
	c.assigned = make([]bool, c.nbVars)
	for _, dec := range c.in.Residual.Path {
		id := dec.Variable.ID()
		if id < 0 || id >= c.nbVars {
			return core.Violation("residual decision %s out of range [0,%d)", dec, c.nbVars)
		}
		c.assigned[id] = true
	}

	return nil
}

// assign checks and records the variable chosen for the next layer.
func (c *compiler[S]) assign(v core.Variable) error {
	id := v.ID()
	if id < 0 || id >= c.nbVars {
		return core.Violation("NextVariable returned %s out of range [0,%d)", v, c.nbVars)
	}
	if c.assigned[id] {
		return core.Violation("NextVariable returned %s twice on one path", v)
	}
	c.assigned[id] = true

	return nil
}

func (c *compiler[S]) statesOf(ids []int) []S {
	out := make([]S, len(ids))
	for i, id := range ids {
		out[i] = c.d.nodes[id].state
	}
	return out
}

// addNode appends a fresh node to the arena and returns its id.
func (c *compiler[S]) addNode(state S, value int64, layer int, exact bool) int {
	c.d.nodes = append(c.d.nodes, node[S]{
		state: state,
		value: value,
		fub:   c.in.Relaxation.FastUpperBound(state),
		rub:   core.NegInf,
		best:  -1,
		layer: layer,
		exact: exact,
	})
	return len(c.d.nodes) - 1
}

// addEdge appends an edge to the arena, registers it on its target and
// updates the target's longest path. Ties keep the earlier edge.
func (c *compiler[S]) addEdge(from, to int, dec core.Decision, cost int64) {
	c.d.edges = append(c.d.edges, edge{from: from, to: to, decision: dec, cost: cost})
	id := len(c.d.edges) - 1

	value := core.SatAdd(c.d.nodes[from].value, cost)
	n := &c.d.nodes[to]
	n.inbound = append(n.inbound, id)
	if n.best < 0 || value > n.value {
		n.value = value
		n.best = id
	}
	if !c.d.nodes[from].exact {
		n.exact = false
	}
}

// worthExpanding reports whether a node may still lead to an improvement.
func (c *compiler[S]) worthExpanding(id int) bool {
	n := &c.d.nodes[id]
	if n.fub == core.NegInf {
		return false
	}
	return n.ub() > c.in.BestLB
}

// expand builds the next layer from current by branching on v.
func (c *compiler[S]) expand(current []int, v core.Variable) ([]int, error) {
	var (
		layer = len(c.d.layers)
		index = make(map[S]int, len(current))
		next  []int
		err   error
	)
	for _, id := range current {
		if !c.worthExpanding(id) {
			if n := &c.d.nodes[id]; n.fub != core.NegInf && n.ub() > c.d.pruned {
				c.d.pruned = n.ub()
			}
			continue
		}
		parent := id
		state := c.d.nodes[id].state
		c.in.Problem.ForEachInDomain(v, state, func(dec core.Decision) {
			if err != nil {
				return
			}
			if dec.Variable != v {
				err = core.Violation("domain of %s yielded decision %s", v, dec)
				return
			}
			succ := c.in.Problem.Transition(state, dec)
			cost := c.in.Problem.TransitionCost(state, succ, dec)

			to, seen := index[succ]
			if !seen {
				to = c.addNode(succ, core.NegInf, layer, c.d.nodes[parent].exact)
				index[succ] = to
				next = append(next, to)
			}
			c.addEdge(parent, to, dec, cost)
		})
		if err != nil {
			return nil, err
		}
	}

	return next, nil
}

// rank sorts ids from most to least promising. The sort is stable so equal
// nodes keep their insertion order.
func (c *compiler[S]) rank(ids []int) {
	slices.SortStableFunc(ids, func(a, b int) int {
		na, nb := &c.d.nodes[a], &c.d.nodes[b]
		if ua, ub := na.ub(), nb.ub(); ua != ub {
			if ua > ub {
				return -1
			}
			return 1
		}
		if na.value != nb.value {
			if na.value > nb.value {
				return -1
			}
			return 1
		}
		return -c.in.Ranking.Compare(na.state, nb.state)
	})
}

// squash brings an oversized layer back to MaxWidth.
func (c *compiler[S]) squash(next []int, layer int) ([]int, error) {
	c.rank(next)
	if c.in.Kind == Restricted {
		return next[:c.in.MaxWidth], nil
	}
	return c.merge(next, layer)
}

// merge keeps the MaxWidth-1 best nodes and folds the others into a single
// over-approximating node. Every inbound edge of a folded node is redirected
// with its relaxed cost.
func (c *compiler[S]) merge(next []int, layer int) ([]int, error) {
	keep := slices.Clone(next[:c.in.MaxWidth-1])
	tail := next[c.in.MaxWidth-1:]

	merged := c.in.Relaxation.Merge(c.statesOf(tail))

	target := -1
	for _, id := range keep {
		if c.d.nodes[id].state == merged {
			target = id
			break
		}
	}
	if target < 0 {
		target = c.addNode(merged, core.NegInf, layer, false)
		keep = append(keep, target)
	}
	c.d.nodes[target].merged = true
	c.d.nodes[target].exact = false

	for _, id := range tail {
		if id == target {
			continue
		}
		dest := c.d.nodes[id].state
		for _, eid := range c.d.nodes[id].inbound {
			e := c.d.edges[eid]
			relaxed := c.in.Relaxation.Relax(c.d.nodes[e.from].state, dest, merged, e.decision, e.cost)
			if relaxed < e.cost {
				return nil, core.Violation("Relax lowered the cost of %s from %d to %d", e.decision, e.cost, relaxed)
			}
			c.addEdge(e.from, target, e.decision, relaxed)
		}
	}

	return keep, nil
}

// finalize selects the best terminal node, computes local bounds and marks
// the frontier cutset.
func (c *compiler[S]) finalize() {
	d := c.d
	last := d.layers[len(d.layers)-1]

	if d.complete {
		for _, id := range last {
			d.nodes[id].rub = 0
			if d.best < 0 || d.nodes[id].value > d.nodes[d.best].value {
				d.best = id
			}
		}
	}

	// Backward pass: rub(parent) = max over children of cost + rub(child).
	var l int
	for l = len(d.layers) - 1; l > 0; l-- {
		for _, id := range d.layers[l] {
			child := &d.nodes[id]
			if child.rub == core.NegInf {
				continue
			}
			for _, eid := range child.inbound {
				e := d.edges[eid]
				if cand := core.SatAdd(e.cost, child.rub); cand > d.nodes[e.from].rub {
					d.nodes[e.from].rub = cand
				}
			}
		}
	}

	if d.kind != Relaxed || d.exact {
		return
	}
	for l = 1; l < len(d.layers); l++ {
		for _, id := range d.layers[l] {
			if d.nodes[id].exact {
				continue
			}
			for _, eid := range d.nodes[id].inbound {
				if from := d.edges[eid].from; d.nodes[from].exact {
					d.nodes[from].cutset = true
				}
			}
		}
	}
	if d.complete {
		for _, id := range last {
			if d.nodes[id].exact {
				d.nodes[id].cutset = true
			}
		}
	}
}
