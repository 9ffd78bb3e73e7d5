// Package mdd compiles layered multi-valued decision diagrams (MDDs) rooted
// at a subproblem, and extracts the cutsets that keep a width-bounded
// branch-and-bound complete.
//
// A diagram has one layer per decision variable. Layer 0 holds the single
// root node carrying the residual subproblem's state; every following layer
// holds the distinct successor states of the previous one. Successors that
// share a state are merged losslessly (the longest incoming path wins; ties
// keep the earliest edge).
//
// Compilation kinds:
//
//   - Exact      – no width bound; every node is a reachable state.
//   - Restricted – when a layer exceeds MaxWidth, the worst-ranked nodes are
//     dropped. Every complete path is a feasible solution (under-approximation).
//   - Relaxed    – when a layer exceeds MaxWidth, the worst-ranked nodes are
//     merged into one over-approximating node through the model's Merge and
//     Relax operators. The best terminal value is an upper bound
//     (over-approximation), and the exact region yields a cutset.
//
// Node ranking for restriction/relaxation (stable, deterministic):
//
//	upper bound (value + fast bound) desc, value desc, state ranking desc,
//	insertion order asc.
//
// The first layer below the root is never squashed: cutset nodes therefore
// always lie strictly below the root, which guarantees that re-seeding the
// frontier with a cutset makes progress.
//
// Nodes whose value plus fast bound cannot beat the best known lower bound
// stay in their layer but are not expanded.
//
// Cutset policies:
//
//   - LastExactLayer – every node of the deepest layer preceding the first
//     merge.
//   - Frontier       – every exact node with an inexact child, plus every
//     exact terminal node. Smaller and tighter than LastExactLayer.
//
// Representation:
//
//	Nodes and edges live in two arenas (slices) owned by the Diagram and
//	addressed by index. A diagram is built once, read once, then dropped.
//
// Export:
//
//	ToDOT serializes a diagram to Graphviz DOT with per-node and per-edge
//	tooltips; RenderSVG renders DOT through github.com/goccy/go-graphviz.
//
// Complexity (per compilation, W = width, D = max domain size, n = variables):
//
//   - Time:   O(n · W · D · log(W · D)) including the ranking sorts.
//   - Memory: O(n · W · D) nodes and edges.
package mdd
