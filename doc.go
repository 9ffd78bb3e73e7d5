// Package ddsolve is a generic branch-and-bound engine over multi-valued
// decision diagrams (MDDs) for discrete maximization problems.
//
// A problem is described by a small set of capabilities (see package core):
// a state space (Problem), over-approximation operators (Relaxation), a
// state preference (StateRanking), a width policy (WidthHeuristic) and,
// optionally, a dominance structure. From those the engine compiles
//
//   - restricted diagrams, whose paths are feasible solutions (lower bounds);
//   - relaxed diagrams, whose best path bounds the optimum (upper bounds) and
//     whose exact cutset splits the search into independent subproblems.
//
// Packages:
//
//	core/         : model capabilities, bounds, statuses and statistics
//	mdd/          : exact, restricted and relaxed compilation, cutsets, DOT export
//	frontier/     : priority queues of open subproblems
//	dominance/    : Pareto-front dominance checker
//	cache/        : per-(depth, state) threshold cache
//	solver/       : sequential branch-and-bound driver
//	astar/        : anytime weighted A* driver
//	observability/: search hooks; metrics/ feeds them into Prometheus
//	config/       : TOML configuration
//	matrix/       : dense int64 matrix and Floyd–Warshall closure
//	examples/     : knapsack, Golomb ruler and TSP with time windows models
//	cmd/ddsolve   : command-line front end
//
// Quick start:
//
//	m, _ := knapsack.New(inst)
//	s, _ := solver.New(solver.Input[knapsack.State]{
//		Problem: m, Relaxation: m, Ranking: m,
//		Width: core.FixedWidth[knapsack.State]{Width: 32},
//	}, solver.DefaultOptions())
//	stats, err := s.Maximize(ctx, 1, false)
//
// Values are int64 with saturating infinities (core.NegInf, core.PosInf).
// Drivers are single-threaded; dominance checkers and caches are safe for
// concurrent use.
package ddsolve
