// Package core defines the central abstractions shared by every ddsolve
// component: the problem model contract, decisions and variables, the
// subproblem unit of work, saturating bound arithmetic, and the run
// statistics returned by the search drivers.
//
// A problem model is expressed as a set of small capability interfaces,
// each parameterized by the state type S:
//
//   - Problem[S]        – variables, initial state, transitions and costs,
//     domain enumeration and variable selection.
//   - Relaxation[S]     – merge operator, per-edge relaxation and a fast
//     admissible upper bound.
//   - StateRanking[S]   – total preference order between two states.
//   - WidthHeuristic[S] – maximum diagram width for a subproblem.
//   - Dominance[S, K]   – dominance key and coordinates of a state.
//   - Cutoff            – external stop condition checked between iterations.
//
// Example problems are independent implementations of these interfaces,
// composed into the Input structs of the solver and astar packages.
//
// Numbers:
//
//	All values, costs and bounds are int64. NegInf and PosInf are infinities,
//	not values: SatAdd and SatSub keep them absorbing and clamp overflow.
//	The admissible bound of an infeasible state is NegInf.
//
// Errors (sentinel):
//
//	ErrModelViolation – a model broke its contract (fatal configuration error).
//	ErrNilProblem     – no Problem supplied to a driver.
//	ErrNilRelaxation  – no Relaxation supplied to a driver.
//	ErrNilRanking     – no StateRanking supplied to a driver.
//	ErrNilWidth       – no WidthHeuristic supplied to a driver.
package core
