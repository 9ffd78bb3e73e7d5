// Package astar implements an anytime weighted A* driver over the same model
// abstractions as the branch-and-bound driver.
//
// Nodes are explored best-first by the weighted evaluation
//
//	f(n) = g(n) + h(n)/w   when h(n) >= 0
//	f(n) = g(n) + h(n)·w   when h(n) <  0
//
// where g is the accumulated value, h the model's fast upper bound and
// w >= 1 the weight. Dividing an optimistic estimate by w makes the search
// greedier: complete solutions surface early. With non-negative values every
// incumbent v emitted while the weight is w satisfies v·w >= bound, where
// bound is the best proven upper bound at that moment.
//
// Each strictly better complete solution is reported through
// Options.OnIncumbent (status SAT) and, when Options.WeightDecay < 1, the
// weight shrinks towards 1 and the open list is re-keyed. Once w reaches 1
// the first popped node whose bound cannot beat the incumbent proves it
// optimal.
//
// Incumbent.Gap is core.Gap(Value, Bound), the gap against the proven bound
// rather than a figure derived from the weight. With positive values the
// guarantee above keeps it at most (w-1)/w.
//
// A (depth, state) pair is reopened only when reached with a strictly
// better g; superseded entries of the open list are skipped when popped.
//
// Complexity: O(N log N) time and O(N) memory for N generated nodes; N is
// exponential in the number of variables in the worst case.
package astar
