// Package frontier holds the open subproblems of a branch-and-bound search.
//
// A Frontier is a max-priority queue of *core.Subproblem:
//
//	upper bound desc, state ranking desc, value desc, insertion order asc.
//
// The next Pop always returns a resident with the largest upper bound, so a
// driver may stop as soon as the popped bound no longer beats its incumbent.
//
// Implementations:
//
//   - Simple – a binary heap; duplicate states coexist.
//   - NoDup  – a binary heap indexed by (depth, state); re-pushing a state
//     with a larger value replaces the resident entry in place, a smaller
//     or equal value is dropped.
//
// Refill pushes the cutset of a relaxed diagram, skipping the subproblems
// whose bound cannot beat the incumbent.
//
// Neither implementation is safe for concurrent use: the drivers own their
// frontier.
//
// Complexity:
//
//   - Push, Pop: O(log n).
//   - Len, Clear: O(1) (Clear drops the backing array).
package frontier
