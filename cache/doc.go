// Package cache records, per (depth, state), the smallest value a
// subproblem needs to be worth exploring again.
//
// A Threshold{Value, Explored} at (depth, state) means: reaching that state
// at that depth with a value below Value cannot improve the incumbent, and
// when Explored is set, reaching it with exactly Value cannot either because
// that subproblem has already been solved or re-seeded.
//
// Thresholds are totally ordered by Value, then Explored (explored is
// greater). Set only ever raises a stored threshold.
//
// Implementations:
//
//   - Simple – one map per depth, guarded by a RWMutex.
//   - Empty  – stores nothing; every subproblem must be explored.
package cache
