// Package dominance detects subproblems that cannot lead to better
// solutions than subproblems already met.
//
// The model groups states by a comparable key; within a key, a state whose
// coordinates are all >= another's (and whose value is >= when the model
// says values matter) dominates it. Simple keeps, per key, the Pareto front
// of the entries met so far:
//
//   - a new entry dominated by a front member is reported as dominated;
//   - otherwise it joins the front, and the members it dominates leave.
//
// A front member is only ever replaced by an entry that dominates it, so a
// repeated call with the same arguments always reports dominated.
//
// Concurrency: the key map is guarded by a RWMutex, each front by its own
// mutex, so the check-and-insert is atomic per key.
//
// Complexity: O(F·k) per call with F the front size and k the number of
// coordinates.
package dominance
