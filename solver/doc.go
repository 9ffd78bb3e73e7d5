// Package solver implements the sequential branch-and-bound over decision
// diagrams.
//
// The driver keeps a frontier of open subproblems ordered by upper bound and
// repeatedly:
//
//  1. pops the most promising subproblem s; an empty frontier, or a popped
//     bound that cannot beat the incumbent, ends the search;
//  2. skips s when the threshold cache or the dominance checker shows that
//     an equivalent or better subproblem was already handled;
//  3. compiles a relaxed diagram for s. A relaxed bound that cannot beat the
//     incumbent prunes s; an exact relaxed diagram (or one whose best path
//     is exact) solves s outright;
//  4. compiles a restricted diagram for s, whose best path may improve the
//     incumbent. An exact restricted diagram solves s;
//  5. otherwise pushes the relaxed diagram's cutset back into the frontier.
//
// Every handled subproblem leaves a threshold in the cache, so later
// subproblems reaching the same state at the same depth with a value that
// cannot do better are skipped.
//
// Termination:
//
//	OPTIMAL  – the frontier is exhausted (or bounded out) and an incumbent exists.
//	UNSAT    – the frontier is exhausted and no solution exists.
//	UNKNOWN  – the context, the time limit, the iteration limit or the
//	           input Cutoff stopped the search between two iterations.
//
// Because the popped bounds never increase (cutset bounds are capped by
// their parent's), the last popped bound is a valid global upper bound at
// any time, which gives the reported gap.
//
// Logging goes through github.com/charmbracelet/log; every line of a run
// carries its UUID. Verbosity (0..4) only selects what gets logged:
//
//	0 nothing, 1 final summary, 2 incumbent updates,
//	3 frontier statistics every Options.ReportEvery iterations,
//	4 per-subproblem traces (debug level).
//
// Diagram export writes the first relaxed and restricted diagrams as DOT
// (and optionally SVG) files in Options.ExportDir.
//
// Complexity: exponential in the worst case; each iteration costs two
// compilations, O(n · W · D · log(W · D)) each.
package solver
