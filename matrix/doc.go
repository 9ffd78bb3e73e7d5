// Package matrix provides a dense, row-major int64 matrix and the all-pairs
// shortest-path closure (Floyd–Warshall) over it.
//
// Distances use Inf (math.MaxInt64) for "no path"; additions saturate so
// that large finite entries never wrap around.
//
// Errors are package sentinels matched with errors.Is:
//
//	ErrBadShape    requested or supplied shape is invalid
//	ErrOutOfRange  row or column index outside the matrix
//	ErrNonSquare   a square matrix was required
//	ErrNilMatrix   nil receiver or argument
package matrix
