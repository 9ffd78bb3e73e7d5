package matrix

import "math"

const opFloydWarshall = "FloydWarshall"

// Inf denotes "no path" in a distance matrix.
const Inf int64 = math.MaxInt64

// satAdd returns a+b clamped to [math.MinInt64, Inf].
func satAdd(a, b int64) int64 {
	switch {
	case b > 0 && a > Inf-b:
		return Inf
	case b < 0 && a < math.MinInt64-b:
		return math.MinInt64
	}
	return a + b
}

// FloydWarshall computes all-pairs shortest paths in place on m.
//
// Contract:
//   - m must be square (n×n).
//   - Inf denotes "no edge" off-diagonal; the caller sets the diagonal
//     (normally 0) before calling.
//   - Sums saturate at Inf, so large finite weights cannot wrap around.
//
// Loop order is fixed (k → i → j) and only strict improvements are written.
//
// Errors: ErrNilMatrix, ErrNonSquare.
// Complexity: Time O(n³), extra space O(1).
func FloydWarshall(m *Dense) error {
	if m == nil {
		return matrixErrorf(opFloydWarshall, ErrNilMatrix)
	}
	if m.r != m.c {
		return matrixErrorf(opFloydWarshall, ErrNonSquare)
	}

	n := m.r
	data := m.data
	for k := 0; k < n; k++ {
		rowK := data[k*n : (k+1)*n]
		for i := 0; i < n; i++ {
			ik := data[i*n+k]
			if ik == Inf { // i cannot reach k
				continue
			}
			rowI := data[i*n : (i+1)*n]
			for j, kj := range rowK {
				if kj == Inf {
					continue
				}
				if cand := satAdd(ik, kj); cand < rowI[j] {
					rowI[j] = cand
				}
			}
		}
	}

	return nil
}
