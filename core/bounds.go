package core

import "math"

// NegInf is the bound of an infeasible or unreachable state.
// It is absorbing for SatAdd and SatSub.
const NegInf int64 = math.MinInt64

// PosInf is the bound of an unconstrained state.
const PosInf int64 = math.MaxInt64

// IsInf reports whether x is one of the two infinities.
func IsInf(x int64) bool { return x == NegInf || x == PosInf }

// SatAdd returns a+b, treating NegInf and PosInf as infinities and clamping
// finite overflow to the nearest infinity. NegInf wins over PosInf: a path
// through an infeasible state stays infeasible.
//
// Complexity: O(1).
func SatAdd(a, b int64) int64 {
	if a == NegInf || b == NegInf {
		return NegInf
	}
	if a == PosInf || b == PosInf {
		return PosInf
	}
	s := a + b
	// Overflow happens only when both operands share a sign that s lost.
	if a > 0 && b > 0 && s < 0 {
		return PosInf
	}
	if a < 0 && b < 0 && s >= 0 {
		return NegInf
	}

	return s
}

// SatSub returns a-b with the same conventions as SatAdd.
// Subtracting an infinity flips it: SatSub(x, NegInf) == PosInf.
func SatSub(a, b int64) int64 {
	switch b {
	case NegInf:
		if a == NegInf {
			return NegInf
		}
		return PosInf
	case PosInf:
		if a == PosInf {
			return PosInf
		}
		return NegInf
	}

	return SatAdd(a, -b)
}

// Min returns the smaller of a and b.
func Min(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
