package search

import (
	"math"
	"math/bits"
)

// ipow raises base to a non-negative integer power by repeated squaring,
// using bits.Len64 to bound the number of multiplications to O(log exp)
// instead of the O(exp) a naive loop would need. This is the fast path
// warpedSimilarity takes whenever its exponent is a whole number: integer
// powers must be computed this way rather than through math.Pow, which
// round-trips through exp/log internally and isn't guaranteed to land on
// exactly the same bits run to run.
func ipow(base float64, exp uint64) float64 {
	result := 1.0
	for i := bits.Len64(exp) - 1; i >= 0; i-- {
		result *= result
		if exp&(1<<uint(i)) != 0 {
			result *= base
		}
	}
	return result
}

// warpedPow raises x to warp, taking ipow's integer fast path whenever
// warp is a non-negative whole number and falling back to math.Pow for
// fractional warps.
func warpedPow(x, warp float64) float64 {
	if warp >= 0 && warp == math.Trunc(warp) {
		return ipow(x, uint64(warp))
	}
	return math.Pow(x, warp)
}

// warpedSimilarity computes the warped Jaccard-style similarity of a query
// and a candidate key from their shared and total gram counts:
//
//	sim = (union^warp - (union-shared)^warp) / union^warp
//
// which reduces to shared/union at warp == 1 (plain Jaccard). union is the
// base, warp the exponent; a key that shares every one of its grams with
// the query (shared == union) always scores exactly 1 regardless of warp.
func warpedSimilarity(shared, union int, warp float64) float64 {
	if union == 0 {
		return 0
	}
	u := float64(union)
	notShared := float64(union - shared)
	if warp == 1 {
		return 1 - notShared/u
	}
	return (warpedPow(u, warp) - warpedPow(notShared, warp)) / warpedPow(u, warp)
}
