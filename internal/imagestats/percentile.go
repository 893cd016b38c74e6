package imagestats

import (
	"fmt"
	"math"
)

// Percentile returns the p-th percentile (0 <= p <= 100) of an ascending
// slice using linear interpolation between closest ranks: with
// h = (n-1)*p/100 the result is x[floor(h)] + (h-floor(h))*(x[floor(h)+1]-x[floor(h)]).
// This is Hyndman & Fan type 7, numpy's default "linear" method.
// It panics on an empty slice or an out-of-range p.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		panic("imagestats: percentile of empty population")
	}
	if p < 0 || p > 100 || math.IsNaN(p) {
		panic(fmt.Sprintf("imagestats: percentile %g out of range [0, 100]", p))
	}
	h := float64(n-1) * p / 100
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	a, b := sorted[lo], sorted[lo+1]
	if frac == 0 || a == b {
		return a
	}
	if d := b - a; !math.IsInf(d, 0) {
		return a + frac*d
	}
	return a*(1-frac) + b*frac
}
