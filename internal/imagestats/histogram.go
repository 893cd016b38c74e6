package imagestats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultBins is the default histogram bin count.
const DefaultBins = 50

// Histogram is an equal-width histogram. Every bin is half-open [lo, hi)
// except the last, which also includes its upper edge.
type Histogram struct {
	Edges   []float64 `json:"edges"`
	Counts  []int     `json:"counts"`
	Centers []float64 `json:"centers"`
}

// NewHistogram bins population into nbins equal-width bins spanning its own
// minimum and maximum. A constant population is binned over [v-0.5, v+0.5].
func NewHistogram(population []float64, nbins int) (Histogram, error) {
	if nbins < 1 {
		return Histogram{}, &InvalidOptionsError{Field: "nbins", Reason: "must be at least 1"}
	}
	if len(population) == 0 {
		return Histogram{}, &EmptyPopulationError{Stage: "histogram", Size: 0}
	}

	x := population
	if !sort.Float64sAreSorted(x) {
		x = append([]float64(nil), population...)
		sort.Float64s(x)
	}

	lo, hi := floats.Min(x), floats.Max(x)
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}

	edges := binEdges(lo, hi, nbins)

	// stat.Histogram bins are all half-open, so nudge the final divider past
	// the maximum to close the last bin.
	dividers := append([]float64(nil), edges...)
	dividers[nbins] = math.Nextafter(hi, math.Inf(1))
	raw := stat.Histogram(nil, dividers, x, nil)

	h := Histogram{
		Edges:   edges,
		Counts:  make([]int, nbins),
		Centers: make([]float64, nbins),
	}
	for i, c := range raw {
		h.Counts[i] = int(c)
		h.Centers[i] = edges[i]/2 + edges[i+1]/2
	}
	return h, nil
}

// binEdges returns nbins+1 equally spaced edges from lo to hi. Populations
// wider than MaxFloat64 are interpolated from scaled endpoints so no
// intermediate overflows.
func binEdges(lo, hi float64, nbins int) []float64 {
	edges := make([]float64, nbins+1)
	if !math.IsInf(hi-lo, 0) {
		return floats.Span(edges, lo, hi)
	}
	n := float64(nbins)
	a, b := lo/n, hi/n
	for i := range edges {
		edges[i] = a*(n-float64(i)) + b*float64(i)
	}
	edges[0], edges[nbins] = lo, hi
	return edges
}

// Total returns the number of binned samples.
func (h Histogram) Total() int {
	n := 0
	for _, c := range h.Counts {
		n += c
	}
	return n
}

// Bins returns the bin count.
func (h Histogram) Bins() int { return len(h.Counts) }

// CountRange returns the smallest and largest bin counts.
func (h Histogram) CountRange() (lo, hi int) {
	if len(h.Counts) == 0 {
		return 0, 0
	}
	lo, hi = h.Counts[0], h.Counts[0]
	for _, c := range h.Counts[1:] {
		lo = min(lo, c)
		hi = max(hi, c)
	}
	return lo, hi
}
