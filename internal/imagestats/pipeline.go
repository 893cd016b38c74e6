package imagestats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Options controls the statistics pipeline. Use DefaultOptions and override
// fields; the zero value has PctMax 0 and NBins 0, which is not usable.
type Options struct {
	Background Background
	// Min and Max are absolute bounds; nil disables the bound.
	Min *float64
	Max *float64
	// PctMin and PctMax are percentile bounds in [0, 100].
	PctMin float64
	PctMax float64
	NBins  int
}

// DefaultOptions returns options that mask nothing, keep every finite
// sample, and use DefaultBins bins.
func DefaultOptions() Options {
	return Options{
		Background: NoBackground(),
		PctMin:     0,
		PctMax:     100,
		NBins:      DefaultBins,
	}
}

// Validate checks option consistency.
func (o Options) Validate() error {
	if math.IsNaN(o.PctMin) || o.PctMin < 0 || o.PctMin > 100 {
		return &InvalidOptionsError{Field: "pctmin", Reason: fmt.Sprintf("%g is outside [0, 100]", o.PctMin)}
	}
	if math.IsNaN(o.PctMax) || o.PctMax < 0 || o.PctMax > 100 {
		return &InvalidOptionsError{Field: "pctmax", Reason: fmt.Sprintf("%g is outside [0, 100]", o.PctMax)}
	}
	if o.PctMin > o.PctMax {
		return &InvalidOptionsError{Field: "pctmin", Reason: fmt.Sprintf("%g exceeds pctmax %g", o.PctMin, o.PctMax)}
	}
	if o.Min != nil && o.Max != nil && *o.Min > *o.Max {
		return &InvalidOptionsError{Field: "vmin", Reason: fmt.Sprintf("%g exceeds vmax %g", *o.Min, *o.Max)}
	}
	if o.NBins < 1 {
		return &InvalidOptionsError{Field: "nbins", Reason: "must be at least 1"}
	}
	return nil
}

// DisplayRange is the recommended colour scale.
type DisplayRange struct {
	VMin float64 `json:"vmin"`
	VMax float64 `json:"vmax"`
}

// StageCounts records the population size after each stage.
type StageCounts struct {
	Total    int `json:"total"`
	Finite   int `json:"finite"`
	Unmasked int `json:"unmasked"`
	InBounds int `json:"in_bounds"`
	Final    int `json:"final"`
}

// Result is the output of Run.
type Result struct {
	Kind Kind
	// Display is the real array shown to the user (phase for complex bands).
	Display *mat.Dense
	// Magnitude is set for complex bands only.
	Magnitude *mat.Dense

	Background    float64
	HasBackground bool
	Mask          *Mask

	Range DisplayRange
	// Population is the final, ascending statistics population.
	Population []float64
	Histogram  Histogram
	Counts     StageCounts
}

// Run applies, in order: background resolution, background masking,
// absolute bound filtering, percentile bounds with re-filtering, and
// histogramming. Non-finite samples never enter the population.
func Run(s Sample, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	values := s.Values()
	if values == nil {
		return nil, fmt.Errorf("imagestats: sample has no data")
	}
	rows, cols := values.Dims()

	res := &Result{
		Kind:      s.Kind(),
		Display:   values,
		Magnitude: s.Magnitude(),
	}
	res.Counts.Total = rows * cols

	res.Background, res.HasBackground = opts.Background.Resolve(values)
	if res.HasBackground {
		res.Mask = NewMask(values, res.Background)
	}

	population := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := values.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			res.Counts.Finite++
			if res.Mask.At(i, j) {
				continue
			}
			population = append(population, v)
		}
	}
	res.Counts.Unmasked = len(population)
	if len(population) == 0 {
		return nil, &EmptyPopulationError{Stage: StageMask, Size: res.Counts.Finite}
	}

	entering := len(population)
	population = filter(population, func(v float64) bool {
		return (opts.Min == nil || v >= *opts.Min) && (opts.Max == nil || v <= *opts.Max)
	})
	res.Counts.InBounds = len(population)
	if len(population) == 0 {
		return nil, &EmptyPopulationError{Stage: StageBounds, Size: entering}
	}

	sort.Float64s(population)
	vmin := Percentile(population, opts.PctMin)
	vmax := Percentile(population, opts.PctMax)
	res.Range = DisplayRange{VMin: vmin, VMax: vmax}

	entering = len(population)
	population = filter(population, func(v float64) bool { return v >= vmin && v <= vmax })
	res.Counts.Final = len(population)
	if len(population) == 0 {
		return nil, &EmptyPopulationError{Stage: StagePercentile, Size: entering}
	}
	res.Population = population

	hist, err := NewHistogram(population, opts.NBins)
	if err != nil {
		return nil, fmt.Errorf("histogram: %w", err)
	}
	res.Histogram = hist
	return res, nil
}

// filter keeps values satisfying keep, reusing the backing array.
func filter(values []float64, keep func(float64) bool) []float64 {
	out := values[:0]
	for _, v := range values {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// MaskedDisplay returns a copy of the display array with background samples
// replaced by NaN.
func (r *Result) MaskedDisplay() *mat.Dense {
	out := mat.DenseCopyOf(r.Display)
	if r.Mask == nil {
		return out
	}
	rows, cols := out.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if r.Mask.At(i, j) {
				out.Set(i, j, math.NaN())
			}
		}
	}
	return out
}
