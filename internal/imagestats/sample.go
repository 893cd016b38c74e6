// Package imagestats turns a raster band into a display-ready value
// population: complex decomposition, background masking, absolute and
// percentile bound filtering, and histogramming.
package imagestats

import (
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// Kind distinguishes real from complex samples.
type Kind int

const (
	Real Kind = iota
	Complex
)

func (k Kind) String() string {
	switch k {
	case Real:
		return "real"
	case Complex:
		return "complex"
	default:
		return "unknown"
	}
}

// Sample is a 2D band decoded once at load time. For real bands Values holds
// the samples; for complex bands Values holds the phase and Magnitude the
// amplitude.
type Sample struct {
	kind      Kind
	values    *mat.Dense
	magnitude *mat.Dense
}

// NewRealSample wraps a real-valued band.
func NewRealSample(m *mat.Dense) Sample {
	return Sample{kind: Real, values: m}
}

// NewComplexSample splits a complex band into phase (radians, in [-pi, pi])
// and magnitude.
func NewComplexSample(c *mat.CDense) Sample {
	r, cols := c.Dims()
	phase := mat.NewDense(r, cols, nil)
	mag := mat.NewDense(r, cols, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < cols; j++ {
			v := c.At(i, j)
			phase.Set(i, j, cmplx.Phase(v))
			mag.Set(i, j, cmplx.Abs(v))
		}
	}
	return Sample{kind: Complex, values: phase, magnitude: mag}
}

// Kind reports whether the band was real or complex.
func (s Sample) Kind() Kind { return s.kind }

// Values returns the array used for display and statistics.
func (s Sample) Values() *mat.Dense { return s.values }

// Magnitude returns the amplitude of a complex band, or nil.
func (s Sample) Magnitude() *mat.Dense { return s.magnitude }

// Dims returns the band shape.
func (s Sample) Dims() (rows, cols int) {
	if s.values == nil {
		return 0, 0
	}
	return s.values.Dims()
}
