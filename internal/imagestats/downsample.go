package imagestats

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// MaxDownsampleExponent bounds the --downsample exponent.
const MaxDownsampleExponent = 16

// Stride converts a power-of-two downsample exponent into a stride.
func Stride(exponent int) (int, error) {
	if exponent < 0 || exponent > MaxDownsampleExponent {
		return 0, &InvalidOptionsError{Field: "downsample", Reason: fmt.Sprintf("exponent %d is outside [0, %d]", exponent, MaxDownsampleExponent)}
	}
	return 1 << exponent, nil
}

// Downsample keeps every stride-th row and column of m, starting at (0, 0).
func Downsample(m *mat.Dense, stride int) *mat.Dense {
	if stride <= 1 {
		return m
	}
	r, c := m.Dims()
	dr, dc := (r+stride-1)/stride, (c+stride-1)/stride
	out := mat.NewDense(dr, dc, nil)
	for i := 0; i < dr; i++ {
		for j := 0; j < dc; j++ {
			out.Set(i, j, m.At(i*stride, j*stride))
		}
	}
	return out
}

// Downsample returns the mask thinned the same way as Downsample.
func (m *Mask) Downsample(stride int) *Mask {
	if m == nil || stride <= 1 {
		return m
	}
	dr, dc := (m.rows+stride-1)/stride, (m.cols+stride-1)/stride
	out := &Mask{rows: dr, cols: dc, bits: make([]bool, dr*dc)}
	for i := 0; i < dr; i++ {
		for j := 0; j < dc; j++ {
			out.bits[i*dc+j] = m.At(i*stride, j*stride)
		}
	}
	return out
}
