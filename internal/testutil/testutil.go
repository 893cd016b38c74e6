// Package testutil provides shared test helpers and raster fixtures.
package testutil

import (
	"math"
	"math/cmplx"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/mapshow/internal/geo"
	"github.com/banshee-data/mapshow/internal/imagestats"
	"github.com/banshee-data/mapshow/internal/raster"
)

// NorthUp is a 30 m UTM-style transform with y decreasing down the rows.
var NorthUp = geo.AffineTransform{OriginX: 500000, PixelWidth: 30, OriginY: 4200000, PixelHeight: -30}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// BorderedGrid returns a rows x cols grid whose one-pixel frame holds
// border and whose interior counts up from 1 in row-major order.
func BorderedGrid(rows, cols int, border float64) *mat.Dense {
	m := mat.NewDense(rows, cols, nil)
	n := 1.0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if i == 0 || j == 0 || i == rows-1 || j == cols-1 {
				m.Set(i, j, border)
				continue
			}
			m.Set(i, j, n)
			n++
		}
	}
	return m
}

// PhaseRamp returns a complex grid of unit magnitude whose phase steps
// evenly through (-pi, pi] across the pixels.
func PhaseRamp(rows, cols int) *mat.CDense {
	n := rows * cols
	data := make([]complex128, n)
	for k := range data {
		phase := -math.Pi + 2*math.Pi*float64(k+1)/float64(n)
		data[k] = cmplx.Rect(1, phase)
	}
	return mat.NewCDense(rows, cols, data)
}

// NewDataset wraps real bands in a MemoryDataset using NorthUp.
func NewDataset(t testing.TB, bands ...*mat.Dense) *raster.MemoryDataset {
	t.Helper()
	samples := make([]imagestats.Sample, len(bands))
	for i, b := range bands {
		samples[i] = imagestats.NewRealSample(b)
	}
	ds, err := raster.NewMemoryDataset(NorthUp, samples...)
	AssertNoError(t, err)
	return ds
}
