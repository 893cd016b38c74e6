package imagestats

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestPercentile_LinearInterpolation(t *testing.T) {
	t.Parallel()

	hundred := make([]float64, 100)
	for i := range hundred {
		hundred[i] = float64(i + 1)
	}

	cases := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"p10 of 1..100", hundred, 10, 10.9},
		{"p90 of 1..100", hundred, 90, 90.1},
		{"p50 of 1..100", hundred, 50, 50.5},
		{"p0 is the minimum", hundred, 0, 1},
		{"p100 is the maximum", hundred, 100, 100},
		{"single sample", []float64{4.2}, 37, 4.2},
		{"two samples midpoint", []float64{-1, 3}, 50, 1},
		{"repeated values", []float64{2, 2, 2, 8}, 50, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, Percentile(tc.sorted, tc.p), 1e-9)
		})
	}
}

func TestPercentile_AdjacentValuesWiderThanMaxFloat(t *testing.T) {
	t.Parallel()
	x := []float64{-1e308, 1e308}
	assert.Equal(t, 0.0, Percentile(x, 50))
	assert.Equal(t, -1e308, Percentile(x, 0))
	assert.Equal(t, 1e308, Percentile(x, 100))
	assert.InDelta(t, -0.5e308, Percentile(x, 25), 1e294)
}

func TestPercentile_PanicsOnEmpty(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { Percentile(nil, 50) })
	assert.Panics(t, func() { Percentile([]float64{1}, 120) })
}

func TestNewHistogram(t *testing.T) {
	t.Parallel()

	h, err := NewHistogram([]float64{0, 1, 2, 3, 4}, 4)
	require.NoError(t, err)

	want := Histogram{
		Edges:   []float64{0, 1, 2, 3, 4},
		Counts:  []int{1, 1, 1, 2},
		Centers: []float64{0.5, 1.5, 2.5, 3.5},
	}
	if diff := cmp.Diff(want, h); diff != "" {
		t.Errorf("histogram mismatch (-want +got):\n%s", diff)
	}

	lo, hi := h.CountRange()
	assert.Equal(t, 1, lo)
	assert.Equal(t, 2, hi)
}

func TestNewHistogram_ConstantPopulation(t *testing.T) {
	t.Parallel()

	h, err := NewHistogram([]float64{7, 7, 7}, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{6.5, 7, 7.5}, h.Edges)
	assert.Equal(t, []int{0, 3}, h.Counts)
}

func TestNewHistogram_UnsortedInput(t *testing.T) {
	t.Parallel()

	in := []float64{3, 0, 2, 1}
	h, err := NewHistogram(in, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, h.Counts)
	assert.Equal(t, []float64{3, 0, 2, 1}, in, "input must not be reordered")
}

func TestNewHistogram_Errors(t *testing.T) {
	t.Parallel()

	_, err := NewHistogram([]float64{1}, 0)
	var invalid *InvalidOptionsError
	assert.True(t, errors.As(err, &invalid))

	_, err = NewHistogram(nil, 5)
	var empty *EmptyPopulationError
	assert.True(t, errors.As(err, &empty))
}

func TestEdgeMode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		m    *mat.Dense
		want float64
	}{
		{"uniform border", dense([][]float64{{9, 9, 9}, {9, 1, 9}, {9, 9, 9}}), 9},
		{"majority wins", dense([][]float64{{0, 0, 0}, {0, 5, 0}, {3, 3, 0}}), 0},
		{"tie goes to smallest", dense([][]float64{{1, 2}, {2, 1}}), 1},
		{"nan ignored", dense([][]float64{{math.NaN(), 4, 4}, {math.NaN(), 0, 4}, {math.NaN(), 4, 4}}), 4},
		{"single row", dense([][]float64{{2, 3, 3}}), 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, EdgeMode(tc.m))
		})
	}
}

func TestEdgeMode_AllNaN(t *testing.T) {
	t.Parallel()
	assert.True(t, math.IsNaN(EdgeMode(dense([][]float64{{math.NaN(), math.NaN()}}))))
}

func TestEdgeValues_Order(t *testing.T) {
	t.Parallel()

	got := EdgeValues(dense([][]float64{{1, 2, 3}, {4, 5, 6}}))
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 1, 4, 3, 6}, got)
}

func TestParseBackground(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want Background
	}{
		{"", NoBackground()},
		{"none", NoBackground()},
		{"auto", AutoBackground()},
		{" AUTO ", AutoBackground()},
		{"0", LiteralBackground(0)},
		{"-9999", LiteralBackground(-9999)},
		{"1.5e3", LiteralBackground(1500)},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseBackground(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	nan, err := ParseBackground("nan")
	require.NoError(t, err)
	assert.Equal(t, BackgroundLiteral, nan.Mode)
	assert.True(t, math.IsNaN(nan.Value))

	_, err = ParseBackground("edges")
	var invalid *InvalidOptionsError
	assert.True(t, errors.As(err, &invalid))
}

func TestBackgroundString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "none", NoBackground().String())
	assert.Equal(t, "auto", AutoBackground().String())
	assert.Equal(t, "-9999", LiteralBackground(-9999).String())
}

func TestNilMask(t *testing.T) {
	t.Parallel()

	var m *Mask
	assert.False(t, m.At(3, 4))
	assert.Equal(t, 0, m.Count())
	assert.Nil(t, m.Downsample(2))
}

func TestDownsample(t *testing.T) {
	t.Parallel()

	data := make([]float64, 25)
	for i := range data {
		data[i] = float64(i)
	}
	m := mat.NewDense(5, 5, data)

	got := Downsample(m, 2)
	r, c := got.Dims()
	require.Equal(t, 3, r)
	require.Equal(t, 3, c)
	assert.Equal(t, []float64{0, 2, 4, 10, 12, 14, 20, 22, 24}, mat.DenseCopyOf(got).RawMatrix().Data)

	assert.Same(t, m, Downsample(m, 1))

	mask := NewMask(m, 12)
	dm := mask.Downsample(2)
	assert.True(t, dm.At(1, 1))
	assert.Equal(t, 1, dm.Count())
}

func TestStride(t *testing.T) {
	t.Parallel()

	s, err := Stride(0)
	require.NoError(t, err)
	assert.Equal(t, 1, s)

	s, err = Stride(3)
	require.NoError(t, err)
	assert.Equal(t, 8, s)

	_, err = Stride(-1)
	assert.Error(t, err)
	_, err = Stride(MaxDownsampleExponent + 1)
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	s := Summarize([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.Equal(t, 8, s.Count)
	assert.InDelta(t, 5.0, s.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(32.0/7.0), s.StdDev, 1e-12)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 9.0, s.Max)

	one := Summarize([]float64{3})
	assert.Equal(t, Summary{Count: 1, Mean: 3, Min: 3, Max: 3}, one)
	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestKindString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "real", Real.String())
	assert.Equal(t, "complex", Complex.String())
}
