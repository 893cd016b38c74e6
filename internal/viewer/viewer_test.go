package viewer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/mapshow/internal/fsutil"
	"github.com/banshee-data/mapshow/internal/geo"
	"github.com/banshee-data/mapshow/internal/imagestats"
	"github.com/banshee-data/mapshow/internal/monitoring"
	"github.com/banshee-data/mapshow/internal/raster"
	"github.com/banshee-data/mapshow/internal/testutil"
)

type recordingReporter struct {
	sections []string
	dataset  DatasetInfo
	image    ImageInfo
	stats    StatisticsInfo
}

func (r *recordingReporter) Dataset(d DatasetInfo) {
	r.sections = append(r.sections, "dataset")
	r.dataset = d
}

func (r *recordingReporter) Image(i ImageInfo) {
	r.sections = append(r.sections, "image")
	r.image = i
}

func (r *recordingReporter) Statistics(s StatisticsInfo) {
	r.sections = append(r.sections, "statistics")
	r.stats = s
}

func TestRun_AutoBackground(t *testing.T) {
	ds := testutil.NewDataset(t, testutil.BorderedGrid(6, 8, -9999))
	ds.SetDescription("dem.tif")

	opts := DefaultOptions()
	opts.Stats.Background = imagestats.AutoBackground()
	rep := &recordingReporter{}

	res, err := Run(ds, opts, rep)
	require.NoError(t, err)

	assert.Equal(t, []string{"dataset", "image", "statistics"}, rep.sections)
	assert.Equal(t, "dem.tif", rep.dataset.Name)
	assert.Equal(t, 1, rep.dataset.Bands)
	assert.Equal(t, geo.Extent{XMin: 500000, XMax: 500240, YMin: 4199820, YMax: 4200000}, rep.dataset.Grid.Extent)

	assert.True(t, rep.image.HasBackground)
	assert.Equal(t, -9999.0, rep.image.Background)
	assert.Equal(t, 6*8-4*6, rep.image.Masked)

	// Interior holds 1..24.
	assert.Equal(t, imagestats.DisplayRange{VMin: 1, VMax: 24}, res.Stats.Range)
	assert.True(t, rep.stats.UpperLeftMasked)
	assert.Equal(t, 24, rep.stats.Summary.Count)
	assert.InDelta(t, 12.5, rep.stats.Summary.Mean, 1e-12)

	assert.Equal(t, 1, res.Stride)
	assert.True(t, math.IsNaN(res.Display.At(0, 0)))
	assert.Equal(t, 1.0, res.Display.At(1, 1))
	assert.Equal(t, res.Dataset.Grid, res.Grid())
}

func TestRun_Downsample(t *testing.T) {
	ds := testutil.NewDataset(t, testutil.BorderedGrid(9, 9, 0))

	opts := DefaultOptions()
	opts.Downsample = 2
	opts.Stats.Background = imagestats.LiteralBackground(0)

	res, err := Run(ds, opts, nil)
	require.NoError(t, err)

	assert.Equal(t, 4, res.Stride)
	r, c := res.Display.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 3, c)
	// Statistics use the full-resolution band.
	assert.Equal(t, 49, res.Stats.Counts.Final)
	// (4, 4) is interior pixel number 3*7+4 = 25.
	assert.Equal(t, 25.0, res.Display.At(1, 1))
	require.NotNil(t, res.Mask)
	assert.True(t, res.Mask.At(0, 0))
	assert.False(t, res.Mask.At(1, 1))
}

func TestRun_UnsupportedBand(t *testing.T) {
	ds := testutil.NewDataset(t, testutil.BorderedGrid(3, 3, 0))

	opts := DefaultOptions()
	opts.Band = 2

	_, err := Run(ds, opts, nil)
	var unsupported *raster.UnsupportedBandIndexError
	require.True(t, errors.As(err, &unsupported), "got %v", err)
	assert.Equal(t, 2, unsupported.Index)
	assert.Equal(t, 1, unsupported.Count)
}

func TestRun_EmptyPopulation(t *testing.T) {
	ds := testutil.NewDataset(t, mat.NewDense(2, 2, []float64{7, 7, 7, 7}))

	opts := DefaultOptions()
	opts.Stats.Background = imagestats.LiteralBackground(7)

	_, err := Run(ds, opts, nil)
	var empty *imagestats.EmptyPopulationError
	require.True(t, errors.As(err, &empty), "got %v", err)
	assert.Equal(t, imagestats.StageMask, empty.Stage)
}

func TestRun_InvalidDownsample(t *testing.T) {
	ds := testutil.NewDataset(t, testutil.BorderedGrid(3, 3, 0))

	opts := DefaultOptions()
	opts.Downsample = -1

	_, err := Run(ds, opts, nil)
	var invalid *imagestats.InvalidOptionsError
	require.True(t, errors.As(err, &invalid), "got %v", err)
	assert.Equal(t, "downsample", invalid.Field)
}

func TestRun_InvalidTransform(t *testing.T) {
	bad := geo.AffineTransform{OriginX: 0, PixelWidth: 0, OriginY: 0, PixelHeight: -1}
	ds, err := raster.NewMemoryDataset(bad, imagestats.NewRealSample(testutil.BorderedGrid(3, 3, 0)))
	require.NoError(t, err)

	_, err = Run(ds, DefaultOptions(), nil)
	var invalid *geo.InvalidTransformError
	assert.True(t, errors.As(err, &invalid), "got %v", err)
}

func TestRun_ComplexPlotWarning(t *testing.T) {
	original := monitoring.Warnf
	defer func() { monitoring.Warnf = original }()

	var buf bytes.Buffer
	monitoring.SetWarnLogger(monitoring.NewLogger(&buf, "mapshow: "))

	ds, err := raster.NewMemoryDataset(testutil.NorthUp, imagestats.NewComplexSample(testutil.PhaseRamp(4, 4)))
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.PlotComplex = true
	res, err := Run(ds, opts, nil)
	require.NoError(t, err)

	assert.Equal(t, imagestats.Complex, res.Stats.Kind)
	assert.LessOrEqual(t, res.Stats.Range.VMax, math.Pi+1e-12)
	assert.Contains(t, buf.String(), "plot_complex is not supported")
}

func TestTextReporter(t *testing.T) {
	ds := testutil.NewDataset(t, testutil.BorderedGrid(4, 4, 5))
	ds.SetDescription("ifg.tif")

	vmin := 0.0
	opts := DefaultOptions()
	opts.Stats.Background = imagestats.LiteralBackground(5)
	opts.Stats.Min = &vmin

	var buf bytes.Buffer
	_, err := Run(ds, opts, NewTextReporter(&buf))
	require.NoError(t, err)

	out := buf.String()
	for _, want := range []string{
		"Image: ifg.tif\n",
		"BASIC PARAMETERS\n",
		"Number of bands: 1\n",
		"Spatial extent: (500000, 500120, 4.19988e+06, 4.2e+06)\n",
		"Pixel size (x) 30; (y) -30\n",
		"IMAGE PROPERTIES\n",
		"data type: real\n",
		"background value:         5.000000\n",
		"IMAGE STATISTICS\n",
		"Ignoring background value\n",
		"vmin: 0\n",
		"Display range: [1, 4]\n",
		"Upper left value: masked\n",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "vmax:")
	assert.Less(t, strings.Index(out, "BASIC PARAMETERS"), strings.Index(out, "IMAGE PROPERTIES"))
	assert.Less(t, strings.Index(out, "IMAGE PROPERTIES"), strings.Index(out, "IMAGE STATISTICS"))
}

func TestSummary(t *testing.T) {
	ds := testutil.NewDataset(t, testutil.BorderedGrid(5, 5, -1))
	ds.SetDescription("slope.tif")

	opts := DefaultOptions()
	opts.Stats.Background = imagestats.AutoBackground()
	opts.Stats.NBins = 3

	res, err := Run(ds, opts, nil)
	require.NoError(t, err)

	runID := NewRunID()
	_, err = uuid.Parse(runID)
	require.NoError(t, err)

	s := res.Summary(runID)
	assert.Equal(t, runID, s.RunID)
	assert.Equal(t, "slope.tif", s.Image)
	assert.Equal(t, "real", s.Kind)
	assert.Equal(t, 5, s.Rows)
	require.NotNil(t, s.Background)
	assert.Equal(t, -1.0, *s.Background)
	assert.Equal(t, 9, s.Population.Count)
	assert.Equal(t, 9, s.Histogram.Total())

	mfs := fsutil.NewMemoryFileSystem()
	require.NoError(t, WriteSummary(mfs, "out/slope.json", s))

	data, err := mfs.ReadFile("out/slope.json")
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, runID, decoded["run_id"])
	assert.Equal(t, -1.0, decoded["background"])
	assert.Contains(t, decoded, "histogram")
}

func TestSummary_NonFiniteBackgroundOmitted(t *testing.T) {
	for _, bg := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		t.Run(fmt.Sprint(bg), func(t *testing.T) {
			ds := testutil.NewDataset(t, mat.NewDense(2, 2, []float64{bg, 1, 2, bg}))

			opts := DefaultOptions()
			opts.Stats.Background = imagestats.LiteralBackground(bg)

			res, err := Run(ds, opts, nil)
			require.NoError(t, err)
			assert.True(t, res.Stats.HasBackground)

			s := res.Summary("run")
			assert.Nil(t, s.Background)

			mfs := fsutil.NewMemoryFileSystem()
			require.NoError(t, WriteSummary(mfs, "summary.json", s))
			data, err := mfs.ReadFile("summary.json")
			require.NoError(t, err)
			assert.NotContains(t, string(data), `"background"`)
		})
	}
}

type closeErrDataset struct {
	*raster.MemoryDataset
}

func (d closeErrDataset) Close() error {
	d.MemoryDataset.Close()
	return errors.New("flush failed")
}

func TestRunFile_OpenError(t *testing.T) {
	_, err := RunFile(nil, "/nonexistent.tif", DefaultOptions(), nil)
	assert.Error(t, err)
}

func TestRunFile_ClosesDataset(t *testing.T) {
	ds := testutil.NewDataset(t, testutil.BorderedGrid(4, 5, 0))
	var opened string
	open := func(path string) (raster.Dataset, error) {
		opened = path
		return ds, nil
	}

	res, err := RunFile(open, "dem.tif", DefaultOptions(), nil)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "dem.tif", opened)
	assert.True(t, ds.Closed())
}

func TestRunFile_CloseError(t *testing.T) {
	ds := closeErrDataset{testutil.NewDataset(t, testutil.BorderedGrid(4, 5, 0))}
	open := func(string) (raster.Dataset, error) { return ds, nil }

	res, err := RunFile(open, "dem.tif", DefaultOptions(), nil)
	assert.Nil(t, res)
	assert.ErrorContains(t, err, "flush failed")
	assert.True(t, ds.Closed())
}

func TestRunFile_RunErrorWinsOverCloseError(t *testing.T) {
	ds := closeErrDataset{testutil.NewDataset(t, testutil.BorderedGrid(4, 5, 0))}
	open := func(string) (raster.Dataset, error) { return ds, nil }

	opts := DefaultOptions()
	opts.Band = 9
	_, err := RunFile(open, "dem.tif", opts, nil)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "flush failed")
	assert.True(t, ds.Closed())
}
