// Package viewer runs the mapshow pipeline over an open raster: it reads
// georeferencing and one band, computes display statistics and prepares
// the downsampled array a renderer draws.
package viewer

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/mapshow/internal/geo"
	"github.com/banshee-data/mapshow/internal/imagestats"
	"github.com/banshee-data/mapshow/internal/monitoring"
	"github.com/banshee-data/mapshow/internal/raster"
)

// Options controls a viewer run.
type Options struct {
	// Band is the 1-based band index.
	Band int
	// Downsample is the power-of-two exponent of the display stride.
	Downsample  int
	Stats       imagestats.Options
	PlotComplex bool
}

// DefaultOptions returns band 1, full resolution and default statistics.
func DefaultOptions() Options {
	return Options{
		Band:  1,
		Stats: imagestats.DefaultOptions(),
	}
}

// Result is everything a renderer or summary needs from one run.
type Result struct {
	Dataset DatasetInfo
	Band    int
	Stride  int
	Stats   *imagestats.Result

	// Display is the downsampled display array with background set to NaN.
	Display *mat.Dense
	// Mask is the downsampled background mask, nil without a background.
	Mask *imagestats.Mask
}

// Grid returns the georeferenced grid of the full-resolution band.
func (r *Result) Grid() geo.Grid { return r.Dataset.Grid }

// Run reads band opts.Band from ds and runs the statistics pipeline on it.
// Progress is reported to rep, which may be nil. ds is not closed.
func Run(ds raster.Dataset, opts Options, rep Reporter) (*Result, error) {
	if rep == nil {
		rep = nopReporter{}
	}

	stride, err := imagestats.Stride(opts.Downsample)
	if err != nil {
		return nil, err
	}

	grid, err := geo.GridFromSource(ds)
	if err != nil {
		return nil, fmt.Errorf("failed to read georeferencing of %s: %w", ds.Description(), err)
	}
	info := DatasetInfo{
		Name:        ds.Description(),
		Bands:       ds.RasterCount(),
		Grid:        grid,
		PixelWidth:  grid.Transform.PixelWidth,
		PixelHeight: grid.Transform.PixelHeight,
	}
	rep.Dataset(info)

	sample, err := ds.ReadBand(opts.Band)
	if err != nil {
		var unsupported *raster.UnsupportedBandIndexError
		if errors.As(err, &unsupported) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read band %d: %w", opts.Band, err)
	}
	if r, c := sample.Dims(); r != grid.Rows || c != grid.Cols {
		return nil, fmt.Errorf("band %d is %dx%d but dataset is %dx%d", opts.Band, r, c, grid.Rows, grid.Cols)
	}

	stats, err := imagestats.Run(sample, opts.Stats)
	if err != nil {
		return nil, fmt.Errorf("statistics for band %d: %w", opts.Band, err)
	}
	monitoring.Logf("band %d: %d of %d samples in [%g, %g]",
		opts.Band, stats.Counts.Final, stats.Counts.Total, stats.Range.VMin, stats.Range.VMax)

	rep.Image(ImageInfo{
		Band:          opts.Band,
		Kind:          stats.Kind,
		Background:    stats.Background,
		HasBackground: stats.HasBackground,
		Masked:        stats.Mask.Count(),
	})
	rep.Statistics(StatisticsInfo{
		IgnoringBackground: stats.HasBackground,
		Min:                opts.Stats.Min,
		Max:                opts.Stats.Max,
		Range:              stats.Range,
		UpperLeft:          stats.Display.At(0, 0),
		UpperLeftMasked:    stats.Mask.At(0, 0),
		Summary:            imagestats.Summarize(stats.Population),
		Counts:             stats.Counts,
	})

	if opts.PlotComplex {
		monitoring.Warnf("plot_complex is not supported; showing the %s band as is", stats.Kind)
	}

	return &Result{
		Dataset: info,
		Band:    opts.Band,
		Stride:  stride,
		Stats:   stats,
		Display: imagestats.Downsample(stats.MaskedDisplay(), stride),
		Mask:    stats.Mask.Downsample(stride),
	}, nil
}

// Opener opens a raster by path. raster.Open is the production opener.
type Opener func(path string) (raster.Dataset, error)

// RunFile opens path, runs the pipeline and closes the dataset. A close
// failure is returned when the run itself succeeded. A nil open uses
// raster.Open.
func RunFile(open Opener, path string, opts Options, rep Reporter) (res *Result, err error) {
	if open == nil {
		open = raster.Open
	}
	ds, err := open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := ds.Close(); cerr != nil && err == nil {
			res, err = nil, fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return Run(ds, opts, rep)
}
