package viewer

import (
	"fmt"
	"io"

	"github.com/banshee-data/mapshow/internal/geo"
	"github.com/banshee-data/mapshow/internal/imagestats"
)

// DatasetInfo describes the opened raster.
type DatasetInfo struct {
	Name        string
	Bands       int
	Grid        geo.Grid
	PixelWidth  float64
	PixelHeight float64
}

// ImageInfo describes the selected band.
type ImageInfo struct {
	Band          int
	Kind          imagestats.Kind
	Background    float64
	HasBackground bool
	Masked        int
}

// StatisticsInfo describes the statistics population and display range.
type StatisticsInfo struct {
	IgnoringBackground bool
	Min, Max           *float64
	Range              imagestats.DisplayRange
	UpperLeft          float64
	UpperLeftMasked    bool
	Summary            imagestats.Summary
	Counts             imagestats.StageCounts
}

// Reporter receives progress from Run, once per section.
type Reporter interface {
	Dataset(DatasetInfo)
	Image(ImageInfo)
	Statistics(StatisticsInfo)
}

type nopReporter struct{}

func (nopReporter) Dataset(DatasetInfo)       {}
func (nopReporter) Image(ImageInfo)           {}
func (nopReporter) Statistics(StatisticsInfo) {}

// TextReporter prints the verbose report to w.
type TextReporter struct {
	w io.Writer
}

// NewTextReporter returns a TextReporter writing to w.
func NewTextReporter(w io.Writer) *TextReporter {
	return &TextReporter{w: w}
}

func (r *TextReporter) Dataset(d DatasetInfo) {
	fmt.Fprintf(r.w, "Image: %s\n", d.Name)
	fmt.Fprintln(r.w, "BASIC PARAMETERS")
	fmt.Fprintf(r.w, "Number of bands: %d\n", d.Bands)
	fmt.Fprintf(r.w, "Size: %d rows x %d cols\n", d.Grid.Rows, d.Grid.Cols)
	fmt.Fprintf(r.w, "Spatial extent: %s\n", d.Grid.Extent)
	fmt.Fprintf(r.w, "Pixel size (x) %g; (y) %g\n", d.PixelWidth, d.PixelHeight)
}

func (r *TextReporter) Image(i ImageInfo) {
	fmt.Fprintln(r.w, "IMAGE PROPERTIES")
	fmt.Fprintf(r.w, "band: %d\n", i.Band)
	fmt.Fprintf(r.w, "data type: %s\n", i.Kind)
	if i.HasBackground {
		fmt.Fprintf(r.w, "background value: %16f\n", i.Background)
		fmt.Fprintf(r.w, "masked pixels: %d\n", i.Masked)
	}
}

func (r *TextReporter) Statistics(s StatisticsInfo) {
	fmt.Fprintln(r.w, "IMAGE STATISTICS")
	if s.IgnoringBackground {
		fmt.Fprintln(r.w, "Ignoring background value")
	}
	if s.Min != nil {
		fmt.Fprintf(r.w, "vmin: %g\n", *s.Min)
	}
	if s.Max != nil {
		fmt.Fprintf(r.w, "vmax: %g\n", *s.Max)
	}
	fmt.Fprintf(r.w, "Display range: [%g, %g]\n", s.Range.VMin, s.Range.VMax)
	fmt.Fprintf(r.w, "Samples: %d (mean %g, std %g)\n", s.Summary.Count, s.Summary.Mean, s.Summary.StdDev)
	if s.UpperLeftMasked {
		fmt.Fprintln(r.w, "Upper left value: masked")
		return
	}
	fmt.Fprintf(r.w, "Upper left value: %.16f\n", s.UpperLeft)
}
