package render

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/mapshow/internal/imagestats"
)

var (
	stemColor = color.RGBA{R: 255, A: 255}
	lineColor = color.Black
)

// HistogramPlot draws red stems at the bin centres and a black line through
// the counts. The y axis spans [0.95*min, 1.05*max] of the counts.
func HistogramPlot(h imagestats.Histogram, title string, width, height vg.Length, format string) (io.WriterTo, error) {
	if h.Bins() == 0 {
		return nil, fmt.Errorf("render: empty histogram")
	}
	if format == "" {
		format = "png"
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "value"
	p.Y.Label.Text = "count"

	profile := make(plotter.XYs, h.Bins())
	for i, n := range h.Counts {
		profile[i].X = h.Centers[i]
		profile[i].Y = float64(n)

		stem, err := plotter.NewLine(plotter.XYs{{X: h.Centers[i], Y: 0}, {X: h.Centers[i], Y: float64(n)}})
		if err != nil {
			return nil, fmt.Errorf("failed to create stem: %w", err)
		}
		stem.Color = stemColor
		stem.Width = vg.Points(1)
		p.Add(stem)
	}

	line, err := plotter.NewLine(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile line: %w", err)
	}
	line.Color = lineColor
	line.Width = vg.Points(2)
	p.Add(line)

	lo, hi := h.CountRange()
	p.Y.Min = 0.95 * float64(lo)
	p.Y.Max = 1.05 * float64(hi)
	p.X.Min, p.X.Max = h.Edges[0], h.Edges[len(h.Edges)-1]

	w, err := p.WriterTo(width, height, format)
	if err != nil {
		return nil, fmt.Errorf("failed to render histogram: %w", err)
	}
	return w, nil
}

// HistogramHTML renders the histogram as an interactive go-echarts page.
func HistogramHTML(h imagestats.Histogram, title string) (io.WriterTo, error) {
	if h.Bins() == 0 {
		return nil, fmt.Errorf("render: empty histogram")
	}

	labels := make([]string, h.Bins())
	bars := make([]opts.BarData, h.Bins())
	profile := make([]opts.LineData, h.Bins())
	for i, n := range h.Counts {
		labels[i] = fmt.Sprintf("%.4g", h.Centers[i])
		bars[i] = opts.BarData{Value: n}
		profile[i] = opts.LineData{Value: n}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "100%", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("bins=%d samples=%d", h.Bins(), h.Total())}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "value", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "count"}),
	)
	bar.SetXAxis(labels).AddSeries("count", bars, charts.WithItemStyleOpts(opts.ItemStyle{Color: "red"}))

	line := charts.NewLine()
	line.SetXAxis(labels).AddSeries("profile", profile, charts.WithLineStyleOpts(opts.LineStyle{Color: "black", Width: 2}))
	bar.Overlap(line)

	page := components.NewPage()
	page.AddCharts(bar)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return nil, fmt.Errorf("failed to render histogram page: %w", err)
	}
	return &buf, nil
}
