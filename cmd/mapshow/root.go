package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/mapshow/internal/config"
	"github.com/banshee-data/mapshow/internal/fsutil"
	"github.com/banshee-data/mapshow/internal/monitoring"
	"github.com/banshee-data/mapshow/internal/render"
	"github.com/banshee-data/mapshow/internal/version"
	"github.com/banshee-data/mapshow/internal/viewer"
)

// outputs names the files a run writes. Empty paths are skipped.
type outputs struct {
	image     string
	histogram string
	html      string
	summary   string
}

func newRootCmd(fsys fsutil.FileSystem, open viewer.Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mapshow <imgfile>",
		Short: "Plot a georeferenced raster band with percentile clipping",
		Long: `mapshow reads one band of a GDAL-readable raster, masks an optional
background value, clips the colour scale to absolute and percentile bounds,
and writes the map (and optionally its histogram) to image files.`,
		Args:          cobra.ExactArgs(1),
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], fsys, open)
		},
	}

	f := cmd.Flags()
	f.IntP("band", "b", config.DefaultBand, "Image band to display (1-based)")
	f.Int("downsample", 0, "Display every 2^N-th pixel")
	f.Float64("vmin", 0, "Ignore values below this when computing statistics")
	f.Float64("vmax", 0, "Ignore values above this when computing statistics")
	f.Float64("pctmin", 0, "Lower percentile of the colour scale")
	f.Float64("pctmax", 100, "Upper percentile of the colour scale")
	f.String("background", "", `Background value to mask, or "auto" to use the most common edge value`)
	f.Int("nbins", 50, "Number of histogram bins")
	f.String("cmap", config.DefaultColorMap, "Colour map: "+strings.Join(render.ColorMapNames(), ", "))
	f.BoolP("verbose", "v", false, "Report image properties and statistics")
	f.Bool("plot_complex", false, "Plot complex bands as phase and magnitude (not supported)")
	f.Bool("hist", false, "Also plot the histogram")
	f.StringP("out", "o", "", "Map image path (default <imgfile base>.png)")
	f.String("hist-out", "", "Histogram image path (default <imgfile base>_hist.png, implies --hist)")
	f.String("html", "", "Write an interactive histogram page to this path")
	f.String("json", "", "Write a JSON run summary to this path")
	f.String("config", "", "JSON file of defaults; flags given on the command line win")

	return cmd
}

// loadConfig reads --config, if given, and overlays every flag the user set.
func loadConfig(cmd *cobra.Command, fsys fsutil.FileSystem) (*config.ViewerConfig, error) {
	f := cmd.Flags()
	cfg := config.EmptyViewerConfig()
	if path, _ := f.GetString("config"); path != "" {
		loaded, err := config.LoadViewerConfig(fsys, path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if f.Changed("band") {
		v, _ := f.GetInt("band")
		cfg.Band = &v
	}
	if f.Changed("downsample") {
		v, _ := f.GetInt("downsample")
		cfg.Downsample = &v
	}
	if f.Changed("vmin") {
		v, _ := f.GetFloat64("vmin")
		cfg.VMin = &v
	}
	if f.Changed("vmax") {
		v, _ := f.GetFloat64("vmax")
		cfg.VMax = &v
	}
	if f.Changed("pctmin") {
		v, _ := f.GetFloat64("pctmin")
		cfg.PctMin = &v
	}
	if f.Changed("pctmax") {
		v, _ := f.GetFloat64("pctmax")
		cfg.PctMax = &v
	}
	if f.Changed("background") {
		v, _ := f.GetString("background")
		cfg.Background = &v
	}
	if f.Changed("nbins") {
		v, _ := f.GetInt("nbins")
		cfg.NBins = &v
	}
	if f.Changed("cmap") {
		v, _ := f.GetString("cmap")
		cfg.ColorMap = &v
	}
	if f.Changed("verbose") {
		v, _ := f.GetBool("verbose")
		cfg.Verbose = &v
	}
	if f.Changed("plot_complex") {
		v, _ := f.GetBool("plot_complex")
		cfg.PlotComplex = &v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, err := render.ColorMapByName(cfg.GetColorMap()); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveOutputs fills in default output paths, named after the input file
// and relative to the working directory.
func resolveOutputs(cmd *cobra.Command, imgfile string) outputs {
	f := cmd.Flags()

	var out outputs
	out.image, _ = f.GetString("out")
	if out.image == "" {
		out.image = fsutil.DerivedPath(imgfile, ".png")
	}
	out.histogram, _ = f.GetString("hist-out")
	if hist, _ := f.GetBool("hist"); hist && out.histogram == "" {
		out.histogram = fsutil.DerivedPath(imgfile, "_hist.png")
	}
	out.html, _ = f.GetString("html")
	out.summary, _ = f.GetString("json")
	return out
}

func run(cmd *cobra.Command, imgfile string, fsys fsutil.FileSystem, open viewer.Opener) error {
	cfg, err := loadConfig(cmd, fsys)
	if err != nil {
		return err
	}
	out := resolveOutputs(cmd, imgfile)

	imageFormat, err := render.FormatFromPath(out.image)
	if err != nil {
		return err
	}
	var histFormat string
	if out.histogram != "" {
		if histFormat, err = render.FormatFromPath(out.histogram); err != nil {
			return err
		}
	}

	monitoring.SetWarnLogger(monitoring.NewLogger(cmd.ErrOrStderr(), "mapshow: "))
	var rep viewer.Reporter
	if cfg.GetVerbose() {
		monitoring.SetLogger(monitoring.NewLogger(cmd.ErrOrStderr(), "mapshow: "))
		rep = viewer.NewTextReporter(cmd.OutOrStdout())
	} else {
		monitoring.SetLogger(nil)
	}

	statsOpts, err := cfg.StatsOptions()
	if err != nil {
		return err
	}
	opts := viewer.Options{
		Band:        cfg.GetBand(),
		Downsample:  cfg.GetDownsample(),
		Stats:       statsOpts,
		PlotComplex: cfg.GetPlotComplex(),
	}

	res, err := viewer.RunFile(open, imgfile, opts, rep)
	if err != nil {
		return err
	}

	width := vg.Length(cfg.GetWidthInches()) * vg.Inch
	height := vg.Length(cfg.GetHeightInches()) * vg.Inch
	title := fmt.Sprintf("%s (band %d)", filepath.Base(imgfile), opts.Band)

	img, err := render.ImagePlot(res, render.ImageOptions{
		Title:    title,
		ColorMap: cfg.GetColorMap(),
		Width:    width,
		Height:   height,
		Format:   imageFormat,
	})
	if err != nil {
		return err
	}
	if err := render.Save(fsys, out.image, img); err != nil {
		return err
	}
	monitoring.Logf("wrote %s", out.image)

	if out.histogram != "" {
		hist, err := render.HistogramPlot(res.Stats.Histogram, title, width, height, histFormat)
		if err != nil {
			return err
		}
		if err := render.Save(fsys, out.histogram, hist); err != nil {
			return err
		}
		monitoring.Logf("wrote %s", out.histogram)
	}

	if out.html != "" {
		page, err := render.HistogramHTML(res.Stats.Histogram, title)
		if err != nil {
			return err
		}
		if err := render.Save(fsys, out.html, page); err != nil {
			return err
		}
		monitoring.Logf("wrote %s", out.html)
	}

	if out.summary != "" {
		if err := viewer.WriteSummary(fsys, out.summary, res.Summary(viewer.NewRunID())); err != nil {
			return err
		}
		monitoring.Logf("wrote %s", out.summary)
	}
	return nil
}
