// Package config loads mapshow defaults from a JSON file. Command-line
// flags that are explicitly set take precedence over anything loaded here.
package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/banshee-data/mapshow/internal/fsutil"
	"github.com/banshee-data/mapshow/internal/imagestats"
)

// ViewerConfig holds viewer defaults. Every field is optional; the Get*
// methods supply the built-in default for anything left unset.
type ViewerConfig struct {
	// Band selection
	Band       *int `json:"band,omitempty"`
	Downsample *int `json:"downsample,omitempty"` // power-of-two exponent

	// Display range
	VMin       *float64 `json:"vmin,omitempty"`
	VMax       *float64 `json:"vmax,omitempty"`
	PctMin     *float64 `json:"pctmin,omitempty"`
	PctMax     *float64 `json:"pctmax,omitempty"`
	Background *string  `json:"background,omitempty"` // "auto", "none" or a number

	// Histogram
	NBins *int `json:"nbins,omitempty"`

	// Rendering
	ColorMap     *string  `json:"colormap,omitempty"`
	WidthInches  *float64 `json:"width_inches,omitempty"`
	HeightInches *float64 `json:"height_inches,omitempty"`

	PlotComplex *bool `json:"plot_complex,omitempty"`
	Verbose     *bool `json:"verbose,omitempty"`
}

const (
	DefaultBand         = 1
	DefaultColorMap     = "extended-kindlmann"
	DefaultWidthInches  = 8.0
	DefaultHeightInches = 6.0
	maxConfigFileSize   = 1 * 1024 * 1024 // 1MB
)

// EmptyViewerConfig returns a ViewerConfig with all fields unset.
func EmptyViewerConfig() *ViewerConfig {
	return &ViewerConfig{}
}

// LoadViewerConfig loads a ViewerConfig from a JSON file in fsys.
// The file must have a .json extension and be under 1MB. Fields omitted
// from the file keep their defaults, so partial configs are safe.
func LoadViewerConfig(fsys fsutil.FileSystem, path string) (*ViewerConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := fsys.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyViewerConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configured values are usable.
func (c *ViewerConfig) Validate() error {
	if c.Band != nil && *c.Band < 1 {
		return fmt.Errorf("band must be >= 1, got %d", *c.Band)
	}
	if c.Downsample != nil {
		if *c.Downsample < 0 || *c.Downsample > imagestats.MaxDownsampleExponent {
			return fmt.Errorf("downsample must be between 0 and %d, got %d", imagestats.MaxDownsampleExponent, *c.Downsample)
		}
	}
	if c.Background != nil {
		if _, err := imagestats.ParseBackground(*c.Background); err != nil {
			return fmt.Errorf("invalid background %q: %w", *c.Background, err)
		}
	}
	if c.WidthInches != nil && *c.WidthInches <= 0 {
		return fmt.Errorf("width_inches must be positive, got %g", *c.WidthInches)
	}
	if c.HeightInches != nil && *c.HeightInches <= 0 {
		return fmt.Errorf("height_inches must be positive, got %g", *c.HeightInches)
	}
	if c.ColorMap != nil && *c.ColorMap == "" {
		return fmt.Errorf("colormap must not be empty")
	}

	// Percentile, bound and bin checks live with the statistics options.
	opts, err := c.StatsOptions()
	if err != nil {
		return err
	}
	return opts.Validate()
}

// GetBand returns the band value or the default.
func (c *ViewerConfig) GetBand() int {
	if c.Band == nil {
		return DefaultBand
	}
	return *c.Band
}

// GetDownsample returns the downsample exponent or the default.
func (c *ViewerConfig) GetDownsample() int {
	if c.Downsample == nil {
		return 0
	}
	return *c.Downsample
}

// GetPctMin returns the pctmin value or the default.
func (c *ViewerConfig) GetPctMin() float64 {
	if c.PctMin == nil {
		return 0
	}
	return *c.PctMin
}

// GetPctMax returns the pctmax value or the default.
func (c *ViewerConfig) GetPctMax() float64 {
	if c.PctMax == nil {
		return 100
	}
	return *c.PctMax
}

// GetBackground returns the background string or "none".
func (c *ViewerConfig) GetBackground() string {
	if c.Background == nil {
		return "none"
	}
	return *c.Background
}

// GetNBins returns the histogram bin count or the default.
func (c *ViewerConfig) GetNBins() int {
	if c.NBins == nil {
		return imagestats.DefaultBins
	}
	return *c.NBins
}

// GetColorMap returns the colour map name or the default.
func (c *ViewerConfig) GetColorMap() string {
	if c.ColorMap == nil {
		return DefaultColorMap
	}
	return *c.ColorMap
}

// GetWidthInches returns the image width or the default.
func (c *ViewerConfig) GetWidthInches() float64 {
	if c.WidthInches == nil {
		return DefaultWidthInches
	}
	return *c.WidthInches
}

// GetHeightInches returns the image height or the default.
func (c *ViewerConfig) GetHeightInches() float64 {
	if c.HeightInches == nil {
		return DefaultHeightInches
	}
	return *c.HeightInches
}

// GetPlotComplex returns the plot_complex value or the default.
func (c *ViewerConfig) GetPlotComplex() bool {
	return c.PlotComplex != nil && *c.PlotComplex
}

// GetVerbose returns the verbose value or the default.
func (c *ViewerConfig) GetVerbose() bool {
	return c.Verbose != nil && *c.Verbose
}

// StatsOptions converts the config into statistics pipeline options.
// VMin and VMax stay nil when unset so that no absolute bound applies.
func (c *ViewerConfig) StatsOptions() (imagestats.Options, error) {
	bg, err := imagestats.ParseBackground(c.GetBackground())
	if err != nil {
		return imagestats.Options{}, err
	}
	opts := imagestats.DefaultOptions()
	opts.Background = bg
	opts.Min = c.VMin
	opts.Max = c.VMax
	opts.PctMin = c.GetPctMin()
	opts.PctMax = c.GetPctMax()
	opts.NBins = c.GetNBins()
	return opts, nil
}
