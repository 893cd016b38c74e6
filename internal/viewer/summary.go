package viewer

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/banshee-data/mapshow/internal/fsutil"
	"github.com/banshee-data/mapshow/internal/geo"
	"github.com/banshee-data/mapshow/internal/imagestats"
	"github.com/banshee-data/mapshow/internal/version"
)

// Summary is the JSON record of one run.
type Summary struct {
	RunID       string                  `json:"run_id"`
	Version     string                  `json:"version"`
	Image       string                  `json:"image"`
	Bands       int                     `json:"bands"`
	Band        int                     `json:"band"`
	Kind        string                  `json:"kind"`
	Rows        int                     `json:"rows"`
	Cols        int                     `json:"cols"`
	Extent      geo.Extent              `json:"extent"`
	PixelWidth  float64                 `json:"pixel_width"`
	PixelHeight float64                 `json:"pixel_height"`
	Stride      int                     `json:"stride"`
	Background  *float64                `json:"background,omitempty"`
	Range       imagestats.DisplayRange `json:"range"`
	Counts      imagestats.StageCounts  `json:"counts"`
	Population  imagestats.Summary      `json:"population"`
	Histogram   imagestats.Histogram    `json:"histogram"`
}

// NewRunID returns a fresh identifier for a run summary.
func NewRunID() string {
	return uuid.NewString()
}

// Summary builds the JSON record of r. A NaN or infinite background cannot
// be encoded in JSON and is left out.
func (r *Result) Summary(runID string) Summary {
	s := Summary{
		RunID:       runID,
		Version:     version.Version,
		Image:       r.Dataset.Name,
		Bands:       r.Dataset.Bands,
		Band:        r.Band,
		Kind:        r.Stats.Kind.String(),
		Rows:        r.Dataset.Grid.Rows,
		Cols:        r.Dataset.Grid.Cols,
		Extent:      r.Dataset.Grid.Extent,
		PixelWidth:  r.Dataset.PixelWidth,
		PixelHeight: r.Dataset.PixelHeight,
		Stride:      r.Stride,
		Range:       r.Stats.Range,
		Counts:      r.Stats.Counts,
		Population:  imagestats.Summarize(r.Stats.Population),
		Histogram:   r.Stats.Histogram,
	}
	if r.Stats.HasBackground && !math.IsNaN(r.Stats.Background) && !math.IsInf(r.Stats.Background, 0) {
		bg := r.Stats.Background
		s.Background = &bg
	}
	return s
}

// WriteSummary writes s as indented JSON to path in fsys.
func WriteSummary(fsys fsutil.FileSystem, path string, s Summary) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	return fsutil.WriteBytes(fsys, path, append(data, '\n'))
}
