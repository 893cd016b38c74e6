// Package raster reads bands and georeferencing from raster datasets.
package raster

import (
	"fmt"

	"github.com/banshee-data/mapshow/internal/geo"
	"github.com/banshee-data/mapshow/internal/imagestats"
)

// Dataset is an open raster. Callers must Close it once the transform,
// shape and band data have been read.
type Dataset interface {
	geo.Source
	// RasterCount returns the number of bands.
	RasterCount() int
	// ReadBand reads the 1-based band index in full.
	ReadBand(index int) (imagestats.Sample, error)
	// Description names the dataset for reports, usually its path.
	Description() string
	Close() error
}

// UnsupportedBandIndexError reports a band index outside [1, Count].
type UnsupportedBandIndexError struct {
	Index int
	Count int
}

func (e *UnsupportedBandIndexError) Error() string {
	return fmt.Sprintf("band %d out of range: dataset has %d band(s)", e.Index, e.Count)
}

// CheckBand validates a 1-based band index.
func CheckBand(index, count int) error {
	if index < 1 || index > count {
		return &UnsupportedBandIndexError{Index: index, Count: count}
	}
	return nil
}

// MemoryDataset is an in-memory Dataset.
type MemoryDataset struct {
	name      string
	transform geo.AffineTransform
	rows      int
	cols      int
	bands     []imagestats.Sample
	closed    bool
}

// NewMemoryDataset builds a dataset from bands that all share one shape.
func NewMemoryDataset(t geo.AffineTransform, bands ...imagestats.Sample) (*MemoryDataset, error) {
	if len(bands) == 0 {
		return nil, fmt.Errorf("memory dataset needs at least one band")
	}
	rows, cols := bands[0].Dims()
	for i, b := range bands[1:] {
		if r, c := b.Dims(); r != rows || c != cols {
			return nil, fmt.Errorf("band %d is %dx%d, band 1 is %dx%d", i+2, r, c, rows, cols)
		}
	}
	return &MemoryDataset{name: "memory", transform: t, rows: rows, cols: cols, bands: bands}, nil
}

// SetDescription overrides the name returned by Description.
func (m *MemoryDataset) SetDescription(name string) { m.name = name }

// Description returns the dataset name.
func (m *MemoryDataset) Description() string { return m.name }

// GeoTransform returns the dataset transform.
func (m *MemoryDataset) GeoTransform() (geo.AffineTransform, error) {
	return m.transform, m.transform.Validate()
}

// Shape returns (rows, cols).
func (m *MemoryDataset) Shape() (int, int) { return m.rows, m.cols }

// RasterCount returns the number of bands.
func (m *MemoryDataset) RasterCount() int { return len(m.bands) }

// ReadBand returns band index (1-based).
func (m *MemoryDataset) ReadBand(index int) (imagestats.Sample, error) {
	if m.closed {
		return imagestats.Sample{}, fmt.Errorf("read band %d: dataset closed", index)
	}
	if err := CheckBand(index, len(m.bands)); err != nil {
		return imagestats.Sample{}, err
	}
	return m.bands[index-1], nil
}

// Close marks the dataset closed.
func (m *MemoryDataset) Close() error {
	m.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (m *MemoryDataset) Closed() bool { return m.closed }
