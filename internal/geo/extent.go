package geo

import (
	"fmt"
	"math"
)

// Extent is a geographically ordered bounding box. XMin <= XMax and
// YMin <= YMax regardless of the sign of the pixel steps.
type Extent struct {
	XMin float64 `json:"xmin"`
	XMax float64 `json:"xmax"`
	YMin float64 `json:"ymin"`
	YMax float64 `json:"ymax"`
}

// Width returns XMax-XMin.
func (e Extent) Width() float64 { return e.XMax - e.XMin }

// Height returns YMax-YMin.
func (e Extent) Height() float64 { return e.YMax - e.YMin }

func (e Extent) String() string {
	return fmt.Sprintf("(%g, %g, %g, %g)", e.XMin, e.XMax, e.YMin, e.YMax)
}

// ComputeExtent returns the normalised extent of a rows x cols raster.
func ComputeExtent(t AffineTransform, rows, cols int) Extent {
	xEnd := t.OriginX + float64(cols)*t.PixelWidth
	yEnd := t.OriginY + float64(rows)*t.PixelHeight
	return Extent{
		XMin: math.Min(t.OriginX, xEnd),
		XMax: math.Max(t.OriginX, xEnd),
		YMin: math.Min(t.OriginY, yEnd),
		YMax: math.Max(t.OriginY, yEnd),
	}
}

// Source is anything that can describe a raster's georeferencing, typically
// an open dataset handle.
type Source interface {
	GeoTransform() (AffineTransform, error)
	Shape() (rows, cols int)
}

// Grid bundles a transform with a raster shape and its derived extent.
type Grid struct {
	Transform AffineTransform
	Rows      int
	Cols      int
	Extent    Extent
}

// NewGrid builds a Grid from an already decoded transform and shape.
func NewGrid(t AffineTransform, rows, cols int) (Grid, error) {
	if err := t.Validate(); err != nil {
		return Grid{}, err
	}
	if rows <= 0 || cols <= 0 {
		return Grid{}, fmt.Errorf("invalid raster shape %dx%d", rows, cols)
	}
	return Grid{
		Transform: t,
		Rows:      rows,
		Cols:      cols,
		Extent:    ComputeExtent(t, rows, cols),
	}, nil
}

// GridFromSource fetches the transform and shape from src.
func GridFromSource(src Source) (Grid, error) {
	t, err := src.GeoTransform()
	if err != nil {
		return Grid{}, fmt.Errorf("read geotransform: %w", err)
	}
	rows, cols := src.Shape()
	return NewGrid(t, rows, cols)
}

// End returns the raw right and bottom edges, before normalisation.
func (g Grid) End() (xEnd, yEnd float64) {
	return PixelToCoords(g.Transform, float64(g.Cols), float64(g.Rows))
}

// Bounds returns the extent as [xmin, ymin, xmax, ymax].
func (g Grid) Bounds() [4]float64 {
	return [4]float64{g.Extent.XMin, g.Extent.YMin, g.Extent.XMax, g.Extent.YMax}
}

// PixelCenter returns the map coordinates of the centre of pixel (col, row).
func (g Grid) PixelCenter(col, row int) (x, y float64) {
	return PixelToCoords(g.Transform, float64(col)+0.5, float64(row)+0.5)
}

// Contains reports whether the pixel containing (x, y) lies inside the raster.
func (g Grid) Contains(x, y float64) bool {
	px, py, err := CoordsToPixel(g.Transform, x, y)
	if err != nil {
		return false
	}
	return px >= 0 && px < g.Cols && py >= 0 && py < g.Rows
}
