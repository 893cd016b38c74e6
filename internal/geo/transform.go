// Package geo maps between raster pixel indices and geographic coordinates
// using a north-up affine geotransform, and derives raster extents.
package geo

import (
	"fmt"
	"math"
)

// snapTolerance is the relative distance from an integer within which a
// pixel quotient is treated as that integer. Without it, float rounding in
// (x-origin)/step can land a hair below an exact pixel index and floor to the
// neighbouring pixel.
const snapTolerance = 1e-9

// InvalidTransformError reports a degenerate affine transform.
type InvalidTransformError struct {
	PixelWidth  float64
	PixelHeight float64
}

func (e *InvalidTransformError) Error() string {
	return fmt.Sprintf("invalid geotransform: pixel size must be non-zero (width=%g, height=%g)", e.PixelWidth, e.PixelHeight)
}

// AffineTransform is the scale+offset subset of a GDAL geotransform.
// PixelHeight is usually negative for north-up rasters.
type AffineTransform struct {
	OriginX     float64
	PixelWidth  float64
	OriginY     float64
	PixelHeight float64
}

// NewAffineTransform validates and returns a transform.
func NewAffineTransform(originX, pixelWidth, originY, pixelHeight float64) (AffineTransform, error) {
	t := AffineTransform{
		OriginX:     originX,
		PixelWidth:  pixelWidth,
		OriginY:     originY,
		PixelHeight: pixelHeight,
	}
	if err := t.Validate(); err != nil {
		return AffineTransform{}, err
	}
	return t, nil
}

// FromGDAL builds a transform from a GDAL 6-element geotransform
// (originX, pixelWidth, rotX, originY, rotY, pixelHeight). The rotation terms
// are ignored.
func FromGDAL(gt [6]float64) (AffineTransform, error) {
	return NewAffineTransform(gt[0], gt[1], gt[3], gt[5])
}

// GDAL returns the transform as a GDAL 6-element geotransform with zero
// rotation terms.
func (t AffineTransform) GDAL() [6]float64 {
	return [6]float64{t.OriginX, t.PixelWidth, 0, t.OriginY, 0, t.PixelHeight}
}

// Validate returns an *InvalidTransformError if either pixel step is zero
// or not finite.
func (t AffineTransform) Validate() error {
	if t.PixelWidth == 0 || t.PixelHeight == 0 ||
		math.IsNaN(t.PixelWidth) || math.IsNaN(t.PixelHeight) ||
		math.IsInf(t.PixelWidth, 0) || math.IsInf(t.PixelHeight, 0) {
		return &InvalidTransformError{PixelWidth: t.PixelWidth, PixelHeight: t.PixelHeight}
	}
	return nil
}

// PixelToCoords maps a (possibly fractional or out-of-raster) pixel index to
// map coordinates.
func PixelToCoords(t AffineTransform, px, py float64) (x, y float64) {
	x = t.OriginX + px*t.PixelWidth
	y = t.OriginY + py*t.PixelHeight
	return x, y
}

// CoordsToPixel maps map coordinates to the index of the pixel containing
// them. Coordinates left of or above the origin give negative indices.
func CoordsToPixel(t AffineTransform, x, y float64) (px, py int, err error) {
	if err := t.Validate(); err != nil {
		return 0, 0, err
	}
	px = pixelIndex(x, t.OriginX, t.PixelWidth)
	py = pixelIndex(y, t.OriginY, t.PixelHeight)
	return px, py, nil
}

func pixelIndex(coord, origin, step float64) int {
	q := (coord - origin) / step
	r := math.Round(q)
	// coord carries about one ulp of rounding from origin+index*step, which
	// is ulp/|step| pixels once divided.
	tol := snapTolerance*math.Max(1, math.Abs(r)) +
		4*ulp(math.Max(math.Abs(coord), math.Abs(origin)))/math.Abs(step)
	if math.Abs(q-r) <= tol {
		return int(r)
	}
	return int(math.Floor(q))
}

func ulp(v float64) float64 {
	return math.Nextafter(v, math.Inf(1)) - v
}
