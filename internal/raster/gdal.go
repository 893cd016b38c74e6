//go:build gdal
// +build gdal

package raster

import (
	"fmt"
	"sync"

	"github.com/airbusgeo/godal"
	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/mapshow/internal/geo"
	"github.com/banshee-data/mapshow/internal/imagestats"
	"github.com/banshee-data/mapshow/internal/monitoring"
)

var registerDrivers sync.Once

// identityGeoTransform is what GDAL reports for rasters with no
// georeferencing: pixel coordinates, y increasing downwards.
var identityGeoTransform = [6]float64{0, 1, 0, 0, 0, 1}

type gdalDataset struct {
	path string
	ds   *godal.Dataset
}

// Open opens path read-only through GDAL.
// This function is only available when building with the 'gdal' build tag.
func Open(path string) (Dataset, error) {
	registerDrivers.Do(godal.RegisterAll)

	ds, err := godal.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open raster %s: %w", path, err)
	}
	return &gdalDataset{path: path, ds: ds}, nil
}

func (d *gdalDataset) Description() string { return d.path }

func (d *gdalDataset) RasterCount() int {
	return d.ds.Structure().NBands
}

func (d *gdalDataset) Shape() (int, int) {
	st := d.ds.Structure()
	return st.SizeY, st.SizeX
}

func (d *gdalDataset) GeoTransform() (geo.AffineTransform, error) {
	gt, err := d.ds.GeoTransform()
	if err != nil {
		monitoring.Logf("%s has no geotransform (%v); using pixel coordinates", d.path, err)
		gt = identityGeoTransform
	}
	if gt[2] != 0 || gt[4] != 0 {
		monitoring.Logf("%s: ignoring geotransform rotation terms (%g, %g)", d.path, gt[2], gt[4])
	}
	return geo.FromGDAL(gt)
}

func (d *gdalDataset) ReadBand(index int) (imagestats.Sample, error) {
	bands := d.ds.Bands()
	if err := CheckBand(index, len(bands)); err != nil {
		return imagestats.Sample{}, err
	}
	band := bands[index-1]
	st := band.Structure()
	w, h := st.SizeX, st.SizeY

	switch st.DataType {
	case godal.CInt16, godal.CInt32, godal.CFloat32, godal.CFloat64:
		buf := make([]complex128, w*h)
		if err := band.Read(0, 0, buf, w, h); err != nil {
			return imagestats.Sample{}, fmt.Errorf("read band %d of %s: %w", index, d.path, err)
		}
		return imagestats.NewComplexSample(mat.NewCDense(h, w, buf)), nil
	default:
		buf := make([]float64, w*h)
		if err := band.Read(0, 0, buf, w, h); err != nil {
			return imagestats.Sample{}, fmt.Errorf("read band %d of %s: %w", index, d.path, err)
		}
		return imagestats.NewRealSample(mat.NewDense(h, w, buf)), nil
	}
}

func (d *gdalDataset) Close() error {
	if err := d.ds.Close(); err != nil {
		return fmt.Errorf("failed to close raster %s: %w", d.path, err)
	}
	return nil
}
