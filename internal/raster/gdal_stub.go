//go:build !gdal
// +build !gdal

package raster

import "fmt"

// Open is a stub implementation when GDAL support is disabled.
// Build with -tags=gdal to enable raster file reading.
func Open(path string) (Dataset, error) {
	return nil, fmt.Errorf("GDAL support not enabled: rebuild with -tags=gdal to open %s", path)
}
