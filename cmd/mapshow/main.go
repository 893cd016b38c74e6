// Command mapshow renders one band of a georeferenced raster with a
// percentile-clipped colour scale and, optionally, its histogram.
package main

import (
	"fmt"
	"os"

	"github.com/banshee-data/mapshow/internal/fsutil"
	"github.com/banshee-data/mapshow/internal/raster"
)

func main() {
	cmd := newRootCmd(fsutil.OSFileSystem{}, raster.Open)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
