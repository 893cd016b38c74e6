package render

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/banshee-data/mapshow/internal/fsutil"
)

// Formats accepted by draw.NewFormattedCanvas.
var formats = map[string]bool{
	"eps": true, "jpg": true, "jpeg": true, "pdf": true, "png": true,
	"svg": true, "tex": true, "tif": true, "tiff": true,
}

// FormatFromPath returns the image format implied by path's extension.
// A path without an extension is rendered as png.
func FormatFromPath(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return "png", nil
	}
	if !formats[ext] {
		return "", fmt.Errorf("unsupported image format %q for %s", ext, path)
	}
	return ext, nil
}

// Save writes a rendered image or page to path in fsys.
func Save(fsys fsutil.FileSystem, path string, out io.WriterTo) error {
	return fsutil.WriteTo(fsys, path, out)
}
