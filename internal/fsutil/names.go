package fsutil

import (
	"path/filepath"
	"strings"
)

// maxNameLen bounds names derived from input files.
const maxNameLen = 128

// SanitizeName reduces s to ASCII letters, digits, '.', '_' and '-', with
// each run of other characters collapsed to one underscore. Leading and
// trailing dots and underscores are trimmed; an empty result is "raster".
func SanitizeName(s string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range s {
		if b.Len() >= maxNameLen {
			break
		}
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'),
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
			lastUnderscore = r == '_'
		case !lastUnderscore:
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "raster"
	}
	return out
}

// DerivedPath names an output file after input: the base name without its
// extension, sanitised, followed by suffix (for example "_hist.png"). The
// result is relative to the working directory.
func DerivedPath(input, suffix string) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return SanitizeName(base) + suffix
}
