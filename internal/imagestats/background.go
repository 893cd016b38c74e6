package imagestats

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// BackgroundMode selects how the background value is obtained.
type BackgroundMode int

const (
	// BackgroundNone disables masking.
	BackgroundNone BackgroundMode = iota
	// BackgroundLiteral masks a fixed value.
	BackgroundLiteral
	// BackgroundAuto masks the most frequent value along the array border.
	BackgroundAuto
)

// Background is the background-value option.
type Background struct {
	Mode  BackgroundMode
	Value float64 // used by BackgroundLiteral only
}

// NoBackground disables masking.
func NoBackground() Background { return Background{Mode: BackgroundNone} }

// LiteralBackground masks samples equal to v. A NaN literal masks NaN samples.
func LiteralBackground(v float64) Background {
	return Background{Mode: BackgroundLiteral, Value: v}
}

// AutoBackground masks the edge mode.
func AutoBackground() Background { return Background{Mode: BackgroundAuto} }

// ParseBackground parses the command-line form: empty or "none", "auto", or
// a number (including "nan").
func ParseBackground(s string) (Background, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "none":
		return NoBackground(), nil
	case "auto":
		return AutoBackground(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Background{}, &InvalidOptionsError{Field: "background", Reason: fmt.Sprintf("%q is neither a number nor \"auto\"", s)}
	}
	return LiteralBackground(v), nil
}

func (b Background) String() string {
	switch b.Mode {
	case BackgroundLiteral:
		return strconv.FormatFloat(b.Value, 'g', -1, 64)
	case BackgroundAuto:
		return "auto"
	default:
		return "none"
	}
}

// Resolve returns the background value for m, or false when masking is
// disabled.
func (b Background) Resolve(m *mat.Dense) (float64, bool) {
	switch b.Mode {
	case BackgroundLiteral:
		return b.Value, true
	case BackgroundAuto:
		return EdgeMode(m), true
	default:
		return 0, false
	}
}

// EdgeValues returns the first row, last row, first column and last column
// of m concatenated in that order. Corner samples appear twice.
func EdgeValues(m *mat.Dense) []float64 {
	r, c := m.Dims()
	out := make([]float64, 0, 2*r+2*c)
	for j := 0; j < c; j++ {
		out = append(out, m.At(0, j))
	}
	for j := 0; j < c; j++ {
		out = append(out, m.At(r-1, j))
	}
	for i := 0; i < r; i++ {
		out = append(out, m.At(i, 0))
	}
	for i := 0; i < r; i++ {
		out = append(out, m.At(i, c-1))
	}
	return out
}

// EdgeMode returns the most frequent border value of m. Ties go to the
// smallest value. NaN border samples are only returned when the whole border
// is NaN.
func EdgeMode(m *mat.Dense) float64 {
	return modeOf(EdgeValues(m))
}

func modeOf(values []float64) float64 {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return math.NaN()
	}
	sort.Float64s(finite)

	best, bestCount := finite[0], 0
	for i := 0; i < len(finite); {
		j := i + 1
		for j < len(finite) && finite[j] == finite[i] {
			j++
		}
		if j-i > bestCount {
			best, bestCount = finite[i], j-i
		}
		i = j
	}
	return best
}

// Mask flags background samples. A nil *Mask masks nothing.
type Mask struct {
	rows, cols int
	bits       []bool
}

// NewMask flags every sample of m matching bg.
func NewMask(m *mat.Dense, bg float64) *Mask {
	r, c := m.Dims()
	mask := &Mask{rows: r, cols: c, bits: make([]bool, r*c)}
	nanBg := math.IsNaN(bg)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := m.At(i, j)
			if v == bg || (nanBg && math.IsNaN(v)) {
				mask.bits[i*c+j] = true
			}
		}
	}
	return mask
}

// Dims returns the mask shape.
func (m *Mask) Dims() (rows, cols int) {
	if m == nil {
		return 0, 0
	}
	return m.rows, m.cols
}

// At reports whether sample (i, j) is background.
func (m *Mask) At(i, j int) bool {
	if m == nil {
		return false
	}
	return m.bits[i*m.cols+j]
}

// Count returns the number of masked samples.
func (m *Mask) Count() int {
	if m == nil {
		return 0
	}
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}
