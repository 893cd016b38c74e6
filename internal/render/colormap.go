// Package render draws mapshow results with gonum/plot and go-echarts.
package render

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
)

// DefaultColorMap is used when no colour map is named.
const DefaultColorMap = "extended-kindlmann"

var colorMaps = map[string]func() palette.ColorMap{
	"kindlmann":          moreland.Kindlmann,
	"extended-kindlmann": moreland.ExtendedKindlmann,
	"blackbody":          moreland.BlackBody,
	"extended-blackbody": moreland.ExtendedBlackBody,
	"smooth-blue-red": func() palette.ColorMap {
		return moreland.SmoothBlueRed()
	},
}

// ColorMapNames lists the accepted colour map names in order.
func ColorMapNames() []string {
	names := make([]string, 0, len(colorMaps))
	for name := range colorMaps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ColorMapByName returns a fresh colour map. Names are case-insensitive and
// "" selects DefaultColorMap.
func ColorMapByName(name string) (palette.ColorMap, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = DefaultColorMap
	}
	newMap, ok := colorMaps[key]
	if !ok {
		return nil, fmt.Errorf("unknown colour map %q (want one of %s)", name, strings.Join(ColorMapNames(), ", "))
	}
	return newMap(), nil
}
