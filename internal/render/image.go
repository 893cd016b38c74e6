package render

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/mapshow/internal/geo"
	"github.com/banshee-data/mapshow/internal/viewer"
)

// colorBarFraction is the share of the image height given to the colour bar.
const colorBarFraction = 0.2

// ImageOptions controls ImagePlot.
type ImageOptions struct {
	Title    string
	ColorMap string
	Width    vg.Length
	Height   vg.Length
	// Format is an image format accepted by FormatFromPath, png if empty.
	Format string
}

// DefaultImageOptions returns an 8x6 inch png with the default colour map.
func DefaultImageOptions() ImageOptions {
	return ImageOptions{
		ColorMap: DefaultColorMap,
		Width:    8 * vg.Inch,
		Height:   6 * vg.Inch,
		Format:   "png",
	}
}

// rasterGrid adapts a downsampled display array to plotter.GridXYZ. Column
// and row indices of the grid increase with x and y, so north-up rasters
// are read bottom row first.
type rasterGrid struct {
	z      *mat.Dense
	t      geo.AffineTransform
	stride int
}

func (g rasterGrid) Dims() (c, r int) {
	r, c = g.z.Dims()
	return c, r
}

func (g rasterGrid) col(c int) int {
	if g.t.PixelWidth < 0 {
		_, cols := g.z.Dims()
		return cols - 1 - c
	}
	return c
}

func (g rasterGrid) row(r int) int {
	if g.t.PixelHeight < 0 {
		rows, _ := g.z.Dims()
		return rows - 1 - r
	}
	return r
}

func (g rasterGrid) Z(c, r int) float64 { return g.z.At(g.row(r), g.col(c)) }

// X returns the centre of the block of full-resolution pixels sampled for
// display column c.
func (g rasterGrid) X(c int) float64 {
	x, _ := geo.PixelToCoords(g.t, g.blockCentre(g.col(c)), 0)
	return x
}

func (g rasterGrid) Y(r int) float64 {
	_, y := geo.PixelToCoords(g.t, 0, g.blockCentre(g.row(r)))
	return y
}

func (g rasterGrid) blockCentre(i int) float64 {
	return float64(i*g.stride) + float64(g.stride)/2
}

// ImagePlot draws the display array of res on its geographic extent,
// clipped to the display range, with a horizontal colour bar below.
// Background pixels are left transparent.
func ImagePlot(res *viewer.Result, opts ImageOptions) (io.WriterTo, error) {
	if res == nil || res.Display == nil {
		return nil, fmt.Errorf("render: nothing to draw")
	}
	if opts.Format == "" {
		opts.Format = "png"
	}

	cmap, err := ColorMapByName(opts.ColorMap)
	if err != nil {
		return nil, err
	}
	vmin, vmax := res.Stats.Range.VMin, res.Stats.Range.VMax
	if vmin == vmax {
		vmin, vmax = vmin-0.5, vmax+0.5
	}
	cmap.SetMax(vmax)
	cmap.SetMin(vmin)

	pal := cmap.Palette(255)
	colors := pal.Colors()

	heat := plotter.NewHeatMap(rasterGrid{z: res.Display, t: res.Dataset.Grid.Transform, stride: res.Stride}, pal)
	heat.Min, heat.Max = vmin, vmax
	heat.Underflow = colors[0]
	heat.Overflow = colors[len(colors)-1]
	heat.NaN = color.Transparent

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"
	p.Add(heat)
	ext := res.Dataset.Grid.Extent
	p.X.Min, p.X.Max = ext.XMin, ext.XMax
	p.Y.Min, p.Y.Max = ext.YMin, ext.YMax

	bar := plot.New()
	bar.HideY()
	bar.X.Padding = 0
	bar.X.Label.Text = res.Stats.Kind.String()
	bar.Add(&plotter.ColorBar{ColorMap: cmap})

	c, err := draw.NewFormattedCanvas(opts.Width, opts.Height, opts.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s canvas: %w", opts.Format, err)
	}
	dc := draw.New(c)
	barHeight := vg.Length(colorBarFraction) * opts.Height
	p.Draw(draw.Crop(dc, 0, 0, barHeight, 0))
	bar.Draw(draw.Crop(dc, 0, 0, 0, barHeight-opts.Height))
	return c, nil
}
