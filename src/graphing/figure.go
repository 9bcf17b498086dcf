package graphing

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/cstarkjp/GMPLib/src/gmlog"
)

// Figure is one registered chart. The embedded go-chart Chart is exposed so
// client code can set axes, annotations, and any other chart property
// directly; this package fills in size, DPI, and series styling.
type Figure struct {
	Name  string
	Chart chart.Chart
}

// FigureOptions control figure geometry at creation time. Width and height
// are in inches, matching the figure-size convention of the plotting
// notebooks; pixels are derived from the Grapher DPI unless overridden.
type FigureOptions struct {
	WidthIn  float64
	HeightIn float64
	DPI      int
	Title    string
}

// NewFigure creates a figure, sizes it, and registers it under name. A
// duplicate name replaces the previous figure.
func (g *Grapher) NewFigure(name string, opts FigureOptions) *Figure {
	if opts.WidthIn <= 0 {
		opts.WidthIn = 8
	}
	if opts.HeightIn <= 0 {
		opts.HeightIn = 8
	}
	dpi := opts.DPI
	if dpi <= 0 {
		dpi = g.DPI
	}
	gmlog.Infof("graphing: creating figure %q size=%.3gx%.3gin @ %d dpi", name, opts.WidthIn, opts.HeightIn, dpi)
	fig := &Figure{
		Name: name,
		Chart: chart.Chart{
			Title:  opts.Title,
			Width:  int(opts.WidthIn * float64(dpi)),
			Height: int(opts.HeightIn * float64(dpi)),
			DPI:    float64(dpi),
			Background: chart.Style{
				Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 28},
			},
		},
	}
	if _, replaced := g.figures[name]; replaced {
		gmlog.Infof("graphing: figure %q replaced", name)
	} else {
		g.order = append(g.order, name)
	}
	g.figures[name] = fig
	return fig
}

// AddSeries appends a line series styled from the running cycle. A
// single-point series is padded to two points, which go-chart needs to
// establish an x-range.
func (g *Grapher) AddSeries(fig *Figure, name string, xs, ys []float64) {
	st := g.NextStyle()
	if len(xs) == 1 && len(ys) == 1 {
		xs = []float64{xs[0], xs[0] + 1}
		ys = []float64{ys[0], ys[0]}
	}
	fig.Chart.Series = append(fig.Chart.Series, chart.ContinuousSeries{
		Name:    name,
		XValues: xs,
		YValues: ys,
		Style:   st,
	})
}

// xRange returns the figure's x data range, from an explicit axis range if
// one is set, otherwise from the series values.
func (fig *Figure) xRange() (min, max float64, ok bool) {
	if r, isCont := fig.Chart.XAxis.Range.(*chart.ContinuousRange); isCont && r.Max > r.Min {
		return r.Min, r.Max, true
	}
	return seriesRange(fig.Chart.Series, false)
}

func (fig *Figure) yRange() (min, max float64, ok bool) {
	if r, isCont := fig.Chart.YAxis.Range.(*chart.ContinuousRange); isCont && r.Max > r.Min {
		return r.Min, r.Max, true
	}
	return seriesRange(fig.Chart.Series, true)
}

func seriesRange(series []chart.Series, vertical bool) (min, max float64, ok bool) {
	min, max = math.MaxFloat64, -math.MaxFloat64
	for _, s := range series {
		cs, isCont := s.(chart.ContinuousSeries)
		if !isCont {
			continue
		}
		values := cs.XValues
		if vertical {
			values = cs.YValues
		}
		for _, v := range values {
			if math.IsNaN(v) {
				continue
			}
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}
	if min >= max {
		return 0, 0, false
	}
	return min, max, true
}

// AspectRatio returns the figure's display ratio divided by its data ratio.
// A value of 1 means one data unit measures the same on both axes.
func (g *Grapher) AspectRatio(fig *Figure) (float64, error) {
	x0, x1, okX := fig.xRange()
	y0, y1, okY := fig.yRange()
	if !okX || !okY {
		return 0, fmt.Errorf("graphing: figure %q has no data range for aspect ratio", fig.Name)
	}
	dispRatio := float64(fig.Chart.Height) / float64(fig.Chart.Width)
	dataRatio := (y1 - y0) / (x1 - x0)
	return dispRatio / dataRatio, nil
}

// Naturalize adjusts the figure height so the axes are in "natural" units:
// one data unit spans the same number of pixels horizontally and
// vertically.
func (g *Grapher) Naturalize(fig *Figure) error {
	x0, x1, okX := fig.xRange()
	y0, y1, okY := fig.yRange()
	if !okX || !okY {
		return fmt.Errorf("graphing: figure %q has no data range to naturalize", fig.Name)
	}
	dataRatio := (y1 - y0) / (x1 - x0)
	h := int(math.Round(float64(fig.Chart.Width) * dataRatio))
	if h < 64 {
		h = 64
	}
	fig.Chart.Height = h
	return nil
}

// Stretch expands the figure's axis ranges by fractional margins: xs and ys
// are optional {low, high} pairs, each a fraction of the current range.
func (g *Grapher) Stretch(fig *Figure, xs, ys []float64) error {
	if xs != nil {
		if len(xs) != 2 {
			return fmt.Errorf("graphing: x stretch needs {low, high}, got %d values", len(xs))
		}
		x0, x1, ok := fig.xRange()
		if !ok {
			return fmt.Errorf("graphing: figure %q has no x range to stretch", fig.Name)
		}
		span := x1 - x0
		fig.Chart.XAxis.Range = &chart.ContinuousRange{Min: x0 - span*xs[0], Max: x1 + span*xs[1]}
	}
	if ys != nil {
		if len(ys) != 2 {
			return fmt.Errorf("graphing: y stretch needs {low, high}, got %d values", len(ys))
		}
		y0, y1, ok := fig.yRange()
		if !ok {
			return fmt.Errorf("graphing: figure %q has no y range to stretch", fig.Name)
		}
		span := y1 - y0
		fig.Chart.YAxis.Range = &chart.ContinuousRange{Min: y0 - span*ys[0], Max: y1 + span*ys[1]}
	}
	return nil
}

// Render rasterizes the figure to an image. On a chart render error (e.g.
// degenerate axis ranges) a blank canvas is returned so callers still get a
// usable image; decode failures are real errors.
func (g *Grapher) Render(fig *Figure) (image.Image, error) {
	var buf bytes.Buffer
	if err := fig.Chart.Render(chart.PNG, &buf); err != nil {
		gmlog.Errorf("graphing: render %q: %v; returning blank canvas", fig.Name, err)
		return Blank(fig.Chart.Width, fig.Chart.Height), nil
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("graphing: decode rendered %q: %w", fig.Name, err)
	}
	return img, nil
}

// RenderSVG renders the figure as SVG bytes.
func (g *Grapher) RenderSVG(fig *Figure) ([]byte, error) {
	var buf bytes.Buffer
	if err := fig.Chart.Render(chart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("graphing: render svg %q: %w", fig.Name, err)
	}
	return buf.Bytes(), nil
}

// Blank returns a white canvas of the given size.
func Blank(w, h int) image.Image {
	if w <= 0 {
		w = 800
	}
	if h <= 0 {
		h = 320
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img
}
