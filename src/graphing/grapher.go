// Package graphing wraps go-chart figure construction for the GMPLib
// tooling: a named figure registry, color/marker/linestyle cycling, and
// derived figure geometry (aspect ratio, naturalization, axis stretching).
//
// Chart drawing itself is entirely delegated to
// github.com/wcharczuk/go-chart/v2; this package only manages figures and
// their styling.
package graphing

import (
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/cstarkjp/GMPLib/src/gmlog"
)

// Marker identifies a point glyph for a series. go-chart renders points as
// dots, so each named marker carries the dot width used to keep series
// visually distinct.
type Marker struct {
	Name     string
	DotWidth float64
}

// tab10 palette, same ordering as the usual matplotlib property cycle.
var defaultColors = []drawing.Color{
	drawing.ColorFromHex("1f77b4"),
	drawing.ColorFromHex("ff7f0e"),
	drawing.ColorFromHex("2ca02c"),
	drawing.ColorFromHex("d62728"),
	drawing.ColorFromHex("9467bd"),
	drawing.ColorFromHex("8c564b"),
	drawing.ColorFromHex("e377c2"),
	drawing.ColorFromHex("7f7f7f"),
	drawing.ColorFromHex("bcbd22"),
	drawing.ColorFromHex("17becf"),
}

var defaultMarkers = []Marker{
	{"circle", 4},
	{"square", 5},
	{"triangle-down", 4},
	{"pentagon", 5},
	{"star", 6},
	{"diamond", 5},
	{"x", 4},
	{"triangle-up", 4},
	{"hexagon", 5},
	{"plus", 4},
}

// Dash patterns: solid, dashdot, dashed, custom dashed.
var defaultLineStyles = [][]float64{
	nil,
	{5, 2, 1, 2},
	{5, 5},
	{3, 1, 1, 1},
}

// Grapher is the figure registry and style cycler. Not safe for concurrent
// use; client code is notebook-style and single threaded.
type Grapher struct {
	DPI      int
	FontSize float64

	order   []string
	figures map[string]*Figure

	colors     []drawing.Color
	markers    []Marker
	lineStyles [][]float64
	cycleIdx   int
}

// New returns a Grapher with the given rasterization DPI and general font
// size in points.
func New(dpi int, fontSize float64) *Grapher {
	if dpi <= 0 {
		dpi = 100
	}
	if fontSize <= 0 {
		fontSize = 11
	}
	if _, err := chart.GetDefaultFont(); err != nil {
		gmlog.Warnf("graphing: default font unavailable, falling back to renderer default: %v", err)
	}
	return &Grapher{
		DPI:        dpi,
		FontSize:   fontSize,
		figures:    map[string]*Figure{},
		colors:     defaultColors,
		markers:    defaultMarkers,
		lineStyles: defaultLineStyles,
	}
}

// Color returns the i-th palette color, wrapping modulo the palette size.
func (g *Grapher) Color(i int) drawing.Color { return g.colors[mod(i, len(g.colors))] }

// Marker returns the i-th marker, wrapping modulo the marker list size.
func (g *Grapher) Marker(i int) Marker { return g.markers[mod(i, len(g.markers))] }

// LineStyle returns the i-th stroke dash pattern (nil means solid).
func (g *Grapher) LineStyle(i int) []float64 { return g.lineStyles[mod(i, len(g.lineStyles))] }

// NColors returns the palette size.
func (g *Grapher) NColors() int { return len(g.colors) }

// NMarkers returns the marker list size.
func (g *Grapher) NMarkers() int { return len(g.markers) }

// NextStyle returns a series style from the running cycle position and
// advances the cycle.
func (g *Grapher) NextStyle() chart.Style {
	st := g.SeriesStyle(g.cycleIdx)
	g.cycleIdx++
	return st
}

// ResetCycle rewinds the running style cycle to the first entry.
func (g *Grapher) ResetCycle() { g.cycleIdx = 0 }

// SeriesStyle builds a go-chart style for the i-th series: i-th color,
// marker dot width, and dash pattern.
func (g *Grapher) SeriesStyle(i int) chart.Style {
	col := g.Color(i)
	return chart.Style{
		StrokeColor:     col,
		StrokeWidth:     1.5,
		StrokeDashArray: g.LineStyle(i),
		DotColor:        col,
		DotWidth:        g.Marker(i).DotWidth,
	}
}

// FigureNames returns registered figure names in creation order.
func (g *Grapher) FigureNames() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Figure returns the named figure, or nil if absent.
func (g *Grapher) Figure(name string) *Figure { return g.figures[name] }

func mod(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
