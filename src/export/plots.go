package export

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/phpdave11/gofpdf"

	"github.com/cstarkjp/GMPLib/src/gmlog"
	"github.com/cstarkjp/GMPLib/src/graphing"
)

// ExportPlots renders every registered figure to each of the requested file
// types under dir. File types: png, jpg, svg, pdf.
func ExportPlots(g *graphing.Grapher, dir string, fileTypes []string, suffix string) error {
	gmlog.Infof("export: writing figures to %q", dir)
	for _, fileType := range fileTypes {
		for _, name := range g.FigureNames() {
			if _, err := ExportPlot(g, g.Figure(name), dir, fileType, suffix); err != nil {
				return err
			}
		}
	}
	return nil
}

// ExportPlot renders one figure to <name><suffix>.<type> under dir and
// returns the written path.
func ExportPlot(g *graphing.Grapher, fig *graphing.Figure, dir, fileType, suffix string) (string, error) {
	fileType = strings.ToLower(strings.TrimPrefix(fileType, "."))
	path := filepath.Join(dir, fig.Name+suffix+"."+fileType)
	var data []byte
	switch fileType {
	case "png":
		b, err := renderPNG(g, fig)
		if err != nil {
			return "", err
		}
		data = b
	case "jpg", "jpeg":
		img, err := g.Render(fig)
		if err != nil {
			return "", err
		}
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
			return "", fmt.Errorf("encode jpeg %s: %w", path, err)
		}
		data = buf.Bytes()
	case "svg":
		b, err := g.RenderSVG(fig)
		if err != nil {
			return "", err
		}
		data = b
	case "pdf":
		b, err := renderPDF(g, fig)
		if err != nil {
			return "", err
		}
		data = b
	default:
		return "", fmt.Errorf("export: unsupported figure file type %q", fileType)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write figure %s: %w", path, err)
	}
	gmlog.Infof("export: exported %q", path)
	return path, nil
}

func renderPNG(g *graphing.Grapher, fig *graphing.Figure) ([]byte, error) {
	img, err := g.Render(fig)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png for figure %q: %w", fig.Name, err)
	}
	return buf.Bytes(), nil
}

// renderPDF wraps the PNG rendering of the figure in a single PDF page
// sized to the figure's physical dimensions (pixels at the chart DPI).
func renderPDF(g *graphing.Grapher, fig *graphing.Figure) ([]byte, error) {
	pngBytes, err := renderPNG(g, fig)
	if err != nil {
		return nil, err
	}
	dpi := fig.Chart.DPI
	if dpi <= 0 {
		dpi = float64(g.DPI)
	}
	// PDF user space is 72 points per inch.
	wPt := float64(fig.Chart.Width) * 72 / dpi
	hPt := float64(fig.Chart.Height) * 72 / dpi
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: wPt, Ht: hPt},
	})
	pdf.AddPage()
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(fig.Name, opts, bytes.NewReader(pngBytes))
	pdf.ImageOptions(fig.Name, 0, 0, wPt, hPt, false, opts, 0, "")
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf for figure %q: %w", fig.Name, err)
	}
	return buf.Bytes(), nil
}
