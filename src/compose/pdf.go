package compose

import (
	"fmt"
	"path/filepath"

	"github.com/phpdave11/gofpdf"
	"github.com/phpdave11/gofpdf/contrib/gofpdi"

	"github.com/cstarkjp/GMPLib/src/gmlog"
)

// pdfCombiner merges the first page of each source PDF onto one composite
// page, placed by template import. All dimensions are in points.
type pdfCombiner struct {
	layout Layout
}

type importedPage struct {
	tpl  int
	w, h float64
}

func (c *pdfCombiner) Combine(opts Options) error {
	if len(opts.Bundle) == 0 {
		gmlog.Debugf("compose: empty bundle for %q, nothing to combine", opts.OutName)
		return nil
	}
	pdf := gofpdf.NewCustom(&gofpdf.InitType{UnitStr: "pt"})
	pages := make([]importedPage, 0, len(opts.Bundle))
	for _, name := range opts.Bundle {
		path, err := sourcePath(opts, name)
		if err != nil {
			return err
		}
		tpl := gofpdi.ImportPage(pdf, path, 1, "/MediaBox")
		sizes := gofpdi.GetPageSizes()
		box, ok := sizes[1]["/MediaBox"]
		if !ok {
			return fmt.Errorf("compose: no MediaBox in %s", path)
		}
		pages = append(pages, importedPage{tpl: tpl, w: box["w"], h: box["h"]})
	}
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("compose: import pages for %q: %w", opts.OutName, err)
	}

	// Vertical spacing is halved, matching the raster/PDF spacing
	// relationship of the figure pipeline.
	spacing := float64(opts.Spacing)
	if c.layout == Vertical {
		spacing /= 2
	}
	var cw, ch float64
	for _, p := range pages {
		if c.layout == Vertical {
			if p.w > cw {
				cw = p.w
			}
			ch += p.h
		} else {
			if p.h > ch {
				ch = p.h
			}
			cw += p.w
		}
	}
	if c.layout == Vertical {
		ch += spacing * float64(len(pages)-1)
	} else {
		cw += spacing * float64(len(pages)-1)
	}

	pdf.AddPageFormat("P", gofpdf.SizeType{Wd: cw, Ht: ch})
	var xOffset, yOffset float64
	for _, p := range pages {
		x, y := xOffset, yOffset
		if c.layout == Vertical {
			if opts.AlignRight {
				x = cw - p.w
			}
			yOffset += p.h + spacing
		} else {
			if opts.AlignRight {
				y = ch - p.h
			}
			xOffset += p.w + spacing
		}
		gofpdi.UseImportedTemplate(pdf, p.tpl, x, y, p.w, p.h)
	}

	path := filepath.Join(opts.OutDir, opts.OutName+".pdf")
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("compose: write %s: %w", path, err)
	}
	gmlog.Infof("compose: wrote %q (%s, %d pages)", path, c.layout, len(pages))
	return nil
}
