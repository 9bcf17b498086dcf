package compose

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/cstarkjp/GMPLib/src/gmlog"
)

// rasterCombiner pastes raster images onto a single white canvas.
type rasterCombiner struct {
	layout Layout
}

func (c *rasterCombiner) Combine(opts Options) error {
	if len(opts.Bundle) == 0 {
		gmlog.Debugf("compose: empty bundle for %q, nothing to combine", opts.OutName)
		return nil
	}
	images, err := c.load(opts)
	if err != nil {
		return err
	}
	var combo *image.RGBA
	if c.layout == Vertical {
		combo = pasteVertically(images, opts.Spacing, opts.AlignRight)
	} else {
		combo = pasteHorizontally(images, opts.Spacing, opts.AlignRight)
	}
	return c.save(combo, opts)
}

func (c *rasterCombiner) load(opts Options) ([]image.Image, error) {
	images := make([]image.Image, 0, len(opts.Bundle))
	for _, name := range opts.Bundle {
		path, err := sourcePath(opts, name)
		if err != nil {
			return nil, err
		}
		img, err := loadImage(path)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

func pasteVertically(images []image.Image, spacing int, alignRight bool) *image.RGBA {
	xSize := 0
	ySize := spacing * (len(images) - 1)
	for _, img := range images {
		b := img.Bounds()
		if b.Dx() > xSize {
			xSize = b.Dx()
		}
		ySize += b.Dy()
	}
	combo := whiteCanvas(xSize, ySize)
	yOffset := 0
	for _, img := range images {
		b := img.Bounds()
		xOffset := 0
		if alignRight {
			xOffset = xSize - b.Dx()
		}
		r := image.Rect(xOffset, yOffset, xOffset+b.Dx(), yOffset+b.Dy())
		draw.Draw(combo, r, img, b.Min, draw.Over)
		yOffset += b.Dy() + spacing
	}
	return combo
}

func pasteHorizontally(images []image.Image, spacing int, alignBottom bool) *image.RGBA {
	ySize := 0
	xSize := spacing * (len(images) - 1)
	for _, img := range images {
		b := img.Bounds()
		if b.Dy() > ySize {
			ySize = b.Dy()
		}
		xSize += b.Dx()
	}
	combo := whiteCanvas(xSize, ySize)
	xOffset := 0
	for _, img := range images {
		b := img.Bounds()
		yOffset := 0
		if alignBottom {
			yOffset = ySize - b.Dy()
		}
		r := image.Rect(xOffset, yOffset, xOffset+b.Dx(), yOffset+b.Dy())
		draw.Draw(combo, r, img, b.Min, draw.Over)
		xOffset += b.Dx() + spacing
	}
	return combo
}

func (c *rasterCombiner) save(combo *image.RGBA, opts Options) error {
	fileType := strings.ToLower(strings.TrimPrefix(opts.FileType, "."))
	path := filepath.Join(opts.OutDir, opts.OutName+"."+fileType)
	var buf bytes.Buffer
	var err error
	switch fileType {
	case "png":
		err = png.Encode(&buf, combo)
	case "jpg", "jpeg":
		err = jpeg.Encode(&buf, combo, &jpeg.Options{Quality: 90})
	default:
		err = fmt.Errorf("unsupported raster type %q", fileType)
	}
	if err != nil {
		return fmt.Errorf("compose: encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("compose: write %s: %w", path, err)
	}
	gmlog.Infof("compose: wrote %q (%s, %d images)", path, c.layout, len(opts.Bundle))
	return nil
}

func whiteCanvas(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}
