// Package compose assembles bundles of figure images into a single
// composite image or PDF page, with configurable layout, spacing, and
// alignment.
//
// Two combiner families exist: raster (png/jpg/jpeg, pasted onto a white
// canvas) and PDF (pages merged via gofpdi template import). Each supports
// vertical and horizontal arrangement.
package compose

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Layout selects the arrangement direction.
type Layout int

const (
	Vertical Layout = iota
	Horizontal
)

func (l Layout) String() string {
	if l == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Options describe one combination job.
type Options struct {
	// OutName is the output filename without extension.
	OutName string
	// Bundle lists the image names (no extension) in paste order.
	Bundle []string
	// Sources maps "name.ext" to the directory holding that file, as
	// produced by FetchImages.
	Sources map[string]string
	// FileType is the source and output type: png, jpg, jpeg, or pdf.
	FileType string
	// Spacing is the gap between images, in pixels (raster) or points
	// (PDF, where it is halved vertically).
	Spacing int
	// OutDir is the directory to write the composite into.
	OutDir string
	// AlignRight pushes narrow images to the right edge (vertical layout)
	// or short images flush to the bottom (horizontal layout).
	AlignRight bool
}

// Combiner assembles one bundle according to Options.
type Combiner interface {
	Combine(opts Options) error
}

// New returns the combiner for the given file type and layout. Unknown
// file types are an error.
func New(fileType string, layout Layout) (Combiner, error) {
	switch strings.ToLower(strings.TrimPrefix(fileType, ".")) {
	case "png", "jpg", "jpeg":
		return &rasterCombiner{layout: layout}, nil
	case "pdf":
		return &pdfCombiner{layout: layout}, nil
	default:
		return nil, fmt.Errorf("compose: unsupported file type %q", fileType)
	}
}

// Combine is the one-shot form: pick the combiner from opts.FileType and
// run it.
func Combine(opts Options, layout Layout) error {
	c, err := New(opts.FileType, layout)
	if err != nil {
		return err
	}
	return c.Combine(opts)
}

// sourcePath resolves one bundle entry against the sources mapping.
func sourcePath(opts Options, name string) (string, error) {
	file := name + "." + strings.ToLower(strings.TrimPrefix(opts.FileType, "."))
	dir, ok := opts.Sources[file]
	if !ok {
		return "", fmt.Errorf("compose: no source registered for %q", file)
	}
	return filepath.Join(dir, file), nil
}
