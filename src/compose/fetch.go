package compose

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/cstarkjp/GMPLib/src/gmlog"
)

// Kind distinguishes raster images from page-based (PDF) ones.
type Kind int

const (
	KindRaster Kind = iota
	KindPDF
)

// Entry is one fetched image: its filename (with extension) and the
// directory it was found in.
type Entry struct {
	Name string
	Dir  string
	Kind Kind
}

// Path returns the full path of the entry.
func (e Entry) Path() string { return filepath.Join(e.Dir, e.Name) }

// FetchImages scans the given directories for figure files (.png, .jpg,
// .jpeg, .pdf) and returns the entries in listing order plus a name→dir
// mapping suitable for Options.Sources. A name found in a later directory
// overrides the earlier source.
func FetchImages(paths ...string) ([]Entry, map[string]string, error) {
	var entries []Entry
	sources := map[string]string{}
	for _, dir := range paths {
		listing, err := os.ReadDir(dir)
		if err != nil {
			return nil, nil, fmt.Errorf("compose: scan %s: %w", dir, err)
		}
		for _, item := range listing {
			if item.IsDir() {
				continue
			}
			name := item.Name()
			var kind Kind
			switch strings.ToLower(filepath.Ext(name)) {
			case ".png", ".jpg", ".jpeg":
				kind = KindRaster
			case ".pdf":
				kind = KindPDF
			default:
				continue
			}
			if prev, seen := sources[name]; seen {
				gmlog.Debugf("compose: %q from %s overrides copy in %s", name, dir, prev)
				for i := range entries {
					if entries[i].Name == name {
						entries[i] = Entry{Name: name, Dir: dir, Kind: kind}
					}
				}
			} else {
				entries = append(entries, Entry{Name: name, Dir: dir, Kind: kind})
			}
			sources[name] = dir
		}
	}
	return entries, sources, nil
}

// LoadRaster decodes a raster entry into an in-memory image.
func LoadRaster(e Entry) (image.Image, error) {
	if e.Kind != KindRaster {
		return nil, fmt.Errorf("compose: %q is not a raster image", e.Name)
	}
	return loadImage(e.Path())
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("compose: open %s: %w", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("compose: decode %s: %w", path, err)
	}
	return img, nil
}
