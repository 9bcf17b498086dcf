package compose

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// helper to write a solid-color png fixture
func writePNG(t *testing.T, dir, name string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode %s: %v", name, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func readPNG(t *testing.T, path string) image.Image {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return img
}

var (
	red  = color.RGBA{R: 0xff, A: 0xff}
	blue = color.RGBA{B: 0xff, A: 0xff}
)

func sameColor(a, b color.Color) bool {
	ar, ag, ab, _ := a.RGBA()
	br, bg, bb, _ := b.RGBA()
	return ar == br && ag == bg && ab == bb
}

func TestUnknownFileType(t *testing.T) {
	if _, err := New("gif", Vertical); err == nil {
		t.Fatalf("expected error for unsupported file type")
	}
}

func TestEmptyBundleIsNoOp(t *testing.T) {
	out := t.TempDir()
	err := Combine(Options{OutName: "combo", FileType: "png", OutDir: out}, Vertical)
	if err != nil {
		t.Fatalf("empty bundle: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "combo.png")); !os.IsNotExist(err) {
		t.Fatalf("empty bundle should write nothing")
	}
}

func TestSingleImagePassthrough(t *testing.T) {
	src, out := t.TempDir(), t.TempDir()
	writePNG(t, src, "a.png", 30, 20, red)
	opts := Options{
		OutName:  "combo",
		Bundle:   []string{"a"},
		Sources:  map[string]string{"a.png": src},
		FileType: "png",
		Spacing:  20,
		OutDir:   out,
	}
	if err := Combine(opts, Vertical); err != nil {
		t.Fatalf("combine: %v", err)
	}
	img := readPNG(t, filepath.Join(out, "combo.png"))
	if img.Bounds().Dx() != 30 || img.Bounds().Dy() != 20 {
		t.Fatalf("size = %v; want 30x20", img.Bounds())
	}
	if !sameColor(img.At(15, 10), red) {
		t.Fatalf("content lost in passthrough")
	}
}

func TestVerticalCombine(t *testing.T) {
	src, out := t.TempDir(), t.TempDir()
	writePNG(t, src, "a.png", 30, 20, red)
	writePNG(t, src, "b.png", 50, 40, blue)
	opts := Options{
		OutName:  "combo",
		Bundle:   []string{"a", "b"},
		Sources:  map[string]string{"a.png": src, "b.png": src},
		FileType: "png",
		Spacing:  10,
		OutDir:   out,
	}
	if err := Combine(opts, Vertical); err != nil {
		t.Fatalf("combine: %v", err)
	}
	img := readPNG(t, filepath.Join(out, "combo.png"))
	// width = max(30, 50); height = 20 + 10 + 40
	if img.Bounds().Dx() != 50 || img.Bounds().Dy() != 70 {
		t.Fatalf("size = %v; want 50x70", img.Bounds())
	}
	if !sameColor(img.At(10, 10), red) {
		t.Fatalf("first image misplaced")
	}
	if !sameColor(img.At(10, 25), color.White) {
		t.Fatalf("spacing row should be white")
	}
	if !sameColor(img.At(10, 40), blue) {
		t.Fatalf("second image misplaced")
	}
}

func TestVerticalAlignRight(t *testing.T) {
	src, out := t.TempDir(), t.TempDir()
	writePNG(t, src, "a.png", 30, 20, red)
	writePNG(t, src, "b.png", 50, 40, blue)
	opts := Options{
		OutName:    "combo",
		Bundle:     []string{"a", "b"},
		Sources:    map[string]string{"a.png": src, "b.png": src},
		FileType:   "png",
		Spacing:    10,
		OutDir:     out,
		AlignRight: true,
	}
	if err := Combine(opts, Vertical); err != nil {
		t.Fatalf("combine: %v", err)
	}
	img := readPNG(t, filepath.Join(out, "combo.png"))
	// narrow image occupies x in [20, 50)
	if !sameColor(img.At(5, 10), color.White) {
		t.Fatalf("left margin of aligned image should be white")
	}
	if !sameColor(img.At(45, 10), red) {
		t.Fatalf("aligned image not flush right")
	}
}

func TestHorizontalAlignBottom(t *testing.T) {
	src, out := t.TempDir(), t.TempDir()
	writePNG(t, src, "a.png", 30, 20, red)
	writePNG(t, src, "b.png", 50, 40, blue)
	opts := Options{
		OutName:    "combo",
		Bundle:     []string{"a", "b"},
		Sources:    map[string]string{"a.png": src, "b.png": src},
		FileType:   "png",
		Spacing:    10,
		OutDir:     out,
		AlignRight: true,
	}
	if err := Combine(opts, Horizontal); err != nil {
		t.Fatalf("combine: %v", err)
	}
	img := readPNG(t, filepath.Join(out, "combo.png"))
	// width = 30 + 10 + 50; height = max(20, 40)
	if img.Bounds().Dx() != 90 || img.Bounds().Dy() != 40 {
		t.Fatalf("size = %v; want 90x40", img.Bounds())
	}
	// short image flush to the bottom: y in [20, 40)
	if !sameColor(img.At(10, 5), color.White) {
		t.Fatalf("top of short image column should be white")
	}
	if !sameColor(img.At(10, 30), red) {
		t.Fatalf("short image not flush bottom")
	}
	if !sameColor(img.At(50, 5), blue) {
		t.Fatalf("tall image misplaced")
	}
}

func TestCombineIdempotent(t *testing.T) {
	src, out1, out2 := t.TempDir(), t.TempDir(), t.TempDir()
	writePNG(t, src, "a.png", 30, 20, red)
	writePNG(t, src, "b.png", 50, 40, blue)
	opts := Options{
		OutName:  "combo",
		Bundle:   []string{"a", "b"},
		Sources:  map[string]string{"a.png": src, "b.png": src},
		FileType: "png",
		Spacing:  10,
	}
	opts.OutDir = out1
	if err := Combine(opts, Vertical); err != nil {
		t.Fatalf("first combine: %v", err)
	}
	opts.OutDir = out2
	if err := Combine(opts, Vertical); err != nil {
		t.Fatalf("second combine: %v", err)
	}
	b1, _ := os.ReadFile(filepath.Join(out1, "combo.png"))
	b2, _ := os.ReadFile(filepath.Join(out2, "combo.png"))
	if len(b1) == 0 || !bytes.Equal(b1, b2) {
		t.Fatalf("identical inputs produced different outputs")
	}
}

func TestMissingSource(t *testing.T) {
	out := t.TempDir()
	opts := Options{
		OutName:  "combo",
		Bundle:   []string{"nope"},
		Sources:  map[string]string{},
		FileType: "png",
		OutDir:   out,
	}
	if err := Combine(opts, Vertical); err == nil {
		t.Fatalf("expected error for unregistered source")
	}
}

func TestFetchImages(t *testing.T) {
	dir1, dir2 := t.TempDir(), t.TempDir()
	writePNG(t, dir1, "a.png", 10, 10, red)
	writePNG(t, dir1, "b.jpg", 10, 10, blue)
	if err := os.WriteFile(filepath.Join(dir1, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write txt: %v", err)
	}
	// same name in a later dir overrides the source
	writePNG(t, dir2, "a.png", 12, 12, blue)

	entries, sources, err := FetchImages(dir1, dir2)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %+v; want 2", entries)
	}
	if sources["a.png"] != dir2 {
		t.Fatalf("later dir should override source for a.png")
	}
	if sources["b.jpg"] != dir1 {
		t.Fatalf("b.jpg source wrong")
	}
	img, err := LoadRaster(Entry{Name: "a.png", Dir: dir2, Kind: KindRaster})
	if err != nil || img.Bounds().Dx() != 12 {
		t.Fatalf("load raster: %v", err)
	}
}

func TestResize(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 50))
	out := Resize(img, 50, 0)
	if out.Bounds().Dx() != 50 || out.Bounds().Dy() != 25 {
		t.Fatalf("resize = %v; want 50x25", out.Bounds())
	}
	out = Resize(img, 0, 100)
	if out.Bounds().Dx() != 200 || out.Bounds().Dy() != 100 {
		t.Fatalf("resize = %v; want 200x100", out.Bounds())
	}
	if got := Resize(img, 0, 0); got != img {
		t.Fatalf("no-op resize should return the input")
	}
}
