package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/iancoleman/orderedmap"

	"github.com/cstarkjp/GMPLib/src/graphing"
)

func TestCreateDirs(t *testing.T) {
	base := t.TempDir()
	dir, err := CreateDirs(base, "Results", "Demo")
	if err != nil {
		t.Fatalf("create dirs: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("missing results dir: %v", err)
	}
	// existing directory is fine
	if _, err := CreateDirs(base, "Results", "Demo"); err != nil {
		t.Fatalf("recreate dirs: %v", err)
	}
}

func TestResultsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	sub := orderedmap.New()
	sub.Set("ratio", 1.5)
	sub.Set("label", "channel")
	sub.Set("profile", []float64{0, 0.5, 1})
	rec := orderedmap.New()
	rec.Set("geometry", sub)
	rec.Set("count", 4.0)

	path, err := ExportResults(dir, "results", "demo", rec, Options{RoundPlaces: -1})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if filepath.Base(path) != "results_demo.json" {
		t.Fatalf("unexpected filename %q", path)
	}
	loaded, err := LoadResults(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want, _ := json.Marshal(rec)
	got, _ := json.Marshal(loaded)
	if !bytes.Equal(want, got) {
		t.Fatalf("round trip mismatch:\nwant %s\ngot  %s", want, got)
	}
}

func TestResultsRoundingAndLimits(t *testing.T) {
	dir := t.TempDir()
	rec := orderedmap.New()
	rec.Set("pi", 3.14159)
	rec.Set("short", []float64{1.111, 2.222})
	rec.Set("long", []float64{1, 2, 3, 4})

	path, err := ExportResults(dir, "results", "", rec, Options{RoundPlaces: 2, MaxSliceLen: 3})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	loaded, err := LoadResults(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if v, _ := loaded.Get("pi"); v.(float64) != 3.14 {
		t.Fatalf("pi = %v; want 3.14", v)
	}
	if _, kept := loaded.Get("long"); kept {
		t.Fatalf("oversize slice should have been omitted")
	}
	short, _ := loaded.Get("short")
	vals := short.([]interface{})
	if vals[0].(float64) != 1.11 || vals[1].(float64) != 2.22 {
		t.Fatalf("short = %v", vals)
	}
}

func TestResultsUnserializable(t *testing.T) {
	dir := t.TempDir()
	rec := orderedmap.New()
	rec.Set("ok", 1.0)
	rec.Set("bad", func() {})

	path, err := ExportResults(dir, "results", "", rec, Options{RoundPlaces: -1})
	if err != nil {
		t.Fatalf("export should skip unserializable values, got %v", err)
	}
	loaded, err := LoadResults(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, kept := loaded.Get("bad"); kept {
		t.Fatalf("unserializable value should be skipped")
	}
	if _, kept := loaded.Get("ok"); !kept {
		t.Fatalf("serializable value lost")
	}

	if _, err := ExportResults(dir, "strict", "", rec, Options{RoundPlaces: -1, Strict: true}); err == nil {
		t.Fatalf("strict mode should reject unserializable values")
	}
}

func testGrapher(t *testing.T) (*graphing.Grapher, *graphing.Figure) {
	t.Helper()
	g := graphing.New(100, 11)
	fig := g.NewFigure("profile", graphing.FigureOptions{WidthIn: 4, HeightIn: 3})
	g.AddSeries(fig, "data", []float64{0, 1, 2}, []float64{2, 1, 3})
	return g, fig
}

func TestExportPlotPNG(t *testing.T) {
	dir := t.TempDir()
	g, fig := testGrapher(t)
	path, err := ExportPlot(g, fig, dir, "png", "_v1")
	if err != nil {
		t.Fatalf("export plot: %v", err)
	}
	if filepath.Base(path) != "profile_v1.png" {
		t.Fatalf("unexpected path %q", path)
	}
	b, err := os.ReadFile(path)
	if err != nil || len(b) == 0 {
		t.Fatalf("empty png: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("\x89PNG")) {
		t.Fatalf("not a png file")
	}
}

func TestExportPlotPDF(t *testing.T) {
	dir := t.TempDir()
	g, fig := testGrapher(t)
	path, err := ExportPlot(g, fig, dir, "pdf", "")
	if err != nil {
		t.Fatalf("export pdf: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil || !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Fatalf("not a pdf file: %v", err)
	}
}

func TestExportPlotsAllTypes(t *testing.T) {
	dir := t.TempDir()
	g, _ := testGrapher(t)
	if err := ExportPlots(g, dir, []string{"png", "svg"}, ""); err != nil {
		t.Fatalf("export plots: %v", err)
	}
	for _, name := range []string{"profile.png", "profile.svg"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}
}

func TestExportPlotUnknownType(t *testing.T) {
	dir := t.TempDir()
	g, fig := testGrapher(t)
	if _, err := ExportPlot(g, fig, dir, "tiff", ""); err == nil {
		t.Fatalf("expected error for unsupported file type")
	}
}
