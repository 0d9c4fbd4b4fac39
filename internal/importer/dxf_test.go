package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/PalletLoad/internal/engine"
	"github.com/piwi3910/PalletLoad/internal/export"
	"github.com/piwi3910/PalletLoad/internal/model"
)

func rectSegments(x, y, l, w float64) []segment {
	c := []point{{x, y}, {x + l, y}, {x + l, y + w}, {x, y + w}}
	segs := make([]segment, 4)
	for i := range c {
		segs[i] = segment{start: c[i], end: c[(i+1)%4]}
	}
	return segs
}

func TestChainSegmentsSeparatesStackedRectangles(t *testing.T) {
	segs := append(rectSegments(0, 0, 120, 80), rectSegments(0, 0, 120, 80)...)
	segs = append(segs, rectSegments(200, 0, 100, 125)...)

	outlines := chainSegments(segs, 0.01)
	if len(outlines) != 3 {
		t.Fatalf("expected 3 outlines, got %d", len(outlines))
	}
	for _, o := range outlines {
		if len(o) != 4 {
			t.Errorf("expected 4 corners, got %d", len(o))
		}
	}
	if a := outlineArea(outlines[0]); a != 12500 {
		t.Errorf("expected largest outline first (12500), got %f", a)
	}
}

func TestChainSegmentsOpenChain(t *testing.T) {
	segs := rectSegments(0, 0, 10, 10)[:3]
	if got := chainSegments(segs, 0.01); len(got) != 0 {
		t.Errorf("expected open chain to be dropped, got %d outlines", len(got))
	}
}

func TestOutlineAreaAndBoundingBox(t *testing.T) {
	o := []point{{10, 5}, {130, 5}, {130, 85}, {10, 85}}
	if a := outlineArea(o); a != 9600 {
		t.Errorf("expected area 9600, got %f", a)
	}
	minP, maxP := boundingBox(o)
	if minP != (point{10, 5}) || maxP != (point{130, 85}) {
		t.Errorf("unexpected bounding box %v %v", minP, maxP)
	}
}

func TestImportDXFRoundTrip(t *testing.T) {
	catalog := []model.PalletType{model.NewPalletType("EUR", 120, 80, 100, 300, 4)}
	c, _ := model.GetContainer("20ft")
	result := engine.ComputeLayout(catalog, c, 1, false)
	if result.PlacedCount != 4 {
		t.Fatalf("expected 4 placed, got %d", result.PlacedCount)
	}

	path := filepath.Join(t.TempDir(), "floor.dxf")
	if err := export.ExportDXF(path, result); err != nil {
		t.Fatalf("ExportDXF failed: %v", err)
	}

	res := ImportDXF(path, 110, 250)
	if len(res.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if len(res.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(res.Entries))
	}
	e := res.Entries[0]
	if e.Length != 120 || e.Width != 80 || e.Quantity != 4 {
		t.Errorf("expected 4 x 120x80, got %d x %.1fx%.1f", e.Quantity, e.Length, e.Width)
	}
	if e.Height != 110 || e.Weight != 250 {
		t.Errorf("expected height/weight from arguments, got %.1f/%.1f", e.Height, e.Weight)
	}

	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "larger than a pallet") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected the container outline to be skipped, warnings: %v", res.Warnings)
	}
}

func TestImportDXFViaImportFile(t *testing.T) {
	catalog := []model.PalletType{model.NewPalletType("Block", 110, 110, 120, 800, 2)}
	c, _ := model.GetContainer("40ft")
	path := filepath.Join(t.TempDir(), "blocks.DXF")
	if err := export.ExportDXF(path, engine.ComputeLayout(catalog, c, 1, false)); err != nil {
		t.Fatal(err)
	}

	res := ImportFile(path)
	if len(res.Entries) != 1 || res.Entries[0].Quantity != 2 {
		t.Fatalf("unexpected entries %+v (errors %v)", res.Entries, res.Errors)
	}
	if res.Entries[0].Height != DefaultDXFHeight {
		t.Errorf("expected default height, got %f", res.Entries[0].Height)
	}
}

func TestImportDXFErrors(t *testing.T) {
	dir := t.TempDir()

	res := ImportDXF(filepath.Join(dir, "missing.dxf"), 100, 100)
	if len(res.Errors) == 0 {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.dxf")
	if err := os.WriteFile(bad, []byte("not a drawing"), 0644); err != nil {
		t.Fatal(err)
	}
	res = ImportDXF(bad, 100, 100)
	if len(res.Errors) == 0 || len(res.Entries) != 0 {
		t.Errorf("expected error for malformed file, got %+v", res)
	}
}
