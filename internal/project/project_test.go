package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/PalletLoad/internal/model"
)

func sampleProject() model.Project {
	p := model.NewProject()
	p.Name = "Export run"
	p.Container = "20ft"
	eur := model.NewPalletType("EUR", 120, 80, 100, 300, 16)
	crate := model.NewPalletType("Crate", 100, 125, 90, 500, 2)
	crate.CanStackAbove = false
	crate.Color = "#FF0000"
	p.Catalog = []model.PalletType{eur, crate}
	p.Settings.Clearance = 2
	p.Deleted = []model.InstanceKey{{EntryID: eur.ID, Index: 3}}
	return p
}

func assertProjectEqual(t *testing.T, want, got model.Project) {
	t.Helper()
	if got.Name != want.Name || got.Container != want.Container {
		t.Errorf("expected %s/%s, got %s/%s", want.Name, want.Container, got.Name, got.Container)
	}
	if len(got.Catalog) != len(want.Catalog) {
		t.Fatalf("expected %d entries, got %d", len(want.Catalog), len(got.Catalog))
	}
	for i := range want.Catalog {
		if got.Catalog[i] != want.Catalog[i] {
			t.Errorf("entry %d: expected %+v, got %+v", i, want.Catalog[i], got.Catalog[i])
		}
	}
	if got.Settings.Clearance != want.Settings.Clearance {
		t.Errorf("expected clearance %f, got %f", want.Settings.Clearance, got.Settings.Clearance)
	}
	if len(got.Settings.Patterns) != len(want.Settings.Patterns) {
		t.Errorf("expected %d patterns, got %d", len(want.Settings.Patterns), len(got.Settings.Patterns))
	}
	if len(got.Deleted) != 1 || got.Deleted[0] != want.Deleted[0] {
		t.Errorf("expected deleted %v, got %v", want.Deleted, got.Deleted)
	}
}

func TestSaveAndLoadProjectJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "load.json")
	p := sampleProject()

	if err := SaveProject(path, p); err != nil {
		t.Fatalf("SaveProject failed: %v", err)
	}
	loaded, err := LoadProject(path)
	if err != nil {
		t.Fatalf("LoadProject failed: %v", err)
	}
	assertProjectEqual(t, p, loaded)
}

func TestSaveAndLoadProjectTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "load.toml")
	p := sampleProject()

	if err := SaveProject(path, p); err != nil {
		t.Fatalf("SaveProject failed: %v", err)
	}
	loaded, err := LoadProject(path)
	if err != nil {
		t.Fatalf("LoadProject failed: %v", err)
	}
	assertProjectEqual(t, p, loaded)
}

func TestLoadProjectHandWrittenTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hand.toml")
	src := `name = "Hand written"

[[catalog]]
id = "eur"
label = "EUR"
length = 120.0
width = 80.0
height = 100.0
weight = 300.0
quantity = 4
can_stack_above = true
can_stack_below = true
`
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadProject(path)
	if err != nil {
		t.Fatalf("LoadProject failed: %v", err)
	}
	if p.Container != model.DefaultContainerName {
		t.Errorf("expected default container, got %q", p.Container)
	}
	if len(p.Catalog) != 1 || p.Catalog[0].Quantity != 4 {
		t.Fatalf("unexpected catalog %+v", p.Catalog)
	}
	defaults := model.DefaultSettings()
	if p.Settings.MaxStackWeightCap != defaults.MaxStackWeightCap {
		t.Errorf("expected default cap, got %f", p.Settings.MaxStackWeightCap)
	}
	if len(p.Settings.Patterns) != len(defaults.Patterns) {
		t.Errorf("expected default patterns, got %v", p.Settings.Patterns)
	}
}

func TestLoadProjectErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadProject(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("name = = 1"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadProject(bad); err == nil {
		t.Error("expected error for malformed TOML")
	}
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"a.toml", FormatTOML},
		{"a.TOML", FormatTOML},
		{"a.json", FormatJSON},
		{"a", FormatJSON},
	}
	for _, tt := range tests {
		if got := FormatFor(tt.path); got != tt.want {
			t.Errorf("FormatFor(%q) = %s, want %s", tt.path, got, tt.want)
		}
	}
}

func TestLoadProjectDefaultsMissingPermissions(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"load.toml": `[[catalog]]
id = "eur"
label = "EUR"
length = 120.0
width = 80.0
height = 100.0
weight = 300.0
quantity = 2

[[catalog]]
id = "crate"
label = "Crate"
length = 100.0
width = 125.0
height = 90.0
weight = 500.0
quantity = 1
can_stack_above = false
`,
		"load.json": `{"catalog": [
  {"id": "eur", "label": "EUR", "length": 120, "width": 80, "height": 100, "weight": 300, "quantity": 2},
  {"id": "crate", "label": "Crate", "length": 100, "width": 125, "height": 90, "weight": 500, "quantity": 1, "can_stack_above": false}
]}`,
	}

	for name, src := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, []byte(src), 0644); err != nil {
				t.Fatal(err)
			}
			p, err := LoadProject(path)
			if err != nil {
				t.Fatalf("LoadProject failed: %v", err)
			}
			if len(p.Catalog) != 2 {
				t.Fatalf("expected 2 entries, got %d", len(p.Catalog))
			}
			eur, crate := p.Catalog[0], p.Catalog[1]
			if !eur.CanStackAbove || !eur.CanStackBelow {
				t.Errorf("expected missing permissions to default to true, got above=%v below=%v",
					eur.CanStackAbove, eur.CanStackBelow)
			}
			if crate.CanStackAbove {
				t.Error("expected explicit can_stack_above=false to be kept")
			}
			if !crate.CanStackBelow {
				t.Error("expected missing can_stack_below to default to true")
			}
		})
	}
}
