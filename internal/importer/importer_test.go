package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter(t *testing.T) {
	tests := []struct {
		name string
		data string
		want rune
	}{
		{"comma", "Label,Length,Width,Height,Weight,Qty\nEUR,120,80,100,300,2\nCrate,100,125,90,400,1\n", ','},
		{"semicolon", "Label;Length;Width;Height;Weight;Qty\nEUR;120;80;100;300;2\nCrate;100;125;90;400;1\n", ';'},
		{"tab", "Label\tLength\tWidth\tHeight\tWeight\tQty\nEUR\t120\t80\t100\t300\t2\n", '\t'},
		{"pipe", "Label|Length|Width|Height|Weight|Qty\nEUR|120|80|100|300|2\n", '|'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectCSVDelimiter([]byte(tt.data)); got != tt.want {
				t.Errorf("expected %q delimiter, got %q", tt.want, got)
			}
		})
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	row := []string{"Label", "Length", "Width", "Height", "Weight", "Quantity", "Stack Above", "Stack Below", "Color"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	want := ColumnMapping{0, 1, 2, 3, 4, 5, 6, 7, 8}
	if mapping != want {
		t.Errorf("expected %+v, got %+v", want, mapping)
	}
}

func TestDetectColumns_AlternativeNamesAndOrder(t *testing.T) {
	row := []string{"QTY", "kg", "H", "W", "L", "Name"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if mapping.Quantity != 0 || mapping.Weight != 1 || mapping.Height != 2 ||
		mapping.Width != 3 || mapping.Length != 4 || mapping.Label != 5 {
		t.Errorf("unexpected mapping %+v", mapping)
	}
	if mapping.StackAbove != -1 || mapping.Color != -1 {
		t.Errorf("expected optional columns to be unmapped, got %+v", mapping)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"EUR", "120", "80", "100", "300", "2"})

	if isHeader {
		t.Error("expected no header")
	}
	if mapping != positionalMapping {
		t.Errorf("expected positional mapping, got %+v", mapping)
	}
}

// ─── ImportCSVFromReader Tests ─────────────────────────────

func TestImportCSVFromReader_WithHeaders(t *testing.T) {
	data := "Label,Length,Width,Height,Weight,Qty,Stack Above,Stack Below,Color\n" +
		"EUR,120,80,100,300,4,yes,no,#ff0000\n" +
		"Crate,100,125,90,450.5,2,,,\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(result.Entries))
	}

	eur := result.Entries[0]
	if eur.Label != "EUR" || eur.Length != 120 || eur.Width != 80 || eur.Height != 100 || eur.Weight != 300 || eur.Quantity != 4 {
		t.Errorf("unexpected entry %+v", eur)
	}
	if !eur.CanStackAbove || eur.CanStackBelow {
		t.Errorf("expected stack above only, got above=%v below=%v", eur.CanStackAbove, eur.CanStackBelow)
	}
	if eur.Color != "#FF0000" {
		t.Errorf("expected color #FF0000, got %q", eur.Color)
	}
	if eur.ID == "" {
		t.Error("expected a generated ID")
	}

	crate := result.Entries[1]
	if crate.Weight != 450.5 {
		t.Errorf("expected weight 450.5, got %f", crate.Weight)
	}
	if !crate.CanStackAbove || !crate.CanStackBelow {
		t.Error("expected stacking permissions to default to true")
	}
	if crate.ID == eur.ID {
		t.Error("expected unique IDs")
	}
}

func TestImportCSVFromReader_WithoutHeaders(t *testing.T) {
	data := "EUR,120,80,100,300,2\nCrate,100,125,90,400,1,no,yes\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d (errors: %v)", len(result.Entries), result.Errors)
	}
	if result.Entries[1].CanStackAbove {
		t.Error("expected positional stack above column to be read")
	}
}

func TestImportCSVFromReader_SemicolonDelimiter(t *testing.T) {
	data := "Name;L;W;H;Weight;Pcs\nEUR;120;80;100;300;2\n"

	result := ImportCSVFromReader(strings.NewReader(data), ';')

	if len(result.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d (errors: %v)", len(result.Entries), result.Errors)
	}
}

func TestImportCSVFromReader_RowErrors(t *testing.T) {
	tests := []struct {
		name    string
		row     string
		wantErr string
	}{
		{"invalid length", "EUR,abc,80,100,300,2", "Invalid length"},
		{"missing weight", "EUR,120,80,100,,2", "Missing weight"},
		{"invalid quantity", "EUR,120,80,100,300,two", "Invalid quantity"},
		{"zero quantity", "EUR,120,80,100,300,0", "quantity"},
		{"too long", "EUR,320,80,100,300,1", "length"},
		{"too heavy", "EUR,120,80,100,6000,1", "weight"},
		{"negative height", "EUR,120,80,-1,300,1", "height"},
		{"too many", "EUR,120,80,100,300,101", "quantity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := "Label,Length,Width,Height,Weight,Qty\n" + tt.row + "\n"
			result := ImportCSVFromReader(strings.NewReader(data), ',')

			if len(result.Entries) != 0 {
				t.Errorf("expected no entries, got %d", len(result.Entries))
			}
			if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], tt.wantErr) {
				t.Errorf("expected one error containing %q, got %v", tt.wantErr, result.Errors)
			}
			if len(result.Errors) == 1 && !strings.HasPrefix(result.Errors[0], "Line 2") {
				t.Errorf("expected error to name the line, got %q", result.Errors[0])
			}
		})
	}
}

func TestImportCSVFromReader_MixedValidAndInvalid(t *testing.T) {
	data := "EUR,120,80,100,300,2\nBad,x,80,100,300,1\n\nCrate,100,125,90,400,1\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Entries) != 2 {
		t.Errorf("expected 2 valid entries, got %d", len(result.Entries))
	}
	if len(result.Errors) != 1 {
		t.Errorf("expected 1 error, got %d: %v", len(result.Errors), result.Errors)
	}
}

func TestImportCSVFromReader_Warnings(t *testing.T) {
	data := "Label,Length,Width,Height,Weight,Qty,Stackable,Colour\nEUR,120,80,100,300,2,maybe,red\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(result.Entries))
	}
	if !result.Entries[0].CanStackAbove {
		t.Error("expected unknown flag to default to yes")
	}
	if result.Entries[0].Color != "" {
		t.Errorf("expected palette color, got %q", result.Entries[0].Color)
	}
	joined := strings.Join(result.Warnings, "\n")
	if !strings.Contains(joined, "Unknown stack above value 'maybe'") {
		t.Errorf("expected stack warning, got %v", result.Warnings)
	}
	if !strings.Contains(joined, "Invalid color 'red'") {
		t.Errorf("expected color warning, got %v", result.Warnings)
	}
}

func TestImportCSVFromReader_EmptyLabel(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader(",120,80,100,300,2\n"), ',')

	if len(result.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d (errors: %v)", len(result.Entries), result.Errors)
	}
	if result.Entries[0].Label != "Pallet 1" {
		t.Errorf("expected 'Pallet 1', got %q", result.Entries[0].Label)
	}
}

func TestImportCSVFromReader_MissingRequiredColumnInHeader(t *testing.T) {
	data := "Label,Length,Width,Qty\nEUR,120,80,2\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", result.Errors)
	}
	if !strings.Contains(result.Errors[0], "Height, Weight") {
		t.Errorf("expected missing Height and Weight, got %q", result.Errors[0])
	}
}

func TestImportCSVFromReader_EmptyFile(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader(""), ',')

	if len(result.Errors) == 0 {
		t.Error("expected error for empty input")
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		in     string
		want   bool
		wantOK bool
	}{
		{"yes", true, true},
		{"Y", true, true},
		{"TRUE", true, true},
		{"1", true, true},
		{"no", false, true},
		{"n", false, true},
		{"false", false, true},
		{"0", false, true},
		{"perhaps", false, false},
	}
	for _, tt := range tests {
		got, ok := parseBool(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("parseBool(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

// ─── File Import Tests ─────────────────────────────────────

func TestImportCSV_SemicolonFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.csv")
	content := "Label;Length;Width;Height;Weight;Qty\nEUR;120;80;100;300;2\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	result := ImportFile(path)

	if len(result.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d (errors: %v)", len(result.Entries), result.Errors)
	}
	if !strings.Contains(strings.Join(result.Warnings, "\n"), "semicolon") {
		t.Errorf("expected semicolon warning, got %v", result.Warnings)
	}
}

func TestImportCSV_FileErrors(t *testing.T) {
	result := ImportCSV(filepath.Join(t.TempDir(), "missing.csv"))
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, []byte("  \n"), 0644); err != nil {
		t.Fatal(err)
	}
	result = ImportCSV(path)
	if len(result.Errors) == 0 {
		t.Error("expected error for empty file")
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Label", "Length", "Width", "Height", "Weight", "Quantity", "Stack Below"},
		{"EUR", 120, 80, 100, 300, 2, "no"},
		{"Crate", 100, 125, 90, 400, 1, "yes"},
	})

	result := ImportFile(path)

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(result.Entries))
	}
	if result.Entries[0].Label != "EUR" || result.Entries[0].Length != 120 {
		t.Errorf("unexpected first entry %+v", result.Entries[0])
	}
	if result.Entries[0].CanStackBelow {
		t.Error("expected stack below to be false")
	}
}

func TestImportExcel_WithoutHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"EUR", 120, 80, 100, 300, 2},
		{"Crate", 100, 125, 90, 400, 1},
	})

	result := ImportExcel(path)

	if len(result.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d (errors: %v)", len(result.Entries), result.Errors)
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	result := ImportExcel(filepath.Join(t.TempDir(), "missing.xlsx"))

	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}
