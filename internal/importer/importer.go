// Package importer provides CSV, Excel and DXF import functionality for
// pallet catalogs. It supports automatic delimiter detection, flexible column
// mapping, and case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/PalletLoad/internal/model"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Entries  []model.PalletType
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Label      int
	Length     int
	Width      int
	Height     int
	Weight     int
	Quantity   int
	StackAbove int
	StackBelow int
	Color      int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"label":       {"label", "name", "pallet", "type", "description", "desc", "item"},
	"length":      {"length", "len", "l", "x"},
	"width":       {"width", "w", "depth", "d", "y"},
	"height":      {"height", "h", "z"},
	"weight":      {"weight", "kg", "mass", "weight kg", "weight (kg)"},
	"quantity":    {"quantity", "qty", "count", "num", "amount", "pcs", "pieces"},
	"stack_above": {"stack_above", "stack above", "stackable", "can stack above", "top load"},
	"stack_below": {"stack_below", "stack below", "can stack below", "stack on others"},
	"color":       {"color", "colour", "hex"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// positionalMapping is used when the first row is not a recognised header:
// Label, Length, Width, Height, Weight, Quantity, StackAbove, StackBelow, Color.
var positionalMapping = ColumnMapping{
	Label:      0,
	Length:     1,
	Width:      2,
	Height:     3,
	Weight:     4,
	Quantity:   5,
	StackAbove: 6,
	StackBelow: 7,
	Color:      8,
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or the positional
// mapping and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{-1, -1, -1, -1, -1, -1, -1, -1, -1}
	slots := map[string]*int{
		"label":       &mapping.Label,
		"length":      &mapping.Length,
		"width":       &mapping.Width,
		"height":      &mapping.Height,
		"weight":      &mapping.Weight,
		"quantity":    &mapping.Quantity,
		"stack_above": &mapping.StackAbove,
		"stack_below": &mapping.StackBelow,
		"color":       &mapping.Color,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				if slot := slots[role]; *slot == -1 {
					*slot = i
				}
			}
		}
	}

	if !isHeader {
		return positionalMapping, false
	}
	return mapping, true
}

// parseBool converts a yes/no style cell. It returns the value and whether
// the string was recognized.
func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "1", "x":
		return true, true
	case "no", "n", "false", "0", "-":
		return false, true
	default:
		return false, false
	}
}

// getCell safely retrieves a cell value from a row by column index.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseNumber(row []string, idx int, rowLabel, name string) (float64, string) {
	s := getCell(row, idx)
	if s == "" {
		return 0, fmt.Sprintf("%s: Missing %s value", rowLabel, name)
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, name, s)
	}
	return v, ""
}

// parseRow extracts a catalog entry from a row using the given column mapping.
// Returns the entry, any error message, and any warnings.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, entryCount int, limits model.Limits) (model.PalletType, string, []string) {
	label := getCell(row, mapping.Label)
	if label == "" {
		label = fmt.Sprintf("Pallet %d", entryCount+1)
	}

	length, msg := parseNumber(row, mapping.Length, rowLabel, "length")
	if msg != "" {
		return model.PalletType{}, msg, nil
	}
	width, msg := parseNumber(row, mapping.Width, rowLabel, "width")
	if msg != "" {
		return model.PalletType{}, msg, nil
	}
	height, msg := parseNumber(row, mapping.Height, rowLabel, "height")
	if msg != "" {
		return model.PalletType{}, msg, nil
	}
	weight, msg := parseNumber(row, mapping.Weight, rowLabel, "weight")
	if msg != "" {
		return model.PalletType{}, msg, nil
	}

	qtyStr := getCell(row, mapping.Quantity)
	if qtyStr == "" {
		return model.PalletType{}, fmt.Sprintf("%s: Missing quantity value", rowLabel), nil
	}
	qty, err := strconv.Atoi(qtyStr)
	if err != nil {
		return model.PalletType{}, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr), nil
	}

	entry := model.NewPalletType(label, length, width, height, weight, qty)
	if err := entry.Validate(limits); err != nil {
		return model.PalletType{}, fmt.Sprintf("%s: %v", rowLabel, strings.ReplaceAll(err.Error(), "\n", "; ")), nil
	}

	var warnings []string
	for _, flag := range []struct {
		idx  int
		name string
		dst  *bool
	}{
		{mapping.StackAbove, "stack above", &entry.CanStackAbove},
		{mapping.StackBelow, "stack below", &entry.CanStackBelow},
	} {
		s := getCell(row, flag.idx)
		if s == "" {
			continue
		}
		if v, ok := parseBool(s); ok {
			*flag.dst = v
		} else {
			warnings = append(warnings, fmt.Sprintf("%s: Unknown %s value '%s', defaulting to yes", rowLabel, flag.name, s))
		}
	}

	if c := getCell(row, mapping.Color); c != "" {
		if isHexColor(c) {
			entry.Color = strings.ToUpper(c)
		} else {
			warnings = append(warnings, fmt.Sprintf("%s: Invalid color '%s', using palette", rowLabel, c))
		}
	}

	return entry, "", warnings
}

// isHexColor accepts "#RRGGBB".
func isHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	_, err := strconv.ParseUint(s[1:], 16, 32)
	return err == nil
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports a catalog from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports a catalog from a CSV reader with a specific delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports a catalog from the first sheet of an Excel file.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// ImportFile dispatches on the file extension.
func ImportFile(path string) ImportResult {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xlsm") {
		return ImportExcel(path)
	}
	if strings.HasSuffix(lower, ".dxf") {
		return ImportDXF(path, DefaultDXFHeight, DefaultDXFWeight)
	}
	return ImportCSV(path)
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		for _, col := range []struct {
			idx  int
			name string
		}{
			{mapping.Length, "Length"},
			{mapping.Width, "Width"},
			{mapping.Height, "Height"},
			{mapping.Weight, "Weight"},
			{mapping.Quantity, "Quantity"},
		} {
			if col.idx == -1 {
				missing = append(missing, col.name)
			}
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 3 {
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][1]), 64); err != nil {
			// Unrecognized header: skip it but keep positional mapping.
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	limits := model.DefaultLimits()
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		entry, errMsg, warnings := parseRow(row, mapping, rowLabel, len(result.Entries), limits)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Warnings = append(result.Warnings, warnings...)
		result.Entries = append(result.Entries, entry)
	}

	return result
}
