package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/PalletLoad/internal/model"
)

// Sheet names used by ExportXLSX.
const (
	SheetLoadPlan = "Load Plan"
	SheetSummary  = "Summary"
)

var loadPlanHeader = []interface{}{
	"Key", "Label", "Length", "Width", "Height", "Weight",
	"Status", "X", "Y", "Z", "Level", "Rotated", "Stacked On",
}

// ExportXLSX writes one row per unit to the "Load Plan" sheet and the run
// totals to "Summary".
func ExportXLSX(path string, result model.LayoutResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetLoadPlan); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	if err := f.SetSheetRow(SheetLoadPlan, "A1", &loadPlanHeader); err != nil {
		return err
	}
	if err := f.SetRowStyle(SheetLoadPlan, 1, 1, bold); err != nil {
		return err
	}

	for i, in := range result.Instances {
		row := []interface{}{
			in.Key().String(), in.Label, in.Length, in.Width, in.Height, in.Weight,
			unitStatus(in), "", "", "", "", in.Rotated, "",
		}
		if in.Active() {
			row[7], row[8], row[9] = in.X, in.Y, in.Z
			row[10] = model.StackLevel(in)
			if in.StackedOn != nil {
				row[12] = in.StackedOn.Key().String()
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetLoadPlan, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	st := result.Stability
	summary := [][]interface{}{
		{"Container", result.Container.Name},
		{"Length (cm)", result.Container.Length},
		{"Width (cm)", result.Container.Width},
		{"Height (cm)", result.Container.Height},
		{"Clearance (cm)", result.Settings.Clearance},
		{"Stacking", result.Settings.StackingEnabled},
		{"Placed", result.PlacedCount},
		{"Stacked", result.StackedCount},
		{"Rotated", result.RotatedCount},
		{"Unplaced", result.UnplacedCount},
		{"Deleted", result.DeletedCount},
		{"Loaded Weight (kg)", result.LoadedWeight()},
		{"Floor Utilization (%)", round1(result.FloorUtilization())},
		{"Volume Utilization (%)", round1(result.VolumeUtilization())},
		{"Stability Score", round1(st.Score)},
		{"Stable", st.Stable},
	}
	for i, row := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetSummary, cell, &row); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
		if err := f.SetCellStyle(SheetSummary, cell, cell, bold); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(SheetLoadPlan, "A", "B", 18); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetSummary, "A", "A", 24); err != nil {
		return err
	}

	return f.SaveAs(path)
}

func unitStatus(in *model.Instance) string {
	switch {
	case in.Deleted:
		return "deleted"
	case !in.Placed:
		return "unplaced"
	case in.StackedOn != nil:
		return "stacked"
	default:
		return "floor"
	}
}

func round1(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}
