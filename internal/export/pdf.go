// Package export writes computed load plans to PDF, Excel and DXF files.
package export

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/PalletLoad/internal/model"
)

// rgb is a fill color for a placed unit.
type rgb struct {
	R, G, B int
}

// parseHexColor converts "#RRGGBB" to rgb, falling back to grey.
func parseHexColor(s string) rgb {
	if len(s) != 7 || s[0] != '#' {
		return rgb{R: 158, G: 158, B: 158}
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return rgb{R: 158, G: 158, B: 158}
	}
	return rgb{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 45.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ErrNothingPlaced is returned by exporters when a layout has no placed units.
var ErrNothingPlaced = errors.New("no placed units to export")

// ExportPDF generates a load plan: a top view of the container floor with a
// summary table, followed by a per-level listing and the stability report.
func ExportPDF(path string, result model.LayoutResult) error {
	if len(result.Placed()) == 0 {
		return ErrNothingPlaced
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderFloorPage(pdf, result)

	pdf.AddPage()
	renderLevelsPage(pdf, result)

	return pdf.OutputFileAndClose(path)
}

// renderFloorPage draws the container top view on the current page.
func renderFloorPage(pdf *fpdf.Fpdf, result model.LayoutResult) {
	c := result.Container

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Load Plan: %s (%.1f x %.1f x %.1f cm)", c.Name, c.Length, c.Width, c.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Placed: %d | Stacked: %d | Unplaced: %d | Floor: %.1f%% | Volume: %.1f%% | Weight: %.0f kg",
		result.PlacedCount, result.StackedCount, result.UnplacedCount,
		result.FloorUtilization(), result.VolumeUtilization(), result.LoadedWeight())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight
	scale := math.Min(drawWidth/c.Length, drawHeight/c.Width)

	canvasW := c.Length * scale
	canvasH := c.Width * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	pdf.SetFillColor(235, 235, 235)
	pdf.SetDrawColor(60, 60, 60)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	for _, in := range result.Placed() {
		if in.StackedOn != nil {
			continue
		}
		col := parseHexColor(in.Color)
		pw := in.FinalLength * scale
		ph := in.FinalWidth * scale
		px := offsetX + in.X*scale
		py := offsetY + in.Y*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		if pw > 10 && ph > 6 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)
			label := in.Key().String()
			if n := stackHeight(in); n > 1 {
				label = fmt.Sprintf("%s x%d", label, n)
			}
			if w := pdf.GetStringWidth(label); w < pw-1 {
				pdf.SetXY(px+(pw-w)/2, py+ph/2-2)
				pdf.CellFormat(w, 4, label, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, c, offsetX, offsetY, canvasW, canvasH)
	drawSummaryTable(pdf, result, offsetY+canvasH+8)
}

// stackHeight counts the units in the column standing on floor unit in.
func stackHeight(in *model.Instance) int {
	n := 1
	for _, c := range in.Children {
		if c.Active() {
			n += stackHeight(c)
		}
	}
	return n
}

// drawDimensionAnnotations labels the container length below and width to the left.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, c model.Container, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	lengthLabel := fmt.Sprintf("%.1f cm", c.Length)
	lw := pdf.GetStringWidth(lengthLabel)
	pdf.SetXY(offsetX+(canvasW-lw)/2, offsetY+canvasH+1)
	pdf.CellFormat(lw, 4, lengthLabel, "", 0, "C", false, 0, "")

	widthLabel := fmt.Sprintf("%.1f cm", c.Width)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	ww := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX-3-ww/2, offsetY+canvasH/2-2)
	pdf.CellFormat(ww, 4, widthLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// typeSummary aggregates placed and unplaced units per catalog entry.
type typeSummary struct {
	label         string
	color         string
	l, w, h, kg   float64
	placed, total int
	stacked       int
}

func summarizeTypes(result model.LayoutResult) []*typeSummary {
	var out []*typeSummary
	index := make(map[string]*typeSummary)
	for _, in := range result.Instances {
		if in.Deleted {
			continue
		}
		s, ok := index[in.EntryID]
		if !ok {
			s = &typeSummary{label: in.Label, color: in.Color, l: in.Length, w: in.Width, h: in.Height, kg: in.Weight}
			if s.label == "" {
				s.label = in.EntryID
			}
			index[in.EntryID] = s
			out = append(out, s)
		}
		s.total++
		if in.Placed {
			s.placed++
			if in.StackedOn != nil {
				s.stacked++
			}
		}
	}
	return out
}

func drawSummaryTable(pdf *fpdf.Fpdf, result model.LayoutResult, y float64) {
	colWidths := []float64{8, 60, 50, 30, 25, 25, 25}
	headers := []string{"", "Type", "Dimensions (cm)", "Weight", "Placed", "Stacked", "Total"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	x := marginLeft
	for i, h := range headers {
		pdf.SetXY(x, y)
		pdf.CellFormat(colWidths[i], 6, h, "1", 0, "C", true, 0, "")
		x += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for _, s := range summarizeTypes(result) {
		if y > pageHeight-marginBottom-6 {
			break
		}
		col := parseHexColor(s.color)
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(marginLeft, y, colWidths[0], 6, "FD")

		x = marginLeft + colWidths[0]
		row := []string{
			s.label,
			fmt.Sprintf("%.1f x %.1f x %.1f", s.l, s.w, s.h),
			fmt.Sprintf("%.0f kg", s.kg),
			strconv.Itoa(s.placed),
			strconv.Itoa(s.stacked),
			strconv.Itoa(s.total),
		}
		for j, cell := range row {
			pdf.SetXY(x, y)
			pdf.CellFormat(colWidths[j+1], 6, cell, "1", 0, "C", false, 0, "")
			x += colWidths[j+1]
		}
		y += 6
	}
}

// renderLevelsPage lists units per stacking level, the unplaced units and the
// stability report.
func renderLevelsPage(pdf *fpdf.Fpdf, result model.LayoutResult) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Stacking Levels", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18
	levels := groupByLevel(result.Placed())
	for _, lvl := range sortedLevels(levels) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetXY(marginLeft, y)
		name := "Floor"
		if lvl > 0 {
			name = fmt.Sprintf("Level %d", lvl)
		}
		pdf.CellFormat(100, 6, fmt.Sprintf("%s (%d units)", name, len(levels[lvl])), "", 0, "L", false, 0, "")
		y += 7

		pdf.SetFont("Helvetica", "", 8)
		for _, in := range levels[lvl] {
			if y > pageHeight-marginBottom-40 {
				break
			}
			text := fmt.Sprintf("- %s %s @ (%.1f, %.1f, %.1f)", in.Key(), in.Label, in.X, in.Y, in.Z)
			if in.Rotated {
				text += " rotated"
			}
			if in.StackedOn != nil {
				text += " on " + in.StackedOn.Key().String()
			}
			pdf.SetXY(marginLeft+5, y)
			pdf.CellFormat(250, 4, text, "", 0, "L", false, 0, "")
			y += 4
		}
		y += 3
	}

	if unplaced := result.Unplaced(); len(unplaced) > 0 {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, fmt.Sprintf("WARNING: %d unplaced units", len(unplaced)), "", 0, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		y += 8
	}

	st := result.Stability
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, pageHeight-marginBottom-30)
	pdf.CellFormat(100, 7, "Stability", "", 0, "L", false, 0, "")

	verdict := "STABLE"
	if !st.Stable {
		verdict = "UNSTABLE"
	}
	items := []struct{ label, value string }{
		{"Center of gravity", fmt.Sprintf("(%.1f, %.1f, %.1f) cm", st.CenterX, st.CenterY, st.CenterZ)},
		{"Offset from center", fmt.Sprintf("%.1f cm (%.3f)", st.Distance, st.Normalized)},
		{"Score", fmt.Sprintf("%.1f / 100 %s", st.Score, verdict)},
	}
	pdf.SetFont("Helvetica", "", 9)
	yy := pageHeight - marginBottom - 22
	for _, item := range items {
		pdf.SetXY(marginLeft+5, yy)
		pdf.CellFormat(50, 5, item.label+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(80, 5, item.value, "", 0, "L", false, 0, "")
		yy += 5
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by PalletLoad - Container Load Planner", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func groupByLevel(placed []*model.Instance) map[int][]*model.Instance {
	levels := make(map[int][]*model.Instance)
	for _, in := range placed {
		lvl := model.StackLevel(in)
		levels[lvl] = append(levels[lvl], in)
	}
	return levels
}

func sortedLevels(levels map[int][]*model.Instance) []int {
	keys := make([]int, 0, len(levels))
	for k := range levels {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 30:
		return 8
	case minDim > 15:
		return 7
	default:
		return 5
	}
}
