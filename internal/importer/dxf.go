package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/PalletLoad/internal/model"
)

// Height and weight assigned to footprints read from a drawing when the
// caller has nothing better.
const (
	DefaultDXFHeight = 144.0
	DefaultDXFWeight = 400.0
)

// rectangleTolerance is the minimum ratio of polygon area to bounding-box
// area for a closed shape to count as a rectangle.
const rectangleTolerance = 0.98

type point struct {
	X, Y float64
}

// segment is a line between two points, used for chaining loose LINE
// entities into closed outlines.
type segment struct {
	start point
	end   point
}

// ImportDXF reads pallet footprints from a DXF floor drawing. Every closed
// rectangle (LWPOLYLINE or chain of LINEs) is one unit; rectangles with the
// same footprint are merged into one catalog entry whose quantity is the
// number of rectangles. Height and weight are not part of a 2D drawing and
// are taken from the arguments.
func ImportDXF(path string, height, weight float64) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var outlines [][]point
	var segments []segment
	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			if hasBulge(e) {
				result.Warnings = append(result.Warnings, "Skipped LWPOLYLINE with arc segments")
				continue
			}
			outline := make([]point, 0, len(e.Vertices))
			for _, v := range e.Vertices {
				outline = append(outline, point{X: v[0], Y: v[1]})
			}
			if len(outline) >= 3 {
				outlines = append(outlines, outline)
			} else {
				result.Warnings = append(result.Warnings, "Skipped LWPOLYLINE with fewer than 3 vertices")
			}

		case *entity.Line:
			segments = append(segments, segment{
				start: point{X: e.Start[0], Y: e.Start[1]},
				end:   point{X: e.End[0], Y: e.End[1]},
			})
		}
	}
	outlines = append(outlines, chainSegments(segments, 0.01)...)

	if len(outlines) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	limits := model.DefaultLimits()
	type footprint struct{ l, w float64 }
	counts := make(map[footprint]int)
	var order []footprint

	for _, outline := range outlines {
		minP, maxP := boundingBox(outline)
		l, w := round1(maxP.X-minP.X), round1(maxP.Y-minP.Y)
		if l < w {
			l, w = w, l
		}
		if w < 0.01 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped degenerate shape (%.2f x %.2f cm)", l, w))
			continue
		}
		if outlineArea(outline) < rectangleTolerance*l*w {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped non-rectangular shape (%.1f x %.1f cm)", l, w))
			continue
		}
		if l > limits.MaxDimension {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped %.1f x %.1f cm outline (larger than a pallet)", l, w))
			continue
		}

		fp := footprint{l, w}
		if counts[fp] == 0 {
			order = append(order, fp)
		}
		counts[fp]++
	}

	for i, fp := range order {
		qty := counts[fp]
		if qty > limits.MaxQuantity {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%.1f x %.1f cm: %d units capped at %d", fp.l, fp.w, qty, limits.MaxQuantity))
			qty = limits.MaxQuantity
		}
		entry := model.NewPalletType(fmt.Sprintf("DXF %d (%.0fx%.0f)", i+1, fp.l, fp.w), fp.l, fp.w, height, weight, qty)
		if err := entry.Validate(limits); err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.Entries = append(result.Entries, entry)
	}

	return result
}

func hasBulge(lw *entity.LwPolyline) bool {
	for _, b := range lw.Bulges {
		if math.Abs(b) > 1e-9 {
			return true
		}
	}
	return false
}

// chainSegments connects individual segments into closed outlines. A chain
// stops as soon as it returns to its first point, so rectangles drawn on top
// of each other stay separate.
func chainSegments(segs []segment, tolerance float64) [][]point {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var outlines [][]point

	for startIdx := range segs {
		if used[startIdx] {
			continue
		}

		chain := []point{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		closed := false
		for !closed {
			tail := chain[len(chain)-1]
			extended := false
			for i, seg := range segs {
				if used[i] {
					continue
				}
				var next point
				switch {
				case pointsClose(tail, seg.start, tolerance):
					next = seg.end
				case pointsClose(tail, seg.end, tolerance):
					next = seg.start
				default:
					continue
				}
				chain = append(chain, next)
				used[i] = true
				extended = true
				break
			}
			if !extended {
				break
			}
			closed = len(chain) >= 4 && pointsClose(chain[0], chain[len(chain)-1], tolerance)
		}

		if closed {
			outlines = append(outlines, chain[:len(chain)-1])
		}
	}

	sort.SliceStable(outlines, func(i, j int) bool {
		return outlineArea(outlines[i]) > outlineArea(outlines[j])
	})
	return outlines
}

func pointsClose(a, b point, tolerance float64) bool {
	return math.Hypot(a.X-b.X, a.Y-b.Y) <= tolerance
}

// outlineArea computes the absolute polygon area with the shoelace formula.
func outlineArea(o []point) float64 {
	n := len(o)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += o[i].X*o[j].Y - o[j].X*o[i].Y
	}
	return math.Abs(area) / 2
}

func boundingBox(o []point) (point, point) {
	minP := point{X: math.Inf(1), Y: math.Inf(1)}
	maxP := point{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, p := range o {
		minP.X = math.Min(minP.X, p.X)
		minP.Y = math.Min(minP.Y, p.Y)
		maxP.X = math.Max(maxP.X, p.X)
		maxP.Y = math.Max(maxP.Y, p.Y)
	}
	return minP, maxP
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
