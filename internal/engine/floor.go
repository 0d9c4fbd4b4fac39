package engine

import (
	"math"
	"sort"

	"github.com/piwi3910/PalletLoad/internal/model"
)

// FloorStats counts how many units each floor step placed.
type FloorStats struct {
	Pattern  int `json:"pattern"`
	Grid     int `json:"grid"`
	Scan     int `json:"scan"`
	Unplaced int `json:"unplaced"`
}

// Placed returns the number of units put on the floor.
func (s FloorStats) Placed() int {
	return s.Pattern + s.Grid + s.Scan
}

// FloorPlanner places instances on the container floor.
type FloorPlanner struct {
	Container model.Container
	Settings  model.Settings

	placed []*model.Instance
}

func NewFloorPlanner(c model.Container, s model.Settings) *FloorPlanner {
	return &FloorPlanner{Container: c, Settings: s}
}

// footprintGroup holds the unplaced members of one (length, width) signature.
type footprintGroup struct {
	length, width float64
	members       []*model.Instance
}

// remaining returns the members not yet placed.
func (g *footprintGroup) remaining() []*model.Instance {
	var out []*model.Instance
	for _, in := range g.members {
		if !in.Placed {
			out = append(out, in)
		}
	}
	return out
}

// groupByFootprint groups non-deleted instances by footprint, preserving the
// order in which each signature first appears.
func groupByFootprint(instances []*model.Instance) []*footprintGroup {
	var groups []*footprintGroup
	index := make(map[[2]float64]*footprintGroup)
	for _, in := range instances {
		if in.Deleted {
			continue
		}
		key := [2]float64{in.Length, in.Width}
		g, ok := index[key]
		if !ok {
			g = &footprintGroup{length: in.Length, width: in.Width}
			index[key] = g
			groups = append(groups, g)
		}
		g.members = append(g.members, in)
	}
	return groups
}

// Plan runs pattern templates, the dense grid and the best-fit scan in that
// order. Units that remain unplaced are left for stacking and overflow.
func (fp *FloorPlanner) Plan(instances []*model.Instance) FloorStats {
	fp.placed = fp.placed[:0]
	for _, in := range instances {
		if in.Active() && in.StackedOn == nil {
			fp.placed = append(fp.placed, in)
		}
	}

	var stats FloorStats
	groups := groupByFootprint(instances)

	templateMaxX := 0.0
	stats.Pattern, templateMaxX = fp.applyPatterns(groups)
	stats.Grid = fp.fillGrid(groups, templateMaxX, stats.Pattern > 0)
	stats.Scan = fp.scanRemaining(instances)

	for _, in := range instances {
		if !in.Deleted && !in.Placed {
			stats.Unplaced++
		}
	}
	return stats
}

// canPlace reports whether an l x w rectangle at (x, y) lies inside the
// floor and keeps clearance to every floor unit placed so far.
func (fp *FloorPlanner) canPlace(x, y, l, w float64) bool {
	if !FitsInContainer(x, y, l, w, fp.Container) {
		return false
	}
	r := Rect{X: x, Y: y, L: l, W: w}
	for _, o := range fp.placed {
		if Overlaps(r, footprint(o), fp.Settings.Clearance) {
			return false
		}
	}
	return true
}

func (fp *FloorPlanner) place(in *model.Instance, x, y float64, rotated bool) {
	in.SetOrientation(rotated)
	in.X, in.Y, in.Z = x, y, 0
	in.Placed = true
	in.StackedOn = nil
	fp.placed = append(fp.placed, in)
}

// applyPatterns places every group that matches a pattern rule and has at
// least PatternMinCount units. Patterns are laid out one after another from
// the container door (X = 0). It returns the number of units placed and the
// largest X extent reached.
func (fp *FloorPlanner) applyPatterns(groups []*footprintGroup) (int, float64) {
	placed := 0
	maxX := 0.0
	for _, g := range groups {
		rule, ok := fp.matchPattern(g)
		if !ok {
			continue
		}
		members := g.remaining()
		if len(members) < fp.Settings.PatternMinCount {
			continue
		}
		startX := 0.0
		if placed > 0 {
			startX = maxX + fp.Settings.Clearance
		}
		switch rule.Kind {
		case model.PatternPairedRows:
			n, extent := fp.pairedRows(members, startX)
			placed += n
			if n > 0 && extent > maxX {
				maxX = extent
			}
		}
	}
	return placed, maxX
}

// matchPattern finds the rule for a group's footprint in either orientation.
func (fp *FloorPlanner) matchPattern(g *footprintGroup) (model.PatternRule, bool) {
	for _, r := range fp.Settings.Patterns {
		if r.Footprint.Matches(g.length, g.width) || r.Footprint.Matches(g.width, g.length) {
			return r, true
		}
	}
	return model.PatternRule{}, false
}

// pairedRows fills columns of two units across the width. Even columns put
// the un-rotated unit in the first row and the rotated unit in the second,
// odd columns swap them. Each cell is validated before a unit is taken.
func (fp *FloorPlanner) pairedRows(members []*model.Instance, startX float64) (int, float64) {
	l, w := members[0].Length, members[0].Width
	clearance := fp.Settings.Clearance
	colWidth := math.Max(l, w)

	type cell struct {
		y       float64
		rotated bool
	}

	next := 0
	placed := 0
	maxX := startX
	for col := 0; next < len(members); col++ {
		x := startX + float64(col)*(colWidth+clearance)
		var cells [2]cell
		if col%2 == 0 {
			cells = [2]cell{{y: 0, rotated: false}, {y: w + clearance, rotated: true}}
		} else {
			cells = [2]cell{{y: 0, rotated: true}, {y: l + clearance, rotated: false}}
		}

		progress := false
		for _, c := range cells {
			if next >= len(members) {
				break
			}
			cl, cw := l, w
			if c.rotated {
				cl, cw = w, l
			}
			if !fp.canPlace(x, c.y, cl, cw) {
				continue
			}
			fp.place(members[next], x, c.y, c.rotated)
			next++
			placed++
			progress = true
			if x+cl > maxX {
				maxX = x + cl
			}
		}
		if !progress {
			break
		}
	}
	return placed, maxX
}

// fillGrid tiles the grid-cell group starting right of the pattern area.
func (fp *FloorPlanner) fillGrid(groups []*footprintGroup, templateMaxX float64, hasTemplate bool) int {
	cell := fp.Settings.GridCell
	if cell.Length <= 0 || cell.Width <= 0 {
		return 0
	}

	var members []*model.Instance
	rotated := false
	for _, g := range groups {
		if cell.Matches(g.length, g.width) {
			members = g.remaining()
			break
		}
		if cell.Matches(g.width, g.length) {
			members = g.remaining()
			rotated = true
			break
		}
	}
	if len(members) == 0 {
		return 0
	}

	clearance := fp.Settings.Clearance
	startX := 0.0
	if hasTemplate {
		startX = templateMaxX + clearance
	}
	stepX := cell.Length + clearance
	stepY := cell.Width + clearance
	cols := int(math.Floor((fp.Container.Length - startX) / stepX))
	rows := int(math.Floor(fp.Container.Width / stepY))

	next := 0
	for r := 0; r < rows && next < len(members); r++ {
		for c := 0; c < cols && next < len(members); c++ {
			x := startX + float64(c)*stepX
			y := float64(r) * stepY
			if !fp.canPlace(x, y, cell.Length, cell.Width) {
				continue
			}
			fp.place(members[next], x, y, rotated)
			next++
		}
	}
	return next
}

// scanRemaining runs the greedy best-fit scan over every unit still on the
// ground, largest footprint first.
func (fp *FloorPlanner) scanRemaining(instances []*model.Instance) int {
	var remaining []*model.Instance
	for _, in := range instances {
		if !in.Deleted && !in.Placed {
			remaining = append(remaining, in)
		}
	}
	sort.SliceStable(remaining, func(i, j int) bool {
		return remaining[i].Area() > remaining[j].Area()
	})

	placed := 0
	for _, in := range remaining {
		if x, y, rotated, ok := fp.bestPosition(in); ok {
			fp.place(in, x, y, rotated)
			placed++
		}
	}
	return placed
}

// bestPosition scans both orientations on a ScanStep grid and returns the
// valid position with the lowest x + 2y. Earlier candidates win ties.
func (fp *FloorPlanner) bestPosition(in *model.Instance) (float64, float64, bool, bool) {
	step := fp.Settings.ScanStep
	if step <= 0 {
		step = 5
	}

	orientations := []bool{false}
	if in.Length != in.Width {
		orientations = append(orientations, true)
	}

	bestScore := math.Inf(1)
	var bestX, bestY float64
	var bestRotated, found bool

	for _, rotated := range orientations {
		l, w := in.Length, in.Width
		if rotated {
			l, w = w, l
		}
		for x := 0.0; x+l <= fp.Container.Length; x += step {
			if x >= bestScore {
				break
			}
			for y := 0.0; y+w <= fp.Container.Width; y += step {
				score := x + 2*y
				if score >= bestScore {
					break
				}
				if fp.canPlace(x, y, l, w) {
					bestScore = score
					bestX, bestY, bestRotated, found = x, y, rotated, true
					break
				}
			}
		}
	}
	return bestX, bestY, bestRotated, found
}

// LayoutOverflow row-packs every unplaced, non-deleted unit below the
// container's far long edge so it can be handled manually. The units stay
// unplaced.
func LayoutOverflow(instances []*model.Instance, c model.Container, gap float64) {
	x := 0.0
	y := c.Width + gap
	rowDepth := 0.0
	for _, in := range instances {
		if in.Deleted || in.Placed {
			continue
		}
		in.SetOrientation(false)
		in.StackedOn = nil
		in.Z = 0
		if x > 0 && x+in.FinalLength > c.Length {
			x = 0
			y += rowDepth + gap
			rowDepth = 0
		}
		in.X, in.Y = x, y
		x += in.FinalLength + gap
		if in.FinalWidth > rowDepth {
			rowDepth = in.FinalWidth
		}
	}
}
