package engine

import (
	"math"
	"sort"

	"github.com/piwi3910/PalletLoad/internal/model"
)

// StackStats counts stacking placements per pass kind.
type StackStats struct {
	Normal        int `json:"normal"`
	SameSignature int `json:"same_signature"`
	Relaxed       int `json:"relaxed"`
	Passes        int `json:"passes"`
	Unplaced      int `json:"unplaced"`
}

// Placed returns the number of units put on top of other units.
func (s StackStats) Placed() int {
	return s.Normal + s.SameSignature + s.Relaxed
}

// Scoring weights for the normal stacking pass.
const (
	scoreHeight        = 20.0
	scoreLighter       = 30.0
	scoreEqualWeight   = 15.0
	scoreHeavier       = -40.0
	scoreFootprintFit  = 25.0
	scoreExactFit      = 20.0
	scoreCenter        = -10.0
	scoreStackDepth    = -8.0
	scoreWeightBalance = -5.0

	// minNormalScore is the lowest score a normal pass accepts. Weaker
	// candidates are left to the fallback passes.
	minNormalScore = 0.0

	// equalWeightTolerance is the kg difference still treated as equal.
	equalWeightTolerance = 0.5

	// sameSignatureExact rewards identical weights in the same-signature pass.
	sameSignatureExact = 100.0
	// sameSignatureMaxChildren caps direct children per base in that pass.
	sameSignatureMaxChildren = 2
)

type stackMode int

const (
	stackNormal stackMode = iota
	stackSameSignature
	stackRelaxed
)

// StackPlanner puts floor-unplaced units on top of placed ones.
type StackPlanner struct {
	Container model.Container
	Settings  model.Settings

	placed []*model.Instance
}

func NewStackPlanner(c model.Container, s model.Settings) *StackPlanner {
	return &StackPlanner{Container: c, Settings: s}
}

// candidate is one accepted (base, orientation) pair.
type candidate struct {
	base    *model.Instance
	rotated bool
	z       float64
	score   float64
}

// Plan runs normal passes until one places nothing, then the same-signature
// and relaxed fallbacks. Every pass enforces the same hard constraints.
func (sp *StackPlanner) Plan(instances []*model.Instance) StackStats {
	sp.placed = sp.placed[:0]
	var unplaced []*model.Instance
	for _, in := range instances {
		switch {
		case in.Deleted:
		case in.Placed:
			sp.placed = append(sp.placed, in)
		default:
			unplaced = append(unplaced, in)
		}
	}
	sort.SliceStable(unplaced, func(i, j int) bool {
		if unplaced[i].Weight != unplaced[j].Weight {
			return unplaced[i].Weight > unplaced[j].Weight
		}
		return unplaced[i].Height > unplaced[j].Height
	})

	var stats StackStats
	maxPasses := 10 * len(unplaced)
	for stats.Passes < maxPasses && len(unplaced) > 0 && len(sp.placed) > 0 {
		stats.Passes++

		n := sp.pass(unplaced, stackNormal)
		stats.Normal += n
		if n == 0 {
			n = sp.pass(unplaced, stackSameSignature)
			stats.SameSignature += n
		}
		if n == 0 {
			n = sp.pass(unplaced, stackRelaxed)
			stats.Relaxed += n
		}
		if n == 0 {
			break
		}
		unplaced = stillUnplaced(unplaced)
	}
	stats.Unplaced = len(unplaced)
	return stats
}

func stillUnplaced(items []*model.Instance) []*model.Instance {
	out := items[:0]
	for _, in := range items {
		if !in.Placed {
			out = append(out, in)
		}
	}
	return out
}

// pass tries every unplaced item once and returns how many were stacked.
func (sp *StackPlanner) pass(items []*model.Instance, mode stackMode) int {
	n := 0
	for _, item := range items {
		if item.Placed {
			continue
		}
		if best, ok := sp.bestCandidate(item, mode); ok {
			sp.stack(item, best)
			n++
		}
	}
	return n
}

func (sp *StackPlanner) stack(item *model.Instance, c candidate) {
	item.SetOrientation(c.rotated)
	item.X, item.Y, item.Z = c.base.X, c.base.Y, c.z
	item.Placed = true
	item.StackedOn = c.base
	c.base.Children = append(c.base.Children, item)
	sp.placed = append(sp.placed, item)
}

// bestCandidate scores every valid (base, orientation) pair and keeps the
// first one with the highest score.
func (sp *StackPlanner) bestCandidate(item *model.Instance, mode stackMode) (candidate, bool) {
	if !item.CanStackBelow {
		return candidate{}, false
	}

	orientations := []bool{false}
	if item.Length != item.Width {
		orientations = append(orientations, true)
	}

	var best candidate
	found := false
	for _, base := range sp.placed {
		if !base.Active() || !base.CanStackAbove {
			continue
		}
		if mode == stackSameSignature {
			if base.Length != item.Length || base.Width != item.Width || base.Height != item.Height {
				continue
			}
			if len(base.Children) >= sameSignatureMaxChildren {
				continue
			}
		}
		support := supportOf(base)
		if !support.CanStackAbove {
			continue
		}
		z := TopZ(base)
		if z+item.Height > sp.Container.Height {
			continue
		}
		if !sp.weightAllows(base, item.Weight) {
			continue
		}

		for _, rotated := range orientations {
			l, w := item.Length, item.Width
			if rotated {
				l, w = w, l
			}
			if !fitsWithin(l, w, base.FinalLength, base.FinalWidth) ||
				!fitsWithin(l, w, support.FinalLength, support.FinalWidth) {
				continue
			}
			r := Rect{X: base.X, Y: base.Y, L: l, W: w}
			if collides(r, z, item.Height, sp.placed, sp.Settings.Clearance, nil) {
				continue
			}

			var score float64
			switch mode {
			case stackNormal:
				score = sp.score(item, base, support, l, w, z)
				if score <= minNormalScore {
					continue
				}
			case stackSameSignature:
				if math.Abs(base.Weight-item.Weight) < epsilon {
					score = sameSignatureExact
				} else {
					score = -math.Abs(base.Weight - item.Weight)
				}
			case stackRelaxed:
				score = -(z + item.Height)
			}

			if !found || score > best.score {
				best = candidate{base: base, rotated: rotated, z: z, score: score}
				found = true
			}
		}
	}
	return best, found
}

// score is the weighted sum used by normal passes.
func (sp *StackPlanner) score(item, base, support *model.Instance, l, w, z float64) float64 {
	c := sp.Container
	s := 0.0

	if c.Height > 0 {
		s += scoreHeight * (z + item.Height) / c.Height
	}

	switch diff := item.Weight - base.Weight; {
	case math.Abs(diff) <= equalWeightTolerance:
		s += scoreEqualWeight
	case diff < 0:
		s += scoreLighter
	default:
		s += scoreHeavier
	}

	if baseArea := base.FinalLength * base.FinalWidth; baseArea > 0 {
		s += scoreFootprintFit * (l * w) / baseArea
	}
	if math.Abs(l-base.FinalLength) < epsilon && math.Abs(w-base.FinalWidth) < epsilon {
		s += scoreExactFit
	}

	cx, cy, _ := base.Center()
	halfDiag := math.Hypot(c.Length, c.Width) / 2
	if halfDiag > 0 {
		d := math.Hypot(cx-c.Length/2, cy-c.Width/2)
		s += scoreCenter * d / halfDiag
	}

	s += scoreStackDepth * float64(model.StackLevel(support)+1)

	s += scoreWeightBalance * math.Abs(RecursiveWeight(base)-2*base.Weight) / math.Max(base.Weight, 1)

	return s
}

// weightAllows checks the added load against base and every unit carrying it.
func (sp *StackPlanner) weightAllows(base *model.Instance, weight float64) bool {
	for a := base; a != nil; a = a.StackedOn {
		if RecursiveWeight(a)+weight > sp.Settings.MaxStackWeight(a.Weight)+epsilon {
			return false
		}
	}
	return true
}

// TopZ returns the highest occupied Z over in and its whole child tree.
func TopZ(in *model.Instance) float64 {
	top := in.Top()
	for _, c := range in.Children {
		if c.Deleted {
			continue
		}
		if t := TopZ(c); t > top {
			top = t
		}
	}
	return top
}

// RecursiveWeight returns in's weight plus everything stacked on it.
func RecursiveWeight(in *model.Instance) float64 {
	w := in.Weight
	for _, c := range in.Children {
		if c.Deleted {
			continue
		}
		w += RecursiveWeight(c)
	}
	return w
}

// supportOf returns the unit a new item on base would rest on: the one with
// the highest top in base's tree, the first found on ties.
func supportOf(base *model.Instance) *model.Instance {
	best := base
	var walk func(*model.Instance)
	walk = func(in *model.Instance) {
		for _, c := range in.Children {
			if c.Deleted {
				continue
			}
			if c.Top() > best.Top()+epsilon {
				best = c
			}
			walk(c)
		}
	}
	walk(base)
	return best
}
