package engine

import (
	"fmt"

	"github.com/piwi3910/PalletLoad/internal/model"
)

// Violation describes one broken layout invariant.
type Violation struct {
	Rule    string `json:"rule"`
	Key     string `json:"key"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("[%s] %s: %s", v.Rule, v.Key, v.Message)
}

// Invariant rule names.
const (
	RuleOverlap     = "overlap"
	RuleContainment = "containment"
	RuleLinks       = "links"
	RulePermission  = "permission"
	RuleWeight      = "weight"
)

// CheckInvariants verifies a finished layout. Deleted and unplaced units are
// ignored except that they must not take part in stacking links.
func CheckInvariants(r model.LayoutResult) []Violation {
	var out []Violation
	add := func(rule string, in *model.Instance, format string, args ...any) {
		out = append(out, Violation{Rule: rule, Key: in.Key().String(), Message: fmt.Sprintf(format, args...)})
	}

	placed := r.Placed()
	c := r.Container
	clearance := r.Settings.Clearance

	for i, a := range placed {
		for _, b := range placed[i+1:] {
			if !zOverlaps(a.Z, a.FinalHeight, b.Z, b.FinalHeight) {
				continue
			}
			if Overlaps(footprint(a), footprint(b), clearance) {
				add(RuleOverlap, a, "overlaps %s", b.Key())
			}
		}
	}

	for _, in := range placed {
		if !FitsInContainer(in.X, in.Y, in.FinalLength, in.FinalWidth, c) {
			add(RuleContainment, in, "footprint (%.1f, %.1f) %.1fx%.1f outside floor", in.X, in.Y, in.FinalLength, in.FinalWidth)
		}
		if in.Z < 0 || in.Top() > c.Height+epsilon {
			add(RuleContainment, in, "top %.1f exceeds height %.1f", in.Top(), c.Height)
		}
	}

	for _, in := range r.Instances {
		if b := in.StackedOn; b != nil {
			if !in.Active() {
				add(RuleLinks, in, "inactive unit is stacked on %s", b.Key())
			}
			if !b.Active() {
				add(RuleLinks, in, "base %s is not placed", b.Key())
			}
			if !containsInstance(b.Children, in) {
				add(RuleLinks, in, "base %s does not list it as a child", b.Key())
			}
			if !in.CanStackBelow {
				add(RulePermission, in, "stacked although it may not rest on another unit")
			}
		}
		for _, ch := range in.Children {
			if ch.StackedOn != in {
				add(RuleLinks, in, "child %s points elsewhere", ch.Key())
			}
		}
		if len(in.Children) > 0 && !in.CanStackAbove {
			add(RulePermission, in, "carries %d units although stacking above is forbidden", len(in.Children))
		}
		if in.Active() && len(in.Children) > 0 {
			if w, limit := RecursiveWeight(in), r.Settings.MaxStackWeight(in.Weight); w > limit+epsilon {
				add(RuleWeight, in, "stack weight %.1f kg exceeds limit %.1f kg", w, limit)
			}
		}
	}
	return out
}

func containsInstance(list []*model.Instance, in *model.Instance) bool {
	for _, x := range list {
		if x == in {
			return true
		}
	}
	return false
}
