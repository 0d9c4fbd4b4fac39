package engine

import "github.com/piwi3910/PalletLoad/internal/model"

// epsilon absorbs floating-point jitter in separation and Z-interval tests.
const epsilon = 0.01

// Rect is an axis-aligned floor rectangle: origin plus extent along X (L)
// and Y (W).
type Rect struct {
	X, Y float64
	L, W float64
}

// footprint returns the instance's current floor rectangle.
func footprint(in *model.Instance) Rect {
	return Rect{X: in.X, Y: in.Y, L: in.FinalLength, W: in.FinalWidth}
}

// Overlaps returns true unless a and b are separated by at least clearance
// along X or along Y.
func Overlaps(a, b Rect, clearance float64) bool {
	gap := clearance - epsilon
	if a.X+a.L+gap <= b.X || b.X+b.L+gap <= a.X {
		return false
	}
	if a.Y+a.W+gap <= b.Y || b.Y+b.W+gap <= a.Y {
		return false
	}
	return true
}

// FitsInContainer reports whether the rectangle lies within the floor.
func FitsInContainer(x, y, length, width float64, c model.Container) bool {
	return x >= 0 && y >= 0 && x+length <= c.Length && y+width <= c.Width
}

// zOverlaps reports whether two vertical intervals [z, z+h) share more than
// epsilon.
func zOverlaps(z1, h1, z2, h2 float64) bool {
	return z1 < z2+h2-epsilon && z2 < z1+h1-epsilon
}

// fitsWithin reports whether an l x w footprint fits inside an outer one
// without rotation.
func fitsWithin(l, w, outerL, outerW float64) bool {
	return l <= outerL+epsilon && w <= outerW+epsilon
}

// collides reports whether a candidate box collides with any active instance
// other than skip.
func collides(r Rect, z, h float64, others []*model.Instance, clearance float64, skip *model.Instance) bool {
	for _, o := range others {
		if o == skip || !o.Active() {
			continue
		}
		if !zOverlaps(z, h, o.Z, o.FinalHeight) {
			continue
		}
		if Overlaps(r, footprint(o), clearance) {
			return true
		}
	}
	return false
}
