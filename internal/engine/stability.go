package engine

import (
	"math"

	"github.com/piwi3910/PalletLoad/internal/model"
)

// EvaluateStability computes the weight-weighted center of gravity of all
// active instances and scores its distance from the container's geometric
// center. A load with no weight is reported as stable with the centroid at
// the origin.
func EvaluateStability(instances []*model.Instance, c model.Container, threshold float64) model.StabilityResult {
	var sx, sy, sz, total float64
	for _, in := range instances {
		if !in.Active() {
			continue
		}
		x, y, z := in.Center()
		sx += x * in.Weight
		sy += y * in.Weight
		sz += z * in.Weight
		total += in.Weight
	}

	if total <= 0 {
		return model.StabilityResult{Score: 100, Stable: true}
	}

	r := model.StabilityResult{
		CenterX:     sx / total,
		CenterY:     sy / total,
		CenterZ:     sz / total,
		TotalWeight: total,
	}

	dx := r.CenterX - c.Length/2
	dy := r.CenterY - c.Width/2
	dz := r.CenterZ - c.Height/2
	r.Distance = math.Sqrt(dx*dx + dy*dy + dz*dz)

	halfDiag := math.Sqrt(c.Length*c.Length+c.Width*c.Width+c.Height*c.Height) / 2
	if halfDiag > 0 {
		r.Normalized = r.Distance / halfDiag
	}
	r.Score = math.Max(0, 100*(1-r.Normalized))
	r.Stable = r.Score > threshold
	return r
}
