package model

// StabilityResult describes the load's center of gravity relative to the
// container's geometric center.
type StabilityResult struct {
	CenterX     float64 `json:"center_x"`
	CenterY     float64 `json:"center_y"`
	CenterZ     float64 `json:"center_z"`
	TotalWeight float64 `json:"total_weight"`
	Distance    float64 `json:"distance"`   // cm from the container center
	Normalized  float64 `json:"normalized"` // Distance / half-diagonal
	Score       float64 `json:"score"`      // 0..100
	Stable      bool    `json:"stable"`
}

// LayoutResult holds the full output of one planning run.
type LayoutResult struct {
	Container     Container       `json:"container"`
	Settings      Settings        `json:"settings"`
	Instances     []*Instance     `json:"instances"`
	Stability     StabilityResult `json:"stability"`
	PlacedCount   int             `json:"placed_count"`
	UnplacedCount int             `json:"unplaced_count"`
	RotatedCount  int             `json:"rotated_count"`
	StackedCount  int             `json:"stacked_count"`
	DeletedCount  int             `json:"deleted_count"`
}

// Placed returns the placed, non-deleted instances in run order.
func (r LayoutResult) Placed() []*Instance {
	var out []*Instance
	for _, in := range r.Instances {
		if in.Active() {
			out = append(out, in)
		}
	}
	return out
}

// Unplaced returns the non-deleted instances that found no position.
func (r LayoutResult) Unplaced() []*Instance {
	var out []*Instance
	for _, in := range r.Instances {
		if !in.Placed && !in.Deleted {
			out = append(out, in)
		}
	}
	return out
}

// Find returns the instance with the given key, or nil.
func (r LayoutResult) Find(key InstanceKey) *Instance {
	for _, in := range r.Instances {
		if in.EntryID == key.EntryID && in.Index == key.Index {
			return in
		}
	}
	return nil
}

// FloorUtilization returns the percentage of floor area covered by
// floor-level units.
func (r LayoutResult) FloorUtilization() float64 {
	area := r.Container.FloorArea()
	if area == 0 {
		return 0
	}
	var used float64
	for _, in := range r.Placed() {
		if in.StackedOn == nil {
			used += in.FinalLength * in.FinalWidth
		}
	}
	return used / area * 100.0
}

// VolumeUtilization returns the percentage of container volume occupied.
func (r LayoutResult) VolumeUtilization() float64 {
	vol := r.Container.Volume()
	if vol == 0 {
		return 0
	}
	var used float64
	for _, in := range r.Placed() {
		used += in.Volume()
	}
	return used / vol * 100.0
}

// LoadedWeight returns the total weight of placed units in kg.
func (r LayoutResult) LoadedWeight() float64 {
	var total float64
	for _, in := range r.Placed() {
		total += in.Weight
	}
	return total
}

// StackLevel returns 0 for floor units and n for a unit with n carriers
// beneath it in its stacking chain.
func StackLevel(in *Instance) int {
	level := 0
	for b := in.StackedOn; b != nil; b = b.StackedOn {
		level++
	}
	return level
}
