package model

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Container is a fixed cargo volume in cm.
type Container struct {
	Name   string  `json:"name" toml:"name"`
	Length float64 `json:"length" toml:"length"` // X axis, cm
	Width  float64 `json:"width" toml:"width"`   // Y axis, cm
	Height float64 `json:"height" toml:"height"` // Z axis, cm
}

// Validate reports an error unless all three dimensions are positive.
func (c Container) Validate() error {
	if c.Length <= 0 || c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("container %q: dimensions must be positive (got %.1f x %.1f x %.1f)",
			c.Name, c.Length, c.Width, c.Height)
	}
	return nil
}

// FloorArea returns the usable floor area in cm².
func (c Container) FloorArea() float64 {
	return c.Length * c.Width
}

// Volume returns the interior volume in cm³.
func (c Container) Volume() float64 {
	return c.Length * c.Width * c.Height
}

// Built-in container classes (interior dimensions).
var ContainerClasses = []Container{
	{Name: "20ft", Length: 589.8, Width: 235.0, Height: 235.0},
	{Name: "40ft", Length: 1203.2, Width: 235.0, Height: 235.0},
	{Name: "40ft-hc", Length: 1203.2, Width: 235.0, Height: 269.8},
}

// DefaultContainerName is the class selected when none is given.
const DefaultContainerName = "40ft"

// GetContainer returns a container class by name.
func GetContainer(name string) (Container, bool) {
	for _, c := range ContainerClasses {
		if c.Name == name {
			return c, true
		}
	}
	return Container{}, false
}

// ContainerNames returns the names of all built-in container classes.
func ContainerNames() []string {
	names := make([]string, 0, len(ContainerClasses))
	for _, c := range ContainerClasses {
		names = append(names, c.Name)
	}
	return names
}

// PalletType is a user-defined catalog entry. Each unit of Quantity becomes
// one Instance when a layout is computed.
type PalletType struct {
	ID            string  `json:"id" toml:"id"`
	Label         string  `json:"label" toml:"label"`
	Length        float64 `json:"length" toml:"length"` // cm
	Width         float64 `json:"width" toml:"width"`   // cm
	Height        float64 `json:"height" toml:"height"` // cm
	Weight        float64 `json:"weight" toml:"weight"` // kg
	Quantity      int     `json:"quantity" toml:"quantity"`
	CanStackAbove bool    `json:"can_stack_above" toml:"can_stack_above"` // other units may rest on this one
	CanStackBelow bool    `json:"can_stack_below" toml:"can_stack_below"` // this unit may rest on another
	Color         string  `json:"color,omitempty" toml:"color,omitempty"` // "#RRGGBB"; empty = palette
}

// NewPalletType creates a catalog entry with a generated ID and both
// stacking permissions enabled.
func NewPalletType(label string, length, width, height, weight float64, qty int) PalletType {
	return PalletType{
		ID:            uuid.New().String()[:8],
		Label:         label,
		Length:        length,
		Width:         width,
		Height:        height,
		Weight:        weight,
		Quantity:      qty,
		CanStackAbove: true,
		CanStackBelow: true,
	}
}

// UnmarshalJSON defaults both stacking permissions to true when the
// document leaves them out.
func (p *PalletType) UnmarshalJSON(data []byte) error {
	type plain PalletType
	v := plain{CanStackAbove: true, CanStackBelow: true}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = PalletType(v)
	return nil
}

// Footprint is an axis-aligned floor rectangle size.
type Footprint struct {
	Length float64 `json:"length" toml:"length"`
	Width  float64 `json:"width" toml:"width"`
}

// Matches reports whether the footprint equals l x w exactly.
func (f Footprint) Matches(l, w float64) bool {
	return f.Length == l && f.Width == w
}

// PatternKind names a hand-tuned floor arrangement.
type PatternKind string

const (
	// PatternPairedRows fills two adjacent rows across the container width,
	// one unit rotated and one not per column, alternating per column.
	PatternPairedRows PatternKind = "paired-rows"
)

// PatternRule binds a template arrangement to one footprint.
type PatternRule struct {
	Footprint Footprint   `json:"footprint" toml:"footprint"`
	Kind      PatternKind `json:"kind" toml:"kind"`
}

// Limits bound catalog entries. The engine assumes entries were checked
// against these before a run.
type Limits struct {
	MaxDimension float64 `json:"max_dimension" toml:"max_dimension"` // length and width, cm
	MaxHeight    float64 `json:"max_height" toml:"max_height"`       // cm
	MaxWeight    float64 `json:"max_weight" toml:"max_weight"`       // kg
	MaxQuantity  int     `json:"max_quantity" toml:"max_quantity"`
}

// DefaultLimits returns the catalog bounds used by the importer and the API.
func DefaultLimits() Limits {
	return Limits{
		MaxDimension: 300,
		MaxHeight:    300,
		MaxWeight:    5000,
		MaxQuantity:  100,
	}
}

// Settings holds clearance, stacking policy and planner tuning.
type Settings struct {
	Clearance       float64 `json:"clearance" toml:"clearance"` // cm, floor plane only
	StackingEnabled bool    `json:"stacking_enabled" toml:"stacking_enabled"`

	// Weight policy: a base may carry clamp(weight*ratio, min, cap) in total,
	// its own weight included.
	WeightRatioLimit  float64 `json:"weight_ratio_limit" toml:"weight_ratio_limit"`
	MinBaseWeight     float64 `json:"min_base_weight" toml:"min_base_weight"`
	MaxStackWeightCap float64 `json:"max_stack_weight_cap" toml:"max_stack_weight_cap"`

	// Floor planner tuning
	ScanStep        float64       `json:"scan_step" toml:"scan_step"`
	PatternMinCount int           `json:"pattern_min_count" toml:"pattern_min_count"`
	Patterns        []PatternRule `json:"patterns" toml:"patterns"`
	GridCell        Footprint     `json:"grid_cell" toml:"grid_cell"`
	OverflowGap     float64       `json:"overflow_gap" toml:"overflow_gap"`

	StabilityThreshold float64 `json:"stability_threshold" toml:"stability_threshold"`

	Limits Limits `json:"limits" toml:"limits"`
}

// DefaultSettings returns the stock planner configuration.
func DefaultSettings() Settings {
	return Settings{
		Clearance:         1.0,
		StackingEnabled:   true,
		WeightRatioLimit:  2.0,
		MinBaseWeight:     500,
		MaxStackWeightCap: 3000,
		ScanStep:          5,
		PatternMinCount:   8,
		Patterns: []PatternRule{
			{Footprint: Footprint{Length: 100, Width: 125}, Kind: PatternPairedRows},
			{Footprint: Footprint{Length: 120, Width: 80}, Kind: PatternPairedRows},
		},
		GridCell:           Footprint{Length: 110, Width: 110},
		OverflowGap:        20,
		StabilityThreshold: 70,
		Limits:             DefaultLimits(),
	}
}

// MaxStackWeight is the total weight (own weight included) a base of the
// given weight may carry.
func (s Settings) MaxStackWeight(baseWeight float64) float64 {
	w := baseWeight * s.WeightRatioLimit
	if w < s.MinBaseWeight {
		w = s.MinBaseWeight
	}
	if w > s.MaxStackWeightCap {
		w = s.MaxStackWeightCap
	}
	return w
}

// Project ties a container choice, a catalog and settings together for
// save/load.
type Project struct {
	Name      string        `json:"name" toml:"name"`
	Container string        `json:"container" toml:"container"`
	Catalog   []PalletType  `json:"catalog" toml:"catalog"`
	Settings  Settings      `json:"settings" toml:"settings"`
	Deleted   []InstanceKey `json:"deleted,omitempty" toml:"deleted,omitempty"`
}

func NewProject() Project {
	return Project{
		Name:      "Untitled",
		Container: DefaultContainerName,
		Catalog:   []PalletType{},
		Settings:  DefaultSettings(),
	}
}

// ResolveContainer looks up the project's container class.
func (p Project) ResolveContainer() (Container, error) {
	name := p.Container
	if name == "" {
		name = DefaultContainerName
	}
	c, ok := GetContainer(name)
	if !ok {
		return Container{}, fmt.Errorf("unknown container class %q", name)
	}
	return c, nil
}

// Palette used when a catalog entry has no explicit color.
var Palette = []string{
	"#4CAF50", // green
	"#2196F3", // blue
	"#FF9800", // orange
	"#9C27B0", // purple
	"#00BCD4", // cyan
	"#F44336", // red
	"#FFEB3B", // yellow
	"#795548", // brown
}

// ColorFor returns the explicit color or the palette color for catalog position i.
func ColorFor(explicit string, i int) string {
	if explicit != "" {
		return explicit
	}
	return Palette[i%len(Palette)]
}
