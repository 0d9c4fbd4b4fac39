package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// InstanceKey identifies one physical unit: the catalog entry and its
// position within that entry's quantity.
type InstanceKey struct {
	EntryID string `json:"entry_id" toml:"entry_id"`
	Index   int    `json:"index" toml:"index"`
}

// String formats the key as "entry:index".
func (k InstanceKey) String() string {
	return fmt.Sprintf("%s:%d", k.EntryID, k.Index)
}

// ParseInstanceKey parses the "entry:index" form produced by String.
func ParseInstanceKey(s string) (InstanceKey, error) {
	i := strings.LastIndex(s, ":")
	if i <= 0 || i == len(s)-1 {
		return InstanceKey{}, fmt.Errorf("invalid instance key %q (want entry:index)", s)
	}
	idx, err := strconv.Atoi(s[i+1:])
	if err != nil || idx < 0 {
		return InstanceKey{}, fmt.Errorf("invalid instance index in %q", s)
	}
	return InstanceKey{EntryID: s[:i], Index: idx}, nil
}

// Instance is one physical pallet and its placement state.
type Instance struct {
	EntryID       string
	Label         string
	Index         int
	Color         string
	Length        float64
	Width         float64
	Height        float64
	Weight        float64
	CanStackAbove bool
	CanStackBelow bool

	Placed  bool
	Deleted bool

	X, Y, Z     float64
	FinalLength float64 // footprint along X in the chosen orientation
	FinalWidth  float64 // footprint along Y in the chosen orientation
	FinalHeight float64
	Rotated     bool

	StackedOn *Instance   // unit directly carrying this one, nil on the floor
	Children  []*Instance // units stacked on this one
}

// Key returns the instance's identity.
func (in *Instance) Key() InstanceKey {
	return InstanceKey{EntryID: in.EntryID, Index: in.Index}
}

// Top returns the Z coordinate of the upper face.
func (in *Instance) Top() float64 {
	return in.Z + in.FinalHeight
}

// Area returns the footprint area in cm².
func (in *Instance) Area() float64 {
	return in.Length * in.Width
}

// Volume returns the bounding volume in cm³.
func (in *Instance) Volume() float64 {
	return in.Length * in.Width * in.Height
}

// Center returns the volumetric center of the placed unit.
func (in *Instance) Center() (x, y, z float64) {
	return in.X + in.FinalLength/2, in.Y + in.FinalWidth/2, in.Z + in.FinalHeight/2
}

// SetOrientation sets the final footprint for the given rotation.
func (in *Instance) SetOrientation(rotated bool) {
	in.Rotated = rotated
	if rotated {
		in.FinalLength, in.FinalWidth = in.Width, in.Length
	} else {
		in.FinalLength, in.FinalWidth = in.Length, in.Width
	}
	in.FinalHeight = in.Height
}

// Active reports whether the unit takes part in placement.
func (in *Instance) Active() bool {
	return in.Placed && !in.Deleted
}

type instanceJSON struct {
	EntryID       string   `json:"entry_id"`
	Label         string   `json:"label"`
	Index         int      `json:"index"`
	Color         string   `json:"color,omitempty"`
	Length        float64  `json:"length"`
	Width         float64  `json:"width"`
	Height        float64  `json:"height"`
	Weight        float64  `json:"weight"`
	CanStackAbove bool     `json:"can_stack_above"`
	CanStackBelow bool     `json:"can_stack_below"`
	Placed        bool     `json:"placed"`
	Deleted       bool     `json:"deleted,omitempty"`
	X             float64  `json:"x"`
	Y             float64  `json:"y"`
	Z             float64  `json:"z"`
	FinalLength   float64  `json:"final_length"`
	FinalWidth    float64  `json:"final_width"`
	FinalHeight   float64  `json:"final_height"`
	Rotated       bool     `json:"rotated"`
	StackedOn     string   `json:"stacked_on,omitempty"`
	Children      []string `json:"children,omitempty"`
}

// MarshalJSON writes stacking links as instance keys.
func (in *Instance) MarshalJSON() ([]byte, error) {
	out := instanceJSON{
		EntryID:       in.EntryID,
		Label:         in.Label,
		Index:         in.Index,
		Color:         in.Color,
		Length:        in.Length,
		Width:         in.Width,
		Height:        in.Height,
		Weight:        in.Weight,
		CanStackAbove: in.CanStackAbove,
		CanStackBelow: in.CanStackBelow,
		Placed:        in.Placed,
		Deleted:       in.Deleted,
		X:             in.X,
		Y:             in.Y,
		Z:             in.Z,
		FinalLength:   in.FinalLength,
		FinalWidth:    in.FinalWidth,
		FinalHeight:   in.FinalHeight,
		Rotated:       in.Rotated,
	}
	if in.StackedOn != nil {
		out.StackedOn = in.StackedOn.Key().String()
	}
	for _, c := range in.Children {
		out.Children = append(out.Children, c.Key().String())
	}
	return json.Marshal(out)
}
