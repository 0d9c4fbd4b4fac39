package model

import "github.com/google/uuid"

// PalletPreset is a reusable pallet definition a catalog entry can be
// created from.
type PalletPreset struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Length        float64 `json:"length"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	Weight        float64 `json:"weight"`
	CanStackAbove bool    `json:"can_stack_above"`
	CanStackBelow bool    `json:"can_stack_below"`
}

// NewPalletPreset creates a new PalletPreset with a generated ID. Stacking
// is allowed in both directions.
func NewPalletPreset(name string, length, width, height, weight float64) PalletPreset {
	return PalletPreset{
		ID:            uuid.New().String()[:8],
		Name:          name,
		Length:        length,
		Width:         width,
		Height:        height,
		Weight:        weight,
		CanStackAbove: true,
		CanStackBelow: true,
	}
}

// ToPalletType converts a preset into a catalog entry with the given quantity.
func (pp PalletPreset) ToPalletType(qty int) PalletType {
	pt := NewPalletType(pp.Name, pp.Length, pp.Width, pp.Height, pp.Weight, qty)
	pt.CanStackAbove = pp.CanStackAbove
	pt.CanStackBelow = pp.CanStackBelow
	return pt
}

// Inventory holds the user's saved pallet presets.
type Inventory struct {
	Pallets []PalletPreset `json:"pallets"`
}

// DefaultInventory returns an inventory populated with common pallet formats.
func DefaultInventory() Inventory {
	return Inventory{
		Pallets: []PalletPreset{
			NewPalletPreset("EUR 120x80", 120, 80, 144, 400),
			NewPalletPreset("Industrial 120x100", 120, 100, 144, 600),
			NewPalletPreset("US 48x40 (121.9x101.6)", 121.9, 101.6, 144, 600),
			NewPalletPreset("Half 80x60", 80, 60, 100, 200),
			NewPalletPreset("Block 110x110", 110, 110, 120, 800),
			NewPalletPreset("Crate 100x125", 100, 125, 100, 600),
		},
	}
}

// FindByID returns a pointer to the preset with the given ID, or nil.
func (inv *Inventory) FindByID(id string) *PalletPreset {
	for i := range inv.Pallets {
		if inv.Pallets[i].ID == id {
			return &inv.Pallets[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first preset with the given name, or nil.
func (inv *Inventory) FindByName(name string) *PalletPreset {
	for i := range inv.Pallets {
		if inv.Pallets[i].Name == name {
			return &inv.Pallets[i]
		}
	}
	return nil
}

// Names returns a list of preset names.
func (inv *Inventory) Names() []string {
	names := make([]string, len(inv.Pallets))
	for i, p := range inv.Pallets {
		names[i] = p.Name
	}
	return names
}

// Remove deletes a preset by ID. Returns true if found and removed.
func (inv *Inventory) Remove(id string) bool {
	for i, p := range inv.Pallets {
		if p.ID == id {
			inv.Pallets = append(inv.Pallets[:i], inv.Pallets[i+1:]...)
			return true
		}
	}
	return false
}
