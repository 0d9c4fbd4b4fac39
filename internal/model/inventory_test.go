package model

import (
	"testing"
)

func TestDefaultInventoryHasPresets(t *testing.T) {
	inv := DefaultInventory()
	if len(inv.Pallets) == 0 {
		t.Fatal("expected default presets")
	}
	if inv.FindByName("EUR 120x80") == nil {
		t.Error("expected EUR pallet preset")
	}
}

func TestPresetToPalletType(t *testing.T) {
	pp := NewPalletPreset("Drum pallet", 120, 120, 130, 900)
	pp.CanStackAbove = false

	pt := pp.ToPalletType(4)
	if pt.Quantity != 4 {
		t.Errorf("expected quantity 4, got %d", pt.Quantity)
	}
	if pt.Label != "Drum pallet" {
		t.Errorf("expected label 'Drum pallet', got %s", pt.Label)
	}
	if pt.CanStackAbove {
		t.Error("expected CanStackAbove to be carried over as false")
	}
	if !pt.CanStackBelow {
		t.Error("expected CanStackBelow to stay true")
	}
	if pt.ID == pp.ID {
		t.Error("catalog entry should get its own ID")
	}
}

func TestInventoryFindAndRemove(t *testing.T) {
	inv := DefaultInventory()
	first := inv.Pallets[0]

	if got := inv.FindByID(first.ID); got == nil || got.Name != first.Name {
		t.Fatalf("FindByID did not return %s", first.Name)
	}
	if !inv.Remove(first.ID) {
		t.Fatal("expected Remove to succeed")
	}
	if inv.FindByID(first.ID) != nil {
		t.Error("preset should be gone after Remove")
	}
	if inv.Remove("missing") {
		t.Error("Remove of unknown ID should return false")
	}
}

func TestInventoryNames(t *testing.T) {
	inv := Inventory{Pallets: []PalletPreset{
		NewPalletPreset("A", 100, 100, 100, 100),
		NewPalletPreset("B", 100, 100, 100, 100),
	}}
	names := inv.Names()
	if len(names) != 2 || names[0] != "A" || names[1] != "B" {
		t.Errorf("unexpected names %v", names)
	}
}
