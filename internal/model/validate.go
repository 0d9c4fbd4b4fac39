package model

import (
	"errors"
	"fmt"
)

// Validate checks a catalog entry against the configured limits.
func (p PalletType) Validate(limits Limits) error {
	var errs []error
	name := p.Label
	if name == "" {
		name = p.ID
	}
	if p.Length <= 0 || p.Length > limits.MaxDimension {
		errs = append(errs, fmt.Errorf("%s: length %.1f out of range (0, %.0f]", name, p.Length, limits.MaxDimension))
	}
	if p.Width <= 0 || p.Width > limits.MaxDimension {
		errs = append(errs, fmt.Errorf("%s: width %.1f out of range (0, %.0f]", name, p.Width, limits.MaxDimension))
	}
	if p.Height < 0 || p.Height > limits.MaxHeight {
		errs = append(errs, fmt.Errorf("%s: height %.1f out of range [0, %.0f]", name, p.Height, limits.MaxHeight))
	}
	if p.Weight < 0 || p.Weight > limits.MaxWeight {
		errs = append(errs, fmt.Errorf("%s: weight %.1f out of range [0, %.0f]", name, p.Weight, limits.MaxWeight))
	}
	if p.Quantity < 1 || p.Quantity > limits.MaxQuantity {
		errs = append(errs, fmt.Errorf("%s: quantity %d out of range [1, %d]", name, p.Quantity, limits.MaxQuantity))
	}
	return errors.Join(errs...)
}

// ValidateCatalog checks every entry and rejects catalogs without units or
// with duplicate IDs.
func ValidateCatalog(entries []PalletType, limits Limits) error {
	if len(entries) == 0 {
		return errors.New("catalog is empty")
	}
	var errs []error
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			errs = append(errs, fmt.Errorf("%s: missing id", e.Label))
		} else if seen[e.ID] {
			errs = append(errs, fmt.Errorf("%s: duplicate id %q", e.Label, e.ID))
		}
		seen[e.ID] = true
		if err := e.Validate(limits); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
