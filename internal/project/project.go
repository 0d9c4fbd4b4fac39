package project

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/piwi3910/PalletLoad/internal/model"
)

// Format is a project file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFor picks the encoding from the file extension. Anything other
// than .toml is treated as JSON.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatJSON
}

// SaveProject writes a project to path, encoded by extension.
func SaveProject(path string, p model.Project) error {
	var buf bytes.Buffer
	switch FormatFor(path) {
	case FormatTOML:
		if err := toml.NewEncoder(&buf).Encode(p); err != nil {
			return fmt.Errorf("encode project: %w", err)
		}
	default:
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return fmt.Errorf("encode project: %w", err)
		}
		buf.Write(data)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// LoadProject reads a project file. Settings missing from the file keep
// their defaults, and an empty container name selects the default class.
func LoadProject(path string) (model.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Project{}, err
	}

	p := model.NewProject()
	p.Settings.Patterns = nil
	switch FormatFor(path) {
	case FormatTOML:
		if _, err := toml.Decode(string(data), &p); err != nil {
			return model.Project{}, fmt.Errorf("parse %s: %w", path, err)
		}
		if err := defaultTOMLPermissions(data, p.Catalog); err != nil {
			return model.Project{}, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &p); err != nil {
			return model.Project{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if p.Settings.Patterns == nil {
		p.Settings.Patterns = model.DefaultSettings().Patterns
	}
	if p.Container == "" {
		p.Container = model.DefaultContainerName
	}
	if p.Catalog == nil {
		p.Catalog = []model.PalletType{}
	}
	return p, nil
}

// tomlPermissions records which stacking keys a TOML catalog entry set.
type tomlPermissions struct {
	Catalog []struct {
		CanStackAbove *bool `toml:"can_stack_above"`
		CanStackBelow *bool `toml:"can_stack_below"`
	} `toml:"catalog"`
}

// defaultTOMLPermissions enables both stacking permissions on entries that
// leave them out, matching PalletType.UnmarshalJSON.
func defaultTOMLPermissions(data []byte, catalog []model.PalletType) error {
	var perms tomlPermissions
	if _, err := toml.Decode(string(data), &perms); err != nil {
		return err
	}
	for i := range catalog {
		if i >= len(perms.Catalog) {
			break
		}
		if perms.Catalog[i].CanStackAbove == nil {
			catalog[i].CanStackAbove = true
		}
		if perms.Catalog[i].CanStackBelow == nil {
			catalog[i].CanStackBelow = true
		}
	}
	return nil
}
