package model

import (
	"time"

	"github.com/google/uuid"
)

// LoadTemplate is a reusable load configuration: a catalog, a container
// class and settings, without deletions or results.
type LoadTemplate struct {
	ID          string       `json:"id" toml:"id"`
	Name        string       `json:"name" toml:"name"`
	Description string       `json:"description" toml:"description"`
	CreatedAt   string       `json:"created_at" toml:"created_at"`
	UpdatedAt   string       `json:"updated_at" toml:"updated_at"`
	Container   string       `json:"container" toml:"container"`
	Catalog     []PalletType `json:"catalog" toml:"catalog"`
	Settings    Settings     `json:"settings" toml:"settings"`
}

// NewLoadTemplate captures a project's catalog, container and settings.
func NewLoadTemplate(name, description string, p Project) LoadTemplate {
	now := time.Now().UTC().Format(time.RFC3339)
	return LoadTemplate{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Container:   p.Container,
		Catalog:     copyCatalog(p.Catalog),
		Settings:    p.Settings,
	}
}

// ToProject creates a new Project from this template. Catalog entries get
// fresh IDs so they are independent of the template.
func (t LoadTemplate) ToProject(projectName string) Project {
	catalog := make([]PalletType, len(t.Catalog))
	for i, e := range t.Catalog {
		catalog[i] = NewPalletType(e.Label, e.Length, e.Width, e.Height, e.Weight, e.Quantity)
		catalog[i].CanStackAbove = e.CanStackAbove
		catalog[i].CanStackBelow = e.CanStackBelow
		catalog[i].Color = e.Color
	}

	return Project{
		Name:      projectName,
		Container: t.Container,
		Catalog:   catalog,
		Settings:  t.Settings,
	}
}

// TemplateStore holds a collection of load templates.
type TemplateStore struct {
	Templates []LoadTemplate `json:"templates"`
}

// NewTemplateStore creates an empty template store.
func NewTemplateStore() TemplateStore {
	return TemplateStore{
		Templates: []LoadTemplate{},
	}
}

// Add adds a template to the store.
func (ts *TemplateStore) Add(t LoadTemplate) {
	ts.Templates = append(ts.Templates, t)
}

// Remove removes a template by ID. Returns true if found and removed.
func (ts *TemplateStore) Remove(id string) bool {
	for i, t := range ts.Templates {
		if t.ID == id {
			ts.Templates = append(ts.Templates[:i], ts.Templates[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the template with the given ID, or nil.
func (ts *TemplateStore) FindByID(id string) *LoadTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].ID == id {
			return &ts.Templates[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first template with the given name, or nil.
func (ts *TemplateStore) FindByName(name string) *LoadTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].Name == name {
			return &ts.Templates[i]
		}
	}
	return nil
}

// Names returns the template names in store order.
func (ts *TemplateStore) Names() []string {
	names := make([]string, len(ts.Templates))
	for i, t := range ts.Templates {
		names[i] = t.Name
	}
	return names
}

func copyCatalog(entries []PalletType) []PalletType {
	if entries == nil {
		return []PalletType{}
	}
	cp := make([]PalletType, len(entries))
	copy(cp, entries)
	return cp
}
