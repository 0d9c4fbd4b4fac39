package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Defaults applied to new projects
	DefaultContainer         string  `json:"default_container"`
	DefaultClearance         float64 `json:"default_clearance"`
	DefaultStackingEnabled   bool    `json:"default_stacking_enabled"`
	DefaultWeightRatioLimit  float64 `json:"default_weight_ratio_limit"`
	DefaultMinBaseWeight     float64 `json:"default_min_base_weight"`
	DefaultMaxStackWeightCap float64 `json:"default_max_stack_weight_cap"`

	// Application preferences
	LogLevel       string   `json:"log_level"` // "debug", "info", "warn"
	ListenAddr     string   `json:"listen_addr"`
	RecentProjects []string `json:"recent_projects"`
}

// DefaultAppConfig returns an AppConfig populated with the values from
// DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultContainer:         DefaultContainerName,
		DefaultClearance:         defaults.Clearance,
		DefaultStackingEnabled:   defaults.StackingEnabled,
		DefaultWeightRatioLimit:  defaults.WeightRatioLimit,
		DefaultMinBaseWeight:     defaults.MinBaseWeight,
		DefaultMaxStackWeightCap: defaults.MaxStackWeightCap,
		LogLevel:                 "info",
		ListenAddr:               ":8080",
		RecentProjects:           []string{},
	}
}

// ApplyToSettings copies the default values from AppConfig into a Settings struct.
// This is used when creating a new project so it inherits the user's saved defaults.
func (c AppConfig) ApplyToSettings(s *Settings) {
	s.Clearance = c.DefaultClearance
	s.StackingEnabled = c.DefaultStackingEnabled
	s.WeightRatioLimit = c.DefaultWeightRatioLimit
	s.MinBaseWeight = c.DefaultMinBaseWeight
	s.MaxStackWeightCap = c.DefaultMaxStackWeightCap
}

// NewProjectFromConfig creates an empty project using the saved defaults.
func (c AppConfig) NewProjectFromConfig(name string) Project {
	p := NewProject()
	p.Name = name
	if c.DefaultContainer != "" {
		p.Container = c.DefaultContainer
	}
	c.ApplyToSettings(&p.Settings)
	return p
}

// AddRecentProject moves path to the front of the recent list, keeping at
// most max entries.
func (c *AppConfig) AddRecentProject(path string, max int) {
	recent := []string{path}
	for _, p := range c.RecentProjects {
		if p != path {
			recent = append(recent, p)
		}
	}
	if max > 0 && len(recent) > max {
		recent = recent[:max]
	}
	c.RecentProjects = recent
}
