package engine

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/piwi3910/PalletLoad/internal/model"
)

// Scenario defines a named set of settings to compare.
type Scenario struct {
	Name     string         `json:"name"`
	Settings model.Settings `json:"settings"`
}

// ComparisonResult holds the layout and computed statistics for a single
// scenario.
type ComparisonResult struct {
	Scenario          Scenario           `json:"scenario"`
	Result            model.LayoutResult `json:"-"`
	PlacedCount       int                `json:"placed_count"`
	UnplacedCount     int                `json:"unplaced_count"`
	StackedCount      int                `json:"stacked_count"`
	FloorUtilization  float64            `json:"floor_utilization"`
	VolumeUtilization float64            `json:"volume_utilization"`
	StabilityScore    float64            `json:"stability_score"`
	Stable            bool               `json:"stable"`
}

// CompareScenarios runs the pipeline for each scenario and returns the
// results in scenario order.
func CompareScenarios(ctx context.Context, scenarios []Scenario, req Request, logger *log.Logger) ([]ComparisonResult, error) {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		result, err := New(scenario.Settings, logger).Compute(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
		}

		results = append(results, ComparisonResult{
			Scenario:          scenario,
			Result:            result,
			PlacedCount:       result.PlacedCount,
			UnplacedCount:     result.UnplacedCount,
			StackedCount:      result.StackedCount,
			FloorUtilization:  result.FloorUtilization(),
			VolumeUtilization: result.VolumeUtilization(),
			StabilityScore:    result.Stability.Score,
			Stable:            result.Stability.Stable,
		})
	}

	return results, nil
}

// BuildDefaultScenarios generates what-if alternatives around the current
// settings.
func BuildDefaultScenarios(base model.Settings) []Scenario {
	scenarios := []Scenario{
		{
			Name:     "Current Settings",
			Settings: base,
		},
	}

	// Toggle stacking
	alt := base
	alt.StackingEnabled = !base.StackingEnabled
	name := "Stacking Enabled"
	if base.StackingEnabled {
		name = "Floor Only"
	}
	scenarios = append(scenarios, Scenario{Name: name, Settings: alt})

	// Tight loading
	if base.Clearance > 0 {
		tight := base
		tight.Clearance = 0
		scenarios = append(scenarios, Scenario{
			Name:     "No Clearance",
			Settings: tight,
		})

		wide := base
		wide.Clearance = base.Clearance * 2
		scenarios = append(scenarios, Scenario{
			Name:     fmt.Sprintf("Clearance %.1fcm (double)", wide.Clearance),
			Settings: wide,
		})
	}

	return scenarios
}
