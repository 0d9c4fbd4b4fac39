package engine

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/piwi3910/PalletLoad/internal/model"
)

// Request is one planning job.
type Request struct {
	Catalog   []model.PalletType
	Container model.Container
	Deleted   []model.InstanceKey
}

// Planner runs the full placement pipeline: materialize, floor, stack,
// overflow and stability.
type Planner struct {
	Settings model.Settings
	Logger   *log.Logger
}

func New(settings model.Settings, logger *log.Logger) *Planner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Planner{Settings: settings, Logger: logger}
}

// Compute runs every stage in order and returns a fresh result. It fails
// only on cancellation or when there is nothing to plan.
func (p *Planner) Compute(ctx context.Context, req Request) (model.LayoutResult, error) {
	if err := req.Container.Validate(); err != nil {
		return model.LayoutResult{}, err
	}
	total := 0
	for _, e := range req.Catalog {
		total += e.Quantity
	}
	if total == 0 {
		return model.LayoutResult{}, errors.New("catalog has no units to place")
	}

	instances := Materialize(req.Catalog, req.Deleted)
	if err := ctx.Err(); err != nil {
		return model.LayoutResult{}, fmt.Errorf("layout canceled: %w", err)
	}

	floor := NewFloorPlanner(req.Container, p.Settings).Plan(instances)
	p.Logger.Debug("floor planned",
		"pattern", floor.Pattern, "grid", floor.Grid, "scan", floor.Scan, "unplaced", floor.Unplaced)
	if err := ctx.Err(); err != nil {
		return model.LayoutResult{}, fmt.Errorf("layout canceled: %w", err)
	}

	if p.Settings.StackingEnabled && floor.Unplaced > 0 {
		stack := NewStackPlanner(req.Container, p.Settings).Plan(instances)
		p.Logger.Debug("stacks planned",
			"normal", stack.Normal, "same_signature", stack.SameSignature,
			"relaxed", stack.Relaxed, "passes", stack.Passes, "unplaced", stack.Unplaced)
		if err := ctx.Err(); err != nil {
			return model.LayoutResult{}, fmt.Errorf("layout canceled: %w", err)
		}
	}

	LayoutOverflow(instances, req.Container, p.Settings.OverflowGap)

	result := model.LayoutResult{
		Container: req.Container,
		Settings:  p.Settings,
		Instances: instances,
		Stability: EvaluateStability(instances, req.Container, p.Settings.StabilityThreshold),
	}
	countResult(&result)

	p.Logger.Debug("layout computed",
		"container", req.Container.Name, "placed", result.PlacedCount,
		"unplaced", result.UnplacedCount, "stacked", result.StackedCount,
		"score", fmt.Sprintf("%.1f", result.Stability.Score))
	return result, nil
}

func countResult(r *model.LayoutResult) {
	for _, in := range r.Instances {
		switch {
		case in.Deleted:
			r.DeletedCount++
		case !in.Placed:
			r.UnplacedCount++
		default:
			r.PlacedCount++
			if in.Rotated {
				r.RotatedCount++
			}
			if in.StackedOn != nil {
				r.StackedCount++
			}
		}
	}
}

// ComputeLayout runs the pipeline with default settings for the given
// clearance and stacking switch.
func ComputeLayout(catalog []model.PalletType, container model.Container, clearance float64, stackingEnabled bool) model.LayoutResult {
	s := model.DefaultSettings()
	s.Clearance = clearance
	s.StackingEnabled = stackingEnabled
	result, err := New(s, nil).Compute(context.Background(), Request{Catalog: catalog, Container: container})
	if err != nil {
		return model.LayoutResult{Container: container, Settings: s}
	}
	return result
}
