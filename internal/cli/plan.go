package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PalletLoad/internal/engine"
	"github.com/piwi3910/PalletLoad/internal/export"
	"github.com/piwi3910/PalletLoad/internal/model"
	"github.com/piwi3910/PalletLoad/internal/project"
)

// planOptions are the overrides shared by plan and compare.
type planOptions struct {
	container string
	clearance float64
	noStack   bool
	deleted   []string
}

func (o *planOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.container, "container", "c", "", "container class (overrides the project)")
	cmd.Flags().Float64Var(&o.clearance, "clearance", 0, "floor clearance in cm (overrides the project)")
	cmd.Flags().BoolVar(&o.noStack, "no-stack", false, "disable stacking")
	cmd.Flags().StringSliceVar(&o.deleted, "delete", nil, "remove units by key (entry:index), repeatable")
}

// resolve loads the project and applies flag overrides.
func (o *planOptions) resolve(cmd *cobra.Command, path string) (model.Project, engine.Request, error) {
	p, err := project.LoadProject(path)
	if err != nil {
		return model.Project{}, engine.Request{}, err
	}

	if o.container != "" {
		p.Container = o.container
	}
	if cmd.Flags().Changed("clearance") {
		if o.clearance < 0 {
			return model.Project{}, engine.Request{}, fmt.Errorf("clearance must not be negative")
		}
		p.Settings.Clearance = o.clearance
	}
	if o.noStack {
		p.Settings.StackingEnabled = false
	}
	for _, raw := range o.deleted {
		key, err := model.ParseInstanceKey(raw)
		if err != nil {
			return model.Project{}, engine.Request{}, err
		}
		p.Deleted = append(p.Deleted, key)
	}

	container, err := p.ResolveContainer()
	if err != nil {
		return model.Project{}, engine.Request{}, err
	}
	if err := model.ValidateCatalog(p.Catalog, p.Settings.Limits); err != nil {
		return model.Project{}, engine.Request{}, fmt.Errorf("invalid catalog in %s: %w", path, err)
	}

	return p, engine.Request{Catalog: p.Catalog, Container: container, Deleted: p.Deleted}, nil
}

func (c *CLI) planCommand() *cobra.Command {
	var (
		opts   planOptions
		out    string
		pdf    string
		xlsx   string
		dxf    string
		labels string
		check  bool
	)

	cmd := &cobra.Command{
		Use:   "plan <project>",
		Short: "Compute a load plan for a project file",
		Long: `Compute a floor layout and stacks for the catalog in a project file (.json or .toml).

Flags override the project's container, clearance and stacking settings.
Units removed with --delete keep their key and are reported as deleted.`,
		Example: `  palletload plan load.toml
  palletload plan load.toml --container 20ft --clearance 2 --pdf plan.pdf
  palletload plan load.json --delete eur:3 --out result.json --check`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, req, err := opts.resolve(cmd, args[0])
			if err != nil {
				return err
			}

			prog := newProgress(c.Logger)
			result, err := engine.New(p.Settings, c.Logger).Compute(cmd.Context(), req)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Planned %d units", len(result.Instances)))

			c.printResult(p, result)
			c.rememberProject(args[0])

			if out != "" {
				if err := writeResultJSON(out, result); err != nil {
					return err
				}
				printFile(c.Out, out)
			}

			exports := []struct {
				path string
				fn   func(string, model.LayoutResult) error
			}{
				{pdf, export.ExportPDF},
				{xlsx, export.ExportXLSX},
				{dxf, export.ExportDXF},
				{labels, export.ExportLabels},
			}
			for _, e := range exports {
				if e.path == "" {
					continue
				}
				if err := e.fn(e.path, result); err != nil {
					return fmt.Errorf("export %s: %w", e.path, err)
				}
				printFile(c.Out, e.path)
			}

			if check {
				violations := engine.CheckInvariants(result)
				if len(violations) > 0 {
					for _, v := range violations {
						printError(c.Out, "%s", v)
					}
					return fmt.Errorf("%d invariant violations", len(violations))
				}
				printSuccess(c.Out, "All layout invariants hold")
			}
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the layout result as JSON")
	cmd.Flags().StringVar(&pdf, "pdf", "", "write a PDF load plan")
	cmd.Flags().StringVar(&xlsx, "xlsx", "", "write an Excel load list")
	cmd.Flags().StringVar(&dxf, "dxf", "", "write a DXF floor drawing")
	cmd.Flags().StringVar(&labels, "labels", "", "write a PDF label sheet")
	cmd.Flags().BoolVar(&check, "check", false, "verify layout invariants")

	return cmd
}

func (c *CLI) printResult(p model.Project, r model.LayoutResult) {
	fmt.Fprintln(c.Out, StyleTitle.Render(p.Name))
	printKeyValue(c.Out, "Container", fmt.Sprintf("%s (%.1f x %.1f x %.1f cm)",
		r.Container.Name, r.Container.Length, r.Container.Width, r.Container.Height))
	printKeyValue(c.Out, "Placed", StyleNumber.Render(fmt.Sprint(r.PlacedCount)))
	printKeyValue(c.Out, "Stacked", fmt.Sprint(r.StackedCount))
	printKeyValue(c.Out, "Rotated", fmt.Sprint(r.RotatedCount))
	if r.DeletedCount > 0 {
		printKeyValue(c.Out, "Deleted", fmt.Sprint(r.DeletedCount))
	}
	printKeyValue(c.Out, "Floor", fmt.Sprintf("%.1f%%", r.FloorUtilization()))
	printKeyValue(c.Out, "Volume", fmt.Sprintf("%.1f%%", r.VolumeUtilization()))
	printKeyValue(c.Out, "Weight", fmt.Sprintf("%.0f kg", r.LoadedWeight()))
	printKeyValue(c.Out, "Stability", fmt.Sprintf("%.1f", r.Stability.Score))

	if r.UnplacedCount > 0 {
		printWarning(c.Out, "%d units could not be placed", r.UnplacedCount)
		for _, in := range r.Unplaced() {
			printDetail(c.Out, "%s %s (%.0f x %.0f x %.0f cm, %.0f kg)",
				in.Key(), in.Label, in.Length, in.Width, in.Height, in.Weight)
		}
	} else {
		printSuccess(c.Out, "All units placed")
	}
	if !r.Stability.Stable {
		printWarning(c.Out, "Center of gravity is off-center (score %.1f)", r.Stability.Score)
	}

	levels := make(map[int]int)
	for _, in := range r.Placed() {
		levels[model.StackLevel(in)]++
	}
	keys := make([]int, 0, len(levels))
	for k := range levels {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, k := range keys {
		printDetail(c.Out, "level %d: %d units", k, levels[k])
	}
}

func writeResultJSON(path string, result model.LayoutResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
