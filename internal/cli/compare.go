package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PalletLoad/internal/engine"
)

func (c *CLI) compareCommand() *cobra.Command {
	var opts planOptions

	cmd := &cobra.Command{
		Use:   "compare <project>",
		Short: "Compare what-if scenarios for a project",
		Long: `Run the planner for the project's settings and for alternatives with
stacking toggled and clearance removed or doubled, then print one row per scenario.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, req, err := opts.resolve(cmd, args[0])
			if err != nil {
				return err
			}

			results, err := engine.CompareScenarios(cmd.Context(), engine.BuildDefaultScenarios(p.Settings), req, c.Logger)
			if err != nil {
				return err
			}

			header := []string{"Scenario", "Placed", "Unplaced", "Stacked", "Floor %", "Volume %", "Stability"}
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				rows = append(rows, []string{
					r.Scenario.Name,
					fmt.Sprint(r.PlacedCount),
					fmt.Sprint(r.UnplacedCount),
					fmt.Sprint(r.StackedCount),
					fmt.Sprintf("%.1f", r.FloorUtilization),
					fmt.Sprintf("%.1f", r.VolumeUtilization),
					fmt.Sprintf("%.1f", r.StabilityScore),
				})
			}

			fmt.Fprintln(c.Out, StyleTitle.Render(p.Name))
			printTable(c.Out, header, rows)
			return nil
		},
	}

	opts.register(cmd)
	return cmd
}
