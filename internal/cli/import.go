package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PalletLoad/internal/importer"
	"github.com/piwi3910/PalletLoad/internal/project"
)

func (c *CLI) importCommand() *cobra.Command {
	var (
		output    string
		name      string
		dxfHeight float64
		dxfWeight float64
	)

	cmd := &cobra.Command{
		Use:   "import <file.csv|file.xlsx|file.dxf>",
		Short: "Create a project from a CSV, Excel or DXF pallet list",
		Long: `Read a pallet list from CSV or Excel and write a project file. Columns are
matched by header (label, length, width, height, weight, quantity, stack_above,
stack_below, color) or by position when no header is found. A DXF drawing
contributes one unit per closed rectangle, grouped by footprint. Defaults for
the new project come from the application config.`,
		Example: `  palletload import pallets.csv -o load.toml
  palletload import order.xlsx -o load.json --name "Order 1142"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := args[0]
			var res importer.ImportResult
			if strings.EqualFold(filepath.Ext(src), ".dxf") {
				res = importer.ImportDXF(src, dxfHeight, dxfWeight)
			} else {
				res = importer.ImportFile(src)
			}
			for _, w := range res.Warnings {
				printWarning(c.Out, "%s", w)
			}
			for _, e := range res.Errors {
				printError(c.Out, "%s", e)
			}
			if len(res.Entries) == 0 {
				return fmt.Errorf("no pallet types imported from %s", src)
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
			}
			p := cfg.NewProjectFromConfig(name)
			p.Catalog = res.Entries

			if output == "" {
				output = strings.TrimSuffix(src, filepath.Ext(src)) + ".toml"
			}
			if err := project.SaveProject(output, p); err != nil {
				return err
			}

			printSuccess(c.Out, "Imported %d pallet types", len(res.Entries))
			printFile(c.Out, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "project file to write (.toml or .json)")
	cmd.Flags().StringVar(&name, "name", "", "project name (default: source file name)")
	cmd.Flags().Float64Var(&dxfHeight, "dxf-height", importer.DefaultDXFHeight, "unit height in cm for DXF footprints")
	cmd.Flags().Float64Var(&dxfWeight, "dxf-weight", importer.DefaultDXFWeight, "unit weight in kg for DXF footprints")
	return cmd
}
