package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PalletLoad/internal/project"
)

func (c *CLI) inventoryPath() string {
	return filepath.Join(filepath.Dir(c.ConfigPath), "inventory.json")
}

func (c *CLI) presetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Use saved pallet presets",
	}
	cmd.AddCommand(c.presetListCommand())
	cmd.AddCommand(c.presetAddCommand())
	cmd.AddCommand(c.presetImportCommand())
	return cmd
}

func (c *CLI) presetListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pallet presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := project.LoadInventory(c.inventoryPath())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(inv.Pallets))
			for _, p := range inv.Pallets {
				rows = append(rows, []string{
					p.Name,
					fmt.Sprintf("%.1f x %.1f x %.1f", p.Length, p.Width, p.Height),
					fmt.Sprintf("%.0f", p.Weight),
				})
			}
			printTable(c.Out, []string{"Name", "L x W x H cm", "kg"}, rows)
			return nil
		},
	}
}

func (c *CLI) presetAddCommand() *cobra.Command {
	var qty int

	cmd := &cobra.Command{
		Use:     "add <project> <preset>",
		Short:   "Append a preset to a project's catalog",
		Example: `  palletload preset add load.toml "EUR 120x80" --qty 16`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := project.LoadInventory(c.inventoryPath())
			if err != nil {
				return err
			}
			preset := inv.FindByName(args[1])
			if preset == nil {
				preset = inv.FindByID(args[1])
			}
			if preset == nil {
				return fmt.Errorf("preset %q not found", args[1])
			}

			p, err := project.LoadProject(args[0])
			if err != nil {
				return err
			}
			entry := preset.ToPalletType(qty)
			if err := entry.Validate(p.Settings.Limits); err != nil {
				return err
			}
			p.Catalog = append(p.Catalog, entry)
			if err := project.SaveProject(args[0], p); err != nil {
				return err
			}
			printSuccess(c.Out, "Added %d x %s to %s", qty, preset.Name, args[0])
			return nil
		},
	}

	cmd.Flags().IntVarP(&qty, "qty", "q", 1, "quantity")
	return cmd
}

func (c *CLI) presetImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Merge presets from an inventory JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := project.LoadInventory(c.inventoryPath())
			if err != nil {
				return err
			}
			before := len(inv.Pallets)
			inv, err = project.ImportInventory(args[0], inv)
			if err != nil {
				return err
			}
			if err := project.SaveInventory(c.inventoryPath(), inv); err != nil {
				return err
			}
			printSuccess(c.Out, "Imported %d new presets", len(inv.Pallets)-before)
			return nil
		},
	}
}

func (c *CLI) backupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or import config, presets and templates",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "export <file>",
		Short: "Write all application data to one JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			inv, err := project.LoadInventory(c.inventoryPath())
			if err != nil {
				return err
			}
			templates, err := project.LoadTemplates(c.templatePath())
			if err != nil {
				return err
			}
			if err := project.ExportAllData(args[0], cfg, inv, templates); err != nil {
				return err
			}
			printSuccess(c.Out, "Exported backup")
			printFile(c.Out, args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Restore application data from a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backup, err := project.ImportAllData(args[0])
			if err != nil {
				return err
			}
			if err := project.SaveAppConfig(c.ConfigPath, backup.Config); err != nil {
				return err
			}
			if err := project.SaveInventory(c.inventoryPath(), backup.Inventory); err != nil {
				return err
			}
			if err := project.SaveTemplates(c.templatePath(), backup.Templates); err != nil {
				return err
			}
			printSuccess(c.Out, "Restored backup from %s (version %s)", args[0], backup.Version)
			return nil
		},
	})

	return cmd
}
