package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PalletLoad/internal/model"
	"github.com/piwi3910/PalletLoad/internal/project"
)

func (c *CLI) templateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Manage reusable load templates",
	}
	cmd.AddCommand(c.templateSaveCommand())
	cmd.AddCommand(c.templateListCommand())
	cmd.AddCommand(c.templateNewCommand())
	cmd.AddCommand(c.templateRemoveCommand())
	return cmd
}

func (c *CLI) templateSaveCommand() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "save <project> <name>",
		Short: "Save a project's catalog, container and settings as a template",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := project.LoadProject(args[0])
			if err != nil {
				return err
			}
			store, err := project.LoadTemplates(c.templatePath())
			if err != nil {
				return err
			}
			if store.FindByName(args[1]) != nil {
				return fmt.Errorf("template %q already exists", args[1])
			}

			store.Add(model.NewLoadTemplate(args[1], description, p))
			if err := project.SaveTemplates(c.templatePath(), store); err != nil {
				return err
			}
			printSuccess(c.Out, "Saved template %s", args[1])
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "template description")
	return cmd
}

func (c *CLI) templateListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := project.LoadTemplates(c.templatePath())
			if err != nil {
				return err
			}
			if len(store.Templates) == 0 {
				printInfo(c.Out, "No templates saved")
				return nil
			}

			rows := make([][]string, 0, len(store.Templates))
			for _, t := range store.Templates {
				units := 0
				for _, e := range t.Catalog {
					units += e.Quantity
				}
				rows = append(rows, []string{t.ID, t.Name, t.Container, fmt.Sprint(units), t.Description})
			}
			printTable(c.Out, []string{"ID", "Name", "Container", "Units", "Description"}, rows)
			return nil
		},
	}
}

func (c *CLI) templateNewCommand() *cobra.Command {
	var (
		output string
		name   string
	)

	cmd := &cobra.Command{
		Use:   "new <template>",
		Short: "Create a project from a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := project.LoadTemplates(c.templatePath())
			if err != nil {
				return err
			}
			t := store.FindByName(args[0])
			if t == nil {
				t = store.FindByID(args[0])
			}
			if t == nil {
				return fmt.Errorf("template %q not found", args[0])
			}

			if name == "" {
				name = t.Name
			}
			if output == "" {
				output = name + ".toml"
			}
			if err := project.SaveProject(output, t.ToProject(name)); err != nil {
				return err
			}
			printSuccess(c.Out, "Created project %s from template %s", name, t.Name)
			printFile(c.Out, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "project file to write")
	cmd.Flags().StringVar(&name, "name", "", "project name (default: template name)")
	return cmd
}

func (c *CLI) templateRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a saved template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := project.LoadTemplates(c.templatePath())
			if err != nil {
				return err
			}
			if !store.Remove(args[0]) {
				return fmt.Errorf("template %q not found", args[0])
			}
			if err := project.SaveTemplates(c.templatePath(), store); err != nil {
				return err
			}
			printSuccess(c.Out, "Removed template %s", args[0])
			return nil
		},
	}
}
