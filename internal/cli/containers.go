package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PalletLoad/internal/model"
)

func (c *CLI) containersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "containers",
		Short: "List the built-in container classes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(model.ContainerClasses))
			for _, ct := range model.ContainerClasses {
				rows = append(rows, []string{
					ct.Name,
					fmt.Sprintf("%.1f", ct.Length),
					fmt.Sprintf("%.1f", ct.Width),
					fmt.Sprintf("%.1f", ct.Height),
					fmt.Sprintf("%.1f", ct.FloorArea()/10000),
				})
			}
			printTable(c.Out, []string{"Class", "Length cm", "Width cm", "Height cm", "Floor m²"}, rows)
			return nil
		},
	}
}
