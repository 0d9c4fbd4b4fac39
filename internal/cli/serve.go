package cli

import (
	"github.com/spf13/cobra"

	"github.com/piwi3910/PalletLoad/internal/model"
	"github.com/piwi3910/PalletLoad/internal/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout engine over HTTP",
		Long: `Start an HTTP API with GET /healthz, GET /api/v1/containers,
POST /api/v1/layout and POST /api/v1/compare. Request defaults come from the
application config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.ListenAddr
			}
			settings := model.DefaultSettings()
			cfg.ApplyToSettings(&settings)

			return server.New(settings, c.Logger).Run(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
