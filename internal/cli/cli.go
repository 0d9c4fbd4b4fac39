// Package cli implements the palletload command-line interface.
//
// Commands load a project file, run the layout engine and report or export
// the result. All commands support --verbose (-v) for debug logging and
// --config to point at an alternative application config file.
package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/PalletLoad/internal/model"
	"github.com/piwi3910/PalletLoad/internal/project"
)

const appName = "palletload"

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersion sets the version information displayed by --version.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// CLI holds shared state for all commands.
type CLI struct {
	Logger     *log.Logger
	Out        io.Writer
	ConfigPath string
	verbose    bool
}

// New creates a CLI that logs to logw and prints results to out.
func New(out, logw io.Writer) *CLI {
	return &CLI{
		Logger:     newLogger(logw, log.InfoLevel),
		Out:        out,
		ConfigPath: project.DefaultConfigPath(),
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "PalletLoad plans pallet placement and stacking in shipping containers",
		Long:         `PalletLoad computes floor layouts and multi-level stacks for a catalog of pallets in a standard shipping container and exports load plans, labels and floor drawings.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.Logger.SetLevel(log.DebugLevel)
				return nil
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			c.Logger.SetLevel(parseLevel(cfg.LogLevel))
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("%s %s\ncommit: %s\nbuilt: %s\n", appName, version, commit, date))
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", c.ConfigPath, "application config file")

	root.AddCommand(c.planCommand())
	root.AddCommand(c.compareCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.containersCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.templateCommand())
	root.AddCommand(c.presetCommand())
	root.AddCommand(c.backupCommand())

	return root
}

func (c *CLI) loadConfig() (model.AppConfig, error) {
	cfg, err := project.LoadAppConfig(c.ConfigPath)
	if err != nil {
		return model.AppConfig{}, fmt.Errorf("load config %s: %w", c.ConfigPath, err)
	}
	return cfg, nil
}

// rememberProject records path in the recent projects list. Failures are
// logged, not returned.
func (c *CLI) rememberProject(path string) {
	cfg, err := c.loadConfig()
	if err != nil {
		c.Logger.Warn("config not updated", "err", err)
		return
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	cfg.AddRecentProject(path, 10)
	if err := project.SaveAppConfig(c.ConfigPath, cfg); err != nil {
		c.Logger.Warn("config not updated", "err", err)
	}
}

func (c *CLI) templatePath() string {
	return filepath.Join(filepath.Dir(c.ConfigPath), "templates.json")
}
