package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quocvuong92/shell-ai/internal/config"
	"github.com/quocvuong92/shell-ai/internal/display"
)

// NewConfigCmd creates the config command and its subcommands
func NewConfigCmd(app *App) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration",
		Long: `Show every setting with its value and where it came from: a flag,
an environment variable, config.toml, config.json or the built-in default.

Secrets are masked. Use -o json for machine readable output.

Examples:
  shell-ai config
  shell-ai config -o json
  shell-ai config init
  shell-ai config schema`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runConfigShow()
		},
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runConfigShow()
		},
	})
	configCmd.AddCommand(newConfigInitCmd(app))
	configCmd.AddCommand(&cobra.Command{
		Use:   "schema",
		Short: "List every setting, its variables and accepted values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runConfigSchema()
		},
	})

	return configCmd
}

func newConfigInitCmd(app *App) *cobra.Command {
	var toStdout bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a commented config.toml",
		Long: `Write a config.toml template listing every setting, commented out,
to the config directory. An existing file is never overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runConfigInit(toStdout)
		},
	}
	initCmd.Flags().BoolVar(&toStdout, "stdout", false, "Print the template instead of writing it")
	return initCmd
}

func (app *App) runConfigShow() error {
	report := app.cfg.Report()
	if app.jsonOutput() {
		return display.PrintJSON(app.stdout, report)
	}
	return display.RenderConfigReport(app.stdout, report)
}

func (app *App) runConfigInit(toStdout bool) error {
	if toStdout {
		_, err := fmt.Fprint(app.stdout, config.GenerateInitConfig())
		return err
	}

	paths := app.configPaths
	if paths == nil {
		p, err := config.DefaultPaths()
		if err != nil {
			return err
		}
		paths = &p
	}
	if err := config.WriteInitConfig(paths.TOML); err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "Created %s\n", paths.TOML)
	return nil
}

func (app *App) runConfigSchema() error {
	schema := config.BuildSchema()
	if app.jsonOutput() {
		return display.PrintJSON(app.stdout, schema)
	}
	return display.RenderSchema(app.stdout, schema)
}
