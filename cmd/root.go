package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/quocvuong92/shell-ai/internal/api"
	"github.com/quocvuong92/shell-ai/internal/assistant"
	"github.com/quocvuong92/shell-ai/internal/config"
	"github.com/quocvuong92/shell-ai/internal/constants"
	"github.com/quocvuong92/shell-ai/internal/display"
	"github.com/quocvuong92/shell-ai/internal/logging"
)

// Flag names shared by every command
const (
	flagProvider     = "provider"
	flagModel        = "model"
	flagMaxTokens    = "max-tokens"
	flagTemperature  = "temperature"
	flagFrontend     = "frontend"
	flagOutputFormat = "output-format"
	flagDebug        = "debug"
	flagLocale       = "locale"
)

// App holds the application state
type App struct {
	cfg *config.Config

	// Set by tests; nil means the real process environment and terminal.
	env         config.EnvLookup
	configPaths *config.Paths
	stdin       io.Reader
	stdout      io.Writer
	newClient   func(api.Endpoint) assistant.Completer
	fetchRef    assistant.ReferenceFetcher
}

// NewApp creates a new App wired to the process environment
func NewApp() *App {
	return &App{
		env:    config.OSEnv(),
		stdin:  os.Stdin,
		stdout: os.Stdout,
		newClient: func(ep api.Endpoint) assistant.Completer {
			return api.NewClient(ep)
		},
		fetchRef: assistant.ManPage,
	}
}

// NewRootCmd builds the command tree
func NewRootCmd(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   constants.AppName,
		Short: "Turn natural language into shell commands",
		Long: `Shell-AI suggests shell commands for a task described in plain language
and explains what existing commands do.

Settings are read from built-in defaults, config.toml, config.json,
SHAI_* and provider environment variables, and flags, in that order.

Examples:
  shell-ai suggest "find files larger than 100MB"
  shai "compress this directory"            # shorthand for suggest
  shell-ai explain "tar -xzvf archive.tar.gz"
  shell-ai config                            # show resolved settings`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.loadConfig(cmd.Flags())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String(flagProvider, "", "AI provider: "+strings.Join(config.ProviderNames(), ", "))
	flags.StringP(flagModel, "m", "", "Model name (overrides provider model)")
	flags.Uint32(flagMaxTokens, 0, "Max tokens for an AI completion")
	flags.Float32(flagTemperature, 0, "Sampling temperature")
	flags.String(flagFrontend, "", "UI mode: "+strings.Join(config.ValidFrontends, ", "))
	flags.StringP(flagOutputFormat, "o", "", "Output format: "+strings.Join(config.ValidOutputFormats, ", "))
	flags.String(flagDebug, "", "Debug log level: "+strings.Join(config.ValidDebugLevels, ", "))
	flags.Lookup(flagDebug).NoOptDefVal = string(config.DebugDebug)
	flags.String(flagLocale, "", "Language for explanations (empty disables)")

	rootCmd.AddCommand(NewSuggestCmd(app))
	rootCmd.AddCommand(NewExplainCmd(app))
	rootCmd.AddCommand(NewConfigCmd(app))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	app := NewApp()
	rootCmd := NewRootCmd(app)
	rootCmd.SetArgs(shorthandArgs(os.Args[0], os.Args[1:], rootCmd))

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		display.ShowError(err.Error())
		os.Exit(1)
	}
}

// shorthandArgs turns `shai <words>` into `shell-ai suggest <words>`.
func shorthandArgs(argv0 string, args []string, root *cobra.Command) []string {
	name := strings.TrimSuffix(filepath.Base(argv0), filepath.Ext(argv0))
	if name != constants.ShortName {
		return args
	}
	if len(args) > 0 {
		if sub, _, err := root.Find(args); err == nil && sub != root {
			return args
		}
		switch args[0] {
		case "-h", "--help", "help", "completion":
			return args
		}
	}
	return append([]string{"suggest"}, args...)
}

// overridesFromFlags collects the flags the user actually set.
func overridesFromFlags(flags *pflag.FlagSet) (config.CLIOverrides, error) {
	var o config.CLIOverrides

	str := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}
	o.Provider = str(flagProvider)
	o.Model = str(flagModel)
	o.Frontend = str(flagFrontend)
	o.OutputFormat = str(flagOutputFormat)
	o.Debug = str(flagDebug)
	o.Locale = str(flagLocale)

	if flags.Changed(flagMaxTokens) {
		v, err := flags.GetUint32(flagMaxTokens)
		if err != nil {
			return o, fmt.Errorf("failed to read --%s: %w", flagMaxTokens, err)
		}
		o.MaxTokens = &v
	}
	if flags.Changed(flagTemperature) {
		v, err := flags.GetFloat32(flagTemperature)
		if err != nil {
			return o, fmt.Errorf("failed to read --%s: %w", flagTemperature, err)
		}
		o.Temperature = &v
	}
	return o, nil
}

// applyDebugLevel maps the configured debug level onto the logger. An
// unset level keeps the default.
func applyDebugLevel(level config.DebugLevel) {
	if level == "" {
		return
	}
	logging.SetLevel(logging.ParseLevel(string(level)))
}

func (app *App) loadConfig(flags *pflag.FlagSet) error {
	overrides, err := overridesFromFlags(flags)
	if err != nil {
		return err
	}
	// --debug applies before loading so file and variable lookups are logged
	if overrides.Debug != nil {
		if level, err := config.ParseDebugLevel(*overrides.Debug); err == nil {
			applyDebugLevel(level)
		}
	}

	opts := []config.Option{config.WithEnv(app.env), config.WithOverrides(overrides)}
	if app.configPaths != nil {
		opts = append(opts, config.WithPaths(app.configPaths.TOML, app.configPaths.JSON))
	}

	cfg, err := config.Load(opts...)
	if err != nil {
		return err
	}
	applyDebugLevel(cfg.Debug.Value)
	app.cfg = cfg
	return nil
}

// client validates the configuration and builds a chat client for it.
func (app *App) client() (assistant.Completer, *config.Validated, error) {
	validated, err := app.cfg.Validate()
	if err != nil {
		return nil, nil, err
	}
	ep := api.EndpointFromConfig(validated)
	logging.Debug("Using provider", logging.Fields{
		"provider": string(ep.Provider),
		"model":    ep.Model,
		"source":   app.cfg.Origin("provider"),
	})
	return app.newClient(ep), validated, nil
}

func (app *App) jsonOutput() bool {
	return app.cfg.OutputFormat.Value == config.OutputJSON
}
