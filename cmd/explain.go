package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/quocvuong92/shell-ai/internal/assistant"
	"github.com/quocvuong92/shell-ai/internal/display"
	"github.com/quocvuong92/shell-ai/internal/logging"
)

// NewExplainCmd creates the explain command
func NewExplainCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "explain [command...]",
		Short: "Explain what a shell command does",
		Long: `Explain a shell command part by part.

The command is taken from the arguments, or from standard input when it
is piped. Man pages for the commands involved are sent along as reference,
bounded by max_reference_chars.

Examples:
  shell-ai explain "find . -name '*.go' -mtime -1"
  echo "rsync -avz src/ host:dst/" | shell-ai explain
  shell-ai explain --locale fr "ls -la"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runExplain(cmd, args)
		},
	}
}

// isPiped reports whether r is something other than an interactive terminal
func isPiped(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return true
	}
	return !term.IsTerminal(int(f.Fd()))
}

func (app *App) commandToExplain(args []string) (string, error) {
	if command := strings.TrimSpace(strings.Join(args, " ")); command != "" {
		return command, nil
	}
	if app.stdin == nil || !isPiped(app.stdin) {
		return "", assistant.ErrEmptyCommand
	}
	data, err := io.ReadAll(app.stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read command from stdin: %w", err)
	}
	command := strings.TrimSpace(string(data))
	if command == "" {
		return "", assistant.ErrEmptyCommand
	}
	return command, nil
}

func (app *App) runExplain(cmd *cobra.Command, args []string) error {
	command, err := app.commandToExplain(args)
	if err != nil {
		return err
	}

	client, _, err := app.client()
	if err != nil {
		return err
	}

	opts := assistant.ExplainOptions{
		Locale:            assistant.ResolveLocale(app.cfg.Locale.Value, app.env),
		MaxReferenceChars: int(app.cfg.MaxReferenceChars.Value),
		Fetch:             app.fetchRef,
	}
	logging.Debug("Explaining command", logging.Fields{"locale": opts.Locale, "max_reference_chars": opts.MaxReferenceChars})

	var sp *display.Spinner
	if !app.jsonOutput() {
		sp = display.NewSpinner("Explaining...")
		sp.Start()
	}
	explanation, err := assistant.Explain(cmd.Context(), client, command, opts)
	if sp != nil {
		sp.Stop()
	}
	if err != nil {
		return err
	}

	if app.jsonOutput() {
		return display.PrintJSON(app.stdout, explanation)
	}

	if app.stdout == os.Stdout && term.IsTerminal(int(os.Stdout.Fd())) {
		if err := display.InitRenderer(); err != nil {
			logging.Debug("Markdown rendering unavailable", logging.Fields{"error": err.Error()})
		}
	}
	rendered, err := display.RenderMarkdown(explanation.Explanation)
	if err != nil {
		rendered = explanation.Explanation
	}
	fmt.Fprintln(app.stdout, strings.TrimRight(rendered, "\n"))
	return nil
}
