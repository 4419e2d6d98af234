package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/quocvuong92/shell-ai/internal/assistant"
	"github.com/quocvuong92/shell-ai/internal/config"
	"github.com/quocvuong92/shell-ai/internal/display"
)

const emptyPromptHint = "Describe what you want to do as a single sentence. `shai <sentence>`"

// NewSuggestCmd creates the suggest command
func NewSuggestCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest [description...]",
		Short: "Suggest shell commands for a task",
		Long: `Ask the configured model for shell commands that accomplish a task.

The number of suggestions comes from suggestion_count. With the
noninteractive frontend only the first suggestion is printed, so the
output can be used directly in scripts.

Examples:
  shell-ai suggest "list the 10 largest files here"
  shell-ai suggest --frontend noninteractive "show my public IP"
  shell-ai suggest -o json "count lines in all go files"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runSuggest(cmd, args)
		},
	}
}

func (app *App) runSuggest(cmd *cobra.Command, args []string) error {
	prompt := strings.TrimSpace(strings.Join(args, " "))
	if prompt == "" {
		fmt.Fprintln(app.stdout, emptyPromptHint)
		return nil
	}

	client, _, err := app.client()
	if err != nil {
		return err
	}

	var sp *display.Spinner
	if !app.jsonOutput() {
		sp = display.NewSpinner("Generating suggestions...")
		sp.Start()
	}
	suggestions, err := assistant.Suggest(cmd.Context(), client, prompt, int(app.cfg.SuggestionCount.Value))
	if sp != nil {
		sp.Stop()
	}
	if err != nil {
		return err
	}

	return app.printSuggestions(suggestions)
}

func (app *App) printSuggestions(suggestions []assistant.Suggestion) error {
	if app.jsonOutput() {
		return display.PrintJSON(app.stdout, suggestions)
	}

	if app.cfg.Frontend.Value == config.FrontendNoninteractive {
		fmt.Fprintln(app.stdout, suggestions[0].Command)
		return nil
	}

	number := color.New(color.FgCyan)
	warn := color.New(color.FgRed, color.Bold)
	fmt.Fprintln(app.stdout)
	for i, s := range suggestions {
		fmt.Fprintf(app.stdout, "  %s. %s\n", number.Sprint(i+1), s.Command)
		if risk := assistant.ClassifyRisk(s.Command); risk == assistant.RiskDangerous {
			fmt.Fprintf(app.stdout, "     %s\n", warn.Sprint("! "+risk.String()+": review before running"))
		}
	}
	fmt.Fprintln(app.stdout)
	return nil
}
