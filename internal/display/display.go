// Package display handles terminal output: errors, spinners, rendered
// markdown and the configuration report.
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"golang.org/x/term"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)

	// Stdout and Stderr are the writers used by the Show helpers
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr

	renderer *glamour.TermRenderer
)

// ShowError prints an error message to stderr in red
func ShowError(msg string) {
	errorColor.Fprint(Stderr, "Error: ")
	fmt.Fprintln(Stderr, msg)
}

// ShowWarning prints a warning to stderr
func ShowWarning(msg string) {
	warningColor.Fprintln(Stderr, "Warning: "+msg)
}

// ShowContent prints plain content to stdout
func ShowContent(content string) {
	fmt.Fprintln(Stdout, content)
}

// InitRenderer prepares the markdown renderer for the current terminal.
func InitRenderer() error {
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = min(w-4, 120)
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	renderer = r
	return nil
}

// RenderMarkdown renders markdown for the terminal. Without an initialized
// renderer the content is returned unchanged.
func RenderMarkdown(content string) (string, error) {
	if renderer == nil || content == "" {
		return content, nil
	}
	out, err := renderer.Render(content)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

// ShowContentRendered prints markdown, falling back to plain text when
// rendering fails.
func ShowContentRendered(content string) {
	out, err := RenderMarkdown(content)
	if err != nil {
		ShowContent(content)
		return
	}
	fmt.Fprint(Stdout, out)
}

// PrintJSON writes v as indented JSON
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// Spinner shows progress on stderr while waiting for a response
type Spinner struct {
	s *spinner.Spinner
}

// NewSpinner creates a stopped spinner with the given message
func NewSpinner(msg string) *Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond,
		spinner.WithWriter(os.Stderr),
		spinner.WithHiddenCursor(true),
	)
	s.Suffix = " " + msg
	return &Spinner{s: s}
}

// Start starts the spinner
func (sp *Spinner) Start() {
	sp.s.Start()
}

// Stop stops the spinner and clears its line
func (sp *Spinner) Stop() {
	sp.s.Stop()
}

// UpdateMessage changes the text next to the spinner
func (sp *Spinner) UpdateMessage(msg string) {
	sp.s.Lock()
	sp.s.Suffix = " " + msg
	sp.s.Unlock()
}
