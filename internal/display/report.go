package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/quocvuong92/shell-ai/internal/config"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	nameStyle    = lipgloss.NewStyle().PaddingLeft(2)
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	unsetStyle   = lipgloss.NewStyle().Faint(true)
	originStyle  = lipgloss.NewStyle().Faint(true)
	markerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// ReportTitle heads the human-readable configuration report
const ReportTitle = "Shell-AI Configuration"

func nameWidth(entries []config.ReportEntry) int {
	w := 0
	for _, e := range entries {
		w = max(w, len(e.Name))
	}
	return w + 2
}

func writeEntry(b *strings.Builder, e config.ReportEntry, width int) {
	name := nameStyle.Width(width + 2).Render(e.Name)
	value := valueStyle.Render(e.Value)
	if !e.Set {
		value = unsetStyle.Render(e.Value)
	}
	b.WriteString(name)
	b.WriteString(value)
	b.WriteString("  ")
	b.WriteString(originStyle.Render("[" + e.Origin + "]"))
	if e.Deprecated {
		b.WriteString(" ")
		b.WriteString(markerStyle.Render("(deprecated)"))
	}
	b.WriteString("\n")
}

// RenderConfigReport writes the report grouped by section, followed by
// provider settings and the config file locations.
func RenderConfigReport(w io.Writer, r config.Report) error {
	var b strings.Builder
	b.WriteString(titleStyle.Render(ReportTitle))
	b.WriteString("\n")

	for _, s := range r.Sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(string(s.Title)))
		b.WriteString("\n")
		width := nameWidth(s.Entries)
		for _, e := range s.Entries {
			writeEntry(&b, e, width)
		}
	}

	for _, p := range r.Providers {
		b.WriteString("\n")
		heading := p.DisplayName
		if p.Active {
			heading += " (active)"
		}
		b.WriteString(sectionStyle.Render(heading))
		b.WriteString("\n")
		width := nameWidth(p.Entries)
		for _, e := range p.Entries {
			writeEntry(&b, e, width)
		}
	}

	if len(r.Files) > 0 {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render("Config Files"))
		b.WriteString("\n")
		for _, f := range r.Files {
			status := "(not found)"
			if f.Exists {
				status = "(loaded)"
			}
			fmt.Fprintf(&b, "  %-6s %s %s\n", strings.ToUpper(string(f.Kind)), f.Path, originStyle.Render(status))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeSchemaField(b *strings.Builder, f config.SchemaField) {
	line := "  " + valueStyle.Render(f.Name)
	if f.Required {
		line += " " + markerStyle.Render("(required)")
	}
	if f.Deprecated {
		line += " " + markerStyle.Render("(deprecated)")
	}
	b.WriteString(line + "\n")
	if f.Description != "" {
		b.WriteString("      " + f.Description + "\n")
	}
	if f.EnvVar != "" {
		env := f.EnvVar
		if len(f.EnvAliases) > 0 {
			env += ", " + strings.Join(f.EnvAliases, ", ")
		}
		b.WriteString("      " + originStyle.Render("env: "+env) + "\n")
	}
	if f.Default != "" {
		b.WriteString("      " + originStyle.Render("default: "+f.Default) + "\n")
	}
	if len(f.ValidValues) > 0 {
		b.WriteString("      " + originStyle.Render("values: "+strings.Join(f.ValidValues, ", ")) + "\n")
	}
}

// RenderSchema writes every known setting with its environment variables,
// default and accepted values.
func RenderSchema(w io.Writer, s config.Schema) error {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Global Settings"))
	b.WriteString("\n")
	section := ""
	for _, f := range s.Global {
		if f.Section != section {
			section = f.Section
			b.WriteString("\n" + sectionStyle.Render(section) + "\n")
		}
		writeSchemaField(&b, f)
	}

	for _, p := range s.Providers {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render(fmt.Sprintf("[%s] %s", p.Name, p.DisplayName)))
		b.WriteString("\n")
		if p.Description != "" {
			b.WriteString(p.Description + "\n")
		}
		for _, f := range p.Fields {
			writeSchemaField(&b, f)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
