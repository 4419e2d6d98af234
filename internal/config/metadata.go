package config

import (
	"strconv"
)

// Environment variable names for global settings
const (
	EnvProvider          = "SHAI_API_PROVIDER"
	EnvProviderAlias     = "SHAI_PROVIDER"
	EnvModel             = "SHAI_MODEL"
	EnvTemperature       = "SHAI_TEMPERATURE"
	EnvSuggestionCount   = "SHAI_SUGGESTION_COUNT"
	EnvSkipConfirm       = "SHAI_SKIP_CONFIRM"
	EnvFrontend          = "SHAI_FRONTEND"
	EnvOutputFormat      = "SHAI_OUTPUT_FORMAT"
	EnvMaxReferenceChars = "SHAI_MAX_REFERENCE_CHARS"
	EnvMaxTokens         = "SHAI_MAX_TOKENS"
	EnvDebug             = "SHAI_DEBUG"
	EnvLocale            = "SHAI_LOCALE"
)

// Section groups settings when they are printed
type Section string

const (
	SectionProvider         Section = "Provider Settings"
	SectionUI               Section = "UI Settings"
	SectionSuggest          Section = "Suggest Settings"
	SectionExplain          Section = "Explain Settings"
	SectionProviderSpecific Section = ""
)

// DisplaySections is the order sections are printed in.
var DisplaySections = []Section{SectionProvider, SectionUI, SectionSuggest, SectionExplain}

// FieldMeta describes one configuration field.
//
// Default is a loosely typed literal: it is parsed as an integer, then a
// float, then a boolean, and otherwise kept as a string.
type FieldMeta struct {
	Name        string
	EnvVar      string
	EnvAliases  []string
	Description string
	Default     string
	Required    bool
	Section     Section
	Deprecated  bool
	Sensitive   bool
	// Virtual fields exist only at runtime and are never written to a
	// config file or decoded from the merged tree.
	Virtual bool
}

// EnvVars returns the primary variable followed by its aliases
func (f FieldMeta) EnvVars() []string {
	vars := make([]string, 0, 1+len(f.EnvAliases))
	if f.EnvVar != "" {
		vars = append(vars, f.EnvVar)
	}
	return append(vars, f.EnvAliases...)
}

// GlobalFields are the top-level settings in declaration order.
var GlobalFields = []FieldMeta{
	{
		Name:        "provider",
		EnvVar:      EnvProvider,
		EnvAliases:  []string{EnvProviderAlias},
		Description: "Provider to use",
		Required:    true,
		Section:     SectionProvider,
	},
	{
		Name:        "model",
		EnvVar:      EnvModel,
		Description: "Override model (takes precedence over provider-specific)",
		Section:     SectionProvider,
	},
	{
		Name:        "temperature",
		EnvVar:      EnvTemperature,
		Description: "Sampling temperature (0.0 = deterministic, 1.0 = creative)",
		Default:     "0.05",
		Section:     SectionProvider,
	},
	{
		Name:        "suggestion_count",
		EnvVar:      EnvSuggestionCount,
		Description: "Number of suggestions to generate",
		Default:     "3",
		Section:     SectionSuggest,
	},
	{
		Name:        "skip_confirm",
		EnvVar:      EnvSkipConfirm,
		Description: "Legacy: skip confirmation (implies frontend=noninteractive)",
		Default:     "false",
		Section:     SectionUI,
		Deprecated:  true,
		Virtual:     true,
	},
	{
		Name:        "frontend",
		EnvVar:      EnvFrontend,
		Description: "UI mode: dialog, readline, or noninteractive",
		Default:     string(FrontendDialog),
		Section:     SectionUI,
	},
	{
		Name:        "output_format",
		EnvVar:      EnvOutputFormat,
		Description: "Output format: human or json",
		Default:     string(OutputHuman),
		Section:     SectionUI,
	},
	{
		Name:        "max_reference_chars",
		EnvVar:      EnvMaxReferenceChars,
		Description: "Max characters for man page references in explain",
		Default:     "262144",
		Section:     SectionExplain,
	},
	{
		Name:        "max_tokens",
		EnvVar:      EnvMaxTokens,
		Description: "Max tokens for an AI completion (optional, API auto-calculates when omitted)",
		Section:     SectionProvider,
	},
	{
		Name:        "debug",
		EnvVar:      EnvDebug,
		Description: "Debug log level",
		Section:     SectionUI,
	},
	{
		Name:        "locale",
		EnvVar:      EnvLocale,
		Description: "Language for explanations (auto-detected when unset, empty to disable)",
		Section:     SectionExplain,
	},
}

// LookupGlobalField returns the global field with the given name
func LookupGlobalField(name string) (FieldMeta, bool) {
	for _, f := range GlobalFields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldMeta{}, false
}

// ParseDefault converts a default literal into a tree leaf.
func ParseDefault(literal string) any {
	if i, err := strconv.ParseInt(literal, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(literal, 64); err == nil {
		return f
	}
	switch literal {
	case "true":
		return true
	case "false":
		return false
	}
	return literal
}

// DefaultsTree builds the Default layer from the metadata tables.
func DefaultsTree() Tree {
	tree := Tree{}
	for _, f := range GlobalFields {
		if f.Virtual || f.Default == "" {
			continue
		}
		tree[f.Name] = ParseDefault(f.Default)
	}
	for _, p := range ProviderTable {
		section := Tree{}
		for _, f := range p.AllFields() {
			if f.Default != "" {
				section[f.Name] = ParseDefault(f.Default)
			}
		}
		if len(section) > 0 {
			tree[string(p.Name)] = section
		}
	}
	return tree
}
