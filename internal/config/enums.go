package config

import (
	"fmt"
	"strings"
)

// Provider identifies an AI backend
type Provider string

const (
	ProviderOpenAI  Provider = "openai"
	ProviderGroq    Provider = "groq"
	ProviderAzure   Provider = "azure"
	ProviderOllama  Provider = "ollama"
	ProviderMistral Provider = "mistral"
)

// Frontend is the UI mode used to present suggestions
type Frontend string

const (
	FrontendDialog         Frontend = "dialog"
	FrontendReadline       Frontend = "readline"
	FrontendNoninteractive Frontend = "noninteractive"
)

// OutputFormat selects human or machine readable output
type OutputFormat string

const (
	OutputHuman OutputFormat = "human"
	OutputJSON  OutputFormat = "json"
)

// DebugLevel is the log verbosity requested by the user
type DebugLevel string

const (
	DebugError DebugLevel = "error"
	DebugWarn  DebugLevel = "warn"
	DebugInfo  DebugLevel = "info"
	DebugDebug DebugLevel = "debug"
	DebugTrace DebugLevel = "trace"
)

// ValidFrontends, ValidOutputFormats and ValidDebugLevels list the accepted
// enum spellings in display order.
var (
	ValidFrontends     = []string{string(FrontendDialog), string(FrontendReadline), string(FrontendNoninteractive)}
	ValidOutputFormats = []string{string(OutputHuman), string(OutputJSON)}
	ValidDebugLevels   = []string{string(DebugError), string(DebugWarn), string(DebugInfo), string(DebugDebug), string(DebugTrace)}
)

// ProviderNames returns the known provider names in table order
func ProviderNames() []string {
	names := make([]string, len(ProviderTable))
	for i, p := range ProviderTable {
		names[i] = string(p.Name)
	}
	return names
}

// ParseProvider parses a provider name
func ParseProvider(s string) (Provider, error) {
	v, err := parseEnum(s, ProviderNames())
	return Provider(v), err
}

// ParseFrontend parses a frontend name
func ParseFrontend(s string) (Frontend, error) {
	v, err := parseEnum(s, ValidFrontends)
	return Frontend(v), err
}

// ParseOutputFormat parses an output format name
func ParseOutputFormat(s string) (OutputFormat, error) {
	v, err := parseEnum(s, ValidOutputFormats)
	return OutputFormat(v), err
}

// ParseDebugLevel parses a debug level name
func ParseDebugLevel(s string) (DebugLevel, error) {
	v, err := parseEnum(s, ValidDebugLevels)
	return DebugLevel(v), err
}

func parseEnum(s string, valid []string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for _, v := range valid {
		if normalized == v {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown variant %q, expected one of %s", s, strings.Join(valid, ", "))
}
