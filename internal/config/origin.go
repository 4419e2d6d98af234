package config

import (
	"regexp"
	"strings"
)

// File labels used when a value came from a config file.
const (
	TOMLFileLabel = "config.toml"
	JSONFileLabel = "config.json"
)

// FormatOrigin returns a human readable name for where a value came from:
// the flag, the environment variable, the file, or "default".
func FormatOrigin(src Source, path, envVar string) string {
	switch src {
	case SourceCLI:
		return "--" + strings.ReplaceAll(path, ".", "-")
	case SourceEnv:
		if envVar != "" {
			return envVar
		}
		if f, ok := fieldForPath(path); ok && f.EnvVar != "" {
			return f.EnvVar
		}
		return strings.ToUpper(strings.ReplaceAll(path, ".", "_"))
	case SourceTOML:
		return TOMLFileLabel
	case SourceJSON:
		return JSONFileLabel
	default:
		return "default"
	}
}

// fieldForPath finds the metadata for a global ("model") or provider
// ("openai.api_key") path.
func fieldForPath(path string) (FieldMeta, bool) {
	provider, name, nested := strings.Cut(path, ".")
	if !nested {
		return LookupGlobalField(path)
	}
	meta, ok := LookupProvider(Provider(provider))
	if !ok {
		return FieldMeta{}, false
	}
	return meta.ResolvedField(name)
}

var locationSuffix = regexp.MustCompile(`\s+at line \d+(,?\s*column \d+)?\s*$`)

// StripLocation removes a trailing "at line N column M" from a decoder
// message.
func StripLocation(msg string) string {
	return locationSuffix.ReplaceAllString(msg, "")
}
