// Package config resolves shell-ai settings from five ordered layers:
// built-in defaults, config.toml, the legacy config.json, environment
// variables and command-line flags. Every resolved value remembers the
// layer it came from so errors and reports can name the flag, variable or
// file responsible.
package config

import (
	"fmt"
	"os"

	"github.com/quocvuong92/shell-ai/internal/logging"
)

// ProviderCredentials holds one provider's decoded settings. Empty strings
// and a zero MaxTokens mean "not set".
type ProviderCredentials struct {
	APIKey         string
	APIBase        string
	Model          string
	MaxTokens      uint32
	Organization   string
	DeploymentName string
	APIVersion     string
}

// Field returns a credential by its config key
func (c ProviderCredentials) Field(name string) string {
	switch name {
	case "api_key":
		return c.APIKey
	case "api_base":
		return c.APIBase
	case "model":
		return c.Model
	case "max_tokens":
		if c.MaxTokens == 0 {
			return ""
		}
		return fmt.Sprint(c.MaxTokens)
	case "organization":
		return c.Organization
	case "deployment_name":
		return c.DeploymentName
	case "api_version":
		return c.APIVersion
	default:
		return ""
	}
}

// Config is the resolved configuration. It is built once by Load or
// Resolve and is not modified afterwards.
type Config struct {
	Provider          Value[Provider]
	Model             Value[string]
	Temperature       Value[float32]
	SuggestionCount   Value[uint32]
	Frontend          Value[Frontend]
	OutputFormat      Value[OutputFormat]
	MaxReferenceChars Value[uint32]
	MaxTokens         Value[uint32]
	Debug             Value[DebugLevel]
	// Locale is nil when unset (auto-detect) and points to "" when
	// explicitly disabled.
	Locale    Value[*string]
	Providers map[Provider]ProviderCredentials

	// Files describes the config files that were looked for
	Files []FileStatus

	builder     *Builder
	skipConfirm bool
	frontendEnv string
}

// loadOptions controls where Load reads from
type loadOptions struct {
	env       EnvLookup
	overrides CLIOverrides
	tomlPath  string
	jsonPath  string
	pathsSet  bool
	readFile  func(string) ([]byte, error)
}

// Option customizes Load
type Option func(*loadOptions)

// WithEnv replaces the process environment
func WithEnv(lookup EnvLookup) Option {
	return func(o *loadOptions) {
		o.env = lookup
	}
}

// WithOverrides supplies command-line flag values
func WithOverrides(overrides CLIOverrides) Option {
	return func(o *loadOptions) {
		o.overrides = overrides
	}
}

// WithPaths sets the TOML and JSON file locations. An empty path skips
// that layer.
func WithPaths(tomlPath, jsonPath string) Option {
	return func(o *loadOptions) {
		o.tomlPath = tomlPath
		o.jsonPath = jsonPath
		o.pathsSet = true
	}
}

// WithFileReader replaces os.ReadFile
func WithFileReader(read func(string) ([]byte, error)) Option {
	return func(o *loadOptions) {
		o.readFile = read
	}
}

// Load merges every layer in precedence order and decodes the result.
func Load(opts ...Option) (*Config, error) {
	o := loadOptions{
		env:      OSEnv(),
		readFile: os.ReadFile,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.pathsSet {
		paths, err := DefaultPaths()
		if err != nil {
			logging.Debug("Config directory unavailable, skipping config files", logging.Fields{"error": err.Error()})
		} else {
			o.tomlPath, o.jsonPath = paths.TOML, paths.JSON
		}
	}

	b := NewBuilder()
	b.Merge(DefaultsTree(), SourceDefault)

	tomlTree, tomlStatus, err := readLayer(o.readFile, o.tomlPath, FileTOML, ParseTOML)
	if err != nil {
		return nil, err
	}
	b.Merge(tomlTree, SourceTOML)

	jsonTree, jsonStatus, err := readLayer(o.readFile, o.jsonPath, FileJSON, ParseJSON)
	if err != nil {
		return nil, err
	}
	b.Merge(jsonTree, SourceJSON)

	b.MergeEnv(NormalizeEnv(o.env))

	cliTree, err := o.overrides.Tree()
	if err != nil {
		return nil, err
	}
	b.Merge(cliTree, SourceCLI)

	cfg, err := Resolve(b)
	if err != nil {
		return nil, err
	}
	cfg.Files = []FileStatus{tomlStatus, jsonStatus}

	logging.Debug("Configuration resolved", logging.Fields{
		"provider": string(cfg.Provider.Value),
		"source":   cfg.Origin("provider"),
	})
	return cfg, nil
}

// Source returns the layer that supplied path ("openai.api_key"). Paths no
// layer wrote report SourceDefault.
func (c *Config) Source(path string) Source {
	if c.builder == nil {
		return SourceDefault
	}
	src, _ := c.builder.Source(path)
	return src
}

// Origin names the flag, variable, file or default behind path
func (c *Config) Origin(path string) string {
	if c.builder == nil {
		return FormatOrigin(SourceDefault, path, "")
	}
	return c.builder.Origin(path)
}

// SkipConfirm reports whether the legacy SHAI_SKIP_CONFIRM=true was set
func (c *Config) SkipConfirm() bool {
	return c.skipConfirm
}

// Credentials returns the decoded settings for a provider
func (c *Config) Credentials(p Provider) ProviderCredentials {
	return c.Providers[p]
}

// EffectiveModel resolves the model for the selected provider: the global
// model, then the provider's model, then the provider's default.
func (c *Config) EffectiveModel() Value[string] {
	if c.Model.Value != "" {
		return c.Model
	}
	p := c.Provider.Value
	path := string(p) + ".model"
	if m := c.Providers[p].Model; m != "" {
		return Value[string]{Value: m, Source: c.Source(path)}
	}
	if meta, ok := LookupProvider(p); ok {
		if f, ok := meta.ResolvedField("model"); ok && f.Default != "" {
			return Value[string]{Value: f.Default, Source: SourceDefault}
		}
	}
	return Value[string]{Source: SourceDefault}
}

// EffectiveMaxTokens resolves max_tokens the same way as EffectiveModel.
// Zero means the API picks the limit.
func (c *Config) EffectiveMaxTokens() Value[uint32] {
	if c.MaxTokens.Value != 0 {
		return c.MaxTokens
	}
	p := c.Provider.Value
	if n := c.Providers[p].MaxTokens; n != 0 {
		return Value[uint32]{Value: n, Source: c.Source(string(p) + ".max_tokens")}
	}
	if meta, ok := LookupProvider(p); ok {
		if f, ok := meta.ResolvedField("max_tokens"); ok && f.Default != "" {
			if n, err := toUint32(ParseDefault(f.Default)); err == nil {
				return Value[uint32]{Value: n, Source: SourceDefault}
			}
		}
	}
	return Value[uint32]{Source: SourceDefault}
}
