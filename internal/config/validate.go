package config

import (
	"fmt"
	"strings"
)

// ValidationError is one required provider field that is missing.
type ValidationError struct {
	Field       string
	Description string
	Hint        string
}

// IncompleteError lists the required fields the selected provider lacks.
type IncompleteError struct {
	Provider    Provider
	DisplayName string
	Errors      []ValidationError
}

func (e *IncompleteError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Configuration incomplete for %s provider:\n", e.DisplayName))
	for _, v := range e.Errors {
		sb.WriteString(fmt.Sprintf("\n  %s: %s\n    %s\n", v.Field, v.Description, v.Hint))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// NoProviderError means no layer selected a provider.
type NoProviderError struct {
	Known []string
}

func (e *NoProviderError) Error() string {
	return fmt.Sprintf(`No provider configured.

Quick start:
  export %s=openai
  export OPENAI_API_KEY=sk-...

Or run 'shell-ai config init' to create a config file.

Available providers: %s`, EnvProvider, strings.Join(e.Known, ", "))
}

// ConflictError reports the legacy skip-confirm flag combined with an
// explicit, different frontend.
type ConflictError struct {
	Frontend string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("Conflicting configuration: %s=true implies frontend=noninteractive, but %s=%s.\nUnset %s (deprecated) or set %s=noninteractive.",
		EnvSkipConfirm, EnvFrontend, e.Frontend, EnvSkipConfirm, EnvFrontend)
}

// Validated is a Config with a selected provider whose required fields are
// all present. Only Validate creates one.
type Validated struct {
	cfg      *Config
	provider Provider
	creds    ProviderCredentials
}

// ValidateProvider checks the required fields of a provider and returns one
// error per missing field.
func (c *Config) ValidateProvider(p Provider) []ValidationError {
	meta, ok := LookupProvider(p)
	if !ok {
		return nil
	}
	creds := c.Providers[p]

	var errs []ValidationError
	for _, f := range meta.AllFields() {
		if !f.Required || strings.TrimSpace(creds.Field(f.Name)) != "" {
			continue
		}
		hint := fmt.Sprintf("Add [%s].%s to %s", p, f.Name, TOMLFileName)
		if f.EnvVar != "" {
			hint = fmt.Sprintf("Set %s or add [%s].%s to %s", f.EnvVar, p, f.Name, TOMLFileName)
		}
		errs = append(errs, ValidationError{
			Field:       f.Name,
			Description: f.Description,
			Hint:        hint,
		})
	}
	return errs
}

// Validate checks that the configuration can be used for a request.
func (c *Config) Validate() (*Validated, error) {
	if c.skipConfirm && c.frontendEnv != "" && !strings.EqualFold(c.frontendEnv, string(FrontendNoninteractive)) {
		return nil, &ConflictError{Frontend: c.frontendEnv}
	}

	p := c.Provider.Value
	if p == "" {
		return nil, &NoProviderError{Known: ProviderNames()}
	}
	meta, ok := LookupProvider(p)
	if !ok {
		return nil, &NoProviderError{Known: ProviderNames()}
	}

	if errs := c.ValidateProvider(p); len(errs) > 0 {
		return nil, &IncompleteError{Provider: p, DisplayName: meta.DisplayName, Errors: errs}
	}
	return &Validated{cfg: c, provider: p, creds: c.Providers[p]}, nil
}

// Config returns the underlying configuration
func (v *Validated) Config() *Config {
	return v.cfg
}

// Provider returns the selected provider
func (v *Validated) Provider() Provider {
	return v.provider
}

// Credentials returns the selected provider's settings
func (v *Validated) Credentials() ProviderCredentials {
	return v.creds
}

// EffectiveModel returns the model requests should use
func (v *Validated) EffectiveModel() string {
	return v.cfg.EffectiveModel().Value
}

// EffectiveMaxTokens returns the token limit, zero when unset
func (v *Validated) EffectiveMaxTokens() uint32 {
	return v.cfg.EffectiveMaxTokens().Value
}

// Temperature returns the sampling temperature
func (v *Validated) Temperature() float32 {
	return v.cfg.Temperature.Value
}
