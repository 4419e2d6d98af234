package config

import "slices"

// CommonField is a field shared by every provider before overrides apply.
type CommonField struct {
	Name        string
	Description string
	Required    bool
	Sensitive   bool
}

// FieldOverride adjusts a common field for one provider. Empty strings and
// a nil Required inherit from the common field.
type FieldOverride struct {
	Name     string
	EnvVar   string
	Default  string
	Required *bool
}

// ProviderMeta describes one provider's fields.
type ProviderMeta struct {
	Name        Provider
	DisplayName string
	Description string
	Overrides   []FieldOverride
	ExtraFields []FieldMeta
	Skip        []string
}

// CommonFields are the credential fields every provider starts from.
var CommonFields = []CommonField{
	{Name: "api_key", Description: "API key for authentication", Required: true, Sensitive: true},
	{Name: "api_base", Description: "API base URL"},
	{Name: "model", Description: "Model to use"},
	{Name: "max_tokens", Description: "Max tokens for AI completion"},
}

func required(b bool) *bool { return &b }

// ProviderTable lists the supported providers. Its order is the order
// providers are printed, validated and written to generated files.
var ProviderTable = []ProviderMeta{
	{
		Name:        ProviderOpenAI,
		DisplayName: "OpenAI",
		Description: "OpenAI API (GPT-3.5, GPT-4, etc.)",
		Overrides: []FieldOverride{
			{Name: "api_key", EnvVar: "OPENAI_API_KEY"},
			{Name: "api_base", EnvVar: "OPENAI_API_BASE", Default: "https://api.openai.com"},
			{Name: "model", EnvVar: "OPENAI_MODEL", Default: "gpt-5"},
			{Name: "max_tokens", EnvVar: "OPENAI_MAX_TOKENS"},
		},
		ExtraFields: []FieldMeta{
			{
				Name:        "organization",
				EnvVar:      "OPENAI_ORGANIZATION",
				Description: "Organization ID for API billing (for multi-org accounts)",
				Section:     SectionProviderSpecific,
			},
		},
	},
	{
		Name:        ProviderGroq,
		DisplayName: "Groq",
		Description: "Groq API (fast inference)",
		Overrides: []FieldOverride{
			{Name: "api_key", EnvVar: "GROQ_API_KEY"},
			{Name: "api_base", Default: "https://api.groq.com/openai"},
			{Name: "model", EnvVar: "GROQ_MODEL", Default: "openai/gpt-oss-120b"},
			{Name: "max_tokens", EnvVar: "GROQ_MAX_TOKENS"},
		},
	},
	{
		Name:        ProviderAzure,
		DisplayName: "Azure OpenAI",
		Description: "Azure OpenAI Service",
		Overrides: []FieldOverride{
			{Name: "api_key", EnvVar: "AZURE_API_KEY"},
			{Name: "api_base", EnvVar: "AZURE_API_BASE", Required: required(true)},
			{Name: "max_tokens", EnvVar: "AZURE_MAX_TOKENS"},
		},
		ExtraFields: []FieldMeta{
			{
				Name:        "deployment_name",
				EnvVar:      "AZURE_DEPLOYMENT_NAME",
				Description: "Deployment name for your model",
				Required:    true,
				Section:     SectionProviderSpecific,
			},
			{
				Name:        "api_version",
				EnvVar:      "OPENAI_API_VERSION",
				Description: "Azure API version",
				Default:     "2023-05-15",
				Section:     SectionProviderSpecific,
			},
		},
		Skip: []string{"model"},
	},
	{
		Name:        ProviderOllama,
		DisplayName: "Ollama",
		Description: "Local Ollama instance (no API key required)",
		Overrides: []FieldOverride{
			{Name: "api_base", EnvVar: "OLLAMA_API_BASE", Default: "http://localhost:11434"},
			{Name: "model", EnvVar: "OLLAMA_MODEL", Default: "gpt-oss:120b-cloud"},
			{Name: "max_tokens", EnvVar: "OLLAMA_MAX_TOKENS"},
		},
		Skip: []string{"api_key"},
	},
	{
		Name:        ProviderMistral,
		DisplayName: "Mistral AI",
		Description: "Mistral AI API",
		Overrides: []FieldOverride{
			{Name: "api_key", EnvVar: "MISTRAL_API_KEY"},
			{Name: "api_base", EnvVar: "MISTRAL_API_BASE", Default: "https://api.mistral.ai"},
			{Name: "model", EnvVar: "MISTRAL_MODEL", Default: "codestral-2508"},
			{Name: "max_tokens", EnvVar: "MISTRAL_MAX_TOKENS"},
		},
	},
}

// LookupProvider returns the metadata for a provider
func LookupProvider(p Provider) (ProviderMeta, bool) {
	for _, meta := range ProviderTable {
		if meta.Name == p {
			return meta, true
		}
	}
	return ProviderMeta{}, false
}

func (p ProviderMeta) skips(name string) bool {
	return slices.Contains(p.Skip, name)
}

func (p ProviderMeta) override(name string) (FieldOverride, bool) {
	for _, o := range p.Overrides {
		if o.Name == name {
			return o, true
		}
	}
	return FieldOverride{}, false
}

// resolveCommon applies the provider's override to a common field.
func (p ProviderMeta) resolveCommon(common CommonField) FieldMeta {
	field := FieldMeta{
		Name:        common.Name,
		Description: common.Description,
		Required:    common.Required && !p.skips(common.Name),
		Section:     SectionProviderSpecific,
		Sensitive:   common.Sensitive,
	}
	if o, ok := p.override(common.Name); ok {
		field.EnvVar = o.EnvVar
		field.Default = o.Default
		if o.Required != nil {
			field.Required = *o.Required
		}
	}
	return field
}

// ResolvedField returns the effective metadata for one of the provider's
// fields. Skipped common fields are not found.
func (p ProviderMeta) ResolvedField(name string) (FieldMeta, bool) {
	for _, common := range CommonFields {
		if common.Name != name {
			continue
		}
		if p.skips(name) {
			return FieldMeta{}, false
		}
		return p.resolveCommon(common), true
	}
	for _, extra := range p.ExtraFields {
		if extra.Name == name {
			return extra, true
		}
	}
	return FieldMeta{}, false
}

// AllFields returns the non-skipped common fields, overrides applied,
// followed by the provider's extra fields.
func (p ProviderMeta) AllFields() []FieldMeta {
	fields := make([]FieldMeta, 0, len(CommonFields)+len(p.ExtraFields))
	for _, common := range CommonFields {
		if p.skips(common.Name) {
			continue
		}
		fields = append(fields, p.resolveCommon(common))
	}
	return append(fields, p.ExtraFields...)
}
