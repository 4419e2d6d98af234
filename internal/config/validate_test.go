package config

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_AzureMissingDeployment(t *testing.T) {
	cfg, err := load(t, fixture{
		toml: "[azure]\napi_base = \"https://example.openai.azure.com\"\n",
		env:  envMap{"SHAI_API_PROVIDER": "azure", "AZURE_API_KEY": "az-1"},
	})
	require.NoError(t, err)

	_, err = cfg.Validate()
	var incomplete *IncompleteError
	require.True(t, errors.As(err, &incomplete), "error %v is not an *IncompleteError", err)

	want := []ValidationError{{
		Field:       "deployment_name",
		Description: "Deployment name for your model",
		Hint:        "Set AZURE_DEPLOYMENT_NAME or add [azure].deployment_name to config.toml",
	}}
	if diff := cmp.Diff(want, incomplete.Errors); diff != "" {
		t.Errorf("Errors mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, ProviderAzure, incomplete.Provider)
	assert.Contains(t, err.Error(), "Configuration incomplete for Azure OpenAI provider:")
	assert.Contains(t, err.Error(), "deployment_name: Deployment name for your model")
}

func TestValidateProvider(t *testing.T) {
	cfg, err := load(t, fixture{})
	require.NoError(t, err)

	tests := []struct {
		provider Provider
		fields   []string
	}{
		{ProviderOpenAI, []string{"api_key"}},
		{ProviderGroq, []string{"api_key"}},
		{ProviderAzure, []string{"api_key", "api_base", "deployment_name"}},
		{ProviderOllama, nil},
		{ProviderMistral, []string{"api_key"}},
		{Provider("unknown"), nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			var got []string
			for _, e := range cfg.ValidateProvider(tt.provider) {
				got = append(got, e.Field)
			}
			assert.Equal(t, tt.fields, got)
		})
	}
}

func TestValidateProvider_HintWithoutVariable(t *testing.T) {
	meta, ok := LookupProvider(ProviderGroq)
	require.True(t, ok)
	f, ok := meta.ResolvedField("api_base")
	require.True(t, ok)
	require.Empty(t, f.EnvVar)

	cfg, err := load(t, fixture{toml: "[groq]\napi_key = \"gsk\"\n"})
	require.NoError(t, err)
	assert.Empty(t, cfg.ValidateProvider(ProviderGroq))

	errs := cfg.ValidateProvider(ProviderOpenAI)
	require.Len(t, errs, 1)
	assert.Equal(t, "Set OPENAI_API_KEY or add [openai].api_key to config.toml", errs[0].Hint)
}

func TestValidate_BlankCredentialIsMissing(t *testing.T) {
	cfg, err := load(t, fixture{toml: "provider = \"mistral\"\n[mistral]\napi_key = \"   \"\n"})
	require.NoError(t, err)

	_, err = cfg.Validate()
	var incomplete *IncompleteError
	require.True(t, errors.As(err, &incomplete))
	require.Len(t, incomplete.Errors, 1)
	assert.Equal(t, "api_key", incomplete.Errors[0].Field)
}

func TestValidate_NoProvider(t *testing.T) {
	cfg, err := load(t, fixture{env: envMap{"OPENAI_API_KEY": "sk-1"}})
	require.NoError(t, err)

	_, err = cfg.Validate()
	var noProvider *NoProviderError
	require.True(t, errors.As(err, &noProvider), "error %v is not a *NoProviderError", err)
	assert.Equal(t, []string{"openai", "groq", "azure", "ollama", "mistral"}, noProvider.Known)
	assert.Contains(t, err.Error(), "export SHAI_API_PROVIDER=openai")
	assert.Contains(t, err.Error(), "Available providers: openai, groq, azure, ollama, mistral")
}

func TestValidate_Conflict(t *testing.T) {
	tests := []struct {
		name string
		env  envMap
	}{
		{"with provider", envMap{"SHAI_SKIP_CONFIRM": "true", "SHAI_FRONTEND": "dialog", "SHAI_API_PROVIDER": "ollama"}},
		{"checked before the provider", envMap{"SHAI_SKIP_CONFIRM": "true", "SHAI_FRONTEND": "readline"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := load(t, fixture{env: tt.env})
			require.NoError(t, err)

			_, err = cfg.Validate()
			var conflict *ConflictError
			require.True(t, errors.As(err, &conflict), "error %v is not a *ConflictError", err)
			assert.Contains(t, err.Error(), "SHAI_SKIP_CONFIRM")
			assert.Contains(t, err.Error(), "SHAI_FRONTEND")
		})
	}
}

func TestValidate_SkipConfirmWithNoninteractive(t *testing.T) {
	cfg, err := load(t, fixture{env: envMap{
		"SHAI_SKIP_CONFIRM": "true",
		"SHAI_FRONTEND":     "NonInteractive",
		"SHAI_API_PROVIDER": "ollama",
	}})
	require.NoError(t, err)

	_, err = cfg.Validate()
	assert.NoError(t, err)
}

func TestValidated_Accessors(t *testing.T) {
	cfg, err := load(t, fixture{
		env:       envMap{"SHAI_API_PROVIDER": "openai", "OPENAI_API_KEY": "sk-1", "SHAI_MAX_TOKENS": "300"},
		overrides: CLIOverrides{Temperature: ptr(float32(0.25))},
	})
	require.NoError(t, err)

	v, err := cfg.Validate()
	require.NoError(t, err)
	assert.Same(t, cfg, v.Config())
	assert.Equal(t, ProviderOpenAI, v.Provider())
	assert.Equal(t, "gpt-5", v.EffectiveModel())
	assert.Equal(t, uint32(300), v.EffectiveMaxTokens())
	assert.InDelta(t, 0.25, v.Temperature(), 1e-6)
}
