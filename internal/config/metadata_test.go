package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefault(t *testing.T) {
	tests := []struct {
		literal string
		want    any
	}{
		{"3", int64(3)},
		{"262144", int64(262144)},
		{"0.05", 0.05},
		{"true", true},
		{"false", false},
		{"dialog", "dialog"},
		{"https://api.openai.com", "https://api.openai.com"},
	}

	for _, tt := range tests {
		t.Run(tt.literal, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDefault(tt.literal))
		})
	}
}

func TestDefaultsTree(t *testing.T) {
	tree := DefaultsTree()

	assert.Equal(t, 0.05, tree["temperature"])
	assert.Equal(t, "dialog", tree["frontend"])
	_, hasSkip := tree["skip_confirm"]
	assert.False(t, hasSkip, "virtual fields have no default layer entry")
	_, hasProvider := tree["provider"]
	assert.False(t, hasProvider)

	want := Tree{"api_base": "https://api.groq.com/openai", "model": "openai/gpt-oss-120b"}
	if diff := cmp.Diff(want, tree["groq"]); diff != "" {
		t.Errorf("groq defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestProviderMeta_ResolvedField(t *testing.T) {
	azure, ok := LookupProvider(ProviderAzure)
	require.True(t, ok)

	_, ok = azure.ResolvedField("model")
	assert.False(t, ok, "azure skips model")

	base, ok := azure.ResolvedField("api_base")
	require.True(t, ok)
	assert.True(t, base.Required)
	assert.Equal(t, "AZURE_API_BASE", base.EnvVar)

	key, ok := azure.ResolvedField("api_key")
	require.True(t, ok)
	assert.True(t, key.Required)
	assert.True(t, key.Sensitive)

	ollama, ok := LookupProvider(ProviderOllama)
	require.True(t, ok)
	_, ok = ollama.ResolvedField("api_key")
	assert.False(t, ok)

	openai, ok := LookupProvider(ProviderOpenAI)
	require.True(t, ok)
	base, ok = openai.ResolvedField("api_base")
	require.True(t, ok)
	assert.False(t, base.Required)

	_, ok = LookupProvider(Provider("anthropic"))
	assert.False(t, ok)
}

func TestFieldMeta_EnvVars(t *testing.T) {
	f, ok := LookupGlobalField("provider")
	require.True(t, ok)
	assert.Equal(t, []string{"SHAI_API_PROVIDER", "SHAI_PROVIDER"}, f.EnvVars())

	assert.Empty(t, FieldMeta{Name: "x"}.EnvVars())
}

func TestParseEnums(t *testing.T) {
	p, err := ParseProvider("OLLAMA")
	require.NoError(t, err)
	assert.Equal(t, ProviderOllama, p)

	_, err = ParseFrontend("")
	assert.EqualError(t, err, `unknown variant "", expected one of dialog, readline, noninteractive`)

	f, err := ParseOutputFormat(" json ")
	require.NoError(t, err)
	assert.Equal(t, OutputJSON, f)

	_, err = ParseDebugLevel("verbose")
	assert.Error(t, err)
}

func TestGlobalFields_Unique(t *testing.T) {
	names := map[string]bool{}
	vars := map[string]bool{}
	for _, f := range GlobalFields {
		assert.False(t, names[f.Name], "duplicate field %s", f.Name)
		names[f.Name] = true
		for _, v := range f.EnvVars() {
			assert.False(t, vars[v], "duplicate env var %s", v)
			vars[v] = true
		}
	}
}
