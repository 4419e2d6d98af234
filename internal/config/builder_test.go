package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_HigherLayerWins(t *testing.T) {
	b := NewBuilder()
	b.Merge(Tree{"model": "default-model", "temperature": 0.05}, SourceDefault)
	b.Merge(Tree{"model": "toml-model"}, SourceTOML)
	b.Merge(Tree{"model": "json-model"}, SourceJSON)

	v, ok := b.Tree().Lookup("model")
	require.True(t, ok)
	assert.Equal(t, "json-model", v)

	src, ok := b.Source("model")
	require.True(t, ok)
	assert.Equal(t, SourceJSON, src)

	src, _ = b.Source("temperature")
	assert.Equal(t, SourceDefault, src)
}

func TestBuilder_EmptyTableIsNoOp(t *testing.T) {
	b := NewBuilder()
	b.Merge(Tree{"openai": Tree{"api_key": "sk-toml", "model": "gpt-4o"}}, SourceTOML)
	b.Merge(Tree{"openai": Tree{}}, SourceJSON)
	b.Merge(Tree{"openai": Tree{"model": Tree{}}}, SourceEnv)

	want := Tree{"openai": Tree{"api_key": "sk-toml", "model": "gpt-4o"}}
	if diff := cmp.Diff(want, b.Tree()); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
	src, _ := b.Source("openai.api_key")
	assert.Equal(t, SourceTOML, src)
}

func TestBuilder_NilLeafIsAbsent(t *testing.T) {
	b := NewBuilder()
	b.Merge(Tree{"model": "gpt-4o"}, SourceTOML)
	b.Merge(Tree{"model": nil, "locale": nil}, SourceJSON)

	v, _ := b.Tree().Lookup("model")
	assert.Equal(t, "gpt-4o", v)
	_, ok := b.Tree().Lookup("locale")
	assert.False(t, ok)
	_, ok = b.Source("locale")
	assert.False(t, ok)
}

func TestBuilder_ScalarReplacesTable(t *testing.T) {
	b := NewBuilder()
	b.Merge(Tree{"openai": Tree{"api_key": "sk-1", "model": "gpt-4o"}}, SourceTOML)
	b.Merge(Tree{"openai": "broken"}, SourceJSON)

	v, _ := b.Tree().Lookup("openai")
	assert.Equal(t, "broken", v)
	_, ok := b.Source("openai.api_key")
	assert.False(t, ok, "provenance below a replaced table should be dropped")
	src, _ := b.Source("openai")
	assert.Equal(t, SourceJSON, src)
}

func TestBuilder_TableReplacesScalar(t *testing.T) {
	b := NewBuilder()
	b.Merge(Tree{"openai": "broken"}, SourceTOML)
	b.Merge(Tree{"openai": Tree{"api_key": "sk-env"}}, SourceEnv)

	v, ok := b.Tree().Lookup("openai.api_key")
	require.True(t, ok)
	assert.Equal(t, "sk-env", v)
	src, _ := b.Source("openai.api_key")
	assert.Equal(t, SourceEnv, src)

	_, ok = b.Source("openai")
	assert.False(t, ok, "the replaced scalar keeps no provenance")
	assert.Equal(t, map[string]Source{"openai.api_key": SourceEnv}, b.Sources())
}

func TestBuilder_MergeEnvRecordsVariables(t *testing.T) {
	b := NewBuilder()
	b.MergeEnv(NormalizeEnv(envMap{
		"SHAI_PROVIDER":  "groq",
		"GROQ_API_KEY":   "gsk-1",
		"UNRELATED_VAR1": "x",
	}.Lookup))

	assert.Equal(t, "SHAI_PROVIDER", b.EnvVarUsed("provider"))
	assert.Equal(t, "GROQ_API_KEY", b.EnvVarUsed("groq.api_key"))
	assert.Equal(t, "", b.EnvVarUsed("model"))
	assert.Equal(t, "SHAI_PROVIDER", b.Origin("provider"))

	want := map[string]Source{"provider": SourceEnv, "groq.api_key": SourceEnv}
	if diff := cmp.Diff(want, b.Sources()); diff != "" {
		t.Errorf("sources mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilder_SourcesIsACopy(t *testing.T) {
	b := NewBuilder()
	b.Merge(Tree{"model": "m"}, SourceCLI)

	sources := b.Sources()
	sources["model"] = SourceDefault

	src, _ := b.Source("model")
	assert.Equal(t, SourceCLI, src)
}
