package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	paths, err := DefaultPaths()
	require.NoError(t, err)

	assert.Equal(t, "shell-ai", filepath.Base(paths.Dir))
	assert.Equal(t, filepath.Join(paths.Dir, "config.toml"), paths.TOML)
	assert.Equal(t, filepath.Join(paths.Dir, "config.json"), paths.JSON)
}

func TestGenerateInitConfig_IsAllComments(t *testing.T) {
	content := GenerateInitConfig()

	tree, err := ParseTOML([]byte(content))
	require.NoError(t, err)
	assert.Empty(t, tree)

	assert.Contains(t, content, "# provider = \"\"")
	assert.Contains(t, content, "# temperature = 0.05")
	assert.Contains(t, content, "# suggestion_count = 3")
	assert.Contains(t, content, "# [azure]")
	assert.Contains(t, content, "(env: AZURE_DEPLOYMENT_NAME)")
	assert.NotContains(t, content, "skip_confirm")
}

var settingLine = regexp.MustCompile(`^# (\[[a-z]+\]|[a-z_]+ = .*)$`)

// uncomment turns every commented setting in the template into a real one.
func uncomment(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if settingLine.MatchString(line) {
			lines[i] = strings.TrimPrefix(line, "# ")
		}
	}
	return strings.Join(lines, "\n")
}

func TestGenerateInitConfig_UncommentedLoads(t *testing.T) {
	content := uncomment(GenerateInitConfig())

	cfg, err := load(t, fixture{toml: content})
	require.NoError(t, err)

	assert.Equal(t, Provider(""), cfg.Provider.Value)
	assert.Equal(t, SourceTOML, cfg.Temperature.Source)
	assert.InDelta(t, 0.05, cfg.Temperature.Value, 1e-6)
	assert.Equal(t, "https://api.openai.com", cfg.Credentials(ProviderOpenAI).APIBase)
	assert.Equal(t, SourceTOML, cfg.Source("openai.api_base"))
	assert.Equal(t, "2023-05-15", cfg.Credentials(ProviderAzure).APIVersion)
}

func TestWriteInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "shell-ai", "config.toml")

	require.NoError(t, WriteInitConfig(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, GenerateInitConfig(), string(data))
}

func TestWriteInitConfig_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("provider = \"groq\"\n"), 0600))

	err := WriteInitConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "provider = \"groq\"\n", string(data))
}

func TestLoad_FromDisk(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte("provider = \"openai\"\n[openai]\napi_key = \"sk-disk\"\n"), 0600))

	cfg, err := Load(
		WithEnv(envMap{}.Lookup),
		WithPaths(tomlPath, filepath.Join(dir, "config.json")),
	)
	require.NoError(t, err)
	assert.Equal(t, "sk-disk", cfg.Credentials(ProviderOpenAI).APIKey)
	assert.Equal(t, "config.toml", cfg.Origin("openai.api_key"))
	assert.True(t, cfg.Files[0].Exists)
	assert.False(t, cfg.Files[1].Exists)
}
