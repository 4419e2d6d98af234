package config

import (
	"io/fs"
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const (
	testTOMLPath = "/cfg/shell-ai/config.toml"
	testJSONPath = "/cfg/shell-ai/config.json"
)

type envMap map[string]string

func (e envMap) Lookup(key string) (string, bool) {
	v, ok := e[key]
	return v, ok
}

// memFiles serves config files from memory; other paths do not exist.
type memFiles map[string]string

func (m memFiles) ReadFile(path string) ([]byte, error) {
	data, ok := m[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(data), nil
}

type fixture struct {
	env       envMap
	toml      string
	json      string
	overrides CLIOverrides
}

func (f fixture) options() []Option {
	files := memFiles{}
	if f.toml != "" {
		files[testTOMLPath] = f.toml
	}
	if f.json != "" {
		files[testJSONPath] = f.json
	}
	return []Option{
		WithEnv(f.env.Lookup),
		WithPaths(testTOMLPath, testJSONPath),
		WithFileReader(files.ReadFile),
		WithOverrides(f.overrides),
	}
}

func load(t *testing.T, f fixture) (*Config, error) {
	t.Helper()
	return Load(f.options()...)
}

func ptr[T any](v T) *T {
	return &v
}
