package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/quocvuong92/shell-ai/internal/constants"
	"github.com/quocvuong92/shell-ai/internal/logging"
)

// Config file names inside the config directory
const (
	TOMLFileName = "config.toml"
	JSONFileName = "config.json"
)

// FileKind names a config file format
type FileKind string

const (
	FileTOML FileKind = "toml"
	FileJSON FileKind = "json"
)

// Paths holds the locations of both config files
type Paths struct {
	Dir  string
	TOML string
	JSON string
}

// FileStatus records whether a config file was found
type FileStatus struct {
	Kind   FileKind
	Path   string
	Exists bool
}

// FileError is a config file that exists but cannot be parsed.
type FileError struct {
	Path string
	Kind FileKind
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("Failed to parse config file: %s\n\n%v\n\nHint: Fix the syntax error above, or delete the file to use defaults.", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// ConfigDir returns the shell-ai directory under the user config directory
func ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		homeDir, herr := os.UserHomeDir()
		if herr != nil {
			return "", fmt.Errorf("could not determine config directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, constants.AppName), nil
}

// DefaultPaths returns the platform config file locations
func DefaultPaths() (Paths, error) {
	dir, err := ConfigDir()
	if err != nil {
		return Paths{}, err
	}
	return Paths{
		Dir:  dir,
		TOML: filepath.Join(dir, TOMLFileName),
		JSON: filepath.Join(dir, JSONFileName),
	}, nil
}

// readLayer loads one file layer. A missing file is an absent layer; any
// other read or parse failure is returned.
func readLayer(read func(string) ([]byte, error), path string, kind FileKind, parse func([]byte) (Tree, error)) (Tree, FileStatus, error) {
	status := FileStatus{Kind: kind, Path: path}
	if path == "" {
		return nil, status, nil
	}

	data, err := read(path)
	if errors.Is(err, fs.ErrNotExist) {
		logging.Debug("Config file not found", logging.Fields{"path": path})
		return nil, status, nil
	}
	if err != nil {
		return nil, status, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	status.Exists = true

	tree, err := parse(data)
	if err != nil {
		return nil, status, &FileError{Path: path, Kind: kind, Err: err}
	}
	logging.Debug("Loaded config file", logging.Fields{"path": path, "format": string(kind)})
	return tree, status, nil
}

// GenerateInitConfig renders a commented config.toml listing every
// setting with its variable and default.
func GenerateInitConfig() string {
	var sb strings.Builder
	sb.WriteString("# Shell-AI configuration\n")
	sb.WriteString("#\n")
	sb.WriteString("# Precedence (lowest to highest): defaults, this file, config.json,\n")
	sb.WriteString("# environment variables, command-line flags.\n")
	sb.WriteString("# Uncomment a line to set a value.\n\n")

	for _, f := range GlobalFields {
		if f.Virtual {
			continue
		}
		writeInitField(&sb, f)
	}

	for _, p := range ProviderTable {
		sb.WriteString(fmt.Sprintf("\n# %s: %s\n", p.DisplayName, p.Description))
		sb.WriteString(fmt.Sprintf("# [%s]\n", p.Name))
		for _, f := range p.AllFields() {
			writeInitField(&sb, f)
		}
	}
	return sb.String()
}

func writeInitField(sb *strings.Builder, f FieldMeta) {
	comment := f.Description
	if f.EnvVar != "" {
		comment += " (env: " + f.EnvVar + ")"
	}
	if f.Required {
		comment += " [required]"
	}
	sb.WriteString("# " + comment + "\n")

	value := `""`
	if f.Default != "" {
		value = tomlLiteral(ParseDefault(f.Default))
	}
	sb.WriteString(fmt.Sprintf("# %s = %s\n", f.Name, value))
}

func tomlLiteral(v any) string {
	switch val := v.(type) {
	case string:
		return fmt.Sprintf("%q", val)
	default:
		return fmt.Sprint(val)
	}
}

// WriteInitConfig writes the generated template to path. It refuses to
// overwrite an existing file.
func WriteInitConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GenerateInitConfig()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
