package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// ParseTOML decodes a TOML document into a tree
func ParseTOML(data []byte) (Tree, error) {
	raw := map[string]any{}
	if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&raw); err != nil {
		return nil, err
	}
	return normalizeTree(raw), nil
}

// ParseJSON decodes a JSON document into a tree. The document must be an
// object.
func ParseJSON(data []byte) (Tree, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return normalizeTree(raw), nil
}

// EnvLookup reads an environment variable, reporting whether it is set.
type EnvLookup func(string) (string, bool)

// OSEnv reads from the process environment
func OSEnv() EnvLookup {
	return os.LookupEnv
}

// EnvLayer is the normalized environment: the tree of matched values plus
// the variable that supplied each path.
type EnvLayer struct {
	Tree    Tree
	VarUsed map[string]string

	// SkipConfirm records SHAI_SKIP_CONFIRM=true; Frontend is the raw
	// SHAI_FRONTEND value. Both are needed by validation after the layer
	// has been merged.
	SkipConfirm bool
	Frontend    string
}

// NormalizeEnv scans every recognized variable. For each field the primary
// variable is checked before its aliases and the first non-empty value
// wins; when two descriptors map to the same path the first one declared
// wins.
func NormalizeEnv(lookup EnvLookup) EnvLayer {
	layer := EnvLayer{Tree: Tree{}, VarUsed: map[string]string{}}

	get := func(name string) string {
		v, ok := lookup(name)
		if !ok {
			return ""
		}
		return v
	}

	scan := func(prefix []string, f FieldMeta) {
		path := append(append([]string{}, prefix...), f.Name)
		dotted := strings.Join(path, ".")
		if _, seen := layer.VarUsed[dotted]; seen {
			return
		}
		for _, name := range f.EnvVars() {
			if v := get(name); v != "" {
				layer.Tree.setNested(path, v)
				layer.VarUsed[dotted] = name
				return
			}
		}
	}

	for _, f := range GlobalFields {
		if f.Virtual {
			continue
		}
		scan(nil, f)
	}
	for _, p := range ProviderTable {
		for _, f := range p.AllFields() {
			scan([]string{string(p.Name)}, f)
		}
	}

	layer.SkipConfirm = strings.EqualFold(strings.TrimSpace(get(EnvSkipConfirm)), "true")
	layer.Frontend = get(EnvFrontend)
	if layer.SkipConfirm && layer.Frontend == "" {
		layer.Tree["frontend"] = string(FrontendNoninteractive)
		layer.VarUsed["frontend"] = EnvSkipConfirm
	}
	return layer
}

// CLIOverrides holds values given as command-line flags. Nil fields were
// not given and are left out of the CLI layer entirely.
type CLIOverrides struct {
	Provider     *string  `json:"provider,omitempty"`
	Model        *string  `json:"model,omitempty"`
	MaxTokens    *uint32  `json:"max_tokens,omitempty"`
	Temperature  *float32 `json:"temperature,omitempty"`
	Frontend     *string  `json:"frontend,omitempty"`
	OutputFormat *string  `json:"output_format,omitempty"`
	Debug        *string  `json:"debug,omitempty"`
	Locale       *string  `json:"locale,omitempty"`
}

// Tree converts the overrides into a layer
func (o CLIOverrides) Tree() (Tree, error) {
	data, err := json.Marshal(o)
	if err != nil {
		return nil, fmt.Errorf("failed to encode CLI overrides: %w", err)
	}
	return ParseJSON(data)
}
