package config

// Source identifies the configuration layer that supplied a value.
// Sources are ordered by precedence: a later source overrides an earlier one.
type Source int

const (
	SourceDefault Source = iota
	SourceTOML
	SourceJSON
	SourceEnv
	SourceCLI
)

// Sources lists every layer in merge order.
var Sources = []Source{SourceDefault, SourceTOML, SourceJSON, SourceEnv, SourceCLI}

// String returns the short label used in reports
func (s Source) String() string {
	switch s {
	case SourceDefault:
		return "default"
	case SourceTOML:
		return "toml"
	case SourceJSON:
		return "json"
	case SourceEnv:
		return "env"
	case SourceCLI:
		return "cli"
	default:
		return "unknown"
	}
}

// MarshalText lets sources appear as strings in JSON reports
func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Value pairs a resolved setting with the layer that supplied it.
type Value[T any] struct {
	Value  T
	Source Source
}
