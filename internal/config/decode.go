package config

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/quocvuong92/shell-ai/internal/logging"
)

// DecodeError reports a merged value that has the wrong type or an invalid
// spelling, qualified with where the value came from.
type DecodeError struct {
	Path   string
	Origin string
	Err    error
}

func (e *DecodeError) Error() string {
	msg := StripLocation(e.Err.Error())
	if e.Origin == "" {
		return fmt.Sprintf("invalid value for %s: %s", e.Path, msg)
	}
	return fmt.Sprintf("%s: invalid value for %s: %s", e.Origin, e.Path, msg)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// credentialFields are the keys decoded from every provider table.
var credentialFields = []string{"api_key", "api_base", "model", "max_tokens", "organization", "deployment_name", "api_version"}

type decoder struct {
	b *Builder
}

// Resolve decodes the builder's merged tree into a Config. Absent fields
// take their declared default.
func Resolve(b *Builder) (*Config, error) {
	d := decoder{b: b}
	cfg := &Config{
		Providers:   make(map[Provider]ProviderCredentials, len(ProviderTable)),
		builder:     b,
		skipConfirm: b.skipConfirm,
		frontendEnv: b.frontendEnv,
	}

	d.warnUnknown()

	var err error
	if cfg.Provider, err = decodeValue(d, "provider", blankAsUnset(ParseProvider)); err != nil {
		return nil, err
	}
	if cfg.Model, err = decodeValue(d, "model", identity); err != nil {
		return nil, err
	}
	if cfg.Temperature, err = d.floatField("temperature"); err != nil {
		return nil, err
	}
	if cfg.SuggestionCount, err = d.uintField("suggestion_count"); err != nil {
		return nil, err
	}
	if cfg.Frontend, err = decodeValue(d, "frontend", ParseFrontend); err != nil {
		return nil, err
	}
	if cfg.OutputFormat, err = decodeValue(d, "output_format", ParseOutputFormat); err != nil {
		return nil, err
	}
	if cfg.MaxReferenceChars, err = d.uintField("max_reference_chars"); err != nil {
		return nil, err
	}
	if cfg.MaxTokens, err = d.uintField("max_tokens"); err != nil {
		return nil, err
	}
	if cfg.Debug, err = decodeValue(d, "debug", blankAsUnset(ParseDebugLevel)); err != nil {
		return nil, err
	}
	if cfg.Locale, err = d.optionalString("locale"); err != nil {
		return nil, err
	}

	for _, meta := range ProviderTable {
		creds, err := d.credentials(meta.Name)
		if err != nil {
			return nil, err
		}
		cfg.Providers[meta.Name] = creds
	}
	return cfg, nil
}

func identity(s string) (string, error) { return s, nil }

// blankAsUnset wraps an enum parser so a blank value decodes to the zero
// value. A blank provider is then reported as missing by validation.
func blankAsUnset[T ~string](parse func(string) (T, error)) func(string) (T, error) {
	return func(s string) (T, error) {
		if strings.TrimSpace(s) == "" {
			var zero T
			return zero, nil
		}
		return parse(s)
	}
}

// raw returns the merged value at path, falling back to the declared
// default for global fields.
func (d decoder) raw(path string) (any, Source, bool) {
	if v, ok := d.b.tree.Lookup(path); ok {
		src, _ := d.b.Source(path)
		return v, src, true
	}
	if f, ok := fieldForPath(path); ok && f.Default != "" {
		return ParseDefault(f.Default), SourceDefault, true
	}
	return nil, SourceDefault, false
}

// number returns the value at path for numeric decoding. A blank string
// counts as absent and falls back to the declared default.
func (d decoder) number(path string) (any, Source, bool) {
	v, src, ok := d.raw(path)
	if s, isString := v.(string); ok && isString && strings.TrimSpace(s) == "" {
		if f, found := fieldForPath(path); found && f.Default != "" {
			return ParseDefault(f.Default), SourceDefault, true
		}
		return nil, SourceDefault, false
	}
	return v, src, ok
}

func (d decoder) fail(path string, err error) error {
	return &DecodeError{Path: path, Origin: d.b.Origin(path), Err: err}
}

// decodeValue reads a string leaf and converts it with parse. A missing
// leaf yields the zero value.
func decodeValue[T any](d decoder, path string, parse func(string) (T, error)) (Value[T], error) {
	var out Value[T]
	v, src, ok := d.raw(path)
	if !ok {
		return out, nil
	}
	s, isString := v.(string)
	if !isString {
		return out, d.fail(path, fmt.Errorf("expected a string, found %s", describe(v)))
	}
	parsed, err := parse(s)
	if err != nil {
		return out, d.fail(path, err)
	}
	return Value[T]{Value: parsed, Source: src}, nil
}

func (d decoder) optionalString(path string) (Value[*string], error) {
	return decodeValue(d, path, func(s string) (*string, error) { return &s, nil })
}

func (d decoder) uintField(path string) (Value[uint32], error) {
	v, src, ok := d.number(path)
	if !ok {
		return Value[uint32]{}, nil
	}
	n, err := toUint32(v)
	if err != nil {
		return Value[uint32]{}, d.fail(path, err)
	}
	return Value[uint32]{Value: n, Source: src}, nil
}

func (d decoder) floatField(path string) (Value[float32], error) {
	v, src, ok := d.number(path)
	if !ok {
		return Value[float32]{}, nil
	}
	f, err := toFloat32(v)
	if err != nil {
		return Value[float32]{}, d.fail(path, err)
	}
	return Value[float32]{Value: f, Source: src}, nil
}

// toUint32 accepts a native integer or a string holding a decimal one.
func toUint32(v any) (uint32, error) {
	notUint := fmt.Errorf("expected an unsigned integer, found %s", describe(v))
	outOfRange := fmt.Errorf("%s is out of range for an unsigned 32-bit integer", describe(v))

	switch val := v.(type) {
	case int64:
		if val < 0 || val > math.MaxUint32 {
			return 0, fmt.Errorf("%d is out of range for an unsigned 32-bit integer", val)
		}
		return cast.ToUint32E(val)
	case float64:
		if val != math.Trunc(val) {
			return 0, notUint
		}
		if val < 0 || val > math.MaxUint32 {
			return 0, outOfRange
		}
		return cast.ToUint32E(val)
	case string:
		// decimal only: cast would read "010" as octal and accept "0x10"
		n, err := strconv.ParseUint(strings.TrimSpace(val), 10, 32)
		if errors.Is(err, strconv.ErrRange) {
			return 0, outOfRange
		}
		if err != nil {
			return 0, notUint
		}
		return uint32(n), nil
	default:
		return 0, notUint
	}
}

// toFloat32 accepts a native number or a string holding one. Values that
// do not fit a float32 are rejected.
func toFloat32(v any) (float32, error) {
	var f float64
	switch val := v.(type) {
	case int64, float64:
		n, err := cast.ToFloat64E(val)
		if err != nil {
			return 0, fmt.Errorf("expected a number, found %s", describe(v))
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("expected a number, found %s", describe(v))
		}
		f = n
	default:
		return 0, fmt.Errorf("expected a number, found %s", describe(v))
	}
	if math.IsNaN(f) {
		return 0, fmt.Errorf("expected a number, found %s", describe(v))
	}
	if math.IsInf(float64(float32(f)), 0) {
		return 0, fmt.Errorf("%s is out of range for a 32-bit float", describe(v))
	}
	return float32(f), nil
}

func (d decoder) credentials(p Provider) (ProviderCredentials, error) {
	var creds ProviderCredentials
	name := string(p)
	if v, ok := d.b.tree.Lookup(name); ok {
		if _, isTable := v.(Tree); !isTable {
			return creds, d.fail(name, fmt.Errorf("expected a table, found %s", describe(v)))
		}
	}

	strField := func(field string, dst *string) error {
		val, err := decodeValue(d, name+"."+field, identity)
		*dst = val.Value
		return err
	}
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"api_key", &creds.APIKey},
		{"api_base", &creds.APIBase},
		{"model", &creds.Model},
		{"organization", &creds.Organization},
		{"deployment_name", &creds.DeploymentName},
		{"api_version", &creds.APIVersion},
	} {
		if err := strField(f.name, f.dst); err != nil {
			return creds, err
		}
	}

	maxTokens, err := d.uintField(name + ".max_tokens")
	if err != nil {
		return creds, err
	}
	creds.MaxTokens = maxTokens.Value
	return creds, nil
}

// warnUnknown logs keys the schema does not know about.
func (d decoder) warnUnknown() {
	for _, key := range d.b.tree.sortedKeys() {
		if f, ok := LookupGlobalField(key); ok && !f.Virtual {
			continue
		}
		if _, ok := LookupProvider(Provider(key)); ok {
			table, _ := d.b.tree[key].(Tree)
			for _, sub := range table.sortedKeys() {
				if !slices.Contains(credentialFields, sub) {
					logging.Debug("Ignoring unknown config key", logging.Fields{"key": key + "." + sub, "source": d.b.Origin(key + "." + sub)})
				}
			}
			continue
		}
		logging.Debug("Ignoring unknown config key", logging.Fields{"key": key, "source": d.b.Origin(key)})
	}
}

// describe renders a leaf for type errors
func describe(v any) string {
	switch val := v.(type) {
	case string:
		return fmt.Sprintf("string %q", val)
	case int64:
		return fmt.Sprintf("integer %d", val)
	case float64:
		return fmt.Sprintf("float %v", val)
	case bool:
		return fmt.Sprintf("boolean %t", val)
	case []any:
		return "an array"
	case Tree:
		return "a table"
	default:
		return fmt.Sprintf("%T", v)
	}
}
