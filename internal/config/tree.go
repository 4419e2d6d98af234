package config

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Tree is the common shape every layer is normalized into: nested tables
// keyed by field name with scalar or list leaves.
type Tree map[string]any

// Lookup returns the value at a dotted path
func (t Tree) Lookup(path string) (any, bool) {
	var current any = t
	for _, key := range strings.Split(path, ".") {
		table, ok := current.(Tree)
		if !ok {
			return nil, false
		}
		current, ok = table[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// sortedKeys returns the keys of a tree in lexical order
func (t Tree) sortedKeys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// setNested writes value at path, creating intermediate tables. An
// intermediate scalar is replaced by a table.
func (t Tree) setNested(path []string, value any) {
	table := t
	for _, key := range path[:len(path)-1] {
		next, ok := table[key].(Tree)
		if !ok {
			next = Tree{}
			table[key] = next
		}
		table = next
	}
	table[path[len(path)-1]] = value
}

// normalizeValue converts decoder output (nested map[string]any, TOML
// datetimes, json.Number) into tree values.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return normalizeTree(val)
	case Tree:
		return normalizeTree(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeTree(item)
		}
		return out
	case time.Time:
		return val.Format(time.RFC3339Nano)
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case int:
		return int64(val)
	case fmt.Stringer:
		// TOML local dates and times
		return val.String()
	default:
		return val
	}
}

func normalizeTree(m map[string]any) Tree {
	out := make(Tree, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}
