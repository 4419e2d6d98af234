package config

import "strings"

// Builder folds normalized layers into one tree and remembers which layer
// last wrote each leaf.
type Builder struct {
	tree    Tree
	sources map[string]Source
	envUsed map[string]string

	skipConfirm bool
	frontendEnv string
}

// NewBuilder returns an empty builder
func NewBuilder() *Builder {
	return &Builder{
		tree:    Tree{},
		sources: map[string]Source{},
		envUsed: map[string]string{},
	}
}

// Merge writes every leaf of layer into the accumulated tree and tags it
// with src. Empty tables and nil leaves are skipped, so a layer can never
// erase a value written by an earlier one.
func (b *Builder) Merge(layer Tree, src Source) {
	b.merge(layer, nil, src)
}

func (b *Builder) merge(layer Tree, prefix []string, src Source) {
	for _, key := range layer.sortedKeys() {
		path := append(append([]string{}, prefix...), key)
		switch v := layer[key].(type) {
		case nil:
			continue
		case Tree:
			if len(v) == 0 {
				continue
			}
			b.merge(v, path, src)
		default:
			dotted := strings.Join(path, ".")
			if existing, ok := b.tree.Lookup(dotted); ok {
				if _, isTable := existing.(Tree); isTable {
					b.forgetBelow(dotted)
				}
			}
			// a scalar written earlier at a parent path is now a table
			for i := 1; i < len(path); i++ {
				parent := strings.Join(path[:i], ".")
				delete(b.sources, parent)
				delete(b.envUsed, parent)
			}
			b.tree.setNested(path, v)
			b.sources[dotted] = src
		}
	}
}

// forgetBelow drops provenance for leaves under a table that is being
// replaced by a scalar.
func (b *Builder) forgetBelow(path string) {
	prefix := path + "."
	for k := range b.sources {
		if strings.HasPrefix(k, prefix) {
			delete(b.sources, k)
		}
	}
}

// MergeEnv merges the environment layer and records the variable behind
// each value.
func (b *Builder) MergeEnv(layer EnvLayer) {
	b.Merge(layer.Tree, SourceEnv)
	b.skipConfirm = layer.SkipConfirm
	b.frontendEnv = layer.Frontend
	for path, name := range layer.VarUsed {
		b.envUsed[path] = name
	}
}

// Tree returns the merged tree
func (b *Builder) Tree() Tree {
	return b.tree
}

// Source returns the layer that last wrote path
func (b *Builder) Source(path string) (Source, bool) {
	src, ok := b.sources[path]
	return src, ok
}

// EnvVarUsed returns the environment variable that supplied path, if any
func (b *Builder) EnvVarUsed(path string) string {
	return b.envUsed[path]
}

// Sources returns a copy of the provenance map
func (b *Builder) Sources() map[string]Source {
	out := make(map[string]Source, len(b.sources))
	for k, v := range b.sources {
		out[k] = v
	}
	return out
}

// Origin describes where the value at path came from
func (b *Builder) Origin(path string) string {
	src, _ := b.Source(path)
	return FormatOrigin(src, path, b.EnvVarUsed(path))
}
