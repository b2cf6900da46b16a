// Package graph builds the import DAG of shader fragments. Fragments are
// loaded through a caller-supplied Loader, identified by normalized
// slash-separated paths, parsed once, and shared among all importers.
package graph

import "github.com/gogpu/oil/directive"

// Loader supplies fragment source text by path. The graph builder never
// accesses storage directly; callers decide where fragments live (an fs.FS,
// a map, an asset system).
type Loader interface {
	Load(path string) (string, error)
}

// LoadFunc adapts a function to the Loader interface.
type LoadFunc func(path string) (string, error)

// Load implements Loader.
func (f LoadFunc) Load(path string) (string, error) { return f(path) }

// Fragment is one shader source unit in the import graph. Immutable once
// built.
type Fragment struct {
	// Path is the normalized slash path identifying the fragment.
	Path string

	// Source is the raw text as loaded.
	Source string

	// File holds the parsed directives and residual source.
	File *directive.File

	// Imports are the fragment's resolved import edges in declaration order.
	Imports []Edge
}

// Edge is one resolved import: the target fragment under a local alias.
// Aliasing is local to the importing fragment; the same target may be bound
// under different aliases elsewhere.
type Edge struct {
	To    *Fragment
	Alias string
	Line  int
}

// Graph is the result of building from a root fragment.
type Graph struct {
	// Root is the fragment resolution started from.
	Root *Fragment

	// Fragments maps normalized path to fragment, one entry per loaded file.
	Fragments map[string]*Fragment

	// Order lists fragments with dependencies strictly before dependents.
	// Siblings keep first-discovered order, so composition is reproducible.
	Order []*Fragment
}

// Dependencies returns the set of fragments f transitively imports,
// not including f itself.
func (g *Graph) Dependencies(f *Fragment) []*Fragment {
	seen := make(map[*Fragment]bool)
	var out []*Fragment
	var walk func(*Fragment)
	walk = func(cur *Fragment) {
		for _, e := range cur.Imports {
			if !seen[e.To] {
				seen[e.To] = true
				walk(e.To)
				out = append(out, e.To)
			}
		}
	}
	walk(f)
	return out
}
