package graph

import (
	"fmt"
	"path"
	"strings"

	"github.com/gogpu/oil/directive"
)

// Build loads the root fragment and every fragment reachable through its
// #import directives, producing the dependency DAG. Import paths are resolved
// relative to the importing fragment's own path. A fragment reached through
// several import chains is loaded and parsed once.
func Build(root string, loader Loader) (*Graph, error) {
	b := &builder{
		loader:    loader,
		fragments: make(map[string]*Fragment),
		active:    make(map[string]bool),
	}
	rootFrag, err := b.visit(Normalize(root), "", 0, nil)
	if err != nil {
		return nil, err
	}
	return &Graph{Root: rootFrag, Fragments: b.fragments, Order: b.order}, nil
}

// Normalize returns the canonical slash form of a fragment path, the identity
// used for deduplication and cache invalidation.
func Normalize(p string) string {
	return path.Clean(strings.TrimPrefix(p, "./"))
}

type builder struct {
	loader    Loader
	fragments map[string]*Fragment
	active    map[string]bool // visitation stack membership
	order     []*Fragment
}

// visit loads and parses one fragment, recursing into its imports first so
// b.order ends up dependency-first. stack holds the active import chain for
// cycle reporting.
func (b *builder) visit(p, importer string, line int, stack []string) (*Fragment, error) {
	if b.active[p] {
		return nil, cycleError(stack, p)
	}
	if f, ok := b.fragments[p]; ok {
		return f, nil
	}

	source, err := b.loader.Load(p)
	if err != nil {
		return nil, &UnresolvedImportError{Importer: importer, Line: line, Path: p, Err: err}
	}
	file, err := directive.Parse(p, source)
	if err != nil {
		return nil, err
	}

	f := &Fragment{Path: p, Source: source, File: file}
	b.active[p] = true
	stack = append(stack, p)

	aliases := make(map[string]int, len(file.Imports))
	dir := path.Dir(p)
	for _, imp := range file.Imports {
		target := Normalize(path.Join(dir, imp.Path))
		alias := imp.Alias
		if alias == "" {
			alias = defaultAlias(imp.Path)
		}
		if prev, dup := aliases[alias]; dup {
			return nil, &directive.SyntaxError{
				Path: p, Line: imp.Line,
				Msg: fmt.Sprintf("duplicate import alias %q (first used on line %d)", alias, prev),
			}
		}
		aliases[alias] = imp.Line

		child, err := b.visit(target, p, imp.Line, stack)
		if err != nil {
			return nil, err
		}
		f.Imports = append(f.Imports, Edge{To: child, Alias: alias, Line: imp.Line})
	}

	delete(b.active, p)
	b.fragments[p] = f
	b.order = append(b.order, f)
	return f, nil
}

// defaultAlias derives the namespace alias from an import path when no
// "as" clause is given: the base name with its extension stripped.
func defaultAlias(importPath string) string {
	base := path.Base(importPath)
	return strings.TrimSuffix(base, path.Ext(base))
}

// cycleError trims the active stack to the cycle members, starting at the
// revisited path.
func cycleError(stack []string, repeated string) *CycleError {
	start := 0
	for i, p := range stack {
		if p == repeated {
			start = i
			break
		}
	}
	members := make([]string, 0, len(stack)-start+1)
	members = append(members, stack[start:]...)
	members = append(members, repeated)
	return &CycleError{Members: members}
}
