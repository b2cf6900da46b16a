// Package compose turns a fragment graph into final shader source: it
// evaluates and substitutes macros, namespaces exported symbols, emits
// fragments in dependency order, and validates binding slots.
package compose

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gogpu/oil/graph"
	"github.com/gogpu/oil/macro"
)

// Limits bounds the binding slots a composition may use. The zero value
// disables the check; actual values come from the pipeline builder, which
// knows the device.
type Limits struct {
	MaxBindGroups       int
	MaxBindingsPerGroup int
}

// Options configures one composition.
type Options struct {
	Limits Limits
}

// Result is a finished composition.
type Result struct {
	// Source is the composed shader text.
	Source string

	// EntryPoints lists the staged entry functions found in Source.
	EntryPoints []EntryPoint

	// Bindings lists every binding declaration emitted, in emit order.
	Bindings []Binding
}

// Binding is one emitted binding declaration and its resolved slot.
type Binding struct {
	Group   int
	Binding int
	Symbol  string
	Path    string
}

// Compose runs the full pipeline over a built graph with the caller's macro
// environment. A nil env is treated as empty.
func Compose(g *graph.Graph, env *macro.Env, opts Options) (*Result, error) {
	defs, err := layerDefines(g, env)
	if err != nil {
		return nil, err
	}

	texts := make(map[*graph.Fragment]string, len(g.Order))
	for _, f := range g.Order {
		text, err := substitute(f, env, defs[f])
		if err != nil {
			return nil, err
		}
		texts[f] = text
	}

	exports := exportTables(g)
	for _, f := range g.Order {
		text, err := rewriteReferences(f, texts[f], exports)
		if err != nil {
			return nil, err
		}
		texts[f] = rewriteOwnExports(text, exports[f])
	}

	bindings, err := collectBindings(g, texts, opts.Limits)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	for _, f := range g.Order {
		text := strings.TrimRight(texts[f], "\n")
		if strings.TrimSpace(text) == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(text)
	}
	sb.WriteString("\n")
	source := sb.String()

	return &Result{
		Source:      source,
		EntryPoints: scanEntryPoints(source),
		Bindings:    bindings,
	}, nil
}

// definition is one #define with its site, used for shadowing diagnostics.
type definition struct {
	expr macro.Expr
	path string
	line int
}

// layerDefines computes, per fragment, the macro definitions visible to it:
// its own #defines plus those of every fragment it transitively imports.
// Any name bound twice along the way is a shadowing error; the caller
// environment counts as an outermost binding.
func layerDefines(g *graph.Graph, env *macro.Env) (map[*graph.Fragment]map[string]*definition, error) {
	result := make(map[*graph.Fragment]map[string]*definition, len(g.Order))

	for _, f := range g.Order { // dependencies come first
		merged := make(map[string]*definition)
		for _, e := range f.Imports {
			for name, def := range result[e.To] {
				if prev, ok := merged[name]; ok && prev != def {
					return nil, &ShadowingError{
						Name: name,
						Path: def.path, Line: def.line,
						PrevPath: prev.path, PrevLine: prev.line,
					}
				}
				merged[name] = def
			}
		}

		for _, d := range f.File.Defines {
			if _, ok := env.Get(d.Name); ok {
				return nil, &ShadowingError{Name: d.Name, Path: f.Path, Line: d.Line}
			}
			if prev, ok := merged[d.Name]; ok {
				return nil, &ShadowingError{
					Name: d.Name,
					Path: f.Path, Line: d.Line,
					PrevPath: prev.path, PrevLine: prev.line,
				}
			}
			expr, err := macro.Parse(d.Expr)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", f.Path, d.Line, err)
			}
			merged[d.Name] = &definition{expr: expr, path: f.Path, line: d.Line}
		}
		result[f] = merged
	}
	return result, nil
}

var (
	anchorRe   = regexp.MustCompile(`#([A-Za-z_][A-Za-z0-9_]*)`)
	slotAttrRe = regexp.MustCompile(`@(group|binding)\(([^)]*)\)`)
)

// substitute replaces every #NAME anchor in the fragment's residual source
// with the macro's evaluated integer value. On lines where substitution
// happened, @group/@binding arguments must reduce to plain integer literals.
func substitute(f *graph.Fragment, env *macro.Env, defs map[string]*definition) (string, error) {
	ev := macro.NewEvaluator(func(name string) (macro.Expr, bool) {
		if v, ok := env.Get(name); ok {
			return macro.Lit(v), true
		}
		if def, ok := defs[name]; ok {
			return def.expr, true
		}
		return nil, false
	})

	lines := strings.Split(f.File.Residual, "\n")
	for i, line := range lines {
		if !strings.Contains(line, "#") {
			continue
		}
		var evalErr error
		replaced := anchorRe.ReplaceAllStringFunc(line, func(m string) string {
			if evalErr != nil {
				return m
			}
			v, err := ev.Eval(macro.Ref(m[1:]))
			if err != nil {
				evalErr = err
				return m
			}
			return strconv.Itoa(v)
		})
		if evalErr != nil {
			return "", fmt.Errorf("%s:%d: %w", f.Path, i+1, evalErr)
		}
		if replaced != line {
			for _, m := range slotAttrRe.FindAllStringSubmatch(replaced, -1) {
				arg := strings.TrimSpace(m[2])
				if _, err := strconv.Atoi(arg); err != nil {
					return "", &SubstitutionError{Path: f.Path, Line: i + 1, Text: arg}
				}
			}
		}
		lines[i] = replaced
	}
	return strings.Join(lines, "\n"), nil
}
