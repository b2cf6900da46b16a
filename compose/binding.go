package compose

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/gogpu/oil/graph"
)

// varDeclRe matches a resource variable declaration after macro expansion:
// a run of attributes, then the var name. The group/binding pair is pulled
// out of the attribute run separately, so attribute order does not matter.
var (
	varDeclRe = regexp.MustCompile(
		`((?:@[A-Za-z_][A-Za-z0-9_]*(?:\([^)]*\))?\s*)+)` +
			`var(?:<[^>]*>)?\s+([A-Za-z_][A-Za-z0-9_]*)`)
	groupAttrRe   = regexp.MustCompile(`@group\((\d+)\)`)
	bindingAttrRe = regexp.MustCompile(`@binding\((\d+)\)`)
)

// collectBindings scans the rewritten fragment texts for binding
// declarations and enforces the slot invariants: no two emitted declarations
// share a (group, binding) pair, and every slot stays inside the caller's
// limits. The scan runs over emitted text only, so fragments composed
// elsewhere at different slots are unaffected.
func collectBindings(g *graph.Graph, texts map[*graph.Fragment]string, limits Limits) ([]Binding, error) {
	var bindings []Binding
	claimed := make(map[[2]int]Binding)

	for _, f := range g.Order {
		for _, m := range varDeclRe.FindAllStringSubmatch(texts[f], -1) {
			attrs, symbol := m[1], m[2]
			gm := groupAttrRe.FindStringSubmatch(attrs)
			bm := bindingAttrRe.FindStringSubmatch(attrs)
			if gm == nil && bm == nil {
				continue // not a resource binding
			}
			if gm == nil || bm == nil {
				return nil, fmt.Errorf("%s: var %s has %s without its counterpart",
					f.Path, symbol, presentAttr(gm))
			}

			group, _ := strconv.Atoi(gm[1])
			binding, _ := strconv.Atoi(bm[1])
			b := Binding{Group: group, Binding: binding, Symbol: symbol, Path: f.Path}

			if prev, ok := claimed[[2]int{group, binding}]; ok {
				return nil, &BindingCollisionError{
					Group: group, Binding: binding,
					First: prev.Symbol, FirstPath: prev.Path,
					Second: b.Symbol, SecondPath: b.Path,
				}
			}
			claimed[[2]int{group, binding}] = b

			if limits.MaxBindGroups > 0 && group >= limits.MaxBindGroups {
				return nil, &LimitError{Group: group, Binding: binding, Symbol: b.Symbol, Path: f.Path, Limits: limits}
			}
			if limits.MaxBindingsPerGroup > 0 && binding >= limits.MaxBindingsPerGroup {
				return nil, &LimitError{Group: group, Binding: binding, Symbol: b.Symbol, Path: f.Path, Limits: limits}
			}

			bindings = append(bindings, b)
		}
	}
	return bindings, nil
}

func presentAttr(groupMatch []string) string {
	if groupMatch != nil {
		return "@group"
	}
	return "@binding"
}
