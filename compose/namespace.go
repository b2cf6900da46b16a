package compose

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gogpu/oil/graph"
)

// namer hands out globally unique identifier prefixes. Fragments are visited
// in graph order, so the assignment is deterministic.
type namer struct {
	used map[string]bool
}

func newNamer() *namer {
	return &namer{used: make(map[string]bool)}
}

// unique returns base, or base with a numeric suffix when base was already
// taken by a different fragment's prefix.
func (n *namer) unique(base string) string {
	name := base
	for i := 1; n.used[name]; i++ {
		name = base + "_" + strconv.Itoa(i)
	}
	n.used[name] = true
	return name
}

// prefixFor derives an identifier prefix from a fragment path:
// "include/camera.wgsl" becomes "include_camera".
func prefixFor(path string) string {
	p := strings.TrimSuffix(path, ".wgsl")
	var sb strings.Builder
	for i := 0; i < len(p); i++ {
		c := p[i]
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			sb.WriteByte(c)
		} else {
			sb.WriteByte('_')
		}
	}
	out := sb.String()
	if out == "" || (out[0] >= '0' && out[0] <= '9') {
		out = "_" + out
	}
	return out
}

// exportTables assigns each exported symbol its final, collision-free
// identifier: a unique fragment prefix joined to the symbol name.
func exportTables(g *graph.Graph) map[*graph.Fragment]map[string]string {
	n := newNamer()
	tables := make(map[*graph.Fragment]map[string]string, len(g.Order))
	for _, f := range g.Order {
		if len(f.File.Exports) == 0 {
			tables[f] = nil
			continue
		}
		prefix := n.unique(prefixFor(f.Path))
		table := make(map[string]string, len(f.File.Exports))
		for _, exp := range f.File.Exports {
			table[exp.Symbol] = prefix + "_" + exp.Symbol
		}
		tables[f] = table
	}
	return tables
}

var qualifiedRe = regexp.MustCompile(`\b([A-Za-z_][A-Za-z0-9_]*)::([A-Za-z_][A-Za-z0-9_]*)`)

// rewriteReferences replaces every alias::symbol reference in the fragment's
// text with the target export's final identifier.
func rewriteReferences(f *graph.Fragment, text string, exports map[*graph.Fragment]map[string]string) (string, error) {
	if !strings.Contains(text, "::") {
		return text, nil
	}

	aliases := make(map[string]*graph.Fragment, len(f.Imports))
	for _, e := range f.Imports {
		aliases[e.Alias] = e.To
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if !strings.Contains(line, "::") {
			continue
		}
		var refErr error
		lines[i] = qualifiedRe.ReplaceAllStringFunc(line, func(m string) string {
			if refErr != nil {
				return m
			}
			sub := qualifiedRe.FindStringSubmatch(m)
			alias, symbol := sub[1], sub[2]

			target, ok := aliases[alias]
			if !ok {
				refErr = &UnresolvedReferenceError{
					Path: f.Path, Line: i + 1, Alias: alias, Symbol: symbol,
					Reason: "no import aliased " + strconv.Quote(alias),
				}
				return m
			}
			final, ok := exports[target][symbol]
			if !ok {
				refErr = &UnresolvedReferenceError{
					Path: f.Path, Line: i + 1, Alias: alias, Symbol: symbol,
					Reason: strconv.Quote(symbol) + " is not exported by " + target.Path,
				}
				return m
			}
			return final
		})
		if refErr != nil {
			return "", refErr
		}
	}
	return strings.Join(lines, "\n"), nil
}

// rewriteOwnExports renames the fragment's exported declarations, and every
// local bare reference to them, to their final identifiers.
func rewriteOwnExports(text string, table map[string]string) string {
	for symbol, final := range table {
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(symbol) + `\b`)
		text = re.ReplaceAllString(text, final)
	}
	return text
}
