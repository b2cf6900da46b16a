package directive

import "strings"

// Parse scans one fragment's source and returns its directives and residual
// text. path is used only for error reporting; Parse never touches the
// filesystem.
func Parse(path, source string) (*File, error) {
	lines := strings.Split(source, "\n")
	residual := make([]string, len(lines))
	copy(residual, lines)

	f := &File{}
	var pendingExport = -1 // line index of an unattached @export marker

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case isDirective(trimmed, "#import"):
			imp, err := parseImport(path, i+1, trimmed)
			if err != nil {
				return nil, err
			}
			f.Imports = append(f.Imports, imp)
			residual[i] = ""

		case isDirective(trimmed, "#define"):
			def, err := parseDefine(path, i+1, trimmed)
			if err != nil {
				return nil, err
			}
			f.Defines = append(f.Defines, def)
			residual[i] = ""

		case trimmed == "@export":
			if pendingExport >= 0 {
				return nil, syntaxErrorf(path, pendingExport+1, "@export marker with no following declaration")
			}
			pendingExport = i
			residual[i] = ""

		case strings.HasPrefix(trimmed, "@export"):
			return nil, syntaxErrorf(path, i+1, "unexpected tokens after @export")

		case strings.HasPrefix(trimmed, "#"):
			// A lone # line that is not an anchor inside a declaration is a
			// directive we do not know.
			return nil, syntaxErrorf(path, i+1, "unknown directive %q", firstWord(trimmed))

		default:
			if pendingExport >= 0 && !isSkippable(trimmed) {
				kind, symbol, ok := parseDeclaration(lines, i)
				if !ok {
					return nil, syntaxErrorf(path, pendingExport+1, "@export must precede a struct, function, or variable declaration")
				}
				f.Exports = append(f.Exports, Export{Symbol: symbol, Kind: kind, Line: pendingExport + 1})
				pendingExport = -1
			}
		}
	}

	if pendingExport >= 0 {
		return nil, syntaxErrorf(path, pendingExport+1, "@export marker with no following declaration")
	}

	f.Residual = strings.Join(residual, "\n")
	return f, nil
}

// parseImport parses "#import <path> [as <alias>]".
func parseImport(path string, line int, text string) (Import, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(text, "#import"))
	if rest == "" {
		return Import{}, syntaxErrorf(path, line, "#import missing path")
	}

	var target string
	if strings.HasPrefix(rest, `"`) {
		end := strings.Index(rest[1:], `"`)
		if end < 0 {
			return Import{}, syntaxErrorf(path, line, "#import has unterminated quoted path")
		}
		target = rest[1 : 1+end]
		rest = strings.TrimSpace(rest[2+end:])
	} else {
		fields := strings.Fields(rest)
		target = fields[0]
		rest = strings.TrimSpace(strings.TrimPrefix(rest, target))
	}
	if target == "" {
		return Import{}, syntaxErrorf(path, line, "#import missing path")
	}

	imp := Import{Path: target, Line: line}
	if rest != "" {
		fields := strings.Fields(rest)
		if len(fields) != 2 || fields[0] != "as" || !isIdentifier(fields[1]) {
			return Import{}, syntaxErrorf(path, line, "#import expects `as <alias>`, got %q", rest)
		}
		imp.Alias = fields[1]
	}
	return imp, nil
}

// parseDefine parses "#define <NAME> <expr>".
func parseDefine(path string, line int, text string) (Define, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(text, "#define"))
	name, expr, _ := strings.Cut(rest, " ")
	expr = strings.TrimSpace(expr)
	if name == "" || expr == "" {
		return Define{}, syntaxErrorf(path, line, "#define expects a name and an expression")
	}
	if !isIdentifier(name) {
		return Define{}, syntaxErrorf(path, line, "#define name %q is not an identifier", name)
	}
	return Define{Name: name, Expr: expr, Line: line}, nil
}

// parseDeclaration identifies the top-level declaration beginning at
// lines[start], skipping over leading attributes which may span lines.
func parseDeclaration(lines []string, start int) (SymbolKind, string, bool) {
	for i := start; i < len(lines); i++ {
		rest := strings.TrimSpace(lines[i])
		if isSkippable(rest) {
			continue
		}
		// Strip leading attributes such as @group(#G) @binding(#B) or @vertex.
		for strings.HasPrefix(rest, "@") {
			end := attributeEnd(rest)
			if end < 0 {
				return 0, "", false
			}
			rest = strings.TrimSpace(rest[end:])
		}
		if rest == "" {
			continue // attributes alone on this line; declaration follows
		}

		switch {
		case strings.HasPrefix(rest, "struct"):
			name := leadingIdentifier(strings.TrimSpace(rest[len("struct"):]))
			return SymbolStruct, name, name != ""
		case strings.HasPrefix(rest, "fn"):
			name := leadingIdentifier(strings.TrimSpace(rest[len("fn"):]))
			return SymbolFunction, name, name != ""
		case strings.HasPrefix(rest, "var"):
			rest = strings.TrimSpace(rest[len("var"):])
			if strings.HasPrefix(rest, "<") {
				close := strings.Index(rest, ">")
				if close < 0 {
					return 0, "", false
				}
				rest = strings.TrimSpace(rest[close+1:])
			}
			name := leadingIdentifier(rest)
			return SymbolBinding, name, name != ""
		case strings.HasPrefix(rest, "const"), strings.HasPrefix(rest, "override"):
			kw := "const"
			if strings.HasPrefix(rest, "override") {
				kw = "override"
			}
			name := leadingIdentifier(strings.TrimSpace(rest[len(kw):]))
			return SymbolBinding, name, name != ""
		default:
			return 0, "", false
		}
	}
	return 0, "", false
}

// attributeEnd returns the index just past the attribute starting at text[0],
// or -1 when the attribute is malformed. Attributes are @name or @name(args)
// where args contain no nested parentheses.
func attributeEnd(text string) int {
	i := 1
	for i < len(text) && isIdentByte(text[i]) {
		i++
	}
	if i == 1 {
		return -1
	}
	if i < len(text) && text[i] == '(' {
		close := strings.IndexByte(text[i:], ')')
		if close < 0 {
			return -1
		}
		return i + close + 1
	}
	return i
}

// isDirective reports whether a trimmed line is the given directive: the
// keyword must stand alone or be followed by whitespace, so a fused token
// like "#importx" is not an import.
func isDirective(trimmed, keyword string) bool {
	if !strings.HasPrefix(trimmed, keyword) {
		return false
	}
	rest := trimmed[len(keyword):]
	return rest == "" || rest[0] == ' ' || rest[0] == '\t'
}

// isSkippable reports whether a trimmed line carries no declaration.
func isSkippable(trimmed string) bool {
	return trimmed == "" || strings.HasPrefix(trimmed, "//") ||
		strings.HasPrefix(trimmed, "#") || trimmed == "@export"
}

func firstWord(s string) string {
	if f := strings.Fields(s); len(f) > 0 {
		return f[0]
	}
	return s
}

// leadingIdentifier returns the identifier at the start of s, or "".
func leadingIdentifier(s string) string {
	i := 0
	for i < len(s) && isIdentByte(s[i]) {
		i++
	}
	if i == 0 || (s[0] >= '0' && s[0] <= '9') {
		return ""
	}
	return s[:i]
}

func isIdentifier(s string) bool {
	return s != "" && leadingIdentifier(s) == s
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
