package compose

import (
	"fmt"
	"regexp"
	"strings"
)

// Stage is a shader pipeline stage.
type Stage uint8

const (
	// StageVertex is a @vertex entry point.
	StageVertex Stage = iota

	// StageFragment is a @fragment entry point.
	StageFragment

	// StageCompute is a @compute entry point.
	StageCompute
)

// String returns the WGSL attribute name for the stage.
func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageCompute:
		return "compute"
	default:
		return "unknown"
	}
}

// EntryPoint is a staged entry function in composed output.
type EntryPoint struct {
	Name  string
	Stage Stage
}

var (
	stageAttrRe = regexp.MustCompile(`@(vertex|fragment|compute)\b`)
	fnNameRe    = regexp.MustCompile(`\bfn\s+([A-Za-z_][A-Za-z0-9_]*)`)
)

// scanEntryPoints lists the staged entry functions in source order. A stage
// attribute may sit on the same line as its fn or on a preceding line.
func scanEntryPoints(source string) []EntryPoint {
	var eps []EntryPoint
	pending, hasPending := StageVertex, false

	for _, line := range strings.Split(source, "\n") {
		if m := stageAttrRe.FindStringSubmatch(line); m != nil {
			pending, hasPending = stageFor(m[1]), true
		}
		if !hasPending {
			continue
		}
		if fm := fnNameRe.FindStringSubmatch(line); fm != nil {
			eps = append(eps, EntryPoint{Name: fm[1], Stage: pending})
			hasPending = false
		}
	}
	return eps
}

func stageFor(attr string) Stage {
	switch attr {
	case "fragment":
		return StageFragment
	case "compute":
		return StageCompute
	default:
		return StageVertex
	}
}

// Exclusive returns the source with every staged entry function other than
// entry removed, leaving shared declarations in place. This mirrors handing
// a single-entry module to backends that reject multi-entry shaders.
func Exclusive(source, entry string) (string, error) {
	lines := strings.Split(source, "\n")

	type span struct {
		name       string
		start, end int // line index range, inclusive
	}
	var spans []span

	attrLine := -1
	for i := 0; i < len(lines); i++ {
		if stageAttrRe.MatchString(lines[i]) && attrLine < 0 {
			attrLine = i
		}
		if attrLine < 0 {
			continue
		}
		fm := fnNameRe.FindStringSubmatch(lines[i])
		if fm == nil {
			continue
		}

		end, ok := functionEnd(lines, i)
		if !ok {
			return "", fmt.Errorf("unterminated function body for entry point %q", fm[1])
		}
		spans = append(spans, span{name: fm[1], start: attrLine, end: end})
		attrLine = -1
		i = end
	}

	found := false
	keep := make([]bool, len(lines))
	for i := range keep {
		keep[i] = true
	}
	for _, s := range spans {
		if s.name == entry {
			found = true
			continue
		}
		for i := s.start; i <= s.end; i++ {
			keep[i] = false
		}
	}
	if !found {
		return "", fmt.Errorf("entry point %q not found", entry)
	}

	var out []string
	for i, line := range lines {
		if keep[i] {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n"), nil
}

// functionEnd finds the line closing the function whose header is at start,
// by brace counting from the first opening brace.
func functionEnd(lines []string, start int) (int, bool) {
	depth := 0
	opened := false
	for i := start; i < len(lines); i++ {
		for _, c := range lines[i] {
			switch c {
			case '{':
				depth++
				opened = true
			case '}':
				depth--
			}
		}
		if opened && depth <= 0 {
			return i, true
		}
	}
	return 0, false
}
