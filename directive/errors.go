package directive

import "fmt"

// SyntaxError reports a malformed directive line.
type SyntaxError struct {
	// Path is the fragment the line belongs to.
	Path string

	// Line is the 1-based line number.
	Line int

	// Msg describes what was malformed.
	Msg string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
}

func syntaxErrorf(path string, line int, format string, args ...any) *SyntaxError {
	return &SyntaxError{Path: path, Line: line, Msg: fmt.Sprintf(format, args...)}
}
