package graph

import (
	"fmt"
	"strings"
)

// UnresolvedImportError reports an import whose target could not be loaded.
type UnresolvedImportError struct {
	// Importer is the fragment containing the #import, or "" for the root.
	Importer string

	// Line is the directive line in the importer, 0 for the root.
	Line int

	// Path is the unresolved target as written.
	Path string

	// Err is the loader's error.
	Err error
}

// Error implements the error interface.
func (e *UnresolvedImportError) Error() string {
	if e.Importer == "" {
		return fmt.Sprintf("cannot load root fragment %q: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s:%d: cannot resolve import %q: %v", e.Importer, e.Line, e.Path, e.Err)
}

// Unwrap returns the loader error.
func (e *UnresolvedImportError) Unwrap() error { return e.Err }

// CycleError reports a cyclic chain of imports. Members are listed in
// discovery order, ending with the path that closed the cycle.
type CycleError struct {
	Members []string
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	return "cyclic import: " + strings.Join(e.Members, " -> ")
}
