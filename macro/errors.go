package macro

import "fmt"

// UndefinedError reports a reference to a macro name with no definition in
// the environment visible at the reference site.
type UndefinedError struct {
	Name string
}

// Error implements the error interface.
func (e *UndefinedError) Error() string {
	return fmt.Sprintf("undefined macro %q", e.Name)
}

// UnsupportedExprError reports an expression outside the supported grammar:
// integer literals, macro references, addition, and multiplication. Recursive
// definitions are reported here too, since they have no integer value.
type UnsupportedExprError struct {
	// Expr is the offending expression text.
	Expr string

	// Detail names the unsupported construct.
	Detail string
}

// Error implements the error interface.
func (e *UnsupportedExprError) Error() string {
	return fmt.Sprintf("unsupported macro expression %q: %s", e.Expr, e.Detail)
}
