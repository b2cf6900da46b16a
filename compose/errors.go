package compose

import "fmt"

// ShadowingError reports a macro name defined twice along one visibility
// chain: a fragment redefining a caller-environment name or an upstream
// #define, or two unrelated definitions of the same name meeting in a
// fragment that depends on both. Binding-index arithmetic relies on a single
// definition per name, so this is never a silent override.
type ShadowingError struct {
	Name string

	// Path/Line locate the redefinition.
	Path string
	Line int

	// PrevPath/PrevLine locate the earlier definition. PrevPath is "" when
	// the name came from the caller's macro environment.
	PrevPath string
	PrevLine int
}

// Error implements the error interface.
func (e *ShadowingError) Error() string {
	if e.PrevPath == "" {
		return fmt.Sprintf("%s:%d: macro %q shadows the caller environment", e.Path, e.Line, e.Name)
	}
	return fmt.Sprintf("%s:%d: macro %q already defined at %s:%d", e.Path, e.Line, e.Name, e.PrevPath, e.PrevLine)
}

// SubstitutionError reports a macro substitution whose result is not a valid
// integer literal in an attribute argument position.
type SubstitutionError struct {
	Path string
	Line int

	// Text is the attribute argument after substitution.
	Text string
}

// Error implements the error interface.
func (e *SubstitutionError) Error() string {
	return fmt.Sprintf("%s:%d: substituted attribute argument %q is not an integer", e.Path, e.Line, e.Text)
}

// UnresolvedReferenceError reports a qualified reference that names an
// unknown import alias or a symbol the aliased fragment does not export.
type UnresolvedReferenceError struct {
	Path   string
	Line   int
	Alias  string
	Symbol string

	// Reason distinguishes an unknown alias from an unexported symbol.
	Reason string
}

// Error implements the error interface.
func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("%s:%d: cannot resolve %s::%s: %s", e.Path, e.Line, e.Alias, e.Symbol, e.Reason)
}

// BindingCollisionError reports two distinct binding variables resolving to
// the same (group, binding) slot within one composed output.
type BindingCollisionError struct {
	Group   int
	Binding int

	First      string
	FirstPath  string
	Second     string
	SecondPath string
}

// Error implements the error interface.
func (e *BindingCollisionError) Error() string {
	return fmt.Sprintf("binding slot (group %d, binding %d) claimed by both %s (%s) and %s (%s)",
		e.Group, e.Binding, e.First, e.FirstPath, e.Second, e.SecondPath)
}

// LimitError reports a resolved binding slot outside the limits supplied by
// the pipeline builder.
type LimitError struct {
	Group   int
	Binding int
	Symbol  string
	Path    string
	Limits  Limits
}

// Error implements the error interface.
func (e *LimitError) Error() string {
	return fmt.Sprintf("%s: binding %s at (group %d, binding %d) exceeds limits (max %d groups, %d bindings per group)",
		e.Path, e.Symbol, e.Group, e.Binding, e.Limits.MaxBindGroups, e.Limits.MaxBindingsPerGroup)
}
