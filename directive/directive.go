// Package directive extracts oil preprocessor directives from WGSL fragment
// source.
//
// Three directive forms are recognized, each on its own line:
//
//	#import <relative-path> [as <alias>]
//	#define <NAME> <expr>
//	@export
//
// An @export marker attaches to the next top-level declaration (struct,
// function, or binding variable). Macro references written as #NAME inside the
// body are not directives; they are left in place as substitution anchors for
// the composer.
package directive

// Kind identifies a directive form.
type Kind uint8

const (
	// KindImport is an #import line.
	KindImport Kind = iota

	// KindDefine is a #define line.
	KindDefine

	// KindExport is an @export marker.
	KindExport
)

// SymbolKind classifies the declaration an @export marker attaches to.
type SymbolKind uint8

const (
	// SymbolStruct is a struct declaration.
	SymbolStruct SymbolKind = iota

	// SymbolFunction is a function declaration.
	SymbolFunction

	// SymbolBinding is a module-scope variable declaration.
	SymbolBinding
)

// String returns a human-readable symbol kind name.
func (k SymbolKind) String() string {
	switch k {
	case SymbolStruct:
		return "struct"
	case SymbolFunction:
		return "function"
	case SymbolBinding:
		return "binding variable"
	default:
		return "unknown"
	}
}

// Import is one #import directive.
type Import struct {
	// Path is the import target as written, relative to the importing fragment.
	Path string

	// Alias is the namespace alias. Empty when the directive carried no
	// "as" clause; the graph builder then defaults it to the target's base name.
	Alias string

	// Line is the 1-based source line of the directive.
	Line int
}

// Define is one #define directive. The expression is kept as raw text;
// the macro package parses it.
type Define struct {
	Name string
	Expr string
	Line int
}

// Export is one @export marker together with the declaration it attaches to.
type Export struct {
	// Symbol is the name of the exported declaration.
	Symbol string

	// Kind is the declaration form.
	Kind SymbolKind

	// Line is the 1-based line of the @export marker.
	Line int
}

// File is the parse result for one fragment.
type File struct {
	Imports []Import
	Defines []Define
	Exports []Export

	// Residual is the fragment source with directive lines blanked.
	// Line count and line numbers are preserved so later errors can point
	// at the original source. #NAME anchors remain for substitution.
	Residual string
}
