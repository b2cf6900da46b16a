package macro

import "strconv"

// Expr is a parsed macro expression.
type Expr interface {
	// String renders the expression in source form.
	String() string

	isExpr()
}

// Lit is an integer literal.
type Lit int

func (Lit) isExpr() {}

// String implements Expr.
func (l Lit) String() string { return strconv.Itoa(int(l)) }

// Ref is a reference to another macro name.
type Ref string

func (Ref) isExpr() {}

// String implements Expr.
func (r Ref) String() string { return string(r) }

// Op is a binary operator.
type Op uint8

const (
	// OpAdd is integer addition.
	OpAdd Op = iota

	// OpMul is integer multiplication.
	OpMul
)

// String returns the operator's source form.
func (o Op) String() string {
	if o == OpMul {
		return "*"
	}
	return "+"
}

// BinOp applies Op to two subexpressions.
type BinOp struct {
	Op   Op
	L, R Expr
}

func (*BinOp) isExpr() {}

// String implements Expr.
func (b *BinOp) String() string {
	return b.L.String() + " " + b.Op.String() + " " + b.R.String()
}
