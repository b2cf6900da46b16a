package macro

import (
	"errors"
	"testing"
)

func TestParseEval(t *testing.T) {
	bindings := map[string]Expr{
		"T": Lit(0),
		"G": Lit(3),
	}
	lookup := func(name string) (Expr, bool) {
		e, ok := bindings[name]
		return e, ok
	}

	tests := []struct {
		expr string
		want int
	}{
		{"7", 7},
		{"T", 0},
		{"T * 2 + 1", 1},
		{"G * 2 + 1", 7},
		{"1 + G * 2", 7},       // multiplication binds tighter
		{"(1 + G) * 2", 8},     // parentheses override
		{"G + G + 1", 7},
		{"2 * 3 * 4", 24},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			e, err := Parse(tt.expr)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			got, err := NewEvaluator(lookup).Eval(e)
			if err != nil {
				t.Fatalf("Eval: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseUnsupported(t *testing.T) {
	exprs := []string{
		"A / 2",
		"A - 1",
		"A % 2",
		"A << 1",
		"",
		"1 +",
		"(1 + 2",
		"1 2",
		"A.B",
	}
	for _, src := range exprs {
		t.Run(src, func(t *testing.T) {
			_, err := Parse(src)
			if err == nil {
				t.Fatal("expected error")
			}
			var ue *UnsupportedExprError
			if !errors.As(err, &ue) {
				t.Fatalf("expected UnsupportedExprError, got %T: %v", err, err)
			}
		})
	}
}

func TestEvalUndefined(t *testing.T) {
	e, err := Parse("MISSING + 1")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	_, err = NewEvaluator(func(string) (Expr, bool) { return nil, false }).Eval(e)
	var ue *UndefinedError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UndefinedError, got %T: %v", err, err)
	}
	if ue.Name != "MISSING" {
		t.Errorf("name = %q", ue.Name)
	}
}

func TestEvalRecursive(t *testing.T) {
	defs := map[string]Expr{
		"A": Ref("B"),
		"B": Ref("A"),
	}
	lookup := func(name string) (Expr, bool) {
		e, ok := defs[name]
		return e, ok
	}
	_, err := NewEvaluator(lookup).Eval(Ref("A"))
	var ue *UnsupportedExprError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UnsupportedExprError, got %T: %v", err, err)
	}
}

func TestEvalChainedDefines(t *testing.T) {
	defs := map[string]Expr{
		"BASE":    Lit(2),
		"DERIVED": &BinOp{Op: OpMul, L: Ref("BASE"), R: Lit(3)},
		"FINAL":   &BinOp{Op: OpAdd, L: Ref("DERIVED"), R: Lit(1)},
	}
	lookup := func(name string) (Expr, bool) {
		e, ok := defs[name]
		return e, ok
	}
	got, err := NewEvaluator(lookup).Eval(Ref("FINAL"))
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got != 7 {
		t.Errorf("got %d, want 7", got)
	}
}
