package macro

// LookupFunc resolves a macro name to its defining expression. It returns
// false when the name has no definition.
type LookupFunc func(name string) (Expr, bool)

// Evaluator evaluates expressions against a definition lookup, memoizing
// resolved names and rejecting recursive definitions.
type Evaluator struct {
	lookup LookupFunc
	done   map[string]int
	active map[string]bool
}

// NewEvaluator returns an evaluator backed by lookup.
func NewEvaluator(lookup LookupFunc) *Evaluator {
	return &Evaluator{
		lookup: lookup,
		done:   make(map[string]int),
		active: make(map[string]bool),
	}
}

// Eval reduces e to an integer. References are resolved through the lookup
// and evaluated recursively; a name whose definition leads back to itself
// yields UnsupportedExprError, and a name with no definition yields
// UndefinedError.
func (ev *Evaluator) Eval(e Expr) (int, error) {
	switch e := e.(type) {
	case Lit:
		return int(e), nil
	case Ref:
		return ev.resolve(string(e))
	case *BinOp:
		l, err := ev.Eval(e.L)
		if err != nil {
			return 0, err
		}
		r, err := ev.Eval(e.R)
		if err != nil {
			return 0, err
		}
		if e.Op == OpMul {
			return l * r, nil
		}
		return l + r, nil
	default:
		return 0, &UnsupportedExprError{Expr: e.String(), Detail: "unknown expression node"}
	}
}

func (ev *Evaluator) resolve(name string) (int, error) {
	if v, ok := ev.done[name]; ok {
		return v, nil
	}
	if ev.active[name] {
		return 0, &UnsupportedExprError{Expr: name, Detail: "recursive macro definition"}
	}
	def, ok := ev.lookup(name)
	if !ok {
		return 0, &UndefinedError{Name: name}
	}

	ev.active[name] = true
	v, err := ev.Eval(def)
	delete(ev.active, name)
	if err != nil {
		return 0, err
	}
	ev.done[name] = v
	return v, nil
}
