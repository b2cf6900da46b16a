package macro

import (
	"strconv"
	"strings"
)

// Parse parses a #define expression. Only integer literals, macro references,
// +, *, and parentheses are accepted; anything else (including division, the
// operator the binding-index grammar deliberately omits) returns
// UnsupportedExprError.
func Parse(src string) (Expr, error) {
	p := &exprParser{src: src, tokens: nil}
	if err := p.tokenize(); err != nil {
		return nil, err
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.tokens) {
		return nil, &UnsupportedExprError{Expr: src, Detail: "trailing tokens after expression"}
	}
	return e, nil
}

type exprToken struct {
	kind byte // 'i' int, 'n' name, '+', '*', '(', ')'
	text string
}

type exprParser struct {
	src    string
	tokens []exprToken
	pos    int
}

func (p *exprParser) tokenize() error {
	s := p.src
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '+' || c == '*' || c == '(' || c == ')':
			p.tokens = append(p.tokens, exprToken{kind: c})
			i++
		case c >= '0' && c <= '9':
			j := i
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			p.tokens = append(p.tokens, exprToken{kind: 'i', text: s[i:j]})
			i = j
		case c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
			j := i
			for j < len(s) && (s[j] == '_' || (s[j] >= 'a' && s[j] <= 'z') || (s[j] >= 'A' && s[j] <= 'Z') || (s[j] >= '0' && s[j] <= '9')) {
				j++
			}
			p.tokens = append(p.tokens, exprToken{kind: 'n', text: s[i:j]})
			i = j
		default:
			detail := "operator " + strconv.Quote(string(c))
			if !strings.ContainsRune("/-%<>&|^~!", rune(c)) {
				detail = "character " + strconv.Quote(string(c))
			}
			return &UnsupportedExprError{Expr: p.src, Detail: detail}
		}
	}
	if len(p.tokens) == 0 {
		return &UnsupportedExprError{Expr: p.src, Detail: "empty expression"}
	}
	return nil
}

// parseExpr := term { '+' term }
func (p *exprParser) parseExpr() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.peek() == '+' {
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &BinOp{Op: OpAdd, L: left, R: right}
	}
	return left, nil
}

// parseTerm := factor { '*' factor }
func (p *exprParser) parseTerm() (Expr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.peek() == '*' {
		p.pos++
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &BinOp{Op: OpMul, L: left, R: right}
	}
	return left, nil
}

// parseFactor := INT | NAME | '(' expr ')'
func (p *exprParser) parseFactor() (Expr, error) {
	if p.pos >= len(p.tokens) {
		return nil, &UnsupportedExprError{Expr: p.src, Detail: "unexpected end of expression"}
	}
	tok := p.tokens[p.pos]
	switch tok.kind {
	case 'i':
		p.pos++
		v, err := strconv.Atoi(tok.text)
		if err != nil {
			return nil, &UnsupportedExprError{Expr: p.src, Detail: "integer literal out of range"}
		}
		return Lit(v), nil
	case 'n':
		p.pos++
		return Ref(tok.text), nil
	case '(':
		p.pos++
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.peek() != ')' {
			return nil, &UnsupportedExprError{Expr: p.src, Detail: "missing closing parenthesis"}
		}
		p.pos++
		return e, nil
	default:
		return nil, &UnsupportedExprError{Expr: p.src, Detail: "unexpected token " + strconv.Quote(tokenText(tok))}
	}
}

func (p *exprParser) peek() byte {
	if p.pos >= len(p.tokens) {
		return 0
	}
	return p.tokens[p.pos].kind
}

func tokenText(t exprToken) string {
	if t.text != "" {
		return t.text
	}
	return string(t.kind)
}
