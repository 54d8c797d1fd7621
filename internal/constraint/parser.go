// Copyright 2026 The Sycoca Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package constraint

import (
	"fmt"
	"strconv"
)

// Parse compiles a trader constraint expression. An empty expr matches
// everything (no filtering). A malformed expr returns a non-nil error —
// callers (see internal/sycoca.Query) treat that as "empty result set",
// never propagating a parse failure to their own caller.
func Parse(expr string) (Expr, error) {
	p := &parser{lex: newLexer(expr)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.kind == tokEOF {
		return alwaysTrue{}, nil
	}
	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, fmt.Errorf("constraint: unexpected trailing token %q", p.tok.text)
	}
	return e, nil
}

type alwaysTrue struct{}

func (alwaysTrue) eval(Properties) bool { return true }

type parser struct {
	lex *lexer
	tok token
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) expect(k tokenKind, what string) error {
	if p.tok.kind != k {
		return fmt.Errorf("constraint: expected %s, got %q", what, p.tok.text)
	}
	return p.advance()
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokOr {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &orExpr{left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokAnd {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &andExpr{left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseNot() (Expr, error) {
	if p.tok.kind == tokNot {
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &notExpr{inner: inner}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	switch p.tok.kind {
	case tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		e, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return e, nil
	case tokExist:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.kind != tokIdent {
			return nil, fmt.Errorf("constraint: expected property name after 'exist', got %q", p.tok.text)
		}
		name := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &existExpr{name: name}, nil
	case tokMax, tokMin:
		isMin := p.tok.kind == tokMin
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.kind != tokIdent {
			return nil, fmt.Errorf("constraint: expected property name after 'max'/'min', got %q", p.tok.text)
		}
		name := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &rankExpr{property: name, min: isMin}, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (Expr, error) {
	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	op := p.tok.kind
	switch op {
	case tokEq, tokNe, tokLt, tokLe, tokGt, tokGe, tokCiEq, tokContain, tokCiContain, tokSubseq, tokNSubseq, tokIn:
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		return &compareExpr{op: op, left: left, right: right}, nil
	default:
		return nil, fmt.Errorf("constraint: expected a comparison operator, got %q", p.tok.text)
	}
}

func (p *parser) parseOperand() (operand, error) {
	switch p.tok.kind {
	case tokString:
		v := operand{literal: stringValue(p.tok.text), isLit: true}
		return v, p.advance()
	case tokNumber:
		f, err := strconv.ParseFloat(p.tok.text, 64)
		if err != nil {
			return operand{}, fmt.Errorf("constraint: invalid numeric literal %q", p.tok.text)
		}
		v := operand{literal: numberValue(f), isLit: true}
		return v, p.advance()
	case tokTrue:
		return operand{literal: boolValue(true), isLit: true}, p.advance()
	case tokFalse:
		return operand{literal: boolValue(false), isLit: true}, p.advance()
	case tokIdent:
		name := p.tok.text
		return operand{ident: name}, p.advance()
	default:
		return operand{}, fmt.Errorf("constraint: expected an operand, got %q", p.tok.text)
	}
}

// Eval reports whether props satisfies expr.
func Eval(expr Expr, props Properties) bool {
	if expr == nil {
		return true
	}
	return expr.eval(props)
}
