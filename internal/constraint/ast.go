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
	"strings"

	"github.com/googlecloudplatform/sycoca/internal/codec"
)

// Properties is the property map an Expr is evaluated against — a
// Service's decoded property set.
type Properties map[string]codec.Variant

// Expr is a parsed constraint expression. Filter expressions evaluate to
// a boolean; a bare "max P" / "min P" ranking expression parses but always
// matches, and nothing reorders results by it.
type Expr interface {
	eval(props Properties) bool
}

type orExpr struct{ left, right Expr }

func (e *orExpr) eval(p Properties) bool { return e.left.eval(p) || e.right.eval(p) }

type andExpr struct{ left, right Expr }

func (e *andExpr) eval(p Properties) bool { return e.left.eval(p) && e.right.eval(p) }

type notExpr struct{ inner Expr }

func (e *notExpr) eval(p Properties) bool { return !e.inner.eval(p) }

type existExpr struct{ name string }

func (e *existExpr) eval(p Properties) bool {
	_, ok := p[e.name]
	return ok
}

type rankExpr struct {
	property string
	min      bool
}

func (e *rankExpr) eval(Properties) bool { return true }

// operand resolves either to a literal value or to a named property.
type operand struct {
	literal value
	isLit   bool
	ident   string
}

func (o operand) resolve(p Properties) value {
	if o.isLit {
		return o.literal
	}
	v, ok := p[o.ident]
	if !ok {
		return value{kind: kindUndefined}
	}
	return variantToValue(v)
}

type compareExpr struct {
	op          tokenKind
	left, right operand
}

func (e *compareExpr) eval(p Properties) bool {
	lv := e.left.resolve(p)
	rv := e.right.resolve(p)

	switch e.op {
	case tokEq, tokNe, tokLt, tokLe, tokGt, tokGe:
		return evalOrdering(e.op, lv, rv)
	case tokCiEq:
		ls, lok := lv.asString()
		rs, rok := rv.asString()
		if !lok || !rok {
			return false
		}
		return strings.EqualFold(ls, rs)
	case tokContain:
		ls, lok := lv.asString()
		rs, rok := rv.asString()
		if !lok || !rok {
			return false
		}
		return strings.Contains(rs, ls)
	case tokCiContain:
		ls, lok := lv.asString()
		rs, rok := rv.asString()
		if !lok || !rok {
			return false
		}
		return strings.Contains(strings.ToLower(rs), strings.ToLower(ls))
	case tokSubseq:
		ls, lok := lv.asString()
		rs, rok := rv.asString()
		if !lok || !rok {
			return false
		}
		return isSubsequence(ls, rs, false)
	case tokNSubseq:
		ls, lok := lv.asString()
		rs, rok := rv.asString()
		if !lok || !rok {
			return false
		}
		return isSubsequence(ls, rs, true)
	case tokIn:
		ls, lok := lv.asString()
		if !lok || rv.kind != kindList {
			return false
		}
		for _, item := range rv.list {
			if item == ls {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// evalOrdering coerces both sides to numeric comparison when either side
// is numeric (or numeric-parseable), falling back to lexical string
// comparison otherwise.
func evalOrdering(op tokenKind, lv, rv value) bool {
	if ln, lok := lv.asNumber(); lok {
		if rn, rok := rv.asNumber(); rok {
			return compareOrdered(op, numCompare(ln, rn))
		}
	}
	ls, lok := lv.asString()
	rs, rok := rv.asString()
	if !lok || !rok {
		return false
	}
	return compareOrdered(op, strings.Compare(ls, rs))
}

func numCompare(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareOrdered(op tokenKind, cmp int) bool {
	switch op {
	case tokEq:
		return cmp == 0
	case tokNe:
		return cmp != 0
	case tokLt:
		return cmp < 0
	case tokLe:
		return cmp <= 0
	case tokGt:
		return cmp > 0
	case tokGe:
		return cmp >= 0
	default:
		return false
	}
}

// isSubsequence reports whether a appears, in order but not necessarily
// contiguously, within b. Empty a or empty b is always false.
func isSubsequence(a, b string, caseInsensitive bool) bool {
	if a == "" || b == "" {
		return false
	}
	if caseInsensitive {
		a = strings.ToLower(a)
		b = strings.ToLower(b)
	}
	ar := []rune(a)
	i := 0
	for _, r := range b {
		if i < len(ar) && ar[i] == r {
			i++
		}
	}
	return i == len(ar)
}
