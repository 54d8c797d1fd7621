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
	"strconv"
	"strings"

	"github.com/googlecloudplatform/sycoca/internal/codec"
)

// valueKind discriminates an evaluated operand. kindUndefined marks a
// property that is absent or whose variant kind is nonsensical for the
// requested use — comparisons against it always evaluate false rather
// than panicking.
type valueKind int

const (
	kindUndefined valueKind = iota
	kindString
	kindNumber
	kindBool
	kindList
)

type value struct {
	kind valueKind
	str  string
	num  float64
	b    bool
	list []string
}

func stringValue(s string) value { return value{kind: kindString, str: s} }
func numberValue(f float64) value { return value{kind: kindNumber, num: f} }
func boolValue(b bool) value      { return value{kind: kindBool, b: b} }
func listValue(l []string) value  { return value{kind: kindList, list: l} }

// variantToValue converts a decoded property value into an evaluator value.
// Locale-independent: numeric variants are already float64/int64 in Go, no
// text parsing (and thus no locale) involved.
func variantToValue(v codec.Variant) value {
	switch v.Kind {
	case codec.VariantString:
		return stringValue(v.Str)
	case codec.VariantStringList:
		return listValue(v.List)
	case codec.VariantInt:
		return numberValue(float64(v.Int))
	case codec.VariantDouble:
		return numberValue(v.Double)
	case codec.VariantBool:
		return boolValue(v.Bool)
	default:
		return value{kind: kindUndefined}
	}
}

// asNumber coerces v to a float64. Numeric variants convert directly;
// string variants parse with '.' as the decimal separator regardless of
// locale — strconv.ParseFloat is already locale-independent, so no extra
// normalization is needed here.
func (v value) asNumber() (float64, bool) {
	switch v.kind {
	case kindNumber:
		return v.num, true
	case kindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// asString renders v for lexical comparisons. Undefined and list values
// have no string form.
func (v value) asString() (string, bool) {
	switch v.kind {
	case kindString:
		return v.str, true
	case kindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64), true
	case kindBool:
		return strconv.FormatBool(v.b), true
	default:
		return "", false
	}
}
