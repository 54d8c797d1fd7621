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

package constraint_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/googlecloudplatform/sycoca/internal/codec"
	"github.com/googlecloudplatform/sycoca/internal/constraint"
)

func mustParse(t *testing.T, expr string) constraint.Expr {
	t.Helper()
	e, err := constraint.Parse(expr)
	require.NoError(t, err)
	return e
}

func TestEqualityFiltersByExactMatch(t *testing.T) {
	textplugin := constraint.Properties{"Library": codec.VariantFromString("faketextplugin")}
	fakeservice := constraint.Properties{"Library": codec.VariantFromString("fakeservice")}

	e := mustParse(t, "Library == 'faketextplugin'")
	require.True(t, constraint.Eval(e, textplugin))
	require.False(t, constraint.Eval(e, fakeservice))
}

func TestContainsOperatorDirection(t *testing.T) {
	textplugin := constraint.Properties{"Library": codec.VariantFromString("faketextplugin")}
	e := mustParse(t, "'textplugin' ~ Library")
	require.True(t, constraint.Eval(e, textplugin))
}

func TestNumericComparisonIsLocaleIndependent(t *testing.T) {
	fakeservice := constraint.Properties{"X-KDE-Version": codec.VariantFromDouble(4.56)}
	textplugin := constraint.Properties{"X-KDE-Version": codec.VariantFromString("")}

	e := mustParse(t, "([X-KDE-Version] > 4.559) and ([X-KDE-Version] < 4.561)")
	require.True(t, constraint.Eval(e, fakeservice))
	require.False(t, constraint.Eval(e, textplugin))
}

func TestSubseqMatchesNonContiguousCharacters(t *testing.T) {
	e := mustParse(t, "'lngfile' subseq 'somereallylongfile'")
	require.True(t, constraint.Eval(e, nil))
}

func TestSubseqRejectsOutOfOrderCharacters(t *testing.T) {
	e := mustParse(t, "'god' subseq 'dog'")
	require.False(t, constraint.Eval(e, nil))
}

func TestSubseqIsCaseSensitiveUnlessTilded(t *testing.T) {
	sensitive := mustParse(t, "'mismatch' subseq 'mIsMaTcH'")
	require.False(t, constraint.Eval(sensitive, nil))

	insensitive := mustParse(t, "'mismatch' ~subseq 'mIsMaTcH'")
	require.True(t, constraint.Eval(insensitive, nil))
}

func TestExistChecksPropertyPresence(t *testing.T) {
	e := mustParse(t, "exist X-KDE-Version")
	require.True(t, constraint.Eval(e, constraint.Properties{"X-KDE-Version": codec.VariantFromInt(1)}))
	require.False(t, constraint.Eval(e, constraint.Properties{}))
}

func TestInChecksListMembership(t *testing.T) {
	props := constraint.Properties{"MimeTypes": codec.VariantFromStringList([]string{"text/plain", "text/html"})}
	e := mustParse(t, "'text/html' in MimeTypes")
	require.True(t, constraint.Eval(e, props))

	e2 := mustParse(t, "'image/png' in MimeTypes")
	require.False(t, constraint.Eval(e2, props))
}

func TestUndeclaredNumericPropertyNeverThrowsAndComparesFalse(t *testing.T) {
	e := mustParse(t, "Missing > 3")
	require.False(t, constraint.Eval(e, constraint.Properties{}))
}

func TestMalformedExpressionReturnsParseError(t *testing.T) {
	_, err := constraint.Parse("A == B OR C == D AND OR Foo == 'Parse Error'")
	require.Error(t, err)
}

func TestEmptyExpressionMatchesEverything(t *testing.T) {
	e := mustParse(t, "")
	require.True(t, constraint.Eval(e, nil))
}

func TestNotAndOrPrecedence(t *testing.T) {
	// not > and > or: "not A and B or C" == "((not A) and B) or C"
	props := constraint.Properties{
		"A": codec.VariantFromBool(false),
		"B": codec.VariantFromBool(true),
		"C": codec.VariantFromBool(false),
	}
	e := mustParse(t, "not A == true and B == true or C == true")
	require.True(t, constraint.Eval(e, props))
}
