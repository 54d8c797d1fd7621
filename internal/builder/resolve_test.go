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

package builder

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/googlecloudplatform/sycoca/internal/codec"
	"github.com/googlecloudplatform/sycoca/internal/config"
	"github.com/googlecloudplatform/sycoca/internal/sycoca"
)

func TestResolveServiceTypesWalksSingleParentChain(t *testing.T) {
	raw := []rawServiceType{
		{name: "FakeBasePart"},
		{name: "FakeDerivedPart", parent: "FakeBasePart"},
	}
	resolved, err := resolveServiceTypes(raw)
	require.NoError(t, err)
	require.Equal(t, "FakeBasePart", resolved["FakeDerivedPart"].Parent)
}

func TestResolveServiceTypesRejectsCycle(t *testing.T) {
	raw := []rawServiceType{
		{name: "A", parent: "B"},
		{name: "B", parent: "A"},
	}
	_, err := resolveServiceTypes(raw)
	require.Error(t, err)
	require.True(t, errors.Is(err, sycoca.ErrBuildFailure))
}

func TestResolveServiceTypesRejectsMissingParent(t *testing.T) {
	raw := []rawServiceType{{name: "Derived", parent: "NoSuchBase"}}
	_, err := resolveServiceTypes(raw)
	require.Error(t, err)
	require.True(t, errors.Is(err, sycoca.ErrBuildFailure))
}

func TestCoercePropertiesRetypesAgainstDeclaredSchema(t *testing.T) {
	serviceTypes := map[string]*sycoca.ServiceType{
		"FakePluginType": {
			Name:   "FakePluginType",
			Schema: map[string]sycoca.ScalarType{"X-KDE-Version": sycoca.ScalarDouble},
		},
	}
	svc := &rawService{
		serviceTypes: []string{"FakePluginType"},
		properties: map[string]codec.Variant{
			"X-KDE-Version": codec.VariantFromString("4.56"),
		},
	}
	coerceProperties(serviceTypes, svc)
	require.Equal(t, codec.VariantFromDouble(4.56), svc.properties["X-KDE-Version"],
		"a numeric string is re-read with its declared double type")
}

func TestCoercePropertiesWalksParentChainForSchema(t *testing.T) {
	serviceTypes := map[string]*sycoca.ServiceType{
		"Base":    {Name: "Base", Schema: map[string]sycoca.ScalarType{"Flag": sycoca.ScalarBool}},
		"Derived": {Name: "Derived", Parent: "Base"},
	}
	svc := &rawService{
		serviceTypes: []string{"Derived"},
		properties:   map[string]codec.Variant{"Flag": codec.VariantFromString("true")},
	}
	coerceProperties(serviceTypes, svc)
	require.Equal(t, codec.VariantFromBool(true), svc.properties["Flag"])
}

func TestApplyProfilePreferredOrderingDropsDisabled(t *testing.T) {
	a := &sycoca.Service{Name: "a"}
	b := &sycoca.Service{Name: "b"}
	c := &sycoca.Service{Name: "c"}
	byOffset := map[uint32]*sycoca.Service{1: a, 2: b, 3: c}
	defaults := []sycoca.Offer{{ServiceOffset: 1}, {ServiceOffset: 2}, {ServiceOffset: 3}}

	out := applyProfile(defaults, byOffset, config.ServiceTypeProfile{
		Preferred: []string{"c"},
		Disabled:  []string{"b"},
	})

	require.Len(t, out, 2)
	require.Equal(t, uint32(3), out[0].ServiceOffset)
	require.Equal(t, uint32(1), out[1].ServiceOffset)
}

func TestApplyProfileLeavesDefaultOffersUntouchedWhenEmpty(t *testing.T) {
	defaults := []sycoca.Offer{{ServiceOffset: 1}}
	out := applyProfile(defaults, nil, config.ServiceTypeProfile{})
	require.Equal(t, defaults, out)
	require.NotSame(t, &defaults[0], &out[0])
}

func TestPlanServiceGroupsAssignsApplicationsByMenuParentDir(t *testing.T) {
	children := map[string][]string{
		".":            {"apps"},
		"apps":         {"apps/editors", "apps/editors/vim.desktop"},
		"apps/editors": {"apps/editors/vim.desktop"},
	}
	vim := &sycoca.Service{Name: "Vim", MenuID: "apps-editors-vim"}
	plugin := &sycoca.Service{Name: "fakeservice"} // no MenuID: never appears in the tree

	plan := planServiceGroups(children, []*sycoca.Service{vim, plugin})

	require.Contains(t, plan.OrderedDirs, "apps/editors")
	require.Contains(t, plan.OrderedDirs, "apps")
	require.Contains(t, plan.OrderedDirs, ".")
	// deepest first
	require.Less(t, indexOf(plan.OrderedDirs, "apps/editors"), indexOf(plan.OrderedDirs, "apps"))
	require.Less(t, indexOf(plan.OrderedDirs, "apps"), indexOf(plan.OrderedDirs, "."))

	require.Contains(t, plan.SubdirsOf["apps"], "apps/editors")
	require.Equal(t, "/", plan.CaptionOf["."])
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}
