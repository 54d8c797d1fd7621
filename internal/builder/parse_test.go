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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/googlecloudplatform/sycoca/internal/codec"
)

func writeEntry(t *testing.T, dir, relPath, content string) sourceFile {
	t.Helper()
	abs := filepath.Join(dir, relPath)
	writeFile(t, abs, content)
	return sourceFile{relPath: relPath, absPath: abs}
}

func TestParseSourceFilesSkipsFilesMissingRequiredKeys(t *testing.T) {
	dir := t.TempDir()
	ok := writeEntry(t, dir, "apps/good.desktop", "[Desktop Entry]\nType=Application\nName=Good\nExec=good\n")
	bad := writeEntry(t, dir, "apps/bad.desktop", "[Desktop Entry]\nType=Application\nName=Bad\n")

	out, err := parseSourceFiles([]sourceFile{ok, bad}, "")
	require.NoError(t, err)
	require.Len(t, out.services, 1)
	require.Equal(t, "Good", out.services[0].name)
	require.Equal(t, []string{"apps/bad.desktop"}, out.skipped)
}

func TestParseSourceFilesSkipsHiddenServices(t *testing.T) {
	dir := t.TempDir()
	f := writeEntry(t, dir, "apps/hidden.desktop", "[Desktop Entry]\nType=Application\nName=Hidden\nExec=x\nHidden=true\n")

	out, err := parseSourceFiles([]sourceFile{f}, "")
	require.NoError(t, err)
	require.Empty(t, out.services)
	require.Empty(t, out.skipped)
}

func TestParseSourceFilesBuildsServiceTypeSchemaFromPropertyDefGroups(t *testing.T) {
	dir := t.TempDir()
	f := writeEntry(t, dir, "servicetypes/fake.desktop",
		"[Desktop Entry]\nType=ServiceType\nName=FakePluginType\n\n[PropertyDef::X-KDE-Version]\nType=double\n")

	out, err := parseSourceFiles([]sourceFile{f}, "")
	require.NoError(t, err)
	require.Len(t, out.serviceTypes, 1)
	require.Equal(t, "double", out.serviceTypes[0].schema["X-KDE-Version"])
}

func TestParseSourceFilesStoresUndeclaredKeysAsProperties(t *testing.T) {
	dir := t.TempDir()
	f := writeEntry(t, dir, "services/fakeservice.desktop",
		"[Desktop Entry]\nType=Service\nName=fakeservice\nX-KDE-ServiceTypes=FakePluginType\nLibrary=fakeservice\nX-KDE-Version=4.56\n")

	out, err := parseSourceFiles([]sourceFile{f}, "")
	require.NoError(t, err)
	require.Len(t, out.services, 1)
	svc := out.services[0]
	require.Equal(t, codec.VariantFromString("fakeservice"), svc.properties["Library"])
	require.Equal(t, codec.VariantFromDouble(4.56), svc.properties["X-KDE-Version"])
}

func TestParseSourceFilesDerivesMenuIDOnlyForApplications(t *testing.T) {
	dir := t.TempDir()
	app := writeEntry(t, dir, "apps/editors/vim.desktop", "[Desktop Entry]\nType=Application\nName=Vim\nExec=vim\n")
	svc := writeEntry(t, dir, "services/fakeservice.desktop", "[Desktop Entry]\nType=Service\nName=fakeservice\n")

	out, err := parseSourceFiles([]sourceFile{app, svc}, "")
	require.NoError(t, err)

	byName := make(map[string]*rawService)
	for i := range out.services {
		byName[out.services[i].name] = &out.services[i]
	}
	require.Equal(t, "apps-editors-vim", byName["Vim"].menuID)
	require.Equal(t, "", byName["fakeservice"].menuID)
}

func TestInferVariant(t *testing.T) {
	require.Equal(t, codec.VariantFromBool(true), inferVariant("true"))
	require.Equal(t, codec.VariantFromBool(false), inferVariant("False"))
	require.Equal(t, codec.VariantFromInt(42), inferVariant("42"))
	require.Equal(t, codec.VariantFromDouble(4.56), inferVariant("4.56"))
	require.Equal(t, codec.VariantFromString("hello"), inferVariant("hello"))
}
