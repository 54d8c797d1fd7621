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

package builder_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/googlecloudplatform/sycoca/internal/builder"
	"github.com/googlecloudplatform/sycoca/internal/config"
	"github.com/googlecloudplatform/sycoca/internal/sycoca"
)

func newTestConfig(t *testing.T, dataDir string) *config.Config {
	t.Helper()
	return &config.Config{
		DataDirs:   []string{dataDir},
		ConfigHome: t.TempDir(),
		CacheHome:  t.TempDir(),
		Language:   "",
		Generation: 1,
	}
}

func write(t *testing.T, dir, relPath, content string) {
	t.Helper()
	abs := filepath.Join(dir, relPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
	require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
}

// TestBuildThenReadRoundTripsFakePluginScenario builds the binary file from
// source desktop entries end to end, then opens it with internal/sycoca and
// runs the same query a client would.
func TestBuildThenReadRoundTripsFakePluginScenario(t *testing.T) {
	src := t.TempDir()
	write(t, src, "servicetypes/fakeplugintype.desktop",
		"[Desktop Entry]\nType=ServiceType\nName=FakePluginType\n")
	write(t, src, "services/faketextplugin.desktop",
		"[Desktop Entry]\nType=Service\nName=faketextplugin\nX-KDE-ServiceTypes=FakePluginType\nLibrary=faketextplugin\n")
	write(t, src, "services/fakeservice.desktop",
		"[Desktop Entry]\nType=Service\nName=fakeservice\nX-KDE-ServiceTypes=FakePluginType\nLibrary=fakeservice\nX-KDE-Version=4.56\n")

	cfg := newTestConfig(t, src)
	b := builder.New(cfg)

	result, err := b.Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, result.ServiceCount)
	require.Equal(t, 1, result.ServiceTypeCount)
	require.Empty(t, result.Skipped)

	data, err := os.ReadFile(cfg.CachePath())
	require.NoError(t, err)

	db, err := sycoca.NewDatabase(data)
	require.NoError(t, err)

	results, err := db.Services.Query(db.ServiceTypes, "FakePluginType", "Library == 'faketextplugin'")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "faketextplugin", results[0].Name)

	numeric, err := db.Services.Query(db.ServiceTypes, "FakePluginType",
		"([X-KDE-Version] > 4.559) and ([X-KDE-Version] < 4.561)")
	require.NoError(t, err)
	require.Len(t, numeric, 1)
	require.Equal(t, "fakeservice", numeric[0].Name)
}

func TestBuildPlacesApplicationsInMenuTree(t *testing.T) {
	src := t.TempDir()
	write(t, src, "apps/editors/vim.desktop", "[Desktop Entry]\nType=Application\nName=Vim\nExec=vim\n")

	cfg := newTestConfig(t, src)
	result, err := builder.New(cfg).Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, result.ServiceCount)
	require.GreaterOrEqual(t, result.ServiceGroupCount, 2) // root + "apps/editors"

	data, err := os.ReadFile(cfg.CachePath())
	require.NoError(t, err)
	db, err := sycoca.NewDatabase(data)
	require.NoError(t, err)

	root, err := db.ServiceGroups.FindByName("/")
	require.NoError(t, err)
	groups, err := db.ServiceGroups.ChildGroups(root)
	require.NoError(t, err)
	require.Len(t, groups, 1)
}

func TestBuildSkipsHiddenApplicationButDoesNotFailTheBuild(t *testing.T) {
	src := t.TempDir()
	write(t, src, "apps/visible.desktop", "[Desktop Entry]\nType=Application\nName=Visible\nExec=x\n")
	write(t, src, "apps/hidden.desktop", "[Desktop Entry]\nType=Application\nName=Hidden\nExec=x\nHidden=true\n")
	write(t, src, "apps/broken.desktop", "[Desktop Entry]\nType=Application\nName=Broken\n") // missing Exec

	cfg := newTestConfig(t, src)
	result, err := builder.New(cfg).Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, result.ServiceCount)
	require.Equal(t, []string{"apps/broken.desktop"}, result.Skipped)
}

func TestBuildMenuTestSkipsWritingTheCacheFile(t *testing.T) {
	src := t.TempDir()
	write(t, src, "apps/vim.desktop", "[Desktop Entry]\nType=Application\nName=Vim\nExec=vim\n")

	cfg := newTestConfig(t, src)
	cfg.MenuTest = true
	result, err := builder.New(cfg).Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, result.ServiceCount)

	_, err = os.Stat(cfg.CachePath())
	require.True(t, os.IsNotExist(err))
}

func TestBuildRejectsServiceTypeInheritanceCycle(t *testing.T) {
	src := t.TempDir()
	write(t, src, "servicetypes/a.desktop", "[Desktop Entry]\nType=ServiceType\nName=A\nX-KDE-Derived=B\n")
	write(t, src, "servicetypes/b.desktop", "[Desktop Entry]\nType=ServiceType\nName=B\nX-KDE-Derived=A\n")

	cfg := newTestConfig(t, src)
	_, err := builder.New(cfg).Build(context.Background())
	require.Error(t, err)
}

func TestNeedsRebuildIsTrueWhenNoCacheExistsYet(t *testing.T) {
	src := t.TempDir()
	cfg := newTestConfig(t, src)
	require.True(t, builder.New(cfg).NeedsRebuild())
}

func TestNeedsRebuildIsFalseImmediatelyAfterABuild(t *testing.T) {
	src := t.TempDir()
	write(t, src, "apps/vim.desktop", "[Desktop Entry]\nType=Application\nName=Vim\nExec=vim\n")

	cfg := newTestConfig(t, src)
	b := builder.New(cfg)
	_, err := b.Build(context.Background())
	require.NoError(t, err)

	require.False(t, b.NeedsRebuild())
}

func TestNeedsRebuildIsTrueAfterDeletingASourceDirectory(t *testing.T) {
	src := t.TempDir()
	extra := filepath.Join(src, "apps", "extra")
	write(t, src, "apps/extra/x.desktop", "[Desktop Entry]\nType=Application\nName=X\nExec=x\n")

	cfg := newTestConfig(t, src)
	b := builder.New(cfg)
	_, err := b.Build(context.Background())
	require.NoError(t, err)
	require.False(t, b.NeedsRebuild())

	require.NoError(t, os.RemoveAll(extra))
	require.True(t, b.NeedsRebuild())
}

func TestNeedsRebuildAlwaysTrueWithNoIncremental(t *testing.T) {
	src := t.TempDir()
	write(t, src, "apps/vim.desktop", "[Desktop Entry]\nType=Application\nName=Vim\nExec=vim\n")

	cfg := newTestConfig(t, src)
	b := builder.New(cfg)
	_, err := b.Build(context.Background())
	require.NoError(t, err)

	cfg.NoIncremental = true
	require.True(t, b.NeedsRebuild())
}
