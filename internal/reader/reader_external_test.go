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

package reader_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/googlecloudplatform/sycoca/internal/builder"
	"github.com/googlecloudplatform/sycoca/internal/config"
	"github.com/googlecloudplatform/sycoca/internal/reader"
)

func TestReaderServesQueriesAgainstABuilderProducedFile(t *testing.T) {
	src := t.TempDir()
	write := func(relPath, content string) {
		abs := filepath.Join(src, relPath)
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
		require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
	}
	write("servicetypes/fakeplugintype.desktop", "[Desktop Entry]\nType=ServiceType\nName=FakePluginType\n")
	write("services/faketextplugin.desktop",
		"[Desktop Entry]\nType=Service\nName=faketextplugin\nX-KDE-ServiceTypes=FakePluginType\nLibrary=faketextplugin\n")

	cfg := &config.Config{
		DataDirs:   []string{src},
		ConfigHome: t.TempDir(),
		CacheHome:  t.TempDir(),
		Generation: 1,
	}
	_, err := builder.New(cfg).Build(context.Background())
	require.NoError(t, err)

	r, err := reader.New(cfg)
	require.NoError(t, err)
	defer r.Close()

	results, err := r.Database().Services.Query(r.Database().ServiceTypes, "FakePluginType", "Library == 'faketextplugin'")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "faketextplugin", results[0].Name)
}
