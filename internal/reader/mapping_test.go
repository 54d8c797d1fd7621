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

package reader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/googlecloudplatform/sycoca/internal/config"
	"github.com/googlecloudplatform/sycoca/internal/sycoca"
)

func TestBuildEmptyDatabaseDecodesToZeroEntries(t *testing.T) {
	db, err := sycoca.NewDatabase(buildEmptyDatabase())
	require.NoError(t, err)

	_, err = db.Services.FindByName("anything")
	require.ErrorIs(t, err, sycoca.ErrNotFound)
}

func TestOpenMappingMmapStrategyReadsBackBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.bin")
	want := buildEmptyDatabase()
	require.NoError(t, os.WriteFile(path, want, 0o644))

	m, err := openMapping(path, config.StrategyMmap)
	require.NoError(t, err)
	defer m.close()

	require.Equal(t, want, m.bytes())
}

func TestOpenMappingShmemAndFileStrategiesReadBackBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.bin")
	want := buildEmptyDatabase()
	require.NoError(t, os.WriteFile(path, want, 0o644))

	for _, strategy := range []config.Strategy{config.StrategyShmem, config.StrategyFile} {
		m, err := openMapping(path, strategy)
		require.NoError(t, err)
		require.Equal(t, want, m.bytes())
		require.NoError(t, m.close())
	}
}

func TestOpenMappingDefaultsToMmapForZeroValueStrategy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.bin")
	require.NoError(t, os.WriteFile(path, buildEmptyDatabase(), 0o644))

	m, err := openMapping(path, "")
	require.NoError(t, err)
	defer m.close()
	require.NotEmpty(t, m.bytes())
}

func TestOpenMappingZeroByteFileFallsBackToEmptyDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.bin")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	m, err := openMapping(path, config.StrategyMmap)
	require.NoError(t, err)
	defer m.close()

	db, err := sycoca.NewDatabase(m.bytes())
	require.NoError(t, err)
	_, err = db.Services.FindByName("anything")
	require.ErrorIs(t, err, sycoca.ErrNotFound)
}
