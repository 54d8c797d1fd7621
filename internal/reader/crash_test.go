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
)

func TestDecodeWithCrashRecoveryUnlinksAVersionMismatchedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.bin")
	require.NoError(t, os.WriteFile(path, []byte("not a sycoca file"), 0o644))

	_, err := decodeWithCrashRecovery(path, &slurpMapping{data: []byte("not a sycoca file")})
	require.Error(t, err)

	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr), "a corrupt file must be unlinked so the next open triggers a rebuild")
}

func TestDecodeWithCrashRecoverySucceedsOnAWellFormedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.bin")
	data := buildEmptyDatabase()
	require.NoError(t, os.WriteFile(path, data, 0o644))

	db, err := decodeWithCrashRecovery(path, &slurpMapping{data: data})
	require.NoError(t, err)
	require.NotNil(t, db)

	_, statErr := os.Stat(path)
	require.NoError(t, statErr, "a well-formed file must not be touched")
}
