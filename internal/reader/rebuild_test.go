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
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTryAcquireBuildLockExcludesASecondHolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.bin")

	lock1, ok1, err := tryAcquireBuildLock(path)
	require.NoError(t, err)
	require.True(t, ok1)

	_, ok2, err := tryAcquireBuildLock(path)
	require.NoError(t, err)
	require.False(t, ok2, "a second acquirer must not also win the lock")

	require.NoError(t, lock1.release())

	lock3, ok3, err := tryAcquireBuildLock(path)
	require.NoError(t, err)
	require.True(t, ok3, "the lock must be acquirable again once released")
	require.NoError(t, lock3.release())
}

func TestWaitForPeerRebuildReturnsOnceFileMtimeAdvances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.bin")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))
	since, err := os.Stat(path)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- waitForPeerRebuild(context.Background(), path, since.ModTime())
	}()

	time.Sleep(2 * peerWaitPollInterval)
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("waitForPeerRebuild did not notice the mtime advance in time")
	}
}

func TestWaitForPeerRebuildRespectsContextCancellation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.bin")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))
	// Hold the lock so waitForPeerRebuild's "peer vanished" shortcut doesn't fire.
	lock, ok, err := tryAcquireBuildLock(path)
	require.NoError(t, err)
	require.True(t, ok)
	defer lock.release()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err = waitForPeerRebuild(ctx, path, time.Now())
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
