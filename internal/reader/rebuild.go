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
	"time"

	"golang.org/x/sys/unix"
)

// buildLockSuffix names the sidecar file processes race a non-blocking
// flock on to decide who rebuilds. Multiple processes may race to rebuild
// concurrently; this is the coordination that keeps that race down to
// exactly one builder run at a time.
const buildLockSuffix = ".lock"

type buildLock struct {
	f *os.File
}

// tryAcquireBuildLock attempts a non-blocking exclusive lock on
// path+".lock", creating it if necessary. acquired is false (with a nil
// error) when some other process already holds it; the caller is then
// expected to wait for that process's rebuild instead of starting its own.
func tryAcquireBuildLock(path string) (lock *buildLock, acquired bool, err error) {
	f, err := os.OpenFile(path+buildLockSuffix, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, false, err
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if err == unix.EWOULDBLOCK {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &buildLock{f: f}, true, nil
}

func (l *buildLock) release() error {
	defer l.f.Close()
	return unix.Flock(int(l.f.Fd()), unix.LOCK_UN)
}

// peerWaitPollInterval bounds how often waitForPeerRebuild re-stats the
// file while another process holds the build lock. There is no portable
// "notify me when this flock is released" primitive, so this is a plain
// poll; it only runs while a peer is actively rebuilding, which is bounded
// by a source-directory walk, not by normal query traffic.
const peerWaitPollInterval = 50 * time.Millisecond

// waitForPeerRebuild blocks until the file at path has a newer mtime than
// since, or ctx is done. It is used when rebuildOrWait lost the race for
// the build lock to another process.
func waitForPeerRebuild(ctx context.Context, path string, since time.Time) error {
	ticker := time.NewTicker(peerWaitPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			fi, err := os.Stat(path)
			if err == nil && fi.ModTime().After(since) {
				return nil
			}
			// Peer may still hold the lock; if it's gone and the file is
			// still old, something failed mid-rebuild upstream of us and
			// there's nothing more to wait for.
			if lock, acquired, lockErr := tryAcquireBuildLock(path); lockErr == nil && acquired {
				lock.release()
				return nil
			}
		}
	}
}
