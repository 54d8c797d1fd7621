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

// Package reader implements the read path: locating and mapping the
// binary cache file, decoding it into a sycoca.Database, and keeping that
// Database fresh as source directories and the file itself change
// underneath it.
//
// A Reader is explicitly not safe for concurrent use: construct one per
// goroutine that needs one, the same way database/sql connections are not
// meant to be shared across goroutines that each want their own
// transaction. The mapped bytes themselves are read-only and may be
// shared; the mutable bookkeeping (last-check time, open file identity)
// is not.
package reader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/googlecloudplatform/sycoca/internal/builder"
	"github.com/googlecloudplatform/sycoca/internal/clock"
	"github.com/googlecloudplatform/sycoca/internal/config"
	"github.com/googlecloudplatform/sycoca/internal/logger"
	"github.com/googlecloudplatform/sycoca/internal/metrics"
	"github.com/googlecloudplatform/sycoca/internal/sycoca"
)

// Reader is one thread-local handle onto the sycoca database: a mapping of
// the on-disk file (or a synthesized empty one), the Database decoded over
// it, and the bookkeeping EnsureValid needs.
type Reader struct {
	cfg     *config.Config
	clock   clock.Clock
	metrics *metrics.Metrics

	path    string // "" when no file was found anywhere (empty fallback)
	mapping mapping
	db      *sycoca.Database

	openFileMtime time.Time
	lastCheck     time.Time

	forceNext atomic.Bool
	watcher   *dirWatcher
}

// Option customizes New. Most callers need none.
type Option func(*Reader)

// WithClock overrides the Reader's notion of time, for tests of the
// throttle in EnsureValid.
func WithClock(c clock.Clock) Option {
	return func(r *Reader) { r.clock = c }
}

// WithMetrics attaches a Metrics to record staleness-check and rebuild
// counters against. Without this option the Reader records nothing.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Reader) { r.metrics = m }
}

// New locates and maps the binary cache file named by cfg, falling back
// through the user-writable path, the system path, and finally a
// synthesized empty database.
func New(cfg *config.Config, opts ...Option) (*Reader, error) {
	r := &Reader{cfg: cfg, clock: clock.RealClock{}}
	for _, opt := range opts {
		opt(r)
	}

	path, m, mtime := locate(cfg)
	r.path = path
	r.mapping = m
	r.openFileMtime = mtime

	db, err := decodeWithCrashRecovery(path, m)
	if err != nil {
		m.close()
		return nil, fmt.Errorf("reader: decoding %s: %w", path, err)
	}
	r.db = db
	r.lastCheck = r.clock.Now()

	if path != "" {
		if w, err := newDirWatcher(filepath.Dir(path)); err == nil {
			r.watcher = w
			go r.watchLoop()
		} else {
			logger.Debugf("sycoca reader: fsnotify unavailable for %s, forced invalidation disabled: %v", path, err)
		}
	}

	return r, nil
}

// locate implements the three-step fallback: the user-writable
// path, then the system path, then a synthesized empty database. A path
// that exists but fails to open or map is treated the same as "missing"
// rather than propagating the error, since a reader that can't see any
// data is still useful (it just won't see services) while one that
// crashes at construction is not.
func locate(cfg *config.Config) (path string, m mapping, mtime time.Time) {
	for _, p := range []string{cfg.CachePath(), cfg.SystemCachePath()} {
		fi, statErr := os.Stat(p)
		if statErr != nil {
			continue
		}
		opened, openErr := openMapping(p, cfg.Strategy)
		if openErr != nil {
			logger.Warnf("sycoca reader: found %s but could not map it, trying fallback: %v", p, openErr)
			continue
		}
		return p, opened, fi.ModTime()
	}
	return "", newEmptyMapping(), time.Time{}
}

// Database returns the currently mapped sycoca.Database. Callers should
// call EnsureValid beforehand if they want a freshness check against the
// source directories; Database itself never blocks.
func (r *Reader) Database() *sycoca.Database { return r.db }

// Close releases the underlying mapping. Entry handles already obtained
// from r.Database() remain valid: Handle is reference-counted and
// independent of the mapping's lifetime: a held Entry handle remains
// valid even after the Reader closes and remaps.
func (r *Reader) Close() error {
	if r.watcher != nil {
		r.watcher.close()
	}
	return r.mapping.close()
}

func (r *Reader) watchLoop() {
	for range r.watcher.events {
		r.forceNext.Store(true)
	}
}

// EnsureValid rate-limits itself to cfg.ThrottleInterval between checks
// unless a file-watcher notification
// has armed a forced check, and remaps in place when the cache has gone
// stale. ctx bounds only the rebuild-or-wait path; the staleness check
// itself never blocks on I/O beyond a couple of stat calls.
func (r *Reader) EnsureValid(ctx context.Context) error {
	forced := r.forceNext.Swap(false)
	if !forced {
		interval := r.cfg.ThrottleInterval
		if interval <= 0 {
			interval = config.DefaultThrottleInterval
		}
		if r.clock.Now().Sub(r.lastCheck) < interval {
			return nil
		}
	}
	r.lastCheck = r.clock.Now()
	if r.metrics != nil {
		r.metrics.StalenessChecks.Inc()
	}

	if r.path == "" {
		// Nothing was found at construction; re-locate in case a build
		// has happened since (e.g. the very first run on this machine).
		return r.remapFromScratch(ctx)
	}

	fi, err := os.Stat(r.path)
	if err != nil {
		// The file disappeared (crash recovery unlinked it, or a peer is
		// mid-rebuild under renameio's temp-then-rename discipline).
		return r.rebuildOrWait(ctx)
	}

	fileChanged := !fi.ModTime().Equal(r.openFileMtime)
	dirNewer := r.anyTrackedDirNewer()
	if !forced && !fileChanged && !dirNewer {
		return nil
	}
	if dirNewer {
		// A tracked source directory has moved on from what the current
		// file's trailer recorded: the content is genuinely out of date,
		// so this Reader either becomes the builder or waits for whoever
		// already is one.
		return r.rebuildOrWait(ctx)
	}
	// The file's mtime alone changed with no tracked directory newer than
	// its own trailer: a peer already rebuilt (possibly to byte-identical
	// content); just pick up its work rather than rebuilding again.
	return r.remapFromScratch(ctx)
}

// anyTrackedDirNewer implements the second half of the staleness
// predicate: the file's mtime alone isn't enough, since a rebuild that
// happened to write byte-identical content (nothing changed) would still
// touch the file's mtime under some filesystems' atomic-rename semantics.
func (r *Reader) anyTrackedDirNewer() bool {
	for dir, recordedMs := range r.db.Header.TrackedDirs {
		fi, err := os.Stat(dir)
		if err != nil {
			return true // a tracked directory vanished; treat as stale
		}
		if fi.ModTime().UnixMilli() > recordedMs {
			return true
		}
	}
	return false
}

// rebuildOrWait either performs the rebuild in-process (if no other
// process is already building) or re-opens once another process signals
// completion. Coordination is a non-blocking flock on a sidecar lock
// file: whichever process gets the lock builds, everyone else polls.
func (r *Reader) rebuildOrWait(ctx context.Context) error {
	lock, acquired, err := tryAcquireBuildLock(r.path)
	if err != nil {
		return fmt.Errorf("reader: acquiring build lock: %w", err)
	}
	if acquired {
		defer lock.release()
		if r.metrics != nil {
			r.metrics.Rebuilds.Inc()
		}
		if _, err := builder.New(r.cfg).Build(ctx); err != nil {
			return fmt.Errorf("reader: in-process rebuild: %w", err)
		}
	} else {
		if err := waitForPeerRebuild(ctx, r.path, r.openFileMtime); err != nil {
			return fmt.Errorf("reader: waiting for peer rebuild: %w", err)
		}
	}
	return r.remapFromScratch(ctx)
}

// remapFromScratch re-runs locate and swaps in a fresh mapping and
// Database, closing the old mapping only after the new one is in place so
// a concurrent caller never observes a half-torn-down Reader.
func (r *Reader) remapFromScratch(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, m, mtime := locate(r.cfg)
	db, err := decodeWithCrashRecovery(path, m)
	if err != nil {
		return err
	}

	old := r.mapping
	r.path, r.mapping, r.db, r.openFileMtime = path, m, db, mtime

	if r.watcher == nil && path != "" {
		if w, err := newDirWatcher(filepath.Dir(path)); err == nil {
			r.watcher = w
			go r.watchLoop()
		}
	}

	return old.close()
}
