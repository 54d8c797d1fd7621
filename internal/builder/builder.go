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

// Package builder implements the kbuildsycoca-equivalent write path:
// scanning the overlaid source directories, parsing every desktop-entry
// file, resolving ServiceType inheritance and Service/MimeType offers, and
// laying the result out as the binary cache file internal/sycoca and
// internal/reader consume.
package builder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/googlecloudplatform/sycoca/internal/clock"
	"github.com/googlecloudplatform/sycoca/internal/codec"
	"github.com/googlecloudplatform/sycoca/internal/config"
	"github.com/googlecloudplatform/sycoca/internal/logger"
	"github.com/googlecloudplatform/sycoca/internal/sycoca"
)

// profileFileName is the user-editable overlay consulted for ServiceType
// offer preferences. servicetype_profilerc, the per-ServiceType
// variant some KDE versions also consult, is treated identically here: a
// single profilerc file covers every ServiceType section.
const profileFileName = "profilerc"

// Builder owns one end-to-end run of the build algorithm.
type Builder struct {
	Config *config.Config
	Clock  clock.Clock
}

// New returns a Builder reading cfg.DataDirs and writing cfg.CachePath().
func New(cfg *config.Config) *Builder {
	return &Builder{Config: cfg, Clock: clock.RealClock{}}
}

// Build runs the full algorithm once and returns a summary. It tolerates
// per-entry parse errors (logged and skipped) but returns a
// sycoca.ErrBuildFailure-wrapped error for anything that prevents the
// output file itself from being written: an inheritance cycle, a dangling
// ServiceType parent reference, or an I/O failure against the cache path.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scanResult, err := scanSourceDirs(b.Config.DataDirs, statMs)
	if err != nil {
		return nil, fmt.Errorf("%w: scanning source directories: %v", sycoca.ErrBuildFailure, err)
	}

	parseOutcome, err := parseSourceFiles(scanResult.files, b.Config.TrackID)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing source files: %v", sycoca.ErrBuildFailure, err)
	}
	if len(parseOutcome.skipped) > 0 {
		logger.Warnf("sycoca builder: %d of %d source files failed to parse and were skipped",
			len(parseOutcome.skipped), len(scanResult.files))
	}

	serviceTypes, err := resolveServiceTypes(parseOutcome.serviceTypes)
	if err != nil {
		return nil, err
	}

	services := buildServices(parseOutcome.services, serviceTypes)

	profile, err := loadProfileOverlay(b.Config.ConfigHome)
	if err != nil {
		return nil, fmt.Errorf("%w: loading profile overlay: %v", sycoca.ErrBuildFailure, err)
	}

	var applications []*sycoca.Service
	for _, svc := range services {
		if svc.MenuID != "" {
			applications = append(applications, svc)
		}
	}
	plan := planServiceGroups(scanResult.dirTree, applications)

	header := buildHeader(b.Config.DataDirs, b.Clock.Now().UnixMilli(), b.Config.Language, scanResult.trackedDirs)

	if b.Config.MenuTest {
		logger.Infof("sycoca builder: menutest run resolved %d service groups, skipping write", len(plan.OrderedDirs))
		return &Result{
			ServiceCount:      len(services),
			ServiceTypeCount:  len(serviceTypes),
			ServiceGroupCount: len(plan.OrderedDirs),
			Skipped:           parseOutcome.skipped,
		}, nil
	}

	path := b.Config.CachePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating cache directory: %v", sycoca.ErrBuildFailure, err)
	}

	mimeNames := collectMimeNames(services)
	result, err := layoutAndWrite(path, header, services, serviceTypes, mimeNames, profile, plan, parseOutcome.skipped)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// NeedsRebuild reports whether the cache at cfg.CachePath() is missing, was
// built by a different format version, or no longer reflects its tracked
// directories' mtimes: an incremental build is a full rebuild skipped
// entirely when nothing has changed. --noincremental bypasses this check
// and always rebuilds.
func (b *Builder) NeedsRebuild() bool {
	if b.Config.NoIncremental {
		return true
	}
	data, err := os.ReadFile(b.Config.CachePath())
	if err != nil {
		return true
	}
	header, err := sycoca.ReadHeader(codec.NewReader(data))
	if err != nil || !header.Loaded {
		return true
	}
	for dir, knownMs := range header.TrackedDirs {
		ms, ok := statMs(dir)
		if !ok || ms != knownMs {
			return true
		}
	}
	current := scanTrackedDirsOnly(b.Config.DataDirs)
	for dir := range current {
		if _, ok := header.TrackedDirs[dir]; !ok {
			return true
		}
	}
	return false
}

func statMs(path string) (int64, bool) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, false
	}
	return fi.ModTime().UnixMilli(), true
}

// scanTrackedDirsOnly re-walks just far enough to learn the current
// directory set, for NeedsRebuild's "a directory was added" check; it
// ignores file-level parse errors since only the directory set matters
// here.
func scanTrackedDirsOnly(dirs []string) map[string]int64 {
	res, err := scanSourceDirs(dirs, statMs)
	if err != nil {
		return nil
	}
	return res.trackedDirs
}

func loadProfileOverlay(configHome string) (*config.Profile, error) {
	return config.LoadProfileFile(filepath.Join(configHome, profileFileName))
}

func collectMimeNames(services []*sycoca.Service) []string {
	seen := make(map[string]bool)
	var names []string
	for _, svc := range services {
		for _, m := range svc.MimeTypes {
			if !seen[m] {
				seen[m] = true
				names = append(names, m)
			}
		}
	}
	return names
}
