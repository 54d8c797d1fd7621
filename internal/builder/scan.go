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
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// sourceFile is one desktop-entry file discovered under a source
// directory, after overlay resolution: relPath is its key for precedence
// purposes, absPath is the winning directory's copy on disk.
type sourceFile struct {
	relPath string
	absPath string
}

// scanResult is everything scanSourceDirs learns from walking the overlay.
type scanResult struct {
	files       []sourceFile          // sorted by relPath, later dirs win
	trackedDirs map[string]int64      // every walked directory -> mtime in ms
	dirTree     map[string][]string   // dir relPath -> immediate child relPaths (files and dirs)
}

// scanSourceDirs walks dirs in order (system directories first, user
// overlay last per internal/config.DefaultDataDirs) and returns the
// winning ".desktop"/".directory" file for each relative path — a later
// directory's copy of the same relative path overrides an earlier one.
func scanSourceDirs(dirs []string, stat func(path string) (modTimeMs int64, ok bool)) (*scanResult, error) {
	winners := make(map[string]sourceFile)
	tracked := make(map[string]int64)
	children := make(map[string][]string)

	for _, root := range dirs {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if d == nil {
					// Root directory itself doesn't exist; that's a
					// legitimate, empty overlay layer, not a build error.
					return fs.SkipDir
				}
				return err
			}

			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return relErr
			}
			rel = filepath.ToSlash(rel)

			if d.IsDir() {
				if ms, ok := stat(path); ok {
					tracked[path] = ms
				}
				if rel != "." {
					parent := parentRel(rel)
					addChild(children, parent, rel)
				}
				return nil
			}

			if !isDesktopFile(rel) {
				return nil
			}
			parent := parentRel(rel)
			addChild(children, parent, rel)
			winners[rel] = sourceFile{relPath: rel, absPath: path}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	files := make([]sourceFile, 0, len(winners))
	for _, f := range winners {
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].relPath < files[j].relPath })

	return &scanResult{files: files, trackedDirs: tracked, dirTree: children}, nil
}

func isDesktopFile(relPath string) bool {
	base := relPath
	if idx := strings.LastIndexByte(relPath, '/'); idx >= 0 {
		base = relPath[idx+1:]
	}
	return strings.HasSuffix(base, ".desktop") || strings.HasSuffix(base, ".directory")
}

func parentRel(rel string) string {
	idx := strings.LastIndexByte(rel, '/')
	if idx < 0 {
		return "."
	}
	return rel[:idx]
}

func addChild(children map[string][]string, parent, child string) {
	for _, existing := range children[parent] {
		if existing == child {
			return
		}
	}
	children[parent] = append(children[parent], child)
}
