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

package config

import (
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"
)

// ApplyXDGDefaults fills any DataDirs/DataHome/ConfigHome/CacheHome field
// c's flags left empty, from the environment.
func ApplyXDGDefaults(c *Config) {
	if len(c.DataDirs) == 0 {
		c.DataDirs = DefaultDataDirs()
	}
	if c.DataHome == "" {
		c.DataHome = dataHome()
	}
	if c.ConfigHome == "" {
		c.ConfigHome = configHome()
	}
	if c.CacheHome == "" {
		c.CacheHome = cacheHome()
	}
}

// DefaultDataDirs returns the ordered XDG_DATA_DIRS list (system dirs)
// followed by XDG_DATA_HOME (the user overlay): system directories first,
// user overlay last, so later entries override earlier ones.
func DefaultDataDirs() []string {
	var dirs []string
	if v := os.Getenv("XDG_DATA_DIRS"); v != "" {
		for _, d := range filepath.SplitList(v) {
			if d != "" {
				dirs = append(dirs, d)
			}
		}
	} else {
		dirs = []string{"/usr/local/share", "/usr/share"}
	}
	dirs = append(dirs, dataHome())
	return dirs
}

func dataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	return filepath.Join(homeDir(), ".local", "share")
}

func configHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	return filepath.Join(homeDir(), ".config")
}

func cacheHome() string {
	if v := os.Getenv("XDG_CACHE_HOME"); v != "" {
		return v
	}
	return filepath.Join(homeDir(), ".cache")
}

func homeDir() string {
	if h, err := os.UserHomeDir(); err == nil && h != "" {
		return h
	}
	return "/root"
}

// CachePath returns the path internal/reader and internal/builder agree
// on for the binary cache file: an SYCOCA_DB_PATH override if set, else
// "<cache_root>/ksycoca<gen>_<lang>_<hash-of-data-dirs>".
func (c *Config) CachePath() string {
	if v := os.Getenv("SYCOCA_DB_PATH"); v != "" {
		return v
	}
	name := fmt.Sprintf("ksycoca%d_%s_%s", c.Generation, c.Language, hashDataDirs(c.DataDirs))
	return filepath.Join(c.CacheHome, name)
}

// SystemCachePath returns the non-user-writable fallback location for the
// same file CachePath names, for internal/reader's locate step to fall
// back to a system-global path when the user-writable one doesn't exist,
// e.g. before the current user has ever run the builder.
func (c *Config) SystemCachePath() string {
	name := fmt.Sprintf("ksycoca%d_%s_%s", c.Generation, c.Language, hashDataDirs(c.DataDirs))
	return filepath.Join("/var/cache/sycoca", name)
}

func hashDataDirs(dirs []string) string {
	h := fnv.New64a()
	h.Write([]byte(strings.Join(dirs, "\x00")))
	return fmt.Sprintf("%016x", h.Sum64())
}
