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

// Package desktopentry parses the grouped key=value desktop-entry files
// internal/builder reads: sections like "[Desktop Entry]", "[Desktop
// Action Name]", "[PropertyDef::Key]", each a flat map of keys to string
// values. The profile-overlay files internal/config reads are parsed with
// gopkg.in/ini.v1 instead, not with this package.
package desktopentry

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Group is one "[Section]" block's key=value pairs, in file order.
type Group struct {
	Name  string
	Keys  []string
	Value map[string]string
}

// File is a parsed desktop-entry file: an ordered
// list of groups, plus a lookup by name.
type File struct {
	Groups []*Group
	byName map[string]*Group
}

// Group returns the named section, or nil if absent.
func (f *File) Group(name string) *Group {
	return f.byName[name]
}

// String returns key's value in group, or "" with ok=false if unset.
func (g *Group) String(key string) (string, bool) {
	if g == nil {
		return "", false
	}
	v, ok := g.Value[key]
	return v, ok
}

// List splits key's value on semicolons per the desktop-entry convention for
// multi-valued keys (MimeType, X-KDE-ServiceTypes, ...), dropping empty
// elements such as the one after a trailing separator. Only when that
// leaves no element is the value split on commas instead.
func (g *Group) List(key string) []string {
	v, ok := g.String(key)
	if !ok || v == "" {
		return nil
	}
	parts := strings.Split(v, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		parts = strings.Split(v, ",")
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// Bool parses key's value the way boolean desktop-entry keys do: "true"
// (case-insensitive) or "1" is true, everything else (including absent)
// is false.
func (g *Group) Bool(key string) bool {
	v, ok := g.String(key)
	if !ok {
		return false
	}
	v = strings.TrimSpace(strings.ToLower(v))
	return v == "true" || v == "1"
}

// Parse reads a grouped key=value file. Blank lines and lines starting
// with '#' or ';' are ignored. A key=value line before any "[Section]"
// header is an error — every real desktop-entry file starts with one.
func Parse(r io.Reader) (*File, error) {
	f := &File{byName: make(map[string]*Group)}

	scanner := bufio.NewScanner(r)
	var cur *Group
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			name := line[1 : len(line)-1]
			if existing, ok := f.byName[name]; ok {
				cur = existing
				continue
			}
			cur = &Group{Name: name, Value: make(map[string]string)}
			f.Groups = append(f.Groups, cur)
			f.byName[name] = cur
			continue
		}

		if cur == nil {
			return nil, fmt.Errorf("desktopentry: line %d: key=value outside any [Section]", lineNo)
		}

		eq := strings.IndexByte(line, '=')
		if eq < 0 {
			return nil, fmt.Errorf("desktopentry: line %d: missing '=' in %q", lineNo, line)
		}
		key := strings.TrimSpace(line[:eq])
		// Localized key variants (e.g. "Name[de]") are skipped entirely;
		// the builder only ever reads the unlocalized key.
		if strings.IndexByte(key, '[') >= 0 {
			continue
		}
		val := strings.TrimSpace(line[eq+1:])
		if _, exists := cur.Value[key]; !exists {
			cur.Keys = append(cur.Keys, key)
		}
		cur.Value[key] = val
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("desktopentry: %w", err)
	}

	return f, nil
}
