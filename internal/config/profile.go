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
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

// ServiceTypeProfile is one ServiceType's user-editable query() override:
// an ordered preferred-Service list, built from the section's Default_1,
// Default_2, ... keys, and a disabled set from its single DisabledEntries
// key. Applied by internal/builder when it computes the profiled Offers
// view baked into ServiceType.Offers.
type ServiceTypeProfile struct {
	Preferred []string
	Disabled  []string
}

// Profile is the full set of per-ServiceType overlays, keyed by
// ServiceType name — mirroring profilerc/servicetype_profilerc.
type Profile struct {
	ServiceTypes map[string]ServiceTypeProfile
}

// LoadProfile reads a grouped key=value profile file: one "[ServiceType
// Name]" section per overridden ServiceType, with ordered "Default_N" keys
// giving the preferred-Service order and a "DisabledEntries" key holding a
// semicolon-separated list of disabled Service names.
func LoadProfile(r io.Reader) (*Profile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	cfg, err := ini.LoadSources(ini.LoadOptions{AllowNonUniqueSections: true, IgnoreInlineComment: true}, data)
	if err != nil {
		return nil, err
	}

	p := &Profile{ServiceTypes: make(map[string]ServiceTypeProfile, len(cfg.Sections()))}
	for _, sec := range cfg.Sections() {
		if sec.Name() == ini.DefaultSection && len(sec.Keys()) == 0 {
			continue
		}
		p.ServiceTypes[sec.Name()] = ServiceTypeProfile{
			Preferred: orderedDefaults(sec),
			Disabled:  splitEntries(sec.Key("DisabledEntries").String()),
		}
	}
	return p, nil
}

// orderedDefaults collects a section's "Default_1", "Default_2", ... keys
// in ascending numeric order, the layout profilerc/servicetype_profilerc
// use to record an explicit preference order rather than relying on a
// delimited list's incidental ordering.
func orderedDefaults(sec *ini.Section) []string {
	type indexed struct {
		n   int
		val string
	}
	var entries []indexed
	for _, key := range sec.Keys() {
		n, ok := defaultIndex(key.Name())
		if !ok {
			continue
		}
		entries = append(entries, indexed{n, key.String()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].n < entries[j].n })

	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.val
	}
	return out
}

func defaultIndex(key string) (int, bool) {
	const prefix = "Default_"
	if !strings.HasPrefix(key, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(key[len(prefix):])
	if err != nil {
		return 0, false
	}
	return n, true
}

// splitEntries parses a semicolon-separated DisabledEntries value,
// dropping empty elements from a trailing separator.
func splitEntries(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LoadProfileFile opens path and parses it as a Profile; a missing file is
// not an error — it means no overlay is configured — and yields an empty
// Profile.
func LoadProfileFile(path string) (*Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Profile{ServiceTypes: map[string]ServiceTypeProfile{}}, nil
		}
		return nil, err
	}
	defer f.Close()
	return LoadProfile(f)
}
