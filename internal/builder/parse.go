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
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/googlecloudplatform/sycoca/internal/codec"
	"github.com/googlecloudplatform/sycoca/internal/desktopentry"
	"github.com/googlecloudplatform/sycoca/internal/logger"
)

const (
	mainGroupName       = "Desktop Entry"
	propertyDefPrefix   = "PropertyDef::"
)

// parseOutcome collects the two entry kinds a source tree yields, plus the
// files that failed to parse: logged and skipped, never fatal.
type parseOutcome struct {
	services     []rawService
	serviceTypes []rawServiceType
	skipped      []string
}

// parseSourceFiles parses every file concurrently, one goroutine per CPU
// slot via errgroup — the same fan-out-then-join shape the example pack
// uses for independent per-item work with no shared mutable state besides
// the final append, which is guarded by a mutex.
func parseSourceFiles(files []sourceFile, trackID string) (*parseOutcome, error) {
	out := &parseOutcome{}
	var mu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())
	for _, f := range files {
		f := f
		g.Go(func() error {
			svc, st, err := parseOneFile(f)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Warnf("sycoca builder: skipping %s: %v", f.absPath, err)
				out.skipped = append(out.skipped, f.relPath)
				return nil
			}
			if svc != nil {
				if trackID != "" && (svc.name == trackID || svc.storageID == trackID) {
					logger.Infof("sycoca builder: tracked entry %s parsed from %s", trackID, f.absPath)
				}
				out.services = append(out.services, *svc)
			}
			if st != nil {
				if trackID != "" && st.name == trackID {
					logger.Infof("sycoca builder: tracked entry %s parsed from %s", trackID, f.absPath)
				}
				out.serviceTypes = append(out.serviceTypes, *st)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func parseOneFile(f sourceFile) (*rawService, *rawServiceType, error) {
	fh, err := os.Open(f.absPath)
	if err != nil {
		return nil, nil, err
	}
	defer fh.Close()

	parsed, err := desktopentry.Parse(fh)
	if err != nil {
		return nil, nil, err
	}

	main := parsed.Group(mainGroupName)
	if main == nil {
		return nil, nil, fmt.Errorf("missing [%s] section", mainGroupName)
	}

	typ, ok := main.String("Type")
	if !ok {
		return nil, nil, fmt.Errorf("missing required key Type")
	}

	switch typ {
	case "ServiceType":
		st, err := buildServiceType(f, main, parsed)
		return nil, st, err
	case "Application", "Service":
		svc, err := buildService(f, typ, main)
		return svc, nil, err
	default:
		return nil, nil, fmt.Errorf("unrecognized Type %q", typ)
	}
}

func buildServiceType(f sourceFile, main *desktopentry.Group, file *desktopentry.File) (*rawServiceType, error) {
	name, ok := main.String("Name")
	if !ok || name == "" {
		return nil, fmt.Errorf("ServiceType entry missing required key Name")
	}

	st := &rawServiceType{
		relPath: f.relPath,
		name:    name,
		schema:  make(map[string]string),
	}
	if parent, ok := main.String("X-KDE-Derived"); ok {
		st.parent = parent
	}

	for _, g := range file.Groups {
		if !strings.HasPrefix(g.Name, propertyDefPrefix) {
			continue
		}
		propName := strings.TrimPrefix(g.Name, propertyDefPrefix)
		declType, ok := g.String("Type")
		if !ok {
			continue
		}
		st.schema[propName] = declType
	}

	return st, nil
}

func buildService(f sourceFile, typ string, main *desktopentry.Group) (*rawService, error) {
	name, ok := main.String("Name")
	if !ok || name == "" {
		return nil, fmt.Errorf("%s entry missing required key Name", typ)
	}
	exec, _ := main.String("Exec")
	if typ == "Application" && exec == "" {
		return nil, fmt.Errorf("Application entry missing required key Exec")
	}

	if boolWithDefault(main, "Hidden", false) {
		return nil, nil
	}

	svc := &rawService{
		relPath:        f.relPath,
		name:           name,
		storageID:      storageIDFor(f.relPath),
		displayName:    name,
		exec:           exec,
		mimeTypes:      main.List("MimeType"),
		serviceTypes:   main.List("X-KDE-ServiceTypes"),
		formFactors:    main.List("X-KDE-FormFactors"),
		initialPref:    intWithDefault(main, "InitialPreference", 0),
		allowAsDefault: boolWithDefault(main, "AllowDefault", true),
		hidden:         false,
		properties:     make(map[string]codec.Variant),
	}
	if typ == "Application" {
		svc.menuID = menuIDFor(f.relPath)
	}
	if dbus, ok := main.String("X-KDE-DBUs-ServiceType"); ok {
		svc.dbusActivation = dbus
	}

	for _, key := range main.Keys {
		if isStructuredKey(key) {
			continue
		}
		val, _ := main.String(key)
		svc.properties[key] = inferVariant(val)
	}

	return svc, nil
}

// isStructuredKey reports whether key is already captured by a dedicated
// rawService field, so it is not duplicated into the generic property map.
func isStructuredKey(key string) bool {
	switch key {
	case "Type", "Name", "Exec", "MimeType", "X-KDE-ServiceTypes",
		"X-KDE-FormFactors", "InitialPreference", "AllowDefault",
		"Hidden", "X-KDE-DBUs-ServiceType":
		return true
	default:
		return false
	}
}

// inferVariant guesses a scalar kind for an undeclared desktop-entry
// value: bool, then int, then float, falling back to string. Properties
// whose ServiceType schema declares a type are re-coerced afterward in
// resolve.go once every ServiceType has been parsed.
func inferVariant(v string) codec.Variant {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true":
		return codec.VariantFromBool(true)
	case "false":
		return codec.VariantFromBool(false)
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return codec.VariantFromInt(n)
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return codec.VariantFromDouble(f)
	}
	return codec.VariantFromString(v)
}

func boolWithDefault(g *desktopentry.Group, key string, def bool) bool {
	v, ok := g.String(key)
	if !ok {
		return def
	}
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1"
}

func intWithDefault(g *desktopentry.Group, key string, def int) int {
	v, ok := g.String(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

func storageIDFor(relPath string) string {
	if idx := strings.LastIndexByte(relPath, '/'); idx >= 0 {
		return relPath[idx+1:]
	}
	return relPath
}

func menuIDFor(relPath string) string {
	trimmed := strings.TrimSuffix(relPath, ".desktop")
	return strings.ReplaceAll(trimmed, "/", "-")
}
