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
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/googlecloudplatform/sycoca/internal/codec"
	"github.com/googlecloudplatform/sycoca/internal/config"
	"github.com/googlecloudplatform/sycoca/internal/sycoca"
)

// resolveServiceTypes validates single-parent inheritance chains and
// rejects cycles: the parent chain must terminate. It returns the
// ServiceTypes keyed by name, still without their Offers
// lists (those are filled in by computeOffers once every Service's
// ServiceType membership is known).
func resolveServiceTypes(raw []rawServiceType) (map[string]*sycoca.ServiceType, error) {
	byName := make(map[string]*rawServiceType, len(raw))
	for i := range raw {
		byName[raw[i].name] = &raw[i]
	}

	const (
		unvisited = 0
		visiting  = 1
		visited   = 2
	)
	state := make(map[string]int, len(raw))

	var check func(name string) error
	check = func(name string) error {
		switch state[name] {
		case visited:
			return nil
		case visiting:
			return fmt.Errorf("%w: inheritance cycle at %q", sycoca.ErrBuildFailure, name)
		}
		state[name] = visiting
		if r, ok := byName[name]; ok && r.parent != "" {
			if _, ok := byName[r.parent]; !ok {
				return fmt.Errorf("%w: %q derives from unknown ServiceType %q", sycoca.ErrBuildFailure, name, r.parent)
			}
			if err := check(r.parent); err != nil {
				return err
			}
		}
		state[name] = visited
		return nil
	}

	for name := range byName {
		if err := check(name); err != nil {
			return nil, err
		}
	}

	out := make(map[string]*sycoca.ServiceType, len(raw))
	for _, r := range raw {
		schema := make(map[string]sycoca.ScalarType, len(r.schema))
		for prop, declType := range r.schema {
			schema[prop] = scalarTypeFromName(declType)
		}
		out[r.name] = &sycoca.ServiceType{
			Name:   r.name,
			Parent: r.parent,
			Schema: schema,
		}
	}
	return out, nil
}

func scalarTypeFromName(name string) sycoca.ScalarType {
	switch strings.ToLower(name) {
	case "stringlist", "qstringlist":
		return sycoca.ScalarStringList
	case "int", "integer":
		return sycoca.ScalarInt
	case "double", "float", "real":
		return sycoca.ScalarDouble
	case "bool", "boolean":
		return sycoca.ScalarBool
	default:
		return sycoca.ScalarString
	}
}

// schemaFor looks up name's declared property schema, walking the parent
// chain the same way ServiceTypeFactory.ServiceImplements does, so a
// Service property is coerced by whichever ancestor ServiceType declared
// it first.
func schemaFor(serviceTypes map[string]*sycoca.ServiceType, names []string, prop string) (sycoca.ScalarType, bool) {
	seen := make(map[string]bool)
	var walk func(name string) (sycoca.ScalarType, bool)
	walk = func(name string) (sycoca.ScalarType, bool) {
		if seen[name] {
			return 0, false
		}
		seen[name] = true
		st, ok := serviceTypes[name]
		if !ok {
			return 0, false
		}
		if t, ok := st.Schema[prop]; ok {
			return t, true
		}
		if st.Parent != "" {
			return walk(st.Parent)
		}
		return 0, false
	}
	for _, n := range names {
		if t, ok := walk(n); ok {
			return t, true
		}
	}
	return 0, false
}

// coerceProperties re-types a parsed Service's property map according to
// its declared ServiceType schema: a property declared in its ServiceType
// schema is read with that declared type.
func coerceProperties(serviceTypes map[string]*sycoca.ServiceType, svc *rawService) {
	for key, v := range svc.properties {
		declared, ok := schemaFor(serviceTypes, svc.serviceTypes, key)
		if !ok {
			continue
		}
		svc.properties[key] = coerceVariant(v, declared)
	}
}

func coerceVariant(v codec.Variant, declared sycoca.ScalarType) codec.Variant {
	switch declared {
	case sycoca.ScalarString:
		if v.Kind != codec.VariantString {
			return codec.VariantFromString(variantToString(v))
		}
	case sycoca.ScalarStringList:
		if v.Kind != codec.VariantStringList {
			return codec.VariantFromStringList(strings.Split(variantToString(v), ";"))
		}
	case sycoca.ScalarBool:
		if v.Kind != codec.VariantBool {
			s := strings.ToLower(strings.TrimSpace(variantToString(v)))
			return codec.VariantFromBool(s == "true" || s == "1")
		}
	case sycoca.ScalarInt, sycoca.ScalarDouble:
		if v.Kind == codec.VariantString {
			s := strings.TrimSpace(v.Str)
			if declared == sycoca.ScalarInt {
				if n, err := strconv.ParseInt(s, 10, 64); err == nil {
					return codec.VariantFromInt(n)
				}
			} else if f, err := strconv.ParseFloat(s, 64); err == nil {
				return codec.VariantFromDouble(f)
			}
		}
		// Leave a value that doesn't parse as numeric alone: an
		// undeclared-looking value simply fails later comparisons
		// rather than erroring here.
		return v
	}
	return v
}

func variantToString(v codec.Variant) string {
	switch v.Kind {
	case codec.VariantString:
		return v.Str
	case codec.VariantBool:
		if v.Bool {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

func dbusPolicyFromName(name string) sycoca.DBusActivationPolicy {
	switch strings.ToLower(name) {
	case "multi":
		return sycoca.DBusActivationMulti
	case "unique":
		return sycoca.DBusActivationUnique
	case "wait":
		return sycoca.DBusActivationWait
	default:
		return sycoca.DBusActivationNone
	}
}

// buildServices converts every rawService into its final sycoca.Service,
// after property coercion against the resolved ServiceType schemas.
func buildServices(raw []rawService, serviceTypes map[string]*sycoca.ServiceType) []*sycoca.Service {
	services := make([]*sycoca.Service, 0, len(raw))
	for i := range raw {
		r := &raw[i]
		coerceProperties(serviceTypes, r)
		services = append(services, &sycoca.Service{
			Name:           r.name,
			StorageID:      r.storageID,
			MenuID:         r.menuID,
			DisplayName:    r.displayName,
			Exec:           r.exec,
			MimeTypes:      r.mimeTypes,
			ServiceTypes:   r.serviceTypes,
			Properties:     r.properties,
			FormFactors:    r.formFactors,
			DBusActivation: dbusPolicyFromName(r.dbusActivation),
			InitialPref:    r.initialPref,
			AllowAsDefault: r.allowAsDefault,
		})
	}
	sort.Slice(services, func(i, j int) bool { return services[i].Name < services[j].Name })
	return services
}

// computeOffers fills every ServiceType's and MimeType's Offers/
// DefaultOffers lists from each Service's declared memberships, then
// applies the profile overlay: the overlay reorders/filters the Offers
// view but never touches DefaultOffers.
func computeOffers(services []*sycoca.Service, serviceTypes map[string]*sycoca.ServiceType, mimeNames []string, profile *config.Profile) map[string]*sycoca.MimeType {
	mimeTypes := make(map[string]*sycoca.MimeType, len(mimeNames))
	for _, n := range mimeNames {
		mimeTypes[n] = &sycoca.MimeType{Name: n}
	}

	for _, svc := range services {
		offer := sycoca.Offer{
			ServiceOffset:  svc.Offset(),
			InitialPref:    svc.InitialPref,
			AllowAsDefault: svc.AllowAsDefault,
		}
		for _, stName := range svc.ServiceTypes {
			st, ok := serviceTypes[stName]
			if !ok {
				continue
			}
			st.DefaultOffers = append(st.DefaultOffers, offer)
		}
		for _, mimeName := range svc.MimeTypes {
			mt, ok := mimeTypes[mimeName]
			if !ok {
				mt = &sycoca.MimeType{Name: mimeName}
				mimeTypes[mimeName] = mt
			}
			// MimeType carries no profile overlay of its own (servicetype_profilerc
			// is keyed by ServiceType name, not by mime type), so its single
			// Offers list is the plain build-order list.
			mt.Offers = append(mt.Offers, offer)
		}
	}

	byOffset := make(map[uint32]*sycoca.Service, len(services))
	for _, svc := range services {
		byOffset[svc.Offset()] = svc
	}

	for name, st := range serviceTypes {
		st.Offers = applyProfile(st.DefaultOffers, byOffset, profile.ServiceTypes[name])
	}
	return mimeTypes
}

// applyProfile reorders offers so profile.Preferred services come first in
// that exact order, drops profile.Disabled services from the result, and
// leaves everyone else in their original relative order. defaultOffers
// (the caller's copy) is left untouched — the profile overlay only ever
// produces the query() view.
func applyProfile(defaultOffers []sycoca.Offer, byOffset map[uint32]*sycoca.Service, overlay config.ServiceTypeProfile) []sycoca.Offer {
	if len(overlay.Preferred) == 0 && len(overlay.Disabled) == 0 {
		out := make([]sycoca.Offer, len(defaultOffers))
		copy(out, defaultOffers)
		return out
	}

	disabled := make(map[string]bool, len(overlay.Disabled))
	for _, name := range overlay.Disabled {
		disabled[name] = true
	}

	byName := make(map[string]sycoca.Offer, len(defaultOffers))
	var order []string
	for _, o := range defaultOffers {
		svc, ok := byOffset[o.ServiceOffset]
		if !ok {
			continue
		}
		if disabled[svc.Name] {
			continue
		}
		byName[svc.Name] = o
		order = append(order, svc.Name)
	}

	result := make([]sycoca.Offer, 0, len(order))
	used := make(map[string]bool, len(overlay.Preferred))
	for _, name := range overlay.Preferred {
		if o, ok := byName[name]; ok && !used[name] {
			result = append(result, o)
			used[name] = true
		}
	}
	for _, name := range order {
		if !used[name] {
			result = append(result, byName[name])
			used[name] = true
		}
	}
	return result
}

// groupPlan is the menu tree's shape, computed from the directories the
// scan walked and each Application Service's relative path: every service
// with a menu id is listed in exactly one terminal group. Plugin Services,
// which have no menu id, never appear here.
// It stops short of constructing sycoca.ServiceGroup values because those
// must be Encode()'d bottom-up so a parent's ChildOffsets can reference
// its children's real (post-Encode) offsets; that sequencing lives in
// internal/builder's layout step, which walks OrderedDirs in order.
type groupPlan struct {
	OrderedDirs  []string // deepest first; a dir always precedes its parent
	SubdirsOf    map[string][]string
	CaptionOf    map[string]string
	Applications map[string][]uint32
}

func planServiceGroups(children map[string][]string, applications []*sycoca.Service) *groupPlan {
	dirSet := map[string]bool{".": true}
	subdirsOf := make(map[string][]string)
	for parent, kids := range children {
		dirSet[parent] = true
		for _, k := range kids {
			if !isDesktopFile(k) {
				dirSet[k] = true
				subdirsOf[parent] = append(subdirsOf[parent], k)
			}
		}
	}

	byDir := make(map[string][]uint32, len(applications))
	for _, svc := range applications {
		if svc.MenuID == "" {
			continue
		}
		parent := menuParentDir(svc.MenuID)
		byDir[parent] = append(byDir[parent], svc.Offset())
	}

	dirs := make([]string, 0, len(dirSet))
	captions := make(map[string]string, len(dirSet))
	for d := range dirSet {
		dirs = append(dirs, d)
		if d == "." {
			captions[d] = "/"
		} else {
			captions[d] = path.Base(d)
		}
	}
	sort.Slice(dirs, func(i, j int) bool {
		if depthOf(dirs[i]) != depthOf(dirs[j]) {
			return depthOf(dirs[i]) > depthOf(dirs[j])
		}
		return dirs[i] < dirs[j]
	})

	return &groupPlan{
		OrderedDirs:  dirs,
		SubdirsOf:    subdirsOf,
		CaptionOf:    captions,
		Applications: byDir,
	}
}

func groupNameFor(dir string) string {
	if dir == "." {
		return "/"
	}
	return dir + "/"
}

func menuParentDir(menuID string) string {
	idx := strings.LastIndexByte(menuID, '-')
	if idx < 0 {
		return "."
	}
	return strings.ReplaceAll(menuID[:idx], "-", "/")
}

func depthOf(dir string) int {
	if dir == "." {
		return 0
	}
	return strings.Count(dir, "/") + 1
}
