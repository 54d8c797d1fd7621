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
	"sort"

	"github.com/google/renameio/v2"
	"github.com/google/uuid"

	"github.com/googlecloudplatform/sycoca/internal/codec"
	"github.com/googlecloudplatform/sycoca/internal/config"
	"github.com/googlecloudplatform/sycoca/internal/logger"
	"github.com/googlecloudplatform/sycoca/internal/stringdict"
	"github.com/googlecloudplatform/sycoca/internal/sycoca"
)

// Result summarizes one completed build.
type Result struct {
	RunID             string
	Path              string
	ServiceCount      int
	ServiceTypeCount  int
	ServiceGroupCount int
	MimeTypeCount     int
	Skipped           []string
}

// layoutAndWrite is the last part of the builder algorithm: compute offers,
// lay out the binary file, and write it atomically. It encodes Services
// first so every later factory body can embed a Service's now-stamped
// offset, computes every ServiceType's and MimeType's Offers from those
// offsets, then encodes ServiceTypes, then ServiceGroups bottom-up so a
// parent's ChildOffsets can reference its already-encoded children, then
// MimeTypes. The factory table lists ServiceTypes, Services, ServiceGroups,
// MimeTypes; each slot is patched as its body is written.
func layoutAndWrite(path string, header *sycoca.Header, services []*sycoca.Service, serviceTypes map[string]*sycoca.ServiceType, mimeNames []string, profile *config.Profile, plan *groupPlan, skipped []string) (*Result, error) {
	runID := uuid.NewString()

	w := codec.NewWriter()
	slots := sycoca.WriteFactoryTablePrologue(w, []sycoca.FactoryID{
		sycoca.FactoryServiceTypes,
		sycoca.FactoryServices,
		sycoca.FactoryServiceGroups,
		sycoca.FactoryMimeTypes,
	})
	header.WriteTrailer(w)

	for _, svc := range services {
		svc.Encode(w)
	}
	writeFactoryBody(w, slots[sycoca.FactoryServices], serviceKeys(services), serviceOffsets(services))

	mimeTypes := computeOffers(services, serviceTypes, mimeNames, profile)

	stNames := sortedKeys(serviceTypes)
	for _, name := range stNames {
		serviceTypes[name].Encode(w)
	}
	stOffsets := make([]uint32, len(stNames))
	for i, name := range stNames {
		stOffsets[i] = serviceTypes[name].Offset()
	}
	writeFactoryBody(w, slots[sycoca.FactoryServiceTypes], stNames, stOffsets)

	groups, err := encodeServiceGroups(w, plan)
	if err != nil {
		return nil, fmt.Errorf("%w: run %s: %v", sycoca.ErrBuildFailure, runID, err)
	}
	groupNames := make([]string, len(groups))
	groupOffsets := make([]uint32, len(groups))
	for i, g := range groups {
		groupNames[i], groupOffsets[i] = g.Name, g.Offset()
	}
	writeFactoryBody(w, slots[sycoca.FactoryServiceGroups], groupNames, groupOffsets)

	mtNames := sortedKeys(mimeTypes)
	for _, name := range mtNames {
		mimeTypes[name].Encode(w)
	}
	mtOffsets := make([]uint32, len(mtNames))
	for i, name := range mtNames {
		mtOffsets[i] = mimeTypes[name].Offset()
	}
	writeFactoryBody(w, slots[sycoca.FactoryMimeTypes], mtNames, mtOffsets)

	logger.Infof("sycoca builder: run %s writing %s (%d services, %d service types, %d groups, %d mime types)",
		runID, path, len(services), len(stNames), len(groups), len(mtNames))

	if err := renameio.WriteFile(path, w.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("%w: run %s: writing %s: %v", sycoca.ErrBuildFailure, runID, path, err)
	}

	return &Result{
		RunID:             runID,
		Path:              path,
		ServiceCount:      len(services),
		ServiceTypeCount:  len(stNames),
		ServiceGroupCount: len(groups),
		MimeTypeCount:     len(mtNames),
		Skipped:           skipped,
	}, nil
}

// encodeServiceGroups walks plan.OrderedDirs deepest-first, constructing and
// Encode()-ing one sycoca.ServiceGroup per directory. A directory's child
// offsets are a mix of its Application Services' already-stamped offsets
// and its subdirectories' already-Encode()'d ServiceGroup offsets, both of
// which are guaranteed known by the time a shallower directory is reached.
func encodeServiceGroups(w *codec.Writer, plan *groupPlan) ([]*sycoca.ServiceGroup, error) {
	offsetByDir := make(map[string]uint32, len(plan.OrderedDirs))
	groups := make([]*sycoca.ServiceGroup, 0, len(plan.OrderedDirs))

	for _, dir := range plan.OrderedDirs {
		children := make([]uint32, 0, len(plan.SubdirsOf[dir])+len(plan.Applications[dir]))
		for _, sub := range plan.SubdirsOf[dir] {
			off, ok := offsetByDir[sub]
			if !ok {
				return nil, fmt.Errorf("service group %q encoded before its subdirectory %q", dir, sub)
			}
			children = append(children, off)
		}
		children = append(children, plan.Applications[dir]...)

		g := &sycoca.ServiceGroup{
			Name:         groupNameFor(dir),
			Caption:      plan.CaptionOf[dir],
			ChildOffsets: children,
		}
		g.Encode(w)
		offsetByDir[dir] = g.Offset()
		groups = append(groups, g)
	}

	return groups, nil
}

// writeFactoryBody appends one factory's all-entries list and dictionary at
// the writer's current position and patches slotOffset (the factory table
// slot already reserved by WriteFactoryTablePrologue) to point at it. This
// mirrors internal/sycoca's test fixture byte-for-byte.
func writeFactoryBody(w *codec.Writer, slotOffset uint32, keys []string, offsets []uint32) {
	bodyOffset := w.Pos()
	w.WriteUint32(0) // allListOffset placeholder
	w.WriteUint32(0) // dictOffset placeholder

	dict := stringdict.New()
	for i, off := range offsets {
		dict.Add(keys[i], off)
	}

	allListOffset := w.Pos()
	w.WriteOffsetList(offsets)
	dictOffset := dict.Save(w)

	w.PatchUint32At(bodyOffset, allListOffset)
	w.PatchUint32At(bodyOffset+4, dictOffset)
	w.PatchUint32At(slotOffset, bodyOffset)
}

func serviceKeys(services []*sycoca.Service) []string {
	keys := make([]string, len(services))
	for i, s := range services {
		keys[i] = s.Name
	}
	return keys
}

func serviceOffsets(services []*sycoca.Service) []uint32 {
	offsets := make([]uint32, len(services))
	for i, s := range services {
		offsets[i] = s.Offset()
	}
	return offsets
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// buildHeader assembles the header trailer fields the Builder owns directly
// (the factory table itself is written by layoutAndWrite).
func buildHeader(prefixes []string, buildTimestampMs int64, language string, trackedDirs map[string]int64) *sycoca.Header {
	h := sycoca.NewHeader()
	h.Prefixes = prefixes
	h.BuildTimestampMs = buildTimestampMs
	h.Language = language
	h.TrackedDirs = trackedDirs
	h.UpdateSignature = updateSignature(trackedDirs)
	return h
}

// updateSignature is a cheap order-independent FNV-1a fingerprint of the
// tracked directory paths (their mtimes are not hashed). It is stored in
// the header trailer; the read path does not compare it.
func updateSignature(trackedDirs map[string]int64) uint32 {
	paths := sortedInt64Keys(trackedDirs)
	var sig uint32 = 2166136261 // FNV-1a offset basis
	for _, p := range paths {
		for _, b := range []byte(p) {
			sig ^= uint32(b)
			sig *= 16777619
		}
	}
	return sig
}

func sortedInt64Keys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
