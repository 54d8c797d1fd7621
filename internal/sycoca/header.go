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

package sycoca

import (
	"sort"

	"github.com/googlecloudplatform/sycoca/internal/codec"
)

// Header is the decoded form of the file's fixed prologue plus the
// directory-mtime trailer:
//
//	[version:i32][dummy:i32]
//	[factory_id:i32][factory_offset:i32]*   // terminated by factory_id == 0
//	[prefixes: stringlist]
//	[timestamp_ms: i64]
//	[language: string]
//	[update_signature: u32]
//	[dir_count: i32][dir_path: string]*
//	[dir_mtime_ms: i64]*                    // same count as paths
//
// Design Note OQ1: the original KDE source overloads its header timestamp
// field as a "was the header read at all" boolean (a zero timestamp means
// "never read"). We keep that numeric field purely as a timestamp and add
// an explicit Loaded bool, so a file legitimately built at Unix time zero
// in a test doesn't get misread as "not loaded".
type Header struct {
	Loaded          bool
	BuildTimestampMs int64
	Language        string
	UpdateSignature uint32
	FactoryOffsets  map[FactoryID]uint32
	TrackedDirs     map[string]int64 // path -> last-known mtime in ms
	Prefixes        []string
}

// NewHeader returns an empty, not-yet-loaded header ready for the Builder
// to populate.
func NewHeader() *Header {
	return &Header{
		FactoryOffsets: make(map[FactoryID]uint32),
		TrackedDirs:    make(map[string]int64),
	}
}

// WriteFactoryTablePrologue serializes the fixed prologue (version, dummy, factory table) at
// the current writer position and returns the byte offset of each
// factory-id/offset pair slot so the Builder can backfill them once every
// factory body has been written.
//
// factoryIDs fixes the iteration order of the factory table on disk so
// idempotent rebuilds are byte-identical.
func WriteFactoryTablePrologue(w *codec.Writer, factoryIDs []FactoryID) (slotOffsets map[FactoryID]uint32) {
	w.WriteInt32(codec.Version)
	w.WriteInt32(0) // dummy, reserved

	slotOffsets = make(map[FactoryID]uint32, len(factoryIDs))
	for _, id := range factoryIDs {
		w.WriteInt32(int32(id))
		slotOffsets[id] = w.Pos()
		w.WriteUint32(0) // backfilled once the factory body is written
	}
	w.WriteInt32(0) // terminator

	return slotOffsets
}

// WriteTrailer serializes the header proper: prefixes, timestamp, language,
// update signature, and the tracked-directory mtime map.
func (h *Header) WriteTrailer(w *codec.Writer) {
	w.WriteStringList(h.Prefixes)
	w.WriteInt64(h.BuildTimestampMs)
	w.WriteString(h.Language)
	w.WriteUint32(h.UpdateSignature)

	paths := make([]string, 0, len(h.TrackedDirs))
	for p := range h.TrackedDirs {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	w.WriteInt32(int32(len(paths)))
	for _, p := range paths {
		w.WriteString(p)
	}
	for _, p := range paths {
		w.WriteInt64(h.TrackedDirs[p])
	}
}

// ReadHeader decodes the prologue and trailer starting at offset 0 in r and
// returns the header with Loaded set. The trailer is read in full here, so
// callers don't need to seek back into it.
func ReadHeader(r *codec.Reader) (*Header, error) {
	r.Seek(0)
	version, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	if version != codec.Version {
		return nil, codec.ErrVersionMismatch
	}
	if _, err := r.ReadInt32(); err != nil { // dummy
		return nil, err
	}

	h := NewHeader()
	for {
		id, err := r.ReadInt32()
		if err != nil {
			return nil, err
		}
		if id == 0 {
			break
		}
		off, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		h.FactoryOffsets[FactoryID(id)] = off
	}

	prefixes, err := r.ReadStringList()
	if err != nil {
		return nil, err
	}
	h.Prefixes = prefixes

	ts, err := r.ReadInt64()
	if err != nil {
		return nil, err
	}
	h.BuildTimestampMs = ts

	lang, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	h.Language = lang

	sig, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	h.UpdateSignature = sig

	dirCount, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	if dirCount < 0 {
		return nil, codec.ErrCorrupt
	}
	paths := make([]string, dirCount)
	for i := range paths {
		p, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		paths[i] = p
	}
	for _, p := range paths {
		mtime, err := r.ReadInt64()
		if err != nil {
			return nil, err
		}
		h.TrackedDirs[p] = mtime
	}

	h.Loaded = true
	return h, nil
}
