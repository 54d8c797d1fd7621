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
	"fmt"
	"sync"

	"github.com/googlecloudplatform/sycoca/internal/codec"
	"github.com/googlecloudplatform/sycoca/internal/stringdict"
)

// factoryCacheCapacity bounds the per-factory materialized-entry cache.
// It is a plain bounded map that resets wholesale on overflow rather than
// an LRU — simple, and sufficient since re-materializing an Entry is a
// cheap seek-and-decode, not a network round trip.
const factoryCacheCapacity = 256

// Factory is the per-entry-kind index: it owns a kind's dictionary and
// all-entries list offsets within a single sycoca file and resolves
// offsets to typed Entry values, caching recently materialized ones.
type Factory struct {
	data          []byte
	kind          TypeTag
	allListOffset uint32
	dictOffset    uint32
	decode        func(r *codec.Reader, offset uint32) (Entry, error)

	mu    sync.Mutex
	cache map[uint32]Entry
}

// NewFactory wraps the body of one factory already located within data
// (the full mmap'd or slurped file). allListOffset and dictOffset are the
// two header ints at the start of that factory's body.
func NewFactory(data []byte, kind TypeTag, allListOffset, dictOffset uint32, decode func(*codec.Reader, uint32) (Entry, error)) *Factory {
	return &Factory{
		data:          data,
		kind:          kind,
		allListOffset: allListOffset,
		dictOffset:    dictOffset,
		decode:        decode,
		cache:         make(map[uint32]Entry),
	}
}

func (f *Factory) Kind() TypeTag { return f.kind }

func (f *Factory) reader() *codec.Reader { return codec.NewReader(f.data) }

func (f *Factory) cached(offset uint32) (Entry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.cache[offset]
	return e, ok
}

func (f *Factory) store(offset uint32, e Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.cache) >= factoryCacheCapacity {
		f.cache = make(map[uint32]Entry, factoryCacheCapacity)
	}
	f.cache[offset] = e
}

// FindByOffset seeks to off, verifies the type tag matches this factory's
// kind, and materializes (or returns a cached) Entry. Returns a fresh
// Handle with reference count one.
func (f *Factory) FindByOffset(off uint32) (*Handle, error) {
	if off == 0 {
		return nil, ErrNotFound
	}
	if e, ok := f.cached(off); ok {
		return newHandle(e, nil), nil
	}

	r := f.reader()
	r.Seek(off)
	tagRaw, err := r.ReadInt32()
	if err != nil {
		return nil, fmt.Errorf("sycoca: reading type tag at offset %d: %w", off, err)
	}
	tag := TypeTag(tagRaw)
	if tag != f.kind {
		return nil, fmt.Errorf("%w: offset %d has tag %s, want %s", ErrCorruptEntry, off, tag, f.kind)
	}

	entry, err := f.decode(r, off)
	if err != nil {
		return nil, err
	}

	f.store(off, entry)
	return newHandle(entry, nil), nil
}

// FindByName looks up name in the factory's dictionary, seeks to the
// candidate offset, and re-verifies the name (the dictionary's contract
// allows returning any offset for a missing key — see internal/stringdict).
func (f *Factory) FindByName(name string) (*Handle, error) {
	r := f.reader()
	off, err := stringdict.FindString(r, f.dictOffset, name)
	if err != nil {
		return nil, err
	}
	if off == 0 {
		return nil, ErrNotFound
	}

	h, err := f.FindByOffset(off)
	if err != nil {
		return nil, err
	}
	if h.Entry().EntryName() != name {
		return nil, ErrNotFound
	}
	return h, nil
}

// AllEntries reads every offset from the all-entries list and materializes
// each entry (reusing cached ones) before it returns; it does not stream.
func (f *Factory) AllEntries() ([]*Handle, error) {
	r := f.reader()
	r.Seek(f.allListOffset)
	offsets, err := r.ReadOffsetList()
	if err != nil {
		return nil, err
	}

	handles := make([]*Handle, 0, len(offsets))
	for _, off := range offsets {
		h, err := f.FindByOffset(off)
		if err != nil {
			return nil, err
		}
		handles = append(handles, h)
	}
	return handles, nil
}
