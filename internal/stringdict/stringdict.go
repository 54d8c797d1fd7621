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

// Package stringdict implements the offset-keyed string dictionary used by
// each factory: an in-memory builder form (Dict) with O(1) add and count
// (Remove is linear in the number of keys),
// and a two-level seeded-hash on-disk layout with O(1) expected, allocation-
// free lookup (FindString) once serialized.
//
// The on-disk layout is:
//
//	[numSlots: u32]
//	[slot: u32]*numSlots        // high bit set => indirect, low 31 bits
//	                            // are the absolute file offset of a
//	                            // secondary table; high bit clear => the
//	                            // value itself is the entry offset (0 means
//	                            // the slot is empty)
//	secondary tables, each:
//	  [seed: u32][size: u32][sub_offset: u32]*size
//
// Secondary tables exist only for slots whose primary hash collided during
// the build; the per-slot seed embedded in each secondary table rehashes
// that bucket's keys into a collision-free sub-array.
package stringdict

import (
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/googlecloudplatform/sycoca/internal/codec"
)

// Dict is the in-memory, pre-serialization form of a factory's dictionary.
type Dict struct {
	entries map[string]uint32
	order   []string
}

func New() *Dict {
	return &Dict{entries: make(map[string]uint32)}
}

// Add records key -> offset. A later Add with the same key replaces the
// offset but keeps the key's original position, matching how a Builder
// overlay (a later source directory overriding an earlier one) updates an
// existing dictionary entry in place rather than duplicating it.
func (d *Dict) Add(key string, offset uint32) {
	if _, ok := d.entries[key]; !ok {
		d.order = append(d.order, key)
	}
	d.entries[key] = offset
}

func (d *Dict) Remove(key string) {
	if _, ok := d.entries[key]; !ok {
		return
	}
	delete(d.entries, key)
	for i, k := range d.order {
		if k == key {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

func (d *Dict) Count() int { return len(d.entries) }

// Offset returns the in-memory offset recorded for key, for callers (tests,
// incremental builds) that need to inspect the builder-side form directly.
func (d *Dict) Offset(key string) (uint32, bool) {
	o, ok := d.entries[key]
	return o, ok
}

func hash1(key string, numSlots uint32) uint32 {
	return uint32(xxhash.Sum64String(key)) & (numSlots - 1)
}

// hash2 rehashes key under a per-bucket seed via a finalizer-style bit mix
// (the MurmurHash3 finalizer), giving good dispersion across brute-forced
// seed values without a second independent hash function.
func hash2(key string, seed uint32) uint64 {
	h := xxhash.Sum64String(key)
	h ^= uint64(seed) * 0x9E3779B97F4A7C15
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	h *= 0xc4ceb9fe1a85ec53
	h ^= h >> 33
	return h
}

func nextPow2(n int) uint32 {
	if n <= 1 {
		return 1
	}
	p := uint32(1)
	for int(p) < n {
		p <<= 1
	}
	return p
}

const maxSeedAttempts = 1 << 20

// Save writes the two-level hash table for the current entry set and returns
// the absolute file offset the table starts at (the value callers should
// stamp into the owning factory's header as its dict_offset).
func (d *Dict) Save(w *codec.Writer) uint32 {
	dictOffset := w.Pos()

	numSlots := nextPow2(d.Count()*2 + 1)
	buckets := make(map[uint32][]string)
	for _, key := range d.order {
		slot := hash1(key, numSlots)
		buckets[slot] = append(buckets[slot], key)
	}

	w.WriteUint32(numSlots)
	slotTableOffset := w.Pos()
	for i := uint32(0); i < numSlots; i++ {
		w.WriteUint32(0)
	}

	slotIndexes := make([]uint32, 0, len(buckets))
	for slot := range buckets {
		slotIndexes = append(slotIndexes, slot)
	}
	sort.Slice(slotIndexes, func(i, j int) bool { return slotIndexes[i] < slotIndexes[j] })

	for _, slot := range slotIndexes {
		keys := buckets[slot]
		sort.Strings(keys)

		if len(keys) == 1 {
			w.PatchUint32At(slotTableOffset+4*slot, d.entries[keys[0]])
			continue
		}

		seed, assignment, tableSize := findCollisionFreeSeed(keys)
		secOffset := w.Pos()
		w.WriteUint32(seed)
		w.WriteUint32(tableSize)
		sub := make([]uint32, tableSize)
		for idx, key := range keys {
			sub[assignment[idx]] = d.entries[key]
		}
		for _, off := range sub {
			w.WriteUint32(off)
		}

		w.PatchUint32At(slotTableOffset+4*slot, secOffset|0x80000000)
	}

	return dictOffset
}

// findCollisionFreeSeed brute-forces the smallest seed that rehashes every
// key in the bucket to a distinct slot in a table of size tableSize,
// doubling tableSize if no seed within maxSeedAttempts works.
func findCollisionFreeSeed(keys []string) (seed uint32, assignment []int, tableSize uint32) {
	tableSize = nextPow2(len(keys) * 2)

	for {
		for seed = 0; seed < maxSeedAttempts; seed++ {
			seen := make(map[uint32]bool, len(keys))
			assignment = make([]int, len(keys))
			ok := true
			for i, key := range keys {
				slot := uint32(hash2(key, seed)) & (tableSize - 1)
				if seen[slot] {
					ok = false
					break
				}
				seen[slot] = true
				assignment[i] = int(slot)
			}
			if ok {
				return seed, assignment, tableSize
			}
		}
		// Practically unreachable for realistic bucket sizes (tableSize
		// grows with the bucket, so the birthday-paradox collision
		// probability per seed attempt shrinks quickly), but grow the
		// table rather than loop forever if it ever is.
		tableSize *= 2
	}
}

// FindString looks up key against a dictionary previously written by Save,
// starting at dictOffset within the full file byte stream r wraps. It
// returns an offset >= 1 naming a candidate entry, or 0 if no candidate
// exists. A non-zero result is not a guarantee the entry's name equals key
// — callers MUST re-verify the name after seeking to the returned offset.
func FindString(r *codec.Reader, dictOffset uint32, key string) (uint32, error) {
	r.Seek(dictOffset)
	numSlots, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	if numSlots == 0 {
		return 0, nil
	}

	slot := hash1(key, numSlots)
	r.Seek(dictOffset + 4 + 4*slot)
	v, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}

	if v&0x80000000 == 0 {
		return v, nil
	}

	secOffset := v &^ 0x80000000
	r.Seek(secOffset)
	seed, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	tableSize, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	sub := uint32(hash2(key, seed)) & (tableSize - 1)
	r.Seek(secOffset + 8 + 4*sub)
	return r.ReadUint32()
}
