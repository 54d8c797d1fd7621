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
	"sync/atomic"
)

// Handle wraps a materialized Entry with an explicit reference count,
// decoupling the Entry's lifetime from the Reader/mapping that produced it.
// Every field reachable from Entry has already been
// copied out of the mmap'd byte region by the codec decoders (strings and
// slices returned by codec.Reader are freshly allocated), so a Handle stays
// valid after the owning Reader remaps or closes; refcounting here exists
// to satisfy the documented acquire/release contract, not because the Go
// garbage collector needs help keeping the Entry's memory alive. The
// factory cache does not consult the count.
type Handle struct {
	entry   Entry
	count   int64
	release func()
}

// newHandle returns a Handle with an initial reference count of one,
// owned by the caller that materialized entry. release, if non-nil, runs
// exactly once when the count returns to zero.
func newHandle(entry Entry, release func()) *Handle {
	return &Handle{entry: entry, count: 1, release: release}
}

func (h *Handle) Entry() Entry { return h.entry }

// AddRef increments the reference count. Call before handing the Handle to
// another goroutine that will independently call Release.
func (h *Handle) AddRef() *Handle {
	n := atomic.AddInt64(&h.count, 1)
	if n <= 1 {
		panic(fmt.Sprintf("sycoca: AddRef on a handle with non-positive count %d", n))
	}
	return h
}

// Release decrements the reference count, running the handle's release
// callback (if any) when it reaches zero. Calling Release after the count
// has already hit zero is a programming error and panics.
func (h *Handle) Release() {
	n := atomic.AddInt64(&h.count, -1)
	switch {
	case n == 0:
		if h.release != nil {
			h.release()
		}
	case n < 0:
		panic("sycoca: Release called more times than AddRef")
	}
}

// RefCount reports the current reference count; intended for tests only.
func (h *Handle) RefCount() int64 {
	return atomic.LoadInt64(&h.count)
}
