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

package reader

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/googlecloudplatform/sycoca/internal/config"
)

// mapping is the strategy-independent view a Reader needs of the on-disk
// file once it has been brought into the process: the bytes internal/sycoca
// decodes against, and a way to release whatever resource backs them.
// Strategy selection is opaque to callers of openMapping.
type mapping interface {
	bytes() []byte
	close() error
}

// openMapping brings path into memory using strategy, defaulting to
// StrategyMmap when strategy is the zero value (a Config built directly
// as a struct literal, as tests do, rather than through BindFlags).
func openMapping(path string, strategy config.Strategy) (mapping, error) {
	if strategy == "" {
		strategy = config.StrategyMmap
	}
	switch strategy {
	case config.StrategyMmap:
		return openMmapMapping(path)
	case config.StrategyShmem:
		return openSlurpMapping(path)
	case config.StrategyFile:
		return openSlurpMapping(path)
	default:
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrInvalid}
	}
}

// mmapMapping is the POSIX-preferred strategy: the file's pages are mapped
// read-only and shared, so the kernel page cache is the only copy of the
// data and a cold reader pays only for the pages it actually touches.
type mmapMapping struct {
	data []byte
}

func openMmapMapping(path string) (mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := int(fi.Size())
	if size == 0 {
		// unix.Mmap rejects a zero-length mapping. A zero-byte file is not
		// a valid sycoca file (even a build with no entries still writes a
		// header and four empty factory bodies) but crashing the caller
		// over it is worse than answering every query empty.
		return &slurpMapping{data: buildEmptyDatabase()}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}
	// Best-effort: the builder writes the file once and readers scan it
	// front to back while decoding the header and dictionaries, so advise
	// the kernel to read ahead rather than fault page by page. A failure
	// here changes performance, not correctness.
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)

	return &mmapMapping{data: data}, nil
}

func (m *mmapMapping) bytes() []byte { return m.data }

func (m *mmapMapping) close() error {
	if m.data == nil {
		return nil
	}
	return unix.Munmap(m.data)
}

// slurpMapping backs both the shmem and plain-file strategies: the whole
// file is read once into a heap-allocated buffer. Go has no portable
// primitive for a named POSIX shared-memory segment distinct from mmap,
// so "in-process shared-memory slurp" and "plain file reads" collapse to
// the same implementation here. They stay distinct config values even so,
// since a caller may still want "file" to mean "never mmap, even
// read-only" on a filesystem where mmap is unreliable, e.g. some network
// mounts.
type slurpMapping struct {
	data []byte
}

func openSlurpMapping(path string) (mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &slurpMapping{data: data}, nil
}

func (m *slurpMapping) bytes() []byte { return m.data }

func (m *slurpMapping) close() error { return nil }

// newEmptyMapping synthesizes the "no file found anywhere" fallback: an
// in-memory buffer sufficient to answer "empty" to every query. It is
// never opened against a path; it backs the in-memory database
// reader.New builds when locate finds nothing
// on disk at all.
func newEmptyMapping() mapping {
	return &slurpMapping{data: buildEmptyDatabase()}
}
