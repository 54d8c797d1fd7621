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
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"sync"

	"github.com/googlecloudplatform/sycoca/internal/codec"
	"github.com/googlecloudplatform/sycoca/internal/logger"
	"github.com/googlecloudplatform/sycoca/internal/sycoca"
)

var enablePanicOnFault sync.Once

// decodeWithCrashRecovery decodes m into a Database, treating both an
// ordinary decode error and a recovered runtime fault as read corruption:
// the on-disk file is unlinked so the next open triggers a rebuild.
//
// A plain decode error covers a truncated or version-mismatched file. The
// recover covers the case a POSIX signal handler would traditionally
// catch: another process truncates the file out from under an existing
// mmap, and touching a page past the new (shorter) end of file raises
// SIGBUS. debug.SetPanicOnFault arranges for the Go runtime to turn that
// fault into a recoverable panic in the faulting goroutine instead of
// crashing the process, which is the portable equivalent a signal handler
// would give a C program; installing an actual SIGBUS handler from Go
// would race the runtime's own signal handling instead of cooperating
// with it.
func decodeWithCrashRecovery(path string, m mapping) (db *sycoca.Database, err error) {
	enablePanicOnFault.Do(func() { debug.SetPanicOnFault(true) })

	defer func() {
		if rec := recover(); rec != nil {
			logger.Errorf("sycoca reader: recovered fault decoding %s, unlinking for rebuild: %v", path, rec)
			unlinkCorrupt(path)
			err = fmt.Errorf("reader: %s: recovered fault: %v", path, rec)
		}
	}()

	db, err = sycoca.NewDatabase(m.bytes())
	if err != nil {
		if errors.Is(err, codec.ErrCorrupt) || errors.Is(err, codec.ErrVersionMismatch) || errors.Is(err, sycoca.ErrCorruptEntry) {
			logger.Warnf("sycoca reader: %s is corrupt, unlinking for rebuild: %v", path, err)
			unlinkCorrupt(path)
		}
		return nil, err
	}
	return db, nil
}

func unlinkCorrupt(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warnf("sycoca reader: failed to unlink corrupt cache %s: %v", path, err)
	}
}
