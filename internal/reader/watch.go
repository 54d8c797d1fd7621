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
	"github.com/fsnotify/fsnotify"

	"github.com/googlecloudplatform/sycoca/internal/logger"
)

// dirWatcher arms a forced (throttle-bypassing) staleness check on the
// next EnsureValid call once the watched directory changes. It watches the
// cache file's containing directory rather than the file itself so it
// survives the builder's temp-file-then-rename (a watch on the old inode
// would go silent the moment the rename replaces it).
type dirWatcher struct {
	w      *fsnotify.Watcher
	events chan struct{}
}

func newDirWatcher(dir string) (*dirWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}

	dw := &dirWatcher{w: w, events: make(chan struct{}, 1)}
	go dw.pump()
	return dw, nil
}

func (dw *dirWatcher) pump() {
	for {
		select {
		case ev, ok := <-dw.w.Events:
			if !ok {
				close(dw.events)
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			select {
			case dw.events <- struct{}{}:
			default: // already armed; coalesce
			}
		case err, ok := <-dw.w.Errors:
			if !ok {
				close(dw.events)
				return
			}
			logger.Debugf("sycoca reader: fsnotify error: %v", err)
		}
	}
}

func (dw *dirWatcher) close() {
	dw.w.Close()
}
