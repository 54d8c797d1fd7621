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

import "errors"

// Typed error sentinels for the sycoca package, matched with
// errors.Is/errors.As instead of string matching. internal/reader answers
// a missing cache file with an empty database, and unlinks a corrupt or
// version-mismatched file so the next open rebuilds it; it does not turn
// that decode error into empty results, and reader.New returns it.
// ServiceFactory.Query returns an empty result for an unknown ServiceType
// or a constraint that fails to parse; the FindByName lookups return
// ErrNotFound to their caller.
var (
	ErrNotFound        = errors.New("sycoca: not found")
	ErrVersionMismatch = errors.New("sycoca: version mismatch")
	ErrCorruptEntry    = errors.New("sycoca: corrupt entry")
	ErrBuildFailure    = errors.New("sycoca: build failure")
	ErrParse           = errors.New("sycoca: constraint parse error")
)
