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

package config

import "fmt"

// Strategy selects how internal/reader opens the binary cache file.
type Strategy string

const (
	StrategyMmap  Strategy = "mmap"
	StrategyShmem Strategy = "shmem"
	StrategyFile  Strategy = "file"
)

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyMmap, StrategyShmem, StrategyFile:
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("config: invalid strategy %q (want mmap, shmem, or file)", s)
	}
}

// Generation is the cache-format generation number embedded in the
// persisted file name ("ksycoca<gen>_<lang>_<hash>").
type Generation int
