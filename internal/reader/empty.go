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
	"github.com/googlecloudplatform/sycoca/internal/codec"
	"github.com/googlecloudplatform/sycoca/internal/stringdict"
	"github.com/googlecloudplatform/sycoca/internal/sycoca"
)

// buildEmptyDatabase encodes a minimal but well-formed sycoca file with
// zero entries in every factory: the fallback used when no cache file can
// be located anywhere, sufficient to answer "empty" to every query rather
// than returning an error from every lookup.
func buildEmptyDatabase() []byte {
	w := codec.NewWriter()
	slots := sycoca.WriteFactoryTablePrologue(w, []sycoca.FactoryID{
		sycoca.FactoryServiceTypes, sycoca.FactoryServices,
		sycoca.FactoryServiceGroups, sycoca.FactoryMimeTypes,
	})
	sycoca.NewHeader().WriteTrailer(w)

	for _, slot := range slots {
		bodyOffset := w.Pos()
		w.WriteUint32(0) // allListOffset placeholder
		w.WriteUint32(0) // dictOffset placeholder
		allListOffset := w.Pos()
		w.WriteOffsetList(nil)
		dictOffset := stringdict.New().Save(w)
		w.PatchUint32At(bodyOffset, allListOffset)
		w.PatchUint32At(bodyOffset+4, dictOffset)
		w.PatchUint32At(slot, bodyOffset)
	}

	return w.Bytes()
}
