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

package codec

import (
	"math"

	"golang.org/x/text/encoding/unicode"
)

var utf16LE = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()

// Writer accumulates the positional byte stream that becomes (a slice of)
// the on-disk sycoca file. Pos() lets callers stamp an Entry's own offset
// before writing the sub-objects that will reference it.
type Writer struct {
	buf []byte
}

func NewWriter() *Writer {
	return &Writer{buf: make([]byte, 0, 4096)}
}

// Pos returns the offset the next write will land at.
func (w *Writer) Pos() uint32 { return uint32(len(w.buf)) }

func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) WriteInt32(v int32) {
	w.buf = byteOrder().AppendUint32(w.buf, uint32(v))
}

func (w *Writer) WriteUint32(v uint32) {
	w.buf = byteOrder().AppendUint32(w.buf, v)
}

// PatchUint32At overwrites four bytes already written at offset. Used to
// backfill header and dictionary offset tables once the values they point
// at are known, without disturbing the positional stream already emitted.
func (w *Writer) PatchUint32At(offset uint32, v uint32) {
	byteOrder().PutUint32(w.buf[offset:offset+4], v)
}

func (w *Writer) WriteInt64(v int64) {
	w.buf = byteOrder().AppendUint64(w.buf, uint64(v))
}

func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf = append(w.buf, 1)
	} else {
		w.buf = append(w.buf, 0)
	}
}

func (w *Writer) WriteFloat64(v float64) {
	w.buf = byteOrder().AppendUint64(w.buf, math.Float64bits(v))
}

// WriteString writes a UTF-16LE string with a 32-bit byte-count prefix.
func (w *Writer) WriteString(s string) {
	encoded, err := utf16LE.String(s)
	if err != nil {
		// Values reaching the codec have already been validated as
		// well-formed UTF-8 by the desktop-entry parser; a conversion
		// failure here means the input is not valid text at all.
		encoded = ""
	}
	w.WriteUint32(uint32(len(encoded)))
	w.buf = append(w.buf, encoded...)
}

func (w *Writer) WriteStringList(list []string) {
	w.WriteInt32(int32(len(list)))
	for _, s := range list {
		w.WriteString(s)
	}
}

func (w *Writer) WriteOffsetList(offsets []uint32) {
	w.WriteInt32(int32(len(offsets)))
	for _, o := range offsets {
		w.WriteUint32(o)
	}
}

// WriteVariant writes a type-tagged scalar, used by Service property maps.
func (w *Writer) WriteVariant(v Variant) {
	w.buf = append(w.buf, byte(v.Kind))
	switch v.Kind {
	case VariantString:
		w.WriteString(v.Str)
	case VariantStringList:
		w.WriteStringList(v.List)
	case VariantInt:
		w.WriteInt64(v.Int)
	case VariantDouble:
		w.WriteFloat64(v.Double)
	case VariantBool:
		w.WriteBool(v.Bool)
	}
}

// WriteStringVariantMap writes a string-keyed property map. Key order is
// stable (callers pass a pre-sorted key slice) so rebuilds with identical
// source state are byte-identical.
func (w *Writer) WriteStringVariantMap(keys []string, m map[string]Variant) {
	w.WriteInt32(int32(len(keys)))
	for _, k := range keys {
		w.WriteString(k)
		w.WriteVariant(m[k])
	}
}
