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

var utf16LEDecoder = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()

// Reader is a cursor over a byte slice — typically a view into an mmap'd or
// slurped sycoca file. Each Reader owns its own position; concurrent callers
// never share one (each sycoca.Factory lookup creates a fresh Reader).
type Reader struct {
	data []byte
	pos  uint32
}

// NewReader wraps data for sequential or seeked reads. The slice is never
// copied or mutated.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Len reports the size of the underlying buffer.
func (r *Reader) Len() uint32 { return uint32(len(r.data)) }

// Pos returns the current read cursor.
func (r *Reader) Pos() uint32 { return r.pos }

// Seek moves the cursor to an absolute offset.
func (r *Reader) Seek(off uint32) { r.pos = off }

func (r *Reader) require(n uint32) error {
	if uint64(r.pos)+uint64(n) > uint64(len(r.data)) {
		return fmtCorrupt("read past end of buffer")
	}
	return nil
}

func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

func (r *Reader) ReadUint32() (uint32, error) {
	if err := r.require(4); err != nil {
		return 0, err
	}
	v := byteOrder().Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *Reader) ReadInt64() (int64, error) {
	if err := r.require(8); err != nil {
		return 0, err
	}
	v := byteOrder().Uint64(r.data[r.pos:])
	r.pos += 8
	return int64(v), nil
}

func (r *Reader) ReadFloat64() (float64, error) {
	if err := r.require(8); err != nil {
		return 0, err
	}
	v := byteOrder().Uint64(r.data[r.pos:])
	r.pos += 8
	return math.Float64frombits(v), nil
}

func (r *Reader) ReadBool() (bool, error) {
	if err := r.require(1); err != nil {
		return false, err
	}
	v := r.data[r.pos]
	r.pos++
	return v != 0, nil
}

// ReadString reads a UTF-16LE string with a 32-bit byte-count prefix.
func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadUint32()
	if err != nil {
		return "", err
	}
	if err := r.require(n); err != nil {
		return "", err
	}
	raw := r.data[r.pos : r.pos+n]
	r.pos += n
	decoded, err := utf16LEDecoder.Bytes(raw)
	if err != nil {
		return "", fmtCorrupt("invalid utf-16 string")
	}
	return string(decoded), nil
}

func (r *Reader) ReadStringList() ([]string, error) {
	n, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmtCorrupt("negative string list length")
	}
	list := make([]string, 0, n)
	for i := int32(0); i < n; i++ {
		s, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, nil
}

func (r *Reader) ReadOffsetList() ([]uint32, error) {
	n, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmtCorrupt("negative offset list length")
	}
	offsets := make([]uint32, 0, n)
	for i := int32(0); i < n; i++ {
		o, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		offsets = append(offsets, o)
	}
	return offsets, nil
}

func (r *Reader) ReadVariant() (Variant, error) {
	if err := r.require(1); err != nil {
		return Variant{}, err
	}
	kind := VariantKind(r.data[r.pos])
	r.pos++

	switch kind {
	case VariantString:
		s, err := r.ReadString()
		return Variant{Kind: kind, Str: s}, err
	case VariantStringList:
		l, err := r.ReadStringList()
		return Variant{Kind: kind, List: l}, err
	case VariantInt:
		i, err := r.ReadInt64()
		return Variant{Kind: kind, Int: i}, err
	case VariantDouble:
		d, err := r.ReadFloat64()
		return Variant{Kind: kind, Double: d}, err
	case VariantBool:
		b, err := r.ReadBool()
		return Variant{Kind: kind, Bool: b}, err
	default:
		return Variant{}, fmtCorrupt("unknown variant kind")
	}
}

// ReadStringVariantMap reads a property map written by WriteStringVariantMap,
// returning the keys in on-disk (insertion) order alongside the map.
func (r *Reader) ReadStringVariantMap() ([]string, map[string]Variant, error) {
	n, err := r.ReadInt32()
	if err != nil {
		return nil, nil, err
	}
	if n < 0 {
		return nil, nil, fmtCorrupt("negative property map length")
	}
	keys := make([]string, 0, n)
	m := make(map[string]Variant, n)
	for i := int32(0); i < n; i++ {
		k, err := r.ReadString()
		if err != nil {
			return nil, nil, err
		}
		v, err := r.ReadVariant()
		if err != nil {
			return nil, nil, err
		}
		keys = append(keys, k)
		m[k] = v
	}
	return keys, m, nil
}

// CheckVersion reads the version field at the head of data. It works on the
// byte slice directly, so no Reader cursor is needed or moved. A mismatch
// is a hard "regenerate" trigger: partial reading
// cannot be trusted because every subsequent offset depends on the layout
// matching the pinned version exactly.
func CheckVersion(data []byte) error {
	if len(data) < 4 {
		return ErrVersionMismatch
	}
	v := int32(byteOrder().Uint32(data[:4]))
	if v != Version {
		return ErrVersionMismatch
	}
	return nil
}
