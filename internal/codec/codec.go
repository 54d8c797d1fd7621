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

// Package codec implements the length-prefixed primitive stream used by the
// on-disk sycoca file format: fixed-width integers, UTF-16 strings with a
// 32-bit byte-count prefix, string lists, and string-to-variant property
// maps. Every Entry writes its offset-stamping type tag first, then its
// payload, so offsets recorded mid-stream remain valid cross-references
// once the whole file is on disk.
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Version is the pinned binary format generation. Any on-disk file whose
// header version does not equal this exactly is rejected without being
// read further, since a different version means offsets may not line up.
const Version int32 = 6

// ErrVersionMismatch is returned by CheckVersion.
var ErrVersionMismatch = errors.New("codec: on-disk version does not match the pinned binary version")

// ErrCorrupt marks a read that ran past the end of the buffer or found an
// otherwise nonsensical value (e.g. a negative length prefix).
var ErrCorrupt = errors.New("codec: corrupt stream")

// VariantKind discriminates the scalar kinds storable in a property map
// value, mirroring the declared scalar types a ServiceType schema may name.
type VariantKind byte

const (
	VariantString VariantKind = iota + 1
	VariantStringList
	VariantInt
	VariantDouble
	VariantBool
)

// Variant is a typed, property-map-storable scalar value.
type Variant struct {
	Kind   VariantKind
	Str    string
	List   []string
	Int    int64
	Double float64
	Bool   bool
}

func VariantFromString(s string) Variant       { return Variant{Kind: VariantString, Str: s} }
func VariantFromStringList(l []string) Variant { return Variant{Kind: VariantStringList, List: l} }
func VariantFromInt(i int64) Variant           { return Variant{Kind: VariantInt, Int: i} }
func VariantFromDouble(f float64) Variant      { return Variant{Kind: VariantDouble, Double: f} }
func VariantFromBool(b bool) Variant           { return Variant{Kind: VariantBool, Bool: b} }

func byteOrder() binary.ByteOrder { return binary.LittleEndian }

func fmtCorrupt(reason string) error {
	return fmt.Errorf("%w: %s", ErrCorrupt, reason)
}
