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

// Package sycoca implements the binary-cache entry model, per-kind
// factories, and the header that ties them together. See internal/builder
// for the writer side and internal/reader for the mmap/read side.
package sycoca

// TypeTag discriminates the kind of an on-disk Entry. It is written first
// in every Entry's serialized payload so a factory can reject an offset
// that turns out to belong to a different kind.
type TypeTag int32

const (
	TypeServiceType TypeTag = iota + 1
	TypeService
	TypeServiceGroup
	TypeMimeType
)

func (t TypeTag) String() string {
	switch t {
	case TypeServiceType:
		return "ServiceType"
	case TypeService:
		return "Service"
	case TypeServiceGroup:
		return "ServiceGroup"
	case TypeMimeType:
		return "MimeType"
	default:
		return "Unknown"
	}
}

// FactoryID is the key into the header's factory offset table. One factory
// exists per TypeTag, in the same numbering, terminated on disk by a zero
// id (see internal/sycoca/header.go).
type FactoryID int32

const (
	FactoryServiceTypes FactoryID = iota + 1
	FactoryServices
	FactoryServiceGroups
	FactoryMimeTypes
)

// Entry is the base contract every stored record satisfies. Offset is the
// record's byte position in the binary file and doubles as its identity for
// cross-references; it is zero in memory until the Builder stamps it just
// before writing, and is never legitimately zero on disk (zero reads back
// as "absent").
type Entry interface {
	Offset() uint32
	// EntryName returns the entry's primary key within its kind. Named
	// EntryName rather than Name so concrete types (Service, ServiceType,
	// ...) can keep a plain exported Name field without a collision.
	EntryName() string
	TypeTag() TypeTag
}

// DBusActivationPolicy enumerates how a Service is DBus-activated.
type DBusActivationPolicy int32

const (
	DBusActivationNone DBusActivationPolicy = iota
	DBusActivationMulti
	DBusActivationUnique
	DBusActivationWait
)

func (p DBusActivationPolicy) String() string {
	switch p {
	case DBusActivationMulti:
		return "Multi"
	case DBusActivationUnique:
		return "Unique"
	case DBusActivationWait:
		return "Wait"
	default:
		return "None"
	}
}

// ScalarType is a ServiceType schema's declared property type.
type ScalarType int32

const (
	ScalarString ScalarType = iota + 1
	ScalarStringList
	ScalarInt
	ScalarDouble
	ScalarBool
)

// Offer is a (Service, claimed-capability) pair with its preference. Offers
// live embedded inside MimeType and ServiceType records — they are never
// written as standalone, independently addressable Entries.
type Offer struct {
	ServiceOffset  uint32
	InitialPref    int
	AllowAsDefault bool
}
