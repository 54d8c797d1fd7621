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

import (
	"fmt"

	"github.com/googlecloudplatform/sycoca/internal/codec"
)

// Database is one opened sycoca file: the decoded header plus the four
// per-kind factories it indexes. internal/reader constructs one Database
// per thread-local Reader over that thread's own byte slice — Database
// itself does no I/O beyond what NewDatabase does once at open time.
type Database struct {
	Header *Header

	ServiceTypes  *ServiceTypeFactory
	Services      *ServiceFactory
	ServiceGroups *ServiceGroupFactory
	MimeTypes     *MimeTypeFactory
}

// NewDatabase decodes the header of a fully-read or mmap'd sycoca file and
// wires up its four factories. data is retained by reference (the
// factories seek into it lazily); callers own its lifetime.
func NewDatabase(data []byte) (*Database, error) {
	r := codec.NewReader(data)
	header, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}

	stFactory, err := newFactoryAt(data, header, FactoryServiceTypes, TypeServiceType, decodeServiceTypeEntry)
	if err != nil {
		return nil, err
	}
	svcFactory, err := newFactoryAt(data, header, FactoryServices, TypeService, decodeServiceEntry)
	if err != nil {
		return nil, err
	}
	groupFactory, err := newFactoryAt(data, header, FactoryServiceGroups, TypeServiceGroup, decodeServiceGroupEntry)
	if err != nil {
		return nil, err
	}
	mimeFactory, err := newFactoryAt(data, header, FactoryMimeTypes, TypeMimeType, decodeMimeTypeEntry)
	if err != nil {
		return nil, err
	}

	services := NewServiceFactory(svcFactory)
	return &Database{
		Header:        header,
		ServiceTypes:  NewServiceTypeFactory(stFactory),
		Services:      services,
		ServiceGroups: NewServiceGroupFactory(groupFactory, services),
		MimeTypes:     NewMimeTypeFactory(mimeFactory),
	}, nil
}

// newFactoryAt reads the (allListOffset, dictOffset) pair stored at the
// start of a factory body and constructs its generic Factory.
func newFactoryAt(data []byte, h *Header, id FactoryID, kind TypeTag, decode func(*codec.Reader, uint32) (Entry, error)) (*Factory, error) {
	bodyOff, ok := h.FactoryOffsets[id]
	if !ok {
		return nil, fmt.Errorf("%w: no factory table entry for %s", ErrCorruptEntry, kind)
	}

	r := codec.NewReader(data)
	r.Seek(bodyOff)
	allListOffset, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	dictOffset, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}

	return NewFactory(data, kind, allListOffset, dictOffset, decode), nil
}

func decodeServiceTypeEntry(r *codec.Reader, offset uint32) (Entry, error) {
	return DecodeServiceType(r, offset)
}

func decodeServiceEntry(r *codec.Reader, offset uint32) (Entry, error) {
	return DecodeService(r, offset)
}

func decodeServiceGroupEntry(r *codec.Reader, offset uint32) (Entry, error) {
	return DecodeServiceGroup(r, offset)
}

func decodeMimeTypeEntry(r *codec.Reader, offset uint32) (Entry, error) {
	return DecodeMimeType(r, offset)
}
