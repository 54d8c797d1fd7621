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
	"sort"

	"github.com/googlecloudplatform/sycoca/internal/codec"
)

// ServiceType is a capability interface name a Service may implement, with
// optional single-parent inheritance and a declared property schema.
type ServiceType struct {
	offset uint32
	Name   string

	Parent string // "" if none
	Schema map[string]ScalarType

	// Offers is the list of Services that claim this ServiceType, each
	// carrying its own preference/allow-default pair. This is the profiled
	// view query() uses: disabled services removed, user-preferred
	// services reordered to the front.
	Offers []Offer

	// DefaultOffers is the un-profiled view defaultOffers() returns: every
	// claiming Service in build order, including ones a profile disabled.
	DefaultOffers []Offer
}

func (s *ServiceType) Offset() uint32    { return s.offset }
func (s *ServiceType) EntryName() string { return s.Name }
func (s *ServiceType) TypeTag() TypeTag  { return TypeServiceType }

func (s *ServiceType) Encode(w *codec.Writer) {
	s.offset = w.Pos()
	w.WriteInt32(int32(TypeServiceType))
	w.WriteString(s.Name)
	w.WriteString(s.Parent)

	keys := make([]string, 0, len(s.Schema))
	for k := range s.Schema {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	w.WriteInt32(int32(len(keys)))
	for _, k := range keys {
		w.WriteString(k)
		w.WriteInt32(int32(s.Schema[k]))
	}

	writeOffers(w, s.Offers)
	writeOffers(w, s.DefaultOffers)
}

func writeOffers(w *codec.Writer, offers []Offer) {
	w.WriteInt32(int32(len(offers)))
	for _, o := range offers {
		w.WriteUint32(o.ServiceOffset)
		w.WriteInt32(int32(o.InitialPref))
		w.WriteBool(o.AllowAsDefault)
	}
}

func readOffers(r *codec.Reader) ([]Offer, error) {
	n, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, codec.ErrCorrupt
	}
	offers := make([]Offer, 0, n)
	for i := int32(0); i < n; i++ {
		svcOff, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		pref, err := r.ReadInt32()
		if err != nil {
			return nil, err
		}
		allow, err := r.ReadBool()
		if err != nil {
			return nil, err
		}
		offers = append(offers, Offer{ServiceOffset: svcOff, InitialPref: int(pref), AllowAsDefault: allow})
	}
	return offers, nil
}

// DecodeServiceType reads a ServiceType whose type tag has already been
// consumed by the caller (see Factory.FindByOffset), at the position r is
// currently seeked to.
func DecodeServiceType(r *codec.Reader, offset uint32) (*ServiceType, error) {
	name, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	parent, err := r.ReadString()
	if err != nil {
		return nil, err
	}

	schemaLen, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	if schemaLen < 0 {
		return nil, codec.ErrCorrupt
	}
	schema := make(map[string]ScalarType, schemaLen)
	for i := int32(0); i < schemaLen; i++ {
		k, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		t, err := r.ReadInt32()
		if err != nil {
			return nil, err
		}
		schema[k] = ScalarType(t)
	}

	offers, err := readOffers(r)
	if err != nil {
		return nil, err
	}
	defaultOffers, err := readOffers(r)
	if err != nil {
		return nil, err
	}

	return &ServiceType{
		offset:        offset,
		Name:          name,
		Parent:        parent,
		Schema:        schema,
		Offers:        offers,
		DefaultOffers: defaultOffers,
	}, nil
}
