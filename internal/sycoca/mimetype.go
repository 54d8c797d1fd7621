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

import "github.com/googlecloudplatform/sycoca/internal/codec"

// MimeType is a MIME association record: a name plus the list
// of Services that offer to handle it.
type MimeType struct {
	offset uint32

	Name   string
	Offers []Offer
}

func (m *MimeType) Offset() uint32    { return m.offset }
func (m *MimeType) EntryName() string { return m.Name }
func (m *MimeType) TypeTag() TypeTag  { return TypeMimeType }

func (m *MimeType) Encode(w *codec.Writer) {
	m.offset = w.Pos()
	w.WriteInt32(int32(TypeMimeType))
	w.WriteString(m.Name)
	writeOffers(w, m.Offers)
}

func DecodeMimeType(r *codec.Reader, offset uint32) (*MimeType, error) {
	m := &MimeType{offset: offset}

	var err error
	if m.Name, err = r.ReadString(); err != nil {
		return nil, err
	}

	offers, err := readOffers(r)
	if err != nil {
		return nil, err
	}
	m.Offers = offers

	return m, nil
}
