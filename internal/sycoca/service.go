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

// Service represents an installed application or plugin.
type Service struct {
	offset uint32

	Name        string // primary key / entry name
	StorageID   string // file basename with extension
	MenuID      string // reverse-DNS style, for applications
	DisplayName string
	Exec        string

	MimeTypes    []string
	ServiceTypes []string

	Properties map[string]codec.Variant

	FormFactors    []string
	DBusActivation DBusActivationPolicy
	InitialPref    int
	AllowAsDefault bool
}

func (s *Service) Offset() uint32    { return s.offset }
func (s *Service) EntryName() string { return s.Name }
func (s *Service) TypeTag() TypeTag  { return TypeService }

// HasServiceType reports whether name appears in s.ServiceTypes. It does
// not walk ServiceType inheritance — that is ServiceTypeFactory's job.
func (s *Service) HasServiceType(name string) bool {
	for _, t := range s.ServiceTypes {
		if t == name {
			return true
		}
	}
	return false
}

func (s *Service) Encode(w *codec.Writer) {
	s.offset = w.Pos()
	w.WriteInt32(int32(TypeService))
	w.WriteString(s.Name)
	w.WriteString(s.StorageID)
	w.WriteString(s.MenuID)
	w.WriteString(s.DisplayName)
	w.WriteString(s.Exec)
	w.WriteStringList(s.MimeTypes)
	w.WriteStringList(s.ServiceTypes)

	keys := make([]string, 0, len(s.Properties))
	for k := range s.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	w.WriteStringVariantMap(keys, s.Properties)

	w.WriteStringList(s.FormFactors)
	w.WriteInt32(int32(s.DBusActivation))
	w.WriteInt32(int32(s.InitialPref))
	w.WriteBool(s.AllowAsDefault)
}

func DecodeService(r *codec.Reader, offset uint32) (*Service, error) {
	s := &Service{offset: offset}

	var err error
	if s.Name, err = r.ReadString(); err != nil {
		return nil, err
	}
	if s.StorageID, err = r.ReadString(); err != nil {
		return nil, err
	}
	if s.MenuID, err = r.ReadString(); err != nil {
		return nil, err
	}
	if s.DisplayName, err = r.ReadString(); err != nil {
		return nil, err
	}
	if s.Exec, err = r.ReadString(); err != nil {
		return nil, err
	}
	if s.MimeTypes, err = r.ReadStringList(); err != nil {
		return nil, err
	}
	if s.ServiceTypes, err = r.ReadStringList(); err != nil {
		return nil, err
	}
	_, props, err := r.ReadStringVariantMap()
	if err != nil {
		return nil, err
	}
	s.Properties = props
	if s.FormFactors, err = r.ReadStringList(); err != nil {
		return nil, err
	}
	policy, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	s.DBusActivation = DBusActivationPolicy(policy)
	pref, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	s.InitialPref = int(pref)
	if s.AllowAsDefault, err = r.ReadBool(); err != nil {
		return nil, err
	}

	return s, nil
}
