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

// ServiceGroup is a menu-tree node. Children are a mixed list
// of ServiceGroup and Service offsets; the caller disambiguates by peeking
// the type tag at each child offset (see Factory.FindByOffset).
type ServiceGroup struct {
	offset uint32

	Name    string // relative path, e.g. "foo/bar/"
	Caption string
	Icon    string

	ChildOffsets []uint32
}

func (g *ServiceGroup) Offset() uint32    { return g.offset }
func (g *ServiceGroup) EntryName() string { return g.Name }
func (g *ServiceGroup) TypeTag() TypeTag  { return TypeServiceGroup }

func (g *ServiceGroup) Encode(w *codec.Writer) {
	g.offset = w.Pos()
	w.WriteInt32(int32(TypeServiceGroup))
	w.WriteString(g.Name)
	w.WriteString(g.Caption)
	w.WriteString(g.Icon)
	w.WriteOffsetList(g.ChildOffsets)
}

func DecodeServiceGroup(r *codec.Reader, offset uint32) (*ServiceGroup, error) {
	g := &ServiceGroup{offset: offset}

	var err error
	if g.Name, err = r.ReadString(); err != nil {
		return nil, err
	}
	if g.Caption, err = r.ReadString(); err != nil {
		return nil, err
	}
	if g.Icon, err = r.ReadString(); err != nil {
		return nil, err
	}
	if g.ChildOffsets, err = r.ReadOffsetList(); err != nil {
		return nil, err
	}

	return g, nil
}
