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

import "errors"

// ServiceGroupFactory is the ServiceGroup-kind Factory, adding menu-tree
// child resolution. A group's children are a mixed list of ServiceGroup
// and Service offsets; ChildGroups and ChildServices disambiguate each by
// peeking the type tag FindByOffset already checks.
type ServiceGroupFactory struct {
	*Factory
	services *ServiceFactory
}

func NewServiceGroupFactory(f *Factory, services *ServiceFactory) *ServiceGroupFactory {
	return &ServiceGroupFactory{Factory: f, services: services}
}

func (f *ServiceGroupFactory) FindByName(name string) (*ServiceGroup, error) {
	h, err := f.Factory.FindByName(name)
	if err != nil {
		return nil, err
	}
	return asServiceGroup(h)
}

func asServiceGroup(h *Handle) (*ServiceGroup, error) {
	g, ok := h.Entry().(*ServiceGroup)
	if !ok {
		return nil, ErrCorruptEntry
	}
	return g, nil
}

// ChildGroups returns g's direct ServiceGroup children, skipping any
// Service children.
func (f *ServiceGroupFactory) ChildGroups(g *ServiceGroup) ([]*ServiceGroup, error) {
	var out []*ServiceGroup
	for _, off := range g.ChildOffsets {
		h, err := f.Factory.FindByOffset(off)
		if err == nil {
			if child, ok := h.Entry().(*ServiceGroup); ok {
				out = append(out, child)
			}
			continue
		}
		if !errors.Is(err, ErrCorruptEntry) {
			return nil, err
		}
	}
	return out, nil
}

// ChildServices returns g's direct Service children, skipping any
// ServiceGroup children.
func (f *ServiceGroupFactory) ChildServices(g *ServiceGroup) ([]*Service, error) {
	var out []*Service
	for _, off := range g.ChildOffsets {
		h, err := f.services.FindByOffset(off)
		if err == nil {
			if svc, ok := h.Entry().(*Service); ok {
				out = append(out, svc)
			}
			continue
		}
		if !errors.Is(err, ErrCorruptEntry) {
			return nil, err
		}
	}
	return out, nil
}
