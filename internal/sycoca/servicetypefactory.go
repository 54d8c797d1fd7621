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

// maxInheritanceDepth bounds the ServiceType parent walk. The builder
// already rejects cycles at build time, so this is a defense against a
// corrupt file rather than an expected code path.
const maxInheritanceDepth = 64

// ServiceTypeFactory is the ServiceType-kind Factory, adding the
// parent-chain inheritance walk ServiceType inheritance requires.
type ServiceTypeFactory struct {
	*Factory
}

// NewServiceTypeFactory wraps an already-constructed Factory of kind
// TypeServiceType.
func NewServiceTypeFactory(f *Factory) *ServiceTypeFactory {
	return &ServiceTypeFactory{Factory: f}
}

// FindByName looks up a ServiceType and returns it already asserted to
// its concrete type.
func (f *ServiceTypeFactory) FindByName(name string) (*ServiceType, error) {
	h, err := f.Factory.FindByName(name)
	if err != nil {
		return nil, err
	}
	return asServiceType(h)
}

func asServiceType(h *Handle) (*ServiceType, error) {
	st, ok := h.Entry().(*ServiceType)
	if !ok {
		return nil, ErrCorruptEntry
	}
	return st, nil
}

// HasServiceType walks st's parent chain (st itself, then Parent,
// Parent's Parent, ...) looking for name: a derived ServiceType "has"
// every ServiceType its ancestry declares.
func (f *ServiceTypeFactory) HasServiceType(st *ServiceType, name string) bool {
	seen := make(map[string]bool, maxInheritanceDepth)
	cur := st
	for depth := 0; cur != nil && depth < maxInheritanceDepth; depth++ {
		if cur.Name == name {
			return true
		}
		if seen[cur.Name] {
			return false // cycle in a corrupt file; stop rather than loop forever
		}
		seen[cur.Name] = true
		if cur.Parent == "" {
			return false
		}
		parent, err := f.FindByName(cur.Parent)
		if err != nil {
			return false
		}
		cur = parent
	}
	return false
}

// ServiceImplements reports whether svc, through any ServiceType it
// directly declares, implements name — either directly or via that
// ServiceType's parent chain. A Service declaring only "FakeDerivedPart"
// (whose Parent is "FakeBasePart") implements both.
func (f *ServiceTypeFactory) ServiceImplements(svc *Service, name string) bool {
	if svc.HasServiceType(name) {
		return true
	}
	for _, declared := range svc.ServiceTypes {
		st, err := f.FindByName(declared)
		if err != nil {
			continue
		}
		if f.HasServiceType(st, name) {
			return true
		}
	}
	return false
}
