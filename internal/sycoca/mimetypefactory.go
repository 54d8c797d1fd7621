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

// MimeTypeFactory is the MimeType-kind Factory.
type MimeTypeFactory struct {
	*Factory
}

func NewMimeTypeFactory(f *Factory) *MimeTypeFactory {
	return &MimeTypeFactory{Factory: f}
}

func (f *MimeTypeFactory) FindByName(name string) (*MimeType, error) {
	h, err := f.Factory.FindByName(name)
	if err != nil {
		return nil, err
	}
	return asMimeType(h)
}

func asMimeType(h *Handle) (*MimeType, error) {
	m, ok := h.Entry().(*MimeType)
	if !ok {
		return nil, ErrCorruptEntry
	}
	return m, nil
}
