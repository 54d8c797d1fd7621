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

package builder

import "github.com/googlecloudplatform/sycoca/internal/codec"

// rawService is a Service as read from one desktop-entry file, before
// ServiceType-inheritance resolution and offer computation.
type rawService struct {
	relPath     string
	name        string
	storageID   string
	menuID      string
	displayName string
	exec        string
	mimeTypes   []string
	serviceTypes []string
	formFactors []string
	dbusActivation string
	initialPref int
	allowAsDefault bool
	hidden      bool
	properties  map[string]codec.Variant
}

// rawServiceType is a ServiceType as read from one desktop-entry file,
// before parent-chain validation.
type rawServiceType struct {
	relPath string
	name    string
	parent  string
	schema  map[string]string // property name -> declared scalar type name
}
