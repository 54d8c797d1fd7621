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

	"github.com/googlecloudplatform/sycoca/internal/constraint"
)

// ServiceFactory is the Service-kind Factory. It resolves the Offer lists
// embedded in ServiceType and MimeType records into materialized Service
// Handles, and implements the trader query.
type ServiceFactory struct {
	*Factory
}

func NewServiceFactory(f *Factory) *ServiceFactory {
	return &ServiceFactory{Factory: f}
}

func (f *ServiceFactory) FindByName(name string) (*Service, error) {
	h, err := f.Factory.FindByName(name)
	if err != nil {
		return nil, err
	}
	return asService(h)
}

func asService(h *Handle) (*Service, error) {
	s, ok := h.Entry().(*Service)
	if !ok {
		return nil, ErrCorruptEntry
	}
	return s, nil
}

// scoredOffer pairs a resolved Service with the Offer describing its
// preference for the capability being queried, plus its position in the
// source list (for the stable tie-break).
type scoredOffer struct {
	svc   *Service
	offer Offer
	index int
}

func (f *ServiceFactory) resolveOffers(offers []Offer) ([]scoredOffer, error) {
	out := make([]scoredOffer, 0, len(offers))
	for i, o := range offers {
		h, err := f.FindByOffset(o.ServiceOffset)
		if err != nil {
			return nil, err
		}
		svc, err := asService(h)
		if err != nil {
			return nil, err
		}
		out = append(out, scoredOffer{svc: svc, offer: o, index: i})
	}
	return out, nil
}

// sortOffers orders candidates: allow-as-default DESC, then
// initial-preference DESC, then insertion order.
func sortOffers(offers []scoredOffer) {
	sort.SliceStable(offers, func(i, j int) bool {
		a, b := offers[i], offers[j]
		if a.offer.AllowAsDefault != b.offer.AllowAsDefault {
			return a.offer.AllowAsDefault && !b.offer.AllowAsDefault
		}
		if a.offer.InitialPref != b.offer.InitialPref {
			return a.offer.InitialPref > b.offer.InitialPref
		}
		return a.index < b.index
	})
}

// OffersFor resolves a ServiceType's profiled Offers into Services,
// sorted but not yet constraint-filtered.
func (f *ServiceFactory) OffersFor(st *ServiceType) ([]*Service, error) {
	resolved, err := f.resolveOffers(st.Offers)
	if err != nil {
		return nil, err
	}
	sortOffers(resolved)
	return servicesOf(resolved), nil
}

// DefaultOffersFor resolves the un-profiled view: every claiming Service,
// including ones a user profile disabled for query() — defaultOffers(T)
// still includes a Service a profile has disabled.
func (f *ServiceFactory) DefaultOffersFor(st *ServiceType) ([]*Service, error) {
	resolved, err := f.resolveOffers(st.DefaultOffers)
	if err != nil {
		return nil, err
	}
	sortOffers(resolved)
	return servicesOf(resolved), nil
}

// OffersForMimeType resolves a MimeType's Offers the same way; MIME
// associations carry no profile overlay (only ServiceType-keyed profiles
// exist), so there is a single view.
func (f *ServiceFactory) OffersForMimeType(m *MimeType) ([]*Service, error) {
	resolved, err := f.resolveOffers(m.Offers)
	if err != nil {
		return nil, err
	}
	sortOffers(resolved)
	return servicesOf(resolved), nil
}

func servicesOf(resolved []scoredOffer) []*Service {
	out := make([]*Service, len(resolved))
	for i, r := range resolved {
		out[i] = r.svc
	}
	return out
}

// Query implements the trader query:
//  1. ServiceTypeFactory.FindByName(serviceType)
//  2. ServiceFactory.OffersFor(ST)
//  3. constraint-engine filter
//  4. stable sort (already applied by OffersFor)
//
// An unknown serviceType or a malformed constraintExpr both yield an
// empty, error-free result — a trader query never surfaces a lookup miss
// or a parse failure as an error to its caller, since both are routine
// "nothing matched" outcomes in this domain.
func (f *ServiceFactory) Query(serviceTypes *ServiceTypeFactory, serviceTypeName, constraintExpr string) ([]*Service, error) {
	st, err := serviceTypes.FindByName(serviceTypeName)
	if err != nil {
		return nil, nil
	}

	candidates, err := f.OffersFor(st)
	if err != nil {
		return nil, err
	}

	expr, err := constraint.Parse(constraintExpr)
	if err != nil {
		return nil, nil
	}

	filtered := make([]*Service, 0, len(candidates))
	for _, svc := range candidates {
		if constraint.Eval(expr, constraint.Properties(svc.Properties)) {
			filtered = append(filtered, svc)
		}
	}
	return filtered, nil
}
