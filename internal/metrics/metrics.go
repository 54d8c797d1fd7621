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

// Package metrics is the ambient observability layer: a handful of
// prometheus counters/histograms for the builder and reader, registered
// against a private registry so importing this package never collides
// with a host process's own default registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles every counter/histogram the builder and reader record
// against. A zero Metrics is not usable; construct with New.
type Metrics struct {
	registry *prometheus.Registry

	BuildDuration   prometheus.Histogram
	BuildFailures   prometheus.Counter
	ReadLatency     *prometheus.HistogramVec
	CacheHits       prometheus.Counter
	CacheMisses     prometheus.Counter
	StalenessChecks prometheus.Counter
	Rebuilds        prometheus.Counter
}

// New constructs a Metrics with every collector registered.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sycoca",
			Subsystem: "builder",
			Name:      "build_duration_seconds",
			Help:      "Time taken to rebuild the binary cache file.",
			Buckets:   prometheus.DefBuckets,
		}),
		BuildFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sycoca",
			Subsystem: "builder",
			Name:      "build_failures_total",
			Help:      "Rebuilds that failed with a BuildFailure error.",
		}),
		ReadLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sycoca",
			Subsystem: "reader",
			Name:      "query_latency_seconds",
			Help:      "Latency of factory lookups, by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sycoca",
			Subsystem: "reader",
			Name:      "entry_cache_hits_total",
			Help:      "Factory materialized-entry cache hits.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sycoca",
			Subsystem: "reader",
			Name:      "entry_cache_misses_total",
			Help:      "Factory materialized-entry cache misses.",
		}),
		StalenessChecks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sycoca",
			Subsystem: "reader",
			Name:      "staleness_checks_total",
			Help:      "Calls to EnsureValid that passed the throttle.",
		}),
		Rebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sycoca",
			Subsystem: "reader",
			Name:      "triggered_rebuilds_total",
			Help:      "Rebuilds triggered by a stale or corrupt Reader.",
		}),
	}

	reg.MustRegister(
		m.BuildDuration, m.BuildFailures, m.ReadLatency,
		m.CacheHits, m.CacheMisses, m.StalenessChecks, m.Rebuilds,
	)
	return m
}

// Handler exposes the registry in the standard Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
