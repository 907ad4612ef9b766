// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "registry"

// Operation results
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// RegistryMetrics holds the plugin registry collectors. A nil receiver is valid
// and records nothing.
type RegistryMetrics struct {
	operations    *prometheus.CounterVec
	authDenials   *prometheus.CounterVec
	artifactBytes *prometheus.HistogramVec
	cacheLookups  *prometheus.CounterVec
	inventory     *prometheus.GaugeVec
}

// NewRegistryMetrics creates the registry collectors
func NewRegistryMetrics() *RegistryMetrics {
	return &RegistryMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Registry use cases by operation and result kind",
		}, []string{"operation", "result"}),
		authDenials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_denials_total",
			Help:      "Rejected mutating requests by reason",
		}, []string{"reason"}),
		artifactBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "artifact_bytes",
			Help:      "Size of artifacts written and read",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 10), // 1KB to 256MB
		}, []string{"direction"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifact_cache_lookups_total",
			Help:      "Artifact cache lookups by outcome",
		}, []string{"outcome"}),
		inventory: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "inventory",
			Help:      "Number of stored rows per entity",
		}, []string{"entity"}),
	}
}

// Describe implements prometheus.Collector
func (m *RegistryMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.operations.Describe(ch)
	m.authDenials.Describe(ch)
	m.artifactBytes.Describe(ch)
	m.cacheLookups.Describe(ch)
	m.inventory.Describe(ch)
}

// Collect implements prometheus.Collector
func (m *RegistryMetrics) Collect(ch chan<- prometheus.Metric) {
	m.operations.Collect(ch)
	m.authDenials.Collect(ch)
	m.artifactBytes.Collect(ch)
	m.cacheLookups.Collect(ch)
	m.inventory.Collect(ch)
}

// ObserveOperation counts one finished use case
func (m *RegistryMetrics) ObserveOperation(operation, result string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, result).Inc()
}

// AuthDenied counts one rejected request
func (m *RegistryMetrics) AuthDenied(reason string) {
	if m == nil {
		return
	}
	m.authDenials.WithLabelValues(reason).Inc()
}

// ObserveArtifact records the size of an artifact moving in direction "write" or "read"
func (m *RegistryMetrics) ObserveArtifact(direction string, size int) {
	if m == nil {
		return
	}
	m.artifactBytes.WithLabelValues(direction).Observe(float64(size))
}

// CacheLookup counts an artifact cache hit or miss
func (m *RegistryMetrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.cacheLookups.WithLabelValues(outcome).Inc()
}

// SetInventory updates the row count gauges
func (m *RegistryMetrics) SetInventory(plugins, versions, maintainers int64) {
	if m == nil {
		return
	}
	m.inventory.WithLabelValues("plugins").Set(float64(plugins))
	m.inventory.WithLabelValues("versions").Set(float64(versions))
	m.inventory.WithLabelValues("maintainers").Set(float64(maintainers))
}
