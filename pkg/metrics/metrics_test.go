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
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryMetrics(t *testing.T) {
	m := NewRegistryMetrics()
	m.ObserveOperation("publish_version", ResultOK)
	m.ObserveOperation("publish_version", ResultOK)
	m.ObserveOperation("publish_version", "forbidden")
	m.AuthDenied("bad_signature")
	m.CacheLookup(true)
	m.CacheLookup(false)
	m.SetInventory(3, 7, 2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("publish_version", ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("publish_version", "forbidden")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.authDenials.WithLabelValues("bad_signature")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.inventory.WithLabelValues("versions")))
}

func TestNilRegistryMetrics(t *testing.T) {
	var m *RegistryMetrics
	assert.NotPanics(t, func() {
		m.ObserveOperation("x", ResultOK)
		m.AuthDenied("x")
		m.ObserveArtifact("write", 10)
		m.CacheLookup(true)
		m.SetInventory(1, 1, 1)
	})
}

func TestCronMetrics(t *testing.T) {
	m := NewCronMetrics()
	m.RecordJobRun("stats", 10*time.Millisecond, nil)
	m.RecordJobRun("stats", 10*time.Millisecond, errors.New("boom"))
	m.UpdateJobsCount(1)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.runs.WithLabelValues("stats")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("stats")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobs))
}

func TestServerExposesRegisteredCollectors(t *testing.T) {
	server, err := ProvideMetricsServer(MetricsConfig{}, NewRegistryMetrics(), NewCronMetrics())
	require.NoError(t, err)

	rm := NewRegistryMetrics()
	assert.Error(t, server.RegisterCollector(rm), "duplicate descriptors are rejected")

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "go_goroutines"))

	// disabled server does not listen
	require.NoError(t, server.Start())
}
