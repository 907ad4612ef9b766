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

package job

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-arcade/registry/internal/registry/artifact"
	"github.com/go-arcade/registry/internal/registry/auth"
	"github.com/go-arcade/registry/internal/registry/config"
	"github.com/go-arcade/registry/internal/registry/registrytest"
	"github.com/go-arcade/registry/internal/registry/service"
	"github.com/go-arcade/registry/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticInventory struct {
	plugins, versions, maintainers int64
	err                            error
}

func (s staticInventory) Inventory(context.Context) (int64, int64, int64, error) {
	return s.plugins, s.versions, s.maintainers, s.err
}

func TestStatsJob_UpdatesGauges(t *testing.T) {
	m := metrics.NewRegistryMetrics()
	job := NewStatsJob(staticInventory{plugins: 3, versions: 7, maintainers: 2}, m)
	require.NoError(t, job.Run(context.Background()))

	assert.Equal(t, float64(3), gauge(t, m, "plugins"))
	assert.Equal(t, float64(7), gauge(t, m, "versions"))
	assert.Equal(t, float64(2), gauge(t, m, "maintainers"))
}

func TestStatsJob_Error(t *testing.T) {
	job := NewStatsJob(staticInventory{err: errors.New("db down")}, nil)
	require.ErrorContains(t, job.Run(context.Background()), "db down")
}

func TestStatsJob_AgainstService(t *testing.T) {
	store := artifact.NewStore(registrytest.NewStorage(t), nil, time.Minute, nil)
	svc := service.NewRegistryService(registrytest.NewDB(t), store, config.RegistryConfig{}, nil)
	k1, _, _ := registrytest.Signers(t)
	require.NoError(t, svc.CreatePlugin(context.Background(), service.CreatePluginRequest{
		Name:        "widget",
		Credentials: auth.Credentials{PublicKey: k1.AuthorizedKey()},
	}))

	m := metrics.NewRegistryMetrics()
	require.NoError(t, NewStatsJob(svc, m).Run(context.Background()))
	assert.Equal(t, float64(1), gauge(t, m, "plugins"))
	assert.Equal(t, float64(0), gauge(t, m, "versions"))
	assert.Equal(t, float64(1), gauge(t, m, "maintainers"))
}

func TestProvideScheduler(t *testing.T) {
	scheduler, err := ProvideScheduler(config.RegistryConfig{}, nil, nil, metrics.NewCronMetrics())
	require.NoError(t, err)
	entries := scheduler.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, StatsJobName, entries[0].Name)
	assert.Equal(t, "@every 1m", entries[0].Spec)

	_, err = ProvideScheduler(config.RegistryConfig{StatsCron: "not a spec"}, nil, nil, metrics.NewCronMetrics())
	require.Error(t, err)
}

func gauge(t *testing.T, m *metrics.RegistryMetrics, entity string) float64 {
	t.Helper()
	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(m))
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != "registry_inventory" {
			continue
		}
		for _, metric := range f.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "entity" && label.GetValue() == entity {
					return metric.GetGauge().GetValue()
				}
			}
		}
	}
	t.Fatalf("gauge for %s not found", entity)
	return 0
}
