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

// Package job holds the scheduled background work of the registry.
package job

import (
	"context"
	"fmt"
	"time"

	"github.com/go-arcade/registry/internal/registry/config"
	"github.com/go-arcade/registry/internal/registry/service"
	"github.com/go-arcade/registry/pkg/cron"
	"github.com/go-arcade/registry/pkg/log"
	"github.com/go-arcade/registry/pkg/metrics"
	"github.com/google/wire"
)

const StatsJobName = "registry_inventory"

// ProviderSet 提供定时任务相关的依赖
var ProviderSet = wire.NewSet(ProvideScheduler)

// InventorySource counts stored rows.
type InventorySource interface {
	Inventory(ctx context.Context) (plugins, versions, maintainers int64, err error)
}

// StatsJob refreshes the inventory gauges.
type StatsJob struct {
	source  InventorySource
	metrics *metrics.RegistryMetrics
}

func NewStatsJob(source InventorySource, m *metrics.RegistryMetrics) *StatsJob {
	return &StatsJob{source: source, metrics: m}
}

func (j *StatsJob) Run(ctx context.Context) error {
	plugins, versions, maintainers, err := j.source.Inventory(ctx)
	if err != nil {
		return fmt.Errorf("failed to count inventory: %w", err)
	}
	j.metrics.SetInventory(plugins, versions, maintainers)
	log.Debugw("inventory refreshed", "plugins", plugins, "versions", versions, "maintainers", maintainers)
	return nil
}

// ProvideScheduler 提供定时任务调度器, 调用方负责 Start/Stop
func ProvideScheduler(conf config.RegistryConfig, svc *service.RegistryService, rm *metrics.RegistryMetrics, cm *metrics.CronMetrics) (*cron.Cron, error) {
	conf.SetDefaults()
	scheduler := cron.New(cron.WithMetricsRecorder(cm), cron.WithJobTimeout(30*time.Second))
	if err := scheduler.AddFunc(conf.StatsCron, StatsJobName, NewStatsJob(svc, rm).Run); err != nil {
		return nil, fmt.Errorf("failed to schedule %s: %w", StatsJobName, err)
	}
	return scheduler, nil
}
