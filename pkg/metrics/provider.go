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

import "github.com/google/wire"

// ProviderSet 提供指标相关的依赖
var ProviderSet = wire.NewSet(ProvideRegistryMetrics, ProvideCronMetrics, ProvideMetricsServer)

// ProvideRegistryMetrics 提供注册中心业务指标
func ProvideRegistryMetrics() *RegistryMetrics {
	return NewRegistryMetrics()
}

// ProvideCronMetrics 提供定时任务指标
func ProvideCronMetrics() *CronMetrics {
	return NewCronMetrics()
}

// ProvideMetricsServer 提供指标服务器，并注册业务与定时任务指标
func ProvideMetricsServer(config MetricsConfig, rm *RegistryMetrics, cm *CronMetrics) (*Server, error) {
	server := NewServer(config)
	if err := server.RegisterCollector(rm); err != nil {
		return nil, err
	}
	if err := server.RegisterCollector(cm); err != nil {
		return nil, err
	}
	return server, nil
}
