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

package config

import (
	"github.com/go-arcade/registry/pkg/cache"
	"github.com/go-arcade/registry/pkg/database"
	"github.com/go-arcade/registry/pkg/http"
	"github.com/go-arcade/registry/pkg/log"
	"github.com/go-arcade/registry/pkg/metrics"
	"github.com/go-arcade/registry/pkg/storage"
	"github.com/go-arcade/registry/pkg/trace"
	"github.com/google/wire"
)

// ProviderSet 提供配置层相关的依赖
var ProviderSet = wire.NewSet(
	ProvideConf,
	ProvideHttpConfig,
	ProvideLogConfig,
	ProvideDatabaseConfig,
	ProvideStorageConfig,
	ProvideCacheConfig,
	ProvideMetricsConfig,
	ProvideTraceConfig,
	ProvideRegistryConfig,
)

// ProvideConf 提供应用配置
func ProvideConf(configPath string) *AppConfig {
	return NewConf(configPath)
}

// ProvideHttpConfig 提供 HTTP 配置
func ProvideHttpConfig(appConf *AppConfig) *http.Http {
	return &appConf.Http
}

// ProvideLogConfig 提供日志配置
func ProvideLogConfig(appConf *AppConfig) *log.Conf {
	return &appConf.Log
}

// ProvideDatabaseConfig 提供数据库配置
func ProvideDatabaseConfig(appConf *AppConfig) database.Database {
	return appConf.Database
}

// ProvideStorageConfig 提供制品存储配置
func ProvideStorageConfig(appConf *AppConfig) storage.Storage {
	return appConf.Storage
}

// ProvideCacheConfig 提供缓存配置
func ProvideCacheConfig(appConf *AppConfig) cache.Config {
	return appConf.Cache
}

// ProvideMetricsConfig 提供 Metrics 配置
func ProvideMetricsConfig(appConf *AppConfig) metrics.MetricsConfig {
	return appConf.Metrics
}

// ProvideTraceConfig 提供链路追踪配置
func ProvideTraceConfig(appConf *AppConfig) trace.TraceConfig {
	return appConf.Trace
}

// ProvideRegistryConfig 提供注册中心业务配置
func ProvideRegistryConfig(appConf *AppConfig) RegistryConfig {
	return appConf.Registry
}
