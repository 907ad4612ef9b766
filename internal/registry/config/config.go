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
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-arcade/registry/pkg/cache"
	"github.com/go-arcade/registry/pkg/database"
	"github.com/go-arcade/registry/pkg/http"
	"github.com/go-arcade/registry/pkg/log"
	"github.com/go-arcade/registry/pkg/metrics"
	"github.com/go-arcade/registry/pkg/storage"
	"github.com/go-arcade/registry/pkg/trace"
	"github.com/spf13/viper"
)

const envPrefix = "REGISTRY"

// RegistryConfig 注册中心业务配置
type RegistryConfig struct {
	DefaultPageSize int    `mapstructure:"defaultPageSize"`
	MaxPageSize     int    `mapstructure:"maxPageSize"`
	StatsCron       string `mapstructure:"statsCron"`
}

// SetDefaults 设置默认值
func (r *RegistryConfig) SetDefaults() {
	if r.DefaultPageSize <= 0 {
		r.DefaultPageSize = 10
	}
	if r.MaxPageSize <= 0 {
		r.MaxPageSize = 100
	}
	if r.MaxPageSize < r.DefaultPageSize {
		r.MaxPageSize = r.DefaultPageSize
	}
	if r.StatsCron == "" {
		r.StatsCron = "@every 1m"
	}
}

type AppConfig struct {
	Log      log.Conf              `mapstructure:"log"`
	Http     http.Http             `mapstructure:"http"`
	Database database.Database     `mapstructure:"database"`
	Storage  storage.Storage       `mapstructure:"storage"`
	Cache    cache.Config          `mapstructure:"cache"`
	Metrics  metrics.MetricsConfig `mapstructure:"metrics"`
	Trace    trace.TraceConfig     `mapstructure:"trace"`
	Registry RegistryConfig        `mapstructure:"registry"`
}

// SetDefaults fills every section.
func (c *AppConfig) SetDefaults() {
	defaults := log.SetDefaults()
	if c.Log.Output == "" {
		c.Log.Output = defaults.Output
	}
	if c.Log.Path == "" {
		c.Log.Path = defaults.Path
	}
	if c.Log.Filename == "" {
		c.Log.Filename = defaults.Filename
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Level
	}
	c.Http.SetDefaults()
	c.Database.SetDefaults()
	c.Storage.SetDefaults()
	c.Cache.SetDefaults()
	c.Metrics.SetDefaults()
	c.Trace.SetDefaults()
	c.Registry.SetDefaults()
}

// envBindings maps config keys to the environment variables that override
// them, in priority order.
var envBindings = map[string][]string{
	"storage.provider":     {"REGISTRY_STORAGE_PROVIDER"},
	"storage.path":         {"REGISTRY_STORAGE_PATH", "DIRECTORY_PATH"},
	"database.driver":      {"REGISTRY_DATABASE_DRIVER"},
	"database.sqlite.path": {"REGISTRY_DATABASE_SQLITE_PATH", "SQL_DATABASE_PATH"},
	"database.migrate":     {"REGISTRY_DATABASE_MIGRATE", "RUN_MIGRATIONS"},
	"http.host":            {"REGISTRY_HTTP_HOST", "HOST"},
	"http.port":            {"REGISTRY_HTTP_PORT", "PORT"},
	"log.level":            {"REGISTRY_LOG_LEVEL"},
	"cache.provider":       {"REGISTRY_CACHE_PROVIDER"},
	"metrics.enable":       {"REGISTRY_METRICS_ENABLE"},
	"trace.enabled":        {"REGISTRY_TRACE_ENABLED"},
}

var (
	cfg  AppConfig
	once sync.Once

	mu        sync.RWMutex
	current   AppConfig
	listeners []func(AppConfig)
)

// NewConf loads the configuration once. An empty path uses defaults and
// the environment only.
func NewConf(confDir string) *AppConfig {
	once.Do(func() {
		var err error
		cfg, err = LoadConfigFile(confDir)
		if err != nil {
			panic(fmt.Sprintf("load config file error: %s", err))
		}
	})
	return &cfg
}

// Current returns the latest configuration, including hot reloads.
func Current() AppConfig {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// OnChange registers fn to run after every successful reload.
func OnChange(fn func(AppConfig)) {
	mu.Lock()
	defer mu.Unlock()
	listeners = append(listeners, fn)
}

// LoadConfigFile load config file and watch it for changes
func LoadConfigFile(confDir string) (AppConfig, error) {
	v, conf, err := load(confDir)
	if err != nil {
		return conf, err
	}
	setCurrent(conf)

	if confDir != "" {
		v.OnConfigChange(func(e fsnotify.Event) {
			log.Infow("configuration changed, reloading", "path", e.Name)
			next, err := decode(v)
			if err != nil {
				log.Errorw("failed to reload configuration", "path", e.Name, "error", err)
				return
			}
			for _, fn := range setCurrent(next) {
				fn(next)
			}
		})
		v.WatchConfig()
	}

	log.Infow("config file loaded", "path", confDir)
	return conf, nil
}

// Load reads the configuration without watching it.
func Load(confDir string) (AppConfig, error) {
	_, conf, err := load(confDir)
	return conf, err
}

func load(confDir string) (*viper.Viper, AppConfig, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, AppConfig{}, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if confDir != "" {
		v.SetConfigFile(confDir)
		if err := v.ReadInConfig(); err != nil {
			return nil, AppConfig{}, fmt.Errorf("failed to read configuration file: %w", err)
		}
	}

	conf, err := decode(v)
	return v, conf, err
}

func decode(v *viper.Viper) (AppConfig, error) {
	var conf AppConfig
	if err := v.Unmarshal(&conf); err != nil {
		return conf, fmt.Errorf("failed to unmarshal configuration file: %w", err)
	}
	conf.SetDefaults()
	return conf, nil
}

func setCurrent(conf AppConfig) []func(AppConfig) {
	mu.Lock()
	defer mu.Unlock()
	current = conf
	return slices.Clone(listeners)
}
