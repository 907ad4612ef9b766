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


package cache

import (
	"context"
	"fmt"
	"time"
)

// 缓存类型常量
const (
	ProviderNone   = "none"
	ProviderMemory = "memory"
	ProviderRedis  = "redis"
)

// ICache 定义缓存接口（抽象）
type ICache interface {
	// Get 获取缓存值，未命中时返回 false
	Get(ctx context.Context, key string) ([]byte, bool)
	// Set 设置缓存值，expiration 为 0 表示不过期
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error
	// Del 删除缓存
	Del(ctx context.Context, keys ...string) error
}

// Config 缓存配置
type Config struct {
	Provider string        `mapstructure:"provider"`
	MaxBytes int           `mapstructure:"maxBytes"`
	TTL      time.Duration `mapstructure:"ttl"`
	Prefix   string        `mapstructure:"prefix"`
	Redis    Redis         `mapstructure:"redis"`
}

// SetDefaults 设置默认值
func (c *Config) SetDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderMemory
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = defaultMaxBytes
	}
	if c.TTL <= 0 {
		c.TTL = 10 * time.Minute
	}
	if c.Prefix == "" {
		c.Prefix = "registry:"
	}
	c.Redis.SetDefaults()
}

// NewCache creates the cache selected by Provider. The returned cleanup
// releases backend connections.
func NewCache(conf Config) (ICache, func(), error) {
	conf.SetDefaults()
	switch conf.Provider {
	case ProviderNone:
		return NopCache{}, func() {}, nil
	case ProviderMemory:
		fc := NewFastCache(FastCacheConfig{MaxBytes: conf.MaxBytes})
		return fc, fc.Reset, nil
	case ProviderRedis:
		client, err := NewRedis(conf.Redis)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisCache(client, conf.Prefix), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported cache provider: %s", conf.Provider)
	}
}

// NopCache never stores anything.
type NopCache struct{}

func (NopCache) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (NopCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NopCache) Del(context.Context, ...string) error { return nil }
