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
	"crypto/tls"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-arcade/registry/pkg/log"
	"github.com/redis/go-redis/v9"
)

type Redis struct {
	Mode             string `mapstructure:"mode"`
	Address          string `mapstructure:"address"`
	Password         string `mapstructure:"password"`
	DB               int    `mapstructure:"db"`
	PoolSize         int    `mapstructure:"poolSize"`
	UseTLS           bool   `mapstructure:"useTLS"`
	MasterName       string `mapstructure:"masterName"`
	SentinelUsername string `mapstructure:"sentinelUsername"`
	SentinelPassword string `mapstructure:"sentinelPassword"`
	DialTimeout      int    `mapstructure:"dialTimeout"`  // 连接超时（秒）
	ReadTimeout      int    `mapstructure:"readTimeout"`  // 读超时（秒）
	WriteTimeout     int    `mapstructure:"writeTimeout"` // 写超时（秒）
}

// SetDefaults 设置默认值
func (r *Redis) SetDefaults() {
	if r.Mode == "" {
		r.Mode = "single"
	}
	if r.Address == "" {
		r.Address = "127.0.0.1:6379"
	}
	if r.PoolSize <= 0 {
		r.PoolSize = 10
	}
	if r.DialTimeout <= 0 {
		r.DialTimeout = 5
	}
	if r.ReadTimeout <= 0 {
		r.ReadTimeout = 3
	}
	if r.WriteTimeout <= 0 {
		r.WriteTimeout = 3
	}
}

func NewRedis(cfg Redis) (*redis.Client, error) {
	cfg.SetDefaults()

	var redisClient *redis.Client
	switch cfg.Mode {
	case "single":
		redisOptions := &redis.Options{
			Addr:         cfg.Address,
			Password:     cfg.Password,
			DB:           cfg.DB,
			PoolSize:     cfg.PoolSize,
			DialTimeout:  time.Duration(cfg.DialTimeout) * time.Second,
			ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
			WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		}
		if cfg.UseTLS {
			redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient = redis.NewClient(redisOptions)
	case "sentinel":
		redisOptions := &redis.FailoverOptions{
			MasterName:       cfg.MasterName,
			SentinelAddrs:    strings.Split(cfg.Address, ","),
			Password:         cfg.Password,
			DB:               cfg.DB,
			PoolSize:         cfg.PoolSize,
			SentinelUsername: cfg.SentinelUsername,
			SentinelPassword: cfg.SentinelPassword,
			DialTimeout:      time.Duration(cfg.DialTimeout) * time.Second,
			ReadTimeout:      time.Duration(cfg.ReadTimeout) * time.Second,
			WriteTimeout:     time.Duration(cfg.WriteTimeout) * time.Second,
		}
		if cfg.UseTLS {
			redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient = redis.NewFailoverClient(redisOptions)
	default:
		log.Errorw("failed to init redis, redis type is illegal", "mode", cfg.Mode)
		return nil, fmt.Errorf("unsupported redis mode: %s", cfg.Mode)
	}

	err := redisClient.Ping(context.Background()).Err()
	if err != nil {
		log.Errorw("failed to connect redis", "error", err)
		_ = redisClient.Close()
		return nil, err
	}

	log.Infow("redis connected",
		"mode", cfg.Mode,
	)

	return redisClient, nil
}

// RedisCache Redis 缓存实现
type RedisCache struct {
	client redis.Cmdable
	prefix string
}

// NewRedisCache 创建 Redis 缓存实例
func NewRedisCache(client redis.Cmdable, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

// Get 获取缓存值，Redis 出错时按未命中处理
func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warnw("redis cache get failed", "key", key, "error", err)
		}
		return nil, false
	}
	return value, true
}

// Set 设置缓存值
func (r *RedisCache) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	return r.client.Set(ctx, r.prefix+key, value, expiration).Err()
}

// Del 删除缓存
func (r *RedisCache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.prefix + k
	}
	return r.client.Del(ctx, full...).Err()
}
