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
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFastCache_Set_Get(t *testing.T) {
	cache := NewFastCache(FastCacheConfig{MaxBytes: 1024 * 1024})
	defer cache.Reset()

	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "test_key", []byte("test_value"), time.Hour))

	got, ok := cache.Get(ctx, "test_key")
	require.True(t, ok)
	assert.Equal(t, []byte("test_value"), got)

	_, ok = cache.Get(ctx, "missing")
	assert.False(t, ok)
}

func TestFastCache_BigValue(t *testing.T) {
	cache := NewFastCache(FastCacheConfig{MaxBytes: 32 * 1024 * 1024})
	defer cache.Reset()

	ctx := context.Background()
	big := bytes.Repeat([]byte("tarball!"), 64*1024) // 512KB
	require.NoError(t, cache.Set(ctx, "big", big, 0))

	got, ok := cache.Get(ctx, "big")
	require.True(t, ok)
	assert.Equal(t, big, got)
}

func TestFastCache_Expiration(t *testing.T) {
	cache := NewFastCache(FastCacheConfig{MaxBytes: 1024 * 1024})
	defer cache.Reset()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "expire_key", []byte("v"), time.Minute))

	_, ok := cache.Get(ctx, "expire_key")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = cache.Get(ctx, "expire_key")
	assert.False(t, ok, "expired key must miss")
}

func TestFastCache_Del(t *testing.T) {
	cache := NewFastCache(FastCacheConfig{MaxBytes: 1024 * 1024})
	defer cache.Reset()

	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "k1", []byte("a"), 0))
	require.NoError(t, cache.Set(ctx, "k2", []byte("b"), 0))
	require.NoError(t, cache.Del(ctx, "k1", "k2", "absent"))

	_, ok := cache.Get(ctx, "k1")
	assert.False(t, ok)
	_, ok = cache.Get(ctx, "k2")
	assert.False(t, ok)
}

func TestNewCache(t *testing.T) {
	c, cleanup, err := NewCache(Config{Provider: ProviderNone})
	require.NoError(t, err)
	defer cleanup()
	require.NoError(t, c.Set(context.Background(), "k", []byte("v"), 0))
	_, ok := c.Get(context.Background(), "k")
	assert.False(t, ok, "nop cache never hits")

	c, cleanup, err = NewCache(Config{})
	require.NoError(t, err)
	defer cleanup()
	assert.IsType(t, &FastCache{}, c)

	_, _, err = NewCache(Config{Provider: "memcached"})
	assert.Error(t, err)
}

func TestNewRedisRejectsUnknownMode(t *testing.T) {
	_, err := NewRedis(Redis{Mode: "cluster-ish"})
	assert.Error(t, err)
}

func TestConfigSetDefaults(t *testing.T) {
	var c Config
	c.SetDefaults()
	assert.Equal(t, ProviderMemory, c.Provider)
	assert.Equal(t, defaultMaxBytes, c.MaxBytes)
	assert.Equal(t, 10*time.Minute, c.TTL)
	assert.Equal(t, "single", c.Redis.Mode)
	assert.Equal(t, "127.0.0.1:6379", c.Redis.Address)
}
