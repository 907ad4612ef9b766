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
	"sync"
	"time"

	"github.com/VictoriaMetrics/fastcache"
)

// defaultMaxBytes is the default cache size (32MB)
const defaultMaxBytes = 32 * 1024 * 1024

// FastCacheConfig holds fastcache configuration
type FastCacheConfig struct {
	MaxBytes int // Maximum bytes for fastcache, default 32MB
}

// FastCache is a local cache implementation using VictoriaMetrics fastcache.
// Values are stored with SetBig so artifacts larger than 64KB fit.
type FastCache struct {
	cache *fastcache.Cache
	ttls  sync.Map // map[string]time.Time for tracking expiration
	now   func() time.Time
}

// NewFastCache creates a new FastCache instance
func NewFastCache(conf FastCacheConfig) *FastCache {
	maxBytes := conf.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}

	return &FastCache{
		cache: fastcache.New(maxBytes),
		now:   time.Now,
	}
}

// Get returns the value for the given key
func (fc *FastCache) Get(_ context.Context, key string) ([]byte, bool) {
	if exp, ok := fc.ttls.Load(key); ok && fc.now().After(exp.(time.Time)) {
		fc.cache.Del([]byte(key))
		fc.ttls.Delete(key)
		return nil, false
	}

	value := fc.cache.GetBig(nil, []byte(key))
	if value == nil {
		return nil, false
	}
	return value, true
}

// Set sets the value for the given key with expiration
func (fc *FastCache) Set(_ context.Context, key string, value []byte, expiration time.Duration) error {
	fc.cache.SetBig([]byte(key), value)
	if expiration > 0 {
		fc.ttls.Store(key, fc.now().Add(expiration))
	} else {
		fc.ttls.Delete(key)
	}
	return nil
}

// Del deletes the given keys
func (fc *FastCache) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		fc.cache.Del([]byte(key))
		fc.ttls.Delete(key)
	}
	return nil
}

// Reset clears all entries.
func (fc *FastCache) Reset() {
	fc.cache.Reset()
	fc.ttls.Range(func(k, _ any) bool {
		fc.ttls.Delete(k)
		return true
	})
}

// Stats returns the fastcache counters.
func (fc *FastCache) Stats() fastcache.Stats {
	var s fastcache.Stats
	fc.cache.UpdateStats(&s)
	return s
}
