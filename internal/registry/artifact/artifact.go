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

// Package artifact keeps plugin tarballs in a storage backend with an
// optional read cache in front of it.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/go-arcade/registry/pkg/cache"
	"github.com/go-arcade/registry/pkg/log"
	"github.com/go-arcade/registry/pkg/metrics"
	"github.com/go-arcade/registry/pkg/storage"
	"github.com/google/wire"
	"golang.org/x/sync/singleflight"
)

var ProviderSet = wire.NewSet(ProvideStore, wire.Bind(new(IStore), new(*Store)))

// IStore persists raw artifact bytes per plugin version.
type IStore interface {
	Write(ctx context.Context, name, version string, data []byte) error
	// Read returns empty bytes when the artifact does not exist.
	Read(ctx context.Context, name, version string) ([]byte, error)
	// Delete fails with storage.ErrObjectNotFound when nothing is stored.
	Delete(ctx context.Context, name, version string) error
}

type Store struct {
	backend storage.StorageProvider
	cache   cache.ICache
	ttl     time.Duration
	metrics *metrics.RegistryMetrics
	group   singleflight.Group
}

// ProvideStore 提供制品存储
func ProvideStore(backend storage.StorageProvider, c cache.ICache, conf cache.Config, m *metrics.RegistryMetrics) *Store {
	conf.SetDefaults()
	return NewStore(backend, c, conf.TTL, m)
}

// NewStore builds a Store. c and m may be nil.
func NewStore(backend storage.StorageProvider, c cache.ICache, ttl time.Duration, m *metrics.RegistryMetrics) *Store {
	if c == nil {
		c = cache.NopCache{}
	}
	return &Store{backend: backend, cache: c, ttl: ttl, metrics: m}
}

// Key is the object key of a plugin version tarball.
func Key(name, version string) string {
	return path.Join("plugins", name, version+".tar.gz")
}

func (s *Store) Write(ctx context.Context, name, version string, data []byte) error {
	key := Key(name, version)
	if err := s.backend.PutObject(ctx, key, data); err != nil {
		return fmt.Errorf("failed to write artifact %s: %w", key, err)
	}
	s.invalidate(ctx, key)
	s.metrics.ObserveArtifact("write", len(data))
	return nil
}

func (s *Store) Read(ctx context.Context, name, version string) ([]byte, error) {
	key := Key(name, version)
	if data, ok := s.cache.Get(ctx, key); ok {
		s.metrics.CacheLookup(true)
		s.metrics.ObserveArtifact("read", len(data))
		return data, nil
	}
	s.metrics.CacheLookup(false)

	v, err, _ := s.group.Do(key, func() (any, error) {
		data, err := s.backend.GetObject(ctx, key)
		if errors.Is(err, storage.ErrObjectNotFound) {
			return []byte{}, nil
		}
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
			log.Warnw("failed to cache artifact", "key", key, "error", err)
		}
		return data, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", key, err)
	}

	data := v.([]byte)
	s.metrics.ObserveArtifact("read", len(data))
	return data, nil
}

func (s *Store) Delete(ctx context.Context, name, version string) error {
	key := Key(name, version)
	if err := s.backend.DeleteObject(ctx, key); err != nil {
		return fmt.Errorf("failed to delete artifact %s: %w", key, err)
	}
	s.invalidate(ctx, key)
	return nil
}

func (s *Store) invalidate(ctx context.Context, key string) {
	if err := s.cache.Del(ctx, key); err != nil {
		log.Warnw("failed to invalidate artifact cache", "key", key, "error", err)
	}
}
