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

package artifact

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-arcade/registry/internal/registry/registrytest"
	"github.com/go-arcade/registry/pkg/cache"
	"github.com/go-arcade/registry/pkg/metrics"
	"github.com/go-arcade/registry/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingBackend struct {
	storage.StorageProvider
	gets atomic.Int32
}

func (b *countingBackend) GetObject(ctx context.Context, key string) ([]byte, error) {
	b.gets.Add(1)
	return b.StorageProvider.GetObject(ctx, key)
}

type failingBackend struct {
	storage.StorageProvider
}

func (failingBackend) PutObject(context.Context, string, []byte) error {
	return errors.New("disk full")
}

func newTestStore(t *testing.T) (*Store, *countingBackend) {
	backend := &countingBackend{StorageProvider: registrytest.NewStorage(t)}
	c := cache.NewFastCache(cache.FastCacheConfig{})
	return NewStore(backend, c, time.Minute, metrics.NewRegistryMetrics()), backend
}

func TestKey(t *testing.T) {
	assert.Equal(t, "plugins/widget/1.0.0.tar.gz", Key("widget", "1.0.0"))
}

func TestStore_RoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "widget", "1.0.0", []byte("tarball")))
	data, err := store.Read(ctx, "widget", "1.0.0")
	require.NoError(t, err)
	assert.Equal(t, []byte("tarball"), data)

	require.NoError(t, store.Delete(ctx, "widget", "1.0.0"))
	data, err = store.Read(ctx, "widget", "1.0.0")
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestStore_MissingArtifact(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	data, err := store.Read(ctx, "widget", "9.9.9")
	require.NoError(t, err)
	assert.NotNil(t, data)
	assert.Empty(t, data)

	err = store.Delete(ctx, "widget", "9.9.9")
	require.ErrorIs(t, err, storage.ErrObjectNotFound)
}

func TestStore_ReadsAreCached(t *testing.T) {
	store, backend := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "widget", "1.0.0", []byte("v1")))
	for i := 0; i < 3; i++ {
		data, err := store.Read(ctx, "widget", "1.0.0")
		require.NoError(t, err)
		assert.Equal(t, []byte("v1"), data)
	}
	assert.Equal(t, int32(1), backend.gets.Load())

	require.NoError(t, store.Write(ctx, "widget", "1.0.0", []byte("v2")))
	data, err := store.Read(ctx, "widget", "1.0.0")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), data)
	assert.Equal(t, int32(2), backend.gets.Load())
}

func TestStore_WriteFailure(t *testing.T) {
	store := NewStore(failingBackend{StorageProvider: registrytest.NewStorage(t)}, nil, time.Minute, nil)
	err := store.Write(context.Background(), "widget", "1.0.0", []byte("x"))
	require.ErrorContains(t, err, "disk full")
}
