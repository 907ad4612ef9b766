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

package client

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/go-arcade/registry/internal/registry/artifact"
	"github.com/go-arcade/registry/internal/registry/config"
	"github.com/go-arcade/registry/internal/registry/registrytest"
	"github.com/go-arcade/registry/internal/registry/router"
	"github.com/go-arcade/registry/internal/registry/service"
	"github.com/go-arcade/registry/pkg/cache"
	httpx "github.com/go-arcade/registry/pkg/http"
	"github.com/go-arcade/registry/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serve starts the registry on a loopback port and returns its base url.
func serve(t *testing.T) string {
	t.Helper()
	store := artifact.NewStore(registrytest.NewStorage(t), cache.NewFastCache(cache.FastCacheConfig{}), time.Minute, nil)
	svc := service.NewRegistryService(registrytest.NewDB(t), store, config.RegistryConfig{}, metrics.NewRegistryMetrics())
	conf := &httpx.Http{}
	conf.SetDefaults()
	app := router.NewRouter(conf, svc).Router()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })
	return "http://" + ln.Addr().String()
}

func TestClientLifecycle(t *testing.T) {
	ctx := context.Background()
	url := serve(t)
	alice, bob, _ := registrytest.Signers(t)
	ac := New(url, alice, WithTimeout(10*time.Second))
	bc := New(url, bob)

	require.NoError(t, ac.CreatePlugin(ctx, "Widget", "alice@example.com"))

	got, err := ac.GetPlugin(ctx, "widget")
	require.NoError(t, err)
	assert.Equal(t, "widget", got.Name)
	assert.Nil(t, got.LatestVersion)
	assert.Equal(t, []string{"alice@example.com"}, got.Maintainers)

	latest, err := ac.LatestVersion(ctx, "widget")
	require.NoError(t, err)
	assert.Nil(t, latest)

	tarball := []byte("\x1f\x8b fake tarball bytes")
	require.NoError(t, ac.PublishVersion(ctx, "widget", "1.0.0", tarball))

	v, err := ac.GetVersion(ctx, "widget", "1.0.0")
	require.NoError(t, err)
	data, err := DecodeFile(v)
	require.NoError(t, err)
	assert.Equal(t, tarball, data)

	versions, err := bc.ListVersions(ctx, "widget")
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Nil(t, versions[0].File)

	err = bc.PublishVersion(ctx, "widget", "2.0.0", tarball)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, StatusCode(err))

	created, err := ac.AddMaintainer(ctx, "widget", bob.AuthorizedKey(), nil)
	require.NoError(t, err)
	assert.True(t, created)
	created, err = ac.AddMaintainer(ctx, "widget", bob.AuthorizedKey(), nil)
	require.NoError(t, err)
	assert.False(t, created)

	maintainers, err := bc.ListMaintainers(ctx, "widget")
	require.NoError(t, err)
	assert.Len(t, maintainers, 2)

	require.NoError(t, bc.DeleteVersion(ctx, "widget", "1.0.0"))
	require.NoError(t, bc.DeletePlugin(ctx, "widget"))

	_, err = ac.GetPlugin(ctx, "widget")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.NotEmpty(t, apiErr.Detail)
}

func TestClientListPluginsPaging(t *testing.T) {
	ctx := context.Background()
	url := serve(t)
	alice, _, _ := registrytest.Signers(t)
	c := New(url, alice)

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, c.CreatePlugin(ctx, name, ""))
	}
	page, err := c.ListPlugins(ctx, 1, 2)
	require.NoError(t, err)
	assert.Len(t, page, 2)
	page, err = c.ListPlugins(ctx, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page, 1)
	page, err = c.ListPlugins(ctx, 5, 2)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestClientWithoutSigner(t *testing.T) {
	c := New(serve(t), nil)
	err := c.CreatePlugin(context.Background(), "widget", "")
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, StatusCode(err))
}

func TestClientTransportError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	url := "http://" + ln.Addr().String()
	require.NoError(t, ln.Close())

	_, err = New(url, nil, WithTimeout(time.Second)).ListPlugins(context.Background(), 0, 0)
	require.Error(t, err)
	assert.Zero(t, StatusCode(err))
	assert.Contains(t, err.Error(), "failed to list plugins")
}

func TestDecodeFileWithoutArtifact(t *testing.T) {
	_, err := DecodeFile(nil)
	require.Error(t, err)
}
