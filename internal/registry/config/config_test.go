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
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-arcade/registry/pkg/database"
	"github.com/go-arcade/registry/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
http:
  port: 9100
database:
  driver: sqlite
  sqlite:
    path: /tmp/registry-test.db
storage:
  provider: local
  path: /srv/artifacts
registry:
  defaultPageSize: 20
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "registry.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func clearEnv(t *testing.T) {
	for _, envs := range envBindings {
		for _, env := range envs {
			t.Setenv(env, "")
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	conf, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", conf.Http.Host)
	assert.Equal(t, 8000, conf.Http.Port)
	assert.Equal(t, database.DriverSQLite, conf.Database.Driver)
	assert.Equal(t, "./database/app.db", conf.Database.SQLite.Path)
	assert.Equal(t, storage.StorageLocal, conf.Storage.Provider)
	assert.Equal(t, "./data", conf.Storage.Path)
	assert.Equal(t, 10, conf.Registry.DefaultPageSize)
	assert.Equal(t, 100, conf.Registry.MaxPageSize)
	assert.Equal(t, "@every 1m", conf.Registry.StatsCron)
	assert.Equal(t, "stdout", conf.Log.Output)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	conf, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, 9100, conf.Http.Port)
	assert.Equal(t, "/tmp/registry-test.db", conf.Database.SQLite.Path)
	assert.Equal(t, "/srv/artifacts", conf.Storage.Path)
	assert.Equal(t, 20, conf.Registry.DefaultPageSize)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DIRECTORY_PATH", "/env/data")
	t.Setenv("SQL_DATABASE_PATH", "/env/app.db")
	t.Setenv("PORT", "8123")
	t.Setenv("RUN_MIGRATIONS", "true")
	t.Setenv("REGISTRY_HTTP_HOST", "127.0.0.1")
	t.Setenv("HOST", "10.0.0.1")

	conf, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "/env/data", conf.Storage.Path)
	assert.Equal(t, "/env/app.db", conf.Database.SQLite.Path)
	assert.Equal(t, 8123, conf.Http.Port)
	assert.True(t, conf.Database.Migrate)
	assert.Equal(t, "127.0.0.1", conf.Http.Host)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "failed to read configuration file")
}

func TestRegistryConfig_SetDefaults(t *testing.T) {
	rc := RegistryConfig{DefaultPageSize: 50, MaxPageSize: 20}
	rc.SetDefaults()
	assert.Equal(t, 50, rc.MaxPageSize)
}

func TestLoadConfigFile_HotReload(t *testing.T) {
	clearEnv(t)
	p := writeConfig(t, sample)
	conf, err := LoadConfigFile(p)
	require.NoError(t, err)
	require.Equal(t, 20, conf.Registry.DefaultPageSize)

	var reloaded atomic.Int32
	OnChange(func(next AppConfig) {
		if next.Registry.DefaultPageSize == 30 {
			reloaded.Store(1)
		}
	})

	updated := "registry:\n  defaultPageSize: 30\n"
	require.NoError(t, os.WriteFile(p, []byte(updated), 0o644))

	require.Eventually(t, func() bool { return reloaded.Load() == 1 }, 5*time.Second, 50*time.Millisecond)
	assert.Equal(t, 30, Current().Registry.DefaultPageSize)
}

func TestSetCurrentSnapshotsListeners(t *testing.T) {
	mu.Lock()
	saved, savedConf := listeners, current
	listeners = nil
	mu.Unlock()
	t.Cleanup(func() {
		mu.Lock()
		listeners, current = saved, savedConf
		mu.Unlock()
	})

	var calls int
	OnChange(func(AppConfig) { calls++ })
	snapshot := setCurrent(AppConfig{Registry: RegistryConfig{DefaultPageSize: 7}})
	require.Len(t, snapshot, 1)
	assert.Equal(t, 7, Current().Registry.DefaultPageSize)

	snapshot[0] = nil
	OnChange(func(AppConfig) { calls++ })
	for _, fn := range setCurrent(AppConfig{}) {
		fn(AppConfig{})
	}
	assert.Equal(t, 2, calls)
}
