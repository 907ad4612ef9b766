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


package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocal(t *testing.T) (StorageProvider, string) {
	t.Helper()
	root := t.TempDir()
	p, err := NewStorage(&Storage{Provider: StorageLocal, Path: root})
	require.NoError(t, err)
	return p, root
}

func TestLocalStorageRoundTrip(t *testing.T) {
	p, root := newTestLocal(t)
	ctx := context.Background()

	require.NoError(t, p.PutObject(ctx, "plugins/widget/1.0.0.tar.gz", []byte("first")))
	_, err := os.Stat(filepath.Join(root, "plugins", "widget", "1.0.0.tar.gz"))
	require.NoError(t, err)

	data, err := p.GetObject(ctx, "plugins/widget/1.0.0.tar.gz")
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), data)

	// overwrite replaces the content
	require.NoError(t, p.PutObject(ctx, "plugins/widget/1.0.0.tar.gz", []byte("second")))
	data, err = p.GetObject(ctx, "plugins/widget/1.0.0.tar.gz")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), data)

	entries, err := os.ReadDir(filepath.Join(root, "plugins", "widget"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")

	require.NoError(t, p.DeleteObject(ctx, "plugins/widget/1.0.0.tar.gz"))
	_, err = p.GetObject(ctx, "plugins/widget/1.0.0.tar.gz")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestLocalStorageMissingObject(t *testing.T) {
	p, _ := newTestLocal(t)
	ctx := context.Background()

	_, err := p.GetObject(ctx, "plugins/none/1.0.0.tar.gz")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	err = p.DeleteObject(ctx, "plugins/none/1.0.0.tar.gz")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestLocalStorageRejectsEscapingKeys(t *testing.T) {
	p, _ := newTestLocal(t)
	ctx := context.Background()

	for _, key := range []string{"../outside", "plugins/../../outside", ""} {
		err := p.PutObject(ctx, key, []byte("x"))
		assert.ErrorIs(t, err, ErrInvalidKey, "key %q", key)
	}
}

func TestLocalStorageBasePath(t *testing.T) {
	root := t.TempDir()
	p, err := NewStorage(&Storage{Provider: StorageLocal, Path: root, BasePath: "/registry/"})
	require.NoError(t, err)

	require.NoError(t, p.PutObject(context.Background(), "plugins/a/1.tar.gz", []byte("x")))
	_, err = os.Stat(filepath.Join(root, "registry", "plugins", "a", "1.tar.gz"))
	assert.NoError(t, err)
}

func TestNewStorageUnsupportedProvider(t *testing.T) {
	_, err := NewStorage(&Storage{Provider: "ftp"})
	assert.Error(t, err)
}

func TestGetFullPath(t *testing.T) {
	tests := []struct {
		base, key, want string
	}{
		{"", "plugins/a/1.tar.gz", "plugins/a/1.tar.gz"},
		{"", "/plugins/a/1.tar.gz", "plugins/a/1.tar.gz"},
		{"/data/", "plugins/a/1.tar.gz", "data/plugins/a/1.tar.gz"},
		{"data", "/plugins/a/1.tar.gz", "data/plugins/a/1.tar.gz"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, getFullPath(tt.base, tt.key))
	}
}
