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

// Package registrytest holds fixtures shared by the registry tests.
package registrytest

import (
	"crypto/rand"
	"crypto/rsa"
	"path/filepath"
	"sync"
	"testing"

	_ "github.com/go-arcade/registry/internal/registry/model"
	"github.com/go-arcade/registry/pkg/database"
	"github.com/go-arcade/registry/pkg/signature"
	"github.com/go-arcade/registry/pkg/storage"
	"github.com/stretchr/testify/require"
)

// NewDB opens a migrated SQLite database in a temp dir.
func NewDB(t testing.TB) database.IDatabase {
	t.Helper()
	conf := database.Database{
		Driver:  database.DriverSQLite,
		Migrate: true,
		SQLite:  database.SQLiteConfig{Path: filepath.Join(t.TempDir(), "registry.db")},
	}
	conf.SetDefaults()

	manager, cleanup, err := database.ProvideManager(conf)
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return database.ProvideIDatabase(manager)
}

// NewStorage returns a local storage backend rooted in a temp dir.
func NewStorage(t testing.TB) storage.StorageProvider {
	t.Helper()
	provider, err := storage.NewStorage(&storage.Storage{
		Provider: storage.StorageLocal,
		Path:     t.TempDir(),
	})
	require.NoError(t, err)
	return provider
}

var (
	signersOnce sync.Once
	signers     [3]*signature.Signer
	signersErr  error
)

// Signers returns three distinct RSA signers, generated once per test binary.
func Signers(t testing.TB) (*signature.Signer, *signature.Signer, *signature.Signer) {
	t.Helper()
	signersOnce.Do(func() {
		for i := range signers {
			key, err := rsa.GenerateKey(rand.Reader, 2048)
			if err != nil {
				signersErr = err
				return
			}
			if signers[i], err = signature.NewSigner(key); err != nil {
				signersErr = err
				return
			}
		}
	})
	require.NoError(t, signersErr)
	return signers[0], signers[1], signers[2]
}

// Sign signs path with s and fails the test on error.
func Sign(t testing.TB, s *signature.Signer, path string) string {
	t.Helper()
	sig, err := s.Sign(path)
	require.NoError(t, err)
	return sig
}
