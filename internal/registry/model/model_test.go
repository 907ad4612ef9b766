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

package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestLatestVersion_Empty(t *testing.T) {
	assert.Nil(t, LatestVersion(nil))
	assert.Nil(t, LatestVersion([]PluginVersion{}))
}

func TestLatestVersion_AnyInsertionOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 20).Draw(t, "n")
		versions := make([]PluginVersion, n)
		for i := range versions {
			versions[i] = PluginVersion{
				BaseModel:  BaseModel{ID: uint64(i + 1)},
				Version:    time.Duration(i).String(),
				UploadDate: epoch.Add(time.Duration(i) * time.Second),
			}
		}
		shuffled := rapid.Permutation(versions).Draw(t, "order")

		latest := LatestVersion(shuffled)
		if latest == nil || latest.ID != uint64(n) {
			t.Fatalf("expected id %d, got %+v", n, latest)
		}
	})
}

func TestLatestVersion_TieBreaksOnHighestID(t *testing.T) {
	versions := []PluginVersion{
		{BaseModel: BaseModel{ID: 7}, Version: "b", UploadDate: epoch},
		{BaseModel: BaseModel{ID: 9}, Version: "c", UploadDate: epoch},
		{BaseModel: BaseModel{ID: 3}, Version: "a", UploadDate: epoch},
	}
	latest := LatestVersion(versions)
	require.NotNil(t, latest)
	assert.Equal(t, uint64(9), latest.ID)
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "widget", NormalizeName("  Widget\t"))
	assert.Equal(t, "", NormalizeName("   "))
	assert.Equal(t, "äpfel", NormalizeName("ÄPFEL"))
	// U+0130 lowercases to i followed by a combining dot above
	assert.Equal(t, "i\u0307stanbul", NormalizeName("İSTANBUL"))
}

func TestNewPluginView(t *testing.T) {
	email := "a@example.com"
	p := Plugin{BaseModel: BaseModel{ID: 1}, Name: "widget"}

	view := NewPluginView(p, nil, []Maintainer{{SSHKey: "k1"}, {SSHKey: "k2", Email: &email}})
	assert.Nil(t, view.LatestVersion)
	assert.Equal(t, []string{email}, view.Maintainers)

	raw, err := json.Marshal(NewPluginView(p, nil, nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"name":"widget","latest_version":null,"maintainers":[]}`, string(raw))

	view = NewPluginView(p, []PluginVersion{
		{BaseModel: BaseModel{ID: 1}, Version: "1.0.0", UploadDate: epoch},
		{BaseModel: BaseModel{ID: 2}, Version: "1.1.0", UploadDate: epoch.Add(time.Minute)},
	}, nil)
	require.NotNil(t, view.LatestVersion)
	assert.Equal(t, "1.1.0", *view.LatestVersion)
}

func TestVersionView_JSON(t *testing.T) {
	v := NewVersionView(PluginVersion{
		BaseModel:  BaseModel{ID: 4},
		PluginID:   2,
		Version:    "1.0.0",
		UploadDate: epoch,
	})

	raw, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":4,"plugin_id":2,"upload_date":"2024-01-01T00:00:00Z","version":"1.0.0"}`, string(raw))

	raw, err = json.Marshal(v.WithFile(""))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"file":""`)
	assert.Nil(t, v.File)
}
