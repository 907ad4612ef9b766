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

import "time"

// PluginView is the public projection of a plugin.
type PluginView struct {
	ID            uint64   `json:"id"`
	Name          string   `json:"name"`
	LatestVersion *string  `json:"latest_version"`
	Maintainers   []string `json:"maintainers"`
}

// VersionView is the public projection of a version. File carries the
// base85 artifact and is only set on single-version reads.
type VersionView struct {
	ID         uint64  `json:"id"`
	PluginID   uint64  `json:"plugin_id"`
	UploadDate string  `json:"upload_date"`
	Version    string  `json:"version"`
	File       *string `json:"file,omitempty"`
}

type MaintainerView struct {
	ID     uint64  `json:"id"`
	Email  *string `json:"email"`
	SSHKey string  `json:"ssh_key"`
}

func NewPluginView(p Plugin, versions []PluginVersion, maintainers []Maintainer) PluginView {
	view := PluginView{
		ID:          p.ID,
		Name:        p.Name,
		Maintainers: make([]string, 0, len(maintainers)),
	}
	if latest := LatestVersion(versions); latest != nil {
		label := latest.Version
		view.LatestVersion = &label
	}
	for _, m := range maintainers {
		if m.Email != nil {
			view.Maintainers = append(view.Maintainers, *m.Email)
		}
	}
	return view
}

func NewVersionView(v PluginVersion) VersionView {
	return VersionView{
		ID:         v.ID,
		PluginID:   v.PluginID,
		UploadDate: v.UploadDate.UTC().Format(time.RFC3339Nano),
		Version:    v.Version,
	}
}

// WithFile returns a copy of the view carrying the encoded artifact.
func (v VersionView) WithFile(encoded string) VersionView {
	v.File = &encoded
	return v
}

func NewMaintainerView(m Maintainer) MaintainerView {
	return MaintainerView{ID: m.ID, Email: m.Email, SSHKey: m.SSHKey}
}
