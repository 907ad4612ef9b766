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
	"strings"
	"time"

	"github.com/go-arcade/registry/pkg/database"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	MaxNameLen    = 255
	MaxVersionLen = 20
	MaxEmailLen   = 255
	MaxSSHKeyLen  = 400
)

func init() {
	database.RegisterModels(&Plugin{}, &PluginVersion{}, &Maintainer{}, &PluginMaintainer{})
}

type BaseModel struct {
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
}

// Plugin 插件表
type Plugin struct {
	BaseModel
	Name string `gorm:"column:name;type:varchar(255);not null;uniqueIndex:idx_plugins_name" json:"name"`
}

func (Plugin) TableName() string {
	return "plugins"
}

// PluginVersion 插件版本表, 同一插件下的版本号允许重复
type PluginVersion struct {
	BaseModel
	PluginID   uint64    `gorm:"column:plugin_id;not null;index:idx_versions_plugin_version,priority:1" json:"plugin_id"`
	Version    string    `gorm:"column:version;type:varchar(20);not null;index:idx_versions_plugin_version,priority:2" json:"version"`
	UploadDate time.Time `gorm:"column:upload_date;not null" json:"upload_date"`
	Plugin     *Plugin   `gorm:"foreignKey:PluginID;constraint:OnDelete:CASCADE" json:"-"`
}

func (PluginVersion) TableName() string {
	return "versions"
}

// Maintainer 维护者表, ssh_key 即身份
type Maintainer struct {
	BaseModel
	Email  *string `gorm:"column:email;type:varchar(255)" json:"email"`
	SSHKey string  `gorm:"column:ssh_key;type:varchar(400);not null;uniqueIndex:idx_maintainers_ssh_key" json:"ssh_key"`
}

func (Maintainer) TableName() string {
	return "maintainers"
}

// PluginMaintainer 插件与维护者关联表
type PluginMaintainer struct {
	PluginID     uint64      `gorm:"column:plugin_id;primaryKey;autoIncrement:false"`
	MaintainerID uint64      `gorm:"column:maintainer_id;primaryKey;autoIncrement:false"`
	Plugin       *Plugin     `gorm:"foreignKey:PluginID;constraint:OnDelete:CASCADE"`
	Maintainer   *Maintainer `gorm:"foreignKey:MaintainerID;constraint:OnDelete:CASCADE"`
}

func (PluginMaintainer) TableName() string {
	return "plugins_maintainers_association"
}

// NormalizeName trims surrounding whitespace and applies full Unicode
// lowercasing to a plugin name.
func NormalizeName(name string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(name))
}

// LatestVersion returns the version with the greatest upload date. Equal
// dates resolve to the highest id. It returns nil for an empty slice.
func LatestVersion(versions []PluginVersion) *PluginVersion {
	var latest *PluginVersion
	for i := range versions {
		v := &versions[i]
		if latest == nil || newer(v, latest) {
			latest = v
		}
	}
	return latest
}

func newer(a, b *PluginVersion) bool {
	if a.UploadDate.Equal(b.UploadDate) {
		return a.ID > b.ID
	}
	return a.UploadDate.After(b.UploadDate)
}
