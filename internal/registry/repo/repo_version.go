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

package repo

import (
	"context"

	"github.com/go-arcade/registry/internal/registry/model"
	"github.com/go-arcade/registry/pkg/database"
)

type IVersionRepository interface {
	ListByPlugin(ctx context.Context, pluginID uint64) ([]model.PluginVersion, error)
	ListByPlugins(ctx context.Context, pluginIDs []uint64) (map[uint64][]model.PluginVersion, error)
	FindByLabel(ctx context.Context, pluginID uint64, label string) ([]model.PluginVersion, error)
	Create(ctx context.Context, v *model.PluginVersion) error
	DeleteByLabel(ctx context.Context, pluginID uint64, label string) (int64, error)
	DeleteByPlugin(ctx context.Context, pluginID uint64) error
	Count(ctx context.Context) (int64, error)
}

type VersionRepo struct {
	database.IDatabase
}

func NewVersionRepo(db database.IDatabase) IVersionRepository {
	return &VersionRepo{IDatabase: db}
}

// ListByPlugin 查询插件的全部版本, 按 id 升序
func (r *VersionRepo) ListByPlugin(ctx context.Context, pluginID uint64) ([]model.PluginVersion, error) {
	versions := make([]model.PluginVersion, 0)
	err := r.Database().WithContext(ctx).
		Where("plugin_id = ?", pluginID).
		Order("id ASC").
		Find(&versions).Error
	return versions, err
}

// ListByPlugins 批量查询多个插件的版本, 按插件 id 分组
func (r *VersionRepo) ListByPlugins(ctx context.Context, pluginIDs []uint64) (map[uint64][]model.PluginVersion, error) {
	grouped := make(map[uint64][]model.PluginVersion, len(pluginIDs))
	if len(pluginIDs) == 0 {
		return grouped, nil
	}

	var versions []model.PluginVersion
	err := r.Database().WithContext(ctx).
		Where("plugin_id IN ?", pluginIDs).
		Order("id ASC").
		Find(&versions).Error
	if err != nil {
		return nil, err
	}
	for _, v := range versions {
		grouped[v.PluginID] = append(grouped[v.PluginID], v)
	}
	return grouped, nil
}

// FindByLabel 查询插件下指定版本号的全部记录
func (r *VersionRepo) FindByLabel(ctx context.Context, pluginID uint64, label string) ([]model.PluginVersion, error) {
	versions := make([]model.PluginVersion, 0)
	err := r.Database().WithContext(ctx).
		Where("plugin_id = ? AND version = ?", pluginID, label).
		Order("id ASC").
		Find(&versions).Error
	return versions, err
}

func (r *VersionRepo) Create(ctx context.Context, v *model.PluginVersion) error {
	return r.Database().WithContext(ctx).Omit("Plugin").Create(v).Error
}

func (r *VersionRepo) DeleteByLabel(ctx context.Context, pluginID uint64, label string) (int64, error) {
	res := r.Database().WithContext(ctx).
		Where("plugin_id = ? AND version = ?", pluginID, label).
		Delete(&model.PluginVersion{})
	return res.RowsAffected, res.Error
}

func (r *VersionRepo) DeleteByPlugin(ctx context.Context, pluginID uint64) error {
	return r.Database().WithContext(ctx).Where("plugin_id = ?", pluginID).Delete(&model.PluginVersion{}).Error
}

func (r *VersionRepo) Count(ctx context.Context) (int64, error) {
	return Count(r.Database().WithContext(ctx).Model(&model.PluginVersion{}))
}
