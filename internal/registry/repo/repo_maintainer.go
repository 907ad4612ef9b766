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
	"gorm.io/gorm/clause"
)

type IMaintainerRepository interface {
	GetByKey(ctx context.Context, sshKey string) (*model.Maintainer, error)
	Upsert(ctx context.Context, sshKey string, email *string) (*model.Maintainer, bool, error)
	ListByPlugin(ctx context.Context, pluginID uint64) ([]model.Maintainer, error)
	ListByPlugins(ctx context.Context, pluginIDs []uint64) (map[uint64][]model.Maintainer, error)
	Link(ctx context.Context, pluginID, maintainerID uint64) (bool, error)
	UnlinkPlugin(ctx context.Context, pluginID uint64) error
	Count(ctx context.Context) (int64, error)
}

type MaintainerRepo struct {
	database.IDatabase
}

func NewMaintainerRepo(db database.IDatabase) IMaintainerRepository {
	return &MaintainerRepo{IDatabase: db}
}

var associationTable = model.PluginMaintainer{}.TableName()

// GetByKey 按公钥精确查询, 不存在时返回 nil, nil
func (r *MaintainerRepo) GetByKey(ctx context.Context, sshKey string) (*model.Maintainer, error) {
	var m model.Maintainer
	err := r.Database().WithContext(ctx).Where("ssh_key = ?", sshKey).First(&m).Error
	if err != nil {
		return nil, notFoundAsNil(err)
	}
	return &m, nil
}

// Upsert 按公钥插入维护者, 已存在时返回已有记录且不修改 email.
// 第二个返回值表示是否新建
func (r *MaintainerRepo) Upsert(ctx context.Context, sshKey string, email *string) (*model.Maintainer, bool, error) {
	m := model.Maintainer{SSHKey: sshKey, Email: email}
	res := r.Database().WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "ssh_key"}}, DoNothing: true}).
		Create(&m)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 1 {
		return &m, true, nil
	}

	existing, err := r.GetByKey(ctx, sshKey)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, ErrDuplicate
	}
	return existing, false, nil
}

// ListByPlugin 查询插件的维护者, 按 id 升序
func (r *MaintainerRepo) ListByPlugin(ctx context.Context, pluginID uint64) ([]model.Maintainer, error) {
	maintainers := make([]model.Maintainer, 0)
	err := r.Database().WithContext(ctx).
		Joins("JOIN "+associationTable+" pma ON pma.maintainer_id = maintainers.id").
		Where("pma.plugin_id = ?", pluginID).
		Order("maintainers.id ASC").
		Find(&maintainers).Error
	return maintainers, err
}

type pluginMaintainerRow struct {
	model.Maintainer
	PluginID uint64 `gorm:"column:plugin_id"`
}

// ListByPlugins 批量查询多个插件的维护者, 按插件 id 分组
func (r *MaintainerRepo) ListByPlugins(ctx context.Context, pluginIDs []uint64) (map[uint64][]model.Maintainer, error) {
	grouped := make(map[uint64][]model.Maintainer, len(pluginIDs))
	if len(pluginIDs) == 0 {
		return grouped, nil
	}

	var rows []pluginMaintainerRow
	err := r.Database().WithContext(ctx).
		Table(model.Maintainer{}.TableName()).
		Select("maintainers.id, maintainers.email, maintainers.ssh_key, pma.plugin_id").
		Joins("JOIN "+associationTable+" pma ON pma.maintainer_id = maintainers.id").
		Where("pma.plugin_id IN ?", pluginIDs).
		Order("maintainers.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		grouped[row.PluginID] = append(grouped[row.PluginID], row.Maintainer)
	}
	return grouped, nil
}

// Link 关联插件与维护者, 已关联时不重复插入, 返回是否新建了关联
func (r *MaintainerRepo) Link(ctx context.Context, pluginID, maintainerID uint64) (bool, error) {
	res := r.Database().WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "plugin_id"}, {Name: "maintainer_id"}},
			DoNothing: true,
		}).
		Create(&model.PluginMaintainer{PluginID: pluginID, MaintainerID: maintainerID})
	return res.RowsAffected == 1, res.Error
}

func (r *MaintainerRepo) UnlinkPlugin(ctx context.Context, pluginID uint64) error {
	return r.Database().WithContext(ctx).Where("plugin_id = ?", pluginID).Delete(&model.PluginMaintainer{}).Error
}

func (r *MaintainerRepo) Count(ctx context.Context) (int64, error) {
	return Count(r.Database().WithContext(ctx).Model(&model.Maintainer{}))
}
