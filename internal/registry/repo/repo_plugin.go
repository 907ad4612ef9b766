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

type IPluginRepository interface {
	List(ctx context.Context, page, pageSize int) ([]model.Plugin, error)
	GetByName(ctx context.Context, name string) (*model.Plugin, error)
	Create(ctx context.Context, p *model.Plugin) error
	Delete(ctx context.Context, id uint64) error
	Count(ctx context.Context) (int64, error)
}

type PluginRepo struct {
	database.IDatabase
}

func NewPluginRepo(db database.IDatabase) IPluginRepository {
	return &PluginRepo{IDatabase: db}
}

// List 按 id 升序分页查询插件, 超出范围返回空列表
func (r *PluginRepo) List(ctx context.Context, page, pageSize int) ([]model.Plugin, error) {
	plugins := make([]model.Plugin, 0, pageSize)
	err := r.Database().WithContext(ctx).
		Scopes(Paginate(page, pageSize)).
		Order("id ASC").
		Find(&plugins).Error
	return plugins, err
}

// GetByName 按名称精确查询, 不存在时返回 nil, nil
func (r *PluginRepo) GetByName(ctx context.Context, name string) (*model.Plugin, error) {
	var p model.Plugin
	err := r.Database().WithContext(ctx).Where("name = ?", name).First(&p).Error
	if err != nil {
		return nil, notFoundAsNil(err)
	}
	return &p, nil
}

func (r *PluginRepo) Create(ctx context.Context, p *model.Plugin) error {
	return translateDuplicate(r.Database().WithContext(ctx).Create(p).Error)
}

func (r *PluginRepo) Delete(ctx context.Context, id uint64) error {
	return r.Database().WithContext(ctx).Where("id = ?", id).Delete(&model.Plugin{}).Error
}

func (r *PluginRepo) Count(ctx context.Context) (int64, error) {
	return Count(r.Database().WithContext(ctx).Model(&model.Plugin{}))
}
