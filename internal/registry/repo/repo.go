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
	"errors"
	"math"

	"github.com/go-arcade/registry/pkg/database"
	"gorm.io/gorm"
)

// ErrDuplicate is returned when an insert hits a unique index.
var ErrDuplicate = errors.New("duplicate record")

// Repositories 统一管理所有 repository
type Repositories struct {
	Plugin     IPluginRepository
	Version    IVersionRepository
	Maintainer IMaintainerRepository
}

// NewRepositories 初始化所有 repository, 传入事务时所有 repository 共享该事务
func NewRepositories(db database.IDatabase) *Repositories {
	return &Repositories{
		Plugin:     NewPluginRepo(db),
		Version:    NewVersionRepo(db),
		Maintainer: NewMaintainerRepo(db),
	}
}

func Count(tx *gorm.DB) (int64, error) {
	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Paginate 分页 scope, page 从 1 开始
func Paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(offset(page, pageSize)).Limit(pageSize)
	}
}

// offset saturates at math.MaxInt so far pages stay past the end.
func offset(page, pageSize int) int {
	if page < 1 || pageSize < 1 {
		return 0
	}
	if page-1 > math.MaxInt/pageSize {
		return math.MaxInt
	}
	return (page - 1) * pageSize
}

// NormalizePage clamps a requested page into valid bounds.
func NormalizePage(page, pageSize, defaultSize, maxSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultSize
	}
	if maxSize > 0 && pageSize > maxSize {
		pageSize = maxSize
	}
	if pageSize >= 1 {
		if last := math.MaxInt/pageSize + 1; page > last {
			page = last
		}
	}
	return page, pageSize
}

func notFoundAsNil(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

func translateDuplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}
