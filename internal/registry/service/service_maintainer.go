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

package service

import (
	"context"
	"fmt"

	"github.com/go-arcade/registry/internal/registry/model"
	"github.com/go-arcade/registry/internal/registry/repo"
	"github.com/go-arcade/registry/pkg/log"
)

// AddMaintainerRequest 新增维护者请求
type AddMaintainerRequest struct {
	Email  *string
	SSHKey string
}

func (s *RegistryService) ListMaintainers(ctx context.Context, name string) ([]model.MaintainerView, error) {
	var views []model.MaintainerView
	err := s.observe(ctx, "list_maintainers", func(ctx context.Context) error {
		return s.read(ctx, func(repos *repo.Repositories) error {
			p, err := lookupPlugin(ctx, repos, name)
			if err != nil {
				return err
			}
			maintainers, err := repos.Maintainer.ListByPlugin(ctx, p.ID)
			if err != nil {
				return fmt.Errorf("failed to list maintainers of %s: %w", p.Name, err)
			}
			views = make([]model.MaintainerView, 0, len(maintainers))
			for _, m := range maintainers {
				views = append(views, model.NewMaintainerView(m))
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// AddMaintainer 为插件新增维护者, 公钥首次出现时创建维护者记录.
// 返回值表示是否新建了维护者
func (s *RegistryService) AddMaintainer(ctx context.Context, name string, req AddMaintainerRequest, caller Caller) (bool, error) {
	var created bool
	err := s.observe(ctx, "add_maintainer", func(ctx context.Context) error {
		return s.write(ctx, func(repos *repo.Repositories) error {
			p, err := s.authorize(ctx, repos, name, caller, "maintainers")
			if err != nil {
				return err
			}
			if err := validateMaintainer(req.Email, req.SSHKey); err != nil {
				return err
			}

			m, isNew, err := repos.Maintainer.Upsert(ctx, req.SSHKey, req.Email)
			if err != nil {
				return fmt.Errorf("failed to provision maintainer: %w", err)
			}
			linked, err := repos.Maintainer.Link(ctx, p.ID, m.ID)
			if err != nil {
				return fmt.Errorf("failed to link maintainer to %s: %w", p.Name, err)
			}

			created = isNew
			log.WithContext(ctx).Infow("maintainer added", "plugin", p.Name, "maintainer_id", m.ID, "new", isNew, "linked", linked)
			return nil
		})
	})
	return created, err
}
