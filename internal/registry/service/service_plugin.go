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
	"errors"
	"fmt"
	"strings"

	"github.com/go-arcade/registry/internal/registry/auth"
	"github.com/go-arcade/registry/internal/registry/model"
	"github.com/go-arcade/registry/internal/registry/repo"
	"github.com/go-arcade/registry/pkg/log"
	"golang.org/x/sync/errgroup"
)

// CreatePluginRequest 创建插件请求, Credentials 只需要公钥
type CreatePluginRequest struct {
	Name        string
	Credentials auth.Credentials
	Email       string
}

// ListPlugins 分页查询插件, 超出范围返回空列表
func (s *RegistryService) ListPlugins(ctx context.Context, page, pageSize int) ([]model.PluginView, error) {
	limits := s.limits.Load()
	page, pageSize = repo.NormalizePage(page, pageSize, limits.DefaultPageSize, limits.MaxPageSize)

	views := make([]model.PluginView, 0, pageSize)
	err := s.observe(ctx, "list_plugins", func(ctx context.Context) error {
		return s.read(ctx, func(repos *repo.Repositories) error {
			plugins, err := repos.Plugin.List(ctx, page, pageSize)
			if err != nil {
				return fmt.Errorf("failed to list plugins: %w", err)
			}
			ids := make([]uint64, 0, len(plugins))
			for _, p := range plugins {
				ids = append(ids, p.ID)
			}

			versions, err := repos.Version.ListByPlugins(ctx, ids)
			if err != nil {
				return fmt.Errorf("failed to list plugin versions: %w", err)
			}
			maintainers, err := repos.Maintainer.ListByPlugins(ctx, ids)
			if err != nil {
				return fmt.Errorf("failed to list plugin maintainers: %w", err)
			}
			for _, p := range plugins {
				views = append(views, model.NewPluginView(p, versions[p.ID], maintainers[p.ID]))
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

func (s *RegistryService) GetPlugin(ctx context.Context, name string) (*model.PluginView, error) {
	var view model.PluginView
	err := s.observe(ctx, "get_plugin", func(ctx context.Context) error {
		return s.read(ctx, func(repos *repo.Repositories) error {
			p, err := lookupPlugin(ctx, repos, name)
			if err != nil {
				return err
			}
			versions, err := repos.Version.ListByPlugin(ctx, p.ID)
			if err != nil {
				return fmt.Errorf("failed to list versions of %s: %w", p.Name, err)
			}
			maintainers, err := repos.Maintainer.ListByPlugin(ctx, p.ID)
			if err != nil {
				return fmt.Errorf("failed to list maintainers of %s: %w", p.Name, err)
			}
			view = model.NewPluginView(*p, versions, maintainers)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// CreatePlugin 创建插件, 调用方成为第一个维护者 (公钥首次出现时自动创建)
func (s *RegistryService) CreatePlugin(ctx context.Context, req CreatePluginRequest) error {
	return s.observe(ctx, "create_plugin", func(ctx context.Context) error {
		name, err := validateName(req.Name)
		if err != nil {
			return err
		}
		if err := s.gate.AuthorizeCreate(req.Credentials); err != nil {
			s.metrics.AuthDenied(string(auth.ReasonMissingCredential))
			log.WithContext(ctx).Warnw("create plugin denied", "plugin", name, "error", err)
			return newError(ErrForbidden, err, "%s", err.Error())
		}

		var email *string
		if e := strings.TrimSpace(req.Email); e != "" {
			email = &e
		}
		if err := validateMaintainer(email, req.Credentials.PublicKey); err != nil {
			return err
		}

		return s.write(ctx, func(repos *repo.Repositories) error {
			existing, err := repos.Plugin.GetByName(ctx, name)
			if err != nil {
				return fmt.Errorf("failed to look up plugin %s: %w", name, err)
			}
			if existing != nil {
				return pluginExists(name)
			}

			maintainer, _, err := repos.Maintainer.Upsert(ctx, req.Credentials.PublicKey, email)
			if err != nil {
				return fmt.Errorf("failed to provision maintainer: %w", err)
			}

			p := model.Plugin{Name: name}
			if err := repos.Plugin.Create(ctx, &p); err != nil {
				if errors.Is(err, repo.ErrDuplicate) {
					return pluginExists(name)
				}
				return fmt.Errorf("failed to create plugin %s: %w", name, err)
			}
			if _, err := repos.Maintainer.Link(ctx, p.ID, maintainer.ID); err != nil {
				return fmt.Errorf("failed to link maintainer to %s: %w", name, err)
			}

			log.WithContext(ctx).Infow("plugin created", "plugin", name, "maintainer_id", maintainer.ID)
			return nil
		})
	})
}

// DeletePlugin 删除插件及其全部版本与制品, 任一制品删除失败则整体回滚
func (s *RegistryService) DeletePlugin(ctx context.Context, name string, caller Caller) error {
	return s.observe(ctx, "delete_plugin", func(ctx context.Context) error {
		return s.write(ctx, func(repos *repo.Repositories) error {
			p, err := s.authorize(ctx, repos, name, caller)
			if err != nil {
				return err
			}
			versions, err := repos.Version.ListByPlugin(ctx, p.ID)
			if err != nil {
				return fmt.Errorf("failed to list versions of %s: %w", p.Name, err)
			}

			g, gctx := errgroup.WithContext(ctx)
			for _, label := range distinctLabels(versions) {
				g.Go(func() error {
					if err := s.artifacts.Delete(gctx, p.Name, label); err != nil {
						return storageFailure(p.Name, label, err)
					}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				log.WithContext(ctx).Errorw("failed to delete plugin artifacts", "plugin", p.Name, "error", err)
				return err
			}

			if err := repos.Version.DeleteByPlugin(ctx, p.ID); err != nil {
				return fmt.Errorf("failed to delete versions of %s: %w", p.Name, err)
			}
			if err := repos.Maintainer.UnlinkPlugin(ctx, p.ID); err != nil {
				return fmt.Errorf("failed to unlink maintainers of %s: %w", p.Name, err)
			}
			if err := repos.Plugin.Delete(ctx, p.ID); err != nil {
				return fmt.Errorf("failed to delete plugin %s: %w", p.Name, err)
			}

			log.WithContext(ctx).Infow("plugin deleted", "plugin", p.Name, "versions", len(versions))
			return nil
		})
	})
}

// Inventory counts stored plugins, versions and maintainers.
func (s *RegistryService) Inventory(ctx context.Context) (plugins, versions, maintainers int64, err error) {
	err = s.read(ctx, func(repos *repo.Repositories) error {
		if plugins, err = repos.Plugin.Count(ctx); err != nil {
			return err
		}
		if versions, err = repos.Version.Count(ctx); err != nil {
			return err
		}
		maintainers, err = repos.Maintainer.Count(ctx)
		return err
	})
	return plugins, versions, maintainers, err
}

func pluginExists(name string) *Error {
	log.Warnw("plugin already exists", "plugin", name)
	return newError(ErrConflict, nil, "A plugin with this name already exists.")
}

func storageFailure(name, version string, err error) *Error {
	return newError(ErrStorage, err, "Failed to access artifact of version %s for plugin %s.", version, name)
}

func distinctLabels(versions []model.PluginVersion) []string {
	seen := make(map[string]struct{}, len(versions))
	labels := make([]string, 0, len(versions))
	for _, v := range versions {
		if _, ok := seen[v.Version]; ok {
			continue
		}
		seen[v.Version] = struct{}{}
		labels = append(labels, v.Version)
	}
	return labels
}
