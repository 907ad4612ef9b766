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
	"github.com/go-arcade/registry/pkg/base85"
	"github.com/go-arcade/registry/pkg/log"
)

// ListVersions 查询插件全部版本, 不包含制品内容
func (s *RegistryService) ListVersions(ctx context.Context, name string) ([]model.VersionView, error) {
	var views []model.VersionView
	err := s.observe(ctx, "list_versions", func(ctx context.Context) error {
		return s.read(ctx, func(repos *repo.Repositories) error {
			p, err := lookupPlugin(ctx, repos, name)
			if err != nil {
				return err
			}
			versions, err := repos.Version.ListByPlugin(ctx, p.ID)
			if err != nil {
				return fmt.Errorf("failed to list versions of %s: %w", p.Name, err)
			}
			views = make([]model.VersionView, 0, len(versions))
			for _, v := range versions {
				views = append(views, model.NewVersionView(v))
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// LatestVersion 返回上传时间最新的版本及制品, 插件没有版本时返回 nil
func (s *RegistryService) LatestVersion(ctx context.Context, name string) (*model.VersionView, error) {
	var view *model.VersionView
	err := s.observe(ctx, "latest_version", func(ctx context.Context) error {
		return s.read(ctx, func(repos *repo.Repositories) error {
			p, err := lookupPlugin(ctx, repos, name)
			if err != nil {
				return err
			}
			versions, err := repos.Version.ListByPlugin(ctx, p.ID)
			if err != nil {
				return fmt.Errorf("failed to list versions of %s: %w", p.Name, err)
			}
			latest := model.LatestVersion(versions)
			if latest == nil {
				return nil
			}
			view, err = s.withArtifact(ctx, p, *latest)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// GetVersion 返回指定版本及制品, 同一版本号存在多条记录时取最新一条
func (s *RegistryService) GetVersion(ctx context.Context, name, version string) (*model.VersionView, error) {
	var view *model.VersionView
	err := s.observe(ctx, "get_version", func(ctx context.Context) error {
		return s.read(ctx, func(repos *repo.Repositories) error {
			p, err := lookupPlugin(ctx, repos, name)
			if err != nil {
				return err
			}
			rows, err := repos.Version.FindByLabel(ctx, p.ID, version)
			if err != nil {
				return fmt.Errorf("failed to find version %s of %s: %w", version, p.Name, err)
			}
			latest := model.LatestVersion(rows)
			if latest == nil {
				return versionNotFound(p.Name, version)
			}
			view, err = s.withArtifact(ctx, p, *latest)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// PublishVersion 发布新版本, 每次调用都新增一条记录. tarball 为 base85 编码
func (s *RegistryService) PublishVersion(ctx context.Context, name, version, tarball string, caller Caller) error {
	return s.observe(ctx, "publish_version", func(ctx context.Context) error {
		return s.write(ctx, func(repos *repo.Repositories) error {
			p, err := s.authorize(ctx, repos, name, caller, "versions", version)
			if err != nil {
				return err
			}
			if err := validateLabel(version); err != nil {
				return err
			}
			data, err := base85.Decode(tarball)
			if err != nil {
				return newError(ErrInvalidArgument, err, "Tarball is not valid base85: %s", err)
			}

			v := model.PluginVersion{
				PluginID:   p.ID,
				Version:    version,
				UploadDate: s.now().UTC(),
			}
			if err := repos.Version.Create(ctx, &v); err != nil {
				return fmt.Errorf("failed to create version %s of %s: %w", version, p.Name, err)
			}
			if err := s.artifacts.Write(ctx, p.Name, version, data); err != nil {
				log.WithContext(ctx).Errorw("failed to write artifact", "plugin", p.Name, "version", version, "error", err)
				return storageFailure(p.Name, version, err)
			}

			log.WithContext(ctx).Infow("version published", "plugin", p.Name, "version", version, "bytes", len(data))
			return nil
		})
	})
}

// DeleteVersion 删除指定版本号的全部记录及其制品, 制品不存在时失败
func (s *RegistryService) DeleteVersion(ctx context.Context, name, version string, caller Caller) error {
	return s.observe(ctx, "delete_version", func(ctx context.Context) error {
		return s.write(ctx, func(repos *repo.Repositories) error {
			p, err := s.authorize(ctx, repos, name, caller, "versions", version)
			if err != nil {
				return err
			}
			rows, err := repos.Version.FindByLabel(ctx, p.ID, version)
			if err != nil {
				return fmt.Errorf("failed to find version %s of %s: %w", version, p.Name, err)
			}
			if len(rows) == 0 {
				return versionNotFound(p.Name, version)
			}

			if err := s.artifacts.Delete(ctx, p.Name, version); err != nil {
				log.WithContext(ctx).Errorw("failed to delete artifact", "plugin", p.Name, "version", version, "error", err)
				return storageFailure(p.Name, version, err)
			}
			if _, err := repos.Version.DeleteByLabel(ctx, p.ID, version); err != nil {
				return fmt.Errorf("failed to delete version %s of %s: %w", version, p.Name, err)
			}

			log.WithContext(ctx).Infow("version deleted", "plugin", p.Name, "version", version, "rows", len(rows))
			return nil
		})
	})
}

func (s *RegistryService) withArtifact(ctx context.Context, p *model.Plugin, v model.PluginVersion) (*model.VersionView, error) {
	data, err := s.artifacts.Read(ctx, p.Name, v.Version)
	if err != nil {
		log.WithContext(ctx).Errorw("failed to read artifact", "plugin", p.Name, "version", v.Version, "error", err)
		return nil, storageFailure(p.Name, v.Version, err)
	}
	view := model.NewVersionView(v).WithFile(base85.Encode(data))
	return &view, nil
}
