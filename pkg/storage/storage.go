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


package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/go-arcade/registry/pkg/trace/inject"
	"github.com/google/wire"
)

// ProviderSet 提供存储相关的依赖
var ProviderSet = wire.NewSet(ProvideStorage)

// 存储类型常量
const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageS3    = "s3"
	StorageOSS   = "oss"
	StorageGCS   = "gcs"
	StorageCOS   = "cos"
)

// Storage 存储配置结构
type Storage struct {
	Provider  string `mapstructure:"provider"`
	Path      string `mapstructure:"path"`
	AccessKey string `mapstructure:"accessKey"`
	SecretKey string `mapstructure:"secretKey"`
	Endpoint  string `mapstructure:"endpoint"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	UseTLS    bool   `mapstructure:"useTLS"`
	BasePath  string `mapstructure:"basePath"`
}

// SetDefaults 设置默认值
func (s *Storage) SetDefaults() {
	if s.Provider == "" {
		s.Provider = StorageLocal
	}
	if s.Provider == StorageLocal && s.Path == "" {
		s.Path = "./data"
	}
}

// ProvideStorage 根据配置提供存储实例
func ProvideStorage(conf Storage) (StorageProvider, error) {
	conf.SetDefaults()
	return NewStorage(&conf)
}

// NewStorage 根据配置创建存储提供者实例，所有调用都带有 trace span
func NewStorage(s *Storage) (StorageProvider, error) {
	var (
		p   StorageProvider
		err error
	)
	switch s.Provider {
	case StorageLocal:
		p, err = newLocal(s)
	case StorageMinio:
		p, err = newMinio(s)
	case StorageS3:
		p, err = newS3(s)
	case StorageOSS:
		p, err = newOSS(s)
	case StorageGCS:
		p, err = newGCS(s)
	case StorageCOS:
		p, err = newCOS(s)
	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", s.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s storage: %w", s.Provider, err)
	}
	return &tracedStorage{provider: s.Provider, next: p}, nil
}

type tracedStorage struct {
	provider string
	next     StorageProvider
}

func (t *tracedStorage) PutObject(ctx context.Context, key string, data []byte) error {
	return inject.StorageOperation(ctx, t.provider, "put", key, func(ctx context.Context) error {
		return t.next.PutObject(ctx, key, data)
	})
}

func (t *tracedStorage) GetObject(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := inject.StorageOperation(ctx, t.provider, "get", key, func(ctx context.Context) error {
		var err error
		data, err = t.next.GetObject(ctx, key)
		return err
	})
	return data, err
}

func (t *tracedStorage) DeleteObject(ctx context.Context, key string) error {
	return inject.StorageOperation(ctx, t.provider, "delete", key, func(ctx context.Context) error {
		return t.next.DeleteObject(ctx, key)
	})
}

// getFullPath 组合 BasePath 和 objectName，返回完整的对象路径
func getFullPath(basePath, objectName string) string {
	objectName = strings.TrimPrefix(objectName, "/")
	if basePath == "" {
		return objectName
	}
	// 清理路径，避免双斜杠
	basePath = strings.Trim(basePath, "/")
	return path.Join(basePath, objectName)
}
