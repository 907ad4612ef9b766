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
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioStorage struct {
	Client *minio.Client
	s      *Storage
}

func newMinio(s *Storage) (*MinioStorage, error) {
	client, err := minio.New(s.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(s.AccessKey, s.SecretKey, ""),
		Secure: s.UseTLS,
		Region: s.Region,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStorage{Client: client, s: s}, nil
}

func (m *MinioStorage) PutObject(ctx context.Context, key string, data []byte) error {
	fullPath := getFullPath(m.s.BasePath, key)
	_, err := m.Client.PutObject(ctx, m.s.Bucket, fullPath, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: artifactContentType})
	return err
}

func (m *MinioStorage) GetObject(ctx context.Context, key string) ([]byte, error) {
	fullPath := getFullPath(m.s.BasePath, key)
	obj, err := m.Client.GetObject(ctx, m.s.Bucket, fullPath, minio.GetObjectOptions{})
	if err != nil {
		return nil, minioError(err, key)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, minioError(err, key)
	}
	return data, nil
}

// DeleteObject stats the key first, RemoveObject succeeds on missing keys.
func (m *MinioStorage) DeleteObject(ctx context.Context, key string) error {
	fullPath := getFullPath(m.s.BasePath, key)
	if _, err := m.Client.StatObject(ctx, m.s.Bucket, fullPath, minio.StatObjectOptions{}); err != nil {
		return minioError(err, key)
	}
	return m.Client.RemoveObject(ctx, m.s.Bucket, fullPath, minio.RemoveObjectOptions{})
}

func minioError(err error, key string) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, key)
	}
	return err
}
