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
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

type GCSStorage struct {
	Client *storage.Client
	Bucket *storage.BucketHandle
	s      *Storage
}

func newGCS(s *Storage) (*GCSStorage, error) {
	var opts []option.ClientOption

	// 如果提供了 AccessKey，将其作为 credentials JSON 文件路径
	if s.AccessKey != "" {
		opts = append(opts, option.WithCredentialsFile(s.AccessKey))
	}
	if s.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(s.Endpoint))
	}

	client, err := storage.NewClient(context.Background(), opts...)
	if err != nil {
		return nil, err
	}

	return &GCSStorage{
		Client: client,
		Bucket: client.Bucket(s.Bucket),
		s:      s,
	}, nil
}

func (g *GCSStorage) PutObject(ctx context.Context, key string, data []byte) error {
	w := g.Bucket.Object(getFullPath(g.s.BasePath, key)).NewWriter(ctx)
	w.ContentType = artifactContentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func (g *GCSStorage) GetObject(ctx context.Context, key string) ([]byte, error) {
	reader, err := g.Bucket.Object(getFullPath(g.s.BasePath, key)).NewReader(ctx)
	if err != nil {
		return nil, gcsError(err, key)
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

func (g *GCSStorage) DeleteObject(ctx context.Context, key string) error {
	return gcsError(g.Bucket.Object(getFullPath(g.s.BasePath, key)).Delete(ctx), key)
}

func gcsError(err error, key string) error {
	if errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, key)
	}
	return err
}
