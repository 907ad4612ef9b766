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
	"net/http"
	"net/url"

	"github.com/tencentyun/cos-go-sdk-v5"
)

type COSStorage struct {
	Client *cos.Client
	s      *Storage
}

func newCOS(s *Storage) (*COSStorage, error) {
	// 解析 Endpoint，腾讯云 COS 需要 bucket URL
	u, err := url.Parse(s.Endpoint)
	if err != nil {
		return nil, err
	}

	// 如果 Endpoint 不包含 bucket，则添加
	if s.Bucket != "" && u.Host != "" {
		u, err = url.Parse("https://" + s.Bucket + "." + u.Host)
		if err != nil {
			return nil, err
		}
	}

	client := cos.NewClient(&cos.BaseURL{BucketURL: u}, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  s.AccessKey,
			SecretKey: s.SecretKey,
		},
	})

	return &COSStorage{Client: client, s: s}, nil
}

func (c *COSStorage) PutObject(ctx context.Context, key string, data []byte) error {
	opt := &cos.ObjectPutOptions{
		ObjectPutHeaderOptions: &cos.ObjectPutHeaderOptions{
			ContentType: artifactContentType,
		},
	}
	_, err := c.Client.Object.Put(ctx, getFullPath(c.s.BasePath, key), bytes.NewReader(data), opt)
	return err
}

func (c *COSStorage) GetObject(ctx context.Context, key string) ([]byte, error) {
	resp, err := c.Client.Object.Get(ctx, getFullPath(c.s.BasePath, key), nil)
	if err != nil {
		if cos.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
		}
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// DeleteObject checks existence first, COS deletes are idempotent.
func (c *COSStorage) DeleteObject(ctx context.Context, key string) error {
	fullPath := getFullPath(c.s.BasePath, key)
	ok, err := c.Client.Object.IsExist(ctx, fullPath)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, key)
	}
	_, err = c.Client.Object.Delete(ctx, fullPath)
	return err
}
