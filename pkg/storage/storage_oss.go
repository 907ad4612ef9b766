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
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

type OSSStorage struct {
	Client *oss.Client
	Bucket *oss.Bucket
	s      *Storage
}

func newOSS(s *Storage) (*OSSStorage, error) {
	client, err := oss.New(s.Endpoint, s.AccessKey, s.SecretKey)
	if err != nil {
		return nil, err
	}

	bucket, err := client.Bucket(s.Bucket)
	if err != nil {
		return nil, err
	}

	return &OSSStorage{
		Client: client,
		Bucket: bucket,
		s:      s,
	}, nil
}

func (o *OSSStorage) PutObject(ctx context.Context, key string, data []byte) error {
	fullPath := getFullPath(o.s.BasePath, key)
	return o.Bucket.PutObject(fullPath, bytes.NewReader(data),
		oss.ContentType(artifactContentType), oss.WithContext(ctx))
}

func (o *OSSStorage) GetObject(ctx context.Context, key string) ([]byte, error) {
	fullPath := getFullPath(o.s.BasePath, key)
	body, err := o.Bucket.GetObject(fullPath, oss.WithContext(ctx))
	if err != nil {
		return nil, ossError(err, key)
	}
	defer body.Close()
	return io.ReadAll(body)
}

// DeleteObject checks existence first, OSS deletes are idempotent.
func (o *OSSStorage) DeleteObject(ctx context.Context, key string) error {
	fullPath := getFullPath(o.s.BasePath, key)
	ok, err := o.Bucket.IsObjectExist(fullPath, oss.WithContext(ctx))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, key)
	}
	return o.Bucket.DeleteObject(fullPath, oss.WithContext(ctx))
}

func ossError(err error, key string) error {
	var se oss.ServiceError
	if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, key)
	}
	return err
}
