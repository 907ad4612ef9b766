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
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-arcade/registry/internal/registry/artifact"
	"github.com/go-arcade/registry/internal/registry/auth"
	"github.com/go-arcade/registry/internal/registry/config"
	"github.com/go-arcade/registry/internal/registry/model"
	"github.com/go-arcade/registry/internal/registry/repo"
	"github.com/go-arcade/registry/pkg/database"
	"github.com/go-arcade/registry/pkg/log"
	"github.com/go-arcade/registry/pkg/metrics"
	"github.com/go-arcade/registry/pkg/trace"
	"github.com/google/wire"
	"go.opentelemetry.io/otel/attribute"
)

// ProviderSet 提供服务层相关的依赖
var ProviderSet = wire.NewSet(ProvideRegistryService)

// ProvideRegistryService 提供注册中心服务
func ProvideRegistryService(db database.IDatabase, artifacts artifact.IStore, conf config.RegistryConfig, m *metrics.RegistryMetrics) *RegistryService {
	return NewRegistryService(db, artifacts, conf, m)
}

// Caller identifies a gated request: the gate headers and the exact request
// path they were signed over.
type Caller struct {
	auth.Credentials
	Path string
}

type Option func(*RegistryService)

// WithClock overrides the upload timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *RegistryService) { s.now = now }
}

func WithGate(gate *auth.Gate) Option {
	return func(s *RegistryService) { s.gate = gate }
}

// RegistryService runs the registry use cases. Each call runs in a single
// database transaction; artifact side effects happen before commit.
type RegistryService struct {
	db        database.IDatabase
	artifacts artifact.IStore
	gate      *auth.Gate
	metrics   *metrics.RegistryMetrics
	limits    atomic.Pointer[config.RegistryConfig]
	now       func() time.Time
}

func NewRegistryService(db database.IDatabase, artifacts artifact.IStore, conf config.RegistryConfig, m *metrics.RegistryMetrics, opts ...Option) *RegistryService {
	s := &RegistryService{
		db:        db,
		artifacts: artifacts,
		gate:      auth.NewGate(),
		metrics:   m,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.UpdateLimits(conf)
	return s
}

// UpdateLimits swaps the paging limits, e.g. after a config reload.
func (s *RegistryService) UpdateLimits(conf config.RegistryConfig) {
	conf.SetDefaults()
	s.limits.Store(&conf)
}

func (s *RegistryService) observe(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx, span := trace.StartSpan(ctx, "registry."+op)
	defer span.End()

	err := fn(ctx)
	result := resultOf(err)
	trace.AddSpanAttributes(span, attribute.String("registry.result", result))
	if k := KindOf(err); k == nil || k == ErrStorage {
		trace.RecordError(span, err)
	}
	s.metrics.ObserveOperation(op, result)
	return err
}

func (s *RegistryService) read(ctx context.Context, fn func(repos *repo.Repositories) error) error {
	return database.ReadTransaction(ctx, s.db, func(tx database.IDatabase) error {
		return fn(repo.NewRepositories(tx))
	})
}

func (s *RegistryService) write(ctx context.Context, fn func(repos *repo.Repositories) error) error {
	return database.Transaction(ctx, s.db, func(tx database.IDatabase) error {
		return fn(repo.NewRepositories(tx))
	})
}

// authorize runs the signature gate for an operation on the resource at
// /v1/plugins/{name}/{resource...}. A signature over any other path fails.
func (s *RegistryService) authorize(ctx context.Context, repos *repo.Repositories, name string, caller Caller, resource ...string) (*model.Plugin, error) {
	p, err := lookupPlugin(ctx, repos, name)
	if err != nil {
		return nil, err
	}
	maintainers, err := repos.Maintainer.ListByPlugin(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	if err := s.gate.Authorize(caller.Credentials, signedPath(caller.Path, name, resource...), maintainers); err != nil {
		var denial *auth.Denial
		if errors.As(err, &denial) {
			s.metrics.AuthDenied(string(denial.Reason))
			log.WithContext(ctx).Warnw("request denied", "plugin", p.Name, "path", caller.Path, "reason", denial.Reason)
		}
		return nil, newError(ErrForbidden, err, "%s", err.Error())
	}
	return p, nil
}

const pluginsPrefix = "/v1/plugins/"

// signedPath returns the path the signature must verify against. A caller
// path that names the target is used as sent, otherwise the canonical path.
func signedPath(path, name string, resource ...string) string {
	if namesResource(path, name, resource) {
		return path
	}
	segments := []string{url.PathEscape(model.NormalizeName(name))}
	for _, r := range resource {
		segments = append(segments, url.PathEscape(r))
	}
	return pluginsPrefix + strings.Join(segments, "/")
}

func namesResource(path, name string, resource []string) bool {
	rest, ok := strings.CutPrefix(path, pluginsPrefix)
	if !ok {
		return false
	}
	parts := strings.Split(rest, "/")
	if len(parts) != len(resource)+1 {
		return false
	}
	if !segmentIs(parts[0], name, model.NormalizeName) {
		return false
	}
	for i, r := range resource {
		if !segmentIs(parts[i+1], r, nil) {
			return false
		}
	}
	return true
}

// segmentIs compares a path segment to want, both as sent and unescaped.
func segmentIs(segment, want string, norm func(string) string) bool {
	if norm == nil {
		norm = func(v string) string { return v }
	}
	if norm(segment) == norm(want) {
		return true
	}
	unescaped, err := url.PathUnescape(segment)
	return err == nil && norm(unescaped) == norm(want)
}

func lookupPlugin(ctx context.Context, repos *repo.Repositories, name string) (*model.Plugin, error) {
	p, err := repos.Plugin.GetByName(ctx, model.NormalizeName(name))
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, pluginNotFound(name)
	}
	return p, nil
}
