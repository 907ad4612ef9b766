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

// Package client is a Go client for the plugin registry HTTP API. Requests
// are signed automatically when a signer is configured.
package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/registry/internal/registry/model"
	"github.com/go-arcade/registry/pkg/base85"
	"github.com/go-arcade/registry/pkg/signature"
	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

const (
	headerSignature       = "X-Signature"
	headerMaintainerEmail = "X-Maintainer-Email"
)

// APIError is a non 2xx answer from the registry.
type APIError struct {
	StatusCode int
	Detail     string
	Path       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("registry returned %d: %s", e.StatusCode, e.Detail)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

type envelope[T any] struct {
	Status string `json:"status"`
	Data   T      `json:"data"`
}

type errorBody struct {
	Status string `json:"status"`
	Detail string `json:"detail"`
	Path   string `json:"path"`
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.rest.SetTimeout(d) }
}

type Client struct {
	rest   *resty.Client
	signer *signature.Signer
}

// New creates a client for baseURL. signer may be nil for read only use.
func New(baseURL string, signer *signature.Signer, opts ...Option) *Client {
	c := &Client{
		rest:   resty.New().SetBaseURL(baseURL).SetTimeout(60 * time.Second),
		signer: signer,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.rest.
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal).
		SetPreRequestHook(c.sign)
	return c
}

// sign adds the gate headers, signing the exact path that goes on the wire.
func (c *Client) sign(_ *resty.Client, req *http.Request) error {
	if c.signer == nil {
		return nil
	}
	sig, err := c.signer.Sign(req.URL.EscapedPath())
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", c.signer.AuthorizedKey())
	req.Header.Set(headerSignature, sig)
	return nil
}

func (c *Client) request(ctx context.Context, params map[string]string) *resty.Request {
	return c.rest.R().SetContext(ctx).SetPathParams(params)
}

func decode[T any](resp *resty.Response, err error, op string) (T, error) {
	var out envelope[T]
	if err != nil {
		return out.Data, errors.Wrapf(err, "failed to %s", op)
	}
	if resp.IsError() {
		return out.Data, apiError(resp)
	}
	if resp.StatusCode() == http.StatusNoContent || len(resp.Body()) == 0 {
		return out.Data, nil
	}
	if err := sonic.Unmarshal(resp.Body(), &out); err != nil {
		return out.Data, errors.Wrapf(err, "failed to decode %s response", op)
	}
	return out.Data, nil
}

func apiError(resp *resty.Response) error {
	var body errorBody
	if err := sonic.Unmarshal(resp.Body(), &body); err != nil || body.Detail == "" {
		body.Detail = resp.String()
	}
	return &APIError{StatusCode: resp.StatusCode(), Detail: body.Detail, Path: body.Path}
}

func (c *Client) ListPlugins(ctx context.Context, page, pageSize int) ([]model.PluginView, error) {
	req := c.request(ctx, nil)
	if page > 0 {
		req.SetQueryParam("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		req.SetQueryParam("page_size", strconv.Itoa(pageSize))
	}
	resp, err := req.Get("/v1/plugins")
	return decode[[]model.PluginView](resp, err, "list plugins")
}

func (c *Client) GetPlugin(ctx context.Context, name string) (*model.PluginView, error) {
	resp, err := c.request(ctx, map[string]string{"name": name}).Get("/v1/plugins/{name}")
	return decode[*model.PluginView](resp, err, "get plugin")
}

// CreatePlugin registers name with the signer's key as first maintainer.
func (c *Client) CreatePlugin(ctx context.Context, name, email string) error {
	req := c.request(ctx, nil).SetBody(map[string]string{"name": name})
	if email != "" {
		req.SetHeader(headerMaintainerEmail, email)
	}
	resp, err := req.Post("/v1/plugins")
	_, err = decode[any](resp, err, "create plugin")
	return err
}

func (c *Client) DeletePlugin(ctx context.Context, name string) error {
	resp, err := c.request(ctx, map[string]string{"name": name}).Delete("/v1/plugins/{name}")
	_, err = decode[any](resp, err, "delete plugin")
	return err
}

func (c *Client) ListVersions(ctx context.Context, name string) ([]model.VersionView, error) {
	resp, err := c.request(ctx, map[string]string{"name": name}).Get("/v1/plugins/{name}/versions")
	return decode[[]model.VersionView](resp, err, "list versions")
}

// LatestVersion returns nil when the plugin has no versions.
func (c *Client) LatestVersion(ctx context.Context, name string) (*model.VersionView, error) {
	resp, err := c.request(ctx, map[string]string{"name": name}).Get("/v1/plugins/{name}/versions/latest")
	return decode[*model.VersionView](resp, err, "get latest version")
}

func (c *Client) GetVersion(ctx context.Context, name, version string) (*model.VersionView, error) {
	resp, err := c.request(ctx, map[string]string{"name": name, "version": version}).
		Get("/v1/plugins/{name}/versions/{version}")
	return decode[*model.VersionView](resp, err, "get version")
}

// PublishVersion uploads tarball as a new version.
func (c *Client) PublishVersion(ctx context.Context, name, version string, tarball []byte) error {
	resp, err := c.request(ctx, map[string]string{"name": name, "version": version}).
		SetBody(map[string]string{"tarball": base85.Encode(tarball)}).
		Post("/v1/plugins/{name}/versions/{version}")
	_, err = decode[any](resp, err, "publish version")
	return err
}

func (c *Client) DeleteVersion(ctx context.Context, name, version string) error {
	resp, err := c.request(ctx, map[string]string{"name": name, "version": version}).
		Delete("/v1/plugins/{name}/versions/{version}")
	_, err = decode[any](resp, err, "delete version")
	return err
}

func (c *Client) ListMaintainers(ctx context.Context, name string) ([]model.MaintainerView, error) {
	resp, err := c.request(ctx, map[string]string{"name": name}).Get("/v1/plugins/{name}/maintainers")
	return decode[[]model.MaintainerView](resp, err, "list maintainers")
}

// AddMaintainer links sshKey to the plugin and reports whether the registry
// created a new maintainer for it.
func (c *Client) AddMaintainer(ctx context.Context, name, sshKey string, email *string) (bool, error) {
	body := map[string]any{"ssh_key": sshKey}
	if email != nil {
		body["email"] = *email
	}
	resp, err := c.request(ctx, map[string]string{"name": name}).SetBody(body).Post("/v1/plugins/{name}/maintainers")
	if _, err := decode[any](resp, err, "add maintainer"); err != nil {
		return false, err
	}
	return resp.StatusCode() == http.StatusCreated, nil
}

// DecodeFile returns the artifact bytes carried by v.
func DecodeFile(v *model.VersionView) ([]byte, error) {
	if v == nil || v.File == nil {
		return nil, errors.New("version carries no artifact")
	}
	data, err := base85.Decode(*v.File)
	return data, errors.Wrap(err, "failed to decode artifact")
}
