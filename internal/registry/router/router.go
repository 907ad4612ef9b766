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

package router

import (
	"errors"

	"github.com/go-arcade/registry/internal/registry/service"
	httpx "github.com/go-arcade/registry/pkg/http"
	"github.com/go-arcade/registry/pkg/http/middleware"
	"github.com/go-arcade/registry/pkg/log"
	"github.com/go-arcade/registry/pkg/version"
	"github.com/gofiber/fiber/v2"
	"github.com/google/wire"
)

// ProviderSet 提供路由层相关的依赖
var ProviderSet = wire.NewSet(NewRouter)

type Router struct {
	Http    *httpx.Http
	Service *service.RegistryService
}

func NewRouter(httpConf *httpx.Http, svc *service.RegistryService) *Router {
	return &Router{
		Http:    httpConf,
		Service: svc,
	}
}

func (rt *Router) Router() *fiber.App {
	app := fiber.New(rt.Http.FiberConfig("Plugin Registry", httpx.NewErrorHandler(statusOf)))

	app.Use(
		middleware.RequestMiddleware(),
		middleware.RealIPMiddleware(),
		middleware.CorsMiddleware(),
		middleware.AccessLogMiddleware(rt.Http),
		middleware.TraceMiddleware(),
		middleware.ExceptionMiddleware,
		middleware.UnifiedResponseMiddleware(),
	)

	// 健康检查
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	// 版本信息
	app.Get("/version", func(c *fiber.Ctx) error {
		c.Locals(httpx.DETAIL, version.GetVersion())
		return nil
	})

	v1 := app.Group("/v1")
	{
		rt.pluginRouter(v1)
	}

	// 找不到路径时的处理 - 必须在所有路由注册之后
	app.Use(func(c *fiber.Ctx) error {
		return httpx.WithRepErr(c, httpx.NotFound.Code, "request path not found", c.Path())
	})

	return app
}

// statusOf maps service error kinds to HTTP statuses.
func statusOf(err error) (int, string, bool) {
	switch service.KindOf(err) {
	case service.ErrNotFound:
		return httpx.NotFound.Code, err.Error(), true
	case service.ErrConflict:
		return httpx.Conflict.Code, err.Error(), true
	case service.ErrForbidden:
		return httpx.Forbidden.Code, err.Error(), true
	case service.ErrInvalidArgument:
		return httpx.UnprocessableEntity.Code, err.Error(), true
	case service.ErrStorage:
		return httpx.InternalError.Code, err.Error(), true
	}

	var fe *fiber.Error
	if !errors.As(err, &fe) {
		log.Errorw("request failed", "error", err)
	}
	return 0, "", false
}
