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


package middleware

import (
	"context"

	"github.com/go-arcade/registry/pkg/trace/inject"
	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// TraceMiddleware 链路追踪中间件
// 对 HTTP 服务器请求进行埋点，并延续请求头中的 trace context
func TraceMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		if ctx == nil {
			ctx = context.Background()
		}

		carrier := propagation.MapCarrier{}
		for k, v := range c.GetReqHeaders() {
			if len(v) > 0 {
				carrier.Set(k, v[0])
			}
		}
		ctx = otel.GetTextMapPropagator().Extract(ctx, carrier)

		route := c.Path()
		_, err := inject.HTTPServerRequest(ctx, c.Method(), route, func(ctx context.Context) (int, error) {
			// 将 trace context 设置回 fiber context，以便后续中间件和处理器使用
			c.SetUserContext(ctx)
			// 在 span 内执行错误处理，确保记录的是最终状态码
			if nextErr := c.Next(); nextErr != nil {
				if herr := c.App().ErrorHandler(c, nextErr); herr != nil {
					return fiber.StatusInternalServerError, herr
				}
			}
			return c.Response().StatusCode(), nil
		})
		return err
	}
}
