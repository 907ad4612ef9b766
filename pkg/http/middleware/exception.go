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
	"fmt"
	"runtime/debug"

	httpx "github.com/go-arcade/registry/pkg/http"
	"github.com/go-arcade/registry/pkg/log"
	"github.com/gofiber/fiber/v2"
)

// ExceptionMiddleware 异常中间件
// 捕获 panic 错误，返回 500 状态码和错误信息，不向客户端暴露堆栈
func ExceptionMiddleware(c *fiber.Ctx) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.WithContext(c.UserContext()).Errorw("panic recovered",
				"path", c.Path(),
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
			err = httpx.WithRepErr(c, httpx.InternalError.Code, httpx.InternalError.Msg, c.Path())
		}
	}()

	return c.Next()
}
