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


package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type ResponseErr struct {
	Status string `json:"status"`
	Detail string `json:"detail"`
	Path   string `json:"path,omitempty"`
}

// WithRepErr 返回失败结果，返回结构体有path字段
func WithRepErr(c *fiber.Ctx, code int, detail string, path string) error {
	return c.Status(code).JSON(ResponseErr{
		Status: StatusError,
		Detail: detail,
		Path:   path,
	})
}

// StatusMapper maps a handler error to an http status and caller facing message.
// ok is false when the error is unknown to the mapper.
type StatusMapper func(err error) (code int, detail string, ok bool)

// NewErrorHandler builds the fiber error handler. Unknown errors are reported
// as InternalError without leaking their text.
func NewErrorHandler(mapper StatusMapper) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if mapper != nil {
			if code, detail, ok := mapper(err); ok {
				return WithRepErr(c, code, detail, c.Path())
			}
		}
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return WithRepErr(c, fe.Code, fe.Message, c.Path())
		}
		return WithRepErr(c, InternalError.Code, InternalError.Msg, c.Path())
	}
}
