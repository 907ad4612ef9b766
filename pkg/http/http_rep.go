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
	"github.com/gofiber/fiber/v2"
)

// Locals keys read by the unified response middleware
const (
	DETAIL    = "detail"
	OPERATION = "operation"
)

const (
	StatusOK    = "ok"
	StatusError = "error"
)

type Response struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

type ResponseStatus struct {
	Status string `json:"status"`
}

// WithRepJSON 返回 json 数据，data 为 nil 时输出 null
func WithRepJSON(c *fiber.Ctx, data any) error {
	return c.JSON(Response{
		Status: StatusOK,
		Data:   data,
	})
}

// WithRepNotDetail 只成功的返回操作结果，返回结构体没有data字段
func WithRepNotDetail(c *fiber.Ctx) error {
	return c.JSON(ResponseStatus{
		Status: StatusOK,
	})
}
