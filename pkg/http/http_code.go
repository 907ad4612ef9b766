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

var (
	Forbidden           = failed(403, "Forbidden")
	NotFound            = failed(404, "Not found")
	Conflict            = failed(406, "Conflict")
	UnprocessableEntity = failed(422, "Request parameter parsing failed")

	InternalError = failed(500, "Internal error, please contact the administrator")
)

type Code struct {
	Code int
	Msg  string
}

// failed 构造函数
func failed(code int, msg string) *Code {
	return &Code{
		Code: code,
		Msg:  msg,
	}
}
