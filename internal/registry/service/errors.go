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
	"errors"
	"fmt"
)

// Error kinds. Every error returned by RegistryService that the caller can
// act on wraps exactly one of these.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrStorage         = errors.New("storage failure")
)

// Error carries a caller facing message for one of the error kinds.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindOf returns the kind wrapped by err, or nil for internal errors.
func KindOf(err error) error {
	for _, kind := range []error{ErrNotFound, ErrConflict, ErrForbidden, ErrInvalidArgument, ErrStorage} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

func newError(kind error, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: cause}
}

func pluginNotFound(name string) *Error {
	return newError(ErrNotFound, nil, "Plugin %s not found.", name)
}

func versionNotFound(name, version string) *Error {
	return newError(ErrNotFound, nil, "Version %s not found for plugin %s.", version, name)
}

func invalidArgument(format string, args ...any) *Error {
	return newError(ErrInvalidArgument, nil, format, args...)
}

// resultOf is the operation metric label for err.
func resultOf(err error) string {
	switch KindOf(err) {
	case nil:
		if err == nil {
			return "ok"
		}
		return "error"
	case ErrNotFound:
		return "not_found"
	case ErrConflict:
		return "conflict"
	case ErrForbidden:
		return "forbidden"
	case ErrInvalidArgument:
		return "invalid_argument"
	default:
		return "storage_failure"
	}
}
