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

package inject

import (
	"context"
	"time"

	"github.com/go-arcade/registry/pkg/trace"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// HTTPServerRequest 对 HTTP 服务器请求进行埋点
// fn 处理请求，返回状态码和错误
func HTTPServerRequest(ctx context.Context, method, route string, fn func(ctx context.Context) (statusCode int, err error)) (int, error) {
	ctx, span := trace.StartSpan(ctx, method+" "+route,
		oteltrace.WithSpanKind(oteltrace.SpanKindServer))
	defer span.End()

	startTime := time.Now()
	trace.AddSpanAttributes(span,
		attribute.String("http.method", method),
		attribute.String("http.route", route),
	)

	statusCode, err := fn(ctx)

	trace.AddSpanAttributes(span,
		attribute.Int("http.status_code", statusCode),
		attribute.Int64("http.duration_ms", time.Since(startTime).Milliseconds()),
	)

	switch {
	case err != nil:
		trace.RecordError(span, err)
	case statusCode >= 500:
		trace.SetSpanStatus(span, codes.Error, "")
	default:
		trace.SetSpanStatus(span, codes.Ok, "")
	}
	return statusCode, err
}

// HTTPClientRequest 对 HTTP 客户端请求进行埋点
func HTTPClientRequest(ctx context.Context, method, url string, fn func(ctx context.Context) (statusCode int, err error)) (int, error) {
	ctx, span := trace.StartSpan(ctx, "http.client "+method,
		oteltrace.WithSpanKind(oteltrace.SpanKindClient))
	defer span.End()

	trace.AddSpanAttributes(span,
		attribute.String("http.method", method),
		attribute.String("http.url", url),
	)

	statusCode, err := fn(ctx)
	trace.AddSpanAttributes(span, attribute.Int("http.status_code", statusCode))
	if err != nil {
		trace.RecordError(span, err)
	}
	return statusCode, err
}
