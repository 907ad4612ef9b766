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

	"github.com/go-arcade/registry/pkg/trace"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// StorageOperation wraps an object storage call in a client span.
func StorageOperation(ctx context.Context, provider, operation, key string, fn func(ctx context.Context) error) error {
	ctx, span := trace.StartSpan(ctx, "storage."+operation,
		oteltrace.WithSpanKind(oteltrace.SpanKindClient))
	defer span.End()

	trace.AddSpanAttributes(span,
		attribute.String("storage.provider", provider),
		attribute.String("storage.key", key),
	)

	err := fn(ctx)
	trace.RecordError(span, err)
	return err
}
