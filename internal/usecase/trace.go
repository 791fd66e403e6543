package usecase

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("gridiron-loader/internal/usecase")

// traceStep opens a child span only when ctx already carries a sampled
// parent, so CLI runs without tracing pay nothing. The returned func ends
// the span and records err.
func traceStep(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	if !trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, func(error) {}
	}
	ctx, span := tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	return ctx, func(err error) {
		if err != nil {
			var keyErr *KeyError
			if crerr.As(err, &keyErr) {
				span.SetAttributes(attribute.String("table.failed_key", keyErr.Key.String()))
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}
