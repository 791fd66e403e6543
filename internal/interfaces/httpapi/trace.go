package httpapi

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/gridiron-loader/internal/domain/table"
)

var tracer = otel.Tracer("gridiron-loader/internal/interfaces/httpapi")

// startHandlerSpan opens a child span only under a traced request, so routes
// filtered out by RequestTracing stay span-free.
func startHandlerSpan(ctx context.Context, handler string) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, parent
	}
	return tracer.Start(ctx, "httpapi.Handler."+handler)
}

func tableKeyAttributes(key table.Key) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("table.level", string(key.Level())),
		attribute.Int("table.season", key.Season),
		attribute.String("table.phase", string(key.Phase)),
	}
	if key.Period > 0 {
		attrs = append(attrs, attribute.Int("table.period", key.Period))
	}
	if key.Team != "" {
		attrs = append(attrs, attribute.String("table.team", key.Team))
	}
	return attrs
}

func tableSizeAttributes(t table.Table) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int("table.rows", len(t.Rows)),
		attribute.Int("table.columns", len(t.Columns)),
	}
}
