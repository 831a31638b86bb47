package apm

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Tracer opens spans around engine operations, wrapping the OTEL
// tracer so call sites deal in the Span interface instead of the raw
// OTEL types.
type Tracer interface {
	StartSpanFromContext(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, Span)
	SpanFromContext(ctx context.Context) Span
	GetTracer() trace.Tracer
}

type engineTracer struct {
	tracer trace.Tracer
}

// NewTracer returns a Tracer scoped to the named component, typically
// one per surface ("gateway", "offers").
func NewTracer(name string) Tracer {
	return &engineTracer{tracer: otel.Tracer(name)}
}

func (t *engineTracer) StartSpanFromContext(
	ctx context.Context, name string, opts ...trace.SpanStartOption,
) (context.Context, Span) {
	ctx, span := t.tracer.Start(ctx, name, opts...)
	return ctx, NewSpan(span)
}

func (t *engineTracer) SpanFromContext(ctx context.Context) Span {
	return NewSpan(trace.SpanFromContext(ctx))
}

func (t *engineTracer) GetTracer() trace.Tracer {
	return t.tracer
}
