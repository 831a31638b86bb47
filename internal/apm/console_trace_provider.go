package apm

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// noopTraceProvider satisfies TraceProvider when exporting is
// disabled; spans are still created but go nowhere.
type noopTraceProvider struct{}

func NewEmptyTraceProvider() TraceProvider {
	return noopTraceProvider{}
}

func (noopTraceProvider) Stop() error { return nil }

// NewConsoleTraceProvider pretty-prints spans to stdout, for local
// runs without a collector.
func NewConsoleTraceProvider() TraceProvider {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return noopTraceProvider{}
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)

	return &traceProvider{tp: tp}
}
