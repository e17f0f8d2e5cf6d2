package observability

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/embedded"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

// Hot-path instrumentation names dropped unless verbose tracing is on.
const (
	TracerSyntax  = "tsmetrics.syntax"
	SpanParseFile = "tsmetrics.file.parse"
	SpanWalkFile  = "tsmetrics.file.walk"
)

// filteringTracerProvider returns no-op tracers for suppressed tracer names
// and no-op spans for suppressed span names.
type filteringTracerProvider struct {
	embedded.TracerProvider

	delegate          trace.TracerProvider
	noop              trace.TracerProvider
	suppressedTracers map[string]bool
	suppressedSpans   map[string]bool
}

// NewFilteringTracerProvider wraps delegate so per-file spans are dropped
// while request and run spans are kept.
func NewFilteringTracerProvider(delegate trace.TracerProvider) trace.TracerProvider {
	return &filteringTracerProvider{
		delegate:          delegate,
		noop:              nooptrace.NewTracerProvider(),
		suppressedTracers: map[string]bool{TracerSyntax: true},
		suppressedSpans: map[string]bool{
			SpanParseFile: true,
			SpanWalkFile:  true,
		},
	}
}

// Tracer returns a tracer for name, or a no-op tracer when name is suppressed.
func (f *filteringTracerProvider) Tracer(name string, opts ...trace.TracerOption) trace.Tracer {
	if f.suppressedTracers[name] {
		return f.noop.Tracer(name, opts...)
	}

	return &filteringTracer{
		delegate: f.delegate.Tracer(name, opts...),
		noop:     f.noop.Tracer(name, opts...),
		suppress: f.suppressedSpans,
	}
}

type filteringTracer struct {
	embedded.Tracer

	delegate trace.Tracer
	noop     trace.Tracer
	suppress map[string]bool
}

// Start returns a no-op span for suppressed names.
func (f *filteringTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if f.suppress[name] {
		return f.noop.Start(ctx, name, opts...)
	}

	return f.delegate.Start(ctx, name, opts...)
}
