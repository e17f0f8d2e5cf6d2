package observability_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/tsmetrics/pkg/observability"
)

func TestAttributeFilter(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(observability.NewAttributeFilter(recorder, nil)),
	)

	_, span := tp.Tracer("test").Start(context.Background(), "tsmetrics.analyze")
	span.SetAttributes(
		attribute.String("file.path", "a.ts"),
		attribute.String("file.content", "secret()"),
		attribute.Int("analysis.files", 3),
		attribute.String("user.email", "dev@example.com"),
	)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)

	keys := make([]string, 0, 2)
	for _, kv := range ended[0].Attributes() {
		keys = append(keys, string(kv.Key))
	}

	assert.ElementsMatch(t, []string{"file.path", "analysis.files"}, keys)

	require.NoError(t, tp.ForceFlush(context.Background()))
	require.NoError(t, tp.Shutdown(context.Background()))
}

func TestAttributeFilter_ExportedSpans(t *testing.T) {
	t.Parallel()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(
		observability.NewAttributeFilter(sdktrace.NewSimpleSpanProcessor(exporter), nil),
	))

	t.Cleanup(func() { require.NoError(t, tp.Shutdown(context.Background())) })

	_, span := tp.Tracer("test").Start(context.Background(), "analyze")
	span.SetAttributes(
		attribute.String("file.path", "a.ts"),
		attribute.String("file.content", "secret"),
		attribute.Int("analysis.scopes", 3),
		attribute.String("user.email", "x@example.com"),
	)
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	keys := make([]string, 0, len(spans[0].Attributes))
	for _, kv := range spans[0].Attributes {
		keys = append(keys, string(kv.Key))
	}

	assert.ElementsMatch(t, []string{"file.path", "analysis.scopes"}, keys)
}
