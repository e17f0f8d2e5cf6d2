package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Sumatoshi-tech/tsmetrics/pkg/observability"
)

func newReader(t *testing.T) (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	t.Cleanup(func() { require.NoError(t, mp.Shutdown(context.Background())) })

	return reader, mp
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))

	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for idx := range rm.ScopeMetrics {
		for midx := range rm.ScopeMetrics[idx].Metrics {
			if rm.ScopeMetrics[idx].Metrics[midx].Name == name {
				return &rm.ScopeMetrics[idx].Metrics[midx]
			}
		}
	}

	return nil
}

func sumInt(t *testing.T, m *metricdata.Metrics) int64 {
	t.Helper()

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}

	return total
}

func TestREDMetrics_RecordRequest(t *testing.T) {
	t.Parallel()

	reader, mp := newReader(t)

	red, err := observability.NewREDMetrics(mp.Meter("test"))
	require.NoError(t, err)

	red.RecordRequest(context.Background(), "analyze", observability.StatusOK, 100*time.Millisecond)
	red.RecordRequest(context.Background(), "analyze", observability.StatusError, time.Second)

	rm := collectMetrics(t, reader)

	requests := findMetric(rm, "tsmetrics.requests.total")
	require.NotNil(t, requests)
	assert.Equal(t, int64(2), sumInt(t, requests))

	errs := findMetric(rm, "tsmetrics.errors.total")
	require.NotNil(t, errs)
	assert.Equal(t, int64(1), sumInt(t, errs))

	assert.NotNil(t, findMetric(rm, "tsmetrics.request.duration.seconds"))
}

func TestREDMetrics_TrackInflight(t *testing.T) {
	t.Parallel()

	reader, mp := newReader(t)

	red, err := observability.NewREDMetrics(mp.Meter("test"))
	require.NoError(t, err)

	done := red.TrackInflight(context.Background(), "analyze")

	inflight := findMetric(collectMetrics(t, reader), "tsmetrics.inflight.requests")
	require.NotNil(t, inflight)
	assert.Equal(t, int64(1), sumInt(t, inflight))

	done()

	inflight = findMetric(collectMetrics(t, reader), "tsmetrics.inflight.requests")
	require.NotNil(t, inflight)
	assert.Equal(t, int64(0), sumInt(t, inflight))
}

func TestREDMetrics_NilSafe(t *testing.T) {
	t.Parallel()

	var red *observability.REDMetrics

	red.RecordRequest(context.Background(), "x", observability.StatusOK, time.Millisecond)
	red.TrackInflight(context.Background(), "x")()
}

func TestAnalysisMetrics(t *testing.T) {
	t.Parallel()

	reader, mp := newReader(t)

	am, err := observability.NewAnalysisMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	am.RecordFile(ctx, observability.FileAnalyzed, 5*time.Millisecond)
	am.RecordFile(ctx, observability.FileSkipped, 0)
	am.RecordScope(ctx, "function", "alert")
	am.RecordScope(ctx, "file", "normal")

	rm := collectMetrics(t, reader)

	files := findMetric(rm, "tsmetrics.analysis.files.total")
	require.NotNil(t, files)
	assert.Equal(t, int64(2), sumInt(t, files))

	scopes := findMetric(rm, "tsmetrics.analysis.scopes.total")
	require.NotNil(t, scopes)
	assert.Equal(t, int64(2), sumInt(t, scopes))

	duration := findMetric(rm, "tsmetrics.analysis.file.duration.seconds")
	require.NotNil(t, duration)

	hist, ok := duration.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)
}
