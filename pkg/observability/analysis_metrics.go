package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricFilesTotal   = "tsmetrics.analysis.files.total"
	metricScopesTotal  = "tsmetrics.analysis.scopes.total"
	metricFileDuration = "tsmetrics.analysis.file.duration.seconds"

	attrScope    = "scope"
	attrSeverity = "severity"
)

// File outcomes recorded by AnalysisMetrics.
const (
	FileAnalyzed = "analyzed"
	FileSkipped  = "skipped"
	FileFailed   = "failed"
)

// AnalysisMetrics holds the instruments describing analysis runs.
type AnalysisMetrics struct {
	filesTotal   metric.Int64Counter
	scopesTotal  metric.Int64Counter
	fileDuration metric.Float64Histogram
}

// NewAnalysisMetrics creates analysis instruments from mt.
func NewAnalysisMetrics(mt metric.Meter) (*AnalysisMetrics, error) {
	files, err := mt.Int64Counter(metricFilesTotal,
		metric.WithDescription("Source files seen, by outcome"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFilesTotal, err)
	}

	scopes, err := mt.Int64Counter(metricScopesTotal,
		metric.WithDescription("Scopes measured, by kind and severity"),
		metric.WithUnit("{scope}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricScopesTotal, err)
	}

	duration, err := mt.Float64Histogram(metricFileDuration,
		metric.WithDescription("Parse and analysis time per file in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFileDuration, err)
	}

	return &AnalysisMetrics{
		filesTotal:   files,
		scopesTotal:  scopes,
		fileDuration: duration,
	}, nil
}

// RecordFile records one file outcome. Duration is recorded for analyzed files only.
func (am *AnalysisMetrics) RecordFile(ctx context.Context, status string, duration time.Duration) {
	if am == nil {
		return
	}

	am.filesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrStatus, status)))

	if status == FileAnalyzed {
		am.fileDuration.Record(ctx, duration.Seconds())
	}
}

// RecordScope records one measured scope.
func (am *AnalysisMetrics) RecordScope(ctx context.Context, kind, severity string) {
	if am == nil {
		return
	}

	am.scopesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrScope, kind),
		attribute.String(attrSeverity, severity),
	))
}
