package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PipelineMetrics holds the instruments recorded during an analysis run.
// All methods are no-ops on a nil receiver.
type PipelineMetrics struct {
	LogsProcessed      metric.Int64Counter
	LogsCorrupt        metric.Int64Counter
	SegmentsMissing    metric.Int64Counter
	SweepAnomalies     metric.Int64Counter
	ExtractionDuration metric.Float64Histogram
	RunDuration        metric.Float64Histogram
}

// CreatePipelineMetrics registers the pipeline instruments on meter
func CreatePipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	logsProcessed, err := meter.Int64Counter(
		"esc_logs_processed_total",
		metric.WithDescription("Total number of logs run through the pipeline"),
	)
	if err != nil {
		return nil, err
	}

	logsCorrupt, err := meter.Int64Counter(
		"esc_logs_corrupt_total",
		metric.WithDescription("Total number of logs flagged corrupt"),
	)
	if err != nil {
		return nil, err
	}

	segmentsMissing, err := meter.Int64Counter(
		"esc_segments_missing_total",
		metric.WithDescription("Total number of band segments that could not be cut"),
	)
	if err != nil {
		return nil, err
	}

	sweepAnomalies, err := meter.Int64Counter(
		"esc_sweep_anomalies_total",
		metric.WithDescription("Total number of sweep power extractions with an unexpected result"),
	)
	if err != nil {
		return nil, err
	}

	extractionDuration, err := meter.Float64Histogram(
		"esc_log_extraction_duration_seconds",
		metric.WithDescription("Per-log segmentation and extraction time in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	runDuration, err := meter.Float64Histogram(
		"esc_run_duration_seconds",
		metric.WithDescription("Whole pipeline run time in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		LogsProcessed:      logsProcessed,
		LogsCorrupt:        logsCorrupt,
		SegmentsMissing:    segmentsMissing,
		SweepAnomalies:     sweepAnomalies,
		ExtractionDuration: extractionDuration,
		RunDuration:        runDuration,
	}, nil
}

// RecordLog records one processed log
func (m *PipelineMetrics) RecordLog(ctx context.Context, duration time.Duration) {
	if m == nil {
		return
	}
	m.LogsProcessed.Add(ctx, 1)
	m.ExtractionDuration.Record(ctx, duration.Seconds())
}

// RecordMissingSegment records a band segment that could not be cut
func (m *PipelineMetrics) RecordMissingSegment(ctx context.Context, band string) {
	if m == nil {
		return
	}
	m.SegmentsMissing.Add(ctx, 1, metric.WithAttributes(attribute.String("band", band)))
}

// RecordSweepAnomaly records a sweep extraction that did not yield four values
func (m *PipelineMetrics) RecordSweepAnomaly(ctx context.Context, band, limit string) {
	if m == nil {
		return
	}
	m.SweepAnomalies.Add(ctx, 1, metric.WithAttributes(
		attribute.String("band", band),
		attribute.String("limit", limit),
	))
}

// RecordRun records the outcome of a full run
func (m *PipelineMetrics) RecordRun(ctx context.Context, corrupt int, duration time.Duration) {
	if m == nil {
		return
	}
	m.LogsCorrupt.Add(ctx, int64(corrupt))
	m.RunDuration.Record(ctx, duration.Seconds())
}
