package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"esccli/internal/config"
	apperrors "esccli/internal/errors"
	"esccli/internal/infrastructure"
	"esccli/pkg/contracts/domain"
)

// TracerName is the instrumentation scope of pipeline spans
const TracerName = "esccli.pipeline"

// Options configures a Pipeline
type Options struct {
	// Workers bounds concurrent per-log extraction; below one uses GOMAXPROCS
	Workers      int
	Scope        CorruptionScope
	PowerWindow  int
	OffsetWindow int
	Markers      Markers
	// Scanner overrides the literal scanner
	Scanner Scanner
}

// DefaultOptions returns options matching the QDART report layout
func DefaultOptions() Options {
	return Options{
		Workers:      runtime.GOMAXPROCS(0),
		Scope:        ScopeLog,
		PowerWindow:  defaultPowerWindow,
		OffsetWindow: defaultOffsetWindow,
		Markers:      DefaultMarkers(),
	}
}

// OptionsFromConfig maps the analysis and marker configuration onto Options
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	scope, err := ParseCorruptionScope(cfg.Analysis.CorruptionScope)
	if err != nil {
		return Options{}, apperrors.NewConfigError("analysis.corruption_scope", err)
	}
	m := cfg.Markers
	return Options{
		Workers:      cfg.Analysis.Workers,
		Scope:        scope,
		PowerWindow:  cfg.Analysis.PowerWindow,
		OffsetWindow: cfg.Analysis.OffsetWindow,
		Markers: Markers{
			BandPrefix:        m.BandPrefix,
			DiversityAnchor:   m.DiversityAnchor,
			Terminal:          m.Terminal,
			LNABlock:          m.LNABlock,
			ChannelTerminator: m.ChannelTerminator,
			OffsetLabel:       m.OffsetLabel,
			MaxPowerLabel:     m.MaxPowerLabel,
			MinPowerLabel:     m.MinPowerLabel,
			ValueOpen:         m.ValueOpen,
			ValueClose:        m.ValueClose,
		},
	}, nil
}

// LogExtraction is everything pulled out of one log before cross-log reduction
type LogExtraction struct {
	LogID     string
	Segments  SegmentSet
	Sweep     map[domain.BandID]map[domain.PowerLimit][]float64
	Anomalies []domain.SweepAnomaly
	Offsets   LogOffsets
}

// Pipeline runs segmentation and extraction over a batch of logs and reduces
// the results into statistics and LNA tables
type Pipeline struct {
	segmenter  *Segmenter
	extractor  *Extractor
	aggregator *Aggregator
	markers    Markers
	workers    int
	logger     *slog.Logger
	metrics    *infrastructure.PipelineMetrics
	tracer     trace.Tracer
}

// NewPipeline creates a pipeline. metrics may be nil.
func NewPipeline(opts Options, logger *slog.Logger, metrics *infrastructure.PipelineMetrics) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	workers := opts.Workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	extractor := NewExtractor(opts.Scanner, opts.Markers, opts.PowerWindow, opts.OffsetWindow)
	return &Pipeline{
		segmenter:  NewSegmenter(opts.Scanner, opts.Markers),
		extractor:  extractor,
		aggregator: NewAggregator(extractor, opts.Scope),
		markers:    opts.Markers,
		workers:    workers,
		logger:     infrastructure.WithComponent(logger, "pipeline"),
		metrics:    metrics,
		tracer:     otel.Tracer(TracerName),
	}
}

// Run analyzes logs. Logs are extracted concurrently, each into its own slot,
// and reduced in input order once all of them are done, so the result does
// not depend on the worker count. Per-log failures are recorded in the
// result; only an empty batch or cancellation fails the run.
func (p *Pipeline) Run(ctx context.Context, logs []domain.LogBlob) (*domain.AnalysisResult, error) {
	if len(logs) == 0 {
		return nil, apperrors.NewEmptyBatch("")
	}
	ctx = infrastructure.EnsureTraceID(ctx)
	runID := infrastructure.GetTraceID(ctx)
	started := time.Now()

	ctx, span := p.tracer.Start(ctx, "pipeline.run",
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.Int("run.logs", len(logs)),
			attribute.Int("run.workers", p.workers),
		),
	)
	defer span.End()

	p.logger.InfoContext(ctx, "Starting analysis",
		slog.Int("logs", len(logs)),
		slog.Int("workers", p.workers))

	extractions := make([]LogExtraction, len(logs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i := range logs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			extractions[i] = p.ExtractLog(gctx, logs[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "run cancelled")
		return nil, fmt.Errorf("analysis interrupted: %w", err)
	}

	result := p.reduce(ctx, runID, extractions)
	result.Duration = time.Since(started)
	p.metrics.RecordRun(ctx, result.CorruptCount(), result.Duration)

	span.SetAttributes(
		attribute.Int("run.corrupt", result.CorruptCount()),
		attribute.Int("run.missing_segments", len(result.MissingSegments)),
		attribute.Int("run.sweep_anomalies", len(result.SweepAnomalies)),
	)
	span.SetStatus(codes.Ok, "analysis complete")

	p.logger.InfoContext(ctx, "Analysis complete",
		slog.Int("processed", result.ProcessedCount()),
		slog.Int("corrupt", result.CorruptCount()),
		slog.Int("missing_segments", len(result.MissingSegments)),
		slog.Int("sweep_anomalies", len(result.SweepAnomalies)),
		slog.Duration("duration", result.Duration))
	return result, nil
}

// ExtractLog segments one log and extracts its sweep powers and offsets
func (p *Pipeline) ExtractLog(ctx context.Context, blob domain.LogBlob) LogExtraction {
	started := time.Now()
	_, span := p.tracer.Start(ctx, "pipeline.extract_log",
		trace.WithAttributes(attribute.String("log.id", blob.ID)))
	defer span.End()

	segments := p.segmenter.Segment(blob)
	ext := LogExtraction{
		LogID:    blob.ID,
		Segments: segments,
		Sweep:    make(map[domain.BandID]map[domain.PowerLimit][]float64, len(segments.Segments)),
	}

	for _, band := range domain.AllBands() {
		if err, failed := segments.Failures[band]; failed {
			p.logger.WarnContext(ctx, "Band segment missing",
				slog.String("log", blob.ID),
				slog.String("band", band.String()),
				slog.String("error", err.Error()))
			p.metrics.RecordMissingSegment(ctx, band.String())
			continue
		}
		ext.Sweep[band] = make(map[domain.PowerLimit][]float64, 2)
		for _, limit := range []domain.PowerLimit{domain.PowerLimitMax, domain.PowerLimitMin} {
			values, anomaly := p.sweep(blob.ID, band, limit, segments.Text(band))
			ext.Sweep[band][limit] = values
			if anomaly != nil {
				p.logger.WarnContext(ctx, "Sweep power anomaly",
					slog.String("log", blob.ID),
					slog.String("band", band.String()),
					slog.String("limit", string(limit)),
					slog.String("reason", anomaly.Reason()))
				p.metrics.RecordSweepAnomaly(ctx, band.String(), string(limit))
				ext.Anomalies = append(ext.Anomalies, *anomaly)
			}
		}
	}

	ext.Offsets = p.aggregator.CollectOffsets(blob.ID, segments)
	for _, band := range ext.Offsets.CorruptBands() {
		p.logger.WarnContext(ctx, "Error in parsing LNA offsets",
			slog.String("log", blob.ID),
			slog.String("band", band.String()),
			slog.String("error", ext.Offsets.Causes[band].Error()))
	}
	if ext.Offsets.Corrupt() {
		span.SetAttributes(attribute.Bool("log.corrupt", true))
	}

	p.metrics.RecordLog(ctx, time.Since(started))
	return ext
}

// sweep applies the sweep-power policy: a malformed window drops the key for
// this log, a short count keeps what was found, a long count keeps the first
// four. Every case other than exactly four values is an anomaly, except a
// diversity band carrying no sweep data at all.
func (p *Pipeline) sweep(logID string, band domain.BandID, limit domain.PowerLimit, segment string) ([]float64, *domain.SweepAnomaly) {
	values, err := p.extractor.SweepPower(segment, p.markers.PowerLabel(limit))
	if err != nil {
		return nil, &domain.SweepAnomaly{
			LogID: logID,
			Band:  band,
			Limit: limit,
			Found: len(values),
			Err:   apperrors.WithLog(err, logID, band),
		}
	}
	switch {
	case len(values) == domain.SweepOccurrences:
		return values, nil
	case len(values) == 0 && band.Family() == domain.BandFamilyDiversity:
		return values, nil
	case len(values) > domain.SweepOccurrences:
		return values[:domain.SweepOccurrences], &domain.SweepAnomaly{LogID: logID, Band: band, Limit: limit, Found: len(values)}
	}
	return values, &domain.SweepAnomaly{LogID: logID, Band: band, Limit: limit, Found: len(values)}
}

// reduce folds the per-log extractions, in input order, into the run result
func (p *Pipeline) reduce(ctx context.Context, runID string, extractions []LogExtraction) *domain.AnalysisResult {
	result := &domain.AnalysisResult{
		RunID:  runID,
		LogIDs: make([]string, 0, len(extractions)),
	}
	offsets := make([]LogOffsets, 0, len(extractions))
	for _, ext := range extractions {
		result.LogIDs = append(result.LogIDs, ext.LogID)
		offsets = append(offsets, ext.Offsets)
		result.SweepAnomalies = append(result.SweepAnomalies, ext.Anomalies...)
		for _, band := range domain.AllBands() {
			if err, failed := ext.Segments.Failures[band]; failed {
				result.MissingSegments = append(result.MissingSegments, domain.SegmentFailure{LogID: ext.LogID, Band: band, Err: err})
			}
		}
	}

	tables := p.aggregator.Average(offsets)
	result.Corrupt = CorruptLogs(offsets)

	for _, band := range domain.AllBands() {
		br := domain.BandResult{
			Band:  band,
			Sweep: make(map[domain.SweepMetric]domain.SummaryResult, 8),
			LNA:   tables[band],
		}
		for _, metric := range domain.SweepMetrics() {
			sample := sweepSample(extractions, band, metric)
			summary, err := Summarize(sample)
			if err != nil {
				br.Sweep[metric] = domain.SummaryResult{Samples: 0, Err: apperrors.NewEmptySample(band, metric.String())}
				continue
			}
			br.Sweep[metric] = domain.SummaryResult{Summary: summary, Samples: len(sample)}
		}
		if br.LNA.Err != nil {
			p.logger.ErrorContext(ctx, "LNA average undefined",
				slog.String("band", band.String()),
				slog.String("error", br.LNA.Err.Error()))
		}
		result.Bands = append(result.Bands, br)
	}
	return result
}

// sweepSample gathers one metric of one band across logs in input order
func sweepSample(extractions []LogExtraction, band domain.BandID, metric domain.SweepMetric) []float64 {
	var sample []float64
	pos := metric.Position()
	for _, ext := range extractions {
		values := ext.Sweep[band][metric.Limit]
		if pos < len(values) {
			sample = append(sample, values[pos])
		}
	}
	return sample
}
