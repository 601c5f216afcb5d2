// Package dataprocessing turns QDART ESC LTE calibration logs into the
// per-band statistics and LNA offset tables of the calibration report.
//
// # Architecture
//
// The package is organized into four stages:
//
// 1. Scanner: finds literal marker offsets in the raw report text
// 2. Segmenter: cuts each log into its ten band segments
// 3. Extractor: pulls sweep powers and LNA offsets out of a segment
// 4. Aggregator: applies the corruption policy and averages offsets across logs
//
// Pipeline ties the stages together. Logs are extracted concurrently and
// reduced in input order:
//
//	p := dataprocessing.NewPipeline(dataprocessing.DefaultOptions(), logger, metrics)
//	result, err := p.Run(ctx, blobs)
//
// # Error Handling
//
// Per-log problems never fail a run. Missing markers, malformed sweep values
// and corrupt offset series are recorded on the result and surfaced in the
// diagnostics output. Run fails only on an empty batch or cancellation.
package dataprocessing
