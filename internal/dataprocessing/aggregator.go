package dataprocessing

import (
	"fmt"

	apperrors "esccli/internal/errors"
	"esccli/pkg/contracts/domain"
)

// CorruptionScope decides which LNA averages a corrupt extraction is excluded from
type CorruptionScope string

const (
	// ScopeLog excludes a log from every band once any of its bands is corrupt
	ScopeLog CorruptionScope = "log"
	// ScopeBand excludes a log only from the bands whose extraction failed
	ScopeBand CorruptionScope = "band"
)

// ParseCorruptionScope validates a scope name
func ParseCorruptionScope(s string) (CorruptionScope, error) {
	switch CorruptionScope(s) {
	case ScopeLog, ScopeBand:
		return CorruptionScope(s), nil
	case "":
		return ScopeLog, nil
	}
	return "", fmt.Errorf("unknown corruption scope %q", s)
}

// LogOffsets is the offset extraction of one log across all bands
type LogOffsets struct {
	LogID  string
	Series map[domain.BandID]domain.OffsetSeries
	// Causes holds the extraction error behind every corrupt series
	Causes map[domain.BandID]error
}

// Corrupt reports whether any band of the log is corrupt
func (l LogOffsets) Corrupt() bool {
	return len(l.Causes) > 0
}

// CorruptBands lists the corrupt bands in band order
func (l LogOffsets) CorruptBands() []domain.BandID {
	var bands []domain.BandID
	for _, b := range domain.AllBands() {
		if _, ok := l.Causes[b]; ok {
			bands = append(bands, b)
		}
	}
	return bands
}

// Aggregator applies the corruption policy to offset extraction and
// averages the surviving series into LNA tables
type Aggregator struct {
	extractor *Extractor
	scope     CorruptionScope
}

// NewAggregator creates an aggregator
func NewAggregator(extractor *Extractor, scope CorruptionScope) *Aggregator {
	if scope == "" {
		scope = ScopeLog
	}
	return &Aggregator{extractor: extractor, scope: scope}
}

// CollectOffsets extracts the offset series of every band of one log. A band
// whose segment is missing or whose extraction fails gets a zero-filled
// placeholder of the band's canonical length and is marked corrupt.
func (a *Aggregator) CollectOffsets(logID string, segments SegmentSet) LogOffsets {
	out := LogOffsets{
		LogID:  logID,
		Series: make(map[domain.BandID]domain.OffsetSeries, len(domain.AllBands())),
		Causes: make(map[domain.BandID]error),
	}
	for _, band := range domain.AllBands() {
		spec := band.Spec()
		var (
			values []int
			err    error
		)
		if ferr, failed := segments.Failures[band]; failed {
			err = ferr
		} else {
			values, err = a.extractor.Offsets(segments.Text(band), spec.TargetChannel)
		}
		if err != nil {
			out.Causes[band] = apperrors.WithLog(err, logID, band)
			out.Series[band] = domain.OffsetSeries{
				LogID:  logID,
				Band:   band,
				Values: make([]int, spec.CanonicalLength()),
				Status: domain.SeriesCorrupt,
			}
			continue
		}
		out.Series[band] = domain.OffsetSeries{
			LogID:  logID,
			Band:   band,
			Values: values,
			Status: seriesStatus(len(values), spec.CanonicalLength()),
		}
	}
	return out
}

func seriesStatus(n, canonical int) domain.SeriesStatus {
	switch {
	case n == 0:
		return domain.SeriesEmpty
	case n < canonical:
		return domain.SeriesShort
	}
	return domain.SeriesComplete
}

// excluded reports whether a log's series for band stays out of the average
func (a *Aggregator) excluded(log LogOffsets, band domain.BandID) bool {
	if a.scope == ScopeBand {
		_, bad := log.Causes[band]
		return bad
	}
	return log.Corrupt()
}

// Average reduces the per-log series into one LNA table per band. Each cell
// is the truncated integer mean over the logs that are not excluded and whose
// series reaches that position. A cell nobody contributes to leaves the
// table with an AllCorrupt error when every log was excluded, and a
// MissingOffsets error when usable logs simply carry no offsets there.
func (a *Aggregator) Average(logs []LogOffsets) map[domain.BandID]domain.LNATable {
	tables := make(map[domain.BandID]domain.LNATable, len(domain.AllBands()))
	for _, band := range domain.AllBands() {
		spec := band.Spec()
		table := domain.LNATable{
			Band:         band,
			Offsets:      make(map[domain.LNACell]int, spec.CanonicalLength()),
			Contributors: make(map[domain.LNACell]int, spec.CanonicalLength()),
		}
		usable := 0
		for _, log := range logs {
			if !a.excluded(log, band) {
				usable++
			}
		}
		for d, device := range spec.Devices {
			for _, level := range spec.RxLevels {
				pos := d*len(spec.RxLevels) + level.Index
				var cell []int
				for _, log := range logs {
					if a.excluded(log, band) {
						continue
					}
					series := log.Series[band].Values
					if pos < len(series) {
						cell = append(cell, series[pos])
					}
				}
				mean, err := TruncatedMean(cell)
				if err != nil {
					if usable == 0 {
						table.Err = apperrors.NewAllCorrupt(band, len(logs))
					} else {
						table.Err = apperrors.NewMissingOffsets(band, usable)
					}
					continue
				}
				key := domain.LNACell{Device: device, Level: level.Index}
				table.Offsets[key] = mean
				table.Contributors[key] = len(cell)
			}
		}
		tables[band] = table
	}
	return tables
}

// CorruptLogs lists, in batch order, every log with at least one corrupt band
func CorruptLogs(logs []LogOffsets) []domain.CorruptLog {
	var out []domain.CorruptLog
	for _, log := range logs {
		if log.Corrupt() {
			out = append(out, domain.CorruptLog{LogID: log.LogID, Bands: log.CorruptBands()})
		}
	}
	return out
}
