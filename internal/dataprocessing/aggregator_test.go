package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "esccli/internal/errors"
	"esccli/pkg/contracts/domain"
)

func collect(t *testing.T, agg *Aggregator, id string, tl testLog) LogOffsets {
	t.Helper()
	set := NewSegmenter(nil, DefaultMarkers()).Segment(tl.blob(id))
	return agg.CollectOffsets(id, set)
}

func TestParseCorruptionScope(t *testing.T) {
	tests := []struct {
		input     string
		expected  CorruptionScope
		expectErr bool
	}{
		{input: "log", expected: ScopeLog},
		{input: "band", expected: ScopeBand},
		{input: "", expected: ScopeLog},
		{input: "family", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCorruptionScope(tt.input)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestAggregator_CollectOffsets(t *testing.T) {
	agg := NewAggregator(newTestExtractor(), ScopeLog)

	t.Run("complete log", func(t *testing.T) {
		got := collect(t, agg, "good.xml", fullLog(0))
		assert.False(t, got.Corrupt())
		assert.Empty(t, got.CorruptBands())
		for _, band := range domain.AllBands() {
			series := got.Series[band]
			assert.Equal(t, domain.SeriesComplete, series.Status, band.String())
			assert.Len(t, series.Values, band.Spec().CanonicalLength())
			assert.Equal(t, "good.xml", series.LogID)
		}
		assert.Len(t, got.Series[domain.BandB2].Values, 24)
	})

	t.Run("malformed offset", func(t *testing.T) {
		tl := fullLog(0)
		tl.offsets[domain.BandB4][3] = "x"
		got := collect(t, agg, "bad.xml", tl)

		require.True(t, got.Corrupt())
		assert.Equal(t, []domain.BandID{domain.BandB4}, got.CorruptBands())
		series := got.Series[domain.BandB4]
		assert.Equal(t, domain.SeriesCorrupt, series.Status)
		assert.Equal(t, make([]int, 24), series.Values, "placeholder keeps canonical length")

		cause := got.Causes[domain.BandB4]
		assert.ErrorIs(t, cause, apperrors.ErrMalformedField)
		assert.Contains(t, cause.Error(), "bad.xml")
		assert.Equal(t, domain.SeriesComplete, got.Series[domain.BandB2].Status)
	})

	t.Run("channel absent is empty not corrupt", func(t *testing.T) {
		tl := fullLog(0)
		tl.offsets[domain.BandB12] = nil
		got := collect(t, agg, "empty.xml", tl)

		assert.False(t, got.Corrupt())
		series := got.Series[domain.BandB12]
		assert.Equal(t, domain.SeriesEmpty, series.Status)
		assert.Empty(t, series.Values)
	})

	t.Run("short series", func(t *testing.T) {
		tl := fullLog(0)
		tl.offsets[domain.BandB2] = tl.offsets[domain.BandB2][:10]
		got := collect(t, agg, "short.xml", tl)

		assert.False(t, got.Corrupt())
		assert.Equal(t, domain.SeriesShort, got.Series[domain.BandB2].Status)
		assert.Len(t, got.Series[domain.BandB2].Values, 10)
	})

	t.Run("missing segment is corrupt", func(t *testing.T) {
		tl := fullLog(0)
		tl.noTerminal = true
		got := collect(t, agg, "cut.xml", tl)

		assert.Equal(t, []domain.BandID{domain.BandB17Diversity}, got.CorruptBands())
		assert.ErrorIs(t, got.Causes[domain.BandB17Diversity], apperrors.ErrMissingMarker)
		assert.Equal(t, make([]int, 6), got.Series[domain.BandB17Diversity].Values)
	})
}

func TestAggregator_AverageExcludesCorruptLogs(t *testing.T) {
	agg := NewAggregator(newTestExtractor(), ScopeLog)

	bad := fullLog(20)
	bad.noLNA = map[domain.BandID]bool{domain.BandB5: true}
	logs := []LogOffsets{
		collect(t, agg, "a.xml", fullLog(0)),
		collect(t, agg, "b.xml", bad),
		collect(t, agg, "c.xml", fullLog(2)),
	}

	tables := agg.Average(logs)
	require.Len(t, tables, 10)

	for _, band := range domain.AllBands() {
		table := tables[band]
		require.NoError(t, table.Err, band.String())
		spec := band.Spec()
		for d, device := range spec.Devices {
			for _, level := range spec.RxLevels {
				pos := d*len(spec.RxLevels) + level.Index
				// seeds 0 and 2 contribute (pos-10) and (pos-8); the corrupt log is left out entirely
				expected := ((pos - 10) + (pos - 8)) / 2
				got, ok := table.Value(device, level.Index)
				require.True(t, ok)
				assert.Equal(t, expected, got, "%s %s level %d", band, device, level.Index)
				assert.Equal(t, 2, table.Contributors[domain.LNACell{Device: device, Level: level.Index}])
			}
		}
	}

	corrupt := CorruptLogs(logs)
	assert.Equal(t, []domain.CorruptLog{{LogID: "b.xml", Bands: []domain.BandID{domain.BandB5}}}, corrupt)
}

func TestAggregator_AverageTruncates(t *testing.T) {
	agg := NewAggregator(newTestExtractor(), ScopeLog)
	logs := []LogOffsets{
		collect(t, agg, "a.xml", fullLog(0)),
		collect(t, agg, "b.xml", fullLog(1)),
	}

	tables := agg.Average(logs)
	// -10 and -9 average to -9.5, truncated toward zero
	got, ok := tables[domain.BandB2].Value("Dev0", 0)
	require.True(t, ok)
	assert.Equal(t, -9, got)
}

func TestAggregator_BandScope(t *testing.T) {
	agg := NewAggregator(newTestExtractor(), ScopeBand)

	bad := fullLog(20)
	bad.noLNA = map[domain.BandID]bool{domain.BandB5: true}
	logs := []LogOffsets{
		collect(t, agg, "a.xml", fullLog(0)),
		collect(t, agg, "b.xml", bad),
	}
	tables := agg.Average(logs)

	b5, _ := tables[domain.BandB5].Value("Dev0", 0)
	assert.Equal(t, -10, b5, "corrupt band excluded")
	assert.Equal(t, 1, tables[domain.BandB5].Contributors[domain.LNACell{Device: "Dev0", Level: 0}])

	b2, _ := tables[domain.BandB2].Value("Dev0", 0)
	assert.Equal(t, 0, b2, "healthy bands still averaged: (-10 + 10) / 2")
	assert.Equal(t, 2, tables[domain.BandB2].Contributors[domain.LNACell{Device: "Dev0", Level: 0}])
}

func TestAggregator_AllCorrupt(t *testing.T) {
	agg := NewAggregator(newTestExtractor(), ScopeLog)

	bad := fullLog(0)
	bad.noLNA = map[domain.BandID]bool{domain.BandB13: true}
	logs := []LogOffsets{collect(t, agg, "a.xml", bad)}

	tables := agg.Average(logs)
	for _, band := range domain.AllBands() {
		table := tables[band]
		require.Error(t, table.Err, band.String())
		assert.ErrorIs(t, table.Err, apperrors.ErrAllCorrupt)
		assert.Contains(t, table.Err.Error(), "all 1 logs are corrupt")
		assert.Empty(t, table.Offsets)
	}
}

func TestAggregator_ChannelAbsentEverywhere(t *testing.T) {
	agg := NewAggregator(newTestExtractor(), ScopeLog)

	var logs []LogOffsets
	for i, name := range []string{"a.xml", "b.xml"} {
		tl := fullLog(i)
		tl.offsets[domain.BandB12] = nil
		logs = append(logs, collect(t, agg, name, tl))
	}
	assert.Empty(t, CorruptLogs(logs))

	tables := agg.Average(logs)
	table := tables[domain.BandB12]
	require.Error(t, table.Err)
	assert.ErrorIs(t, table.Err, apperrors.ErrAllCorrupt)
	assert.Contains(t, table.Err.Error(), "no offsets present in 2 usable logs")
	assert.NotContains(t, table.Err.Error(), "logs are corrupt")
	assert.Empty(t, table.Offsets)
	assert.NoError(t, tables[domain.BandB2].Err)
}

func TestAggregator_ShortSeriesCellsHaveFewerContributors(t *testing.T) {
	agg := NewAggregator(newTestExtractor(), ScopeLog)

	short := fullLog(2)
	short.offsets[domain.BandB5] = short.offsets[domain.BandB5][:3]
	logs := []LogOffsets{
		collect(t, agg, "a.xml", fullLog(0)),
		collect(t, agg, "b.xml", short),
	}
	table := agg.Average(logs)[domain.BandB5]
	require.NoError(t, table.Err)

	assert.Equal(t, 2, table.Contributors[domain.LNACell{Device: "Dev0", Level: 2}])
	assert.Equal(t, 1, table.Contributors[domain.LNACell{Device: "Dev0", Level: 3}])
	v, _ := table.Value("Dev0", 3)
	assert.Equal(t, -7, v)
}
