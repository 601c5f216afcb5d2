package dataprocessing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "esccli/internal/errors"
	"esccli/pkg/contracts/domain"
)

func TestSegmenter_BoundsSyntheticSequence(t *testing.T) {
	text := "head[A]aaaa[B]bb[C]tail"
	s := NewSegmenter(nil, DefaultMarkers())

	markers := []string{"[A]", "[B]", "[C]"}
	var segments []string
	for i := 0; i+1 < len(markers); i++ {
		start, end, missing := s.bounds(text, 0, markers[i], markers[i+1])
		require.Empty(t, missing)
		assert.Equal(t, strings.Index(text, markers[i]), start)
		assert.Equal(t, strings.Index(text, markers[i+1]), end)
		segments = append(segments, text[start:end])
	}
	assert.Equal(t, []string{"[A]aaaa", "[B]bb"}, segments)
}

func TestSegmenter_BoundsMissing(t *testing.T) {
	s := NewSegmenter(nil, DefaultMarkers())

	_, _, missing := s.bounds("[A] only", 0, "[A]", "[B]")
	assert.Equal(t, "[B]", missing)

	_, _, missing = s.bounds("[B] only", 0, "[A]", "[B]")
	assert.Equal(t, "[A]", missing)

	// the end marker is searched after the start, never at it
	start, end, missing := s.bounds("XX-XX", 0, "XX", "XX")
	require.Empty(t, missing)
	assert.Equal(t, 0, start)
	assert.Equal(t, 3, end)
}

func TestSegmenter_FullLog(t *testing.T) {
	blob := fullLog(0).blob("unit1.xml")
	set := NewSegmenter(nil, DefaultMarkers()).Segment(blob)

	assert.Empty(t, set.Failures)
	require.Len(t, set.Segments, 10)

	markers := DefaultMarkers()
	prevEnd := 0
	for _, band := range domain.AllBands() {
		seg, ok := set.Segments[band]
		require.True(t, ok, band.String())
		assert.True(t, set.Has(band))
		assert.Less(t, seg.Start, seg.End)
		assert.GreaterOrEqual(t, seg.Start, prevEnd, "segments must not overlap")
		assert.Equal(t, blob.Text[seg.Start:seg.End], seg.Text)
		assert.True(t, strings.HasPrefix(seg.Text, markers.Band(band)), band.String())
		assert.Contains(t, seg.Text, band.Spec().Title())
		prevEnd = seg.End
	}

	// each segment holds exactly its own section
	assert.NotContains(t, set.Text(domain.BandB2), "ESC LTE B4")
	assert.NotContains(t, set.Text(domain.BandB17), "Diversity")
	assert.True(t, strings.HasPrefix(set.Text(domain.BandB5Diversity), "ESC LTE B5 Diversity"))
	assert.NotContains(t, set.Text(domain.BandB17Diversity), markers.Terminal)
}

func TestSegmenter_DiversitySearchStartsAfterAnchor(t *testing.T) {
	text := fullLog(0).String()
	set := NewSegmenter(nil, DefaultMarkers()).Segment(domain.LogBlob{ID: "a", Text: text})

	anchor := strings.Index(text, DefaultMarkers().DiversityAnchor)
	require.GreaterOrEqual(t, anchor, 0)
	for _, band := range domain.DiversityBands {
		assert.Greater(t, set.Segments[band].Start, anchor, band.String())
	}
	assert.Less(t, set.Segments[domain.BandB5].Start, anchor)
}

func TestSegmenter_Failures(t *testing.T) {
	tests := []struct {
		name    string
		log     func() testLog
		failing []domain.BandID
	}{
		{
			name: "missing terminal marker",
			log: func() testLog {
				tl := fullLog(0)
				tl.noTerminal = true
				return tl
			},
			failing: []domain.BandID{domain.BandB17Diversity},
		},
		{
			name: "missing diversity anchor",
			log: func() testLog {
				tl := fullLog(0)
				tl.noAnchor = true
				return tl
			},
			failing: domain.DiversityBands,
		},
		{
			name: "missing diversity section header",
			log: func() testLog {
				tl := fullLog(0)
				tl.noHeader = map[domain.BandID]bool{domain.BandB12Diversity: true}
				return tl
			},
			// B5 Diversity loses its end marker, B12 Diversity its start
			failing: []domain.BandID{domain.BandB5Diversity, domain.BandB12Diversity},
		},
		{
			name: "missing primary header not replaced by its diversity repeat",
			log: func() testLog {
				tl := fullLog(0)
				tl.noHeader = map[domain.BandID]bool{domain.BandB5: true}
				return tl
			},
			// B4 loses its end marker, B5 its start
			failing: []domain.BandID{domain.BandB4, domain.BandB5},
		},
		{
			name: "missing last primary header",
			log: func() testLog {
				tl := fullLog(0)
				tl.noHeader = map[domain.BandID]bool{domain.BandB13: true}
				return tl
			},
			failing: []domain.BandID{domain.BandB12, domain.BandB13},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := NewSegmenter(nil, DefaultMarkers()).Segment(tt.log().blob("bad.xml"))

			require.Len(t, set.Failures, len(tt.failing))
			for _, band := range tt.failing {
				err := set.Failures[band]
				require.Error(t, err, band.String())
				assert.ErrorIs(t, err, apperrors.ErrMissingMarker)
				assert.Contains(t, err.Error(), "bad.xml")
				assert.False(t, set.Has(band))
				assert.Empty(t, set.Text(band))
			}
			for band, seg := range set.Segments {
				if band.Family() == domain.BandFamilyPrimary && band != domain.BandB17 {
					assert.NotContains(t, seg.Text, "Diversity", band.String())
				}
			}
			assert.Len(t, set.Segments, 10-len(tt.failing))
		})
	}
}
