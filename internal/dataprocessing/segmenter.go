package dataprocessing

import (
	apperrors "esccli/internal/errors"
	"esccli/pkg/contracts/domain"
)

// SegmentSet holds the band segments cut from one log and the bands that failed
type SegmentSet struct {
	Segments map[domain.BandID]domain.BandSegment
	Failures map[domain.BandID]error
}

// Text returns the segment text of a band, or "" when the band could not be cut
func (s SegmentSet) Text(b domain.BandID) string {
	return s.Segments[b].Text
}

// Has reports whether the band was segmented
func (s SegmentSet) Has(b domain.BandID) bool {
	_, ok := s.Segments[b]
	return ok
}

// Segmenter splits a log into its ten band segments
type Segmenter struct {
	scanner Scanner
	markers Markers
}

// NewSegmenter creates a segmenter. A nil scanner selects LiteralScanner.
func NewSegmenter(scanner Scanner, markers Markers) *Segmenter {
	if scanner == nil {
		scanner = NewLiteralScanner()
	}
	return &Segmenter{scanner: scanner, markers: markers}
}

// Segment cuts every band out of blob. A band whose boundary is missing is
// reported in Failures and absent from Segments; other bands are unaffected.
func (s *Segmenter) Segment(blob domain.LogBlob) SegmentSet {
	set := SegmentSet{
		Segments: make(map[domain.BandID]domain.BandSegment, len(domain.PrimaryBands)+len(domain.DiversityBands)),
		Failures: make(map[domain.BandID]error),
	}

	// Primary sections lie before the diversity anchor. Bounding them keeps a
	// missing primary header from matching its diversity repeat.
	anchor, anchored := s.scanner.FindFirst(blob.Text, s.markers.DiversityAnchor, 0)
	limit := len(blob.Text)
	if anchored {
		limit = anchor
	}

	// The first diversity marker repeats a primary band name and bounds the last primary section.
	sentinel := s.markers.Band(domain.DiversityBands[0])
	for i, band := range domain.PrimaryBands {
		end, endLimit := sentinel, len(blob.Text)
		if i+1 < len(domain.PrimaryBands) {
			end, endLimit = s.markers.Band(domain.PrimaryBands[i+1]), limit
		}
		s.cut(&set, blob, band, 0, end, limit, endLimit)
	}

	if !anchored {
		for _, band := range domain.DiversityBands {
			set.Failures[band] = apperrors.NewMissingMarker(blob.ID, band, s.markers.DiversityAnchor)
		}
		return set
	}
	from := anchor + len(s.markers.DiversityAnchor)
	for i, band := range domain.DiversityBands {
		end := s.markers.Terminal
		if i+1 < len(domain.DiversityBands) {
			end = s.markers.Band(domain.DiversityBands[i+1])
		}
		s.cut(&set, blob, band, from, end, len(blob.Text), len(blob.Text))
	}
	return set
}

// cut records the band segment bounded by its start marker and endMarker.
// A start past startLimit or an end past endLimit counts as missing.
func (s *Segmenter) cut(set *SegmentSet, blob domain.LogBlob, band domain.BandID, from int, endMarker string, startLimit, endLimit int) {
	startMarker := s.markers.Band(band)
	start, end, missing := s.bounds(blob.Text, from, startMarker, endMarker)
	switch {
	case missing != "":
	case start > startLimit:
		missing = startMarker
	case end > endLimit:
		missing = endMarker
	}
	if missing != "" {
		set.Failures[band] = apperrors.NewMissingMarker(blob.ID, band, missing)
		return
	}
	set.Segments[band] = domain.BandSegment{
		Band:  band,
		Start: start,
		End:   end,
		Text:  blob.Text[start:end],
	}
}

// bounds finds startMarker at or after from and the first endMarker after it.
// missing names the marker that was not found.
func (s *Segmenter) bounds(text string, from int, startMarker, endMarker string) (start, end int, missing string) {
	start, ok := s.scanner.FindFirst(text, startMarker, from)
	if !ok {
		return 0, 0, startMarker
	}
	end, ok = s.scanner.FindFirst(text, endMarker, start+1)
	if !ok {
		return 0, 0, endMarker
	}
	return start, end, ""
}
