package dataprocessing

import (
	"math"
	"strconv"
	"strings"

	apperrors "esccli/internal/errors"
)

const (
	defaultPowerWindow  = 40
	defaultOffsetWindow = 40
)

// Extractor reads tagged numeric values out of band segments
type Extractor struct {
	scanner      Scanner
	markers      Markers
	powerWindow  int
	offsetWindow int
}

// NewExtractor creates an extractor. Window sizes below one select the defaults.
func NewExtractor(scanner Scanner, markers Markers, powerWindow, offsetWindow int) *Extractor {
	if scanner == nil {
		scanner = NewLiteralScanner()
	}
	if powerWindow < 1 {
		powerWindow = defaultPowerWindow
	}
	if offsetWindow < 1 {
		offsetWindow = defaultOffsetWindow
	}
	return &Extractor{
		scanner:      scanner,
		markers:      markers,
		powerWindow:  powerWindow,
		offsetWindow: offsetWindow,
	}
}

// SweepPower returns the value following every occurrence of key, in order.
// The caller decides what a count other than four means.
func (e *Extractor) SweepPower(segment, key string) ([]float64, error) {
	hits := e.scanner.FindAll(segment, key)
	values := make([]float64, 0, len(hits))
	for _, at := range hits {
		raw, err := e.windowValue(segment, at, e.powerWindow, key)
		if err != nil {
			return values, err
		}
		raw = strings.TrimSpace(raw)
		if !isDecimal(raw) {
			return values, apperrors.NewMalformedField(key, "value is not a number", nil)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return values, apperrors.NewMalformedField(key, "value is not a number", err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return values, apperrors.NewMalformedField(key, "value is not a number", nil)
		}
		values = append(values, v)
	}
	return values, nil
}

// isDecimal reports whether s is written in plain decimal or exponent
// notation. ParseFloat also accepts NaN, Inf, hex floats and underscores.
func isDecimal(s string) bool {
	digits := false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			digits = true
		case c == '.' || c == '+' || c == '-' || c == 'e' || c == 'E':
		default:
			return false
		}
	}
	return digits
}

// Offsets returns the RxFCompLNAOffset of every entry for channel inside the
// segment's LNA block. A channel that never appears yields an empty slice.
func (e *Extractor) Offsets(segment, channel string) ([]int, error) {
	block, ok := e.scanner.FindFirst(segment, e.markers.LNABlock, 0)
	if !ok {
		return nil, apperrors.NewMalformedField(e.markers.LNABlock, "LNA block not found", nil)
	}
	section := segment[block:]

	values := []int{}
	at, ok := e.scanner.FindFirst(section, channel, 0)
	for ok {
		end, found := e.scanner.FindFirst(section, e.markers.ChannelTerminator, at)
		if !found {
			return values, apperrors.NewMalformedField(channel, "channel entry is not terminated", nil)
		}
		entry := section[at:end]
		label, found := e.scanner.FindFirst(entry, e.markers.OffsetLabel, 0)
		if !found {
			return values, apperrors.NewMalformedField(e.markers.OffsetLabel, "offset label not found in channel entry", nil)
		}
		raw, err := e.windowValue(entry, label, e.offsetWindow, e.markers.OffsetLabel)
		if err != nil {
			return values, err
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return values, apperrors.NewMalformedField(e.markers.OffsetLabel, "value is not an integer", err)
		}
		values = append(values, v)
		at, ok = e.scanner.FindFirst(section, channel, at+1)
	}
	return values, nil
}

// windowValue returns the text between the value tags inside the window of
// size bytes starting at at. The window is clipped to the end of text.
func (e *Extractor) windowValue(text string, at, size int, field string) (string, error) {
	end := at + size
	if end > len(text) {
		end = len(text)
	}
	window := text[at:end]
	open, ok := e.scanner.FindFirst(window, e.markers.ValueOpen, 0)
	if !ok {
		return "", apperrors.NewMalformedField(field, "value open tag not in window", nil)
	}
	closeAt, ok := e.scanner.FindFirst(window, e.markers.ValueClose, 0)
	if !ok {
		return "", apperrors.NewMalformedField(field, "value close tag not in window", nil)
	}
	valueAt := open + len(e.markers.ValueOpen)
	if closeAt < valueAt {
		return "", apperrors.NewMalformedField(field, "value tags out of order", nil)
	}
	return window[valueAt:closeAt], nil
}
