package errors

import (
	"errors"
	"fmt"

	"esccli/pkg/contracts/domain"
)

// ErrorType represents the category of an analysis error
type ErrorType string

const (
	ErrorTypeMissingMarker  ErrorType = "missing_marker"
	ErrorTypeMalformedField ErrorType = "malformed_field"
	ErrorTypeEmptyBatch     ErrorType = "empty_batch"
	ErrorTypeEmptySample    ErrorType = "empty_sample"
	ErrorTypeAllCorrupt     ErrorType = "all_corrupt"
	ErrorTypeConfig         ErrorType = "config"
	ErrorTypeIO             ErrorType = "io"
)

// Sentinels for errors.Is matching against an AnalysisError of the same type
var (
	ErrMissingMarker  = errors.New("missing marker")
	ErrMalformedField = errors.New("malformed field")
	ErrEmptyBatch     = errors.New("empty batch")
	ErrEmptySample    = errors.New("empty sample")
	ErrAllCorrupt     = errors.New("no usable logs")
	ErrConfig         = errors.New("invalid configuration")
	ErrIO             = errors.New("io failure")
)

var sentinels = map[ErrorType]error{
	ErrorTypeMissingMarker:  ErrMissingMarker,
	ErrorTypeMalformedField: ErrMalformedField,
	ErrorTypeEmptyBatch:     ErrEmptyBatch,
	ErrorTypeEmptySample:    ErrEmptySample,
	ErrorTypeAllCorrupt:     ErrAllCorrupt,
	ErrorTypeConfig:         ErrConfig,
	ErrorTypeIO:             ErrIO,
}

// AnalysisError is a failure tied to a log, band or field of a pipeline run
type AnalysisError struct {
	Type    ErrorType     `json:"type"`
	Log     string        `json:"log,omitempty"`
	Band    domain.BandID `json:"band,omitempty"`
	Field   string        `json:"field,omitempty"`
	Message string        `json:"message"`
	Cause   error         `json:"-"`
}

// Error implements the error interface
func (e *AnalysisError) Error() string {
	if e == nil {
		return "unknown analysis error"
	}
	msg := fmt.Sprintf("[%s]", e.Type)
	if e.Log != "" {
		msg += " " + e.Log
	}
	if e.Band.Valid() {
		msg += " " + e.Band.String()
	}
	if e.Field != "" {
		msg += fmt.Sprintf(" %q", e.Field)
	}
	msg += ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *AnalysisError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is matches the sentinel of the error's type
func (e *AnalysisError) Is(target error) bool {
	if e == nil {
		return false
	}
	return sentinels[e.Type] == target
}

// NewMissingMarker reports a segmentation boundary absent from a log
func NewMissingMarker(log string, band domain.BandID, marker string) *AnalysisError {
	return &AnalysisError{
		Type:    ErrorTypeMissingMarker,
		Log:     log,
		Band:    band,
		Field:   marker,
		Message: "marker not found",
	}
}

// NewMalformedField reports a tag-delimited value that is missing or not numeric
func NewMalformedField(field, message string, cause error) *AnalysisError {
	return &AnalysisError{
		Type:    ErrorTypeMalformedField,
		Field:   field,
		Message: message,
		Cause:   cause,
	}
}

// NewEmptyBatch reports that no logs were found to analyze
func NewEmptyBatch(source string) *AnalysisError {
	return &AnalysisError{
		Type:    ErrorTypeEmptyBatch,
		Log:     source,
		Message: "no logs to process",
	}
}

// NewEmptySample reports a statistics call on zero values
func NewEmptySample(band domain.BandID, metric string) *AnalysisError {
	return &AnalysisError{
		Type:    ErrorTypeEmptySample,
		Band:    band,
		Field:   metric,
		Message: "no values to summarize",
	}
}

// NewAllCorrupt reports a band whose every log was excluded from averaging
func NewAllCorrupt(band domain.BandID, logs int) *AnalysisError {
	return &AnalysisError{
		Type:    ErrorTypeAllCorrupt,
		Band:    band,
		Message: fmt.Sprintf("all %d logs are corrupt", logs),
	}
}

// NewMissingOffsets reports an LNA table no usable log has offsets for.
// It shares the AllCorrupt type since the table is equally unusable.
func NewMissingOffsets(band domain.BandID, usable int) *AnalysisError {
	return &AnalysisError{
		Type:    ErrorTypeAllCorrupt,
		Band:    band,
		Message: fmt.Sprintf("no offsets present in %d usable logs", usable),
	}
}

// NewConfigError reports an invalid configuration value
func NewConfigError(field string, cause error) *AnalysisError {
	return &AnalysisError{
		Type:    ErrorTypeConfig,
		Field:   field,
		Message: "invalid configuration",
		Cause:   cause,
	}
}

// NewIOError reports a failure reading logs or writing reports
func NewIOError(path string, cause error) *AnalysisError {
	return &AnalysisError{
		Type:    ErrorTypeIO,
		Log:     path,
		Message: "i/o failure",
		Cause:   cause,
	}
}

// WithLog returns a copy of err attributed to a log and band.
// Non-AnalysisError values are wrapped as malformed fields.
func WithLog(err error, log string, band domain.BandID) *AnalysisError {
	var ae *AnalysisError
	if !errors.As(err, &ae) {
		return &AnalysisError{Type: ErrorTypeMalformedField, Log: log, Band: band, Message: "extraction failed", Cause: err}
	}
	cp := *ae
	cp.Log = log
	cp.Band = band
	return &cp
}

// TypeOf returns the ErrorType of err, or "" when err is not an AnalysisError
func TypeOf(err error) ErrorType {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae.Type
	}
	return ""
}
