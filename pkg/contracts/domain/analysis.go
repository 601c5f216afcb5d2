package domain

import (
	"fmt"
	"time"
)

// LogBlob is the full text of one test-report log keyed by its source identifier
type LogBlob struct {
	ID   string `json:"id" validate:"required"`
	Text string `json:"-"`
}

// BandSegment is the slice of a log between a band's start marker and the
// following boundary marker. Start is inclusive, End exclusive.
type BandSegment struct {
	Band  BandID `json:"band"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"-"`
}

// StatSummary is the five-number description of one metric across logs
type StatSummary struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
}

// Values returns the summary in report column order
func (s StatSummary) Values() []float64 {
	return []float64{s.Min, s.Max, s.Mean, s.Median, s.StdDev}
}

// StatColumns are the report headers matching StatSummary.Values
var StatColumns = []string{"Min", "Max", "Mean", "Median", "Std. Dev."}

// PowerLimit selects the max or min sweep power key of a linearizer sweep
type PowerLimit string

const (
	PowerLimitMax PowerLimit = "max"
	PowerLimitMin PowerLimit = "min"
)

// SweepMode distinguishes the standard sweep from the APT (adaptive) sweep
type SweepMode string

const (
	SweepModeStandard SweepMode = "standard"
	SweepModeAPT      SweepMode = "apt"
)

// SweepMetric is one of the eight sweep-power series tracked per band
type SweepMetric struct {
	Limit   PowerLimit `json:"limit"`
	Mode    SweepMode  `json:"mode"`
	PAState int        `json:"pa_state"`
}

// SweepOccurrences is how many key occurrences a band segment holds per power
// limit: standard PA3, standard PA0, APT PA3, APT PA0.
const SweepOccurrences = 4

// Position is the occurrence index of the metric among the occurrences of its key
func (m SweepMetric) Position() int {
	pos := 0
	if m.Mode == SweepModeAPT {
		pos = 2
	}
	if m.PAState == 0 {
		pos++
	}
	return pos
}

// SectionTitle is the report heading of the sweep the metric belongs to
func (m SweepMetric) SectionTitle() string {
	title := "Tx Linearizer Sweep Max"
	if m.Limit == PowerLimitMin {
		title = "Tx Linearizer Sweep Min"
	}
	if m.Mode == SweepModeAPT {
		title = "APT " + title
	}
	return title
}

// RowLabel is the report row label of the metric within its section
func (m SweepMetric) RowLabel() string {
	return fmt.Sprintf("PA State %d: Power", m.PAState)
}

// String returns a compact identifier such as "apt_max_pa3"
func (m SweepMetric) String() string {
	return fmt.Sprintf("%s_%s_pa%d", m.Mode, m.Limit, m.PAState)
}

// SweepMetrics returns the eight metrics in report order
func SweepMetrics() []SweepMetric {
	var metrics []SweepMetric
	for _, mode := range []SweepMode{SweepModeStandard, SweepModeAPT} {
		for _, limit := range []PowerLimit{PowerLimitMax, PowerLimitMin} {
			for _, pa := range []int{3, 0} {
				metrics = append(metrics, SweepMetric{Limit: limit, Mode: mode, PAState: pa})
			}
		}
	}
	return metrics
}

// SummaryResult holds a computed summary or the reason it is undefined
type SummaryResult struct {
	Summary StatSummary `json:"summary"`
	Samples int         `json:"samples"`
	Err     error       `json:"-"`
}

// Defined reports whether the summary could be computed
func (r SummaryResult) Defined() bool {
	return r.Err == nil
}

// SeriesStatus classifies an extracted LNA offset series
type SeriesStatus string

const (
	SeriesComplete SeriesStatus = "complete"
	SeriesShort    SeriesStatus = "short"
	SeriesEmpty    SeriesStatus = "empty"
	SeriesCorrupt  SeriesStatus = "corrupt"
)

// OffsetSeries is the ordered LNA offsets of one band in one log
type OffsetSeries struct {
	LogID  string       `json:"log_id"`
	Band   BandID       `json:"band"`
	Values []int        `json:"values"`
	Status SeriesStatus `json:"status"`
}

// LNACell addresses one averaged offset: a device label and an RxLevel index
type LNACell struct {
	Device string `json:"device"`
	Level  int    `json:"level"`
}

// LNATable is the averaged offset table of one band
type LNATable struct {
	Band BandID `json:"band"`
	// Offsets maps a cell to its truncated mean. Cells without contributors are absent.
	Offsets map[LNACell]int `json:"-"`
	// Contributors counts the logs averaged into each cell
	Contributors map[LNACell]int `json:"-"`
	Err          error           `json:"-"`
}

// Value returns the averaged offset of a cell
func (t LNATable) Value(device string, level int) (int, bool) {
	v, ok := t.Offsets[LNACell{Device: device, Level: level}]
	return v, ok
}

// CorruptLog lists the bands whose offset extraction failed for a log
type CorruptLog struct {
	LogID string   `json:"log_id"`
	Bands []BandID `json:"bands"`
}

// SegmentFailure records a band segment that could not be cut from a log
type SegmentFailure struct {
	LogID string `json:"log_id"`
	Band  BandID `json:"band"`
	Err   error  `json:"-"`
}

// SweepAnomaly records a sweep-power extraction that did not yield the
// expected four occurrences for a log
type SweepAnomaly struct {
	LogID string     `json:"log_id"`
	Band  BandID     `json:"band"`
	Limit PowerLimit `json:"limit"`
	Found int        `json:"found"`
	Err   error      `json:"-"`
}

// Reason describes the anomaly for diagnostics output
func (a SweepAnomaly) Reason() string {
	if a.Err != nil {
		return a.Err.Error()
	}
	return fmt.Sprintf("found %d occurrences, expected %d", a.Found, SweepOccurrences)
}

// BandResult is everything computed for one band across the batch
type BandResult struct {
	Band  BandID                        `json:"band"`
	Sweep map[SweepMetric]SummaryResult `json:"-"`
	LNA   LNATable                      `json:"lna"`
}

// AnalysisResult is the output of one pipeline run
type AnalysisResult struct {
	RunID           string           `json:"run_id"`
	LogIDs          []string         `json:"log_ids"`
	Bands           []BandResult     `json:"bands"`
	Corrupt         []CorruptLog     `json:"corrupt"`
	MissingSegments []SegmentFailure `json:"missing_segments"`
	SweepAnomalies  []SweepAnomaly   `json:"sweep_anomalies"`
	Duration        time.Duration    `json:"duration"`
}

// ProcessedCount is the number of logs in the batch
func (r *AnalysisResult) ProcessedCount() int {
	return len(r.LogIDs)
}

// CorruptCount is the number of logs flagged corrupt in at least one band
func (r *AnalysisResult) CorruptCount() int {
	return len(r.Corrupt)
}

// CorruptLogIDs returns the identifiers of corrupt logs in batch order
func (r *AnalysisResult) CorruptLogIDs() []string {
	ids := make([]string, 0, len(r.Corrupt))
	for _, c := range r.Corrupt {
		ids = append(ids, c.LogID)
	}
	return ids
}

// Band returns the result of one band
func (r *AnalysisResult) Band(id BandID) (BandResult, bool) {
	for _, b := range r.Bands {
		if b.Band == id {
			return b, true
		}
	}
	return BandResult{}, false
}
