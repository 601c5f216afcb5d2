package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"esccli/pkg/contracts/domain"
)

// CSV file names written by ExportResult
const (
	SummaryCSV     = "summary.csv"
	LNAOffsetsCSV  = "lna_offsets.csv"
	DiagnosticsCSV = "diagnostics.csv"
)

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	Append    bool
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	w.logger.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if options.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(filePath, flags, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if options.BOMPrefix && !options.Append {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	if !options.Append && len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteSimpleCSV writes a CSV file with headers, records and a BOM
func (w *CSVWriter) WriteSimpleCSV(filePath string, headers []string, records [][]string) error {
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: true,
	})
}

// ExportResult writes the summary, LNA offset and diagnostics tables of
// result into dir
func (w *CSVWriter) ExportResult(result *domain.AnalysisResult, dir string) error {
	if err := w.WriteSimpleCSV(filepath.Join(dir, SummaryCSV), SummaryHeaders(), SummaryRecords(result)); err != nil {
		return fmt.Errorf("failed to export summary: %w", err)
	}
	if err := w.WriteSimpleCSV(filepath.Join(dir, LNAOffsetsCSV), LNAHeaders(), LNARecords(result)); err != nil {
		return fmt.Errorf("failed to export LNA offsets: %w", err)
	}
	if err := w.WriteSimpleCSV(filepath.Join(dir, DiagnosticsCSV), nil, diagnosticRows(result)); err != nil {
		return fmt.Errorf("failed to export diagnostics: %w", err)
	}
	return nil
}

// SummaryHeaders returns the summary.csv header row
func SummaryHeaders() []string {
	return []string{"band", "metric", "samples", "min", "max", "mean", "median", "std_dev"}
}

// SummaryRecords returns one row per band and sweep metric. Diversity bands
// without sweep data are skipped.
func SummaryRecords(result *domain.AnalysisResult) [][]string {
	var records [][]string
	for _, br := range result.Bands {
		for _, metric := range domain.SweepMetrics() {
			res := br.Sweep[metric]
			if !res.Defined() && br.Band.Family() == domain.BandFamilyDiversity {
				continue
			}
			record := []string{br.Band.String(), metric.String(), formatInt(int64(res.Samples))}
			records = append(records, append(record, formatSummary(res)...))
		}
	}
	return records
}

// LNAHeaders returns the lna_offsets.csv header row
func LNAHeaders() []string {
	return []string{"band", "device", "rx_level", "offset", "contributors"}
}

// LNARecords returns one row per band, device and RxLevel in report order
func LNARecords(result *domain.AnalysisResult) [][]string {
	var records [][]string
	for _, br := range result.Bands {
		spec := br.Band.Spec()
		for _, device := range spec.Devices {
			for _, level := range spec.RxLevels {
				offset := notAvailable
				if v, ok := br.LNA.Value(device, level.Index); ok {
					offset = formatInt(int64(v))
				}
				contributors := br.LNA.Contributors[domain.LNACell{Device: device, Level: level.Index}]
				records = append(records, []string{
					br.Band.String(),
					device,
					formatInt(int64(level.DBm)),
					offset,
					formatInt(int64(contributors)),
				})
			}
		}
	}
	return records
}
