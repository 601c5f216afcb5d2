package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"esccli/pkg/contracts/domain"
)

const (
	// SummarySheet holds the per-band statistics and LNA tables
	SummarySheet = "Organized Data"
	// DiagnosticsSheet lists corrupt logs, missing markers and sweep anomalies
	DiagnosticsSheet = "Diagnostics"

	notAvailable = "n/a"

	// Column widths in characters, matching the legacy report
	labelColumnWidth = 29.3
	valueColumnWidth = 9.77

	lnaSectionTitle = "LNA Offset Freq Comp"
	lnaBlockLabel   = "RxFreqCompLNAOffset"
)

// WorkbookExporter renders an analysis result into an xlsx workbook
type WorkbookExporter struct {
	logger *slog.Logger
}

// NewWorkbookExporter creates a workbook exporter
func NewWorkbookExporter(logger *slog.Logger) *WorkbookExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookExporter{logger: logger}
}

// Export renders result and saves the workbook at path
func (w *WorkbookExporter) Export(result *domain.AnalysisResult, path string) error {
	f, err := w.Build(result)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}

	w.logger.Info("Workbook written",
		slog.String("path", path),
		slog.Int("bands", len(result.Bands)))
	return nil
}

// Build renders result into a new in-memory workbook. The caller closes it.
func (w *WorkbookExporter) Build(result *domain.AnalysisResult) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name summary sheet: %w", err)
	}

	center, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{Horizontal: "center"}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	s := &sheetWriter{f: f, sheet: SummarySheet, row: 1, center: center}
	for _, band := range domain.PrimaryBands {
		br, _ := result.Band(band)
		s.primaryBand(br)
	}
	for _, band := range domain.DiversityBands {
		br, _ := result.Band(band)
		s.diversityBand(br)
	}
	if s.err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write summary sheet: %w", s.err)
	}

	if err := setColumnWidths(f, SummarySheet); err != nil {
		f.Close()
		return nil, err
	}

	if err := writeDiagnostics(f, result); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write diagnostics sheet: %w", err)
	}
	return f, nil
}

func setColumnWidths(f *excelize.File, sheet string) error {
	if err := f.SetColWidth(sheet, "A", "A", labelColumnWidth); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	if err := f.SetColWidth(sheet, "B", "G", valueColumnWidth); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	return nil
}

// sheetWriter walks down a sheet row by row. The first error sticks and
// turns every later write into a no-op.
type sheetWriter struct {
	f      *excelize.File
	sheet  string
	row    int
	center int
	err    error
}

func (s *sheetWriter) set(col int, value interface{}) {
	if s.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, s.row)
	if err != nil {
		s.err = err
		return
	}
	s.err = s.f.SetCellValue(s.sheet, cell, value)
}

func (s *sheetWriter) setCentered(col int, value interface{}) {
	s.set(col, value)
	if s.err != nil {
		return
	}
	cell, _ := excelize.CoordinatesToCellName(col, s.row)
	s.err = s.f.SetCellStyle(s.sheet, cell, cell, s.center)
}

func (s *sheetWriter) next(rows int) {
	s.row += rows
}

func (s *sheetWriter) primaryBand(br domain.BandResult) {
	s.set(1, br.Band.Spec().Title())
	for i, header := range domain.StatColumns {
		s.set(3+i, header)
	}
	s.next(1)

	metrics := domain.SweepMetrics()
	for i := 0; i < len(metrics); i += 2 {
		s.set(1, metrics[i].SectionTitle())
		s.next(1)
		for _, metric := range metrics[i : i+2] {
			s.set(1, metric.RowLabel())
			s.summary(br.Sweep[metric])
			s.next(1)
		}
		s.next(1)
	}

	s.set(1, lnaSectionTitle)
	s.next(1)
	s.lnaBlocks(br)
}

func (s *sheetWriter) diversityBand(br domain.BandResult) {
	s.set(1, br.Band.Spec().Title())
	s.next(1)
	s.set(1, lnaSectionTitle)
	s.next(1)
	s.lnaBlocks(br)
}

func (s *sheetWriter) summary(res domain.SummaryResult) {
	if !res.Defined() {
		for i := range domain.StatColumns {
			s.set(3+i, notAvailable)
		}
		return
	}
	for i, v := range res.Summary.Values() {
		s.set(3+i, v)
	}
}

// lnaBlocks writes one block per device followed by a spacer row, and one
// extra spacer after the band
func (s *sheetWriter) lnaBlocks(br domain.BandResult) {
	spec := br.Band.Spec()
	for _, device := range spec.Devices {
		s.set(1, lnaBlockLabel)
		s.setCentered(2, device)
		s.next(1)
		for _, level := range spec.RxLevels {
			s.set(1, level.Label())
			if v, ok := br.LNA.Value(device, level.Index); ok {
				s.set(2, v)
			} else {
				s.set(2, notAvailable)
			}
			s.next(1)
		}
		s.next(1)
	}
	s.next(1)
}

func writeDiagnostics(f *excelize.File, result *domain.AnalysisResult) error {
	if _, err := f.NewSheet(DiagnosticsSheet); err != nil {
		return err
	}
	rows := diagnosticRows(result)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(DiagnosticsSheet, cell, &values); err != nil {
			return err
		}
	}
	return f.SetColWidth(DiagnosticsSheet, "A", "D", labelColumnWidth)
}

// diagnosticRows flattens the run diagnostics into a table shared by the
// workbook and CSV outputs
func diagnosticRows(result *domain.AnalysisResult) [][]string {
	rows := [][]string{
		{"Run", result.RunID, "", ""},
		{"Logs processed", formatInt(int64(result.ProcessedCount())), "", ""},
		{"Corrupt logs", formatInt(int64(result.CorruptCount())), "", ""},
		{},
		{"Kind", "Log", "Band", "Detail"},
	}
	for _, c := range result.Corrupt {
		for _, band := range c.Bands {
			rows = append(rows, []string{"corrupt_lna", c.LogID, band.String(), "LNA offsets could not be parsed"})
		}
	}
	for _, m := range result.MissingSegments {
		detail := ""
		if m.Err != nil {
			detail = m.Err.Error()
		}
		rows = append(rows, []string{"missing_segment", m.LogID, m.Band.String(), detail})
	}
	for _, a := range result.SweepAnomalies {
		rows = append(rows, []string{"sweep_anomaly", a.LogID, a.Band.String(), string(a.Limit) + ": " + a.Reason()})
	}
	for _, br := range result.Bands {
		if br.LNA.Err != nil {
			rows = append(rows, []string{"lna_undefined", "", br.Band.String(), br.LNA.Err.Error()})
		}
	}
	return rows
}
