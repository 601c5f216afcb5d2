// Package exporter renders analysis results for engineers.
//
// WorkbookExporter writes the "Organized Data.xlsx" workbook: one section per
// band with sweep-power statistics and averaged LNA offset tables, plus a
// Diagnostics sheet. CSVWriter writes the same data as flat CSV files with a
// UTF-8 BOM for Excel compatibility.
//
// Example usage:
//
//	wb := exporter.NewWorkbookExporter(logger)
//	err := wb.Export(result, filepath.Join(dir, "Organized Data.xlsx"))
//
//	csvWriter := exporter.NewCSVWriter(logger)
//	err = csvWriter.ExportResult(result, dir)
package exporter
