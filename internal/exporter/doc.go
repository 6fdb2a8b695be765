// Package exporter renders aggregated insights as report files.
//
// CSVWriter writes a header row followed by records, truncating any previous
// file. The per-platform renderers in reports.go turn insights rows into a
// Report with a fixed header, and ReportExporter writes each Report into the
// output directory. When enabled, WorkbookExporter additionally collects
// every report into a single spreadsheet with one sheet per report.
//
// Example usage:
//
//	exp := exporter.NewReportExporter(paths, cfg.Output, logger)
//	path, err := exp.Export(exporter.LeetCodeLanguageUsage(usage))
package exporter
