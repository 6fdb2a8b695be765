package exporter

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"cpinsights/internal/config"
)

const defaultSheet = "Sheet1"

// WorkbookExporter gathers reports into one spreadsheet, one sheet per report.
type WorkbookExporter struct {
	paths   *config.Paths
	reports []Report
	logger  *slog.Logger
}

// NewWorkbookExporter creates an empty workbook exporter.
func NewWorkbookExporter(paths *config.Paths, logger *slog.Logger) *WorkbookExporter {
	return &WorkbookExporter{paths: paths, logger: logger}
}

// Add queues a report for the workbook.
func (w *WorkbookExporter) Add(report Report) {
	w.reports = append(w.reports, report)
}

// Save writes all queued reports to fileName and returns the resolved path.
// Nothing is written when no report was added.
func (w *WorkbookExporter) Save(fileName string) (string, error) {
	fullPath := fileName
	if !filepath.IsAbs(fileName) && w.paths != nil {
		fullPath = w.paths.GetReportPath(fileName)
	}
	if len(w.reports) == 0 {
		return "", nil
	}

	f := excelize.NewFile()
	defer f.Close()

	for _, report := range w.reports {
		sheet := SheetName(report.Name)
		if _, err := f.NewSheet(sheet); err != nil {
			return fullPath, storageError("failed to create sheet "+sheet, fullPath, err)
		}

		if err := setRow(f, sheet, 1, report.Headers); err != nil {
			return fullPath, storageError("failed to write sheet header", fullPath, err)
		}
		for i, row := range report.Rows {
			if err := setRow(f, sheet, i+2, row); err != nil {
				return fullPath, storageError("failed to write sheet row", fullPath, err)
			}
		}
	}

	if err := f.DeleteSheet(defaultSheet); err != nil {
		return fullPath, storageError("failed to remove default sheet", fullPath, err)
	}
	f.SetActiveSheet(0)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fullPath, storageError("failed to create directory", fullPath, err)
	}
	if err := f.SaveAs(fullPath); err != nil {
		return fullPath, storageError("failed to save workbook", fullPath, err)
	}

	w.logger.Info("Workbook written",
		slog.String("file", fullPath),
		slog.Int("sheets", len(w.reports)))
	return fullPath, nil
}

// SheetName derives a sheet name from a report file name.
func SheetName(fileName string) string {
	return strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
}

func setRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}

	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = cellValue(v)
	}
	return f.SetSheetRow(sheet, cell, &row)
}

// cellValue stores numeric text as a number so spreadsheet formulas work.
// Header cells and identifiers such as "1850A" stay text.
func cellValue(v string) interface{} {
	if n, err := strconv.ParseFloat(v, 64); err == nil && !strings.ContainsAny(v, "eEnN") {
		return n
	}
	return v
}
