package exporter

import (
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"

	"cpinsights/internal/config"
	apperrors "cpinsights/internal/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	paths     *config.Paths
	bomPrefix bool
	logger    *slog.Logger
}

// NewCSVWriter creates a writer that resolves relative file names against
// the output directory in paths.
func NewCSVWriter(paths *config.Paths, bomPrefix bool, logger *slog.Logger) *CSVWriter {
	return &CSVWriter{paths: paths, bomPrefix: bomPrefix, logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV truncates filePath and writes the header row followed by the
// records. It returns the resolved path. A failure part way through leaves
// whatever was written in place.
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) (string, error) {
	fullPath := w.resolvePath(filePath)

	w.logger.Debug("Writing CSV file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fullPath, storageError("failed to create directory", fullPath, err)
	}

	file, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fullPath, storageError("failed to open file", fullPath, err)
	}
	defer file.Close()

	if options.BOMPrefix {
		if _, err := file.Write(utf8BOM); err != nil {
			return fullPath, storageError("failed to write BOM", fullPath, err)
		}
	}

	writer := csv.NewWriter(file)

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fullPath, storageError("failed to write headers", fullPath, err)
		}
	}

	for _, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fullPath, storageError("failed to write record", fullPath, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fullPath, storageError("failed to flush records", fullPath, err)
	}
	if err := file.Close(); err != nil {
		return fullPath, storageError("failed to close file", fullPath, err)
	}
	return fullPath, nil
}

// WriteSimpleCSV writes a simple CSV file with headers and records
func (w *CSVWriter) WriteSimpleCSV(filePath string, headers []string, records [][]string) (string, error) {
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: w.bomPrefix,
	})
}

// resolvePath places relative names in the output directory
func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) || w.paths == nil {
		return filePath
	}
	return w.paths.GetReportPath(filePath)
}

func storageError(message, path string, cause error) error {
	return apperrors.NewStorageError(message, cause).WithContext(apperrors.CtxFile, path)
}
