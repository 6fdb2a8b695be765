// Package validation checks the local environment of a run before any
// request is sent.
package validation

import (
	"log/slog"
	"os"
	"path/filepath"

	apperrors "cpinsights/internal/errors"
)

const writeProbe = ".cpinsights_write_test"

// OutputValidator verifies that reports can be written.
type OutputValidator struct {
	logger *slog.Logger
}

// NewOutputValidator creates a validator. A nil logger uses slog.Default.
func NewOutputValidator(logger *slog.Logger) *OutputValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &OutputValidator{logger: logger}
}

// ValidateOutputDirectory creates dir if needed and checks that files can be
// created in it.
func (v *OutputValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError("failed to create output directory", err).
			WithContext(apperrors.CtxFile, dir)
	}

	probe := filepath.Join(dir, writeProbe)
	file, err := os.Create(probe)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError("output directory is not writable", err).
			WithContext(apperrors.CtxFile, dir)
	}
	file.Close()
	os.Remove(probe)

	v.logger.Debug("Output directory validated", slog.String("directory", dir))
	return nil
}

// ValidateReportPaths checks that none of the report names inside dir is
// taken by a directory, which would make the export fail half way.
func (v *OutputValidator) ValidateReportPaths(dir string, names []string) error {
	for _, name := range names {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return apperrors.NewStorageError("failed to stat report file", err).
				WithContext(apperrors.CtxFile, path)
		}
		if info.IsDir() {
			v.logger.Error("Report path is a directory", slog.String("path", path))
			return apperrors.NewStorageError("report path is a directory", nil).
				WithContext(apperrors.CtxFile, path)
		}
	}
	return nil
}
