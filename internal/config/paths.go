package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved file system locations used by a run
type Paths struct {
	OutputDir string
	CacheFile string
	LogFile   string
}

// GetPaths resolves the configured locations to absolute paths.
// Reports are written relative to the working directory unless an absolute
// output directory is configured.
func (c *Config) GetPaths() (*Paths, error) {
	outputDir, err := filepath.Abs(c.Output.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output dir: %w", err)
	}

	paths := &Paths{OutputDir: outputDir}

	if c.Cache.Path != "" {
		if paths.CacheFile, err = filepath.Abs(c.Cache.Path); err != nil {
			return nil, fmt.Errorf("failed to resolve cache path: %w", err)
		}
	}

	if c.Logging.FilePath != "" {
		if paths.LogFile, err = filepath.Abs(c.Logging.FilePath); err != nil {
			return nil, fmt.Errorf("failed to resolve log path: %w", err)
		}
	}

	return paths, nil
}

// GetReportPath returns the path of a report file inside the output directory
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.OutputDir, filename)
}

// LogPathResolution logs the resolved paths for debugging
func (p *Paths) LogPathResolution() {
	slog.Debug("Path resolution",
		slog.String("output_dir", p.OutputDir),
		slog.String("cache_file", p.CacheFile),
		slog.String("log_file", p.LogFile))
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
