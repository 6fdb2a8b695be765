package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "cpinsights/internal/errors"
)

// Config represents the complete application configuration. Leaf fields
// carry no envconfig name so that only the prefixed key (CPI_CACHE_PATH)
// is read, never a bare variable such as PATH.
type Config struct {
	LeetCode   LeetCodeConfig   `yaml:"leetcode" envconfig:"LEETCODE"`
	Codeforces CodeforcesConfig `yaml:"codeforces" envconfig:"CODEFORCES"`
	Output     OutputConfig     `yaml:"output" envconfig:"OUTPUT"`
	Cache      CacheConfig      `yaml:"cache" envconfig:"CACHE"`
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Tracing    TracingConfig    `yaml:"tracing" envconfig:"TRACING"`
}

// LeetCodeConfig contains LeetCode GraphQL client configuration
type LeetCodeConfig struct {
	Endpoint string `yaml:"endpoint" split_words:"true" validate:"required,url"`
	// RecentLimit bounds the recent accepted submissions used for the
	// language and topic reports.
	RecentLimit int `yaml:"recent_limit" split_words:"true" validate:"min=1,max=1000"`
	// SolvedLimit bounds the rows of the solved questions dump.
	SolvedLimit int           `yaml:"solved_limit" split_words:"true" validate:"min=1,max=1000"`
	Timeout     time.Duration `yaml:"timeout" split_words:"true" validate:"gt=0"`
	UserAgent   string        `yaml:"user_agent" split_words:"true"`
}

// CodeforcesConfig contains Codeforces REST client configuration
type CodeforcesConfig struct {
	BaseURL string `yaml:"base_url" split_words:"true" validate:"required,url"`
	// RPS and Burst define the token bucket used to pace API calls.
	RPS         float64       `yaml:"rps" split_words:"true" validate:"gt=0"`
	Burst       int           `yaml:"burst" split_words:"true" validate:"min=1"`
	StatusCount int           `yaml:"status_count" split_words:"true" validate:"min=1"`
	Timeout     time.Duration `yaml:"timeout" split_words:"true" validate:"gt=0"`
	UserAgent   string        `yaml:"user_agent" split_words:"true"`
}

// OutputConfig controls where and how reports are written
type OutputConfig struct {
	Dir       string `yaml:"dir" split_words:"true" validate:"required"`
	BOMPrefix bool   `yaml:"bom_prefix" split_words:"true"`
	Workbook  bool   `yaml:"workbook" split_words:"true"`
}

// CacheConfig contains problem metadata cache configuration
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled" split_words:"true"`
	Path       string        `yaml:"path" split_words:"true"`
	TTL        time.Duration `yaml:"ttl" split_words:"true" validate:"gt=0"`
	MemorySize int           `yaml:"memory_size" split_words:"true" validate:"min=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" split_words:"true" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" split_words:"true" validate:"oneof=json text"`
	Output   string `yaml:"output" split_words:"true" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" split_words:"true"`
}

// TracingConfig contains OpenTelemetry tracing configuration
type TracingConfig struct {
	Enabled  bool   `yaml:"enabled" split_words:"true"`
	Exporter string `yaml:"exporter" split_words:"true" validate:"oneof=stdout none"`
}

// Load builds the configuration from defaults, an optional YAML file and
// CPI_* environment variables, in increasing order of precedence. An empty
// path searches the default locations.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = getConfigFilePath()
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Fields without a matching env var keep their current value.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Save writes the configuration as YAML
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// validate validates the configuration
func (c *Config) validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationErrors(err)
	}

	if c.Cache.Enabled && c.Cache.Path == "" {
		return apperrors.NewConfigError("cache.path is required when the cache is enabled", nil)
	}

	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFile
	}

	return nil
}

// getConfigFilePath returns the first config file found in the usual locations
func getConfigFilePath() string {
	locations := []string{
		"cpinsights.yaml",
		"config.yaml",
		"configs/config.yaml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(home, ".cpinsights", "config.yaml"))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		LeetCode: LeetCodeConfig{
			Endpoint:    DefaultLeetCodeEndpoint,
			RecentLimit: DefaultRecentLimit,
			SolvedLimit: DefaultSolvedLimit,
			Timeout:     DefaultHTTPTimeout,
			UserAgent:   DefaultUserAgent,
		},
		Codeforces: CodeforcesConfig{
			BaseURL:     DefaultCodeforcesBaseURL,
			RPS:         DefaultCodeforcesRPS,
			Burst:       DefaultCodeforcesBurst,
			StatusCount: DefaultStatusCount,
			Timeout:     DefaultHTTPTimeout,
			UserAgent:   DefaultUserAgent,
		},
		Output: OutputConfig{
			Dir: ".",
		},
		Cache: CacheConfig{
			Enabled:    true,
			Path:       defaultCachePath(),
			TTL:        DefaultCacheTTL,
			MemorySize: DefaultCacheMemorySize,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "text",
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Tracing: TracingConfig{
			Enabled:  false,
			Exporter: "none",
		},
	}
}

// defaultCachePath places the cache database in the user cache directory,
// falling back to the working directory.
func defaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(".cpinsights", CacheFileName)
	}
	return filepath.Join(dir, "cpinsights", CacheFileName)
}
