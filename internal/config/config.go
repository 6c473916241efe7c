// ABOUTME: Configuration loading and parsing for streakd
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete streakd configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Backup   BackupConfig   `yaml:"backup"`
	SelfPing SelfPingConfig `yaml:"selfping"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds server address configuration
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr"`
}

// StorageConfig holds the data directory for the ledger files
type StorageConfig struct {
	DataDir string `yaml:"data_dir"`
}

// BackupConfig holds periodic backup configuration
type BackupConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Dir      string        `yaml:"dir"`
	Interval time.Duration `yaml:"-"`

	// Raw string value for YAML unmarshaling
	IntervalRaw string `yaml:"interval"`
}

// SelfPingConfig holds the periodic liveness self-check configuration
type SelfPingConfig struct {
	Enabled  bool          `yaml:"enabled"`
	URL      string        `yaml:"url"`
	Interval time.Duration `yaml:"-"`

	// Raw string value for YAML unmarshaling
	IntervalRaw string `yaml:"interval"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default intervals applied when the config omits them.
const (
	defaultBackupInterval   = 6 * time.Hour
	defaultSelfPingInterval = 10 * time.Minute
)

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Parse duration fields
	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	// Match ${VAR_NAME} pattern
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		// Extract variable name from ${VAR_NAME}
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required")
	}

	if c.Storage.DataDir == "" {
		return fmt.Errorf("storage.data_dir is required")
	}

	if c.Backup.Enabled && c.Backup.Dir == "" {
		return fmt.Errorf("backup.dir is required when backup is enabled")
	}

	if c.SelfPing.Enabled && c.SelfPing.URL == "" {
		return fmt.Errorf("selfping.url is required when selfping is enabled")
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	var err error

	cfg.Backup.Interval = defaultBackupInterval
	if cfg.Backup.IntervalRaw != "" {
		cfg.Backup.Interval, err = time.ParseDuration(cfg.Backup.IntervalRaw)
		if err != nil {
			return fmt.Errorf("parsing backup interval %q: %w", cfg.Backup.IntervalRaw, err)
		}
	}

	cfg.SelfPing.Interval = defaultSelfPingInterval
	if cfg.SelfPing.IntervalRaw != "" {
		cfg.SelfPing.Interval, err = time.ParseDuration(cfg.SelfPing.IntervalRaw)
		if err != nil {
			return fmt.Errorf("parsing selfping interval %q: %w", cfg.SelfPing.IntervalRaw, err)
		}
	}

	return nil
}
