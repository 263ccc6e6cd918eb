package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the main configuration struct.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Archive  ArchiveConfig  `yaml:"archive"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Security SecurityConfig `yaml:"security"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds http and tls settings.
type ServerConfig struct {
	Address string    `yaml:"address"`
	Port    int       `yaml:"port"`
	TLS     TLSConfig `yaml:"tls"`
}

// TLSConfig holds TLS certificate configuration.
type TLSConfig struct {
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// StorageConfig holds the local data directory. The sqlite log table, the
// pebble run-history store and the state folders all live under it.
type StorageConfig struct {
	DataPath string `yaml:"data_path"`
}

// ArchiveConfig holds configuration for the periodic archival runner.
type ArchiveConfig struct {
	Enabled         bool       `yaml:"enabled"`
	Cron            string     `yaml:"cron"`
	FetchLimit      int        `yaml:"fetch_limit"`
	DeleteBatchSize int        `yaml:"delete_batch_size"`
	Workers         int        `yaml:"workers"`
	RunTimeout      Duration   `yaml:"run_timeout"`
	Blob            BlobConfig `yaml:"blob"`
}

// BlobConfig selects and configures the archive blob backend.
type BlobConfig struct {
	Backend   string `yaml:"backend"` // s3 | fs
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	FSRoot    string `yaml:"fs_root"`
}

// IngestConfig holds rate limits for the thin write path.
type IngestConfig struct {
	RateRPS   float64 `yaml:"rate_rps"`
	RateBurst int     `yaml:"rate_burst"`
}

// SecurityConfig holds CORS settings for the v1 API.
type SecurityConfig struct {
	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Defaults applied at read time so zero-value configs behave sensibly.
const (
	DefaultCron            = "0 2 * * *"
	DefaultFetchLimit      = 500
	DefaultDeleteBatchSize = 100
	DefaultWorkers         = 4
	DefaultRunTimeout      = 5 * time.Minute
)

func (a ArchiveConfig) CronOrDefault() string {
	if strings.TrimSpace(a.Cron) == "" {
		return DefaultCron
	}
	return a.Cron
}

func (a ArchiveConfig) FetchLimitOrDefault() int {
	if a.FetchLimit <= 0 {
		return DefaultFetchLimit
	}
	return a.FetchLimit
}

func (a ArchiveConfig) DeleteBatchSizeOrDefault() int {
	if a.DeleteBatchSize <= 0 {
		return DefaultDeleteBatchSize
	}
	return a.DeleteBatchSize
}

func (a ArchiveConfig) WorkersOrDefault() int {
	if a.Workers <= 0 {
		return DefaultWorkers
	}
	return a.Workers
}

func (a ArchiveConfig) RunTimeoutOrDefault() time.Duration {
	if a.RunTimeout.Duration() <= 0 {
		return DefaultRunTimeout
	}
	return a.RunTimeout.Duration()
}

// Duration is a wrapper around time.Duration that supports YAML parsing from
// strings like "100ms" or plain numbers (interpreted as seconds).
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node == nil {
		*d = Duration(0)
		return nil
	}
	raw := strings.TrimSpace(node.Value)
	if raw == "" {
		*d = Duration(0)
		return nil
	}
	if td, err := time.ParseDuration(raw); err == nil {
		*d = Duration(td)
		return nil
	}
	// allow numeric seconds
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		*d = Duration(time.Duration(f * float64(time.Second)))
		return nil
	}
	return fmt.Errorf("invalid duration value: %q", node.Value)
}

func (d Duration) Duration() time.Duration { return time.Duration(d) }
