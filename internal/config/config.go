// Package config loads and validates the engine configuration. Per-scan
// parameters travel in the scan request; this file holds engine-level
// limits and operator extensions.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Limits          Limits   `yaml:"limits"`
	Retry           Retry    `yaml:"retry"`
	Scan            Scan     `yaml:"scan"`
	ProtectedPaths  []string `yaml:"protected_paths"`
	ExcludePatterns []string `yaml:"exclude_patterns"`
	Debug           bool     `yaml:"debug"`
}

// Limits caps the work a single operation may perform
type Limits struct {
	MaxBatchItems   int    `yaml:"max_batch_items"`
	MaxBatchSize    string `yaml:"max_batch_size"`    // human-readable, e.g. "100GB"
	MaxHashableSize string `yaml:"max_hashable_size"` // duplicate-detection ceiling
	WorkerCount     int    `yaml:"worker_count"`      // 0 means NumCPU
}

// Retry holds the deletion retry policy for cloud-synced paths
type Retry struct {
	Attempts int    `yaml:"attempts"`
	Delay    string `yaml:"delay"` // e.g. "500ms"
}

// DelayDuration returns the parsed delay between attempts.
func (r Retry) DelayDuration() (time.Duration, error) {
	if r.Delay == "" {
		return 0, nil
	}
	return time.ParseDuration(r.Delay)
}

// Scan holds default scan parameters applied when the caller leaves them unset
type Scan struct {
	MinFileSize    string `yaml:"min_file_size"` // large-file threshold, e.g. "100MB"
	MaxDepth       int    `yaml:"max_depth"`
	FollowSymlinks bool   `yaml:"follow_symlinks"`
}

// MaxBatchBytes returns the parsed batch size ceiling.
func (l Limits) MaxBatchBytes() (int64, error) {
	return parseSize(l.MaxBatchSize)
}

// MaxHashableBytes returns the parsed duplicate-hashing ceiling.
func (l Limits) MaxHashableBytes() (int64, error) {
	return parseSize(l.MaxHashableSize)
}

// MinFileSizeBytes returns the parsed large-file threshold.
func (s Scan) MinFileSizeBytes() (int64, error) {
	return parseSize(s.MinFileSize)
}

func parseSize(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	return int64(n), nil
}

// Load loads configuration from a file, falling back to defaults when the
// file does not exist.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		defaultPath, err := GetConfigPath()
		if err != nil {
			return nil, err
		}
		configPath = defaultPath
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefault(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Save saves configuration to a file
func Save(config *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Limits.MaxBatchItems <= 0 {
		return fmt.Errorf("max_batch_items must be > 0")
	}
	if _, err := c.Limits.MaxBatchBytes(); err != nil {
		return err
	}
	if _, err := c.Limits.MaxHashableBytes(); err != nil {
		return err
	}
	if _, err := c.Scan.MinFileSizeBytes(); err != nil {
		return err
	}
	if c.Limits.WorkerCount < 0 {
		return fmt.Errorf("worker_count must be >= 0")
	}
	if c.Retry.Attempts <= 0 {
		return fmt.Errorf("retry attempts must be > 0")
	}
	if _, err := c.Retry.DelayDuration(); err != nil {
		return fmt.Errorf("invalid retry delay: %w", err)
	}
	if c.Scan.MaxDepth < 0 {
		return fmt.Errorf("max_depth must be >= 0")
	}

	for _, pattern := range c.ExcludePatterns {
		if _, err := filepath.Match(pattern, "probe"); err != nil {
			return fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
	}
	for _, path := range c.ProtectedPaths {
		if !filepath.IsAbs(path) {
			return fmt.Errorf("protected path must be absolute: %s", path)
		}
	}

	return nil
}

// GetConfigPath returns the default config path
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "reclaim", "config.yaml"), nil
}

// EnsureConfigExists creates a default config file if it doesn't exist
func EnsureConfigExists() (string, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := Save(GetDefault(), configPath); err != nil {
			return "", err
		}
	}

	return configPath, nil
}
