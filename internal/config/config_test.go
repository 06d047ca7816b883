package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := GetDefault()
	require.NoError(t, cfg.Validate())

	batch, err := cfg.Limits.MaxBatchBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(100<<30), batch)

	hashable, err := cfg.Limits.MaxHashableBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(1<<30), hashable)

	delay, err := cfg.Retry.DelayDuration()
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, delay)

	assert.Equal(t, 10000, cfg.Limits.MaxBatchItems)
	assert.Equal(t, 3, cfg.Retry.Attempts)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, GetDefault(), cfg)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := GetDefault()
	cfg.Limits.MaxBatchItems = 42
	cfg.Scan.MinFileSize = "250MiB"
	cfg.ProtectedPaths = []string{"/srv/keep"}
	cfg.ExcludePatterns = []string{"*.log"}
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("limits: [not a map"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero batch items", func(c *Config) { c.Limits.MaxBatchItems = 0 }},
		{"bad batch size", func(c *Config) { c.Limits.MaxBatchSize = "lots" }},
		{"bad hashable size", func(c *Config) { c.Limits.MaxHashableSize = "-5" }},
		{"negative workers", func(c *Config) { c.Limits.WorkerCount = -1 }},
		{"zero retry attempts", func(c *Config) { c.Retry.Attempts = 0 }},
		{"bad retry delay", func(c *Config) { c.Retry.Delay = "soon" }},
		{"negative depth", func(c *Config) { c.Scan.MaxDepth = -1 }},
		{"bad exclude pattern", func(c *Config) { c.ExcludePatterns = []string{"[unterminated"} }},
		{"relative protected path", func(c *Config) { c.ProtectedPaths = []string{"not/absolute"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefault()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestParseSizeFormats(t *testing.T) {
	got, err := parseSize("1GiB")
	require.NoError(t, err)
	assert.Equal(t, int64(1<<30), got)

	got, err = parseSize("500MB")
	require.NoError(t, err)
	assert.Equal(t, int64(500_000_000), got)

	got, err = parseSize("")
	require.NoError(t, err)
	assert.Equal(t, int64(0), got)
}
