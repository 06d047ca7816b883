package config

// GetDefault returns a configuration with conservative defaults. Limits are
// intentionally generous for interactive use and exist to stop runaway
// batches, not to be hit in normal operation.
func GetDefault() *Config {
	return &Config{
		Limits: Limits{
			MaxBatchItems:   10000,
			MaxBatchSize:    "100GiB",
			MaxHashableSize: "1GiB",
			WorkerCount:     0, // NumCPU
		},
		Retry: Retry{
			Attempts: 3,
			Delay:    "500ms",
		},
		Scan: Scan{
			MinFileSize:    "100MiB",
			MaxDepth:       32,
			FollowSymlinks: false,
		},
		ProtectedPaths:  []string{},
		ExcludePatterns: []string{},
		Debug:           false,
	}
}
