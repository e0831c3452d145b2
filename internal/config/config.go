package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Ingestion guards. These are the only tunables the pipeline itself
	// exposes: the markup size ceiling and the sanitization time budget.
	MarkupByteCeiling int
	SanitizeBudget    time.Duration

	// Upload limits
	MaxUploadBytes int64

	// Import worker pool
	WorkerCount  int
	MaxQueueSize int

	// Job state
	JobTTL time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8070"),

		APIKey: os.Getenv("PASTEGATE_API_KEY"),

		MarkupByteCeiling: envInt("MARKUP_BYTE_CEILING", 500*1024),
		SanitizeBudget:    envDuration("SANITIZE_BUDGET", 150*time.Millisecond),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),
	}

	if cfg.MarkupByteCeiling <= 0 {
		cfg.MarkupByteCeiling = 500 * 1024
	}
	if cfg.SanitizeBudget <= 0 {
		cfg.SanitizeBudget = 150 * time.Millisecond
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("PASTEGATE_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
