package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// MaxInsertBatchSize keeps one insert batch under the bind parameter limit
// of every supported database.
const MaxInsertBatchSize = 2000

type Config struct {
	Port string

	// Auth
	APIKey string

	// Database
	DatabaseDriver string
	DatabaseURL    string

	// Structuring
	HierarchyConfig string // path to a YAML level file; empty uses the built-in scheme
	DedupStrategy   string

	// Persistence
	InsertBatchSize     int
	InsertPipelineDepth int

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool

	// Notion
	NotionAPIKey string

	// Observability
	LogLevel    string
	StatsWindow time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("BYLAWGEST_API_KEY"),

		DatabaseDriver: envOr("DATABASE_DRIVER", "sqlite"),
		DatabaseURL:    envOr("DATABASE_URL", "bylawgest.db"),

		HierarchyConfig: os.Getenv("HIERARCHY_CONFIG"),
		DedupStrategy:   envOr("DEDUP_STRATEGY", "prefer_non_empty"),

		InsertBatchSize:     envInt("INSERT_BATCH_SIZE", 50),
		InsertPipelineDepth: envInt("INSERT_PIPELINE_DEPTH", 4),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		NotionAPIKey: os.Getenv("NOTION_API_KEY"),

		LogLevel:    envOr("LOG_LEVEL", "info"),
		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),
	}

	if cfg.InsertBatchSize <= 0 {
		cfg.InsertBatchSize = 50
	}
	if cfg.InsertBatchSize > MaxInsertBatchSize {
		cfg.InsertBatchSize = MaxInsertBatchSize
	}
	if cfg.InsertPipelineDepth <= 0 {
		cfg.InsertPipelineDepth = 4
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}

	return cfg
}

// Validate checks the values the server cannot start without. The CLI
// skips it because it does not serve HTTP.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("BYLAWGEST_API_KEY is required")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	return nil
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
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

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
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
