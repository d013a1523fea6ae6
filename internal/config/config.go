package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port         string
	DatabasePath string
	LogLevel     string

	// S3
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3BucketName      string
	S3UseSSL          bool

	// PDF engine. An empty WorkerURL leaves the provisioner default in place.
	Engine             string
	WorkerURL          string
	WorkerCacheDir     string
	WorkerFetchTimeout time.Duration

	// Upload limits
	MaxFileSize int64
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		DatabasePath:      getEnv("DATABASE_PATH", "data/pdftext.db"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		S3Endpoint:        getEnv("S3_ENDPOINT", "localhost:9000"),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", "minioadmin"),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", "minioadmin"),
		S3BucketName:      getEnv("S3_BUCKET_NAME", "documents"),
		S3UseSSL:          getEnv("S3_USE_SSL", "false") == "true",
		Engine:            getEnv("PDF_ENGINE", "ledongthuc"),
		WorkerURL:         os.Getenv("PDF_WORKER_URL"),
		WorkerCacheDir:    getEnv("PDF_WORKER_CACHE_DIR", "data/worker"),
	}

	timeout, err := time.ParseDuration(getEnv("PDF_WORKER_FETCH_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid PDF_WORKER_FETCH_TIMEOUT: %w", err)
	}
	cfg.WorkerFetchTimeout = timeout

	maxSize, err := strconv.ParseInt(getEnv("MAX_FILE_SIZE", "20971520"), 10, 64)
	if err != nil || maxSize <= 0 {
		return nil, fmt.Errorf("invalid MAX_FILE_SIZE %q", os.Getenv("MAX_FILE_SIZE"))
	}
	cfg.MaxFileSize = maxSize

	switch cfg.Engine {
	case "ledongthuc", "pdfcpu":
	default:
		return nil, fmt.Errorf("unsupported PDF_ENGINE %q", cfg.Engine)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
