// Package config loads daemon configuration from REEL_* environment variables.
package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	DatabaseURL string // REEL_DATABASE_URL (required)
	HTTPAddr    string // REEL_HTTP_ADDR (default ":8080")
	NATSURL     string // REEL_NATS_URL (optional, empty = no events)
	AuthToken   string // REEL_AUTH_TOKEN (optional, empty = auth disabled)

	// Backup settings
	BackupInterval   time.Duration // REEL_BACKUP_INTERVAL (default 5m; 0 = disabled)
	BackupS3Bucket   string        // REEL_BACKUP_S3_BUCKET (enables S3 when set)
	BackupS3Endpoint string        // REEL_BACKUP_S3_ENDPOINT (custom endpoint for MinIO)
	BackupS3Region   string        // REEL_BACKUP_S3_REGION (default "us-east-1")
	BackupS3Key      string        // REEL_BACKUP_S3_KEY (default "reel/backup.jsonl")
	BackupFile       string        // REEL_BACKUP_FILE (enables local-file backups when set)
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL:      os.Getenv("REEL_DATABASE_URL"),
		HTTPAddr:         envOrDefault("REEL_HTTP_ADDR", ":8080"),
		NATSURL:          os.Getenv("REEL_NATS_URL"),
		AuthToken:        os.Getenv("REEL_AUTH_TOKEN"),
		BackupS3Bucket:   os.Getenv("REEL_BACKUP_S3_BUCKET"),
		BackupS3Endpoint: os.Getenv("REEL_BACKUP_S3_ENDPOINT"),
		BackupS3Region:   envOrDefault("REEL_BACKUP_S3_REGION", "us-east-1"),
		BackupS3Key:      envOrDefault("REEL_BACKUP_S3_KEY", "reel/backup.jsonl"),
		BackupFile:       os.Getenv("REEL_BACKUP_FILE"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("REEL_DATABASE_URL is required")
	}

	intervalStr := envOrDefault("REEL_BACKUP_INTERVAL", "5m")
	if intervalStr != "" {
		d, err := time.ParseDuration(intervalStr)
		if err != nil {
			return nil, fmt.Errorf("REEL_BACKUP_INTERVAL: %w", err)
		}
		c.BackupInterval = d
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
