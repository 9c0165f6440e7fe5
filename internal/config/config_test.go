package config

import (
	"testing"
	"time"
)

// backupEnvVars lists all backup-related env vars that must be cleared between tests.
var backupEnvVars = []string{
	"REEL_BACKUP_INTERVAL", "REEL_BACKUP_S3_BUCKET", "REEL_BACKUP_S3_ENDPOINT",
	"REEL_BACKUP_S3_REGION", "REEL_BACKUP_S3_KEY", "REEL_BACKUP_FILE",
}

func clearAllEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"REEL_DATABASE_URL", "REEL_HTTP_ADDR", "REEL_NATS_URL", "REEL_AUTH_TOKEN"} {
		t.Setenv(key, "")
	}
	for _, key := range backupEnvVars {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	for _, tc := range []struct {
		name         string
		env          map[string]string
		wantErr      bool
		wantHTTPAddr string
		wantNATSURL  string
	}{
		{
			name:    "MissingDatabaseURL",
			env:     map[string]string{},
			wantErr: true,
		},
		{
			name:         "DefaultAddresses",
			env:          map[string]string{"REEL_DATABASE_URL": "postgres://localhost/reel"},
			wantHTTPAddr: ":8080",
		},
		{
			name: "CustomAddresses",
			env: map[string]string{
				"REEL_DATABASE_URL": "postgres://db:5432/reel",
				"REEL_HTTP_ADDR":    ":3000",
				"REEL_NATS_URL":     "nats://localhost:4222",
			},
			wantHTTPAddr: ":3000",
			wantNATSURL:  "nats://localhost:4222",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			clearAllEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.DatabaseURL != tc.env["REEL_DATABASE_URL"] {
				t.Errorf("DatabaseURL = %q, want %q", cfg.DatabaseURL, tc.env["REEL_DATABASE_URL"])
			}
			if cfg.HTTPAddr != tc.wantHTTPAddr {
				t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, tc.wantHTTPAddr)
			}
			if cfg.NATSURL != tc.wantNATSURL {
				t.Errorf("NATSURL = %q, want %q", cfg.NATSURL, tc.wantNATSURL)
			}
		})
	}
}

func TestLoadBackupDefaults(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("REEL_DATABASE_URL", "postgres://localhost/reel")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BackupInterval != 5*time.Minute {
		t.Errorf("BackupInterval = %v, want 5m", cfg.BackupInterval)
	}
	if cfg.BackupS3Region != "us-east-1" {
		t.Errorf("BackupS3Region = %q, want %q", cfg.BackupS3Region, "us-east-1")
	}
	if cfg.BackupS3Key != "reel/backup.jsonl" {
		t.Errorf("BackupS3Key = %q, want %q", cfg.BackupS3Key, "reel/backup.jsonl")
	}
	if cfg.BackupFile != "" {
		t.Errorf("BackupFile = %q, want empty", cfg.BackupFile)
	}
}

func TestLoadBackupCustom(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("REEL_DATABASE_URL", "postgres://localhost/reel")
	t.Setenv("REEL_BACKUP_INTERVAL", "10m")
	t.Setenv("REEL_BACKUP_S3_BUCKET", "studio-backups")
	t.Setenv("REEL_BACKUP_S3_ENDPOINT", "http://minio:9000")
	t.Setenv("REEL_BACKUP_S3_REGION", "eu-west-1")
	t.Setenv("REEL_BACKUP_S3_KEY", "custom/key.jsonl")
	t.Setenv("REEL_BACKUP_FILE", "/var/lib/reel/backup.jsonl")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BackupInterval != 10*time.Minute {
		t.Errorf("BackupInterval = %v, want 10m", cfg.BackupInterval)
	}
	if cfg.BackupS3Bucket != "studio-backups" {
		t.Errorf("BackupS3Bucket = %q", cfg.BackupS3Bucket)
	}
	if cfg.BackupS3Endpoint != "http://minio:9000" {
		t.Errorf("BackupS3Endpoint = %q", cfg.BackupS3Endpoint)
	}
	if cfg.BackupS3Region != "eu-west-1" {
		t.Errorf("BackupS3Region = %q", cfg.BackupS3Region)
	}
	if cfg.BackupS3Key != "custom/key.jsonl" {
		t.Errorf("BackupS3Key = %q", cfg.BackupS3Key)
	}
	if cfg.BackupFile != "/var/lib/reel/backup.jsonl" {
		t.Errorf("BackupFile = %q", cfg.BackupFile)
	}
}

func TestLoadBadInterval(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("REEL_DATABASE_URL", "postgres://localhost/reel")
	t.Setenv("REEL_BACKUP_INTERVAL", "shortly")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unparseable interval")
	}
}
