package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"PROPERTY_BACKEND", "SAVED_BACKEND", "SYNC_SOURCE", "CACHE_TTL", "SYNC_INTERVAL", "HTTP_ADDR"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.PropertyBackend != BackendStatic || cfg.SavedBackend != BackendSQLite {
		t.Errorf("unexpected backends %q/%q", cfg.PropertyBackend, cfg.SavedBackend)
	}
	if cfg.Redis.TTL != 5*time.Minute {
		t.Errorf("expected default TTL, got %v", cfg.Redis.TTL)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("expected :8080, got %q", cfg.HTTPAddr)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PROPERTY_BACKEND", "remote")
	t.Setenv("SAVED_BACKEND", "sqlite")
	t.Setenv("RECORD_SERVICE_URL", "https://records.example/api")
	t.Setenv("CACHE_TTL", "90")
	t.Setenv("SYNC_INTERVAL", "15m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RecordService.URL != "https://records.example/api" {
		t.Errorf("unexpected url %q", cfg.RecordService.URL)
	}
	if cfg.Redis.TTL != 90*time.Second {
		t.Errorf("expected bare seconds to parse, got %v", cfg.Redis.TTL)
	}
	if cfg.Sync.Interval != 15*time.Minute {
		t.Errorf("unexpected interval %v", cfg.Sync.Interval)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"static ok", Config{PropertyBackend: "static", SavedBackend: "memory"}, ""},
		{"postgres without url", Config{PropertyBackend: "postgres", SavedBackend: "memory"}, "DATABASE_URL"},
		{"half s3 credentials", Config{PropertyBackend: "static", SavedBackend: "memory", Export: ExportConfig{AccessKeyID: "AKIA"}}, "S3_SECRET_ACCESS_KEY"},
		{"remote saved without url", Config{PropertyBackend: "sqlite", SavedBackend: "remote"}, "RECORD_SERVICE_URL"},
		{"unknown backend", Config{PropertyBackend: "mongo", SavedBackend: "memory"}, "unknown PROPERTY_BACKEND"},
		{"unknown sync source", Config{PropertyBackend: "sqlite", SavedBackend: "memory", Sync: SyncConfig{Source: "ftp"}}, "unknown SYNC_SOURCE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.want == "" {
				if err != nil {
					t.Fatalf("unexpected error %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
