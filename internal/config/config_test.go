package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want development", cfg.Env)
	}
	if !cfg.IsDev() {
		t.Error("IsDev() = false for development")
	}
	if cfg.MediaBackend != StorageBaseURL {
		t.Errorf("MediaBackend = %q, want %q", cfg.MediaBackend, StorageBaseURL)
	}
	if cfg.EnquiryRateLimit != 10 {
		t.Errorf("EnquiryRateLimit = %d, want 10", cfg.EnquiryRateLimit)
	}
}

func TestLoadAddrAndDSN(t *testing.T) {
	t.Setenv("APP_HOST", "127.0.0.1")
	t.Setenv("APP_PORT", "9000")
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("POSTGRES_USER", "svc")
	t.Setenv("POSTGRES_PASSWORD", "s3cret")
	t.Setenv("POSTGRES_DB", "portfolio")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Addr() != "127.0.0.1:9000" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
	dsn := cfg.DSN()
	if !strings.Contains(dsn, "svc:s3cret@db.internal") || !strings.Contains(dsn, "/portfolio") {
		t.Errorf("DSN() = %q", dsn)
	}
}

func TestLoadProductionRequiresPassword(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("POSTGRES_PASSWORD", "")

	if _, err := Load(); err == nil {
		t.Error("expected error for default password in production")
	}
}

func TestLoadProductionRequiresS3WhenSelected(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("POSTGRES_PASSWORD", "real-secret")
	t.Setenv("MEDIA_BACKEND", StorageS3)
	t.Setenv("S3_ENDPOINT", "")
	t.Setenv("S3_ACCESS_KEY", "")

	if _, err := Load(); err == nil {
		t.Error("expected error for MEDIA_BACKEND=s3 without S3 settings")
	}
}

func TestLoadRejectsUnknownMediaBackend(t *testing.T) {
	t.Setenv("MEDIA_BACKEND", "ftp")

	if _, err := Load(); err == nil {
		t.Error("expected error for unknown MEDIA_BACKEND")
	}
}

func TestEnvIntOrDefault(t *testing.T) {
	t.Setenv("TEST_INT", "25")
	if got := envIntOrDefault("TEST_INT", 10); got != 25 {
		t.Errorf("got %d, want 25", got)
	}

	t.Setenv("TEST_INT", "not-a-number")
	if got := envIntOrDefault("TEST_INT", 10); got != 10 {
		t.Errorf("got %d, want fallback 10", got)
	}

	t.Setenv("TEST_INT", "-3")
	if got := envIntOrDefault("TEST_INT", 10); got != 10 {
		t.Errorf("got %d, want fallback for non-positive", got)
	}

	if got := envIntOrDefault("TEST_INT_UNSET", 7); got != 7 {
		t.Errorf("got %d, want fallback 7", got)
	}
}
