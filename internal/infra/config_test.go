package infra

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_URL", "")
	t.Setenv("SUNO_TIMEOUT_SECONDS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.SunoAPIURL != "https://api.sunoapi.org/api/v1/generate" {
		t.Fatalf("SunoAPIURL mismatch: %q", cfg.SunoAPIURL)
	}
	if cfg.SunoTimeout != 10*time.Second {
		t.Fatalf("SunoTimeout = %s, want 10s", cfg.SunoTimeout)
	}
	if cfg.SpeechTimeout != 30*time.Second {
		t.Fatalf("SpeechTimeout = %s, want 30s", cfg.SpeechTimeout)
	}
	if cfg.DBMaxConns != 10 || cfg.DBMinConns != 1 {
		t.Fatalf("pool sizing = %d/%d, want 10/1", cfg.DBMaxConns, cfg.DBMinConns)
	}
}

func TestLoadConfigPoolSizingOverride(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("DB_MIN_CONNS", "5")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.DBMaxConns != 25 || cfg.DBMinConns != 5 {
		t.Fatalf("pool sizing = %d/%d, want 25/5", cfg.DBMaxConns, cfg.DBMinConns)
	}
}

func TestLoadConfigRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "test-secret")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error without DATABASE_URL")
	}
}

func TestSunoCallbackURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_URL", "https://songs.example.com/")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	want := "https://songs.example.com/api/v1/webhooks/suno-callback"
	if got := cfg.SunoCallbackURL(); got != want {
		t.Fatalf("callback url = %q, want %q", got, want)
	}
}
