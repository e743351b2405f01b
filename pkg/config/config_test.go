package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("AGNI_URL", "https://agni.example.com/")
	t.Setenv("KEY_ID", "key-1")
	t.Setenv("KEY_VALUE", "secret")
	t.Setenv("AGNI_ORG_ID", "org-1")
	t.Setenv("AGNI_START_DATE", "")
	t.Setenv("AGNI_PUSHGATEWAY_URL", "")
	t.Setenv("AGNI_REDIS_ADDR", "")
}

func TestFromEnv(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.BaseURL != "https://agni.example.com" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", cfg.BaseURL)
	}
	if cfg.KeyID != "key-1" || cfg.KeyValue != "secret" || cfg.OrgID != "org-1" {
		t.Errorf("credentials not loaded: %+v", cfg)
	}
}

func TestFromEnv_MissingCredentials(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("KEY_VALUE", "")

	if _, err := FromEnv(); !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("err = %v, want ErrMissingCredentials", err)
	}
}

func TestFromEnv_StartDate(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AGNI_START_DATE", "2025-10-31T12:00:00Z")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	want := time.Date(2025, 10, 31, 12, 0, 0, 0, time.UTC)
	if !cfg.StartDate.Equal(want) {
		t.Errorf("StartDate = %v, want %v", cfg.StartDate, want)
	}

	t.Setenv("AGNI_START_DATE", "yesterday")
	if _, err := FromEnv(); err == nil {
		t.Error("expected error for malformed start date")
	}
}

func TestRangeStart(t *testing.T) {
	now := time.Date(2025, 10, 31, 18, 0, 0, 0, time.UTC)

	cfg := &Config{}
	if got := cfg.RangeStart(now, 6*time.Hour); !got.Equal(now.Add(-6 * time.Hour)) {
		t.Errorf("RangeStart = %v, want now-6h", got)
	}

	cfg.StartDate = time.Date(2025, 10, 30, 0, 0, 0, 0, time.UTC)
	if got := cfg.RangeStart(now, 6*time.Hour); !got.Equal(cfg.StartDate) {
		t.Errorf("RangeStart = %v, want explicit start date", got)
	}
}

func TestLoadTunables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tunables.yaml")
	content := "window_minutes: 15\nstat_types:\n  - stats.count.users\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadTunables(path, DefaultTunables(6))
	if err != nil {
		t.Fatalf("LoadTunables: %v", err)
	}
	if got.WindowMinutes != 15 {
		t.Errorf("WindowMinutes = %d, want 15", got.WindowMinutes)
	}
	if got.LookbackHours != 6 {
		t.Errorf("LookbackHours = %d, want default 6", got.LookbackHours)
	}
	if len(got.StatTypes) != 1 || got.StatTypes[0] != "stats.count.users" {
		t.Errorf("StatTypes = %v", got.StatTypes)
	}
	if got.WindowSize() != 15*time.Minute {
		t.Errorf("WindowSize = %v", got.WindowSize())
	}
}

func TestLoadTunables_MissingFile(t *testing.T) {
	if _, err := LoadTunables(filepath.Join(t.TempDir(), "nope.yaml"), DefaultTunables(6)); err == nil {
		t.Error("expected error for missing tunables file")
	}
}
