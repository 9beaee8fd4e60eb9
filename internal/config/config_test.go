package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// ============================================================================
// Defaults and loading
// ============================================================================

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if !cfg.Notifications.Enabled {
		t.Error("expected notifications enabled by default")
	}
	if cfg.Notifications.Sound {
		t.Error("expected sound disabled by default")
	}
	if cfg.Suggestion.ThresholdMinutes != 15 {
		t.Errorf("ThresholdMinutes = %d, want 15", cfg.Suggestion.ThresholdMinutes)
	}
	if cfg.Suggestion.Streak != 3 {
		t.Errorf("Streak = %d, want 3", cfg.Suggestion.Streak)
	}
	if cfg.Suggestion.Threshold() != 15*time.Minute {
		t.Errorf("Threshold() = %v, want 15m", cfg.Suggestion.Threshold())
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("PACER_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
	t.Setenv("PACER_DATA_DIR", "")
	t.Setenv("PACER_DB", "")
	t.Setenv("PACER_LOG", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !cfg.Notifications.Enabled {
		t.Error("expected defaults when no config file exists")
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "notifications:\n  enabled: false\nsuggestion:\n  threshold_minutes: 20\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	t.Setenv("PACER_CONFIG", path)
	t.Setenv("PACER_DATA_DIR", "")
	t.Setenv("PACER_DB", "")
	t.Setenv("PACER_LOG", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Notifications.Enabled {
		t.Error("expected notifications disabled from file")
	}
	if cfg.Suggestion.ThresholdMinutes != 20 {
		t.Errorf("ThresholdMinutes = %d, want 20", cfg.Suggestion.ThresholdMinutes)
	}
	// Keys the file does not mention keep their defaults.
	if cfg.Suggestion.Streak != 3 {
		t.Errorf("Streak = %d, want default 3", cfg.Suggestion.Streak)
	}
}

func TestLoadClampsBadSuggestionValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "suggestion:\n  threshold_minutes: -5\n  streak: 0\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	t.Setenv("PACER_CONFIG", path)
	t.Setenv("PACER_DATA_DIR", "")
	t.Setenv("PACER_DB", "")
	t.Setenv("PACER_LOG", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Suggestion.ThresholdMinutes != 15 || cfg.Suggestion.Streak != 3 {
		t.Errorf("suggestion = %+v, want defaults", cfg.Suggestion)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PACER_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
	t.Setenv("PACER_DATA_DIR", "/tmp/pacer-data")
	t.Setenv("PACER_DB", "/tmp/other.db")
	t.Setenv("PACER_LOG", "/tmp/other.log")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.GetDataDir() != "/tmp/pacer-data" {
		t.Errorf("GetDataDir() = %q, want /tmp/pacer-data", cfg.GetDataDir())
	}
	if cfg.GetDatabasePath() != "/tmp/other.db" {
		t.Errorf("GetDatabasePath() = %q, want /tmp/other.db", cfg.GetDatabasePath())
	}
	if cfg.GetLogPath() != "/tmp/other.log" {
		t.Errorf("GetLogPath() = %q, want /tmp/other.log", cfg.GetLogPath())
	}
}

// ============================================================================
// Path resolution
// ============================================================================

func TestPathsDeriveFromDataDir(t *testing.T) {
	cfg := &Config{DataDir: "/srv/pacer"}

	if got := cfg.GetDatabasePath(); got != filepath.Join("/srv/pacer", "pacer.db") {
		t.Errorf("GetDatabasePath() = %q", got)
	}
	if got := cfg.GetLogPath(); got != filepath.Join("/srv/pacer", "pacer.log") {
		t.Errorf("GetLogPath() = %q", got)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	cfg := &Config{DataDir: "~/pacer-data"}
	if got := cfg.GetDataDir(); got != filepath.Join(home, "pacer-data") {
		t.Errorf("GetDataDir() = %q, want under home", got)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("PACER_CONFIG", path)
	t.Setenv("PACER_DATA_DIR", "")
	t.Setenv("PACER_DB", "")
	t.Setenv("PACER_LOG", "")

	cfg := Default()
	cfg.Notifications.Sound = true
	cfg.Suggestion.ThresholdMinutes = 25
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !loaded.Notifications.Sound {
		t.Error("expected sound enabled after round trip")
	}
	if loaded.Suggestion.ThresholdMinutes != 25 {
		t.Errorf("ThresholdMinutes = %d, want 25", loaded.Suggestion.ThresholdMinutes)
	}
}
