// Package config handles application configuration for pacer.
// Configuration is loaded from ~/.config/pacer/config.yaml, with .env
// files and PACER_* environment variables layered on top. Pacing
// settings (price, quota, window) live in the database, not here; this
// file covers machine-local concerns only.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	// DataDir overrides the default data directory (~/.config/pacer)
	DataDir string `yaml:"data_dir,omitempty"`

	// DatabasePath overrides the SQLite database location
	DatabasePath string `yaml:"database_path,omitempty"`

	// LogPath overrides the log file location
	LogPath string `yaml:"log_path,omitempty"`

	// Notifications configures desktop notifications
	Notifications NotificationConfig `yaml:"notifications,omitempty"`

	// Suggestion configures the goal-loosening suggestion
	Suggestion SuggestionConfig `yaml:"suggestion,omitempty"`
}

// NotificationConfig defines desktop notification settings.
type NotificationConfig struct {
	// Enabled enables/disables notifications
	Enabled bool `yaml:"enabled"`

	// Sound enables notification sounds
	Sound bool `yaml:"sound,omitempty"`
}

// SuggestionConfig defines when a streak of long waits suggests
// loosening the pacing goal.
type SuggestionConfig struct {
	// ThresholdMinutes is how many minutes past the allowed interval a
	// wait must go to count toward the streak
	ThresholdMinutes int `yaml:"threshold_minutes,omitempty"`

	// Streak is how many qualifying waits in a row raise the suggestion
	Streak int `yaml:"streak,omitempty"`
}

// Threshold returns the streak threshold as a duration.
func (s SuggestionConfig) Threshold() time.Duration {
	return time.Duration(s.ThresholdMinutes) * time.Minute
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DataDir: defaultDataDir(),
		Notifications: NotificationConfig{
			Enabled: true,
			Sound:   false,
		},
		Suggestion: SuggestionConfig{
			ThresholdMinutes: 15,
			Streak:           3,
		},
	}
}

// Load reads configuration from disk and the environment, merging with
// defaults. A missing config file is not an error.
func Load() (*Config, error) {
	// .env files feed the PACER_* overrides below.
	for _, path := range envPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := Default()

	path := configPath()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			// Unmarshalling over the defaults keeps every key the file
			// does not mention.
			return nil, err
		}
	}

	if v := os.Getenv("PACER_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("PACER_DB"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("PACER_LOG"); v != "" {
		cfg.LogPath = v
	}

	cfg.normalize()
	return cfg, nil
}

// Save writes the configuration to disk.
func (c *Config) Save() error {
	path := configPath()
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func (c *Config) normalize() {
	if c.Suggestion.ThresholdMinutes <= 0 {
		c.Suggestion.ThresholdMinutes = 15
	}
	if c.Suggestion.Streak <= 0 {
		c.Suggestion.Streak = 3
	}
}

// GetDataDir returns the resolved data directory path.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return defaultDataDir()
	}
	return expandHome(c.DataDir)
}

// GetDatabasePath returns the resolved SQLite database path.
func (c *Config) GetDatabasePath() string {
	if c.DatabasePath != "" {
		return expandHome(c.DatabasePath)
	}
	return filepath.Join(c.GetDataDir(), "pacer.db")
}

// GetLogPath returns the resolved log file path.
func (c *Config) GetLogPath() string {
	if c.LogPath != "" {
		return expandHome(c.LogPath)
	}
	return filepath.Join(c.GetDataDir(), "pacer.log")
}

// defaultDataDir returns the default data directory path.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pacer"
	}
	return filepath.Join(home, ".config", "pacer")
}

// configDir returns the configuration directory path (XDG compliant).
func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pacer")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "pacer")
}

// configPath returns the path to the config file. PACER_CONFIG points
// at an alternate file.
func configPath() string {
	if v := os.Getenv("PACER_CONFIG"); v != "" {
		return v
	}
	dir := configDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// envPaths returns the locations checked for .env files.
func envPaths() []string {
	var paths []string
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "pacer", ".env"))
	}
	return paths
}

func expandHome(path string) string {
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~/"))
		}
	}
	return path
}
