// Package config contains everything related to configuration
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrInvalid is wrapped by every validation error returned from Load.
var ErrInvalid = errors.New("invalid configuration")

// Config holds the application configuration.
type Config struct {
	DatabasePath   string
	ReportPath     string
	LogPath        string
	LogLevel       slog.Level
	ReloadDebounce time.Duration
	ChartHeight    int
	WatchReport    bool
	NotifyOnReload bool
}

// Default values
const (
	defaultReloadDebounce = 250 * time.Millisecond
	defaultChartHeight    = 10
	minChartHeight        = 3
	maxChartHeight        = 40
	appDirName            = "arv"
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	level, err := ParseLevel(getEnvString("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabasePath:   getEnvString("DATABASE_PATH", getDefaultDatabasePath()),
		ReportPath:     getEnvString("REPORT_PATH", ""),
		LogPath:        getEnvString("LOG_PATH", ""),
		LogLevel:       level,
		ReloadDebounce: getEnvDuration("RELOAD_DEBOUNCE", defaultReloadDebounce),
		ChartHeight:    getEnvInt("CHART_HEIGHT", defaultChartHeight),
		WatchReport:    getEnvBool("WATCH_REPORT", false),
		NotifyOnReload: getEnvBool("NOTIFY_ON_RELOAD", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := ensureDir(filepath.Dir(cfg.DatabasePath)); err != nil {
		return nil, err
	}

	if cfg.LogPath != "" {
		if err := ensureDir(filepath.Dir(cfg.LogPath)); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("%w: DATABASE_PATH is empty", ErrInvalid)
	}
	if c.ChartHeight < minChartHeight || c.ChartHeight > maxChartHeight {
		return fmt.Errorf("%w: CHART_HEIGHT must be between %d and %d, got %d",
			ErrInvalid, minChartHeight, maxChartHeight, c.ChartHeight)
	}
	if c.ReloadDebounce <= 0 {
		return fmt.Errorf("%w: RELOAD_DEBOUNCE must be positive, got %v", ErrInvalid, c.ReloadDebounce)
	}
	return nil
}

// ParseLevel maps a level name (debug, info, warn, error) to an slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: unknown LOG_LEVEL %q", ErrInvalid, name)
	}
}

// Dir returns the application config directory.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appDirName)
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	if dir := Dir(); dir != "" {
		paths = append(paths, filepath.Join(dir, ".env"))
	}

	return paths
}

// getDefaultDatabasePath returns the default path for the SQLite database.
func getDefaultDatabasePath() string {
	dir := Dir()
	if dir == "" {
		return "arv.db"
	}
	return filepath.Join(dir, "arv.db")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as milliseconds if no unit specified
		if ms, err := strconv.Atoi(value); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns the default.
// Accepts the forms understood by strconv.ParseBool plus "yes"/"no".
func getEnvBool(key string, defaultValue bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch value {
	case "":
		return defaultValue
	case "yes", "on":
		return true
	case "no", "off":
		return false
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
