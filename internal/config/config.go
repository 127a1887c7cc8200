// Package config loads application settings from the environment. The
// core packages never read the environment themselves: values flow in
// through constructors.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

type Config struct {
	// Database
	DBPath string

	// Snapshot
	BackupDir string

	// Logging
	LogLevel string
}

func Load() *Config {
	return &Config{
		DBPath:    getEnv("PFM_DB_PATH", "./data/pfm.sqlite3"),
		BackupDir: getEnv("PFM_BACKUP_DIR", "./backups"),
		LogLevel:  getEnv("PFM_LOG_LEVEL", "info"),
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	var errors []string

	if c.DBPath == "" {
		errors = append(errors, "database path cannot be empty")
	} else {
		dir := filepath.Dir(c.DBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.BackupDir == "" {
		errors = append(errors, "backup directory cannot be empty")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// SlogLevel maps the configured level name onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
