// Package cli provides common bootstrap utilities and the interactive
// session loop. All environment lookup and process wiring lives here,
// outside the core packages.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"pfm/internal/storage"
)

// SetupLogger initializes structured logging at the given level and
// sets it as the default logger.
func SetupLogger(level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// InitLedger opens the ledger database at the given path.
// Returns the ledger or exits the process on failure.
func InitLedger(logger *slog.Logger, dbPath string) *storage.Ledger {
	ledger, err := storage.Open(dbPath)
	if err != nil {
		logger.Error("Failed to open ledger database", "error", err, "path", dbPath)
		os.Exit(1)
	}
	return ledger
}
