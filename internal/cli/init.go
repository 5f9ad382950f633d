// Package cli provides common initialization for the cashbook binaries:
// logging, environment loading, configuration and store startup.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"cashbook/internal/config"
	"cashbook/internal/storage"
)

// SetupLogger initializes structured logging at the given level and sets it
// as the process default.
func SetupLogger(level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// Setup loads and validates configuration, then configures the default
// logger at the configured level. Exits the process on invalid config.
func Setup() (*slog.Logger, *config.Config) {
	cfg := config.Load()

	// An invalid level falls back to info here and is rejected by Validate.
	level, _ := cfg.SlogLevel()
	logger := SetupLogger(level)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	return logger, cfg
}

// InitStore opens the ledger store at the given path. A failure here means
// the schema could not be initialized, so the process must not continue.
func InitStore(logger *slog.Logger, dbPath string) *storage.Store {
	store, err := storage.Open(dbPath)
	if err != nil {
		logger.Error("Failed to initialize ledger store", "error", err, "path", dbPath)
		os.Exit(1)
	}
	return store
}
