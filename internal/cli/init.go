// Package cli provides the shared bootstrap used by the dispensa
// binaries: environment loading, logging, configuration, and signal
// handling.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"dispensa/internal/config"
	"dispensa/internal/log"
	"dispensa/internal/storage"
)

// LoadEnvFile loads the .env file for local development. Errors are
// ignored; production deployments configure through the environment.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the process logger honoring LOG_LEVEL and
// installs it as the slog default.
func SetupLogger() *log.Logger {
	logger := log.New(log.Config{
		Level:     log.ParseLevel(os.Getenv("LOG_LEVEL")),
		Component: log.ComponentApp,
	})
	log.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration, exiting the process when
// validation fails.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err.Error())
		os.Exit(1)
	}
	return cfg
}

// OpenStore opens the SQLite-backed record store, exiting on failure.
func OpenStore(logger *log.Logger, dbPath string) *storage.Repository {
	repo, err := storage.NewRepository(dbPath)
	if err != nil {
		logger.Error("Failed to open record store", log.FieldError, err.Error(), "path", dbPath)
		os.Exit(1)
	}
	return repo
}

// NotifyShutdown returns a context cancelled on SIGINT or SIGTERM.
func NotifyShutdown() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
