// Package cli holds the bootstrap helpers shared by cmd/ledger and
// cmd/ledger-worker.
package cli

import (
	"os"

	"github.com/joho/godotenv"
	"ledger/internal/config"
	"ledger/internal/log"
	"ledger/internal/storage"
)

// SetupLogger initializes structured logging and installs it as the slog
// default.
func SetupLogger(component string) *log.Logger {
	logger := log.New(log.DefaultConfig()).WithComponent(component)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development. Errors are
// ignored silently as the file is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it, exiting the
// process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// OpenStore builds the persistence backend named by the configuration,
// exiting the process on failure. DATA_BACKEND=memory gives a volatile
// in-process store for demos and tests.
func OpenStore(logger *log.Logger, cfg *config.Config) storage.Store {
	switch cfg.DataBackend {
	case config.BackendMemory:
		logger.Warn("Using in-memory backend, data will not survive restarts")
		return storage.NewMemoryRepository()
	default:
		store, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository",
				log.FieldError, err,
				log.FieldPath, cfg.SQLiteDBPath)
			os.Exit(1)
		}
		return store
	}
}
