package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/phrazzld/taskward/internal/config"
	"github.com/phrazzld/taskward/internal/redact"
)

// setupAppDatabase establishes a connection to the database and configures
// connection pools. The initial ping is retried a bounded number of times so
// the server tolerates a database that is still starting up alongside it.
// Returns the database connection if successful, or an error once every
// attempt has failed.
func setupAppDatabase(cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// Configure connection pool with reasonable defaults
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	attempts := cfg.Database.ConnectAttempts
	retryDelay := time.Duration(cfg.Database.ConnectRetryDelaySeconds) * time.Second

	var pingErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		pingErr = db.PingContext(ctx)
		cancel()

		if pingErr == nil {
			logger.Info("Database connection established", "attempt", attempt)
			return db, nil
		}

		logger.Warn("Database not ready, retrying",
			"attempt", attempt,
			"max_attempts", attempts,
			"retry_delay", retryDelay,
			"error", redact.Error(pingErr))

		if attempt < attempts {
			time.Sleep(retryDelay)
		}
	}

	if closeErr := db.Close(); closeErr != nil {
		logger.Error("Error closing database connection", "error", closeErr)
	}

	return nil, fmt.Errorf(
		"failed to ping database after %d attempts: %w",
		attempts,
		pingErr,
	)
}
