// Package database provides connection setup for MariaDB and Redis.
// Both connections are created once at startup and shared across the
// application via dependency injection. This package owns the connection
// lifecycle (open, configure pool, ping, close).
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	// MariaDB driver -- imported for side effect of registering the driver.
	_ "github.com/go-sql-driver/mysql"

	"github.com/mreboux/registrar/internal/config"
)

const (
	pingTimeout    = 5 * time.Second
	maxPingRetries = 10
	maxBackoff     = 30 * time.Second
)

// NewMariaDB opens a MariaDB connection pool with the settings from the
// given config and verifies connectivity before returning. The ping is
// retried with exponential backoff because the database container often
// takes longer to come up than the app does on a compose cold-start.
func NewMariaDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening mariadb connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := pingWithRetry(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func pingWithRetry(db *sql.DB) error {
	backoff := time.Second
	var lastErr error

	for attempt := 1; attempt <= maxPingRetries; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		lastErr = db.PingContext(ctx)
		cancel()

		if lastErr == nil {
			return nil
		}
		if attempt == maxPingRetries {
			break
		}

		slog.Warn("mariadb not ready, retrying",
			slog.Int("attempt", attempt),
			slog.Duration("backoff", backoff),
			slog.Any("error", lastErr),
		)
		time.Sleep(backoff)
		backoff = min(backoff*2, maxBackoff)
	}

	return fmt.Errorf("pinging mariadb after %d attempts: %w", maxPingRetries, lastErr)
}
