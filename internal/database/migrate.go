package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"

	// File source driver for reading migration files from disk.
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations applies pending SQL migrations from the given directory
// against the shared connection pool. golang-migrate tracks the applied
// version in a schema_migrations table, so calling this on every startup
// is a no-op once the schema is current.
func RunMigrations(db *sql.DB, migrationsPath string) error {
	driver, err := mysql.WithInstance(db, &mysql.Config{})
	if err != nil {
		return fmt.Errorf("creating migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "mysql", driver)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}

	err = m.Up()
	switch {
	case err == nil:
		version, dirty, _ := m.Version()
		slog.Info("migrations applied",
			slog.Uint64("version", uint64(version)),
			slog.Bool("dirty", dirty),
		)
	case errors.Is(err, migrate.ErrNoChange):
		slog.Info("schema up to date")
	default:
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}
