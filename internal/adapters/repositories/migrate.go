package repositories

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// MigrateSqlite brings the SQLite schema at dbPath up to date.
func MigrateSqlite(dbPath string) error {
	if strings.TrimSpace(dbPath) == "" {
		return errors.New("migrate sqlite: db path is empty")
	}
	return runMigrations("sqlite", "sqlite://"+dbPath)
}

// MigratePostgres brings the Postgres schema at databaseURL up to date.
// The URL must be in postgres:// or postgresql:// form.
func MigratePostgres(databaseURL string) error {
	u := strings.TrimSpace(databaseURL)
	switch {
	case strings.HasPrefix(u, "postgres://"):
		u = "pgx5://" + strings.TrimPrefix(u, "postgres://")
	case strings.HasPrefix(u, "postgresql://"):
		u = "pgx5://" + strings.TrimPrefix(u, "postgresql://")
	default:
		return errors.New("migrate postgres: DATABASE_URL must start with postgres:// or postgresql://")
	}
	return runMigrations("postgres", u)
}

func runMigrations(dialect, databaseURL string) error {
	src, err := iofs.New(migrationsFS, "migrations/"+dialect)
	if err != nil {
		return fmt.Errorf("migrate %s: open embedded migrations: %w", dialect, err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return fmt.Errorf("migrate %s: init: %w", dialect, err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate %s: up: %w", dialect, err)
	}

	return nil
}
