package app

import (
	"address-book-service/internal/adapters/repositories"
	"address-book-service/internal/config"
	"address-book-service/internal/platform/db"
	"address-book-service/internal/ports"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// OpenStore migrates and opens the repository selected by cfg.DBDriver.
// The returned close function releases the underlying connection.
func OpenStore(cfg config.Config) (ports.AddressRepository, func() error, error) {
	switch cfg.DBDriver {
	case config.DriverMemory:
		slog.Warn("using in-memory store; data is lost on exit")
		return repositories.NewMemoryAddressRepository(), func() error { return nil }, nil

	case config.DriverPostgres:
		if err := repositories.MigratePostgres(cfg.DatabaseURL); err != nil {
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		return repositories.NewSQLAddressRepository(conn), conn.Close, nil

	default:
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("open store: create data dir %q: %w", dir, err)
			}
		}
		if err := repositories.MigrateSqlite(cfg.DBPath); err != nil {
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		conn, err := db.OpenSqlite(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		return repositories.NewSqliteAddressRepository(conn), conn.Close, nil
	}
}
