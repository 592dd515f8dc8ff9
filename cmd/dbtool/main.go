package main

import (
	"address-book-service/internal/adapters/cache"
	"address-book-service/internal/adapters/repositories"
	"address-book-service/internal/app"
	"address-book-service/internal/config"
	"address-book-service/internal/platform/obs"
	"address-book-service/internal/ports"
	"address-book-service/internal/services"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
)

var errMemoryDriver = errors.New("DB_DRIVER=memory has no schema to migrate")

// dbtool migrates the configured store and optionally loads the seed file.
func main() {
	config.LoadDotEnv()

	seedPath := flag.String("seed", config.Get("SEED_PATH", "data/seeds/addresses.json"), "JSON seed file")
	migrateOnly := flag.Bool("migrate-only", false, "apply migrations without seeding")
	flag.Parse()

	if err := run(context.Background(), *seedPath, *migrateOnly); err != nil {
		slog.Error("dbtool failed", "err", err)
		os.Exit(1)
	}
}

// run owns every resource it opens, so deferred closes happen before main exits.
func run(ctx context.Context, seedPath string, migrateOnly bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := obs.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	if cfg.DBDriver == config.DriverMemory {
		return errMemoryDriver
	}

	slog.Info("Initializing database schema...", "driver", cfg.DBDriver)
	repo, closeStore, err := app.OpenStore(cfg)
	if err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	defer closeStore()
	slog.Info("Schema ready.")

	if migrateOnly {
		return nil
	}

	inputs, err := repositories.LoadSeedFile(seedPath)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	// A running server may hold cached nearby results; seeding must invalidate them.
	var nearbyCache ports.NearbyCache
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()
		nearbyCache = cache.NewRedisNearbyCache(client, cfg.NearbyCacheTTL)
	}

	slog.Info("Seeding database...", "path", seedPath)
	n, err := services.NewAddressService(repo, nearbyCache).Seed(ctx, inputs)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	slog.Info("Seeding complete.", "inserted", n)
	return nil
}
