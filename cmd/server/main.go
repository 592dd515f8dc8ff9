package main

import (
	"address-book-service/internal/adapters/cache"
	"address-book-service/internal/adapters/repositories"
	"address-book-service/internal/api"
	"address-book-service/internal/app"
	"address-book-service/internal/config"
	"address-book-service/internal/platform/obs"
	"address-book-service/internal/ports"
	"address-book-service/internal/services"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// main is the application composition root.
// It wires concrete adapters (SQL stores, Redis) behind ports and starts the HTTP server.
func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run() error {
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := obs.NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeStore, err := app.OpenStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	calc, err := services.NewDistanceCalculator(cfg.EarthRadiusKm)
	if err != nil {
		return err
	}

	var nearbyCache ports.NearbyCache
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()
		nearbyCache = cache.NewRedisNearbyCache(client, cfg.NearbyCacheTTL)
		slog.Info("nearby cache enabled", "ttl", cfg.NearbyCacheTTL)
	}

	svc := services.NewAddressService(repo, nearbyCache)
	finder := services.NewNearbyFinder(repo, calc, nearbyCache)

	// Seed demo data on startup for local runs.
	if cfg.SeedPath != "" {
		inputs, err := repositories.LoadSeedFile(cfg.SeedPath)
		if err != nil {
			return err
		}
		n, err := svc.Seed(ctx, inputs)
		if err != nil {
			return err
		}
		slog.Info("seed applied", "inserted", n, "path", cfg.SeedPath)
	}

	router := api.NewRouter(svc, finder, cfg.CORSAllowedOrigins)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "driver", cfg.DBDriver, "earth_radius_km", cfg.EarthRadiusKm)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
