package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSqlite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Port               string
	DBDriver           string
	DBPath             string
	DatabaseURL        string
	SeedPath           string
	EarthRadiusKm      float64
	RedisURL           string
	NearbyCacheTTL     time.Duration
	LogLevel           string
	LogFormat          string
	CORSAllowedOrigins []string
}

// LoadDotEnv loads a .env file when present. Real environment variables win.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found (using environment variables)")
	}
}

// Load reads configuration from the environment with defaults.
// Precedence: explicit env var > .env file (if loaded) > default.
func Load() (Config, error) {
	cfg := Config{
		Port:           Get("PORT", "8080"),
		DBDriver:       strings.ToLower(Get("DB_DRIVER", DriverSqlite)),
		DBPath:         Get("DB_PATH", "data/address_book.db"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		SeedPath:       os.Getenv("SEED_PATH"),
		RedisURL:       os.Getenv("REDIS_URL"),
		LogLevel:       Get("LOG_LEVEL", "info"),
		LogFormat:      Get("LOG_FORMAT", "text"),
		NearbyCacheTTL: 5 * time.Minute,
		EarthRadiusKm:  6371.0,
	}

	for _, o := range strings.Split(Get("CORS_ALLOWED_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	if v := os.Getenv("EARTH_RADIUS_KM"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, fmt.Errorf("load config: parse EARTH_RADIUS_KM %q: %w", v, err)
		}
		if !(r > 0) {
			return Config{}, fmt.Errorf("load config: EARTH_RADIUS_KM must be positive, got %v", r)
		}
		cfg.EarthRadiusKm = r
	}

	if v := os.Getenv("NEARBY_CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("load config: parse NEARBY_CACHE_TTL %q: %w", v, err)
		}
		if ttl <= 0 {
			return Config{}, fmt.Errorf("load config: NEARBY_CACHE_TTL must be positive, got %s", ttl)
		}
		cfg.NearbyCacheTTL = ttl
	}

	switch cfg.DBDriver {
	case DriverSqlite, DriverMemory:
	case DriverPostgres:
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return Config{}, errors.New("load config: DATABASE_URL is required when DB_DRIVER=postgres")
		}
	default:
		return Config{}, fmt.Errorf("load config: unknown DB_DRIVER %q", cfg.DBDriver)
	}

	return cfg, nil
}

// Get returns the env var or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
