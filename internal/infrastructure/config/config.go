package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store driver names accepted in STORE_DRIVER.
const (
	DriverFile     = "file"
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

// Config is the full runtime configuration, sourced from the environment
// (optionally seeded from a .env file).
type Config struct {
	Port        string
	StoreDriver string

	// file backend
	DBPath string

	// mongo backend
	MongoURI string
	MongoDB  string

	// postgres backend
	PostgresDSN string

	// optional infra
	RedisURL string

	// identity
	JWTSecret string
	TokenTTL  time.Duration

	// rate limiting
	RateLimitWindow time.Duration
	RateLimitMax    int

	// verification delivery; when false the register response carries the
	// code so the flow is testable without a provider (demo mode)
	SendRealVerification bool
}

// Load reads configuration from the environment. A missing .env file is not
// an error; explicit environment variables always win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:                 getenv("PORT", "3000"),
		StoreDriver:          strings.ToLower(getenv("STORE_DRIVER", DriverFile)),
		DBPath:               getenv("DB_PATH", "db.json"),
		MongoURI:             os.Getenv("MONGO_URI"),
		MongoDB:              getenv("MONGO_DB", "findmystuff"),
		PostgresDSN:          os.Getenv("DB_URL"),
		RedisURL:             os.Getenv("REDIS_URL"),
		JWTSecret:            getenv("JWT_SECRET", "demo-secret-change-me"),
		TokenTTL:             getduration("TOKEN_TTL", 7*24*time.Hour),
		RateLimitWindow:      getduration("RATE_LIMIT_WINDOW", 15*time.Minute),
		RateLimitMax:         getint("RATE_LIMIT_MAX", 200),
		SendRealVerification: strings.EqualFold(os.Getenv("SEND_REAL_VERIFICATION"), "true"),
	}

	switch cfg.StoreDriver {
	case DriverFile, DriverMongo, DriverPostgres:
	default:
		return nil, fmt.Errorf("config: unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	if cfg.StoreDriver == DriverMongo && cfg.MongoURI == "" {
		return nil, fmt.Errorf("config: STORE_DRIVER=mongo requires MONGO_URI")
	}
	if cfg.StoreDriver == DriverPostgres && cfg.PostgresDSN == "" {
		return nil, fmt.Errorf("config: STORE_DRIVER=postgres requires DB_URL")
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
