package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds process settings. Everything comes from the environment
// (optionally seeded from a .env file); per-user calculator state lives in
// the persistence store, not here.
type Config struct {
	Port            int           `env:"PORT" envDefault:"13380"`
	CORSAllowOrigin string        `env:"CORS_ALLOW_ORIGIN" envDefault:"*"`
	DBPath          string        `env:"DB_PATH"`
	PriceAPIURL     string        `env:"PRICE_API_URL" envDefault:"https://api.coinpaprika.com/v1"`
	PriceTimeout    time.Duration `env:"PRICE_TIMEOUT" envDefault:"10s"`
	PriceCacheTTL   time.Duration `env:"PRICE_CACHE_TTL" envDefault:"60s"`
	Debug           bool          `env:"DEBUG" envDefault:"false"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("env.Parse: %w", err)
	}

	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath()
	}
	return &cfg, nil
}

func defaultDBPath() string {
	// Prefer working directory so the DB is stable across go run / go build.
	// Fall back to executable directory for deployed builds.
	if wd, err := os.Getwd(); err == nil {
		return filepath.Join(wd, "calculator.db")
	}
	exe, _ := os.Executable()
	return filepath.Join(filepath.Dir(exe), "calculator.db")
}
