package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port          int           `env:"PORT" envDefault:"3318"`
	DatabaseURL   string        `env:"DATABASE_URL"`
	DatabaseType  string        `env:"DATABASE_TYPE" envDefault:"sqlite"`
	PublicKey     string        `env:"DISCORD_PUBLIC_KEY"`
	SkipVerify    bool          `env:"IS_LOCAL"`
	OMDbAPIKey    string        `env:"OMDB_API_KEY"`
	OMDbBaseURL   string        `env:"OMDB_BASE_URL" envDefault:"http://www.omdbapi.com/"`
	LookupTimeout time.Duration `env:"LOOKUP_TIMEOUT" envDefault:"5s"`
	CacheSize     int           `env:"CANDIDATE_CACHE_SIZE" envDefault:"256"`
}

// ParseFlags loads the environment, then lets flags override it
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid environment: %w", err)
	}

	fs := flag.NewFlagSet("movie-night", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", cfg.Port, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", cfg.DatabaseURL, "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", cfg.DatabaseType, "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.OMDbBaseURL, "omdb-url", cfg.OMDbBaseURL, "OMDb API base URL")
	fs.DurationVar(&cfg.LookupTimeout, "lookup-timeout", cfg.LookupTimeout, "Movie lookup timeout")
	fs.IntVar(&cfg.CacheSize, "cache-size", cfg.CacheSize, "In-memory candidate cache size")
	fs.BoolVar(&cfg.SkipVerify, "local", cfg.SkipVerify, "Skip interaction signature checks")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.PublicKey, "public-key", cfg.PublicKey, "Interaction public key, hex (prefer env)")
	fs.StringVar(&cfg.OMDbAPIKey, "omdb-key", cfg.OMDbAPIKey, "OMDb API key (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port <= 0 {
		return Config{}, errors.New("invalid port")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}
	if cfg.LookupTimeout <= 0 {
		return Config{}, errors.New("lookup timeout must be positive")
	}

	// Secrets - MUST be provided
	if cfg.PublicKey == "" && !cfg.SkipVerify {
		return Config{}, errors.New("DISCORD_PUBLIC_KEY required (or set IS_LOCAL)")
	}
	if cfg.OMDbAPIKey == "" {
		return Config{}, errors.New("OMDB_API_KEY required")
	}

	return cfg, nil
}
