package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds the service settings. Every field can be overridden with a
// MORTGAGE_* environment variable.
type Config struct {
	ListenAddr string
	// Debug turns on verbose logging and the /debug profiler routes.
	Debug bool

	// RedisAddr selects the shared result cache; empty keeps results in memory.
	RedisAddr string
	CacheTTL  time.Duration

	RateLimitCapacity int
	RateLimitWindow   time.Duration

	// ProgramCatalogPath replaces the embedded program catalog when set.
	ProgramCatalogPath string

	ShutdownTimeout time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		ListenAddr:        ":8080",
		CacheTTL:          10 * time.Minute,
		RateLimitCapacity: 60,
		RateLimitWindow:   time.Minute,
		ShutdownTimeout:   10 * time.Second,
	}
}

// Load applies environment overrides on top of DefaultConfig. Unparseable
// values are logged and ignored.
func Load() *Config {
	return loadFrom(os.Getenv)
}

func loadFrom(getenv func(string) string) *Config {
	cfg := DefaultConfig()

	if addr := getenv("MORTGAGE_LISTEN_ADDR"); addr != "" {
		cfg.ListenAddr = addr
	}
	if debug := getenv("MORTGAGE_DEBUG"); debug == "true" || debug == "1" {
		cfg.Debug = true
	}
	if addr := getenv("MORTGAGE_REDIS_ADDR"); addr != "" {
		cfg.RedisAddr = addr
	}
	if path := getenv("MORTGAGE_PROGRAM_CATALOG"); path != "" {
		cfg.ProgramCatalogPath = path
	}

	durationVar(getenv, "MORTGAGE_CACHE_TTL", &cfg.CacheTTL)
	durationVar(getenv, "MORTGAGE_RATE_LIMIT_WINDOW", &cfg.RateLimitWindow)
	durationVar(getenv, "MORTGAGE_SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout)

	if raw := getenv("MORTGAGE_RATE_LIMIT_CAPACITY"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			log.Printf("Warning: ignoring MORTGAGE_RATE_LIMIT_CAPACITY=%q", raw)
		} else {
			cfg.RateLimitCapacity = n
		}
	}

	return cfg
}

func durationVar(getenv func(string) string, key string, dst *time.Duration) {
	raw := getenv(key)
	if raw == "" {
		return
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		log.Printf("Warning: ignoring %s=%q", key, raw)
		return
	}
	*dst = d
}
