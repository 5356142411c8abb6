package config

import (
	"testing"
	"time"
)

func envMap(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestLoad_Defaults(t *testing.T) {

	cfg := loadFrom(envMap(nil))

	if cfg.ListenAddr != ":8080" {
		t.Errorf("expected :8080, got %s", cfg.ListenAddr)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("expected no Redis by default, got %s", cfg.RedisAddr)
	}
	if cfg.CacheTTL != 10*time.Minute {
		t.Errorf("expected 10m cache TTL, got %v", cfg.CacheTTL)
	}
	if cfg.RateLimitCapacity != 60 || cfg.RateLimitWindow != time.Minute {
		t.Errorf("unexpected rate limit %d per %v", cfg.RateLimitCapacity, cfg.RateLimitWindow)
	}
}

func TestLoad_Overrides(t *testing.T) {

	cfg := loadFrom(envMap(map[string]string{
		"MORTGAGE_LISTEN_ADDR":         ":9090",
		"MORTGAGE_DEBUG":               "1",
		"MORTGAGE_REDIS_ADDR":          "localhost:6379",
		"MORTGAGE_CACHE_TTL":           "30s",
		"MORTGAGE_RATE_LIMIT_CAPACITY": "5",
		"MORTGAGE_RATE_LIMIT_WINDOW":   "2m",
		"MORTGAGE_PROGRAM_CATALOG":     "/etc/mortgage/programs.yaml",
	}))

	if cfg.ListenAddr != ":9090" || !cfg.Debug {
		t.Errorf("unexpected server settings: %+v", cfg)
	}
	if cfg.RedisAddr != "localhost:6379" || cfg.CacheTTL != 30*time.Second {
		t.Errorf("unexpected cache settings: %+v", cfg)
	}
	if cfg.RateLimitCapacity != 5 || cfg.RateLimitWindow != 2*time.Minute {
		t.Errorf("unexpected rate limit settings: %+v", cfg)
	}
	if cfg.ProgramCatalogPath != "/etc/mortgage/programs.yaml" {
		t.Errorf("unexpected catalog path %s", cfg.ProgramCatalogPath)
	}
}

func TestLoad_InvalidValuesKeepDefaults(t *testing.T) {

	cfg := loadFrom(envMap(map[string]string{
		"MORTGAGE_CACHE_TTL":           "soon",
		"MORTGAGE_RATE_LIMIT_CAPACITY": "-3",
		"MORTGAGE_SHUTDOWN_TIMEOUT":    "-1s",
	}))

	def := DefaultConfig()
	if cfg.CacheTTL != def.CacheTTL {
		t.Errorf("expected default TTL, got %v", cfg.CacheTTL)
	}
	if cfg.RateLimitCapacity != def.RateLimitCapacity {
		t.Errorf("expected default capacity, got %d", cfg.RateLimitCapacity)
	}
	if cfg.ShutdownTimeout != def.ShutdownTimeout {
		t.Errorf("expected default shutdown timeout, got %v", cfg.ShutdownTimeout)
	}
}
