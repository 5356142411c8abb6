package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mortgage-engine/config"
	httpLayer "mortgage-engine/http"
	"mortgage-engine/repository"
	"mortgage-engine/service"
	"mortgage-engine/version"
)

func main() {
	cfg := config.Load()
	if cfg.Debug {
		log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	}
	log.Printf("Starting %s", version.Get())
	if cfg.Debug {
		log.Printf("Debug mode: %+v", cfg)
	}

	programs := repository.DefaultProgramCatalog()
	if cfg.ProgramCatalogPath != "" {
		catalog, err := repository.LoadProgramCatalogFile(cfg.ProgramCatalogPath)
		if err != nil {
			log.Fatalf("Error loading program catalog: %v", err)
		}
		programs = catalog
		log.Printf("Program catalog: %s", cfg.ProgramCatalogPath)
	}

	cache := newCache(cfg)

	scenarioService := service.NewScenarioService(programs, cache, cfg.CacheTTL)

	var rateLimiter *httpLayer.RateLimiter
	if cfg.RateLimitCapacity > 0 {
		rateLimiter = httpLayer.NewRateLimiter(cfg.RateLimitCapacity, cfg.RateLimitWindow)
		defer rateLimiter.Stop()
	}

	router := httpLayer.NewRouter(httpLayer.Services{
		Scenarios: scenarioService,
		Terms:     service.NewTermRecommendationService(),
		Payoff:    service.NewLienPayoffService(),
		Limiter:   rateLimiter,
		Debug:     cfg.Debug,
	})

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Listening on %s", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Printf("Error starting server: %v", err)
		return
	case <-quit:
		log.Println("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	log.Println("Server exited")
}

// newCache prefers Redis and falls back to an in-process cache when it is not
// configured or not reachable.
func newCache(cfg *config.Config) repository.CacheRepository {
	if cfg.RedisAddr == "" {
		return repository.NewMemoryCache()
	}

	redisCache := repository.NewRedisCache(cfg.RedisAddr)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := redisCache.Ping(ctx); err != nil {
		log.Printf("Warning: Redis at %s unavailable, using memory cache: %v", cfg.RedisAddr, err)
		_ = redisCache.Close()
		return repository.NewMemoryCache()
	}

	log.Printf("Caching scenarios in Redis at %s", cfg.RedisAddr)
	return redisCache
}
