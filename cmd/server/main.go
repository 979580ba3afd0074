/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the lab scheduling server. Handles
  configuration, dependency wiring, the warm initial sync, and graceful
  shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags (override config)
  2. Load configuration (config.yaml + environment)
  3. Build logger, cache store, remote gateway, engine
  4. Warm initial sync (remote if due, cache otherwise)
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (overrides config PORT)
  -db      SQLite cache path (overrides config SQLITE_PATH;
           use ":memory:" for an in-memory cache)
  -config  Directory containing config.yaml

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections (30s drain)
  2. Wait for queued remote sync operations to finish
  3. Close the cache store

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Configuration keys and defaults
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/campuslabs/schedule-engine/api"
	"github.com/campuslabs/schedule-engine/config"
	"github.com/campuslabs/schedule-engine/gateway"
	"github.com/campuslabs/schedule-engine/logging"
	"github.com/campuslabs/schedule-engine/schedule"
	redisstore "github.com/campuslabs/schedule-engine/store/redis"
	"github.com/campuslabs/schedule-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	dbPath := flag.String("db", "", "SQLite cache path (overrides config)")
	configDir := flag.String("config", "", "directory containing config.yaml")
	flag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *dbPath != "" {
		cfg.SQLitePath = *dbPath
		cfg.CacheBackend = "sqlite"
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Cache store
	cache, closeCache, err := newCacheStore(cfg)
	if err != nil {
		logger.Fatal("failed to initialize cache store", zap.Error(err))
	}
	defer closeCache()

	// Remote gateway
	gw := gateway.New(gateway.Config{
		BaseURL:    cfg.BackendURL,
		APIKey:     cfg.BackendAPIKey,
		Credential: cfg.BackendCredential,
		Logger:     logger.Named("gateway"),
	})

	// Engine
	engine := schedule.NewEngine(schedule.Options{
		Cache:   cache,
		Gateway: gw,
		Session: schedule.ContextSession{},
		Config: schedule.Config{
			MaxWeeksToShow:  cfg.MaxWeeksToShow,
			SyncCooldown:    cfg.SyncCooldown(),
			EmailDomain:     cfg.EmailDomain,
			CommissionEmail: cfg.CommissionEmail,
			CommissionName:  cfg.CommissionName,
		},
		Logger: logger.Named("engine"),
	})

	// Warm initial sync: remote if due, cache otherwise. Degrades to the
	// cached snapshot on failure, so startup never blocks on the backend
	// beyond this one bounded attempt.
	warmCtx, warmCancel := context.WithTimeout(context.Background(), 20*time.Second)
	engine.Initialize(warmCtx, true)
	warmCancel()
	if engine.State() == schedule.StateLoadFailed {
		logger.Warn("initial remote sync failed, serving cached schedule")
	}

	activities := schedule.NewActivityCatalog(cache, 30*24*time.Hour, logger.Named("activities"))

	handler := api.NewHandler(engine, activities, logger.Named("api"))
	handler.Rebind = gw.Rebind

	router := api.NewRouter(handler, api.RouterOptions{AllowedOrigins: cfg.AllowedOrigins})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	// Give queued optimistic edits their chance to reach the backend.
	gw.Wait()

	logger.Info("server stopped")
}

func newCacheStore(cfg config.Config) (schedule.CacheStore, func(), error) {
	switch cfg.CacheBackend {
	case "redis":
		s, err := redisstore.New(redisstore.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, closer(s), nil
	case "sqlite", "":
		s, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, closer(s), nil
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}

func closer(c io.Closer) func() {
	return func() { c.Close() }
}
