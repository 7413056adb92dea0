package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sahilmalhotra/vidtube/internal/auth"
	"github.com/sahilmalhotra/vidtube/internal/cache"
	"github.com/sahilmalhotra/vidtube/internal/config"
	"github.com/sahilmalhotra/vidtube/internal/database"
	"github.com/sahilmalhotra/vidtube/internal/logging"
	"github.com/sahilmalhotra/vidtube/internal/metrics"
	"github.com/sahilmalhotra/vidtube/internal/middleware"
	"github.com/sahilmalhotra/vidtube/internal/queue"
	"github.com/sahilmalhotra/vidtube/internal/storage"
	"github.com/sahilmalhotra/vidtube/internal/tracing"
)

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Apply pending schema migrations before accepting traffic
	if err := database.Migrate(cfg.Database); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize database
	db, err := database.New(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	repo := database.NewRepository(db)

	// Initialize storage
	stor, err := storage.New(cfg.Storage)
	if err != nil {
		logger.Fatalf("Failed to initialize storage: %v", err)
	}

	// Initialize cache. The API degrades gracefully without it.
	var videoCache VideoCache
	redisCache, err := cache.NewCache(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Warnf("Cache unavailable, continuing without it: %v", err)
	} else {
		videoCache = redisCache
		defer redisCache.Close()
	}

	// Initialize queue
	var publisher EventPublisher
	q, err := queue.New(cfg.Queue)
	if err != nil {
		logger.Warnf("Queue unavailable, lifecycle events disabled: %v", err)
	} else {
		publisher = q
		defer q.Close()
	}

	// Initialize tracing
	if cfg.Tracing.Enabled {
		_, closer, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.JaegerEndpoint)
		if err != nil {
			logger.Warnf("Failed to initialize tracer: %v", err)
		} else {
			defer closer.Close()
		}
	}

	// Start the metrics endpoint on its own port
	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metricsServer = metrics.NewServer(cfg.Metrics.Port)
		go func() {
			if err := metricsServer.Start(); err != nil {
				logger.ErrorWithErr("Metrics server failed", err)
			}
		}()
	}

	api := &API{
		repo:    repo,
		storage: stor,
		queue:   publisher,
		cache:   videoCache,
		tokens:  auth.NewTokenManager(cfg.Auth),
		authCfg: cfg.Auth,
		log:     logger,
	}

	// Flush buffered view counters to the database in the background
	flushCtx, stopFlusher := context.WithCancel(context.Background())
	defer stopFlusher()
	if redisCache != nil {
		go startViewFlusher(flushCtx, redisCache, repo, logger)
	}

	rl := middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)
	router := setupRouter(api, rl)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Infof("Starting API server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(ctx); err != nil {
			logger.ErrorWithErr("Metrics server shutdown failed", err)
		}
	}

	// Drain whatever views accumulated since the last flush
	if redisCache != nil {
		stopFlusher()
		flushPendingViews(ctx, redisCache, repo, logger)
	}

	logger.Info("Server stopped")
}
