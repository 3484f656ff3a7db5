package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pipeline_portal_backend/internal/auth"
	"pipeline_portal_backend/internal/crm"
	"pipeline_portal_backend/internal/dashboard"
	apphttp "pipeline_portal_backend/internal/http"
	"pipeline_portal_backend/internal/http/router"
	"pipeline_portal_backend/internal/scheduler"
	"pipeline_portal_backend/internal/snapshots"
	"pipeline_portal_backend/platform/config"
	"pipeline_portal_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if cfg.GetRedisURL() == "" {
		panic("REDIS_URL is required")
	}
	redisOpt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		panic("invalid REDIS_URL: " + err.Error())
	}
	rdb := redis.NewClient(redisOpt)
	defer func() { _ = rdb.Close() }()

	if err := withRetry(ctx, log, "redis connection", 5, 2*time.Second, func() error {
		return rdb.Ping(ctx).Err()
	}); err != nil {
		log.Error("failed to connect to redis", "error", err)
		panic("failed to connect to redis: " + err.Error())
	}
	log.Info("redis connection established")

	var store *snapshots.Store
	if err := withRetry(ctx, log, "snapshot store", 5, 2*time.Second, func() error {
		s, err := snapshots.New(ctx, cfg)
		if err != nil {
			return err
		}
		store = s
		return nil
	}); err != nil {
		log.Error("failed to initialize snapshot store", "error", err)
		panic("failed to initialize snapshot store: " + err.Error())
	}
	log.Info("snapshot store initialized", "bucket", cfg.GetBlobBucket())

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	crmModule := crm.NewModule(cfg, rdb, log)
	authModule := auth.NewModule(cfg, log)
	dashboardModule := dashboard.NewModule(cfg, store, crmModule.Client(), rdb, log)

	// Manual refresh endpoint enqueues through the scheduler queue so the
	// worker process picks it up.
	refreshClient, err := scheduler.NewClient(cfg, log)
	if err != nil {
		log.Warn("refresh scheduling disabled", "error", err)
	} else {
		dashboardModule.SetRefreshTrigger(refreshClient)
		defer func() { _ = refreshClient.Close() }()
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Modules: []apphttp.Module{
			authModule,
			dashboardModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
