package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"fintrack/internal/aggregation"
	"fintrack/internal/cache"
	"fintrack/internal/cli"
	apphttp "fintrack/internal/http"
	applog "fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/views"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	be := cli.InitBackend(ctx, logger, cfg)
	registry := be.Store.Registry()

	engine := views.NewEngine(be.Store,
		aggregation.NewCalculator(registry, nil),
		views.Config{Size: cfg.CacheSize, TTL: cfg.CacheTTL})

	cacheManager := cache.NewManager(logger)
	for _, c := range engine.Cleaners() {
		cacheManager.Register(c)
	}
	cacheManager.StartCleanup(time.Minute)

	// Other instances' writes invalidate our snapshot
	if be.Notifier != nil {
		go func() {
			if err := be.Notifier.ConsumeChanges(ctx, be.Store.HandleExternalChange); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Change consumer stopped", "error", err)
			}
		}()
	}

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Store:     be.Store,
		Prefs:     be.Preferences,
		Views:     engine,
		Registry:  registry,
		Logger:    applog.New(applog.Config{Component: applog.ComponentApp, Handler: logger.Handler()}),
		RateLimit: ratelimit.DefaultConfig(),
	})

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	shutdownCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
		cacheManager.Stop()
		if err := be.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", "error", err)
		}
	})

	logger.Info("Starting fintrack server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"instance_id", be.Store.InstanceID(),
		"amqp_enabled", be.Notifier != nil)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(shutdownCtx, done)
	logger.Info("Server stopped gracefully")
}
