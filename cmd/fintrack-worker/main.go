package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/cli"
	"fintrack/internal/sheets"
	gsheet "fintrack/internal/sheets/google"
	mem "fintrack/internal/sheets/memory"
	"fintrack/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	logger.Info("Starting fintrack-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	// The worker never writes, so it only needs its own read view of the store
	be := cli.InitBackend(context.Background(), logger, cfg)

	var sink sheets.RowStore
	if cfg.SheetsEnabled() {
		client, err := gsheet.NewFromEnv(context.Background(), cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		sink = client
		logger.Info("Google Sheets client initialized",
			"spreadsheet_id", cfg.GoogleSpreadsheetID,
			"sheet", client.SheetName())
	} else {
		sink = mem.New(cfg.GoogleSheetName)
		logger.Info("Google Sheets disabled - mirroring to in-memory sheet")
	}

	syncWorker := worker.NewSyncWorker(be.Store, sink, be.Store.Registry())

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := syncWorker.Stop(ctx); err != nil {
			logger.Error("Sync worker stop error", "error", err)
		}
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// Startup sync covers anything written while the worker was down
		if err := syncWorker.ForceSync(gctx); err != nil {
			logger.Error("Startup sync failed", "error", err)
		}
		return syncWorker.Start(gctx, cfg.SyncInterval)
	})

	if be.Notifier != nil {
		g.Go(func() error {
			return be.Notifier.ConsumeChanges(gctx, syncWorker.HandleChange)
		})
	} else {
		logger.Info("AMQP disabled - relying on periodic resync", "interval", cfg.SyncInterval)
	}

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker failed", "error", err)
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		_ = syncWorker.Stop(stopCtx)
		cancel()
		_ = be.Cleanup()
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	if err := be.Cleanup(); err != nil {
		logger.Error("Backend cleanup error", "error", err)
	}
	logger.Info("Worker shutdown complete")
}
