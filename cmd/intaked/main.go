package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/facbol/billing-intake/internal/chunkstore"
	"github.com/facbol/billing-intake/internal/common"
	"github.com/facbol/billing-intake/internal/pipeline"
	"github.com/facbol/billing-intake/internal/progress"
	"github.com/facbol/billing-intake/internal/repository"
	"github.com/facbol/billing-intake/internal/server"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := repository.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := repository.HealthCheck(ctx, pool, cfg.Database.DialTimeout, logger); err != nil {
		logger.Error("database health check failed", "error", err)
		os.Exit(1)
	}

	store, err := chunkstore.New(cfg.Cache, logger)
	if err != nil {
		logger.Error("chunk store init failed", "error", err)
		os.Exit(1)
	}
	reader := chunkstore.NewReader(store, logger)

	sweeper := chunkstore.NewSweeper(
		[]string{cfg.Cache.CacheDir, cfg.Cache.ChunksDir, cfg.Cache.UploadsDir},
		cfg.Cache.TTL,
		cfg.Cache.SweepInterval,
		logger,
	)
	go sweeper.Run(ctx)

	registry := progress.NewRegistry()
	go registry.Run(ctx, cfg.Cache.TTL, cfg.Cache.SweepInterval)

	processor := pipeline.NewProcessor(store, cfg.Extract.PreviewRows, logger)
	invoices := repository.NewInvoiceRepository(pool, logger)

	srv := server.New(cfg, processor, reader, registry, invoices, logger)
	httpServer := &http.Server{
		Addr:        cfg.Server.Addr,
		Handler:     srv.Handler(),
		ReadTimeout: cfg.Server.ReadTimeout,
	}

	go func() {
		logger.Info("http server listening", "addr", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	logger.Info("stopped")
}
