package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"energy-lsmc/internal/api"
	"energy-lsmc/internal/config"
	"energy-lsmc/internal/data"
	"energy-lsmc/internal/logging"
	"energy-lsmc/internal/metrics"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// A missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatalf("load server config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, !cfg.Production())
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if wd, err := os.Getwd(); err == nil {
		logger.Info("starting", zap.String("working_directory", wd), zap.String("env", cfg.Env))
	}

	store := data.NewResultStore(cfg.ResultTTL, cfg.ResultTTL/4)
	defer store.Close()
	m := metrics.New(store.Len)

	router := api.NewRouter(api.Deps{
		Server:  cfg,
		Logger:  logger,
		Store:   store,
		Metrics: m,
	})

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	go func() {
		logger.Info("API server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
