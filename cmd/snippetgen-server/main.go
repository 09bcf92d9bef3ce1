package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/snippetgen/pkg/api"
	"github.com/platinummonkey/snippetgen/pkg/config"
	"github.com/platinummonkey/snippetgen/pkg/generator"
	"github.com/platinummonkey/snippetgen/pkg/observability"
	"github.com/platinummonkey/snippetgen/pkg/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)

	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics(prometheus.NewRegistry())
	}

	// Initialize storage
	if err := os.MkdirAll(cfg.Storage.Root, 0755); err != nil {
		logger.Errorf("Failed to create storage directory: %v", err)
		os.Exit(1)
	}
	store, err := storage.NewFileSystemStorage(cfg.Storage.Root)
	if err != nil {
		logger.Errorf("Failed to initialize storage: %v", err)
		os.Exit(1)
	}
	logger.Infof("Storage initialized in %s", cfg.Storage.Root)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize the generation cache tiers
	cacheLog := logrus.New()
	cache, err := generator.NewCache(ctx, &cfg.Cache, cacheLog)
	if err != nil {
		logger.Errorf("Failed to initialize cache: %v", err)
		os.Exit(1)
	}
	defer cache.Close()

	gen := generator.NewGenerator(cache, metrics, cacheLog)
	genConfig := &generator.Config{
		MaxWorkers:  cfg.Generator.MaxWorkers,
		EnableCache: cfg.Cache.EnableL1 || cfg.Cache.EnableL2,
		CacheTTL:    cfg.Generator.CacheTTL,
	}

	server := api.NewServer(gen, genConfig, store, logger, metrics)

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Starting snippet generation server on %s", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("Server failed: %v", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Shutdown failed: %v", err)
		}
	}
}
