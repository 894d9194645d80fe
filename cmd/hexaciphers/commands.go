package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hexaciphers/hexaciphers/internal/application/dashboard"
	"github.com/hexaciphers/hexaciphers/internal/application/workers"
	"github.com/hexaciphers/hexaciphers/internal/config"
	"github.com/hexaciphers/hexaciphers/pkg/adapters/metrics/noop"
	"github.com/hexaciphers/hexaciphers/pkg/adapters/metrics/prometheus"
	"github.com/hexaciphers/hexaciphers/pkg/api/grpc"
	"github.com/hexaciphers/hexaciphers/pkg/api/http"
	"github.com/hexaciphers/hexaciphers/pkg/api/websocket"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, initLogger(cfg.LogLevel), nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting HexaCiphers API",
		zap.String("version", Version),
		zap.String("build_time", BuildTime))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metricsCollector := prometheus.NewCollector(promclient.DefaultRegisterer)

	a, err := newApp(ctx, cfg, metricsCollector, logger)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.migrate(ctx); err != nil {
		return err
	}

	workerPool := workers.NewPool(
		cfg.Workers.PoolSize,
		cfg.Workers.QueueSize,
		a.eventBus,
		a.store,
		a.cache,
		a.classifier,
		a.processor,
		metricsCollector,
		logger,
		cfg.Workers.HealthCheckInterval,
	)
	if err := workerPool.Start(); err != nil {
		return fmt.Errorf("failed to start worker pool: %w", err)
	}

	scanner := dashboard.NewScanner(a.manager, cfg.Workers.ScanInterval, cfg.Timeouts.RequestTimeout, logger)
	scanner.Start()

	httpServer := http.NewServer(&http.Config{
		Port:           cfg.HTTPPort,
		Dashboard:      a.manager,
		Metrics:        metricsCollector,
		RequestTimeout: cfg.Timeouts.RequestTimeout,
		Logger:         logger,
	})

	wsHandler := websocket.NewHandler(a.alertBus, logger)
	wsCtx, stopWS := context.WithCancel(context.Background())
	defer stopWS()
	if err := wsHandler.Start(wsCtx); err != nil {
		return fmt.Errorf("failed to subscribe alert stream: %w", err)
	}
	httpServer.SetupWebSocket(wsHandler.HandleAlertStream)

	grpcServer, err := grpc.NewServer(&grpc.Config{
		Port:          cfg.GRPCPort,
		Checker:       a.manager,
		CheckInterval: cfg.Workers.HealthCheckInterval,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	serveErr := make(chan error, 2)
	go func() {
		if err := httpServer.Start(); err != nil {
			serveErr <- err
		}
	}()
	go func() {
		if err := grpcServer.Start(); err != nil {
			serveErr <- err
		}
	}()

	logger.Info("HexaCiphers API started",
		zap.Int("http_port", cfg.HTTPPort),
		zap.Int("grpc_port", cfg.GRPCPort),
		zap.String("storage", cfg.StorageBackend),
		zap.Bool("redis", cfg.Redis.RedisEnabled()),
		zap.Int("worker_pool_size", cfg.Workers.PoolSize))

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	case runErr = <-serveErr:
		logger.Error("server failed", zap.Error(runErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	if err := grpcServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("gRPC server shutdown error", zap.Error(err))
	}

	stopWS()
	wsHandler.Close()
	scanner.Stop()

	if err := workerPool.Shutdown(shutdownCtx); err != nil {
		logger.Error("worker pool shutdown error", zap.Error(err))
	}

	logger.Info("HexaCiphers API shut down complete")
	return runErr
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	a, err := newApp(ctx, cfg, noop.NewCollector(), logger)
	if err != nil {
		return err
	}
	defer a.close()

	return a.migrate(ctx)
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	a, err := newApp(ctx, cfg, noop.NewCollector(), logger)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.migrate(ctx); err != nil {
		return err
	}

	posts, err := a.manager.Seed(ctx, seedMinutes)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Inserted %d simulated posts\n", len(posts))
	return nil
}
