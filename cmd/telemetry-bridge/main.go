package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/veridrive/veridrive/internal/adapter"
	"github.com/veridrive/veridrive/internal/aggregator"
	"github.com/veridrive/veridrive/internal/config"
	"github.com/veridrive/veridrive/internal/ingest"
	"github.com/veridrive/veridrive/internal/logger"
	"github.com/veridrive/veridrive/internal/providers/jetstream"
	"github.com/veridrive/veridrive/internal/registry"
	"github.com/veridrive/veridrive/internal/store"
	"github.com/veridrive/veridrive/internal/trust"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadBridgeConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "telemetry-bridge",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Telemetry Bridge")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}

	// Initialize store and adapters
	dataStore := store.NewPGStore(db)
	clock := adapter.NewClock()
	jsonAdapter := adapter.NewJSON()

	// Optional vehicle quarantine list
	var quarantine registry.QuarantineRegistry
	if cfg.QuarantinePath != "" {
		quarantine, err = registry.LoadQuarantine(cfg.QuarantinePath)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to load quarantine list", zap.Error(err), zap.String("path", cfg.QuarantinePath))
		}
		logger.InfoCtx(ctx, "Loaded vehicle quarantine list", zap.String("path", cfg.QuarantinePath))
	}

	// Services
	trustService := trust.NewService(dataStore, clock)
	aggregatorService := aggregator.NewService(dataStore, clock)
	pipeline := ingest.NewPipeline(dataStore, trustService, aggregatorService, quarantine)

	// Connect to NATS JetStream
	subscriber, err := jetstream.NewSubscriber(jetstream.Config{
		URL:            cfg.NATS.URL,
		StreamName:     cfg.NATS.StreamName,
		ConsumerName:   cfg.NATS.ConsumerName,
		MaxReconnects:  cfg.NATS.MaxReconnects,
		ReconnectWait:  cfg.NATS.ReconnectWait,
		ConnectionName: cfg.NATS.ConnectionName,
		AckWaitTimeout: cfg.NATS.AckWait,
		MaxDeliver:     cfg.NATS.MaxDeliver,
	}, adapter.NewNatsJetStream(), jsonAdapter)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to NATS", zap.Error(err), zap.String("url", cfg.NATS.URL))
	}
	defer subscriber.Close()
	logger.InfoCtx(ctx, "Connected to NATS",
		zap.String("stream", cfg.NATS.StreamName),
		zap.String("consumer", cfg.NATS.ConsumerName),
	)

	// Start consuming in a goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := subscriber.SubscribeReadings(ctx, pipeline.ProcessReading); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal or subscription error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.ErrorCtx(ctx, err)
	}

	// Cancel context to stop the subscription loop
	cancel()

	logger.Info("Telemetry bridge stopped")
}
