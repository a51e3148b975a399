package main

import (
	"context"
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
	"github.com/veridrive/veridrive/internal/anchor"
	"github.com/veridrive/veridrive/internal/config"
	"github.com/veridrive/veridrive/internal/consolidation"
	"github.com/veridrive/veridrive/internal/logger"
	"github.com/veridrive/veridrive/internal/providers/archive"
	"github.com/veridrive/veridrive/internal/providers/ethereum"
	"github.com/veridrive/veridrive/internal/ratelimit"
	"github.com/veridrive/veridrive/internal/store"
	"github.com/veridrive/veridrive/internal/sweeper"
	"github.com/veridrive/veridrive/internal/trust"
	"github.com/veridrive/veridrive/internal/webhook"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadSweeperConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "sweeper",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Consolidation Sweeper")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)

	// Initialize store and adapters
	dataStore := store.NewPGStore(db)
	clock := adapter.NewClock()
	jsonAdapter := adapter.NewJSON()
	jcsAdapter := adapter.NewJCS()

	// Rate limiting for outbound ledger calls
	rateLimitProxy, err := ratelimit.NewProxy(cfg.RateLimit)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create rate limit proxy", zap.Error(err))
	}
	defer func() {
		if err := rateLimitProxy.Close(); err != nil {
			logger.Warn("Failed to close rate limit proxy", zap.Error(err))
		}
	}()

	// Ledger providers
	ethClient, err := adapter.NewEthClientDialer().Dial(ctx, cfg.Ethereum.RPCURL)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to dial transaction ledger RPC", zap.Error(err))
	}
	defer ethClient.Close()

	txLedger, err := ethereum.NewSubmitter(ethClient, rateLimitProxy, ethereum.Config{
		AnchorAddress: cfg.Ethereum.AnchorAddress,
	})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create transaction ledger submitter", zap.Error(err))
	}

	credentials, err := ethereum.NewKeystore(ethereum.KeystoreConfig{
		PlatformKeyHex: cfg.Ethereum.PlatformKeyHex,
		OwnerKeyDir:    cfg.Ethereum.OwnerKeyDir,
	})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create keystore", zap.Error(err))
	}

	permLedger := archive.NewClient(
		adapter.NewHTTPClient(cfg.Anchor.SubmitTimeout),
		jsonAdapter,
		rateLimitProxy,
		archive.Config{
			GatewayURL: cfg.Archive.GatewayURL,
			APIKey:     cfg.Archive.APIKey,
		},
	)

	// Services
	trustService := trust.NewService(dataStore, clock)
	aggregatorService := aggregator.NewService(dataStore, clock)
	orchestrator := anchor.NewOrchestrator(dataStore, permLedger, txLedger, credentials, jcsAdapter, jsonAdapter, anchor.Config{
		PermanentLedgerEnabled: cfg.Anchor.PermanentLedgerEnabled,
		SubmitTimeout:          cfg.Anchor.SubmitTimeout,
	})
	notifier := webhook.NewNotifier(adapter.NewHTTPClient(cfg.Anchor.SubmitTimeout), clock, webhook.Config{
		URL:    cfg.Webhook.URL,
		Secret: cfg.Webhook.Secret,
	})
	consolidationService := consolidation.NewService(dataStore, aggregatorService, orchestrator, trustService, notifier)

	// Initialize consolidation sweeper
	sweeperConfig := &sweeper.ConsolidationSweeperConfig{
		BatchLimit:       cfg.BatchLimit,
		WorkerPoolSize:   cfg.Worker.WorkerPoolSize,
		WorkerQueueSize:  cfg.Worker.WorkerQueueSize,
		RetryFailedAfter: cfg.RetryFailedAfter,
	}
	consolidationSweeper := sweeper.NewConsolidationSweeper(sweeperConfig, dataStore, consolidationService, clock)

	logger.InfoCtx(ctx, "Initialized consolidation sweeper (continuous mode)",
		zap.Int("batch_limit", cfg.BatchLimit),
		zap.Int("worker_pool_size", cfg.Worker.WorkerPoolSize),
		zap.Duration("retry_failed_after", cfg.RetryFailedAfter),
	)

	// Start the sweeper in a goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := consolidationSweeper.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	// Wait for interrupt signal or error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		logger.ErrorCtx(ctx, err)
	}

	// Cancel context to stop the sweeper
	cancel()

	// Give the sweeper time to shut down gracefully
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer shutdownCancel()

	if err := consolidationSweeper.Stop(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err)
	}

	logger.InfoCtx(shutdownCtx, "Sweeper stopped")
}
