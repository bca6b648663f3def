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

	"github.com/chainscore-labs/tier-oracle/internal/adapter"
	"github.com/chainscore-labs/tier-oracle/internal/config"
	"github.com/chainscore-labs/tier-oracle/internal/logger"
	"github.com/chainscore-labs/tier-oracle/internal/providers/jetstream"
	"github.com/chainscore-labs/tier-oracle/internal/reclassifier"
	"github.com/chainscore-labs/tier-oracle/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
	once       = flag.Bool("once", false, "Run a single pass and exit")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadReclassifierConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Service:         "reclassifier",
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Reclassifier")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err))
	}
	if err := store.ConfigureConnectionPool(db,
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
		cfg.Database.ConnMaxLifetime,
		cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	if err := store.Migrate(db); err != nil {
		logger.FatalCtx(ctx, "Failed to migrate database", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database")

	// Initialize store and adapters
	dataStore := store.NewPGStore(db)
	clockAdapter := adapter.NewClock()
	jsonAdapter := adapter.NewJSON()
	natsJS := adapter.NewNatsJetStream()

	// Initialize NATS publisher
	natsPublisher, err := jetstream.NewPublisher(jetstream.Config{
		URL:            cfg.NATS.URL,
		StreamName:     cfg.NATS.StreamName,
		MaxReconnects:  cfg.NATS.MaxReconnects,
		ReconnectWait:  cfg.NATS.ReconnectWait,
		ConnectionName: cfg.NATS.ConnectionName,
	}, natsJS, jsonAdapter)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create NATS publisher", zap.Error(err), zap.String("url", cfg.NATS.URL))
	}
	defer natsPublisher.Close()
	logger.InfoCtx(ctx, "Connected to NATS JetStream")

	engine := reclassifier.New(reclassifier.Config{
		WorkerPoolSize: cfg.Classifier.WorkerPoolSize,
		PageSize:       cfg.Classifier.PageSize,
	}, dataStore, natsPublisher, clockAdapter)

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	if *once {
		if _, err := engine.Run(ctx); err != nil {
			logger.FatalCtx(ctx, "Reclassification pass failed", zap.Error(err))
		}
		logger.Info("Reclassifier finished")
		return
	}

	// Run continuously, one pass per interval. A pass that fails is logged
	// and retried at the next tick; per-wallet failures never abort a pass.
	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		if report, err := engine.Run(ctx); err != nil {
			logger.ErrorCtx(ctx, err, zap.String("component", "reclassifier"))
		} else if report.Failed > 0 {
			logger.WarnCtx(ctx, "Pass completed with failures",
				zap.String("runID", report.RunID),
				zap.Int64("failed", report.Failed))
		}

		select {
		case sig := <-sigCh:
			logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
			cancel()
			logger.Info("Reclassifier stopped")
			return
		case <-ticker.C:
		}
	}
}
