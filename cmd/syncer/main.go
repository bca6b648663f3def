package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/chainscore-labs/tier-oracle/internal/adapter"
	"github.com/chainscore-labs/tier-oracle/internal/config"
	"github.com/chainscore-labs/tier-oracle/internal/logger"
	"github.com/chainscore-labs/tier-oracle/internal/providers/ethereum"
	"github.com/chainscore-labs/tier-oracle/internal/store"
	"github.com/chainscore-labs/tier-oracle/internal/syncer"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadSyncerConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Service:         "syncer",
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Chain Syncer")

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
	logger.InfoCtx(ctx, "Connected to database")

	dataStore := store.NewPGStore(db)
	clockAdapter := adapter.NewClock()

	// Parse the updater signing key
	key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.Oracle.UpdaterKey, "0x"))
	if err != nil {
		logger.FatalCtx(ctx, "Failed to parse updater key", zap.Error(err))
	}

	// Dial the chain endpoint
	ethDialer := adapter.NewEthClientDialer()
	ethClient, err := ethDialer.Dial(ctx, cfg.Oracle.RPCURL)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to dial Ethereum RPC", zap.Error(err), zap.String("rpc_url", cfg.Oracle.RPCURL))
	}
	defer ethClient.Close()

	writer := ethereum.NewWriter(ethereum.Config{
		ConfirmTimeout: cfg.Sync.ConfirmTimeout,
		PollInterval:   cfg.Sync.PollInterval,
	}, common.HexToAddress(cfg.Oracle.ContractAddress), ethClient, key)
	logger.InfoCtx(ctx, "Connected to chain",
		zap.String("contract", cfg.Oracle.ContractAddress),
		zap.String("updater", writer.UpdaterAddress().Hex()))

	// Cancel the run on shutdown signals; confirmed batches stand and a rerun
	// picks up where this one stopped
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	s := syncer.New(syncer.Config{
		BatchSize: cfg.Sync.BatchSize,
		PageSize:  cfg.Sync.PageSize,
	}, dataStore, writer, clockAdapter)

	report, err := s.Sync(ctx)
	if err != nil {
		logger.ErrorCtx(ctx, err, zap.String("component", "syncer"))
		logger.Flush(2 * time.Second)
		os.Exit(1)
	}

	logger.Info("Chain sync finished",
		zap.String("syncID", report.SyncID),
		zap.Int("wallets", report.Wallets),
		zap.Int("batches", report.Batches),
		zap.Duration("duration", report.Duration))
}
