package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
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
	cfg, err := config.LoadVerifierConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Service:         "verifier",
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Chain Verifier")

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

	// Dial the chain endpoint
	ethDialer := adapter.NewEthClientDialer()
	ethClient, err := ethDialer.Dial(ctx, cfg.Oracle.RPCURL)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to dial Ethereum RPC", zap.Error(err), zap.String("rpc_url", cfg.Oracle.RPCURL))
	}
	defer ethClient.Close()

	reader := ethereum.NewReader(common.HexToAddress(cfg.Oracle.ContractAddress), ethClient)
	logger.InfoCtx(ctx, "Connected to chain", zap.String("contract", cfg.Oracle.ContractAddress))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	v := syncer.NewVerifier(syncer.Config{
		BatchSize: cfg.Sync.BatchSize,
		PageSize:  cfg.Sync.PageSize,
	}, dataStore, reader, clockAdapter)

	report, err := v.Verify(ctx)
	if err != nil {
		logger.ErrorCtx(ctx, err, zap.String("component", "verifier"))
		logger.Flush(2 * time.Second)
		os.Exit(1)
	}

	logger.Info("Verification finished",
		zap.String("verifyID", report.VerifyID),
		zap.Int("checked", report.Checked),
		zap.Int("matched", report.Matched),
		zap.Int("mismatched", len(report.Mismatches)),
		zap.Int("failedProbes", report.FailedProbe),
		zap.Duration("duration", report.Duration))

	// A clean run exits zero; any drift or probe failure is a nonzero exit so
	// schedulers can alert on it
	if len(report.Mismatches) > 0 || report.FailedProbe > 0 {
		logger.Flush(2 * time.Second)
		os.Exit(2)
	}
}
