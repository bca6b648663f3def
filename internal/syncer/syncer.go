package syncer

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chainscore-labs/tier-oracle/internal/adapter"
	"github.com/chainscore-labs/tier-oracle/internal/classifier"
	"github.com/chainscore-labs/tier-oracle/internal/domain"
	"github.com/chainscore-labs/tier-oracle/internal/logger"
	"github.com/chainscore-labs/tier-oracle/internal/oracle"
	"github.com/chainscore-labs/tier-oracle/internal/providers/ethereum"
	"github.com/chainscore-labs/tier-oracle/internal/store"
)

// DefaultBatchSize is the number of wallets pushed per setTierBatch call.
// It sits well under the contract ceiling so a batch never risks rejection.
const DefaultBatchSize = 50

// lastSyncRunKey is the key-value cursor recording the most recent sync run
// that pushed every batch successfully
const lastSyncRunKey = "last_sync_run"

// Config holds synchronizer settings
type Config struct {
	// BatchSize is the number of wallets per on-chain write, capped at the
	// contract's batch ceiling
	BatchSize int
	// PageSize is the number of wallet rows fetched per database page
	PageSize int
}

// SyncReport summarizes a synchronization run
type SyncReport struct {
	SyncID   string
	Wallets  int
	Batches  int
	TxHashes []string
	Duration time.Duration
}

// Syncer pushes freshly computed tiers to the on-chain oracle. Tiers are
// persisted to the database before any chain write, so the store is never
// behind the chain. Batches are confirmed sequentially and the run halts on
// the first failed batch; confirmed batches stand and a rerun is idempotent
// because the contract skips unchanged entries.
type Syncer struct {
	config Config
	store  store.Store
	writer ethereum.OracleWriter
	clock  adapter.Clock
}

// New creates a Syncer
func New(cfg Config, s store.Store, writer ethereum.OracleWriter, clock adapter.Clock) *Syncer {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.BatchSize > oracle.MaxBatchSize {
		cfg.BatchSize = oracle.MaxBatchSize
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 500
	}
	return &Syncer{config: cfg, store: s, writer: writer, clock: clock}
}

// target is one wallet scheduled for an on-chain write
type target struct {
	address common.Address
	tier    domain.Tier
}

// Sync recomputes every wallet's tier, persists it, and pushes the full set
// to the oracle contract in batches
func (s *Syncer) Sync(ctx context.Context) (*SyncReport, error) {
	start := s.clock.Now()
	now := start.UTC()
	syncID := uuid.NewString()

	logger.InfoCtx(ctx, "Starting chain synchronization",
		zap.String("syncID", syncID),
		zap.Int("batchSize", s.config.BatchSize))

	targets, err := s.collectTargets(ctx, now)
	if err != nil {
		return nil, err
	}

	report := &SyncReport{SyncID: syncID, Wallets: len(targets)}

	for i := 0; i < len(targets); i += s.config.BatchSize {
		end := i + s.config.BatchSize
		if end > len(targets) {
			end = len(targets)
		}
		batch := targets[i:end]

		wallets := make([]common.Address, len(batch))
		tiers := make([]domain.Tier, len(batch))
		for j, t := range batch {
			wallets[j] = t.address
			tiers[j] = t.tier
		}

		txHash, err := s.writer.SetTierBatch(ctx, wallets, tiers)
		if err != nil {
			report.Duration = s.clock.Since(start)
			return report, fmt.Errorf("sync halted at batch %d of %d: %w",
				report.Batches+1, (len(targets)+s.config.BatchSize-1)/s.config.BatchSize, err)
		}

		report.Batches++
		report.TxHashes = append(report.TxHashes, txHash.Hex())

		logger.InfoCtx(ctx, "Batch confirmed",
			zap.String("syncID", syncID),
			zap.String("txHash", txHash.Hex()),
			zap.Int("batch", report.Batches),
			zap.Int("wallets", len(batch)))
	}

	if err := s.store.SetValue(ctx, lastSyncRunKey, syncID); err != nil {
		logger.WarnCtx(ctx, "Failed to record sync cursor",
			zap.String("syncID", syncID),
			zap.Error(err))
	}

	report.Duration = s.clock.Since(start)

	logger.InfoCtx(ctx, "Chain synchronization complete",
		zap.String("syncID", syncID),
		zap.Int("wallets", report.Wallets),
		zap.Int("batches", report.Batches),
		zap.Duration("duration", report.Duration))

	return report, nil
}

// collectTargets recomputes and persists every wallet's tier, returning the
// full (wallet, tier) set to push on chain
func (s *Syncer) collectTargets(ctx context.Context, now time.Time) ([]target, error) {
	var targets []target

	for offset := 0; ; offset += s.config.PageSize {
		wallets, err := s.store.ListWallets(ctx, offset, s.config.PageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to list wallets at offset %d: %w", offset, err)
		}
		if len(wallets) == 0 {
			break
		}

		for _, w := range wallets {
			if !common.IsHexAddress(w.Address) {
				logger.WarnCtx(ctx, "Skipping wallet with malformed address",
					zap.String("wallet", w.Address))
				continue
			}

			txs, err := s.store.GetTransactionsByWallet(ctx, w.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to load transactions for wallet %s: %w", w.Address, err)
			}

			tier := classifier.Classify(txs, w.FirstSeen, now)

			// Write-through: the store must never trail the chain
			if tier != w.Tier {
				if err := s.store.SetWalletTier(ctx, w.ID, tier); err != nil {
					return nil, fmt.Errorf("failed to persist tier for wallet %s: %w", w.Address, err)
				}
			}

			targets = append(targets, target{
				address: common.HexToAddress(w.Address),
				tier:    tier,
			})
		}
	}

	return targets, nil
}
