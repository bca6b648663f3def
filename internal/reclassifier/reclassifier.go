package reclassifier

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/chainscore-labs/tier-oracle/internal/adapter"
	"github.com/chainscore-labs/tier-oracle/internal/classifier"
	"github.com/chainscore-labs/tier-oracle/internal/domain"
	"github.com/chainscore-labs/tier-oracle/internal/logger"
	"github.com/chainscore-labs/tier-oracle/internal/messaging"
	"github.com/chainscore-labs/tier-oracle/internal/store"
	"github.com/chainscore-labs/tier-oracle/internal/store/schema"
)

// Config holds reclassifier run settings
type Config struct {
	// WorkerPoolSize is the number of wallets classified concurrently
	WorkerPoolSize int
	// PageSize is the number of wallet rows fetched per database page
	PageSize int
}

// RunReport summarizes a single reclassification run
type RunReport struct {
	RunID     string
	Processed int64
	Changed   int64
	Failed    int64
	Duration  time.Duration
}

// Reclassifier walks every known wallet, recomputes its tier from its full
// transaction history, and persists the result. A wallet whose tier did not
// move is left untouched. Failures are isolated per wallet so one bad row
// cannot sink a run.
type Reclassifier struct {
	config    Config
	store     store.Store
	publisher messaging.Publisher
	clock     adapter.Clock
}

// New creates a Reclassifier. The publisher may be nil, in which case
// transitions are journaled but not published.
func New(cfg Config, s store.Store, publisher messaging.Publisher, clock adapter.Clock) *Reclassifier {
	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = 8
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 500
	}
	return &Reclassifier{config: cfg, store: s, publisher: publisher, clock: clock}
}

// Run performs one full reclassification pass over all wallets
func (r *Reclassifier) Run(ctx context.Context) (*RunReport, error) {
	start := r.clock.Now()
	now := start.UTC()
	runID := ulid.MustNewDefault(start).String()

	total, err := r.store.CountWallets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count wallets: %w", err)
	}

	logger.InfoCtx(ctx, "Starting reclassification run",
		zap.String("runID", runID),
		zap.Int64("wallets", total),
		zap.Int("workerPoolSize", r.config.WorkerPoolSize))

	pool := pond.NewPool(
		r.config.WorkerPoolSize,
		pond.WithQueueSize(r.config.PageSize),
		pond.WithContext(ctx),
	)

	var processed, changed, failed atomic.Int64

	for offset := 0; ; offset += r.config.PageSize {
		if err := ctx.Err(); err != nil {
			break
		}

		wallets, err := r.store.ListWallets(ctx, offset, r.config.PageSize)
		if err != nil {
			pool.StopAndWait()
			return nil, fmt.Errorf("failed to list wallets at offset %d: %w", offset, err)
		}
		if len(wallets) == 0 {
			break
		}

		for _, w := range wallets {
			pool.Submit(func() {
				processed.Add(1)
				moved, err := r.reclassifyWallet(ctx, w, runID, now)
				if err != nil {
					failed.Add(1)
					logger.ErrorCtx(ctx, err,
						zap.String("runID", runID),
						zap.String("wallet", w.Address))
					return
				}
				if moved {
					changed.Add(1)
				}
			})
		}
	}

	pool.StopAndWait()

	report := &RunReport{
		RunID:     runID,
		Processed: processed.Load(),
		Changed:   changed.Load(),
		Failed:    failed.Load(),
		Duration:  r.clock.Since(start),
	}

	logger.InfoCtx(ctx, "Reclassification run complete",
		zap.String("runID", runID),
		zap.Int64("processed", report.Processed),
		zap.Int64("changed", report.Changed),
		zap.Int64("failed", report.Failed),
		zap.Duration("duration", report.Duration))

	return report, ctx.Err()
}

// reclassifyWallet recomputes one wallet's tier and persists it if it moved.
// Returns true when the stored tier changed.
func (r *Reclassifier) reclassifyWallet(ctx context.Context, w *schema.Wallet, runID string, now time.Time) (bool, error) {
	txs, err := r.store.GetTransactionsByWallet(ctx, w.ID)
	if err != nil {
		return false, fmt.Errorf("failed to load transactions for wallet %s: %w", w.Address, err)
	}

	newTier, rule := classifier.Evaluate(txs, w.FirstSeen, now)
	if newTier == w.Tier {
		return false, nil
	}

	updated, err := r.store.UpdateWalletTier(ctx, w.ID, w.Tier, newTier)
	if err != nil {
		return false, fmt.Errorf("failed to update tier for wallet %s: %w", w.Address, err)
	}
	if !updated {
		// Another run moved the tier between our read and write. Skip;
		// the next run will settle it from fresh data.
		logger.WarnCtx(ctx, "Skipping stale tier update",
			zap.String("wallet", w.Address),
			zap.Uint8("readTier", uint8(w.Tier)),
			zap.Uint8("computedTier", uint8(newTier)))
		return false, nil
	}

	delta := domain.TierDelta{
		Address:   w.Address,
		OldTier:   w.Tier,
		NewTier:   newTier,
		RunID:     runID,
		ChangedAt: now,
	}

	if err := r.store.RecordTierTransition(ctx, delta, string(rule)); err != nil {
		return true, fmt.Errorf("failed to journal transition for wallet %s: %w", w.Address, err)
	}

	if r.publisher != nil {
		// Publishing is best effort. The journal row is the durable record.
		if err := r.publisher.PublishTransition(ctx, &delta); err != nil {
			logger.WarnCtx(ctx, "Failed to publish tier transition",
				zap.String("wallet", w.Address),
				zap.Error(err))
		}
	}

	logger.DebugCtx(ctx, "Wallet tier changed",
		zap.String("wallet", w.Address),
		zap.Uint8("oldTier", uint8(w.Tier)),
		zap.Uint8("newTier", uint8(newTier)),
		zap.String("rule", string(rule)))

	return true, nil
}
