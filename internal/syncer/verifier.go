package syncer

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chainscore-labs/tier-oracle/internal/adapter"
	"github.com/chainscore-labs/tier-oracle/internal/domain"
	"github.com/chainscore-labs/tier-oracle/internal/logger"
	"github.com/chainscore-labs/tier-oracle/internal/providers/ethereum"
	"github.com/chainscore-labs/tier-oracle/internal/store"
)

// Mismatch records a wallet whose stored tier disagrees with the chain
type Mismatch struct {
	Address    string
	StoredTier domain.Tier
	ChainTier  domain.Tier
}

// ProbeResult records one can() probe against the contract
type ProbeResult struct {
	Address  string
	Tier     domain.Tier
	Action   domain.ActionType
	Expected bool
	Actual   bool
}

// VerifyReport summarizes a verification run
type VerifyReport struct {
	VerifyID    string
	Checked     int
	Matched     int
	Mismatches  []Mismatch
	Probes      []ProbeResult
	FailedProbe int
	Duration    time.Duration
}

// Verifier compares the store's tiers against the deployed contract and
// probes the contract's permission surface. It never mutates state.
type Verifier struct {
	config Config
	store  store.Store
	reader ethereum.OracleReader
	clock  adapter.Clock
}

// NewVerifier creates a Verifier
func NewVerifier(cfg Config, s store.Store, reader ethereum.OracleReader, clock adapter.Clock) *Verifier {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 500
	}
	return &Verifier{config: cfg, store: s, reader: reader, clock: clock}
}

// Verify checks every stored tier against the chain, then probes can() for
// one representative wallet per populated tier, lowest tier first
func (v *Verifier) Verify(ctx context.Context) (*VerifyReport, error) {
	start := v.clock.Now()
	report := &VerifyReport{VerifyID: uuid.NewString()}

	logger.InfoCtx(ctx, "Starting verification",
		zap.String("verifyID", report.VerifyID))

	// One representative address per tier found on chain
	representatives := make(map[domain.Tier]common.Address)

	for offset := 0; ; offset += v.config.PageSize {
		wallets, err := v.store.ListWallets(ctx, offset, v.config.PageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to list wallets at offset %d: %w", offset, err)
		}
		if len(wallets) == 0 {
			break
		}

		for i := 0; i < len(wallets); i += v.config.BatchSize {
			end := i + v.config.BatchSize
			if end > len(wallets) {
				end = len(wallets)
			}
			page := wallets[i:end]

			addrs := make([]common.Address, 0, len(page))
			stored := make([]domain.Tier, 0, len(page))
			names := make([]string, 0, len(page))
			for _, w := range page {
				if !common.IsHexAddress(w.Address) {
					continue
				}
				addrs = append(addrs, common.HexToAddress(w.Address))
				stored = append(stored, w.Tier)
				names = append(names, w.Address)
			}
			if len(addrs) == 0 {
				continue
			}

			chainTiers, err := v.reader.GetTierBatch(ctx, addrs)
			if err != nil {
				return nil, fmt.Errorf("failed to read tiers from chain: %w", err)
			}

			for j := range addrs {
				report.Checked++
				if chainTiers[j] == stored[j] {
					report.Matched++
				} else {
					report.Mismatches = append(report.Mismatches, Mismatch{
						Address:    names[j],
						StoredTier: stored[j],
						ChainTier:  chainTiers[j],
					})
					logger.WarnCtx(ctx, "Tier mismatch",
						zap.String("wallet", names[j]),
						zap.Uint8("stored", uint8(stored[j])),
						zap.Uint8("chain", uint8(chainTiers[j])))
				}
				if _, ok := representatives[chainTiers[j]]; !ok {
					representatives[chainTiers[j]] = addrs[j]
				}
			}
		}
	}

	v.probePermissions(ctx, representatives, report)

	report.Duration = v.clock.Since(start)

	logger.InfoCtx(ctx, "Verification complete",
		zap.String("verifyID", report.VerifyID),
		zap.Int("checked", report.Checked),
		zap.Int("matched", report.Matched),
		zap.Int("mismatched", len(report.Mismatches)),
		zap.Int("failedProbes", report.FailedProbe),
		zap.Duration("duration", report.Duration))

	return report, nil
}

// probePermissions exercises can() for one wallet per populated tier,
// checking each action against the expected threshold table
func (v *Verifier) probePermissions(ctx context.Context, representatives map[domain.Tier]common.Address, report *VerifyReport) {
	tiers := make([]domain.Tier, 0, len(representatives))
	for t := range representatives {
		tiers = append(tiers, t)
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i] < tiers[j] })

	actions := []domain.ActionType{
		domain.ActionBasic,
		domain.ActionTrade,
		domain.ActionLeverage,
		domain.ActionGovern,
		domain.ActionWithdraw,
	}

	for _, tier := range tiers {
		wallet := representatives[tier]
		for _, action := range actions {
			actual, err := v.reader.Can(ctx, wallet, action)
			if err != nil {
				logger.ErrorCtx(ctx, err,
					zap.String("wallet", wallet.Hex()),
					zap.Uint8("action", uint8(action)))
				report.FailedProbe++
				continue
			}

			expected := domain.Allowed(tier, action)
			report.Probes = append(report.Probes, ProbeResult{
				Address:  wallet.Hex(),
				Tier:     tier,
				Action:   action,
				Expected: expected,
				Actual:   actual,
			})
			if actual != expected {
				report.FailedProbe++
				logger.WarnCtx(ctx, "Permission probe disagreed with threshold table",
					zap.String("wallet", wallet.Hex()),
					zap.Uint8("tier", uint8(tier)),
					zap.String("action", action.String()),
					zap.Bool("expected", expected),
					zap.Bool("actual", actual))
			}
		}
	}
}
