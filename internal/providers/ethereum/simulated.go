package ethereum

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/chainscore-labs/tier-oracle/internal/domain"
	"github.com/chainscore-labs/tier-oracle/internal/oracle"
)

// SimulatedOracle backs the OracleReader and OracleWriter interfaces with an
// in-process contract state machine. It is used for dry runs and local
// development where no chain endpoint is available. Calls behave like the
// deployed contract, including updater authorization on writes.
type SimulatedOracle struct {
	contract *oracle.Contract
	updater  common.Address
}

var _ OracleReader = (*SimulatedOracle)(nil)
var _ OracleWriter = (*SimulatedOracle)(nil)

// NewSimulatedOracle creates a simulated oracle. The given contract must have
// updater as its active updater for writes to succeed.
func NewSimulatedOracle(contract *oracle.Contract, updater common.Address) *SimulatedOracle {
	return &SimulatedOracle{contract: contract, updater: updater}
}

// GetTier fetches the current tier for a wallet
func (s *SimulatedOracle) GetTier(_ context.Context, wallet common.Address) (domain.Tier, error) {
	return s.contract.GetTier(wallet), nil
}

// GetTierBatch fetches the current tiers for a list of wallets
func (s *SimulatedOracle) GetTierBatch(_ context.Context, wallets []common.Address) ([]domain.Tier, error) {
	return s.contract.GetTierBatch(wallets), nil
}

// Can asks whether a wallet is permitted to perform an action
func (s *SimulatedOracle) Can(_ context.Context, wallet common.Address, action domain.ActionType) (bool, error) {
	return s.contract.Can(wallet, action), nil
}

// SetTierBatch applies a batch write as the configured updater
func (s *SimulatedOracle) SetTierBatch(_ context.Context, wallets []common.Address, tiers []domain.Tier) (common.Hash, error) {
	if err := s.contract.SetTierBatch(s.updater, wallets, tiers); err != nil {
		return common.Hash{}, fmt.Errorf("simulated setTierBatch failed: %w", err)
	}

	// Fabricate a transaction hash so callers can log a reference
	var h common.Hash
	if _, err := rand.Read(h[:]); err != nil {
		return common.Hash{}, fmt.Errorf("failed to generate hash: %w", err)
	}

	return h, nil
}

// UpdaterAddress returns the configured updater address
func (s *SimulatedOracle) UpdaterAddress() common.Address {
	return s.updater
}

// Close is a no-op for the simulated oracle
func (s *SimulatedOracle) Close() {}
