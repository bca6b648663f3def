package ethereum_test

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainscore-labs/tier-oracle/internal/domain"
	"github.com/chainscore-labs/tier-oracle/internal/oracle"
	"github.com/chainscore-labs/tier-oracle/internal/providers/ethereum"
)

var (
	simOwner   = common.HexToAddress("0x1000000000000000000000000000000000000001")
	simUpdater = common.HexToAddress("0x1000000000000000000000000000000000000002")
)

func TestSimulatedOracle_WriteThenRead(t *testing.T) {
	contract := oracle.New(simOwner, simUpdater, nil)
	sim := ethereum.NewSimulatedOracle(contract, simUpdater)
	ctx := context.Background()

	wallets := []common.Address{
		common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
		common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"),
	}
	tiers := []domain.Tier{domain.TierStandard, domain.TierTrusted}

	txHash, err := sim.SetTierBatch(ctx, wallets, tiers)
	require.NoError(t, err)
	assert.NotEqual(t, common.Hash{}, txHash)

	got, err := sim.GetTierBatch(ctx, wallets)
	require.NoError(t, err)
	assert.Equal(t, tiers, got)

	single, err := sim.GetTier(ctx, wallets[1])
	require.NoError(t, err)
	assert.Equal(t, domain.TierTrusted, single)

	// Standard may trade but not use leverage; trusted may do both
	allowed, err := sim.Can(ctx, wallets[0], domain.ActionTrade)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = sim.Can(ctx, wallets[0], domain.ActionLeverage)
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = sim.Can(ctx, wallets[1], domain.ActionLeverage)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestSimulatedOracle_RejectsUnauthorizedUpdater(t *testing.T) {
	contract := oracle.New(simOwner, simUpdater, nil)
	intruder := common.HexToAddress("0x1000000000000000000000000000000000000099")
	sim := ethereum.NewSimulatedOracle(contract, intruder)

	_, err := sim.SetTierBatch(context.Background(),
		[]common.Address{testWalletAddr},
		[]domain.Tier{domain.TierStandard})
	require.Error(t, err)

	// Nothing was written
	tier, err := ethereum.NewSimulatedOracle(contract, simUpdater).GetTier(context.Background(), testWalletAddr)
	require.NoError(t, err)
	assert.Equal(t, domain.TierUnknown, tier)
}

func TestSimulatedOracle_UpdaterAddress(t *testing.T) {
	sim := ethereum.NewSimulatedOracle(oracle.New(simOwner, simUpdater, nil), simUpdater)
	assert.Equal(t, simUpdater, sim.UpdaterAddress())
}
