package oracle_test

import (
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainscore-labs/tier-oracle/internal/domain"
	"github.com/chainscore-labs/tier-oracle/internal/oracle"
)

var (
	ownerAddr   = common.HexToAddress("0x1000000000000000000000000000000000000001")
	updaterAddr = common.HexToAddress("0x1000000000000000000000000000000000000002")
	candidate   = common.HexToAddress("0x1000000000000000000000000000000000000003")
	outsider    = common.HexToAddress("0x1000000000000000000000000000000000000004")
	walletA     = common.HexToAddress("0xaaaa000000000000000000000000000000000001")
	walletB     = common.HexToAddress("0xaaaa000000000000000000000000000000000002")
)

// eventRecorder captures emitted contract events for assertions
type eventRecorder struct {
	mu     sync.Mutex
	events []oracle.Event
}

func (r *eventRecorder) sink(e oracle.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *eventRecorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.events))
	for i, e := range r.events {
		names[i] = e.Name()
	}
	return names
}

func (r *eventRecorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

func newContract() (*oracle.Contract, *eventRecorder) {
	rec := &eventRecorder{}
	return oracle.New(ownerAddr, updaterAddr, rec.sink), rec
}

func TestGetTier_DefaultsToZero(t *testing.T) {
	c, _ := newContract()
	assert.Equal(t, domain.TierUnknown, c.GetTier(walletA))
}

func TestSetTier(t *testing.T) {
	c, rec := newContract()

	require.NoError(t, c.SetTier(updaterAddr, walletA, domain.TierStandard))
	assert.Equal(t, domain.TierStandard, c.GetTier(walletA))
	assert.Equal(t, []string{"TierSet"}, rec.names())

	t.Run("rejects non-updater", func(t *testing.T) {
		assert.ErrorIs(t, c.SetTier(outsider, walletB, domain.TierStandard), oracle.ErrNotUpdater)
		assert.ErrorIs(t, c.SetTier(ownerAddr, walletB, domain.TierStandard), oracle.ErrNotUpdater)
	})

	t.Run("rejects zero wallet", func(t *testing.T) {
		assert.ErrorIs(t, c.SetTier(updaterAddr, common.Address{}, domain.TierStandard), oracle.ErrZeroWallet)
	})

	t.Run("rejects out-of-range tier", func(t *testing.T) {
		assert.ErrorIs(t, c.SetTier(updaterAddr, walletB, domain.Tier(5)), oracle.ErrTierOutOfRange)
	})

	t.Run("rejects no-op write", func(t *testing.T) {
		assert.ErrorIs(t, c.SetTier(updaterAddr, walletA, domain.TierStandard), oracle.ErrTierUnchanged)
	})
}

func TestSetTierBatch(t *testing.T) {
	c, rec := newContract()

	wallets := []common.Address{walletA, walletB}
	tiers := []domain.Tier{domain.TierStandard, domain.TierTrusted}

	require.NoError(t, c.SetTierBatch(updaterAddr, wallets, tiers))
	assert.Equal(t, tiers, c.GetTierBatch(wallets))
	assert.Len(t, rec.names(), 2)

	t.Run("identical resubmission is a silent no-op", func(t *testing.T) {
		rec.reset()
		require.NoError(t, c.SetTierBatch(updaterAddr, wallets, tiers))
		assert.Empty(t, rec.names(), "unchanged entries must not emit events")
		assert.Equal(t, tiers, c.GetTierBatch(wallets))
	})

	t.Run("mixed batch only writes the changed entries", func(t *testing.T) {
		rec.reset()
		require.NoError(t, c.SetTierBatch(updaterAddr, wallets, []domain.Tier{domain.TierStandard, domain.TierAdvanced}))
		assert.Equal(t, []string{"TierSet"}, rec.names())
	})

	t.Run("length mismatch", func(t *testing.T) {
		err := c.SetTierBatch(updaterAddr, wallets, tiers[:1])
		assert.ErrorIs(t, err, oracle.ErrLengthMismatch)
	})

	t.Run("batch over ceiling", func(t *testing.T) {
		big := make([]common.Address, oracle.MaxBatchSize+1)
		bigTiers := make([]domain.Tier, oracle.MaxBatchSize+1)
		for i := range big {
			big[i] = common.BigToAddress(common.Big1)
		}
		assert.ErrorIs(t, c.SetTierBatch(updaterAddr, big, bigTiers), oracle.ErrBatchTooLarge)
	})

	t.Run("validates every entry before any write", func(t *testing.T) {
		before := c.GetTierBatch(wallets)
		err := c.SetTierBatch(updaterAddr,
			[]common.Address{walletA, common.Address{}},
			[]domain.Tier{domain.TierRestricted, domain.TierStandard})
		assert.ErrorIs(t, err, oracle.ErrZeroWallet)
		assert.Equal(t, before, c.GetTierBatch(wallets), "failed batch must leave no partial effect")
	})

	t.Run("rejects non-updater", func(t *testing.T) {
		assert.ErrorIs(t, c.SetTierBatch(outsider, wallets, tiers), oracle.ErrNotUpdater)
	})
}

func TestDeleteTier(t *testing.T) {
	c, rec := newContract()

	require.NoError(t, c.SetTier(updaterAddr, walletA, domain.TierTrusted))
	rec.reset()

	require.NoError(t, c.DeleteTier(updaterAddr, walletA))
	assert.Equal(t, domain.TierUnknown, c.GetTier(walletA))
	assert.Equal(t, []string{"TierDeleted"}, rec.names())

	t.Run("fails on already-zero wallet", func(t *testing.T) {
		assert.ErrorIs(t, c.DeleteTier(updaterAddr, walletA), oracle.ErrTierAlreadyZero)
		assert.ErrorIs(t, c.DeleteTier(updaterAddr, walletB), oracle.ErrTierAlreadyZero)
	})

	t.Run("rejects non-updater", func(t *testing.T) {
		assert.ErrorIs(t, c.DeleteTier(outsider, walletA), oracle.ErrNotUpdater)
	})
}

func TestCan(t *testing.T) {
	c, _ := newContract()

	require.NoError(t, c.SetTierBatch(updaterAddr,
		[]common.Address{walletA, walletB},
		[]domain.Tier{domain.TierStandard, domain.TierTrusted}))

	t.Run("threshold table", func(t *testing.T) {
		assert.True(t, c.Can(walletA, domain.ActionBasic))
		assert.True(t, c.Can(walletA, domain.ActionTrade))
		assert.True(t, c.Can(walletA, domain.ActionWithdraw))
		assert.False(t, c.Can(walletA, domain.ActionLeverage))
		assert.False(t, c.Can(walletA, domain.ActionGovern))

		assert.True(t, c.Can(walletB, domain.ActionLeverage))
		assert.True(t, c.Can(walletB, domain.ActionGovern))
	})

	t.Run("unknown wallets are denied everything", func(t *testing.T) {
		unknown := common.HexToAddress("0xaaaa0000000000000000000000000000000000ff")
		for _, action := range []domain.ActionType{domain.ActionBasic, domain.ActionTrade, domain.ActionLeverage, domain.ActionGovern, domain.ActionWithdraw} {
			assert.False(t, c.Can(unknown, action))
		}
	})

	t.Run("restricted wallets gain nothing over unknown", func(t *testing.T) {
		restricted := common.HexToAddress("0xaaaa0000000000000000000000000000000000fe")
		require.NoError(t, c.SetTier(updaterAddr, restricted, domain.TierRestricted))
		for _, action := range []domain.ActionType{domain.ActionBasic, domain.ActionTrade, domain.ActionLeverage, domain.ActionGovern, domain.ActionWithdraw} {
			assert.False(t, c.Can(restricted, action))
		}
	})

	t.Run("unrecognized action fails closed for every tier", func(t *testing.T) {
		advanced := common.HexToAddress("0xaaaa0000000000000000000000000000000000fd")
		require.NoError(t, c.SetTier(updaterAddr, advanced, domain.TierAdvanced))
		assert.False(t, c.Can(advanced, domain.ActionType(255)))
		assert.False(t, c.Can(walletA, domain.ActionType(255)))
		assert.False(t, c.Can(walletB, domain.ActionType(5)))
	})
}

func TestSetUpdater(t *testing.T) {
	c, rec := newContract()

	newUpdater := common.HexToAddress("0x1000000000000000000000000000000000000005")
	require.NoError(t, c.SetUpdater(ownerAddr, newUpdater))
	assert.Equal(t, newUpdater, c.Updater())
	assert.Equal(t, []string{"UpdaterChanged"}, rec.names())

	t.Run("old updater loses write access", func(t *testing.T) {
		assert.ErrorIs(t, c.SetTier(updaterAddr, walletA, domain.TierStandard), oracle.ErrNotUpdater)
		assert.NoError(t, c.SetTier(newUpdater, walletA, domain.TierStandard))
	})

	t.Run("zero address pauses writes", func(t *testing.T) {
		require.NoError(t, c.SetUpdater(ownerAddr, common.Address{}))
		assert.ErrorIs(t, c.SetTier(newUpdater, walletB, domain.TierStandard), oracle.ErrNotUpdater)
	})

	t.Run("rejects non-owner", func(t *testing.T) {
		assert.ErrorIs(t, c.SetUpdater(outsider, newUpdater), oracle.ErrNotOwner)
	})
}

func TestOwnershipHandover(t *testing.T) {
	c, rec := newContract()

	require.NoError(t, c.ProposeOwner(ownerAddr, candidate))
	require.NotNil(t, c.PendingOwner())
	assert.Equal(t, candidate, *c.PendingOwner())

	t.Run("only the candidate may accept", func(t *testing.T) {
		assert.ErrorIs(t, c.AcceptOwnership(outsider), oracle.ErrNotPendingOwner)
		assert.ErrorIs(t, c.AcceptOwnership(ownerAddr), oracle.ErrNotPendingOwner)
	})

	require.NoError(t, c.AcceptOwnership(candidate))
	assert.Equal(t, candidate, c.Owner())
	assert.Nil(t, c.PendingOwner())

	t.Run("previous owner immediately loses owner rights", func(t *testing.T) {
		assert.ErrorIs(t, c.SetUpdater(ownerAddr, outsider), oracle.ErrNotOwner)
		assert.ErrorIs(t, c.ProposeOwner(ownerAddr, outsider), oracle.ErrNotOwner)
		assert.NoError(t, c.SetUpdater(candidate, updaterAddr))
	})

	assert.Contains(t, rec.names(), "OwnershipProposed")
	assert.Contains(t, rec.names(), "OwnershipAccepted")
}

func TestProposeOwner_Validation(t *testing.T) {
	c, rec := newContract()

	assert.ErrorIs(t, c.ProposeOwner(ownerAddr, common.Address{}), oracle.ErrZeroCandidate)
	assert.ErrorIs(t, c.ProposeOwner(outsider, candidate), oracle.ErrNotOwner)

	t.Run("overwriting a proposal emits a displacement", func(t *testing.T) {
		require.NoError(t, c.ProposeOwner(ownerAddr, candidate))
		rec.reset()

		other := common.HexToAddress("0x1000000000000000000000000000000000000006")
		require.NoError(t, c.ProposeOwner(ownerAddr, other))
		assert.Equal(t, []string{"OwnershipProposalDisplaced", "OwnershipProposed"}, rec.names())
		assert.Equal(t, other, *c.PendingOwner())

		// the displaced candidate can no longer accept
		assert.ErrorIs(t, c.AcceptOwnership(candidate), oracle.ErrNotPendingOwner)
	})
}

func TestCancelOwnershipTransfer(t *testing.T) {
	c, rec := newContract()

	t.Run("fails with no proposal pending", func(t *testing.T) {
		assert.ErrorIs(t, c.CancelOwnershipTransfer(ownerAddr), oracle.ErrNoPendingTransfer)
	})

	require.NoError(t, c.ProposeOwner(ownerAddr, candidate))
	rec.reset()

	require.NoError(t, c.CancelOwnershipTransfer(ownerAddr))
	assert.Nil(t, c.PendingOwner())
	assert.Equal(t, []string{"OwnershipTransferCancelled"}, rec.names())
	assert.ErrorIs(t, c.AcceptOwnership(candidate), oracle.ErrNotPendingOwner)

	t.Run("rejects non-owner", func(t *testing.T) {
		require.NoError(t, c.ProposeOwner(ownerAddr, candidate))
		assert.ErrorIs(t, c.CancelOwnershipTransfer(outsider), oracle.ErrNotOwner)
	})
}
