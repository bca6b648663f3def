package syncer_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainscore-labs/tier-oracle/internal/domain"
	"github.com/chainscore-labs/tier-oracle/internal/logger"
	"github.com/chainscore-labs/tier-oracle/internal/mocks"
	"github.com/chainscore-labs/tier-oracle/internal/store/schema"
	"github.com/chainscore-labs/tier-oracle/internal/syncer"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

const (
	addrA = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	addrB = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

// steadyHistory classifies to the standard tier at testNow
func steadyHistory() []domain.TxRecord {
	return []domain.TxRecord{
		{Hash: "0xs1", Timestamp: testNow.Add(-10 * 24 * time.Hour)},
		{Hash: "0xs2", Timestamp: testNow.Add(-5 * 24 * time.Hour)},
		{Hash: "0xs3", Timestamp: testNow.Add(-2 * 24 * time.Hour)},
	}
}

func testWallet(id uint64, address string, tier domain.Tier) *schema.Wallet {
	return &schema.Wallet{
		ID:        id,
		Address:   address,
		Tier:      tier,
		FirstSeen: testNow.Add(-10 * 24 * time.Hour),
		LastSeen:  testNow.Add(-2 * 24 * time.Hour),
		TxCount:   3,
	}
}

type testSyncerMocks struct {
	ctrl   *gomock.Controller
	store  *mocks.MockStore
	writer *mocks.MockOracleWriter
	reader *mocks.MockOracleReader
	clock  *mocks.MockClock
}

func setupTestSyncer(t *testing.T) *testSyncerMocks {
	ctrl := gomock.NewController(t)

	tm := &testSyncerMocks{
		ctrl:   ctrl,
		store:  mocks.NewMockStore(ctrl),
		writer: mocks.NewMockOracleWriter(ctrl),
		reader: mocks.NewMockOracleReader(ctrl),
		clock:  mocks.NewMockClock(ctrl),
	}

	tm.clock.EXPECT().Now().Return(testNow).MinTimes(1)
	tm.clock.EXPECT().Since(gomock.Any()).Return(time.Second).AnyTimes()

	return tm
}

func tearDownTestSyncer(tm *testSyncerMocks) {
	tm.ctrl.Finish()
}

func TestSync_WriteThroughThenPush(t *testing.T) {
	tm := setupTestSyncer(t)
	defer tearDownTestSyncer(tm)

	s := syncer.New(syncer.Config{BatchSize: 50, PageSize: 10}, tm.store, tm.writer, tm.clock)

	// Wallet A is stale in the store, wallet B already carries its tier
	walletA := testWallet(1, addrA, domain.TierUnknown)
	walletB := testWallet(2, addrB, domain.TierStandard)

	tm.store.EXPECT().ListWallets(gomock.Any(), 0, 10).Return([]*schema.Wallet{walletA, walletB}, nil)
	tm.store.EXPECT().ListWallets(gomock.Any(), 10, 10).Return(nil, nil)
	tm.store.EXPECT().GetTransactionsByWallet(gomock.Any(), uint64(1)).Return(steadyHistory(), nil)
	tm.store.EXPECT().GetTransactionsByWallet(gomock.Any(), uint64(2)).Return(steadyHistory(), nil)
	// Only the stale wallet gets a write-through persist
	tm.store.EXPECT().SetWalletTier(gomock.Any(), uint64(1), domain.TierStandard).Return(nil)
	tm.store.EXPECT().SetValue(gomock.Any(), "last_sync_run", gomock.Any()).Return(nil)

	tm.writer.EXPECT().
		SetTierBatch(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, wallets []common.Address, tiers []domain.Tier) (common.Hash, error) {
			require.Len(t, wallets, 2)
			assert.Equal(t, common.HexToAddress(addrA), wallets[0])
			assert.Equal(t, common.HexToAddress(addrB), wallets[1])
			assert.Equal(t, []domain.Tier{domain.TierStandard, domain.TierStandard}, tiers)
			return common.HexToHash("0x01"), nil
		})

	report, err := s.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Wallets)
	assert.Equal(t, 1, report.Batches)
	assert.Len(t, report.TxHashes, 1)
}

func TestSync_PartitionsIntoBatches(t *testing.T) {
	tm := setupTestSyncer(t)
	defer tearDownTestSyncer(tm)

	s := syncer.New(syncer.Config{BatchSize: 1, PageSize: 10}, tm.store, tm.writer, tm.clock)

	walletA := testWallet(1, addrA, domain.TierStandard)
	walletB := testWallet(2, addrB, domain.TierStandard)

	tm.store.EXPECT().ListWallets(gomock.Any(), 0, 10).Return([]*schema.Wallet{walletA, walletB}, nil)
	tm.store.EXPECT().ListWallets(gomock.Any(), 10, 10).Return(nil, nil)
	tm.store.EXPECT().GetTransactionsByWallet(gomock.Any(), uint64(1)).Return(steadyHistory(), nil)
	tm.store.EXPECT().GetTransactionsByWallet(gomock.Any(), uint64(2)).Return(steadyHistory(), nil)
	tm.store.EXPECT().SetValue(gomock.Any(), "last_sync_run", gomock.Any()).Return(nil)

	first := tm.writer.EXPECT().
		SetTierBatch(gomock.Any(), []common.Address{common.HexToAddress(addrA)}, []domain.Tier{domain.TierStandard}).
		Return(common.HexToHash("0x01"), nil)
	tm.writer.EXPECT().
		SetTierBatch(gomock.Any(), []common.Address{common.HexToAddress(addrB)}, []domain.Tier{domain.TierStandard}).
		Return(common.HexToHash("0x02"), nil).
		After(first)

	report, err := s.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Batches)
	assert.Equal(t, []string{
		common.HexToHash("0x01").Hex(),
		common.HexToHash("0x02").Hex(),
	}, report.TxHashes)
}

func TestSync_HaltsOnFirstFailedBatch(t *testing.T) {
	tm := setupTestSyncer(t)
	defer tearDownTestSyncer(tm)

	s := syncer.New(syncer.Config{BatchSize: 1, PageSize: 10}, tm.store, tm.writer, tm.clock)

	walletA := testWallet(1, addrA, domain.TierStandard)
	walletB := testWallet(2, addrB, domain.TierStandard)

	tm.store.EXPECT().ListWallets(gomock.Any(), 0, 10).Return([]*schema.Wallet{walletA, walletB}, nil)
	tm.store.EXPECT().ListWallets(gomock.Any(), 10, 10).Return(nil, nil)
	tm.store.EXPECT().GetTransactionsByWallet(gomock.Any(), uint64(1)).Return(steadyHistory(), nil)
	tm.store.EXPECT().GetTransactionsByWallet(gomock.Any(), uint64(2)).Return(steadyHistory(), nil)

	// First batch fails; the second must never be submitted
	tm.writer.EXPECT().
		SetTierBatch(gomock.Any(), []common.Address{common.HexToAddress(addrA)}, gomock.Any()).
		Return(common.Hash{}, errors.New("transaction reverted"))

	report, err := s.Sync(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "halted at batch 1")
	assert.Equal(t, 0, report.Batches)
}

func TestSync_SkipsMalformedAddresses(t *testing.T) {
	tm := setupTestSyncer(t)
	defer tearDownTestSyncer(tm)

	s := syncer.New(syncer.Config{BatchSize: 50, PageSize: 10}, tm.store, tm.writer, tm.clock)

	good := testWallet(1, addrA, domain.TierStandard)
	junk := testWallet(2, "not-an-address", domain.TierStandard)

	tm.store.EXPECT().ListWallets(gomock.Any(), 0, 10).Return([]*schema.Wallet{good, junk}, nil)
	tm.store.EXPECT().ListWallets(gomock.Any(), 10, 10).Return(nil, nil)
	tm.store.EXPECT().GetTransactionsByWallet(gomock.Any(), uint64(1)).Return(steadyHistory(), nil)
	tm.store.EXPECT().SetValue(gomock.Any(), "last_sync_run", gomock.Any()).Return(nil)

	tm.writer.EXPECT().
		SetTierBatch(gomock.Any(), []common.Address{common.HexToAddress(addrA)}, gomock.Any()).
		Return(common.HexToHash("0x01"), nil)

	report, err := s.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Wallets)
}

func TestSync_BatchSizeCappedAtContractCeiling(t *testing.T) {
	tm := setupTestSyncer(t)
	defer tearDownTestSyncer(tm)

	// Requesting an oversized batch must not produce writes the contract
	// would reject
	s := syncer.New(syncer.Config{BatchSize: 10000, PageSize: 10}, tm.store, tm.writer, tm.clock)

	tm.store.EXPECT().ListWallets(gomock.Any(), 0, 10).Return(nil, nil)
	tm.store.EXPECT().SetValue(gomock.Any(), "last_sync_run", gomock.Any()).Return(nil)

	report, err := s.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Wallets)
}

func TestVerify_ReportsMismatches(t *testing.T) {
	tm := setupTestSyncer(t)
	defer tearDownTestSyncer(tm)

	v := syncer.NewVerifier(syncer.Config{BatchSize: 50, PageSize: 10}, tm.store, tm.reader, tm.clock)

	walletA := testWallet(1, addrA, domain.TierStandard)
	walletB := testWallet(2, addrB, domain.TierTrusted)

	tm.store.EXPECT().ListWallets(gomock.Any(), 0, 10).Return([]*schema.Wallet{walletA, walletB}, nil)
	tm.store.EXPECT().ListWallets(gomock.Any(), 10, 10).Return(nil, nil)

	// Chain agrees on A, disagrees on B
	tm.reader.EXPECT().
		GetTierBatch(gomock.Any(), []common.Address{common.HexToAddress(addrA), common.HexToAddress(addrB)}).
		Return([]domain.Tier{domain.TierStandard, domain.TierStandard}, nil)

	// One representative per chain tier; all wallets read back as standard
	for _, action := range []domain.ActionType{
		domain.ActionBasic,
		domain.ActionTrade,
		domain.ActionLeverage,
		domain.ActionGovern,
		domain.ActionWithdraw,
	} {
		tm.reader.EXPECT().
			Can(gomock.Any(), common.HexToAddress(addrA), action).
			Return(domain.Allowed(domain.TierStandard, action), nil)
	}

	report, err := v.Verify(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Checked)
	assert.Equal(t, 1, report.Matched)
	require.Len(t, report.Mismatches, 1)
	assert.Equal(t, addrB, report.Mismatches[0].Address)
	assert.Equal(t, domain.TierTrusted, report.Mismatches[0].StoredTier)
	assert.Equal(t, domain.TierStandard, report.Mismatches[0].ChainTier)
	assert.Equal(t, 0, report.FailedProbe)
	assert.Len(t, report.Probes, 5)
}

func TestVerify_FlagsPermissionDisagreement(t *testing.T) {
	tm := setupTestSyncer(t)
	defer tearDownTestSyncer(tm)

	v := syncer.NewVerifier(syncer.Config{BatchSize: 50, PageSize: 10}, tm.store, tm.reader, tm.clock)

	wallet := testWallet(1, addrA, domain.TierStandard)

	tm.store.EXPECT().ListWallets(gomock.Any(), 0, 10).Return([]*schema.Wallet{wallet}, nil)
	tm.store.EXPECT().ListWallets(gomock.Any(), 10, 10).Return(nil, nil)
	tm.reader.EXPECT().
		GetTierBatch(gomock.Any(), gomock.Any()).
		Return([]domain.Tier{domain.TierStandard}, nil)

	// A standard-tier wallet must not be granted leverage; the contract
	// disagreeing is a failed probe
	tm.reader.EXPECT().Can(gomock.Any(), common.HexToAddress(addrA), domain.ActionBasic).Return(true, nil)
	tm.reader.EXPECT().Can(gomock.Any(), common.HexToAddress(addrA), domain.ActionTrade).Return(true, nil)
	tm.reader.EXPECT().Can(gomock.Any(), common.HexToAddress(addrA), domain.ActionLeverage).Return(true, nil)
	tm.reader.EXPECT().Can(gomock.Any(), common.HexToAddress(addrA), domain.ActionGovern).Return(false, nil)
	tm.reader.EXPECT().Can(gomock.Any(), common.HexToAddress(addrA), domain.ActionWithdraw).Return(true, nil)

	report, err := v.Verify(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.FailedProbe)
}

func TestVerify_ChainReadErrorAborts(t *testing.T) {
	tm := setupTestSyncer(t)
	defer tearDownTestSyncer(tm)

	v := syncer.NewVerifier(syncer.Config{BatchSize: 50, PageSize: 10}, tm.store, tm.reader, tm.clock)

	wallet := testWallet(1, addrA, domain.TierStandard)

	tm.store.EXPECT().ListWallets(gomock.Any(), 0, 10).Return([]*schema.Wallet{wallet}, nil)
	tm.reader.EXPECT().
		GetTierBatch(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("rpc timeout"))

	_, err := v.Verify(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read tiers from chain")
}
