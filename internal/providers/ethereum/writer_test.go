package ethereum_test

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainscore-labs/tier-oracle/internal/domain"
	"github.com/chainscore-labs/tier-oracle/internal/mocks"
	"github.com/chainscore-labs/tier-oracle/internal/providers/ethereum"
)

// testUpdaterKey is a throwaway key used only for signing in tests
const testUpdaterKey = "fad9c8855b740a0b7ed4c221dbad0f33a83a49cad6b3fe8d5817ac83d38b6a19"

func testWriter(t *testing.T, client *mocks.MockEthClient, cfg ethereum.Config) ethereum.OracleWriter {
	key, err := crypto.HexToECDSA(testUpdaterKey)
	require.NoError(t, err)

	return ethereum.NewWriter(cfg, testContractAddr, client, key)
}

func TestSetTierBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockEthClient(ctrl)
	writer := testWriter(t, client, ethereum.Config{})

	chainID := big.NewInt(1337)
	var sentHash common.Hash

	client.EXPECT().PendingNonceAt(gomock.Any(), writer.UpdaterAddress()).Return(uint64(7), nil)
	client.EXPECT().SuggestGasPrice(gomock.Any()).Return(big.NewInt(2_000_000_000), nil)
	client.EXPECT().ChainID(gomock.Any()).Return(chainID, nil)
	client.EXPECT().
		SendTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *types.Transaction) error {
			assert.Equal(t, uint64(7), tx.Nonce())
			require.NotNil(t, tx.To())
			assert.Equal(t, testContractAddr, *tx.To())

			// The signature must recover to the updater address
			sender, err := types.Sender(types.NewEIP155Signer(chainID), tx)
			require.NoError(t, err)
			assert.Equal(t, writer.UpdaterAddress(), sender)

			sentHash = tx.Hash()
			return nil
		})
	client.EXPECT().
		TransactionReceipt(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, txHash common.Hash) (*types.Receipt, error) {
			assert.Equal(t, sentHash, txHash)
			return &types.Receipt{Status: types.ReceiptStatusSuccessful}, nil
		})

	txHash, err := writer.SetTierBatch(context.Background(),
		[]common.Address{testWalletAddr},
		[]domain.Tier{domain.TierStandard})
	require.NoError(t, err)
	assert.Equal(t, sentHash, txHash)
}

func TestSetTierBatch_Reverted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockEthClient(ctrl)
	writer := testWriter(t, client, ethereum.Config{})

	client.EXPECT().PendingNonceAt(gomock.Any(), gomock.Any()).Return(uint64(0), nil)
	client.EXPECT().SuggestGasPrice(gomock.Any()).Return(big.NewInt(1_000_000_000), nil)
	client.EXPECT().ChainID(gomock.Any()).Return(big.NewInt(1337), nil)
	client.EXPECT().SendTransaction(gomock.Any(), gomock.Any()).Return(nil)
	client.EXPECT().
		TransactionReceipt(gomock.Any(), gomock.Any()).
		Return(&types.Receipt{Status: types.ReceiptStatusFailed}, nil)

	txHash, err := writer.SetTierBatch(context.Background(),
		[]common.Address{testWalletAddr},
		[]domain.Tier{domain.TierStandard})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transaction reverted")
	assert.NotEqual(t, common.Hash{}, txHash)
}

func TestSetTierBatch_ReceiptTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockEthClient(ctrl)
	writer := testWriter(t, client, ethereum.Config{
		ConfirmTimeout: 50 * time.Millisecond,
		PollInterval:   10 * time.Millisecond,
	})

	client.EXPECT().PendingNonceAt(gomock.Any(), gomock.Any()).Return(uint64(0), nil)
	client.EXPECT().SuggestGasPrice(gomock.Any()).Return(big.NewInt(1_000_000_000), nil)
	client.EXPECT().ChainID(gomock.Any()).Return(big.NewInt(1337), nil)
	client.EXPECT().SendTransaction(gomock.Any(), gomock.Any()).Return(nil)
	client.EXPECT().
		TransactionReceipt(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("not found")).
		AnyTimes()

	_, err := writer.SetTierBatch(context.Background(),
		[]common.Address{testWalletAddr},
		[]domain.Tier{domain.TierStandard})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout waiting for transaction")
}

func TestSetTierBatch_LengthMismatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockEthClient(ctrl)
	writer := testWriter(t, client, ethereum.Config{})

	_, err := writer.SetTierBatch(context.Background(),
		[]common.Address{testWalletAddr},
		[]domain.Tier{domain.TierStandard, domain.TierTrusted})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "length mismatch")
}

func TestSetTierBatch_EmptyBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockEthClient(ctrl)
	writer := testWriter(t, client, ethereum.Config{})

	_, err := writer.SetTierBatch(context.Background(), nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty batch")
}
