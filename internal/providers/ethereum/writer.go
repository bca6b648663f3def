package ethereum

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/chainscore-labs/tier-oracle/internal/adapter"
	"github.com/chainscore-labs/tier-oracle/internal/domain"
	"github.com/chainscore-labs/tier-oracle/internal/logger"
)

// setTierBatchGasPerEntry is a conservative per-entry allowance on top of the
// base transaction cost. Each entry touches one storage slot plus event data.
const (
	setTierBatchBaseGas     = uint64(60000)
	setTierBatchGasPerEntry = uint64(45000)

	defaultConfirmTimeout = 5 * time.Minute
	defaultPollInterval   = 2 * time.Second
)

// Config holds transaction confirmation settings
type Config struct {
	// ConfirmTimeout bounds how long SetTierBatch waits for a receipt
	ConfirmTimeout time.Duration
	// PollInterval is the initial receipt polling interval; polling backs
	// off exponentially from here
	PollInterval time.Duration
}

// OracleWriter exposes the updater write surface of the tier oracle contract
//
//go:generate mockgen -source=writer.go -destination=../../mocks/oracle_writer.go -package=mocks -mock_names=OracleWriter=MockOracleWriter
type OracleWriter interface {
	// SetTierBatch submits a setTierBatch transaction and waits for it to be
	// mined. It returns an error if the transaction reverts.
	SetTierBatch(ctx context.Context, wallets []common.Address, tiers []domain.Tier) (common.Hash, error)

	// UpdaterAddress returns the address derived from the signing key
	UpdaterAddress() common.Address

	// Close closes the connection
	Close()
}

type oracleWriter struct {
	config       Config
	contractAddr common.Address
	client       adapter.EthClient
	key          *ecdsa.PrivateKey
	from         common.Address
}

// NewWriter creates an OracleWriter that signs with the given updater key
func NewWriter(cfg Config, contractAddr common.Address, client adapter.EthClient, key *ecdsa.PrivateKey) OracleWriter {
	if cfg.ConfirmTimeout <= 0 {
		cfg.ConfirmTimeout = defaultConfirmTimeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	return &oracleWriter{
		config:       cfg,
		contractAddr: contractAddr,
		client:       client,
		key:          key,
		from:         crypto.PubkeyToAddress(key.PublicKey),
	}
}

// SetTierBatch submits a setTierBatch transaction and waits for it to be mined
func (w *oracleWriter) SetTierBatch(ctx context.Context, wallets []common.Address, tiers []domain.Tier) (common.Hash, error) {
	if len(wallets) != len(tiers) {
		return common.Hash{}, fmt.Errorf("length mismatch: %d wallets, %d tiers", len(wallets), len(tiers))
	}
	if len(wallets) == 0 {
		return common.Hash{}, fmt.Errorf("empty batch")
	}

	data, err := packSetTierBatch(wallets, tiers)
	if err != nil {
		return common.Hash{}, err
	}

	nonce, err := w.client.PendingNonceAt(ctx, w.from)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice, err := w.client.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to get gas price: %w", err)
	}

	chainID, err := w.client.ChainID(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to get chain ID: %w", err)
	}

	gasLimit := setTierBatchBaseGas + setTierBatchGasPerEntry*uint64(len(wallets))

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gasLimit,
		To:       &w.contractAddr,
		Data:     data,
	})

	signer := types.NewEIP155Signer(chainID)
	signedTx, err := types.SignTx(tx, signer, w.key)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := w.client.SendTransaction(ctx, signedTx); err != nil {
		return common.Hash{}, fmt.Errorf("failed to send transaction: %w", err)
	}

	txHash := signedTx.Hash()
	logger.InfoCtx(ctx, "Submitted setTierBatch transaction",
		zap.String("txHash", txHash.Hex()),
		zap.Int("batchSize", len(wallets)),
		zap.Uint64("nonce", nonce))

	receipt, err := w.waitForReceipt(ctx, txHash)
	if err != nil {
		return txHash, err
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return txHash, fmt.Errorf("transaction reverted: %s", txHash.Hex())
	}

	return txHash, nil
}

// waitForReceipt polls for the transaction receipt using backoff retry
func (w *oracleWriter) waitForReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	var receipt *types.Receipt

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = w.config.PollInterval
	b.MaxInterval = 15 * time.Second
	b.MaxElapsedTime = w.config.ConfirmTimeout
	b.Multiplier = 1.5
	b.RandomizationFactor = 0.5 // Add jitter

	operation := func() error {
		r, err := w.client.TransactionReceipt(ctx, txHash)
		if err != nil {
			// Not mined yet, or a transient RPC error. Both are retryable.
			logger.DebugCtx(ctx, "Transaction not mined yet",
				zap.String("txHash", txHash.Hex()),
				zap.Error(err))
			return fmt.Errorf("receipt not available: %w", err)
		}
		receipt = r
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return nil, fmt.Errorf("timeout waiting for transaction %s: %w", txHash.Hex(), err)
	}

	return receipt, nil
}

// UpdaterAddress returns the address derived from the signing key
func (w *oracleWriter) UpdaterAddress() common.Address {
	return w.from
}

// Close closes the connection
func (w *oracleWriter) Close() {
	w.client.Close()
}

// packSetTierBatch builds the calldata for setTierBatch(address[],uint8[])
func packSetTierBatch(wallets []common.Address, tiers []domain.Tier) ([]byte, error) {
	setTierBatchABI, err := abi.JSON(strings.NewReader(`[{"constant":false,"inputs":[{"name":"wallets","type":"address[]"},{"name":"tiers","type":"uint8[]"}],"name":"setTierBatch","outputs":[],"payable":false,"stateMutability":"nonpayable","type":"function"}]`))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}

	raw := make([]uint8, len(tiers))
	for i, t := range tiers {
		raw[i] = uint8(t)
	}

	data, err := setTierBatchABI.Pack("setTierBatch", wallets, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to pack data: %w", err)
	}

	return data, nil
}
