package ethereum

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/chainscore-labs/tier-oracle/internal/adapter"
	"github.com/chainscore-labs/tier-oracle/internal/domain"
)

// OracleReader exposes the read surface of the on-chain tier oracle contract
//
//go:generate mockgen -source=reader.go -destination=../../mocks/oracle_reader.go -package=mocks -mock_names=OracleReader=MockOracleReader
type OracleReader interface {
	// GetTier fetches the current tier recorded on chain for a wallet
	GetTier(ctx context.Context, wallet common.Address) (domain.Tier, error)

	// GetTierBatch fetches the current tiers for a list of wallets in one call
	GetTierBatch(ctx context.Context, wallets []common.Address) ([]domain.Tier, error)

	// Can asks the contract whether a wallet is permitted to perform an action
	Can(ctx context.Context, wallet common.Address, action domain.ActionType) (bool, error)

	// Close closes the connection
	Close()
}

type oracleReader struct {
	contractAddr common.Address
	client       adapter.EthClient
}

// NewReader creates an OracleReader bound to the oracle contract at contractAddr
func NewReader(contractAddr common.Address, client adapter.EthClient) OracleReader {
	return &oracleReader{contractAddr: contractAddr, client: client}
}

// GetTier fetches the current tier recorded on chain for a wallet
func (r *oracleReader) GetTier(ctx context.Context, wallet common.Address) (domain.Tier, error) {
	// getTier function signature: getTier(address) returns (uint8)
	getTierABI, err := abi.JSON(strings.NewReader(`[{"constant":true,"inputs":[{"name":"wallet","type":"address"}],"name":"getTier","outputs":[{"name":"","type":"uint8"}],"payable":false,"stateMutability":"view","type":"function"}]`))
	if err != nil {
		return 0, fmt.Errorf("failed to parse ABI: %w", err)
	}

	data, err := getTierABI.Pack("getTier", wallet)
	if err != nil {
		return 0, fmt.Errorf("failed to pack data: %w", err)
	}

	result, err := r.client.CallContract(ctx, ethereum.CallMsg{
		To:   &r.contractAddr,
		Data: data,
	}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to call contract: %w", err)
	}

	var tier uint8
	if err := getTierABI.UnpackIntoInterface(&tier, "getTier", result); err != nil {
		return 0, fmt.Errorf("failed to unpack result: %w", err)
	}

	return domain.Tier(tier), nil
}

// GetTierBatch fetches the current tiers for a list of wallets in one call
func (r *oracleReader) GetTierBatch(ctx context.Context, wallets []common.Address) ([]domain.Tier, error) {
	// getTierBatch function signature: getTierBatch(address[]) returns (uint8[])
	getTierBatchABI, err := abi.JSON(strings.NewReader(`[{"constant":true,"inputs":[{"name":"wallets","type":"address[]"}],"name":"getTierBatch","outputs":[{"name":"","type":"uint8[]"}],"payable":false,"stateMutability":"view","type":"function"}]`))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}

	data, err := getTierBatchABI.Pack("getTierBatch", wallets)
	if err != nil {
		return nil, fmt.Errorf("failed to pack data: %w", err)
	}

	result, err := r.client.CallContract(ctx, ethereum.CallMsg{
		To:   &r.contractAddr,
		Data: data,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call contract: %w", err)
	}

	var raw []uint8
	if err := getTierBatchABI.UnpackIntoInterface(&raw, "getTierBatch", result); err != nil {
		return nil, fmt.Errorf("failed to unpack result: %w", err)
	}

	if len(raw) != len(wallets) {
		return nil, fmt.Errorf("unexpected result length: expected %d, got %d", len(wallets), len(raw))
	}

	tiers := make([]domain.Tier, len(raw))
	for i, t := range raw {
		tiers[i] = domain.Tier(t)
	}

	return tiers, nil
}

// Can asks the contract whether a wallet is permitted to perform an action
func (r *oracleReader) Can(ctx context.Context, wallet common.Address, action domain.ActionType) (bool, error) {
	// can function signature: can(address,uint8) returns (bool)
	canABI, err := abi.JSON(strings.NewReader(`[{"constant":true,"inputs":[{"name":"wallet","type":"address"},{"name":"action","type":"uint8"}],"name":"can","outputs":[{"name":"","type":"bool"}],"payable":false,"stateMutability":"view","type":"function"}]`))
	if err != nil {
		return false, fmt.Errorf("failed to parse ABI: %w", err)
	}

	data, err := canABI.Pack("can", wallet, uint8(action))
	if err != nil {
		return false, fmt.Errorf("failed to pack data: %w", err)
	}

	result, err := r.client.CallContract(ctx, ethereum.CallMsg{
		To:   &r.contractAddr,
		Data: data,
	}, nil)
	if err != nil {
		return false, fmt.Errorf("failed to call contract: %w", err)
	}

	var allowed bool
	if err := canABI.UnpackIntoInterface(&allowed, "can", result); err != nil {
		return false, fmt.Errorf("failed to unpack result: %w", err)
	}

	return allowed, nil
}

// Close closes the connection
func (r *oracleReader) Close() {
	r.client.Close()
}
