package store

import (
	"context"
	"time"

	"github.com/chainscore-labs/tier-oracle/internal/domain"
	"github.com/chainscore-labs/tier-oracle/internal/store/schema"
)

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// RegisterWallet creates a wallet row for a normalized address if one
	// does not already exist, and returns the stored row either way.
	RegisterWallet(ctx context.Context, address string, firstSeen time.Time) (*schema.Wallet, error)

	// GetWalletByAddress retrieves a wallet by its normalized address.
	// Returns domain.ErrWalletNotFound when no row exists.
	GetWalletByAddress(ctx context.Context, address string) (*schema.Wallet, error)

	// ListWallets retrieves a page of wallets ordered by id
	ListWallets(ctx context.Context, offset, limit int) ([]*schema.Wallet, error)

	// CountWallets returns the total number of wallets
	CountWallets(ctx context.Context) (int64, error)

	// RecordTransaction appends a transaction for a wallet, creating the
	// wallet on first sight and updating its last-seen time and tx count.
	// Re-recording an already-known hash is a no-op.
	RecordTransaction(ctx context.Context, address string, tx domain.TxRecord) error

	// GetTransactionsByWallet retrieves a wallet's transactions ordered
	// ascending by timestamp, the order the classifier requires.
	GetTransactionsByWallet(ctx context.Context, walletID uint64) ([]domain.TxRecord, error)

	// UpdateWalletTier persists a newly computed tier with a guard on the
	// previously read tier, so concurrent reclassifier runs cannot clobber
	// each other's writes unobserved. Returns false when the guard missed.
	UpdateWalletTier(ctx context.Context, walletID uint64, oldTier, newTier domain.Tier) (bool, error)

	// SetWalletTier persists a tier unconditionally. Used by the
	// synchronizer's write-through path where the computed value is
	// authoritative regardless of the stored one.
	SetWalletTier(ctx context.Context, walletID uint64, tier domain.Tier) error

	// RecordTierTransition appends a transition row to the audit journal
	RecordTierTransition(ctx context.Context, delta domain.TierDelta, rule string) error

	// GetValue retrieves an operational key-value entry, "" when absent
	GetValue(ctx context.Context, key string) (string, error)

	// SetValue stores an operational key-value entry
	SetValue(ctx context.Context, key, value string) error
}
