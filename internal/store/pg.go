package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/chainscore-labs/tier-oracle/internal/domain"
	"github.com/chainscore-labs/tier-oracle/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// Migrate creates or updates the tier engine tables
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&schema.Wallet{},
		&schema.Transaction{},
		&schema.TierTransition{},
		&schema.KeyValueStore{},
	)
}

// ConfigureConnectionPool configures the connection pool settings for a GORM
// database connection. It accesses the underlying *sql.DB and sets the pool
// configuration. Zero values fall back to the defaults documented on
// NormalizeConnectionPoolSettings.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings
// into safe values.
//
// Defaults (when zero):
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
//
// Notes:
//   - database/sql treats MaxOpenConns=0 as "unlimited"
//   - database/sql treats MaxIdleConns=0 as "no idle connections"
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	// Ensure MaxIdleConns doesn't exceed MaxOpenConns
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// RegisterWallet creates a wallet row if one does not already exist
func (s *pgStore) RegisterWallet(ctx context.Context, address string, firstSeen time.Time) (*schema.Wallet, error) {
	normalized, err := domain.NormalizeAddress(address)
	if err != nil {
		return nil, err
	}

	wallet := schema.Wallet{
		Address:   normalized,
		Tier:      domain.TierUnknown,
		FirstSeen: firstSeen,
		LastSeen:  firstSeen,
	}

	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "address"}},
			DoNothing: true,
		}).
		Create(&wallet).Error
	if err != nil {
		return nil, fmt.Errorf("failed to register wallet: %w", err)
	}

	// Re-read so callers get the stored row whether or not the insert won
	return s.GetWalletByAddress(ctx, normalized)
}

// GetWalletByAddress retrieves a wallet by its normalized address
func (s *pgStore) GetWalletByAddress(ctx context.Context, address string) (*schema.Wallet, error) {
	normalized, err := domain.NormalizeAddress(address)
	if err != nil {
		return nil, err
	}

	var wallet schema.Wallet
	err = s.db.WithContext(ctx).Where("address = ?", normalized).First(&wallet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	return &wallet, nil
}

// ListWallets retrieves a page of wallets ordered by id
func (s *pgStore) ListWallets(ctx context.Context, offset, limit int) ([]*schema.Wallet, error) {
	var wallets []*schema.Wallet
	err := s.db.WithContext(ctx).
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&wallets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}

	return wallets, nil
}

// CountWallets returns the total number of wallets
func (s *pgStore) CountWallets(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&schema.Wallet{}).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count wallets: %w", err)
	}

	return count, nil
}

// RecordTransaction appends a transaction and maintains the owning wallet's
// first-seen/last-seen times and transaction count in the same database
// transaction.
func (s *pgStore) RecordTransaction(ctx context.Context, address string, tx domain.TxRecord) error {
	normalized, err := domain.NormalizeAddress(address)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		wallet := schema.Wallet{
			Address:   normalized,
			Tier:      domain.TierUnknown,
			FirstSeen: tx.Timestamp,
			LastSeen:  tx.Timestamp,
		}
		if err := db.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "address"}},
				DoNothing: true,
			}).
			Create(&wallet).Error; err != nil {
			return fmt.Errorf("failed to upsert wallet: %w", err)
		}
		if err := db.Where("address = ?", normalized).First(&wallet).Error; err != nil {
			return fmt.Errorf("failed to load wallet: %w", err)
		}

		row := schema.Transaction{
			Hash:         tx.Hash,
			WalletID:     wallet.ID,
			Timestamp:    tx.Timestamp,
			IsFlip:       tx.IsFlip,
			IsSuspicious: tx.IsSuspicious,
			ValueUSD:     tx.ValueUSD,
			Action:       tx.Action,
		}
		result := db.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "hash"}},
				DoNothing: true,
			}).
			Create(&row)
		if result.Error != nil {
			return fmt.Errorf("failed to record transaction: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			// Already recorded; transactions are immutable once stored
			return nil
		}

		updates := map[string]interface{}{
			"tx_count": gorm.Expr("tx_count + 1"),
		}
		if err := db.Model(&schema.Wallet{}).
			Where("id = ?", wallet.ID).
			Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to bump tx count: %w", err)
		}
		if err := db.Model(&schema.Wallet{}).
			Where("id = ? AND last_seen < ?", wallet.ID, tx.Timestamp).
			Update("last_seen", tx.Timestamp).Error; err != nil {
			return fmt.Errorf("failed to update last seen: %w", err)
		}
		if err := db.Model(&schema.Wallet{}).
			Where("id = ? AND first_seen > ?", wallet.ID, tx.Timestamp).
			Update("first_seen", tx.Timestamp).Error; err != nil {
			return fmt.Errorf("failed to update first seen: %w", err)
		}

		return nil
	})
}

// GetTransactionsByWallet retrieves a wallet's transactions ordered
// ascending by timestamp
func (s *pgStore) GetTransactionsByWallet(ctx context.Context, walletID uint64) ([]domain.TxRecord, error) {
	var rows []schema.Transaction
	err := s.db.WithContext(ctx).
		Where("wallet_id = ?", walletID).
		Order("timestamp ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}

	records := make([]domain.TxRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.TxRecord{
			Hash:         row.Hash,
			Timestamp:    row.Timestamp,
			IsFlip:       row.IsFlip,
			IsSuspicious: row.IsSuspicious,
			ValueUSD:     row.ValueUSD,
			Action:       row.Action,
		})
	}

	return records, nil
}

// UpdateWalletTier persists a tier change guarded on the previously read
// value. A missed guard means another run got there first; the caller skips
// rather than overwrites, since recomputation is deterministic anyway.
func (s *pgStore) UpdateWalletTier(ctx context.Context, walletID uint64, oldTier, newTier domain.Tier) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&schema.Wallet{}).
		Where("id = ? AND tier = ?", walletID, oldTier).
		Update("tier", newTier)
	if result.Error != nil {
		return false, fmt.Errorf("failed to update wallet tier: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// SetWalletTier persists a tier unconditionally
func (s *pgStore) SetWalletTier(ctx context.Context, walletID uint64, tier domain.Tier) error {
	err := s.db.WithContext(ctx).
		Model(&schema.Wallet{}).
		Where("id = ?", walletID).
		Update("tier", tier).Error
	if err != nil {
		return fmt.Errorf("failed to set wallet tier: %w", err)
	}

	return nil
}

// RecordTierTransition appends a transition row to the audit journal
func (s *pgStore) RecordTierTransition(ctx context.Context, delta domain.TierDelta, rule string) error {
	meta, err := json.Marshal(map[string]string{"rule": rule})
	if err != nil {
		return fmt.Errorf("failed to marshal transition meta: %w", err)
	}

	row := schema.TierTransition{
		WalletAddress: delta.Address,
		OldTier:       delta.OldTier,
		NewTier:       delta.NewTier,
		RunID:         delta.RunID,
		ChangedAt:     delta.ChangedAt,
		Meta:          meta,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to record tier transition: %w", err)
	}

	return nil
}

// GetValue retrieves an operational key-value entry, "" when absent
func (s *pgStore) GetValue(ctx context.Context, key string) (string, error) {
	var kv schema.KeyValueStore
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&kv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get value: %w", err)
	}

	return kv.Value, nil
}

// SetValue stores an operational key-value entry
func (s *pgStore) SetValue(ctx context.Context, key, value string) error {
	kv := schema.KeyValueStore{
		Key:   key,
		Value: value,
	}

	err := s.db.WithContext(ctx).Save(&kv).Error
	if err != nil {
		return fmt.Errorf("failed to set value: %w", err)
	}

	return nil
}
