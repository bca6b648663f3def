package schema

import (
	"time"

	"github.com/chainscore-labs/tier-oracle/internal/domain"
)

// Wallet represents the wallets table - one row per observed wallet address.
// The tier column caches the classifier's latest output; it is never mutated
// except with a fresh classification result and is always recomputable from
// the wallet's transaction set.
type Wallet struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Address is the normalized (lower-case) wallet address, unique
	Address string `gorm:"column:address;not null;uniqueIndex;type:text"`
	// Tier is the cached classification result (0-4)
	Tier domain.Tier `gorm:"column:tier;not null;default:0"`
	// FirstSeen is the timestamp of the wallet's first observed transaction
	FirstSeen time.Time `gorm:"column:first_seen;not null;type:timestamptz"`
	// LastSeen is the timestamp of the most recent observed transaction
	LastSeen time.Time `gorm:"column:last_seen;not null;type:timestamptz"`
	// TxCount is the number of recorded transactions
	TxCount int64 `gorm:"column:tx_count;not null;default:0"`
	// CreatedAt is when this row was created
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	// UpdatedAt is when this row was last written
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	// Associations
	Transactions []Transaction `gorm:"foreignKey:WalletID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Wallet model
func (Wallet) TableName() string {
	return "wallets"
}
