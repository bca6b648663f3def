package schema

import "time"

// Transaction represents the transactions table - an append-only record of a
// wallet's on-chain activity. Rows are immutable once recorded; the flip and
// suspicious flags are set by upstream detection at ingestion time.
type Transaction struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Hash is the unique transaction hash
	Hash string `gorm:"column:hash;not null;uniqueIndex;type:text"`
	// WalletID references the owning wallet
	WalletID uint64 `gorm:"column:wallet_id;not null;index:idx_transactions_wallet_timestamp,priority:1"`
	// Timestamp is the on-chain transaction time; classification reads rows ordered by it
	Timestamp time.Time `gorm:"column:timestamp;not null;type:timestamptz;index:idx_transactions_wallet_timestamp,priority:2"`
	// IsFlip marks a rapid buy-then-sell of the same asset
	IsFlip bool `gorm:"column:is_flip;not null;default:false"`
	// IsSuspicious marks activity flagged by upstream detection
	IsSuspicious bool `gorm:"column:is_suspicious;not null;default:false"`
	// ValueUSD is the transaction value in USD at execution time
	ValueUSD float64 `gorm:"column:value_usd;not null;default:0"`
	// Action is a free-form label for the transaction kind (swap, transfer, ...)
	Action string `gorm:"column:action;type:text"`
	// CreatedAt is when this row was ingested
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`

	// Associations
	Wallet Wallet `gorm:"foreignKey:WalletID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}
