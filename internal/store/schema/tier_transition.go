package schema

import (
	"time"

	"gorm.io/datatypes"

	"github.com/chainscore-labs/tier-oracle/internal/domain"
)

// TierTransition represents the tier_transitions table - an append-only
// audit journal of every tier change the reclassifier persisted. Unchanged
// recomputations never produce a row.
type TierTransition struct {
	// ID is an auto-incrementing sequence number for ordering and pagination
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// WalletAddress is the normalized address of the reclassified wallet
	WalletAddress string `gorm:"column:wallet_address;not null;type:text;index"`
	// OldTier is the tier before this transition
	OldTier domain.Tier `gorm:"column:old_tier;not null"`
	// NewTier is the tier after this transition
	NewTier domain.Tier `gorm:"column:new_tier;not null"`
	// RunID identifies the reclassification run that produced the change
	RunID string `gorm:"column:run_id;not null;type:text;index"`
	// ChangedAt is when the transition was persisted
	ChangedAt time.Time `gorm:"column:changed_at;not null;default:now();type:timestamptz"`
	// Meta carries extra context as JSON, such as the classifier rule that fired
	Meta datatypes.JSON `gorm:"column:meta;type:jsonb"`
}

// TableName specifies the table name for the TierTransition model
func (TierTransition) TableName() string {
	return "tier_transitions"
}
