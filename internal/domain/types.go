package domain

import (
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// TxRecord is the classifier's read-only view of a single recorded
// transaction. Records are immutable once ingested; the classifier requires
// them ordered ascending by timestamp.
type TxRecord struct {
	Hash         string    `json:"hash"`
	Timestamp    time.Time `json:"timestamp"`
	IsFlip       bool      `json:"is_flip"`
	IsSuspicious bool      `json:"is_suspicious"`
	ValueUSD     float64   `json:"value_usd"`
	Action       string    `json:"action"`
}

// WalletTier pairs a normalized wallet address with its computed tier. This
// is the unit the chain synchronizer pushes on-chain.
type WalletTier struct {
	Address string `json:"address"`
	Tier    Tier   `json:"tier"`
}

// TierDelta records a tier transition for a single wallet. Deltas are only
// emitted when the newly computed tier differs from the stored one.
type TierDelta struct {
	Address   string    `json:"address"`
	OldTier   Tier      `json:"old_tier"`
	NewTier   Tier      `json:"new_tier"`
	RunID     string    `json:"run_id"`
	ChangedAt time.Time `json:"changed_at"`
}

// NormalizeAddress lower-cases and validates a hex wallet address. All
// addresses are stored and compared in this normalized form.
func NormalizeAddress(address string) (string, error) {
	trimmed := strings.TrimSpace(address)
	if !common.IsHexAddress(trimmed) {
		return "", ErrInvalidAddress
	}
	return strings.ToLower(trimmed), nil
}
