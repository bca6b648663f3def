package domain

import "fmt"

// Tier represents the discrete trust level assigned to a wallet address.
// Tiers are strictly ordered; a higher tier implies strictly more
// permissions. Unmapped wallets are always TierUnknown.
type Tier uint8

const (
	// TierUnknown is the default tier for wallets with no or insufficient history
	TierUnknown Tier = 0
	// TierRestricted marks wallets excluded by risk rules (flips, suspicious activity, bursts)
	TierRestricted Tier = 1
	// TierStandard is the entry trust level for wallets with a minimal track record
	TierStandard Tier = 2
	// TierTrusted requires sustained, consistent activity over two weeks
	TierTrusted Tier = 3
	// TierAdvanced requires long-lived, non-bursty activity over three months
	TierAdvanced Tier = 4

	// MaxTier is the highest assignable tier
	MaxTier = TierAdvanced
)

// Valid reports whether the tier is within the assignable range
func (t Tier) Valid() bool {
	return t <= MaxTier
}

// String returns the human-readable tier name
func (t Tier) String() string {
	switch t {
	case TierUnknown:
		return "unknown"
	case TierRestricted:
		return "restricted"
	case TierStandard:
		return "standard"
	case TierTrusted:
		return "trusted"
	case TierAdvanced:
		return "advanced"
	default:
		return fmt.Sprintf("tier(%d)", uint8(t))
	}
}
