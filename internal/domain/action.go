package domain

// ActionType identifies a tier-gated protocol operation. The numeric values
// mirror the on-chain action constants and must not be reordered.
type ActionType uint8

const (
	ActionBasic    ActionType = 0
	ActionTrade    ActionType = 1
	ActionLeverage ActionType = 2
	ActionGovern   ActionType = 3
	ActionWithdraw ActionType = 4
)

// minTierForAction is the authoritative permission table: the minimum tier a
// wallet must hold to perform each action. Action types absent from the
// table are denied unconditionally.
var minTierForAction = map[ActionType]Tier{
	ActionBasic:    TierStandard,
	ActionTrade:    TierStandard,
	ActionLeverage: TierTrusted,
	ActionGovern:   TierTrusted,
	ActionWithdraw: TierStandard,
}

// MinTierFor returns the minimum tier required for the given action and
// whether the action type is recognized.
func MinTierFor(action ActionType) (Tier, bool) {
	minTier, ok := minTierForAction[action]
	return minTier, ok
}

// Allowed reports whether a wallet holding the given tier may perform the
// action. Unrecognized action types always return false (fail closed).
func Allowed(tier Tier, action ActionType) bool {
	minTier, ok := minTierForAction[action]
	if !ok {
		return false
	}
	return tier >= minTier
}

// String returns the action name used in logs and event subjects
func (a ActionType) String() string {
	switch a {
	case ActionBasic:
		return "basic"
	case ActionTrade:
		return "trade"
	case ActionLeverage:
		return "leverage"
	case ActionGovern:
		return "govern"
	case ActionWithdraw:
		return "withdraw"
	default:
		return "unrecognized"
	}
}
