// Package classifier computes a wallet's trust tier from its transaction
// history. Classification is a pure function of the history, the wallet's
// first-seen time and the evaluation time: no I/O, no randomness, same
// inputs always produce the same tier.
package classifier

import (
	"time"

	"github.com/chainscore-labs/tier-oracle/internal/domain"
)

// Rule identifies the classification rule that decided a wallet's tier.
type Rule string

const (
	RuleNoActivity           Rule = "no_activity"
	RuleExcessiveFlips       Rule = "excessive_flips"
	RuleSuspiciousRatio      Rule = "suspicious_ratio"
	RuleImpulsiveTrading     Rule = "impulsive_trading"
	RuleInsufficientActivity Rule = "insufficient_activity"
	RuleProgression          Rule = "progression"
)

const (
	// Exclusion thresholds. Any one of these caps the wallet at restricted.
	flipLimit          = 5
	impulsiveBurstSize = 5
	impulsiveBurstSpan = 60 * time.Minute

	// Standard tier prerequisites
	standardMinTxCount = 3
	standardMinAge     = 7 * 24 * time.Hour

	// Trusted tier prerequisites
	trustedMinTxCount = 10
	trustedMinAge     = 14 * 24 * time.Hour
	trustedWindow     = 14 * 24 * time.Hour

	// Advanced tier prerequisites
	advancedMinTxCount = 30
	advancedMinAge     = 90 * 24 * time.Hour
	advancedWindow     = 90 * 24 * time.Hour
	advancedMinWeeks   = 4

	// Consistency checks require at least this many transactions inside the
	// trailing window, spread over at least half of it.
	consistencyMinTxCount = 3
)

// Classify returns the tier for a wallet given its full transaction history
// ordered ascending by timestamp, the wallet's first-seen time, and the
// evaluation time. It never fails: every input has a defined tier.
func Classify(txs []domain.TxRecord, firstSeen, now time.Time) domain.Tier {
	tier, _ := Evaluate(txs, firstSeen, now)
	return tier
}

// Evaluate is Classify plus the rule that decided the outcome, for
// transition logging. Rules are checked in strict precedence order: absence
// of history, then exclusions, then progressive unlock.
func Evaluate(txs []domain.TxRecord, firstSeen, now time.Time) (domain.Tier, Rule) {
	if len(txs) == 0 {
		return domain.TierUnknown, RuleNoActivity
	}

	txCount := len(txs)
	accountAge := now.Sub(firstSeen)

	var flipCount, suspiciousCount int
	for _, tx := range txs {
		if tx.IsFlip {
			flipCount++
		}
		if tx.IsSuspicious {
			suspiciousCount++
		}
	}

	// Exclusions short-circuit: a wallet tripping any of these is restricted
	// this evaluation no matter how strong its progression record is.
	if flipCount >= flipLimit {
		return domain.TierRestricted, RuleExcessiveFlips
	}
	// suspicious/txCount > 0.3, kept exact via cross-multiplication
	if suspiciousCount*10 > txCount*3 {
		return domain.TierRestricted, RuleSuspiciousRatio
	}
	if hasImpulsiveBurst(txs) {
		return domain.TierRestricted, RuleImpulsiveTrading
	}

	if txCount < standardMinTxCount || accountAge < standardMinAge {
		return domain.TierUnknown, RuleInsufficientActivity
	}

	// Progressive unlock, nested so a wallet failing a higher tier's extra
	// conditions keeps the highest tier it does qualify for.
	tier := domain.TierStandard
	if txCount >= trustedMinTxCount && accountAge >= trustedMinAge &&
		consistentOver(txs, now, trustedWindow) {
		tier = domain.TierTrusted
		if txCount >= advancedMinTxCount && accountAge >= advancedMinAge &&
			consistentOver(txs, now, advancedWindow) &&
			distinctISOWeeks(txs, now, advancedWindow) >= advancedMinWeeks {
			tier = domain.TierAdvanced
		}
	}

	return tier, RuleProgression
}

// hasImpulsiveBurst reports whether any window of impulsiveBurstSize
// consecutive transactions spans less than impulsiveBurstSpan from first to
// last. Transactions must be ordered ascending by timestamp.
func hasImpulsiveBurst(txs []domain.TxRecord) bool {
	for i := 0; i+impulsiveBurstSize <= len(txs); i++ {
		span := txs[i+impulsiveBurstSize-1].Timestamp.Sub(txs[i].Timestamp)
		if span < impulsiveBurstSpan {
			return true
		}
	}
	return false
}

// consistentOver checks that activity inside the trailing window is both
// present and spread out: at least consistencyMinTxCount transactions whose
// earliest-to-latest span covers at least half the window. The window is
// anchored at the evaluation time, not the last transaction, so a dormant
// wallet's qualifying activity ages out as time passes.
func consistentOver(txs []domain.TxRecord, now time.Time, window time.Duration) bool {
	cutoff := now.Add(-window)

	var first, last time.Time
	count := 0
	for _, tx := range txs {
		if tx.Timestamp.Before(cutoff) {
			continue
		}
		if count == 0 {
			first = tx.Timestamp
		}
		last = tx.Timestamp
		count++
	}

	if count < consistencyMinTxCount {
		return false
	}

	return last.Sub(first) >= window/2
}

// distinctISOWeeks counts the distinct ISO calendar weeks covered by
// transactions inside the trailing window. This blocks concentrating all
// qualifying activity into a single session and waiting out the clock.
func distinctISOWeeks(txs []domain.TxRecord, now time.Time, window time.Duration) int {
	cutoff := now.Add(-window)

	type isoWeek struct {
		year int
		week int
	}
	weeks := make(map[isoWeek]struct{})
	for _, tx := range txs {
		if tx.Timestamp.Before(cutoff) {
			continue
		}
		year, week := tx.Timestamp.ISOWeek()
		weeks[isoWeek{year, week}] = struct{}{}
	}

	return len(weeks)
}
