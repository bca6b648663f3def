// Package oracle implements the tier oracle's on-chain state machine: the
// wallet→tier mapping, the owner/updater role model with two-step ownership
// handover, and the fixed permission table behind can(). The same semantics
// the deployed contract enforces are expressed here so the synchronizer and
// the test suite can run against an in-process instance.
package oracle

import (
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/chainscore-labs/tier-oracle/internal/domain"
)

// MaxBatchSize is the hard ceiling on entries in a single SetTierBatch call.
const MaxBatchSize = 200

var (
	// ErrNotOwner is returned when an owner-only call comes from another address
	ErrNotOwner = errors.New("caller is not the owner")

	// ErrNotUpdater is returned when a tier mutation comes from a non-updater address
	ErrNotUpdater = errors.New("caller is not the updater")

	// ErrNotPendingOwner is returned when AcceptOwnership comes from anyone but the candidate
	ErrNotPendingOwner = errors.New("caller is not the pending owner")

	// ErrZeroWallet is returned when a tier operation targets the zero address
	ErrZeroWallet = errors.New("wallet is the zero address")

	// ErrZeroCandidate is returned when proposing the zero address as owner
	ErrZeroCandidate = errors.New("candidate is the zero address")

	// ErrTierOutOfRange is returned for tier values above MaxTier
	ErrTierOutOfRange = errors.New("tier out of range")

	// ErrTierUnchanged is returned by SetTier when the new tier equals the
	// stored one. No-op single writes are rejected so callers notice logic
	// bugs instead of burning gas on silent successes.
	ErrTierUnchanged = errors.New("tier unchanged")

	// ErrTierAlreadyZero is returned by DeleteTier when the wallet already
	// reads as zero. Deletion only transitions a real non-zero value back.
	ErrTierAlreadyZero = errors.New("tier already zero")

	// ErrLengthMismatch is returned when batch wallet and tier slices differ in length
	ErrLengthMismatch = errors.New("wallets and tiers length mismatch")

	// ErrBatchTooLarge is returned when a batch exceeds MaxBatchSize entries
	ErrBatchTooLarge = errors.New("batch exceeds maximum size")

	// ErrNoPendingTransfer is returned by CancelOwnershipTransfer with no proposal in flight
	ErrNoPendingTransfer = errors.New("no pending ownership transfer")
)

// Event is a contract log entry. Every state mutation emits one.
type Event interface {
	Name() string
}

// TierSet is emitted when a wallet's tier changes
type TierSet struct {
	Wallet  common.Address
	OldTier domain.Tier
	NewTier domain.Tier
}

func (TierSet) Name() string { return "TierSet" }

// TierDeleted is emitted when a wallet's tier is reset to zero
type TierDeleted struct {
	Wallet  common.Address
	OldTier domain.Tier
}

func (TierDeleted) Name() string { return "TierDeleted" }

// UpdaterChanged is emitted when the owner rotates the updater role
type UpdaterChanged struct {
	OldUpdater common.Address
	NewUpdater common.Address
}

func (UpdaterChanged) Name() string { return "UpdaterChanged" }

// OwnershipProposed is emitted when the owner nominates a new owner candidate
type OwnershipProposed struct {
	Owner     common.Address
	Candidate common.Address
}

func (OwnershipProposed) Name() string { return "OwnershipProposed" }

// OwnershipProposalDisplaced is emitted when a new proposal overwrites a
// pending one, keeping the overwrite observable for audit trails.
type OwnershipProposalDisplaced struct {
	OldCandidate common.Address
	NewCandidate common.Address
}

func (OwnershipProposalDisplaced) Name() string { return "OwnershipProposalDisplaced" }

// OwnershipAccepted is emitted when the candidate completes the handover
type OwnershipAccepted struct {
	OldOwner common.Address
	NewOwner common.Address
}

func (OwnershipAccepted) Name() string { return "OwnershipAccepted" }

// OwnershipTransferCancelled is emitted when the owner withdraws a proposal
type OwnershipTransferCancelled struct {
	Owner     common.Address
	Candidate common.Address
}

func (OwnershipTransferCancelled) Name() string { return "OwnershipTransferCancelled" }

// EventSink receives contract events. A nil sink drops them.
type EventSink func(Event)

// Contract holds the oracle state. Unmapped wallets implicitly read as tier
// zero; the map never stores zero values, so "deleted" and "never set" are
// indistinguishable except through ErrTierAlreadyZero.
type Contract struct {
	mu           sync.Mutex
	tiers        map[common.Address]domain.Tier
	owner        common.Address
	updater      common.Address
	pendingOwner *common.Address
	sink         EventSink
}

// New deploys a contract instance. The deployer becomes the owner.
func New(deployer, updater common.Address, sink EventSink) *Contract {
	return &Contract{
		tiers:   make(map[common.Address]domain.Tier),
		owner:   deployer,
		updater: updater,
		sink:    sink,
	}
}

func (c *Contract) emit(e Event) {
	if c.sink != nil {
		c.sink(e)
	}
}

// GetTier returns the wallet's tier, zero for unmapped wallets.
func (c *Contract) GetTier(wallet common.Address) domain.Tier {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tiers[wallet]
}

// GetTierBatch returns tiers positionally for the given wallets. Pure
// lookup: no validation, zero for unknown entries.
func (c *Contract) GetTierBatch(wallets []common.Address) []domain.Tier {
	c.mu.Lock()
	defer c.mu.Unlock()

	tiers := make([]domain.Tier, len(wallets))
	for i, wallet := range wallets {
		tiers[i] = c.tiers[wallet]
	}
	return tiers
}

// Can reports whether the wallet may perform the action, per the fixed
// minimum-tier table. Unrecognized action types are always denied.
func (c *Contract) Can(wallet common.Address, action domain.ActionType) bool {
	c.mu.Lock()
	tier := c.tiers[wallet]
	c.mu.Unlock()

	return domain.Allowed(tier, action)
}

// SetTier writes a single wallet's tier. Updater-only. Rejects the zero
// address, out-of-range tiers, and writes that would not change the stored
// value.
func (c *Contract) SetTier(caller, wallet common.Address, tier domain.Tier) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if caller != c.updater {
		return ErrNotUpdater
	}
	if wallet == (common.Address{}) {
		return ErrZeroWallet
	}
	if !tier.Valid() {
		return ErrTierOutOfRange
	}

	old := c.tiers[wallet]
	if old == tier {
		return ErrTierUnchanged
	}

	c.setTier(wallet, tier)
	c.emit(TierSet{Wallet: wallet, OldTier: old, NewTier: tier})
	return nil
}

// SetTierBatch writes tiers for up to MaxBatchSize wallets. Every entry is
// validated before any write, so a failed batch has no partial effect.
// Unlike SetTier, entries whose tier already matches are silently skipped:
// batches are expected to carry a harmless mix of fresh and stale values.
func (c *Contract) SetTierBatch(caller common.Address, wallets []common.Address, tiers []domain.Tier) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if caller != c.updater {
		return ErrNotUpdater
	}
	if len(wallets) != len(tiers) {
		return ErrLengthMismatch
	}
	if len(wallets) > MaxBatchSize {
		return ErrBatchTooLarge
	}

	for i, wallet := range wallets {
		if wallet == (common.Address{}) {
			return ErrZeroWallet
		}
		if !tiers[i].Valid() {
			return ErrTierOutOfRange
		}
	}

	for i, wallet := range wallets {
		old := c.tiers[wallet]
		if old == tiers[i] {
			continue
		}
		c.setTier(wallet, tiers[i])
		c.emit(TierSet{Wallet: wallet, OldTier: old, NewTier: tiers[i]})
	}
	return nil
}

// DeleteTier resets a wallet back to tier zero. Fails when the wallet
// already reads as zero, which is the only way callers can distinguish a
// real deletion from a no-op on a never-classified wallet.
func (c *Contract) DeleteTier(caller, wallet common.Address) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if caller != c.updater {
		return ErrNotUpdater
	}
	if wallet == (common.Address{}) {
		return ErrZeroWallet
	}

	old := c.tiers[wallet]
	if old == domain.TierUnknown {
		return ErrTierAlreadyZero
	}

	delete(c.tiers, wallet)
	c.emit(TierDeleted{Wallet: wallet, OldTier: old})
	return nil
}

// SetUpdater rotates the updater role. Owner-only. Setting the zero address
// revokes write access entirely, acting as an emergency pause.
func (c *Contract) SetUpdater(caller, updater common.Address) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if caller != c.owner {
		return ErrNotOwner
	}

	old := c.updater
	c.updater = updater
	c.emit(UpdaterChanged{OldUpdater: old, NewUpdater: updater})
	return nil
}

// ProposeOwner starts (or replaces) a two-step ownership transfer. A
// pending proposal is overwritten, with the displacement emitted as its own
// event rather than silently replaced.
func (c *Contract) ProposeOwner(caller, candidate common.Address) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if caller != c.owner {
		return ErrNotOwner
	}
	if candidate == (common.Address{}) {
		return ErrZeroCandidate
	}

	if c.pendingOwner != nil {
		c.emit(OwnershipProposalDisplaced{OldCandidate: *c.pendingOwner, NewCandidate: candidate})
	}

	pending := candidate
	c.pendingOwner = &pending
	c.emit(OwnershipProposed{Owner: c.owner, Candidate: candidate})
	return nil
}

// AcceptOwnership completes the handover. Only the pending candidate may
// call it; the swap and the clearing of the pending slot are atomic.
func (c *Contract) AcceptOwnership(caller common.Address) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pendingOwner == nil || caller != *c.pendingOwner {
		return ErrNotPendingOwner
	}

	old := c.owner
	c.owner = caller
	c.pendingOwner = nil
	c.emit(OwnershipAccepted{OldOwner: old, NewOwner: caller})
	return nil
}

// CancelOwnershipTransfer withdraws a pending proposal. Fails when none is
// in flight.
func (c *Contract) CancelOwnershipTransfer(caller common.Address) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if caller != c.owner {
		return ErrNotOwner
	}
	if c.pendingOwner == nil {
		return ErrNoPendingTransfer
	}

	candidate := *c.pendingOwner
	c.pendingOwner = nil
	c.emit(OwnershipTransferCancelled{Owner: c.owner, Candidate: candidate})
	return nil
}

// Owner returns the current owner address.
func (c *Contract) Owner() common.Address {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.owner
}

// Updater returns the current updater address.
func (c *Contract) Updater() common.Address {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updater
}

// PendingOwner returns the in-flight ownership candidate, nil if none.
func (c *Contract) PendingOwner() *common.Address {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pendingOwner == nil {
		return nil
	}
	pending := *c.pendingOwner
	return &pending
}

// setTier stores a tier, dropping explicit zeros so the map only ever holds
// non-zero values. Callers hold the lock.
func (c *Contract) setTier(wallet common.Address, tier domain.Tier) {
	if tier == domain.TierUnknown {
		delete(c.tiers, wallet)
		return
	}
	c.tiers[wallet] = tier
}
