package domain

import "errors"

var (
	// ErrInvalidAddress is returned when an address is not a valid hex wallet address
	ErrInvalidAddress = errors.New("invalid wallet address")

	// ErrWalletNotFound is returned when a wallet is not found in the store
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrInvalidTier is returned when a tier value is outside the 0-4 range
	ErrInvalidTier = errors.New("tier out of range")
)
