package domain

import "errors"

var (
	// Access errors
	ErrUnauthorized        = errors.New("caller is not the ledger owner")
	ErrOwnerNotInitialized = errors.New("ledger owner not initialized")

	// Validation errors
	ErrEmptyIdentity   = errors.New("identity must not be empty")
	ErrIdentityTooLong = errors.New("identity exceeds maximum length")
	ErrInvalidAmount   = errors.New("amount must be positive")

	// Pulse errors
	ErrDuplicateTransaction = errors.New("transaction hash already recorded")
	ErrTransactionNotFound  = errors.New("transaction not found")

	// Token errors
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)
