package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a store transaction
	// This prevents long-running transactions from blocking writers
	DefaultTransactionTimeout = 10 * time.Second

	// SequenceBookEntries names the counter that mints book entry IDs
	SequenceBookEntries = "book.entries"

	// SequencePulseTransactions names the counter that feeds transaction hashes
	SequencePulseTransactions = "pulse.transactions"

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// TransactionCacheTTL is how long immutable transaction lookups stay cached
	TransactionCacheTTL = time.Hour
)
