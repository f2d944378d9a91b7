package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Shreyanshxcodes/LedgerPulse/internal/domain"
)

// OwnerRepository defines data access for the ledger owner record.
type OwnerRepository interface {
	// Init sets the owner if no owner has been recorded yet.
	Init(ctx context.Context, identity string) error
	Get(ctx context.Context) (string, error)
	GetForUpdate(ctx context.Context, tx Transaction) (string, error)
	Set(ctx context.Context, tx Transaction, identity string, updatedAt time.Time) error
}

// BookRepository defines data access for book entries and balances.
type BookRepository interface {
	AppendEntry(ctx context.Context, tx Transaction, entry *domain.Entry) error
	GetBalance(ctx context.Context, account string) (decimal.Decimal, error)
	GetBalanceForUpdate(ctx context.Context, tx Transaction, account string) (decimal.Decimal, error)
	SetBalance(ctx context.Context, tx Transaction, account string, balance decimal.Decimal, updatedAt time.Time) error
	ListEntries(ctx context.Context, account string) ([]*domain.Entry, error)
	GetBalanceAt(ctx context.Context, account string, at time.Time) (decimal.Decimal, error)
	// Balances returns every recorded running balance keyed by account.
	Balances(ctx context.Context) (map[string]decimal.Decimal, error)
	// SumEntries folds the signed entry amounts per account.
	SumEntries(ctx context.Context) (map[string]decimal.Decimal, error)
}

// PulseRepository defines data access for the transaction log, indexes,
// identity scores, and system aggregates.
type PulseRepository interface {
	// AppendTransaction writes the transaction to the global log and to
	// both participant indexes. A hash that is already present yields
	// domain.ErrDuplicateTransaction.
	AppendTransaction(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	GetByHash(ctx context.Context, hash string) (*domain.Transaction, error)
	ListByIdentity(ctx context.Context, identity string) ([]string, error)
	// ListRecent returns up to count hashes, most recent first.
	ListRecent(ctx context.Context, count int) ([]string, error)
	GetScore(ctx context.Context, identity string) (*domain.PulseScore, error)
	GetScoreForUpdate(ctx context.Context, tx Transaction, identity string) (*domain.PulseScore, error)
	SaveScore(ctx context.Context, tx Transaction, score *domain.PulseScore) error
	GetSystemStats(ctx context.Context) (*domain.SystemStats, error)
	BumpSystemStats(ctx context.Context, tx Transaction, transactions uint64, volume decimal.Decimal) error
	// SumTransactions folds the global log into (count, volume).
	SumTransactions(ctx context.Context) (uint64, decimal.Decimal, error)
}

// SequenceRepository mints identifiers from named post-increment
// counters. The first value of every sequence is 0.
type SequenceRepository interface {
	Next(ctx context.Context, tx Transaction, name string) (uint64, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// Settler is an optional hook run inside the recording transaction,
// after the transaction has been appended but before commit. A settler
// failure aborts the whole recording.
type Settler interface {
	Settle(ctx context.Context, tx Transaction, txn *domain.Transaction) error
}

// Transaction represents a store transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs for events and audit records.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
