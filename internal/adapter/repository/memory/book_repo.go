package memory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Shreyanshxcodes/LedgerPulse/internal/domain"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/usecase"
)

// BookRepository implements usecase.BookRepository.
type BookRepository struct {
	store *Store
}

// NewBookRepository creates a new BookRepository.
func NewBookRepository(store *Store) *BookRepository {
	return &BookRepository{store: store}
}

// AppendEntry appends an immutable entry to the account's log.
func (r *BookRepository) AppendEntry(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	account := entry.Account
	r.store.entries[account] = append(r.store.entries[account], entry)

	asTx(tx).OnRollback(func() {
		log := r.store.entries[account]
		r.store.entries[account] = log[:len(log)-1]
	})

	return nil
}

// GetBalance returns the running balance, zero for unknown accounts.
func (r *BookRepository) GetBalance(ctx context.Context, account string) (decimal.Decimal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if balance, ok := r.store.balances[account]; ok {
		return balance, nil
	}

	return decimal.Zero, nil
}

// GetBalanceForUpdate reads the balance inside a transaction.
func (r *BookRepository) GetBalanceForUpdate(ctx context.Context, tx usecase.Transaction, account string) (decimal.Decimal, error) {
	if balance, ok := r.store.balances[account]; ok {
		return balance, nil
	}

	return decimal.Zero, nil
}

// SetBalance stores the new running balance within a transaction.
func (r *BookRepository) SetBalance(ctx context.Context, tx usecase.Transaction, account string, balance decimal.Decimal, updatedAt time.Time) error {
	prev, had := r.store.balances[account]
	r.store.balances[account] = balance

	asTx(tx).OnRollback(func() {
		if had {
			r.store.balances[account] = prev
		} else {
			delete(r.store.balances, account)
		}
	})

	return nil
}

// ListEntries returns the account's entries in insertion order.
func (r *BookRepository) ListEntries(ctx context.Context, account string) ([]*domain.Entry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	log := r.store.entries[account]
	entries := make([]*domain.Entry, len(log))
	copy(entries, log)

	return entries, nil
}

// GetBalanceAt folds the account's entries recorded at or before the
// given instant.
func (r *BookRepository) GetBalanceAt(ctx context.Context, account string, at time.Time) (decimal.Decimal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	balance := decimal.Zero
	for _, entry := range r.store.entries[account] {
		if entry.RecordedAt.After(at) {
			continue
		}

		balance = balance.Add(entry.SignedAmount())
	}

	return balance, nil
}

// Balances returns every recorded running balance keyed by account.
func (r *BookRepository) Balances(ctx context.Context) (map[string]decimal.Decimal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	balances := make(map[string]decimal.Decimal, len(r.store.balances))
	for account, balance := range r.store.balances {
		balances[account] = balance
	}

	return balances, nil
}

// SumEntries folds the signed entry amounts per account.
func (r *BookRepository) SumEntries(ctx context.Context) (map[string]decimal.Decimal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	sums := make(map[string]decimal.Decimal, len(r.store.entries))
	for account, log := range r.store.entries {
		sum := decimal.Zero
		for _, entry := range log {
			sum = sum.Add(entry.SignedAmount())
		}
		sums[account] = sum
	}

	return sums, nil
}
