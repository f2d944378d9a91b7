package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Shreyanshxcodes/LedgerPulse/internal/domain"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/usecase"
)

// PulseRepository implements usecase.PulseRepository.
type PulseRepository struct {
	store *Store
}

// NewPulseRepository creates a new PulseRepository.
func NewPulseRepository(store *Store) *PulseRepository {
	return &PulseRepository{store: store}
}

// AppendTransaction writes the transaction to the global log and to both
// participant indexes. An already-present hash is rejected whole.
func (r *PulseRepository) AppendTransaction(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if _, exists := r.store.txByHash[txn.Hash]; exists {
		return domain.ErrDuplicateTransaction
	}

	r.store.txLog = append(r.store.txLog, txn)
	r.store.txByHash[txn.Hash] = txn

	// A self-transfer indexes the hash twice under the same identity.
	participants := []string{txn.Sender, txn.Receiver}
	for _, identity := range participants {
		r.store.txByIdent[identity] = append(r.store.txByIdent[identity], txn.Hash)
	}

	asTx(tx).OnRollback(func() {
		r.store.txLog = r.store.txLog[:len(r.store.txLog)-1]
		delete(r.store.txByHash, txn.Hash)
		for _, identity := range participants {
			index := r.store.txByIdent[identity]
			r.store.txByIdent[identity] = index[:len(index)-1]
		}
	})

	return nil
}

// GetByHash resolves a hash to its transaction record.
func (r *PulseRepository) GetByHash(ctx context.Context, hash string) (*domain.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	txn, ok := r.store.txByHash[hash]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}

	copied := *txn

	return &copied, nil
}

// ListByIdentity returns the identity's hash index in insertion order.
func (r *PulseRepository) ListByIdentity(ctx context.Context, identity string) ([]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	index := r.store.txByIdent[identity]
	hashes := make([]string, len(index))
	copy(hashes, index)

	return hashes, nil
}

// ListRecent returns up to count hashes, most recent first. The log is
// append-only, so walking it backwards never rescans more than count
// elements.
func (r *PulseRepository) ListRecent(ctx context.Context, count int) ([]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if count > len(r.store.txLog) {
		count = len(r.store.txLog)
	}

	hashes := make([]string, 0, count)
	for i := len(r.store.txLog) - 1; i >= len(r.store.txLog)-count; i-- {
		hashes = append(hashes, r.store.txLog[i].Hash)
	}

	return hashes, nil
}

// GetScore returns the identity's aggregate, zero-valued when the
// identity never appeared in a transaction.
func (r *PulseRepository) GetScore(ctx context.Context, identity string) (*domain.PulseScore, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if score, ok := r.store.scores[identity]; ok {
		copied := *score
		return &copied, nil
	}

	return domain.NewPulseScore(identity), nil
}

// GetScoreForUpdate reads the score inside a transaction.
func (r *PulseRepository) GetScoreForUpdate(ctx context.Context, tx usecase.Transaction, identity string) (*domain.PulseScore, error) {
	if score, ok := r.store.scores[identity]; ok {
		copied := *score
		return &copied, nil
	}

	return domain.NewPulseScore(identity), nil
}

// SaveScore stores the recomputed aggregate within a transaction.
func (r *PulseRepository) SaveScore(ctx context.Context, tx usecase.Transaction, score *domain.PulseScore) error {
	identity := score.Identity
	prev, had := r.store.scores[identity]

	copied := *score
	r.store.scores[identity] = &copied

	asTx(tx).OnRollback(func() {
		if had {
			r.store.scores[identity] = prev
		} else {
			delete(r.store.scores, identity)
		}
	})

	return nil
}

// GetSystemStats returns the global aggregates.
func (r *PulseRepository) GetSystemStats(ctx context.Context) (*domain.SystemStats, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	stats := r.store.stats

	return &stats, nil
}

// BumpSystemStats increments the global aggregates within a transaction.
func (r *PulseRepository) BumpSystemStats(ctx context.Context, tx usecase.Transaction, transactions uint64, volume decimal.Decimal) error {
	prev := r.store.stats

	r.store.stats.TotalTransactions += transactions
	r.store.stats.TotalVolume = r.store.stats.TotalVolume.Add(volume)

	asTx(tx).OnRollback(func() {
		r.store.stats = prev
	})

	return nil
}

// SumTransactions folds the global log into (count, volume).
func (r *PulseRepository) SumTransactions(ctx context.Context) (uint64, decimal.Decimal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	volume := decimal.Zero
	for _, txn := range r.store.txLog {
		volume = volume.Add(txn.Amount)
	}

	return uint64(len(r.store.txLog)), volume, nil
}
