package memory

import (
	"context"

	"github.com/Shreyanshxcodes/LedgerPulse/internal/usecase"
)

// SequenceRepository implements usecase.SequenceRepository with named
// post-increment counters. The first value of every sequence is 0.
type SequenceRepository struct {
	store *Store
}

// NewSequenceRepository creates a new SequenceRepository.
func NewSequenceRepository(store *Store) *SequenceRepository {
	return &SequenceRepository{store: store}
}

// Next returns the current counter value and advances it. The increment
// is journaled, so an aborted operation never burns an identifier.
func (r *SequenceRepository) Next(ctx context.Context, tx usecase.Transaction, name string) (uint64, error) {
	value := r.store.sequences[name]
	r.store.sequences[name] = value + 1

	asTx(tx).OnRollback(func() {
		r.store.sequences[name] = value
	})

	return value, nil
}
