package memory

import (
	"context"
	"time"

	"github.com/Shreyanshxcodes/LedgerPulse/internal/domain"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/usecase"
)

// OwnerRepository implements usecase.OwnerRepository.
type OwnerRepository struct {
	store *Store
}

// NewOwnerRepository creates a new OwnerRepository.
func NewOwnerRepository(store *Store) *OwnerRepository {
	return &OwnerRepository{store: store}
}

// Init sets the owner if no owner has been recorded yet.
func (r *OwnerRepository) Init(ctx context.Context, identity string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if !r.store.ownerSet {
		r.store.owner = identity
		r.store.ownerSet = true
	}

	return nil
}

// Get returns the current owner identity.
func (r *OwnerRepository) Get(ctx context.Context) (string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if !r.store.ownerSet {
		return "", domain.ErrOwnerNotInitialized
	}

	return r.store.owner, nil
}

// GetForUpdate returns the owner inside a transaction. The write lock is
// already held, so the read is trivially serialized.
func (r *OwnerRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction) (string, error) {
	if !r.store.ownerSet {
		return "", domain.ErrOwnerNotInitialized
	}

	return r.store.owner, nil
}

// Set replaces the owner within a transaction.
func (r *OwnerRepository) Set(ctx context.Context, tx usecase.Transaction, identity string, updatedAt time.Time) error {
	prev, prevSet := r.store.owner, r.store.ownerSet

	r.store.owner = identity
	r.store.ownerSet = true

	asTx(tx).OnRollback(func() {
		r.store.owner = prev
		r.store.ownerSet = prevSet
	})

	return nil
}
