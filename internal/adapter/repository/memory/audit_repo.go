package memory

import (
	"context"

	"github.com/Shreyanshxcodes/LedgerPulse/internal/domain"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/usecase"
)

// AuditRepository implements usecase.AuditRepository.
type AuditRepository struct {
	store *Store
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(store *Store) *AuditRepository {
	return &AuditRepository{store: store}
}

// Create appends an audit record outside any transaction.
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.audits = append(r.store.audits, log)

	return nil
}

// CreateTx appends an audit record within a transaction.
func (r *AuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	r.store.audits = append(r.store.audits, log)

	asTx(tx).OnRollback(func() {
		r.store.audits = r.store.audits[:len(r.store.audits)-1]
	})

	return nil
}

// List returns audit records matching the filter, newest first.
func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched := make([]*domain.AuditLog, 0)
	for i := len(r.store.audits) - 1; i >= 0; i-- {
		log := r.store.audits[i]
		if filter.Actor != "" && log.Actor != filter.Actor {
			continue
		}
		if filter.Action != "" && log.Action != filter.Action {
			continue
		}
		if filter.ResourceType != "" && log.ResourceType != filter.ResourceType {
			continue
		}
		if filter.ResourceID != "" && log.ResourceID != filter.ResourceID {
			continue
		}

		matched = append(matched, log)
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return []*domain.AuditLog{}, nil
		}
		matched = matched[filter.Offset:]
	}

	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}

	return matched, nil
}
