package memory

import (
	"context"
	"time"

	"github.com/Shreyanshxcodes/LedgerPulse/internal/domain"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/usecase"
)

// OutboxRepository implements usecase.OutboxRepository.
type OutboxRepository struct {
	store *Store
}

// NewOutboxRepository creates a new OutboxRepository.
func NewOutboxRepository(store *Store) *OutboxRepository {
	return &OutboxRepository{store: store}
}

// Create appends an event within a transaction, so the notification
// commits or rolls back together with the state change that caused it.
func (r *OutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	r.store.outbox = append(r.store.outbox, event)

	asTx(tx).OnRollback(func() {
		r.store.outbox = r.store.outbox[:len(r.store.outbox)-1]
	})

	return nil
}

// GetUnpublished returns up to limit unpublished events in creation
// order.
func (r *OutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	events := make([]*domain.OutboxEvent, 0, limit)
	for _, event := range r.store.outbox {
		if event.Published {
			continue
		}

		events = append(events, event)
		if len(events) == limit {
			break
		}
	}

	return events, nil
}

// MarkPublished marks an event as published.
func (r *OutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, event := range r.store.outbox {
		if event.ID == id {
			at := snapshotTime(publishedAt)
			event.Published = true
			event.PublishedAt = &at

			return nil
		}
	}

	return nil
}

// DeletePublished drops published events created before the given time.
func (r *OutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	kept := r.store.outbox[:0]
	for _, event := range r.store.outbox {
		if event.Published && event.CreatedAt.Before(before) {
			continue
		}

		kept = append(kept, event)
	}
	r.store.outbox = kept

	return nil
}
