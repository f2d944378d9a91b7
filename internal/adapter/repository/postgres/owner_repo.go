package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shreyanshxcodes/LedgerPulse/internal/domain"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/usecase"
)

// OwnerRepository implements usecase.OwnerRepository over a single-row
// table.
type OwnerRepository struct {
	pool *pgxpool.Pool
}

// NewOwnerRepository creates a new OwnerRepository.
func NewOwnerRepository(pool *pgxpool.Pool) *OwnerRepository {
	return &OwnerRepository{pool: pool}
}

// Init sets the owner if no owner has been recorded yet.
func (r *OwnerRepository) Init(ctx context.Context, identity string) error {
	const query = `
		INSERT INTO ledger_owner (id, identity, updated_at)
		VALUES (1, $1, now())
		ON CONFLICT (id) DO NOTHING
	`

	_, err := r.pool.Exec(ctx, query, identity)

	return err
}

// Get returns the current owner identity.
func (r *OwnerRepository) Get(ctx context.Context) (string, error) {
	const query = `SELECT identity FROM ledger_owner WHERE id = 1`

	var identity string
	if err := r.pool.QueryRow(ctx, query).Scan(&identity); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrOwnerNotInitialized
		}

		return "", err
	}

	return identity, nil
}

// GetForUpdate returns the owner with a FOR UPDATE lock, serializing
// owner-gated mutations against a concurrent transfer.
func (r *OwnerRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction) (string, error) {
	pgxTx := tx.(*Tx).PgxTx()

	const query = `SELECT identity FROM ledger_owner WHERE id = 1 FOR UPDATE`

	var identity string
	if err := pgxTx.QueryRow(ctx, query).Scan(&identity); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrOwnerNotInitialized
		}

		return "", err
	}

	return identity, nil
}

// Set replaces the owner within a transaction.
func (r *OwnerRepository) Set(ctx context.Context, tx usecase.Transaction, identity string, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	const query = `UPDATE ledger_owner SET identity = $1, updated_at = $2 WHERE id = 1`

	_, err := pgxTx.Exec(ctx, query, identity, timeToPgTimestamptz(updatedAt))

	return err
}
