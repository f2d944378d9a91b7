package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shreyanshxcodes/LedgerPulse/internal/usecase"
)

// SequenceRepository implements usecase.SequenceRepository with one row
// per named counter. The UPDATE takes the row lock, so all writers of a
// sub-ledger serialize behind their sequence row for the rest of the
// transaction.
type SequenceRepository struct {
	pool *pgxpool.Pool
}

// NewSequenceRepository creates a new SequenceRepository.
func NewSequenceRepository(pool *pgxpool.Pool) *SequenceRepository {
	return &SequenceRepository{pool: pool}
}

// Next mints the next value of the named sequence inside the given
// transaction. The row is created on first use; the first value is 0.
func (r *SequenceRepository) Next(ctx context.Context, tx usecase.Transaction, name string) (uint64, error) {
	pgxTx := tx.(*Tx).PgxTx()

	const query = `
		INSERT INTO sequences (name, value) VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET value = sequences.value + 1
		RETURNING value - 1
	`

	var value uint64
	if err := pgxTx.QueryRow(ctx, query, name).Scan(&value); err != nil {
		return 0, err
	}

	return value, nil
}
