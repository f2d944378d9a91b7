package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/Shreyanshxcodes/LedgerPulse/internal/domain"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/usecase"
)

// PulseRepository implements usecase.PulseRepository. The transaction
// log lives in pulse_transactions; per-identity hash indexes are rows in
// pulse_participants, a back-reference onto the log.
type PulseRepository struct {
	pool *pgxpool.Pool
}

// NewPulseRepository creates a new PulseRepository.
func NewPulseRepository(pool *pgxpool.Pool) *PulseRepository {
	return &PulseRepository{pool: pool}
}

// AppendTransaction writes the transaction to the global log and to both
// participant indexes. A duplicate hash maps the unique violation to
// domain.ErrDuplicateTransaction.
func (r *PulseRepository) AppendTransaction(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	const insertTx = `
		INSERT INTO pulse_transactions (hash, seq, sender, receiver, amount, category, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := pgxTx.Exec(ctx, insertTx,
		txn.Hash,
		txn.Seq,
		txn.Sender,
		txn.Receiver,
		decimalToNumeric(txn.Amount),
		string(txn.Category),
		timeToPgTimestamptz(txn.RecordedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateTransaction
		}

		return err
	}

	const insertParticipant = `
		INSERT INTO pulse_participants (identity, hash) VALUES ($1, $2)
	`

	// A self-transfer inserts two rows for the same identity.
	for _, identity := range []string{txn.Sender, txn.Receiver} {
		if _, err := pgxTx.Exec(ctx, insertParticipant, identity, txn.Hash); err != nil {
			return err
		}
	}

	return nil
}

// GetByHash resolves a hash to its transaction record.
func (r *PulseRepository) GetByHash(ctx context.Context, hash string) (*domain.Transaction, error) {
	const query = `
		SELECT hash, seq, sender, receiver, amount, category, recorded_at
		FROM pulse_transactions
		WHERE hash = $1
	`

	var (
		txn      domain.Transaction
		amount   pgtype.Numeric
		category string
	)
	err := r.pool.QueryRow(ctx, query, hash).Scan(
		&txn.Hash, &txn.Seq, &txn.Sender, &txn.Receiver, &amount, &category, &txn.RecordedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	txn.Amount = numericToDecimal(amount)
	txn.Category = domain.Category(category)

	return &txn, nil
}

// ListByIdentity returns the identity's hash index in insertion order.
func (r *PulseRepository) ListByIdentity(ctx context.Context, identity string) ([]string, error) {
	const query = `
		SELECT hash FROM pulse_participants WHERE identity = $1 ORDER BY id
	`

	return r.scanHashes(ctx, query, identity)
}

// ListRecent returns up to count hashes, most recent first.
func (r *PulseRepository) ListRecent(ctx context.Context, count int) ([]string, error) {
	const query = `
		SELECT hash FROM pulse_transactions ORDER BY seq DESC LIMIT $1
	`

	return r.scanHashes(ctx, query, count)
}

func (r *PulseRepository) scanHashes(ctx context.Context, query string, arg any) ([]string, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hashes := make([]string, 0)
	for rows.Next() {
		var hash string
		if err := rows.Scan(&hash); err != nil {
			return nil, err
		}

		hashes = append(hashes, hash)
	}

	return hashes, rows.Err()
}

// GetScore returns the identity's aggregate, zero-valued when absent.
func (r *PulseRepository) GetScore(ctx context.Context, identity string) (*domain.PulseScore, error) {
	const query = `
		SELECT identity, total_transactions, total_volume, score, reputation, last_update
		FROM pulse_scores
		WHERE identity = $1
	`

	return r.scanScore(r.pool.QueryRow(ctx, query, identity), identity)
}

// GetScoreForUpdate reads the score with a FOR UPDATE lock.
func (r *PulseRepository) GetScoreForUpdate(ctx context.Context, tx usecase.Transaction, identity string) (*domain.PulseScore, error) {
	pgxTx := tx.(*Tx).PgxTx()

	const query = `
		SELECT identity, total_transactions, total_volume, score, reputation, last_update
		FROM pulse_scores
		WHERE identity = $1
		FOR UPDATE
	`

	return r.scanScore(pgxTx.QueryRow(ctx, query, identity), identity)
}

func (r *PulseRepository) scanScore(row pgx.Row, identity string) (*domain.PulseScore, error) {
	var (
		score  domain.PulseScore
		volume pgtype.Numeric
	)
	err := row.Scan(
		&score.Identity, &score.TotalTransactions, &volume, &score.Score, &score.Reputation, &score.LastUpdate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NewPulseScore(identity), nil
		}

		return nil, err
	}

	score.TotalVolume = numericToDecimal(volume)

	return &score, nil
}

// SaveScore upserts the recomputed aggregate within a transaction.
func (r *PulseRepository) SaveScore(ctx context.Context, tx usecase.Transaction, score *domain.PulseScore) error {
	pgxTx := tx.(*Tx).PgxTx()

	const query = `
		INSERT INTO pulse_scores (identity, total_transactions, total_volume, score, reputation, last_update)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (identity) DO UPDATE SET
			total_transactions = $2,
			total_volume = $3,
			score = $4,
			reputation = $5,
			last_update = $6
	`

	_, err := pgxTx.Exec(ctx, query,
		score.Identity,
		score.TotalTransactions,
		decimalToNumeric(score.TotalVolume),
		score.Score,
		score.Reputation,
		timeToPgTimestamptz(score.LastUpdate),
	)

	return err
}

// GetSystemStats returns the global aggregates.
func (r *PulseRepository) GetSystemStats(ctx context.Context) (*domain.SystemStats, error) {
	const query = `
		SELECT total_transactions, total_volume FROM system_stats WHERE id = 1
	`

	var (
		stats  domain.SystemStats
		volume pgtype.Numeric
	)
	if err := r.pool.QueryRow(ctx, query).Scan(&stats.TotalTransactions, &volume); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.SystemStats{TotalVolume: decimal.Zero}, nil
		}

		return nil, err
	}

	stats.TotalVolume = numericToDecimal(volume)

	return &stats, nil
}

// BumpSystemStats increments the global aggregates within a transaction.
func (r *PulseRepository) BumpSystemStats(ctx context.Context, tx usecase.Transaction, transactions uint64, volume decimal.Decimal) error {
	pgxTx := tx.(*Tx).PgxTx()

	const query = `
		INSERT INTO system_stats (id, total_transactions, total_volume)
		VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE SET
			total_transactions = system_stats.total_transactions + $1,
			total_volume = system_stats.total_volume + $2
	`

	_, err := pgxTx.Exec(ctx, query, transactions, decimalToNumeric(volume))

	return err
}

// SumTransactions folds the global log into (count, volume).
func (r *PulseRepository) SumTransactions(ctx context.Context) (uint64, decimal.Decimal, error) {
	const query = `
		SELECT COUNT(*), COALESCE(SUM(amount), 0) FROM pulse_transactions
	`

	var (
		count  uint64
		volume pgtype.Numeric
	)
	if err := r.pool.QueryRow(ctx, query).Scan(&count, &volume); err != nil {
		return 0, decimal.Zero, err
	}

	return count, numericToDecimal(volume), nil
}
