package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/Shreyanshxcodes/LedgerPulse/internal/domain"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/usecase"
)

// BookRepository implements usecase.BookRepository.
type BookRepository struct {
	pool *pgxpool.Pool
}

// NewBookRepository creates a new BookRepository.
func NewBookRepository(pool *pgxpool.Pool) *BookRepository {
	return &BookRepository{pool: pool}
}

// AppendEntry inserts an immutable book entry within a transaction.
func (r *BookRepository) AppendEntry(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	pgxTx := tx.(*Tx).PgxTx()

	const query = `
		INSERT INTO book_entries (id, account, kind, amount, label, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := pgxTx.Exec(ctx, query,
		entry.ID,
		entry.Account,
		string(entry.Kind),
		decimalToNumeric(entry.Amount),
		entry.Label,
		timeToPgTimestamptz(entry.RecordedAt),
	)

	return err
}

// GetBalance returns the running balance, zero for unknown accounts.
func (r *BookRepository) GetBalance(ctx context.Context, account string) (decimal.Decimal, error) {
	const query = `SELECT balance FROM book_balances WHERE account = $1`

	return r.scanBalance(r.pool.QueryRow(ctx, query, account))
}

// GetBalanceForUpdate reads the balance with a FOR UPDATE lock.
func (r *BookRepository) GetBalanceForUpdate(ctx context.Context, tx usecase.Transaction, account string) (decimal.Decimal, error) {
	pgxTx := tx.(*Tx).PgxTx()

	const query = `SELECT balance FROM book_balances WHERE account = $1 FOR UPDATE`

	return r.scanBalance(pgxTx.QueryRow(ctx, query, account))
}

func (r *BookRepository) scanBalance(row pgx.Row) (decimal.Decimal, error) {
	var balance pgtype.Numeric
	if err := row.Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}

		return decimal.Zero, err
	}

	return numericToDecimal(balance), nil
}

// SetBalance upserts the running balance within a transaction.
func (r *BookRepository) SetBalance(ctx context.Context, tx usecase.Transaction, account string, balance decimal.Decimal, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	const query = `
		INSERT INTO book_balances (account, balance, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (account) DO UPDATE SET balance = $2, updated_at = $3
	`

	_, err := pgxTx.Exec(ctx, query, account, decimalToNumeric(balance), timeToPgTimestamptz(updatedAt))

	return err
}

// ListEntries returns the account's entries in insertion order.
func (r *BookRepository) ListEntries(ctx context.Context, account string) ([]*domain.Entry, error) {
	const query = `
		SELECT id, account, kind, amount, label, recorded_at
		FROM book_entries
		WHERE account = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, account)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*domain.Entry, 0)
	for rows.Next() {
		var (
			entry  domain.Entry
			kind   string
			amount pgtype.Numeric
		)
		if err := rows.Scan(&entry.ID, &entry.Account, &kind, &amount, &entry.Label, &entry.RecordedAt); err != nil {
			return nil, err
		}
		entry.Kind = domain.EntryKind(kind)
		entry.Amount = numericToDecimal(amount)

		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}

// GetBalanceAt folds the signed entry amounts recorded at or before the
// given instant.
func (r *BookRepository) GetBalanceAt(ctx context.Context, account string, at time.Time) (decimal.Decimal, error) {
	const query = `
		SELECT COALESCE(SUM(CASE WHEN kind = 'debit' THEN -amount ELSE amount END), 0)
		FROM book_entries
		WHERE account = $1 AND recorded_at <= $2
	`

	var balance pgtype.Numeric
	if err := r.pool.QueryRow(ctx, query, account, timeToPgTimestamptz(at)).Scan(&balance); err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(balance), nil
}

// Balances returns every recorded running balance keyed by account.
func (r *BookRepository) Balances(ctx context.Context) (map[string]decimal.Decimal, error) {
	const query = `SELECT account, balance FROM book_balances`

	return r.scanAccountAmounts(ctx, query)
}

// SumEntries folds the signed entry amounts per account.
func (r *BookRepository) SumEntries(ctx context.Context) (map[string]decimal.Decimal, error) {
	const query = `
		SELECT account, SUM(CASE WHEN kind = 'debit' THEN -amount ELSE amount END)
		FROM book_entries
		GROUP BY account
	`

	return r.scanAccountAmounts(ctx, query)
}

func (r *BookRepository) scanAccountAmounts(ctx context.Context, query string) (map[string]decimal.Decimal, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	amounts := make(map[string]decimal.Decimal)
	for rows.Next() {
		var (
			account string
			amount  pgtype.Numeric
		)
		if err := rows.Scan(&account, &amount); err != nil {
			return nil, err
		}

		amounts[account] = numericToDecimal(amount)
	}

	return amounts, rows.Err()
}
