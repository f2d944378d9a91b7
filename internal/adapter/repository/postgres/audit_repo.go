package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shreyanshxcodes/LedgerPulse/internal/domain"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/usecase"
)

// AuditRepository implements usecase.AuditRepository.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

const auditInsert = `
	INSERT INTO audit_logs (id, actor, action, resource_type, resource_id, detail, status, error_message, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

// Create inserts an audit record outside any transaction.
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	detail, err := marshalDetail(log.Detail)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, auditInsert,
		log.ID, log.Actor, log.Action, log.ResourceType, log.ResourceID,
		detail, log.Status, log.ErrorMessage, timeToPgTimestamptz(log.CreatedAt),
	)

	return err
}

// CreateTx inserts an audit record within a transaction.
func (r *AuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	pgxTx := tx.(*Tx).PgxTx()

	detail, err := marshalDetail(log.Detail)
	if err != nil {
		return err
	}

	_, err = pgxTx.Exec(ctx, auditInsert,
		log.ID, log.Actor, log.Action, log.ResourceType, log.ResourceID,
		detail, log.Status, log.ErrorMessage, timeToPgTimestamptz(log.CreatedAt),
	)

	return err
}

// List retrieves audit records matching the filter, newest first.
func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	query := `
		SELECT id, actor, action, resource_type, resource_id, detail, status, error_message, created_at
		FROM audit_logs
		WHERE 1=1
	`
	args := []any{}

	addFilter := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		query += fmt.Sprintf(" AND %s = $%d", column, len(args))
	}

	addFilter("actor", filter.Actor)
	addFilter("action", filter.Action)
	addFilter("resource_type", filter.ResourceType)
	addFilter("resource_id", filter.ResourceID)

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAuditLogs(rows)
}

func scanAuditLogs(rows pgx.Rows) ([]*domain.AuditLog, error) {
	logs := make([]*domain.AuditLog, 0)
	for rows.Next() {
		var (
			log    domain.AuditLog
			detail []byte
		)
		err := rows.Scan(
			&log.ID, &log.Actor, &log.Action, &log.ResourceType, &log.ResourceID,
			&detail, &log.Status, &log.ErrorMessage, &log.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if detail != nil {
			_ = json.Unmarshal(detail, &log.Detail)
		}

		logs = append(logs, &log)
	}

	return logs, rows.Err()
}

func marshalDetail(detail domain.JSON) ([]byte, error) {
	if detail == nil {
		return nil, nil
	}

	return json.Marshal(detail)
}
