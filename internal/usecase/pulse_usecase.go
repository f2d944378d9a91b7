package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Shreyanshxcodes/LedgerPulse/internal/domain"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/infrastructure/metrics"
)

var (
	// ErrInconsistentPulse is returned when the system aggregates do not
	// match a fold over the transaction log.
	ErrInconsistentPulse = errors.New("pulse ledger is inconsistent: stats do not match transaction log")
)

// PulseUseCase handles the permissionless transaction recorder and the
// identity scores derived from it.
type PulseUseCase struct {
	txManager  TransactionManager
	pulseRepo  PulseRepository
	seqRepo    SequenceRepository
	outboxRepo OutboxRepository
	auditRepo  AuditRepository
	settler    Settler
	cache      Cache
	policy     domain.ScoringPolicy
	idGen      IDGenerator
	metrics    *metrics.Metrics
}

// NewPulseUseCase creates a new PulseUseCase. The settler and cache are
// optional; pass nil to disable settlement and read caching.
func NewPulseUseCase(
	txManager TransactionManager,
	pulseRepo PulseRepository,
	seqRepo SequenceRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	settler Settler,
	cache Cache,
	policy domain.ScoringPolicy,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *PulseUseCase {
	return &PulseUseCase{
		txManager:  txManager,
		pulseRepo:  pulseRepo,
		seqRepo:    seqRepo,
		outboxRepo: outboxRepo,
		auditRepo:  auditRepo,
		settler:    settler,
		cache:      cache,
		policy:     policy,
		idGen:      idGen,
		metrics:    metrics,
	}
}

// RecordTransactionInput represents input for recording a transfer.
type RecordTransactionInput struct {
	EventAt  *time.Time
	Receiver string
	Amount   decimal.Decimal
}

// RecordTransaction appends a transfer from the calling sender to the
// receiver, classifies it, and updates both participants' scores, the
// system aggregates, and the optional settlement hook in one atomic
// transaction. Sender and receiver may be the same identity; the score
// update is then applied twice.
func (uc *PulseUseCase) RecordTransaction(ctx context.Context, sender string, input RecordTransactionInput) (*domain.Transaction, error) {
	start := time.Now()

	if err := domain.ValidateIdentity(sender); err != nil {
		return nil, err
	}

	if err := domain.ValidateIdentity(input.Receiver); err != nil {
		return nil, err
	}

	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	seq, err := uc.seqRepo.Next(txCtx, tx, SequencePulseTransactions)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	recordedAt := now
	if input.EventAt != nil {
		recordedAt = input.EventAt.UTC()
	}

	txn := &domain.Transaction{
		Hash:       domain.DeriveTransactionHash(sender, input.Receiver, input.Amount, recordedAt, seq),
		Seq:        seq,
		Sender:     sender,
		Receiver:   input.Receiver,
		Amount:     input.Amount,
		Category:   uc.policy.Categorize(input.Amount),
		RecordedAt: recordedAt,
	}

	if err := uc.pulseRepo.AppendTransaction(txCtx, tx, txn); err != nil {
		if errors.Is(err, domain.ErrDuplicateTransaction) && uc.metrics != nil {
			uc.metrics.DuplicateHashes.Inc()
		}

		return nil, err
	}

	// Sender first, then receiver. A self-transfer folds the amount in
	// twice; the second read must observe the first update.
	scores := make([]*domain.PulseScore, 0, 2)
	for _, identity := range []string{txn.Sender, txn.Receiver} {
		score, err := uc.pulseRepo.GetScoreForUpdate(txCtx, tx, identity)
		if err != nil {
			return nil, err
		}

		uc.policy.Apply(score, txn.Amount, recordedAt)

		if err := uc.pulseRepo.SaveScore(txCtx, tx, score); err != nil {
			return nil, err
		}

		scores = append(scores, score)
	}

	if err := uc.pulseRepo.BumpSystemStats(txCtx, tx, 1, txn.Amount); err != nil {
		return nil, err
	}

	if uc.settler != nil {
		if err := uc.settler.Settle(txCtx, tx, txn); err != nil {
			return nil, err
		}
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   txn.Hash,
		AggregateType: domain.AggregateTypeTransaction,
		EventType:     domain.EventTypeTransactionRecorded,
		Payload: map[string]any{
			"hash":        txn.Hash,
			"sender":      txn.Sender,
			"receiver":    txn.Receiver,
			"amount":      txn.Amount.String(),
			"category":    string(txn.Category),
			"recorded_at": txn.RecordedAt.Format(time.RFC3339Nano),
		},
		CreatedAt: now,
		Published: false,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	for _, score := range scores {
		scoreEvent := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   score.Identity,
			AggregateType: domain.AggregateTypeIdentity,
			EventType:     domain.EventTypeScoreUpdated,
			Payload: map[string]any{
				"identity":           score.Identity,
				"total_transactions": score.TotalTransactions,
				"total_volume":       score.TotalVolume.String(),
				"score":              score.Score,
				"reputation":         score.Reputation,
			},
			CreatedAt: now,
			Published: false,
		}
		if err := uc.outboxRepo.Create(txCtx, tx, scoreEvent); err != nil {
			return nil, err
		}
	}

	if uc.auditRepo != nil {
		auditLog := &domain.AuditLog{
			ID:           uc.idGen.Generate(),
			Actor:        sender,
			Action:       string(domain.AuditActionTransactionRecord),
			ResourceType: domain.AggregateTypeTransaction,
			ResourceID:   txn.Hash,
			Detail:       domain.MarshalState(txn),
			Status:       string(domain.AuditStatusSuccess),
			CreatedAt:    now,
		}
		if err := uc.auditRepo.CreateTx(txCtx, tx, auditLog); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsRecorded.WithLabelValues(string(txn.Category)).Inc()
		uc.metrics.TransactionAmount.Observe(txn.Amount.InexactFloat64())
		uc.metrics.RecordDuration.Observe(time.Since(start).Seconds())
	}

	return txn, nil
}

// GetPulseScore returns the identity's score aggregate. Identities that
// never appeared in a transaction get the zero-valued score.
func (uc *PulseUseCase) GetPulseScore(ctx context.Context, identity string) (*domain.PulseScore, error) {
	if err := domain.ValidateIdentity(identity); err != nil {
		return nil, err
	}

	return uc.pulseRepo.GetScore(ctx, identity)
}

// GetUserTransactions returns the hashes of every transaction the
// identity participated in, in insertion order. A self-transfer appears
// twice.
func (uc *PulseUseCase) GetUserTransactions(ctx context.Context, identity string) ([]string, error) {
	if err := domain.ValidateIdentity(identity); err != nil {
		return nil, err
	}

	return uc.pulseRepo.ListByIdentity(ctx, identity)
}

// GetTransaction resolves a hash to its full transaction record.
// Unknown hashes yield domain.ErrTransactionNotFound. Records are
// immutable once written, so cache hits never go stale.
func (uc *PulseUseCase) GetTransaction(ctx context.Context, hash string) (*domain.Transaction, error) {
	cacheKey := "pulse:tx:" + hash

	if uc.cache != nil {
		if data, err := uc.cache.Get(ctx, cacheKey); err == nil && data != nil {
			var txn domain.Transaction
			if err := json.Unmarshal(data, &txn); err == nil {
				return &txn, nil
			}
		}
	}

	txn, err := uc.pulseRepo.GetByHash(ctx, hash)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if data, err := json.Marshal(txn); err == nil {
			_ = uc.cache.Set(ctx, cacheKey, data, TransactionCacheTTL)
		}
	}

	return txn, nil
}

// GetSystemStats returns the global transaction count and volume.
func (uc *PulseUseCase) GetSystemStats(ctx context.Context) (*domain.SystemStats, error) {
	return uc.pulseRepo.GetSystemStats(ctx)
}

// GetRecentTransactions returns up to count hashes, most recent first.
// A non-positive count yields an empty slice; counts beyond the log
// length are clamped.
func (uc *PulseUseCase) GetRecentTransactions(ctx context.Context, count int) ([]string, error) {
	if count <= 0 {
		return []string{}, nil
	}

	return uc.pulseRepo.ListRecent(ctx, count)
}

// CheckConsistency verifies that the system aggregates equal a fold
// over the global transaction log.
func (uc *PulseUseCase) CheckConsistency(ctx context.Context) (bool, error) {
	stats, err := uc.pulseRepo.GetSystemStats(ctx)
	if err != nil {
		return false, err
	}

	count, volume, err := uc.pulseRepo.SumTransactions(ctx)
	if err != nil {
		return false, err
	}

	if stats.TotalTransactions != count || !stats.TotalVolume.Equal(volume) {
		return false, ErrInconsistentPulse
	}

	return true, nil
}
