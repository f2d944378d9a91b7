package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Shreyanshxcodes/LedgerPulse/internal/domain"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/infrastructure/metrics"
)

var (
	// ErrInconsistentBook is returned when a running balance does not
	// match the sum of its account's entries.
	ErrInconsistentBook = errors.New("book is inconsistent: balances do not match entry sums")
)

// BookUseCase handles the owner-gated credit/debit ledger.
type BookUseCase struct {
	txManager  TransactionManager
	ownerRepo  OwnerRepository
	bookRepo   BookRepository
	seqRepo    SequenceRepository
	outboxRepo OutboxRepository
	auditRepo  AuditRepository
	idGen      IDGenerator
	metrics    *metrics.Metrics
}

// NewBookUseCase creates a new BookUseCase.
func NewBookUseCase(
	txManager TransactionManager,
	ownerRepo OwnerRepository,
	bookRepo BookRepository,
	seqRepo SequenceRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *BookUseCase {
	return &BookUseCase{
		txManager:  txManager,
		ownerRepo:  ownerRepo,
		bookRepo:   bookRepo,
		seqRepo:    seqRepo,
		outboxRepo: outboxRepo,
		auditRepo:  auditRepo,
		idGen:      idGen,
		metrics:    metrics,
	}
}

// RecordEntryInput represents input for recording a credit or debit.
type RecordEntryInput struct {
	EventAt *time.Time
	Account string
	Amount  decimal.Decimal
	Label   string
}

// Credit appends a credit entry for the account and raises its balance.
// Owner only. Returns the recorded entry and the new running balance.
func (uc *BookUseCase) Credit(ctx context.Context, caller string, input RecordEntryInput) (*domain.Entry, decimal.Decimal, error) {
	return uc.recordEntry(ctx, caller, domain.EntryKindCredit, input)
}

// Debit appends a debit entry for the account and lowers its balance.
// Owner only. The balance is a signed quantity and may go negative.
func (uc *BookUseCase) Debit(ctx context.Context, caller string, input RecordEntryInput) (*domain.Entry, decimal.Decimal, error) {
	return uc.recordEntry(ctx, caller, domain.EntryKindDebit, input)
}

func (uc *BookUseCase) recordEntry(ctx context.Context, caller string, kind domain.EntryKind, input RecordEntryInput) (*domain.Entry, decimal.Decimal, error) {
	start := time.Now()

	if err := domain.ValidateIdentity(input.Account); err != nil {
		return nil, decimal.Zero, err
	}

	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, decimal.Zero, domain.ErrInvalidAmount
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, decimal.Zero, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	// Locking the owner row serializes against a concurrent transfer.
	owner, err := uc.ownerRepo.GetForUpdate(txCtx, tx)
	if err != nil {
		return nil, decimal.Zero, err
	}

	if caller != owner {
		if uc.metrics != nil {
			uc.metrics.UnauthorizedCalls.WithLabelValues("entry." + string(kind)).Inc()
		}

		return nil, decimal.Zero, domain.ErrUnauthorized
	}

	balance, err := uc.bookRepo.GetBalanceForUpdate(txCtx, tx, input.Account)
	if err != nil {
		return nil, decimal.Zero, err
	}

	id, err := uc.seqRepo.Next(txCtx, tx, SequenceBookEntries)
	if err != nil {
		return nil, decimal.Zero, err
	}

	now := time.Now().UTC()

	recordedAt := now
	if input.EventAt != nil {
		recordedAt = input.EventAt.UTC()
	}

	entry := &domain.Entry{
		ID:         id,
		Account:    input.Account,
		Kind:       kind,
		Amount:     input.Amount,
		Label:      input.Label,
		RecordedAt: recordedAt,
	}

	if err := uc.bookRepo.AppendEntry(txCtx, tx, entry); err != nil {
		return nil, decimal.Zero, err
	}

	newBalance := balance.Add(entry.SignedAmount())
	if err := uc.bookRepo.SetBalance(txCtx, tx, input.Account, newBalance, now); err != nil {
		return nil, decimal.Zero, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   input.Account,
		AggregateType: domain.AggregateTypeBookAccount,
		EventType:     domain.EventTypeEntryRecorded,
		Payload: map[string]any{
			"entry_id":    entry.ID,
			"account":     entry.Account,
			"kind":        string(entry.Kind),
			"amount":      entry.Amount.String(),
			"balance":     newBalance.String(),
			"label":       entry.Label,
			"recorded_at": entry.RecordedAt.Format(time.RFC3339Nano),
		},
		CreatedAt: now,
		Published: false,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, decimal.Zero, err
	}

	if uc.auditRepo != nil {
		action := domain.AuditActionEntryCredit
		if kind == domain.EntryKindDebit {
			action = domain.AuditActionEntryDebit
		}

		auditLog := &domain.AuditLog{
			ID:           uc.idGen.Generate(),
			Actor:        caller,
			Action:       string(action),
			ResourceType: domain.AggregateTypeBookAccount,
			ResourceID:   input.Account,
			Detail:       domain.MarshalState(entry),
			Status:       string(domain.AuditStatusSuccess),
			CreatedAt:    now,
		}
		if err := uc.auditRepo.CreateTx(txCtx, tx, auditLog); err != nil {
			return nil, decimal.Zero, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, decimal.Zero, err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesRecorded.WithLabelValues(string(kind)).Inc()
		uc.metrics.EntryAmount.Observe(input.Amount.InexactFloat64())
		uc.metrics.BookDuration.Observe(time.Since(start).Seconds())
		uc.metrics.AccountBalance.WithLabelValues(input.Account).Set(newBalance.InexactFloat64())
	}

	return entry, newBalance, nil
}

// GetEntries returns the account's full entry history in insertion
// order. An account with no history yields an empty slice.
func (uc *BookUseCase) GetEntries(ctx context.Context, account string) ([]*domain.Entry, error) {
	if err := domain.ValidateIdentity(account); err != nil {
		return nil, err
	}

	return uc.bookRepo.ListEntries(ctx, account)
}

// GetBalance returns the current running balance, zero for accounts
// that never appeared in an entry.
func (uc *BookUseCase) GetBalance(ctx context.Context, account string) (decimal.Decimal, error) {
	if err := domain.ValidateIdentity(account); err != nil {
		return decimal.Zero, err
	}

	return uc.bookRepo.GetBalance(ctx, account)
}

// GetBalanceAt returns the balance as of a past instant, derived from
// the entry log.
func (uc *BookUseCase) GetBalanceAt(ctx context.Context, account string, at time.Time) (decimal.Decimal, error) {
	if err := domain.ValidateIdentity(account); err != nil {
		return decimal.Zero, err
	}

	return uc.bookRepo.GetBalanceAt(ctx, account, at)
}

// CheckConsistency verifies that every running balance equals the sum
// of its account's signed entry amounts.
func (uc *BookUseCase) CheckConsistency(ctx context.Context) (bool, error) {
	balances, err := uc.bookRepo.Balances(ctx)
	if err != nil {
		return false, err
	}

	sums, err := uc.bookRepo.SumEntries(ctx)
	if err != nil {
		return false, err
	}

	accounts := make(map[string]struct{}, len(balances)+len(sums))
	for account := range balances {
		accounts[account] = struct{}{}
	}
	for account := range sums {
		accounts[account] = struct{}{}
	}

	for account := range accounts {
		balance := decimal.Zero
		if b, ok := balances[account]; ok {
			balance = b
		}

		sum := decimal.Zero
		if s, ok := sums[account]; ok {
			sum = s
		}

		if !balance.Equal(sum) {
			return false, ErrInconsistentBook
		}
	}

	return true, nil
}
