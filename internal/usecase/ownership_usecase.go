package usecase

import (
	"context"
	"time"

	"github.com/Shreyanshxcodes/LedgerPulse/internal/domain"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/infrastructure/metrics"
)

// OwnershipUseCase guards the single owner identity that book mutations
// are gated on.
type OwnershipUseCase struct {
	txManager  TransactionManager
	ownerRepo  OwnerRepository
	outboxRepo OutboxRepository
	auditRepo  AuditRepository
	idGen      IDGenerator
	metrics    *metrics.Metrics
}

// NewOwnershipUseCase creates a new OwnershipUseCase.
func NewOwnershipUseCase(
	txManager TransactionManager,
	ownerRepo OwnerRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *OwnershipUseCase {
	return &OwnershipUseCase{
		txManager:  txManager,
		ownerRepo:  ownerRepo,
		outboxRepo: outboxRepo,
		auditRepo:  auditRepo,
		idGen:      idGen,
		metrics:    metrics,
	}
}

// InitOwner records the deployment owner if none is set yet. Calling it
// against an already initialized store is a no-op, so restarts are safe.
func (uc *OwnershipUseCase) InitOwner(ctx context.Context, identity string) error {
	if err := domain.ValidateIdentity(identity); err != nil {
		return err
	}

	return uc.ownerRepo.Init(ctx, identity)
}

// Owner returns the current owner identity.
func (uc *OwnershipUseCase) Owner(ctx context.Context) (string, error) {
	return uc.ownerRepo.Get(ctx)
}

// TransferOwnership hands the owner role to newOwner. Only the current
// owner may call it; the previous owner loses all privileges at commit.
func (uc *OwnershipUseCase) TransferOwnership(ctx context.Context, caller, newOwner string) error {
	if err := domain.ValidateIdentity(newOwner); err != nil {
		return err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	current, err := uc.ownerRepo.GetForUpdate(txCtx, tx)
	if err != nil {
		return err
	}

	if caller != current {
		if uc.metrics != nil {
			uc.metrics.UnauthorizedCalls.WithLabelValues("ownership.transfer").Inc()
		}

		return domain.ErrUnauthorized
	}

	now := time.Now().UTC()
	if err := uc.ownerRepo.Set(txCtx, tx, newOwner, now); err != nil {
		return err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   newOwner,
		AggregateType: domain.AggregateTypeOwner,
		EventType:     domain.EventTypeOwnershipTransferred,
		Payload: map[string]any{
			"previous_owner": current,
			"new_owner":      newOwner,
		},
		CreatedAt: now,
		Published: false,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return err
	}

	if uc.auditRepo != nil {
		auditLog := &domain.AuditLog{
			ID:           uc.idGen.Generate(),
			Actor:        caller,
			Action:       string(domain.AuditActionOwnershipTransfer),
			ResourceType: domain.AggregateTypeOwner,
			ResourceID:   newOwner,
			Detail: domain.JSON{
				"previous_owner": current,
				"new_owner":      newOwner,
			},
			Status:    string(domain.AuditStatusSuccess),
			CreatedAt: now,
		}
		if err := uc.auditRepo.CreateTx(txCtx, tx, auditLog); err != nil {
			return err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.OwnershipTransfers.Inc()
	}

	return nil
}
