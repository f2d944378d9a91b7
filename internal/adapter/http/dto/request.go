package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Shreyanshxcodes/LedgerPulse/internal/usecase"
)

// RecordEntryRequest represents a request to record a credit or debit.
type RecordEntryRequest struct {
	Account string          `json:"account"`
	Amount  decimal.Decimal `json:"amount"`
	Label   string          `json:"label,omitempty"`
	EventAt *time.Time      `json:"event_at,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordEntryRequest) ToUseCaseInput() usecase.RecordEntryInput {
	return usecase.RecordEntryInput{
		Account: r.Account,
		Amount:  r.Amount,
		Label:   r.Label,
		EventAt: r.EventAt,
	}
}

// TransferOwnershipRequest represents a request to hand over the owner role.
type TransferOwnershipRequest struct {
	NewOwner string `json:"new_owner"`
}

// RecordTransactionRequest represents a request to record a transfer.
// The sender is the authenticated caller, not part of the body.
type RecordTransactionRequest struct {
	Receiver string          `json:"receiver"`
	Amount   decimal.Decimal `json:"amount"`
	EventAt  *time.Time      `json:"event_at,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordTransactionRequest) ToUseCaseInput() usecase.RecordTransactionInput {
	return usecase.RecordTransactionInput{
		Receiver: r.Receiver,
		Amount:   r.Amount,
		EventAt:  r.EventAt,
	}
}
