package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind is the direction of a book entry.
type EntryKind string

const (
	EntryKindCredit EntryKind = "credit"
	EntryKindDebit  EntryKind = "debit"
)

// Valid reports whether the kind is one of the two known directions.
func (k EntryKind) Valid() bool {
	return k == EntryKindCredit || k == EntryKindDebit
}

// Entry represents a single immutable book entry (credit or debit).
// The ID is minted from the global entry sequence and never reused.
type Entry struct {
	ID         uint64
	Account    string
	Kind       EntryKind
	Amount     decimal.Decimal
	Label      string
	RecordedAt time.Time
}

// SignedAmount returns the entry amount with its direction applied:
// positive for credits, negative for debits.
func (e *Entry) SignedAmount() decimal.Decimal {
	if e.Kind == EntryKindDebit {
		return e.Amount.Neg()
	}
	return e.Amount
}
