package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestEntry_SignedAmount(t *testing.T) {
	tests := []struct {
		name     string
		kind     EntryKind
		amount   decimal.Decimal
		expected decimal.Decimal
	}{
		{
			name:     "credit keeps positive sign",
			kind:     EntryKindCredit,
			amount:   decimal.NewFromInt(100),
			expected: decimal.NewFromInt(100),
		},
		{
			name:     "debit flips sign",
			kind:     EntryKindDebit,
			amount:   decimal.NewFromInt(30),
			expected: decimal.NewFromInt(-30),
		},
		{
			name:     "fractional debit",
			kind:     EntryKindDebit,
			amount:   decimal.RequireFromString("0.25"),
			expected: decimal.RequireFromString("-0.25"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Entry{Kind: tt.kind, Amount: tt.amount}

			got := e.SignedAmount()
			if !got.Equal(tt.expected) {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestEntryKind_Valid(t *testing.T) {
	if !EntryKindCredit.Valid() || !EntryKindDebit.Valid() {
		t.Error("expected credit and debit kinds to be valid")
	}

	if EntryKind("refund").Valid() {
		t.Error("expected unknown kind to be invalid")
	}
}
