package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PulseScore is the derived activity aggregate for one identity.
// It only ever changes as a side effect of a new transaction touching
// the identity; it is never reset or deleted.
type PulseScore struct {
	Identity          string
	TotalTransactions uint64
	TotalVolume       decimal.Decimal
	Score             uint64
	Reputation        uint64
	LastUpdate        time.Time
}

// NewPulseScore returns the zero-valued score for an identity that has
// not appeared in any transaction yet.
func NewPulseScore(identity string) *PulseScore {
	return &PulseScore{
		Identity:    identity,
		TotalVolume: decimal.Zero,
	}
}

// SystemStats holds the global transaction aggregates.
type SystemStats struct {
	TotalTransactions uint64
	TotalVolume       decimal.Decimal
}
