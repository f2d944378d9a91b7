package postgres

import (
	"github.com/oklog/ulid/v2"
)

// ULIDGenerator mints ULIDs for outbox event and audit record IDs.
// Ledger identifiers (entry IDs, transaction hashes) come from the
// sequence repository and hash derivation instead.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate generates a new ULID.
func (g *ULIDGenerator) Generate() string {
	return ulid.Make().String()
}
