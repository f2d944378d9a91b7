package memory

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Shreyanshxcodes/LedgerPulse/internal/domain"
)

// Store is the in-process ledger state: owner, book, pulse log, scores,
// sequences, outbox, and audit trail behind one global RWMutex. Mutating
// operations run inside a Tx holding the write lock; reads take the read
// lock and therefore always observe a committed snapshot.
type Store struct {
	mu sync.RWMutex

	ownerSet bool
	owner    string

	entries  map[string][]*domain.Entry
	balances map[string]decimal.Decimal

	txLog     []*domain.Transaction
	txByHash  map[string]*domain.Transaction
	txByIdent map[string][]string
	scores    map[string]*domain.PulseScore
	stats     domain.SystemStats

	sequences map[string]uint64

	outbox []*domain.OutboxEvent
	audits []*domain.AuditLog
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		entries:   make(map[string][]*domain.Entry),
		balances:  make(map[string]decimal.Decimal),
		txByHash:  make(map[string]*domain.Transaction),
		txByIdent: make(map[string][]string),
		scores:    make(map[string]*domain.PulseScore),
		sequences: make(map[string]uint64),
		stats:     domain.SystemStats{TotalVolume: decimal.Zero},
	}
}

// snapshotTime truncates nothing; it exists so every repo stamps
// updatedAt values the same way the durable driver does.
func snapshotTime(t time.Time) time.Time {
	return t.UTC()
}
