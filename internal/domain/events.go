package domain

import "time"

// Event types
const (
	EventTypeEntryRecorded        = "entry.recorded"
	EventTypeOwnershipTransferred = "ownership.transferred"
	EventTypeTransactionRecorded  = "transaction.recorded"
	EventTypeScoreUpdated         = "score.updated"
)

// Aggregate types
const (
	AggregateTypeBookAccount = "book_account"
	AggregateTypeOwner       = "ledger_owner"
	AggregateTypeTransaction = "pulse_transaction"
	AggregateTypeIdentity    = "pulse_identity"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// EntryRecordedEvent payload
type EntryRecordedEvent struct {
	EntryID    uint64 `json:"entry_id"`
	Account    string `json:"account"`
	Kind       string `json:"kind"`
	Amount     string `json:"amount"`
	Balance    string `json:"balance"`
	Label      string `json:"label"`
	RecordedAt string `json:"recorded_at"`
}

// OwnershipTransferredEvent payload
type OwnershipTransferredEvent struct {
	PreviousOwner string `json:"previous_owner"`
	NewOwner      string `json:"new_owner"`
}

// TransactionRecordedEvent payload
type TransactionRecordedEvent struct {
	Hash       string `json:"hash"`
	Sender     string `json:"sender"`
	Receiver   string `json:"receiver"`
	Amount     string `json:"amount"`
	Category   string `json:"category"`
	RecordedAt string `json:"recorded_at"`
}

// ScoreUpdatedEvent payload
type ScoreUpdatedEvent struct {
	Identity          string `json:"identity"`
	TotalTransactions uint64 `json:"total_transactions"`
	TotalVolume       string `json:"total_volume"`
	Score             uint64 `json:"score"`
	Reputation        uint64 `json:"reputation"`
}
