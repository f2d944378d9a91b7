package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Shreyanshxcodes/LedgerPulse/internal/domain"
)

// EntryResponse represents a book entry in API responses.
type EntryResponse struct {
	ID         uint64          `json:"id"`
	Account    string          `json:"account"`
	Kind       string          `json:"kind"`
	Amount     decimal.Decimal `json:"amount"`
	Label      string          `json:"label,omitempty"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	return &EntryResponse{
		ID:         e.ID,
		Account:    e.Account,
		Kind:       string(e.Kind),
		Amount:     e.Amount,
		Label:      e.Label,
		RecordedAt: e.RecordedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// RecordEntryResponse carries the recorded entry and the new balance.
type RecordEntryResponse struct {
	Entry   *EntryResponse  `json:"entry"`
	Balance decimal.Decimal `json:"balance"`
}

// BalanceResponse represents a running balance in API responses.
type BalanceResponse struct {
	Account string          `json:"account"`
	Balance decimal.Decimal `json:"balance"`
	At      *time.Time      `json:"at,omitempty"`
}

// OwnerResponse represents the current owner identity.
type OwnerResponse struct {
	Owner string `json:"owner"`
}

// TransactionResponse represents a pulse transaction in API responses.
type TransactionResponse struct {
	Hash       string          `json:"hash"`
	Seq        uint64          `json:"seq"`
	Sender     string          `json:"sender"`
	Receiver   string          `json:"receiver"`
	Amount     decimal.Decimal `json:"amount"`
	Category   string          `json:"category"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		Hash:       t.Hash,
		Seq:        t.Seq,
		Sender:     t.Sender,
		Receiver:   t.Receiver,
		Amount:     t.Amount,
		Category:   string(t.Category),
		RecordedAt: t.RecordedAt,
	}
}

// PulseScoreResponse represents an identity score in API responses.
type PulseScoreResponse struct {
	Identity          string          `json:"identity"`
	TotalTransactions uint64          `json:"total_transactions"`
	TotalVolume       decimal.Decimal `json:"total_volume"`
	Score             uint64          `json:"score"`
	Reputation        uint64          `json:"reputation"`
	LastUpdate        *time.Time      `json:"last_update,omitempty"`
}

// PulseScoreFromDomain converts a domain score to a response.
func PulseScoreFromDomain(s *domain.PulseScore) *PulseScoreResponse {
	resp := &PulseScoreResponse{
		Identity:          s.Identity,
		TotalTransactions: s.TotalTransactions,
		TotalVolume:       s.TotalVolume,
		Score:             s.Score,
		Reputation:        s.Reputation,
	}
	if !s.LastUpdate.IsZero() {
		last := s.LastUpdate
		resp.LastUpdate = &last
	}
	return resp
}

// SystemStatsResponse represents the global aggregates.
type SystemStatsResponse struct {
	TotalTransactions uint64          `json:"total_transactions"`
	TotalVolume       decimal.Decimal `json:"total_volume"`
}

// HashListResponse carries a list of transaction hashes.
type HashListResponse struct {
	Hashes []string `json:"hashes"`
}

// ConsistencyResponse reports the result of a consistency check.
type ConsistencyResponse struct {
	Consistent bool `json:"consistent"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
