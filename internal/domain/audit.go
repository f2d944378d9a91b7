package domain

import (
	"encoding/json"
	"time"
)

// AuditLog represents an audit trail entry for privileged mutations
type AuditLog struct {
	ID           string
	Actor        string // Who performed the action
	Action       string // What action (entry.credit, ownership.transfer, etc.)
	ResourceType string // Type of resource (book_account, ledger_owner, pulse_transaction)
	ResourceID   string // ID of the resource
	Detail       JSON   // Action-specific detail
	Status       string // success, failure
	ErrorMessage string // If status=failure, the error message
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction represents different types of auditable actions
type AuditAction string

const (
	AuditActionEntryCredit       AuditAction = "entry.credit"
	AuditActionEntryDebit        AuditAction = "entry.debit"
	AuditActionOwnershipTransfer AuditAction = "ownership.transfer"
	AuditActionTransactionRecord AuditAction = "transaction.record"
)

// AuditStatus represents the status of an audited action
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
)

// MarshalState converts a domain object to JSON for audit logging
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}

// AuditFilter defines filters for querying audit logs
type AuditFilter struct {
	Actor        string
	Action       string
	ResourceType string
	ResourceID   string
	Limit        int
	Offset       int
}
