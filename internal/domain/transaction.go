package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category classifies a pulse transaction by transferred volume.
type Category string

const (
	CategoryMicro  Category = "micro"
	CategorySmall  Category = "small"
	CategoryMedium Category = "medium"
	CategoryLarge  Category = "large"
	CategoryWhale  Category = "whale"
)

// Transaction represents a single recorded peer-to-peer transfer.
// The Hash is content-derived and unique; Seq is the position in the
// global transaction sequence and feeds into the hash preimage.
type Transaction struct {
	Hash       string
	Seq        uint64
	Sender     string
	Receiver   string
	Amount     decimal.Decimal
	Category   Category
	RecordedAt time.Time
}

// Touches reports whether the transaction involves the given identity
// as sender or receiver.
func (t *Transaction) Touches(identity string) bool {
	return t.Sender == identity || t.Receiver == identity
}
