package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DeriveTransactionHash computes the canonical identifier for a pulse
// transaction: a hex SHA-256 over the pipe-joined transaction content.
// The sequence number keeps otherwise identical transfers recorded in
// the same instant distinct.
func DeriveTransactionHash(sender, receiver string, amount decimal.Decimal, recordedAt time.Time, seq uint64) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%d|%d", sender, receiver, amount.String(), recordedAt.UTC().UnixNano(), seq)

	return hex.EncodeToString(h.Sum(nil))
}
