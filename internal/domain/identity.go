package domain

import (
	"context"
	"fmt"
	"strings"
)

// MaxIdentityLength bounds account and identity strings. Identities are
// opaque to the ledger; the bound only guards storage keys.
const MaxIdentityLength = 256

// ValidateIdentity checks that an account or identity string is usable
// as a ledger key.
func ValidateIdentity(identity string) error {
	if strings.TrimSpace(identity) == "" {
		return ErrEmptyIdentity
	}

	if len(identity) > MaxIdentityLength {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrIdentityTooLong, len(identity), MaxIdentityLength)
	}

	return nil
}

type contextKey string

const callerContextKey contextKey = "caller"

// WithCaller returns a context carrying the caller identity supplied by
// the transport layer.
func WithCaller(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, callerContextKey, identity)
}

// CallerFromContext extracts the caller identity set by WithCaller.
func CallerFromContext(ctx context.Context) (string, bool) {
	identity, ok := ctx.Value(callerContextKey).(string)
	if !ok || identity == "" {
		return "", false
	}

	return identity, true
}
