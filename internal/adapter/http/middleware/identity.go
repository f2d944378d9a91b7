package middleware

import (
	"net/http"
	"strings"

	"github.com/Shreyanshxcodes/LedgerPulse/internal/domain"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/infrastructure/auth"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/infrastructure/metrics"
)

// CallerIDHeader names the header carrying the caller identity when JWT
// authentication is disabled.
const CallerIDHeader = "X-Caller-Id"

// IdentityMiddleware resolves the caller identity for every request and
// stores it on the context. With a JWT manager the identity comes from a
// Bearer token; without one it comes from the X-Caller-Id header. Reads
// work without an identity; mutating handlers reject its absence.
type IdentityMiddleware struct {
	jwtManager *auth.JWTManager
	metrics    *metrics.Metrics
}

// NewIdentityMiddleware creates an IdentityMiddleware. Pass a nil
// jwtManager to run in header-trust mode.
func NewIdentityMiddleware(jwtManager *auth.JWTManager, m *metrics.Metrics) *IdentityMiddleware {
	return &IdentityMiddleware{jwtManager: jwtManager, metrics: m}
}

// Wrap wraps an http.Handler with caller-identity extraction.
func (m *IdentityMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.jwtManager == nil {
			if identity := r.Header.Get(CallerIDHeader); identity != "" {
				r = r.WithContext(domain.WithCaller(r.Context(), identity))
			}
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			// Anonymous request; read-only handlers still work.
			next.ServeHTTP(w, r)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			m.countAuth("failure", "malformed_header")
			http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
			return
		}

		claims, err := m.jwtManager.Verify(parts[1])
		if err != nil {
			m.countAuth("failure", "invalid_token")
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		m.countAuth("success", "")
		ctx := domain.WithCaller(r.Context(), claims.Identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *IdentityMiddleware) countAuth(status, reason string) {
	if m.metrics == nil {
		return
	}
	m.metrics.AuthAttempts.WithLabelValues(status).Inc()
	if reason != "" {
		m.metrics.AuthFailures.WithLabelValues(reason).Inc()
	}
}
