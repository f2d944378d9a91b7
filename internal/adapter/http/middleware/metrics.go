package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Shreyanshxcodes/LedgerPulse/internal/infrastructure/metrics"
)

// MetricsMiddleware records HTTP request metrics.
type MetricsMiddleware struct {
	metrics *metrics.Metrics
}

// NewMetricsMiddleware creates a new MetricsMiddleware.
func NewMetricsMiddleware(m *metrics.Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: m}
}

// Wrap wraps an http.Handler with metrics collection.
func (m *MetricsMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &metricsRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)

		m.metrics.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		m.metrics.HTTPDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

type metricsRecorder struct {
	http.ResponseWriter

	statusCode int
}

func (r *metricsRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// normalizePath collapses identifier segments so label cardinality stays
// bounded.
func normalizePath(path string) string {
	prefixes := []struct {
		prefix      string
		placeholder string
	}{
		{"/api/v1/book/accounts/", ":account"},
		{"/api/v1/pulse/transactions/", ":hash"},
		{"/api/v1/pulse/identities/", ":identity"},
	}

	for _, p := range prefixes {
		if !strings.HasPrefix(path, p.prefix) {
			continue
		}

		rest := path[len(p.prefix):]
		if rest == "" {
			return path
		}

		if idx := strings.IndexByte(rest, '/'); idx >= 0 {
			return p.prefix + p.placeholder + rest[idx:]
		}
		return p.prefix + p.placeholder
	}

	return path
}
