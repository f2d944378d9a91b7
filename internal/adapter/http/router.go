package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Shreyanshxcodes/LedgerPulse/internal/adapter/http/handler"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/adapter/http/middleware"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/infrastructure/auth"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/infrastructure/metrics"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	BookHandler   *handler.BookHandler
	OwnerHandler  *handler.OwnerHandler
	PulseHandler  *handler.PulseHandler
	HealthHandler *handler.HealthHandler

	Logger  zerolog.Logger
	Metrics *metrics.Metrics

	// JWTManager is nil in header-trust mode.
	JWTManager       *auth.JWTManager
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration

	RateLimitPerSecond float64
	RateLimitBurst     int
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)

	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}

	if cfg.RateLimitPerSecond > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst, cfg.Metrics)
		r.Use(limiter.Limit)
	}

	// Health and metrics endpoints stay outside the API middleware.
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		identity := middleware.NewIdentityMiddleware(cfg.JWTManager, cfg.Metrics)
		r.Use(identity.Wrap)

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotency := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotency.Wrap)
		}

		// Book ledger
		r.Route("/book", func(r chi.Router) {
			r.Post("/credit", cfg.BookHandler.Credit)
			r.Post("/debit", cfg.BookHandler.Debit)
			r.Get("/consistency", cfg.BookHandler.Consistency)
			r.Route("/accounts/{account}", func(r chi.Router) {
				r.Get("/entries", cfg.BookHandler.Entries)
				r.Get("/balance", cfg.BookHandler.Balance)
			})
		})

		// Ownership
		r.Route("/owner", func(r chi.Router) {
			r.Get("/", cfg.OwnerHandler.Show)
			r.Post("/transfer", cfg.OwnerHandler.Transfer)
		})

		// Pulse recorder
		r.Route("/pulse", func(r chi.Router) {
			r.Post("/transactions", cfg.PulseHandler.Record)
			r.Get("/transactions", cfg.PulseHandler.Recent)
			r.Get("/transactions/{hash}", cfg.PulseHandler.Get)
			r.Get("/stats", cfg.PulseHandler.Stats)
			r.Get("/consistency", cfg.PulseHandler.Consistency)
			r.Route("/identities/{identity}", func(r chi.Router) {
				r.Get("/score", cfg.PulseHandler.Score)
				r.Get("/transactions", cfg.PulseHandler.UserTransactions)
			})
		})
	})

	return r
}
