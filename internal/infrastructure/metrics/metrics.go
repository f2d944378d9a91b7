package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Book metrics
	EntriesRecorded   *prometheus.CounterVec
	EntryAmount       prometheus.Histogram
	BookDuration      prometheus.Histogram
	AccountBalance    *prometheus.GaugeVec
	UnauthorizedCalls *prometheus.CounterVec

	// Ownership metrics
	OwnershipTransfers prometheus.Counter

	// Pulse metrics
	TransactionsRecorded *prometheus.CounterVec
	TransactionAmount    prometheus.Histogram
	RecordDuration       prometheus.Histogram
	DuplicateHashes      prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisDuration   *prometheus.HistogramVec
	RedisErrors     *prometheus.CounterVec

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec
	AuthFailures *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec

	// Outbox metrics
	EventsPublished    *prometheus.CounterVec
	EventPublishErrors prometheus.Counter

	// Audit metrics
	AuditLogsCreated *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Book metrics
		EntriesRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerpulse_entries_recorded_total",
				Help: "Total number of book entries recorded by kind",
			},
			[]string{"kind"},
		),
		EntryAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledgerpulse_entry_amount",
			Help:    "Book entry amounts",
			Buckets: []float64{0.01, 0.1, 1, 10, 100, 1000, 10000, 100000},
		}),
		BookDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledgerpulse_book_operation_duration_seconds",
			Help:    "Duration of book mutations",
			Buckets: prometheus.DefBuckets,
		}),
		AccountBalance: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ledgerpulse_account_balance",
				Help: "Current running balance per account",
			},
			[]string{"account"},
		),
		UnauthorizedCalls: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerpulse_unauthorized_calls_total",
				Help: "Owner-gated operations rejected by caller",
			},
			[]string{"operation"},
		),

		// Ownership metrics
		OwnershipTransfers: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledgerpulse_ownership_transfers_total",
			Help: "Total number of ownership transfers",
		}),

		// Pulse metrics
		TransactionsRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerpulse_transactions_recorded_total",
				Help: "Total number of pulse transactions recorded by category",
			},
			[]string{"category"},
		),
		TransactionAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledgerpulse_transaction_amount",
			Help:    "Pulse transaction amounts",
			Buckets: []float64{0.001, 0.01, 0.1, 1, 10, 100, 1000},
		}),
		RecordDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledgerpulse_record_duration_seconds",
			Help:    "Duration of transaction recording",
			Buckets: prometheus.DefBuckets,
		}),
		DuplicateHashes: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledgerpulse_duplicate_hashes_total",
			Help: "Transactions rejected because their hash was already recorded",
		}),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerpulse_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledgerpulse_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerpulse_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledgerpulse_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "ledgerpulse_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerpulse_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Redis metrics
		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerpulse_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledgerpulse_redis_duration_seconds",
				Help:    "Redis operation duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerpulse_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		// Authentication metrics
		AuthAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerpulse_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),
		AuthFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerpulse_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),

		// Rate limiting metrics
		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerpulse_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),

		// Outbox metrics
		EventsPublished: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerpulse_events_published_total",
				Help: "Total outbox events published by type",
			},
			[]string{"event_type"},
		),
		EventPublishErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledgerpulse_event_publish_errors_total",
			Help: "Total outbox publish failures",
		}),

		// Audit metrics
		AuditLogsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerpulse_audit_logs_total",
				Help: "Total audit logs created",
			},
			[]string{"action", "status"},
		),
	}
}
