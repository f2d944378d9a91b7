package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	redislib "github.com/redis/go-redis/v9"

	httpAdapter "github.com/Shreyanshxcodes/LedgerPulse/internal/adapter/http"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/adapter/http/handler"
	memoryRepo "github.com/Shreyanshxcodes/LedgerPulse/internal/adapter/repository/memory"
	postgresRepo "github.com/Shreyanshxcodes/LedgerPulse/internal/adapter/repository/postgres"
	redisRepo "github.com/Shreyanshxcodes/LedgerPulse/internal/adapter/repository/redis"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/infrastructure/auth"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/infrastructure/config"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/infrastructure/eventpublisher"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/infrastructure/logger"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/infrastructure/logging"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/infrastructure/metrics"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/infrastructure/postgres"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/infrastructure/redis"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/usecase"

	"github.com/jackc/pgx/v5/pgxpool"
)

// repositories bundles the store-driver-specific implementations.
type repositories struct {
	txManager  usecase.TransactionManager
	ownerRepo  usecase.OwnerRepository
	bookRepo   usecase.BookRepository
	pulseRepo  usecase.PulseRepository
	seqRepo    usecase.SequenceRepository
	outboxRepo usecase.OutboxRepository
	auditRepo  usecase.AuditRepository

	pool        *pgxpool.Pool
	redisClient *redislib.Client
	cache       usecase.Cache
	idempotency usecase.IdempotencyStore
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	workerLog := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	policy, err := cfg.ScoringPolicy()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid scoring configuration")
	}

	ctx := context.Background()

	repos, err := buildRepositories(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build store")
	}
	if repos.pool != nil {
		defer repos.pool.Close()
	}
	if repos.redisClient != nil {
		defer repos.redisClient.Close()
	}

	m := metrics.New()
	idGen := postgresRepo.NewULIDGenerator()

	ownershipUC := usecase.NewOwnershipUseCase(repos.txManager, repos.ownerRepo, repos.outboxRepo, repos.auditRepo, idGen, m)
	bookUC := usecase.NewBookUseCase(repos.txManager, repos.ownerRepo, repos.bookRepo, repos.seqRepo, repos.outboxRepo, repos.auditRepo, idGen, m)
	pulseUC := usecase.NewPulseUseCase(repos.txManager, repos.pulseRepo, repos.seqRepo, repos.outboxRepo, repos.auditRepo, nil, repos.cache, policy, idGen, m)

	// Seed the owner on first boot; a no-op when already initialized.
	if cfg.OwnerIdentity != "" {
		if err := ownershipUC.InitOwner(ctx, cfg.OwnerIdentity); err != nil {
			log.Fatal().Err(err).Msg("failed to initialize owner")
		}
		log.Info().Str("owner", cfg.OwnerIdentity).Msg("owner bootstrap complete")
	}

	var jwtManager *auth.JWTManager
	if cfg.AuthEnabled && cfg.JWTSecret != "" {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
		log.Info().Msg("JWT authentication enabled")
	} else {
		log.Info().Msg("running in header-trust mode")
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		BookHandler:        handler.NewBookHandler(bookUC),
		OwnerHandler:       handler.NewOwnerHandler(ownershipUC),
		PulseHandler:       handler.NewPulseHandler(pulseUC),
		HealthHandler:      handler.NewHealthHandler(repos.pool, repos.redisClient),
		Logger:             log,
		Metrics:            m,
		JWTManager:         jwtManager,
		IdempotencyStore:   repos.idempotency,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		RateLimitPerSecond: cfg.RateLimitPerSecond,
		RateLimitBurst:     cfg.RateLimitBurst,
	})

	// Drain the outbox in the background.
	publisherCtx, stopPublisher := context.WithCancel(ctx)
	defer stopPublisher()
	go runEventPublisher(publisherCtx, cfg, repos.outboxRepo, m, workerLog.Logger)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Str("driver", cfg.StoreDriver).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	stopPublisher()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// buildRepositories wires the configured store driver.
func buildRepositories(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*repositories, error) {
	switch cfg.StoreDriver {
	case "memory":
		store := memoryRepo.NewStore()
		return &repositories{
			txManager:  memoryRepo.NewTxManager(store),
			ownerRepo:  memoryRepo.NewOwnerRepository(store),
			bookRepo:   memoryRepo.NewBookRepository(store),
			pulseRepo:  memoryRepo.NewPulseRepository(store),
			seqRepo:    memoryRepo.NewSequenceRepository(store),
			outboxRepo: memoryRepo.NewOutboxRepository(store),
			auditRepo:  memoryRepo.NewAuditRepository(store),
		}, nil

	case "postgres":
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}

		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		log.Info().Msg("connected to postgres")

		redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		log.Info().Msg("connected to redis")

		return &repositories{
			txManager:   postgresRepo.NewTxManager(pool),
			ownerRepo:   postgresRepo.NewOwnerRepository(pool),
			bookRepo:    postgresRepo.NewBookRepository(pool),
			pulseRepo:   postgresRepo.NewPulseRepository(pool),
			seqRepo:     postgresRepo.NewSequenceRepository(pool),
			outboxRepo:  postgresRepo.NewOutboxRepository(pool),
			auditRepo:   postgresRepo.NewAuditRepository(pool),
			pool:        pool,
			redisClient: redisClient,
			cache:       redisRepo.NewCache(redisClient),
			idempotency: redisRepo.NewIdempotencyStore(redisClient),
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func runEventPublisher(ctx context.Context, cfg *config.Config, outboxRepo usecase.OutboxRepository, m *metrics.Metrics, log *slog.Logger) {
	var publisher eventpublisher.Publisher
	if cfg.WebhookURL != "" {
		publisher = eventpublisher.NewWebhookPublisher(cfg.WebhookURL, log)
	} else {
		publisher = eventpublisher.NewLogPublisher(log)
	}

	ep := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  publisher,
		Logger:     log,
		Metrics:    m,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxInterval,
	})

	if err := ep.Start(ctx); err != nil && err != context.Canceled {
		log.Error("event publisher stopped", slog.String("error", err.Error()))
	}
}
