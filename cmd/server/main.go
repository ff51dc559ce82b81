package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/ledgerlens/internal/adapter/http"
	"github.com/iho/ledgerlens/internal/adapter/http/handler"
	"github.com/iho/ledgerlens/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/ledgerlens/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/ledgerlens/internal/adapter/repository/redis"
	"github.com/iho/ledgerlens/internal/infrastructure/config"
	"github.com/iho/ledgerlens/internal/infrastructure/metrics"
	"github.com/iho/ledgerlens/internal/infrastructure/postgres"
	"github.com/iho/ledgerlens/internal/infrastructure/redis"
	"github.com/iho/ledgerlens/internal/usecase"
	"github.com/iho/ledgerlens/internal/xero"
)

func main() {
	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	ctx := context.Background()

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Connect to PostgreSQL when persistence is configured
	var archive handler.ReportArchive
	healthHandler := handler.NewHealthHandler(nil, redisClient)
	if cfg.DatabaseURL != "" {
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to postgres")
		}
		defer pool.Close()
		log.Info().Msg("connected to postgres")

		if err := postgres.RunMigrations(cfg.DatabaseURL, "migrations"); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}

		reportRepo := postgresRepo.NewReportRepository(pool)
		archive = usecase.NewReportUseCase(reportRepo, postgresRepo.NewULIDGenerator())
		healthHandler = handler.NewHealthHandler(pool, redisClient)
	} else {
		log.Info().Msg("DATABASE_URL not set, report persistence disabled")
	}

	// Accounting platform client
	tokenStore := redisRepo.NewTokenStore(redisClient)
	var tokenOpts []xero.TokenManagerOption
	if cfg.XeroTokenURL != "" {
		tokenOpts = append(tokenOpts, xero.WithTokenURL(cfg.XeroTokenURL))
	}
	tokens := xero.NewTokenManager(cfg.XeroClientID, cfg.XeroClientSecret, tokenStore, log.Logger, tokenOpts...)

	var clientOpts []xero.ClientOption
	if cfg.XeroAPIURL != "" {
		clientOpts = append(clientOpts, xero.WithBaseURL(cfg.XeroAPIURL))
	}
	apiClient := xero.NewClient(cfg.XeroTenantID, tokens, log.Logger, clientOpts...)

	// Initialize use cases
	retrier := usecase.NewRateLimitRetrier(log.Logger)
	cache := redisRepo.NewCache(redisClient)
	aggregateUC := usecase.NewAggregateUseCase(apiClient, tokens, retrier, cache, log.Logger)

	// Initialize handlers
	m := metrics.New()
	reportHandler := handler.NewReportHandler(aggregateUC, archive, m, log.Logger)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		ReportHandler: reportHandler,
		HealthHandler: healthHandler,
		Logging:       middleware.NewLoggingMiddleware(log.Logger),
		RateLimiter:   middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
