// Package app wires the catalog service together: storage, cache, event
// publishing, command and query handlers, and the HTTP server.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/Costin94/LiveOn-Ecommerce/internal/command"
	"github.com/Costin94/LiveOn-Ecommerce/internal/config"
	"github.com/Costin94/LiveOn-Ecommerce/internal/event"
	handler "github.com/Costin94/LiveOn-Ecommerce/internal/handler/http"
	"github.com/Costin94/LiveOn-Ecommerce/internal/query"
	"github.com/Costin94/LiveOn-Ecommerce/internal/repository/postgres"
	"github.com/Costin94/LiveOn-Ecommerce/migrations"
	"github.com/Costin94/LiveOn-Ecommerce/pkg/database"
	"github.com/Costin94/LiveOn-Ecommerce/pkg/health"
	pkgkafka "github.com/Costin94/LiveOn-Ecommerce/pkg/kafka"
)

// App wires together all dependencies and runs the catalog service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	pool       *pgxpool.Pool
	rdb        *redis.Client
	producer   *pkgkafka.Producer
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize the Postgres connection pool.
	pgCfg := cfg.Postgres()
	pool, err := database.NewPostgresPoolWithLogger(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	// The Redis view cache is optional; the service runs without it.
	var rdb *redis.Client
	if cfg.CacheEnabled() {
		rdb, err = database.NewRedisClient(ctx, cfg.Redis())
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info("connected to Redis", slog.String("addr", cfg.Redis().Addr()))
	} else {
		logger.Info("redis view cache disabled")
	}

	// Kafka publishing is optional; without brokers events are dropped.
	var producer *pkgkafka.Producer
	if cfg.EventsEnabled() {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	} else {
		logger.Info("kafka publishing disabled")
	}

	// Build the dependency graph.
	uow := postgres.NewUnitOfWorkFactory(pool)
	events := event.NewPublisher(producer, logger)
	cache := query.NewProductCache(rdb, cfg.ProductCacheTTL)

	products := handler.NewProductHandler(
		command.NewCreateProductHandler(uow, events, logger),
		command.NewUpdateProductHandler(uow, events, logger),
		command.NewDeleteProductHandler(uow, events, logger),
		command.NewUpdateProductStockHandler(uow, events, logger),
		query.NewGetProductByIDHandler(uow, cache, logger),
		query.NewGetProductBySKUHandler(uow),
		query.NewGetAllProductsHandler(uow),
		logger,
	)
	categories := handler.NewCategoryHandler(
		command.NewCreateCategoryHandler(uow, events, logger),
		command.NewUpdateCategoryHandler(uow, events, logger),
		command.NewDeleteCategoryHandler(uow, events, logger),
		query.NewGetCategoryByIDHandler(uow),
		query.NewGetAllCategoriesHandler(uow),
		logger,
	)
	users := handler.NewUserHandler(
		command.NewCreateUserHandler(uow, events, logger),
		command.NewUpdateUserHandler(uow, events, logger),
		command.NewDeleteUserHandler(uow, events, logger),
		command.NewActivateUserHandler(uow, events, logger),
		command.NewDeactivateUserHandler(uow, events, logger),
		query.NewGetUserByIDHandler(uow),
		query.NewGetUserByEmailHandler(uow),
		query.NewGetAllUsersHandler(uow),
		logger,
	)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	if rdb != nil {
		healthHandler.Register("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}
	if producer != nil {
		healthHandler.Register("kafka", func(ctx context.Context) error {
			return producer.Ping(ctx)
		})
	}

	router := handler.NewRouter(products, categories, users, healthHandler, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		pool:       pool,
		rdb:        rdb,
		producer:   producer,
		httpServer: httpServer,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return nil
}
