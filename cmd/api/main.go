package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/trip-service/internal/api/http"
	"github.com/spec-kit/trip-service/internal/api/http/handlers"
	"github.com/spec-kit/trip-service/internal/auth"
	"github.com/spec-kit/trip-service/internal/config"
	"github.com/spec-kit/trip-service/internal/events"
	"github.com/spec-kit/trip-service/internal/observability"
	"github.com/spec-kit/trip-service/internal/persistence"
	"github.com/spec-kit/trip-service/internal/repository"
	"github.com/spec-kit/trip-service/internal/service"
	"github.com/spec-kit/trip-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	customerRepo := repository.NewCustomerRepository(pool)
	tripRepo := repository.NewTripRepository(pool)

	sessionService := service.NewSessionService(*cfg, service.SessionDependencies{
		UserRepo:     userRepo,
		CustomerRepo: customerRepo,
		Cache:        redis,
		Dispatcher:   dispatcher,
	})
	userService := service.NewUserService(userRepo, cfg.Auth.BcryptCost)
	customerService := service.NewCustomerService(customerRepo, cfg.Auth.BcryptCost)
	tripService := service.NewTripService(tripRepo, customerRepo, dispatcher)

	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger))

	gate := auth.NewGuard(
		sessionService.Codec(),
		sessionService.Ledger(),
		redis,
		userRepo,
		customerRepo,
		cfg.Auth.PrincipalCacheTTL(),
		metrics,
	)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:      handlers.NewAuthHandler(sessionService),
		Users:     handlers.NewUsersHandler(userService),
		Customers: handlers.NewCustomersHandler(customerService),
		Trips:     handlers.NewTripsHandler(tripService),
		Gate:      gate,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
