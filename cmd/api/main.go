package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/appeal-router/internal/api/http"
	"github.com/spec-kit/appeal-router/internal/api/http/handlers"
	"github.com/spec-kit/appeal-router/internal/assignment"
	"github.com/spec-kit/appeal-router/internal/auth"
	"github.com/spec-kit/appeal-router/internal/config"
	"github.com/spec-kit/appeal-router/internal/events"
	"github.com/spec-kit/appeal-router/internal/observability"
	"github.com/spec-kit/appeal-router/internal/persistence"
	"github.com/spec-kit/appeal-router/internal/repository"
	"github.com/spec-kit/appeal-router/internal/service"
	"github.com/spec-kit/appeal-router/internal/worker"
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
	dispatcher := events.NewInMemoryDispatcher(logger)

	pool := pg.PoolHandle()
	operatorRepo := repository.NewOperatorRepository(pool)
	sourceRepo := repository.NewSourceRepository(pool)
	affinityRepo := repository.NewAffinityRepository(pool)
	leadRepo := repository.NewLeadRepository(pool)
	appealRepo := repository.NewAppealRepository(pool)

	var guard assignment.Guard
	if strings.EqualFold(cfg.Assignment.GuardBackend, "redis") {
		guard = assignment.NewRedisGuard(redis.Client, cfg.Assignment.RedisKeyPrefix)
	} else {
		guard = assignment.NewMemoryGuard()
	}
	resolver := assignment.NewResolver(affinityRepo, guard)
	selector := assignment.NewSelector()
	router := assignment.NewRouter(resolver, selector, guard, cfg.Assignment.ResolveRetries)

	appealService := service.NewAppealService(service.AppealDependencies{
		SourceRepo: sourceRepo,
		LeadRepo:   leadRepo,
		AppealRepo: appealRepo,
		Router:     router,
		Guard:      guard,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	operatorService := service.NewOperatorService(service.OperatorDependencies{
		OperatorRepo: operatorRepo,
		SourceRepo:   sourceRepo,
		AffinityRepo: affinityRepo,
		Dispatcher:   dispatcher,
	}, cfg.Auth.BcryptCost)
	sourceService := service.NewSourceService(sourceRepo)
	authService := service.NewAuthService(*cfg, operatorRepo)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)

	if pool != nil {
		if err := appealService.SeedLoads(ctx); err != nil {
			logger.Fatal("failed to seed load counters", zap.Error(err))
		}
		if err := authService.EnsureBootstrapAdmin(ctx, logger); err != nil {
			logger.Fatal("failed to ensure bootstrap admin", zap.Error(err))
		}
	}

	var forwarder *events.AMQPForwarder
	if cfg.Broker.URL != "" {
		forwarder, err = events.NewAMQPForwarder(cfg.Broker.URL, cfg.Broker.Exchange, logger)
		if err != nil {
			logger.Warn("amqp forwarder disabled", zap.Error(err))
		} else {
			defer forwarder.Close()
		}
	}
	worker.StartNotificationWorker(notificationService, forwarder, dispatcher)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), operatorRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Appeals:        handlers.NewAppealsHandler(appealService),
		Operators:      handlers.NewOperatorsHandler(operatorService),
		Sources:        handlers.NewSourcesHandler(sourceService),
		Leads:          handlers.NewLeadsHandler(appealService),
		AuthMiddleware: authMiddleware,
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
