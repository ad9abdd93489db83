package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/shift-roster/internal/api/http"
	"github.com/spec-kit/shift-roster/internal/api/http/handlers"
	"github.com/spec-kit/shift-roster/internal/config"
	"github.com/spec-kit/shift-roster/internal/events"
	"github.com/spec-kit/shift-roster/internal/observability"
	"github.com/spec-kit/shift-roster/internal/persistence"
	"github.com/spec-kit/shift-roster/internal/repository"
	"github.com/spec-kit/shift-roster/internal/service"
	"github.com/spec-kit/shift-roster/internal/solver"
	"github.com/spec-kit/shift-roster/internal/worker"
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

	dependencies := map[string]handlers.Pinger{}
	var sessions repository.SessionRepository
	switch cfg.Session.Store {
	case config.StoreRedis:
		redis := persistence.NewRedis(cfg.Redis, logger)
		defer redis.Close()
		sessions = persistence.NewRedisSessionRepository(redis.Client, cfg.Session.TTL())
		dependencies["redis"] = redis
	case config.StorePostgres:
		ctx := context.Background()
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
		sessions = persistence.NewPostgresSessionRepository(pg.PoolHandle(), cfg.Session.TTL())
		dependencies["postgres"] = pg
	default:
		sessions = repository.NewMemorySessionRepository()
	}
	logger.Info("session store ready", zap.String("store", cfg.Session.Store))

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	stopDiagnostics := worker.StartDiagnosticsWorker(service.NewDiagnosticsService(dispatcher, logger, metrics))
	defer stopDiagnostics()

	scheduleService := service.NewScheduleService(service.ScheduleDependencies{
		Sessions:   sessions,
		Driver:     solver.NewDriver(nil, logger),
		Dispatcher: dispatcher,
		Logger:     logger,
		Solver:     cfg.Solver,
		Roster:     cfg.Roster,
	})

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, dependencies),
		Metrics:   handlers.NewMetricsHandler(metrics),
		Schedules: handlers.NewSchedulesHandler(scheduleService),
		Sessions:  handlers.NewSessionsHandler(scheduleService),
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
