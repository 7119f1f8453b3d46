package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/staff-service/internal/api/http"
	"github.com/spec-kit/staff-service/internal/api/http/handlers"
	"github.com/spec-kit/staff-service/internal/config"
	"github.com/spec-kit/staff-service/internal/events"
	"github.com/spec-kit/staff-service/internal/observability"
	"github.com/spec-kit/staff-service/internal/persistence"
	"github.com/spec-kit/staff-service/internal/repository"
	"github.com/spec-kit/staff-service/internal/repository/memory"
	"github.com/spec-kit/staff-service/internal/service"
	"github.com/spec-kit/staff-service/internal/storage"
	"github.com/spec-kit/staff-service/internal/worker"
)

func main() {
	root := &cobra.Command{
		Use:           "staff-service",
		Short:         "Staff directory API: users, teams, roles and absences",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), migrateCmd())

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Env)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			if cfg.Postgres.DSN == "" {
				return errors.New("POSTGRES_DSN is required to migrate")
			}
			pg, err := persistence.NewPostgres(cmd.Context(), cfg.Postgres, logger)
			if err != nil {
				return err
			}
			defer pg.Close()
			return persistence.RunMigrations(cmd.Context(), pg.PoolHandle(), logger)
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck
			return serve(cmd.Context(), cfg, logger)
		},
	}
}

func serve(parent context.Context, cfg *config.Config, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Tracing, cfg.App, logger)
	if err != nil {
		return err
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return err
	}
	defer pg.Close()

	var store *repository.Store
	if pool := pg.PoolHandle(); pool != nil {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pool, logger); err != nil {
				return err
			}
		}
		store = repository.NewPostgresStore(pool)
	} else {
		store = memory.NewStore()
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	var publisher service.Publisher
	if redis.Enabled() {
		publisher = redis
	}
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, publisher, logger, metrics, cfg.Notification))

	var avatars service.AvatarStorage
	if cfg.Storage.Bucket != "" {
		avatarStore, err := storage.NewAvatarStore(ctx, cfg.Storage)
		if err != nil {
			return err
		}
		avatars = avatarStore
	} else {
		logger.Warn("S3_BUCKET not provided; avatar uploads disabled")
	}

	deps := service.Dependencies{
		Store:      store,
		Dispatcher: dispatcher,
		Logger:     logger,
		Metrics:    metrics,
		Pagination: cfg.Pagination,
	}

	app := httptransport.NewApp(cfg.App.Name)
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, store, redis),
		Users:    handlers.NewUsersHandler(service.NewUserService(deps, avatars)),
		Teams:    handlers.NewTeamsHandler(service.NewTeamService(deps)),
		Roles:    handlers.NewRolesHandler(service.NewRoleService(deps)),
		Absences: handlers.NewAbsencesHandler(service.NewAbsenceService(deps)),
		Metrics:  metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Error("fiber listen", zap.Error(err))
			cancel()
		}
	}()

	waitForShutdown(ctx, logger)

	shutdownCtx, done := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout())
	defer done()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn("fiber shutdown", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("tracing shutdown", zap.Error(err))
	}
	return nil
}

func waitForShutdown(ctx context.Context, logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case <-ctx.Done():
		logger.Info("shutting down", zap.Error(ctx.Err()))
	}
}
