// Package main wires the HTTP server for the project application workflow.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Aadyothcoding/ece-project-connect/config"
	"github.com/Aadyothcoding/ece-project-connect/internal/metrics"
	"github.com/Aadyothcoding/ece-project-connect/internal/notifier"
	api "github.com/Aadyothcoding/ece-project-connect/internal/oapi"
	"github.com/Aadyothcoding/ece-project-connect/internal/repository"
	"github.com/Aadyothcoding/ece-project-connect/internal/transport/http/middleware"
	"github.com/Aadyothcoding/ece-project-connect/internal/transport/http/server/handlers-fiber"
	"github.com/Aadyothcoding/ece-project-connect/internal/usecase"
	"github.com/Aadyothcoding/ece-project-connect/internal/usecase/domain"
	"github.com/Aadyothcoding/ece-project-connect/internal/worker"
	"github.com/Aadyothcoding/ece-project-connect/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(ctx, cfg, log); err != nil {
		log.Errorw("service stopped with error", "error", err)
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) error {
	repo, err := repository.New(ctx, cfg.Storage.Backend, log, cfg)
	if err != nil {
		return fmt.Errorf("init repository: %w", err)
	}
	if err := repo.OnStart(ctx); err != nil {
		return fmt.Errorf("start repository: %w", err)
	}
	defer func() { _ = repo.OnStop(context.Background()) }()

	seeded, err := repository.LoadSeed(ctx, repo, cfg.Storage.SeedFile)
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	if seeded > 0 {
		log.Infow("catalog seeded", "file", cfg.Storage.SeedFile, "records", seeded)
	}

	uc := usecase.New(log, ctx, repo, cfg.HTTP.RequestTimeout,
		domain.WithRetention(cfg.Workflow.ApplicationTTL, cfg.Workflow.NotificationTTL),
	)

	pub, err := newPublisher(ctx, cfg.Redis, log)
	if err != nil {
		return err
	}
	defer func() { _ = pub.Close() }()

	jobs, err := newScheduler(cfg.Workflow, log, uc, notifier.NewDispatcher(log, repo, pub, cfg.Workflow.DispatchBatch))
	if err != nil {
		return err
	}
	jobs.Start()
	defer jobs.Stop()

	serv := newServer(cfg, log, uc)
	errCh := make(chan error, 1)
	go func() {
		log.Infow("http server listening", "addr", cfg.ServerAddr())
		errCh <- serv.Listen(cfg.ServerAddr())
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	if err := serv.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		log.Warnw("server shutdown incomplete", "timeout", cfg.Server.ShutdownTimeout, "error", err)
	}
	return nil
}

func newPublisher(ctx context.Context, cfg config.RedisConfig, log *zap.SugaredLogger) (notifier.Publisher, error) {
	if cfg.Addr == "" {
		log.Infow("redis not configured, notifications stay in the inbox")
		return notifier.NewLogPublisher(log), nil
	}
	pub, err := notifier.NewRedisPublisher(ctx, cfg.Addr, cfg.Password, cfg.DB, cfg.Channel)
	if err != nil {
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	return pub, nil
}

func newScheduler(
	cfg config.WorkflowConfig,
	log *zap.SugaredLogger,
	uc usecase.RetentionUsecaseInterface,
	dispatcher *notifier.Dispatcher,
) (*worker.Scheduler, error) {
	s := worker.New(log, cfg.JobTimeout)
	jobs := []worker.Job{
		{Name: "retention_sweep", Schedule: cfg.SweepSchedule, Run: uc.Sweep},
		{Name: "notification_dispatch", Schedule: cfg.DispatchSchedule, Run: func(ctx context.Context) error {
			_, err := dispatcher.Dispatch(ctx)
			return err
		}},
	}
	for _, j := range jobs {
		if err := s.Add(j); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func newServer(cfg *config.Config, log *zap.SugaredLogger, uc usecase.InterfaceUsecase) *fiber.App {
	serv := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTP.RequestTimeout,
		WriteTimeout: cfg.HTTP.RequestTimeout,
	})
	serv.Use(recover.New())
	serv.Use(requestid.New())
	serv.Use(middleware.Metrics())

	serv.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	serv.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	group := serv.Group("/api",
		middleware.RequestLogger(log),
		middleware.Auth(log, cfg.Auth.JWTSecret, cfg.Auth.Issuer),
	)
	api.RegisterHandlers(group, handlers_fiber.NewHandler(log, uc))
	return serv
}
