package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/greenmart/greenmart/internal/app"
	jobmetrics "github.com/greenmart/greenmart/internal/jobs"
	"github.com/greenmart/greenmart/internal/platform/cache"
	"github.com/greenmart/greenmart/internal/platform/db"
	"github.com/greenmart/greenmart/internal/records"
	"github.com/greenmart/greenmart/internal/reports"
	"github.com/greenmart/greenmart/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	// The warmup job only earns its keep when it writes into the same
	// versioned cache the server reads.
	var reportCache *reports.Cache
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, warmup results will not be cached", slog.Any("error", err))
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
		reportCache = reports.NewCache(redisClient, cfg.ReportCacheTTL)
		if err := reportCache.ListenForInvalidation(ctx, ""); err != nil {
			logger.Warn("cache invalidation listener", slog.Any("error", err))
		}
	}

	store := records.NewRepository(pool)
	engine := reports.NewEngine(store, reportCache, logger)
	metrics := jobmetrics.NewMetrics(nil)

	warmup := jobs.NewReportWarmupJob(engine, logger, metrics)

	warmupTask, err := jobs.NewReportWarmupTask(jobs.ReportWarmupPayload{Days: 30})
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:      logger,
		Concurrency: cfg.WorkerConcurrency,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskReportWarmup, Handler: warmup.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.WarmupCron, Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("build worker", slog.Any("error", err))
		os.Exit(1)
	}

	// Warm the cache right away instead of waiting for the first cron tick.
	client, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Warn("asynq client unavailable, skipping initial warmup", slog.Any("error", err))
	} else {
		if _, err := client.EnqueueReportWarmup(ctx, jobs.ReportWarmupPayload{}); err != nil {
			logger.Warn("initial warmup enqueue failed", slog.Any("error", err))
		}
		if err := client.Close(); err != nil {
			logger.Warn("asynq client close", slog.Any("error", err))
		}
	}

	logger.Info("starting worker",
		slog.String("redis", cfg.RedisAddr),
		slog.Int("concurrency", cfg.WorkerConcurrency),
		slog.String("warmup_cron", cfg.WarmupCron))

	if err := worker.Run(ctx); err != nil {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
