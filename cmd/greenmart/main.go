package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/greenmart/greenmart/internal/app"
	"github.com/greenmart/greenmart/internal/dashboard"
	"github.com/greenmart/greenmart/internal/observability"
	"github.com/greenmart/greenmart/internal/platform/cache"
	"github.com/greenmart/greenmart/internal/platform/db"
	"github.com/greenmart/greenmart/internal/records"
	"github.com/greenmart/greenmart/internal/reports"
	reporthttp "github.com/greenmart/greenmart/internal/reports/http"
	"github.com/greenmart/greenmart/internal/subscriptions"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	var reportCache *reports.Cache
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		// Reports still generate without Redis; every call recomputes.
		logger.Warn("redis unavailable, report cache disabled", slog.Any("error", err))
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

	metrics := observability.NewMetrics()

	store := records.NewRepository(pool)
	engine := reports.NewEngine(store, reportCache, logger)
	reportHandler := reporthttp.NewHandler(logger, engine, metrics)

	dashboardService := dashboard.NewService(store)
	dashboardHandler := dashboard.NewHandler(logger, dashboardService)
	subscriptionHandler := subscriptions.NewHandler(logger, store)

	router := app.NewRouter(app.RouterParams{
		Logger:              logger,
		Config:              cfg,
		ReportHandler:       reportHandler,
		DashboardHandler:    dashboardHandler,
		SubscriptionHandler: subscriptionHandler,
		Metrics:             metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
