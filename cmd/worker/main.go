package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/qiaozhwen/shop-be/internal/app"
	"github.com/qiaozhwen/shop-be/internal/finance"
	"github.com/qiaozhwen/shop-be/internal/inventory"
	"github.com/qiaozhwen/shop-be/internal/observability"
	"github.com/qiaozhwen/shop-be/internal/platform/cache"
	"github.com/qiaozhwen/shop-be/internal/platform/db"
	"github.com/qiaozhwen/shop-be/jobs"
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, finance summary cache disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	inventoryService := inventory.NewService(inventory.NewRepository(pool))
	financeService := finance.NewService(logger, finance.NewRepository(pool), redisClient)
	metrics := observability.NewMetrics()

	lowStockJob := jobs.NewLowStockScanJob(inventoryService, logger, metrics)
	settlementJob := jobs.NewDailySettlementJob(financeService, logger, metrics)

	lowStockTask, err := jobs.NewLowStockScanTask()
	if err != nil {
		logger.Error("build low stock task", slog.Any("error", err))
		os.Exit(1)
	}
	settlementTask, err := jobs.NewDailySettlementTask("")
	if err != nil {
		logger.Error("build settlement task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskLowStockScan, Handler: lowStockJob.Handle},
			{Type: jobs.TaskDailySettlement, Handler: settlementJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 * * * *", Task: lowStockTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "30 0 * * *", Task: settlementTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
