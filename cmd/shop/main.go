package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/qiaozhwen/shop-be/internal/app"
	"github.com/qiaozhwen/shop-be/internal/auth"
	"github.com/qiaozhwen/shop-be/internal/customers"
	"github.com/qiaozhwen/shop-be/internal/dashboard"
	"github.com/qiaozhwen/shop-be/internal/finance"
	"github.com/qiaozhwen/shop-be/internal/inventory"
	"github.com/qiaozhwen/shop-be/internal/masterdata/categories"
	"github.com/qiaozhwen/shop-be/internal/masterdata/products"
	"github.com/qiaozhwen/shop-be/internal/masterdata/suppliers"
	"github.com/qiaozhwen/shop-be/internal/observability"
	"github.com/qiaozhwen/shop-be/internal/orders"
	"github.com/qiaozhwen/shop-be/internal/platform/cache"
	"github.com/qiaozhwen/shop-be/internal/platform/db"
	"github.com/qiaozhwen/shop-be/internal/procurement"
	"github.com/qiaozhwen/shop-be/internal/shared"
	"github.com/qiaozhwen/shop-be/internal/staff"
	"github.com/qiaozhwen/shop-be/jobs"
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

	metrics := observability.NewMetrics()

	jobClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	scanQueue := inventory.ScanQueueFunc(func(ctx context.Context) error {
		_, err := jobClient.EnqueueLowStockScan(ctx)
		return err
	})

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	requireAuth := auth.Middleware(tokens)
	audit := shared.NewSystemLogger(pool)

	authService := auth.NewService(logger, auth.NewRepository(pool), tokens, audit)
	staffService := staff.NewService(staff.NewRepository(pool))
	categoryService := categories.NewService(categories.NewRepository(pool))
	productService := products.NewService(products.NewRepository(pool))
	supplierService := suppliers.NewService(suppliers.NewRepository(pool))
	inventoryService := inventory.NewService(inventory.NewRepository(pool))
	financeService := finance.NewService(logger, finance.NewRepository(pool), redisClient)
	customerService := customers.NewService(customers.NewRepository(pool), financeService)
	orderService := orders.NewService(orders.NewRepository(pool))
	procurementService := procurement.NewService(procurement.NewRepository(pool))
	dashboardService := dashboard.NewService(dashboard.NewRepository(pool))

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		AuthHandler:        auth.NewHandler(logger, authService, requireAuth),
		AuthMiddleware:     requireAuth,
		StaffHandler:       staff.NewHandler(logger, staffService),
		CategoryHandler:    categories.NewHandler(logger, categoryService),
		ProductHandler:     products.NewHandler(logger, productService),
		SupplierHandler:    suppliers.NewHandler(logger, supplierService),
		CustomerHandler:    customers.NewHandler(logger, customerService),
		DashboardHandler:   dashboard.NewHandler(logger, dashboardService),
		InventoryHandler:   inventory.NewHandler(logger, inventoryService, scanQueue),
		OrderHandler:       orders.NewHandler(logger, orderService),
		ProcurementHandler: procurement.NewHandler(logger, procurementService),
		FinanceHandler:     finance.NewHandler(logger, financeService),
		Metrics:            metrics,
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
