package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/qiaozhwen/shop-be/internal/inventory"
	"github.com/qiaozhwen/shop-be/internal/observability"
)

// LowStockScanJob raises alerts for products at or below their reorder
// level.
type LowStockScanJob struct {
	Service *inventory.Service
	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// NewLowStockScanJob initialises the low stock scan handler.
func NewLowStockScanJob(service *inventory.Service, logger *slog.Logger, metrics *observability.Metrics) *LowStockScanJob {
	return &LowStockScanJob{Service: service, Logger: logger, Metrics: metrics}
}

// Handle executes one scan.
func (j *LowStockScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Service == nil {
		return errors.New("low stock scan: handler not configured")
	}
	logger := j.logger()
	start := time.Now()
	tracker := j.Metrics.TrackJob(TaskLowStockScan)

	count, err := j.Service.ScanLowStock(ctx)
	if err != nil {
		logger.Error("scan failed", slog.Any("error", err))
		return tracker.End(err)
	}

	logger.Info("completed low stock scan",
		slog.Int("alerts", count),
		slog.Duration("duration", time.Since(start)),
	)
	return tracker.End(nil)
}

func (j *LowStockScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskLowStockScan))
	}
	return slog.Default().With(slog.String("job", TaskLowStockScan))
}
