package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/qiaozhwen/shop-be/internal/finance"
	"github.com/qiaozhwen/shop-be/internal/observability"
)

// DailySettlementJob rolls one day's orders, payments and expenses into a
// settlement row.
type DailySettlementJob struct {
	Service *finance.Service
	Logger  *slog.Logger
	Metrics *observability.Metrics
	clock   func() time.Time
}

// NewDailySettlementJob initialises the settlement handler.
func NewDailySettlementJob(service *finance.Service, logger *slog.Logger, metrics *observability.Metrics) *DailySettlementJob {
	return &DailySettlementJob{
		Service: service,
		Logger:  logger,
		Metrics: metrics,
		clock:   time.Now,
	}
}

// Handle settles the requested day, defaulting to yesterday.
func (j *DailySettlementJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Service == nil {
		return errors.New("daily settlement: handler not configured")
	}
	var payload DailySettlementPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	day := j.clock().AddDate(0, 0, -1)
	if payload.Date != "" {
		parsed, err := time.Parse("2006-01-02", payload.Date)
		if err != nil {
			return asynq.SkipRetry
		}
		day = parsed
	}

	logger := j.logger().With(slog.String("date", day.Format("2006-01-02")))
	tracker := j.Metrics.TrackJob(TaskDailySettlement)
	settlement, err := j.Service.SettleDay(ctx, day, 0)
	if err != nil {
		logger.Error("settlement failed", slog.Any("error", err))
		return tracker.End(err)
	}

	logger.Info("settled day",
		slog.Float64("sales", settlement.TotalSales),
		slog.Float64("expense", settlement.TotalExpense),
		slog.Float64("profit", settlement.Profit),
	)
	return tracker.End(nil)
}

func (j *DailySettlementJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskDailySettlement))
	}
	return slog.Default().With(slog.String("job", TaskDailySettlement))
}
