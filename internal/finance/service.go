package finance

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/qiaozhwen/shop-be/internal/platform/db"
	"github.com/qiaozhwen/shop-be/internal/shared"
)

// summaryCacheTTL bounds how stale a cached summary can get. Manual record
// creation invalidates eagerly; ledger rows posted inside order and purchase
// payment transactions surface once the TTL lapses.
const summaryCacheTTL = 5 * time.Minute

// RepositoryPort defines data access methods for the ledger.
type RepositoryPort interface {
	CreateRecord(ctx context.Context, rec Record) error
	ListRecords(ctx context.Context, filter RecordFilter) ([]Record, int, error)
	Summarize(ctx context.Context, startDate, endDate string) (float64, float64, error)
	ListSettlements(ctx context.Context, page shared.PageRequest) ([]Settlement, int, error)
	SettleDay(ctx context.Context, day time.Time, operatorID int64) (*Settlement, error)
}

// Service handles ledger business logic.
type Service struct {
	logger *slog.Logger
	repo   RepositoryPort
	cache  *redis.Client
	now    func() time.Time
}

// NewService builds a Service instance. cache may be nil; summaries are
// then computed on every call.
func NewService(logger *slog.Logger, repo RepositoryPort, cache *redis.Client) *Service {
	return &Service{logger: logger, repo: repo, cache: cache, now: time.Now}
}

// CreateRecord books a manual ledger entry.
func (s *Service) CreateRecord(ctx context.Context, rec Record) (*Record, error) {
	if !validType(rec.Type) {
		return nil, fmt.Errorf("%w: type must be income or expense", shared.ErrValidation)
	}
	if !validCategory(rec.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", shared.ErrValidation, rec.Category)
	}
	if rec.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", shared.ErrValidation)
	}

	now := s.now()
	rec.RecordNo = shared.DocNumber("FIN", now)
	if rec.RecordAt.IsZero() {
		rec.RecordAt = now
	}
	if rec.OperatorID == 0 {
		rec.OperatorID = shared.OperatorID(ctx)
	}
	if err := s.repo.CreateRecord(ctx, rec); err != nil {
		return nil, err
	}
	s.invalidateSummary(ctx)
	return &rec, nil
}

// ListRecords returns ledger rows.
func (s *Service) ListRecords(ctx context.Context, filter RecordFilter) ([]Record, int, error) {
	return s.repo.ListRecords(ctx, filter)
}

// Summary aggregates income and expense over an inclusive date range.
// Results are cached briefly since dashboards poll this endpoint.
func (s *Service) Summary(ctx context.Context, startDate, endDate string) (*Summary, error) {
	if startDate == "" {
		startDate = s.now().Format("2006-01-02")
	}
	if endDate == "" {
		endDate = s.now().Format("2006-01-02")
	}

	key := summaryCacheKey(startDate, endDate)
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			var cached Summary
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	income, expense, err := s.repo.Summarize(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}
	summary := &Summary{
		TotalIncome:  income,
		TotalExpense: expense,
		Profit:       income - expense,
		StartDate:    startDate,
		EndDate:      endDate,
	}

	if s.cache != nil {
		if raw, err := json.Marshal(summary); err == nil {
			if err := s.cache.Set(ctx, key, raw, summaryCacheTTL).Err(); err != nil {
				s.logger.Warn("cache summary", slog.Any("error", err))
			}
		}
	}
	return summary, nil
}

// Settlements returns daily closings.
func (s *Service) Settlements(ctx context.Context, page shared.PageRequest) ([]Settlement, int, error) {
	return s.repo.ListSettlements(ctx, page)
}

// SettleDay closes the books for one calendar day.
func (s *Service) SettleDay(ctx context.Context, day time.Time, operatorID int64) (*Settlement, error) {
	return s.repo.SettleDay(ctx, day, operatorID)
}

// RecordCustomerRepay books the income side of a customer repayment in the
// caller's transaction.
func (s *Service) RecordCustomerRepay(ctx context.Context, q db.Querier, customerID int64, amount float64, method, remark string, operatorID int64) error {
	now := s.now()
	related := customerID
	return PostRecord(ctx, q, Record{
		RecordNo:      shared.DocNumber("FIN", now),
		Type:          TypeIncome,
		Category:      CategoryCustomerRepay,
		Amount:        amount,
		PaymentMethod: method,
		RelatedType:   "customer",
		RelatedID:     &related,
		Description:   "customer repayment",
		Remark:        remark,
		OperatorID:    operatorID,
		RecordAt:      now,
	})
}

func (s *Service) invalidateSummary(ctx context.Context) {
	if s.cache == nil {
		return
	}
	iter := s.cache.Scan(ctx, 0, "finance:summary:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.cache.Del(ctx, iter.Val()).Err(); err != nil {
			s.logger.Warn("invalidate summary cache", slog.Any("error", err))
			return
		}
	}
	if err := iter.Err(); err != nil {
		s.logger.Warn("scan summary cache", slog.Any("error", err))
	}
}

func summaryCacheKey(startDate, endDate string) string {
	return "finance:summary:" + startDate + ":" + endDate
}
