package dashboard

import (
	"context"
	"math"
	"time"
)

const (
	defaultTrendDays   = 7
	maxTrendDays       = 90
	defaultListLimit   = 10
	maxListLimit       = 50
	topProductLookback = 30
)

// RepositoryPort defines the read-only aggregations behind the dashboard.
type RepositoryPort interface {
	Counters(ctx context.Context) (Counters, error)
	DaySales(ctx context.Context, day time.Time) (int, float64, error)
	SalesTrend(ctx context.Context, start time.Time, days int) ([]TrendPoint, error)
	TopProducts(ctx context.Context, since time.Time, limit int) ([]TopProduct, error)
	CategorySales(ctx context.Context, startDate, endDate string) ([]CategorySales, error)
	RecentOrders(ctx context.Context, limit int) ([]RecentOrder, error)
	LowStock(ctx context.Context, limit int) ([]LowStockItem, error)
}

// Service assembles dashboard views.
type Service struct {
	repo RepositoryPort
	now  func() time.Time
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Overview collects today's headline figures. Growth compares today's
// sales against yesterday's and is zero when yesterday had none.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	counters, err := s.repo.Counters(ctx)
	if err != nil {
		return nil, err
	}

	today := s.now()
	todayOrders, todaySales, err := s.repo.DaySales(ctx, today)
	if err != nil {
		return nil, err
	}
	_, yesterdaySales, err := s.repo.DaySales(ctx, today.AddDate(0, 0, -1))
	if err != nil {
		return nil, err
	}

	var growth float64
	if yesterdaySales > 0 {
		growth = round1((todaySales - yesterdaySales) / yesterdaySales * 100)
	}

	return &Overview{
		TodayOrders:   todayOrders,
		TodaySales:    todaySales,
		SalesGrowth:   growth,
		ProductCount:  counters.ProductCount,
		CustomerCount: counters.CustomerCount,
		LowStockCount: counters.LowStockCount,
		PendingOrders: counters.PendingOrders,
	}, nil
}

// SalesTrend returns daily figures for the trailing window ending today.
func (s *Service) SalesTrend(ctx context.Context, days int) ([]TrendPoint, error) {
	if days <= 0 {
		days = defaultTrendDays
	}
	if days > maxTrendDays {
		days = maxTrendDays
	}
	start := s.now().AddDate(0, 0, -(days - 1))
	return s.repo.SalesTrend(ctx, start, days)
}

// TopProducts ranks sales over the last thirty days.
func (s *Service) TopProducts(ctx context.Context, limit int) ([]TopProduct, error) {
	since := s.now().AddDate(0, 0, -topProductLookback)
	return s.repo.TopProducts(ctx, since, clampLimit(limit))
}

// CategorySales aggregates sold lines per category. Empty dates leave the
// range unbounded on that side.
func (s *Service) CategorySales(ctx context.Context, startDate, endDate string) ([]CategorySales, error) {
	return s.repo.CategorySales(ctx, startDate, endDate)
}

// RecentOrders returns the newest orders for the activity feed.
func (s *Service) RecentOrders(ctx context.Context, limit int) ([]RecentOrder, error) {
	return s.repo.RecentOrders(ctx, clampLimit(limit))
}

// LowStock lists products at or below their stock floor.
func (s *Service) LowStock(ctx context.Context, limit int) ([]LowStockItem, error) {
	return s.repo.LowStock(ctx, clampLimit(limit))
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
