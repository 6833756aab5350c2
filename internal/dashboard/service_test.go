package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type daySales struct {
	orders int
	sales  float64
}

type fakeRepo struct {
	counters   Counters
	days       map[string]daySales
	trendStart time.Time
	trendDays  int
	topSince   time.Time
	topLimit   int
	listLimit  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{days: map[string]daySales{}}
}

func (r *fakeRepo) Counters(_ context.Context) (Counters, error) {
	return r.counters, nil
}

func (r *fakeRepo) DaySales(_ context.Context, day time.Time) (int, float64, error) {
	d := r.days[day.Format("2006-01-02")]
	return d.orders, d.sales, nil
}

func (r *fakeRepo) SalesTrend(_ context.Context, start time.Time, days int) ([]TrendPoint, error) {
	r.trendStart = start
	r.trendDays = days
	return nil, nil
}

func (r *fakeRepo) TopProducts(_ context.Context, since time.Time, limit int) ([]TopProduct, error) {
	r.topSince = since
	r.topLimit = limit
	return nil, nil
}

func (r *fakeRepo) CategorySales(_ context.Context, _, _ string) ([]CategorySales, error) {
	return nil, nil
}

func (r *fakeRepo) RecentOrders(_ context.Context, limit int) ([]RecentOrder, error) {
	r.listLimit = limit
	return nil, nil
}

func (r *fakeRepo) LowStock(_ context.Context, limit int) ([]LowStockItem, error) {
	r.listLimit = limit
	return nil, nil
}

func newTestService(repo *fakeRepo) *Service {
	srv := NewService(repo)
	srv.now = func() time.Time { return time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC) }
	return srv
}

func TestOverviewComputesGrowth(t *testing.T) {
	repo := newFakeRepo()
	repo.counters = Counters{ProductCount: 40, CustomerCount: 12, LowStockCount: 3, PendingOrders: 2}
	repo.days["2024-06-15"] = daySales{orders: 8, sales: 250}
	repo.days["2024-06-14"] = daySales{orders: 10, sales: 200}
	srv := newTestService(repo)

	overview, err := srv.Overview(context.Background())
	require.NoError(t, err)
	require.Equal(t, 8, overview.TodayOrders)
	require.Equal(t, 250.0, overview.TodaySales)
	require.Equal(t, 25.0, overview.SalesGrowth)
	require.Equal(t, 40, overview.ProductCount)
	require.Equal(t, 12, overview.CustomerCount)
	require.Equal(t, 3, overview.LowStockCount)
	require.Equal(t, 2, overview.PendingOrders)
}

func TestOverviewGrowthZeroWithoutYesterdaySales(t *testing.T) {
	repo := newFakeRepo()
	repo.days["2024-06-15"] = daySales{orders: 3, sales: 90}
	srv := newTestService(repo)

	overview, err := srv.Overview(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0.0, overview.SalesGrowth)
}

func TestSalesTrendDefaultsAndCapsWindow(t *testing.T) {
	repo := newFakeRepo()
	srv := newTestService(repo)

	_, err := srv.SalesTrend(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, 7, repo.trendDays)
	require.Equal(t, "2024-06-09", repo.trendStart.Format("2006-01-02"))

	_, err = srv.SalesTrend(context.Background(), 365)
	require.NoError(t, err)
	require.Equal(t, 90, repo.trendDays)
}

func TestTopProductsUsesThirtyDayLookback(t *testing.T) {
	repo := newFakeRepo()
	srv := newTestService(repo)

	_, err := srv.TopProducts(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, 10, repo.topLimit)
	require.Equal(t, "2024-05-16", repo.topSince.Format("2006-01-02"))
}

func TestListLimitsAreClamped(t *testing.T) {
	repo := newFakeRepo()
	srv := newTestService(repo)

	_, err := srv.RecentOrders(context.Background(), 500)
	require.NoError(t, err)
	require.Equal(t, 50, repo.listLimit)

	_, err = srv.LowStock(context.Background(), -1)
	require.NoError(t, err)
	require.Equal(t, 10, repo.listLimit)
}
