package finance

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/qiaozhwen/shop-be/internal/shared"
)

type fakeRepo struct {
	records       []Record
	summarizeHits int
	income        float64
	expense       float64
}

func (r *fakeRepo) CreateRecord(_ context.Context, rec Record) error {
	for _, existing := range r.records {
		if existing.RecordNo == rec.RecordNo {
			return shared.ErrDuplicateRecordNumber
		}
	}
	rec.ID = int64(len(r.records) + 1)
	r.records = append(r.records, rec)
	return nil
}

func (r *fakeRepo) ListRecords(_ context.Context, _ RecordFilter) ([]Record, int, error) {
	return r.records, len(r.records), nil
}

func (r *fakeRepo) Summarize(_ context.Context, _, _ string) (float64, float64, error) {
	r.summarizeHits++
	return r.income, r.expense, nil
}

func (r *fakeRepo) ListSettlements(_ context.Context, _ shared.PageRequest) ([]Settlement, int, error) {
	return nil, 0, nil
}

func (r *fakeRepo) SettleDay(_ context.Context, day time.Time, operatorID int64) (*Settlement, error) {
	return &Settlement{SettleDate: day, OperatorID: &operatorID}, nil
}

func newTestService(t *testing.T, repo RepositoryPort) (*Service, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(logger, repo, cache), srv
}

func TestCreateRecordAssignsNumber(t *testing.T) {
	repo := &fakeRepo{}
	svc, _ := newTestService(t, repo)
	svc.now = func() time.Time { return time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC) }

	rec, err := svc.CreateRecord(context.Background(), Record{
		Type:       TypeExpense,
		Category:   CategoryRent,
		Amount:     2000,
		OperatorID: 4,
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(rec.RecordNo, "FIN20240115103000"), rec.RecordNo)
	require.Len(t, repo.records, 1)
}

func TestCreateRecordValidates(t *testing.T) {
	svc, _ := newTestService(t, &fakeRepo{})

	_, err := svc.CreateRecord(context.Background(), Record{Type: "transfer", Category: CategoryOther, Amount: 10})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.CreateRecord(context.Background(), Record{Type: TypeIncome, Category: "bribes", Amount: 10})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.CreateRecord(context.Background(), Record{Type: TypeIncome, Category: CategorySale, Amount: 0})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestSummaryCachesResult(t *testing.T) {
	repo := &fakeRepo{income: 900, expense: 300}
	svc, _ := newTestService(t, repo)

	first, err := svc.Summary(context.Background(), "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	require.InDelta(t, 900, first.TotalIncome, 0.001)
	require.InDelta(t, 600, first.Profit, 0.001)
	require.Equal(t, 1, repo.summarizeHits)

	// Second call must come from the cache.
	second, err := svc.Summary(context.Background(), "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, repo.summarizeHits)
}

func TestCreateRecordInvalidatesSummaryCache(t *testing.T) {
	repo := &fakeRepo{income: 100}
	svc, srv := newTestService(t, repo)

	_, err := svc.Summary(context.Background(), "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	require.True(t, srv.Exists("finance:summary:2024-01-01:2024-01-31"))

	_, err = svc.CreateRecord(context.Background(), Record{Type: TypeIncome, Category: CategorySale, Amount: 50, OperatorID: 1})
	require.NoError(t, err)
	require.False(t, srv.Exists("finance:summary:2024-01-01:2024-01-31"))

	_, err = svc.Summary(context.Background(), "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	require.Equal(t, 2, repo.summarizeHits)
}
