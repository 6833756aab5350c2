package inventory

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/qiaozhwen/shop-be/internal/shared"
)

type fakeRepo struct {
	stock     map[int64]*Item
	inbound   []InboundRecord
	outbound  []OutboundRecord
	alerts    []Alert
	lowRows   []Alert
	nextRecID int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{stock: map[int64]*Item{}, nextRecID: 1}
}

func (r *fakeRepo) List(_ context.Context, _ ListFilter) ([]Item, int, error) {
	var list []Item
	for _, it := range r.stock {
		list = append(list, *it)
	}
	return list, len(list), nil
}

func (r *fakeRepo) CreateInbound(_ context.Context, rec InboundRecord) (*InboundRecord, error) {
	rec.ID = r.nextRecID
	r.nextRecID++
	it, ok := r.stock[rec.ProductID]
	if !ok {
		it = &Item{ProductID: rec.ProductID}
		r.stock[rec.ProductID] = it
	}
	it.Quantity += rec.Quantity
	it.TotalWeight += rec.Weight
	r.inbound = append(r.inbound, rec)
	return &rec, nil
}

func (r *fakeRepo) CreateOutbound(_ context.Context, rec OutboundRecord) (*OutboundRecord, error) {
	it, ok := r.stock[rec.ProductID]
	if !ok || it.Quantity < rec.Quantity {
		return nil, shared.ErrInsufficientStock
	}
	rec.ID = r.nextRecID
	r.nextRecID++
	it.Quantity -= rec.Quantity
	it.TotalWeight -= rec.Weight
	if it.TotalWeight < 0 {
		it.TotalWeight = 0
	}
	r.outbound = append(r.outbound, rec)
	return &rec, nil
}

func (r *fakeRepo) ListInbound(_ context.Context, _ RecordFilter) ([]InboundRecord, int, error) {
	return r.inbound, len(r.inbound), nil
}

func (r *fakeRepo) ListOutbound(_ context.Context, _ RecordFilter) ([]OutboundRecord, int, error) {
	return r.outbound, len(r.outbound), nil
}

func (r *fakeRepo) ListAlerts(_ context.Context, _ *int16, _ shared.PageRequest) ([]Alert, int, error) {
	return r.alerts, len(r.alerts), nil
}

func (r *fakeRepo) HandleAlert(_ context.Context, id, staffID int64) error {
	for i := range r.alerts {
		if r.alerts[i].ID == id && r.alerts[i].Handled == 0 {
			now := time.Now()
			r.alerts[i].Handled = 1
			r.alerts[i].HandledBy = &staffID
			r.alerts[i].HandledAt = &now
			return nil
		}
	}
	return shared.ErrNotFound
}

func (r *fakeRepo) LowStockRows(_ context.Context) ([]Alert, error) {
	return r.lowRows, nil
}

func (r *fakeRepo) RecordAlert(_ context.Context, alert Alert) error {
	for _, a := range r.alerts {
		if a.ProductID == alert.ProductID && a.Handled == 0 {
			return nil
		}
	}
	alert.ID = int64(len(r.alerts) + 1)
	r.alerts = append(r.alerts, alert)
	return nil
}

func TestPostInboundCreditsNewStockRow(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC) }

	rec, err := svc.PostInbound(context.Background(), InboundRecord{ProductID: 5, Quantity: 20, Weight: 44.5, OperatorID: 3})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(rec.InboundNo, "IN20240115103000"), rec.InboundNo)
	require.Equal(t, InboundPurchase, rec.Type)

	require.Equal(t, 20, repo.stock[5].Quantity)
	require.InDelta(t, 44.5, repo.stock[5].TotalWeight, 0.001)
}

func TestPostOutboundRejectsInsufficientStock(t *testing.T) {
	repo := newFakeRepo()
	repo.stock[5] = &Item{ProductID: 5, Quantity: 3}
	svc := NewService(repo)

	_, err := svc.PostOutbound(context.Background(), OutboundRecord{ProductID: 5, Quantity: 4, OperatorID: 3})
	require.ErrorIs(t, err, shared.ErrInsufficientStock)
	require.Equal(t, 3, repo.stock[5].Quantity)
}

func TestPostOutboundDebitsStock(t *testing.T) {
	repo := newFakeRepo()
	repo.stock[5] = &Item{ProductID: 5, Quantity: 10, TotalWeight: 25}
	svc := NewService(repo)

	rec, err := svc.PostOutbound(context.Background(), OutboundRecord{ProductID: 5, Quantity: 4, Weight: 9.5, OperatorID: 3})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(rec.OutboundNo, "OUT"))
	require.Equal(t, OutboundSale, rec.Type)

	require.Equal(t, 6, repo.stock[5].Quantity)
	require.InDelta(t, 15.5, repo.stock[5].TotalWeight, 0.001)
}

func TestPostInboundValidatesQuantity(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.PostInbound(context.Background(), InboundRecord{ProductID: 5, Quantity: 0})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestScanLowStockRecordsAlertsOnce(t *testing.T) {
	repo := newFakeRepo()
	repo.lowRows = []Alert{
		{ProductID: 1, CurrentStock: 2, MinStock: 5, AlertLevel: AlertWarning},
		{ProductID: 2, CurrentStock: 0, MinStock: 3, AlertLevel: AlertCritical},
	}
	svc := NewService(repo)

	flagged, err := svc.ScanLowStock(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, flagged)
	require.Len(t, repo.alerts, 2)

	// A second scan must not duplicate unhandled alerts.
	_, err = svc.ScanLowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, repo.alerts, 2)
}
