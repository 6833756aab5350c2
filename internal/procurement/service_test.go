package procurement

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/qiaozhwen/shop-be/internal/masterdata/products"
	"github.com/qiaozhwen/shop-be/internal/shared"
)

type fakeStock struct {
	quantity int
	weight   float64
}

type fakeRepo struct {
	productUnits map[int64]string
	orders       map[int64]*PurchaseOrder
	items        map[int64][]Item
	stock        map[int64]*fakeStock
	expenses     []float64
	nextID       int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		productUnits: map[int64]string{},
		orders:       map[int64]*PurchaseOrder{},
		items:        map[int64][]Item{},
		stock:        map[int64]*fakeStock{},
	}
}

func (f *fakeRepo) List(ctx context.Context, filter ListFilter) ([]PurchaseOrder, int, error) {
	out := make([]PurchaseOrder, 0, len(f.orders))
	for _, p := range f.orders {
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Get(ctx context.Context, id int64) (*PurchaseOrder, []Item, error) {
	p, ok := f.orders[id]
	if !ok {
		return nil, nil, shared.ErrNotFound
	}
	cp := *p
	return &cp, f.items[id], nil
}

func (f *fakeRepo) Create(ctx context.Context, purchaseNo string, input CreateInput, now time.Time) (*PurchaseOrder, error) {
	f.nextID++
	order := &PurchaseOrder{
		ID:            f.nextID,
		PurchaseNo:    purchaseNo,
		SupplierID:    input.SupplierID,
		PaymentStatus: PayUnpaid,
		Status:        StatusPending,
		ExpectedAt:    input.ExpectedAt,
		OperatorID:    input.OperatorID,
		CreatedAt:     now,
	}
	var items []Item
	for _, line := range input.Items {
		unit, ok := f.productUnits[line.ProductID]
		if !ok {
			return nil, shared.ErrNotFound
		}
		amount := lineAmount(unit, line.Quantity, line.Weight, line.UnitPrice)
		items = append(items, Item{
			PurchaseID: order.ID,
			ProductID:  line.ProductID,
			Quantity:   line.Quantity,
			Weight:     line.Weight,
			UnitPrice:  line.UnitPrice,
			Amount:     amount,
		})
		order.TotalQuantity += line.Quantity
		order.TotalWeight += line.Weight
		order.TotalAmount = round2(order.TotalAmount + amount)
	}
	f.orders[order.ID] = order
	f.items[order.ID] = items
	cp := *order
	return &cp, nil
}

func (f *fakeRepo) Confirm(ctx context.Context, id int64) (*PurchaseOrder, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	if err := order.CanConfirm(); err != nil {
		return nil, err
	}
	order.Status = StatusConfirmed
	cp := *order
	return &cp, nil
}

func (f *fakeRepo) Receive(ctx context.Context, id int64, now time.Time) (*PurchaseOrder, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	if err := order.CanReceive(); err != nil {
		return nil, err
	}
	items := f.items[id]
	for i, it := range items {
		stock := f.stock[it.ProductID]
		if stock == nil {
			stock = &fakeStock{}
			f.stock[it.ProductID] = stock
		}
		stock.quantity += it.Quantity
		stock.weight += it.Weight
		items[i].ReceivedQuantity = it.Quantity
	}
	order.Status = StatusReceived
	order.ReceivedAt = &now
	cp := *order
	return &cp, nil
}

func (f *fakeRepo) Cancel(ctx context.Context, id int64) error {
	order, ok := f.orders[id]
	if !ok {
		return shared.ErrNotFound
	}
	if err := order.CanCancel(); err != nil {
		return err
	}
	order.Status = StatusCancelled
	return nil
}

func (f *fakeRepo) Pay(ctx context.Context, id int64, input PayInput, now time.Time) (*PurchaseOrder, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	if err := order.ApplyPayment(input.Amount); err != nil {
		return nil, err
	}
	f.expenses = append(f.expenses, input.Amount)
	cp := *order
	return &cp, nil
}

func (f *fakeRepo) Statistics(ctx context.Context, startDate, endDate string) (*Statistics, error) {
	var stats Statistics
	for _, p := range f.orders {
		stats.TotalOrders++
		stats.TotalAmount += p.TotalAmount
		stats.PaidAmount += p.PaidAmount
		switch p.Status {
		case StatusPending:
			stats.PendingCount++
		case StatusConfirmed:
			stats.ConfirmedCount++
		}
	}
	stats.UnpaidAmount = stats.TotalAmount - stats.PaidAmount
	return &stats, nil
}

func newTestService(repo *fakeRepo) *Service {
	srv := NewService(repo)
	srv.now = func() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC) }
	return srv
}

func TestCreateComputesTotals(t *testing.T) {
	repo := newFakeRepo()
	repo.productUnits[1] = products.UnitPiece
	repo.productUnits[2] = products.UnitWeight
	srv := newTestService(repo)

	order, err := srv.Create(context.Background(), CreateInput{
		SupplierID: 3,
		Items: []LineInput{
			{ProductID: 1, Quantity: 10, UnitPrice: 2.5},
			{ProductID: 2, Quantity: 1, Weight: 20, UnitPrice: 15},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 325.0, order.TotalAmount)
	require.Equal(t, 11, order.TotalQuantity)
	require.Equal(t, 20.0, order.TotalWeight)
	require.Equal(t, StatusPending, order.Status)
	require.Equal(t, PayUnpaid, order.PaymentStatus)
	require.Empty(t, repo.stock)
}

func TestCreateValidatesInput(t *testing.T) {
	srv := newTestService(newFakeRepo())

	_, err := srv.Create(context.Background(), CreateInput{SupplierID: 0})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = srv.Create(context.Background(), CreateInput{SupplierID: 1})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = srv.Create(context.Background(), CreateInput{
		SupplierID: 1,
		Items:      []LineInput{{ProductID: 1, Quantity: 0}},
	})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestConfirmOnlyFromPending(t *testing.T) {
	repo := newFakeRepo()
	repo.productUnits[1] = products.UnitPiece
	srv := newTestService(repo)

	order, err := srv.Create(context.Background(), CreateInput{
		SupplierID: 1,
		Items:      []LineInput{{ProductID: 1, Quantity: 5, UnitPrice: 1}},
	})
	require.NoError(t, err)

	order, err = srv.Confirm(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, StatusConfirmed, order.Status)

	_, err = srv.Confirm(context.Background(), order.ID)
	require.ErrorIs(t, err, shared.ErrInvalidTransition)
}

func TestReceiveCreditsStockOnce(t *testing.T) {
	repo := newFakeRepo()
	repo.productUnits[1] = products.UnitWeight
	srv := newTestService(repo)

	order, err := srv.Create(context.Background(), CreateInput{
		SupplierID: 1,
		Items:      []LineInput{{ProductID: 1, Quantity: 2, Weight: 40, UnitPrice: 8}},
	})
	require.NoError(t, err)
	_, err = srv.Confirm(context.Background(), order.ID)
	require.NoError(t, err)

	order, err = srv.Receive(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, StatusReceived, order.Status)
	require.NotNil(t, order.ReceivedAt)
	require.Equal(t, 2, repo.stock[1].quantity)
	require.Equal(t, 40.0, repo.stock[1].weight)
	require.Equal(t, 2, repo.items[order.ID][0].ReceivedQuantity)

	_, err = srv.Receive(context.Background(), order.ID)
	require.ErrorIs(t, err, shared.ErrInvalidTransition)
	require.Equal(t, 2, repo.stock[1].quantity)
}

func TestCancelRejectsReceivedOrder(t *testing.T) {
	repo := newFakeRepo()
	repo.productUnits[1] = products.UnitPiece
	srv := newTestService(repo)

	order, err := srv.Create(context.Background(), CreateInput{
		SupplierID: 1,
		Items:      []LineInput{{ProductID: 1, Quantity: 1, UnitPrice: 1}},
	})
	require.NoError(t, err)
	_, err = srv.Receive(context.Background(), order.ID)
	require.NoError(t, err)

	require.ErrorIs(t, srv.Cancel(context.Background(), order.ID), shared.ErrInvalidTransition)
}

func TestPayProgressesToSettled(t *testing.T) {
	repo := newFakeRepo()
	repo.productUnits[1] = products.UnitPiece
	srv := newTestService(repo)

	order, err := srv.Create(context.Background(), CreateInput{
		SupplierID: 1,
		Items:      []LineInput{{ProductID: 1, Quantity: 10, UnitPrice: 10}},
	})
	require.NoError(t, err)

	order, err = srv.Pay(context.Background(), order.ID, PayInput{Amount: 30})
	require.NoError(t, err)
	require.Equal(t, PayPartial, order.PaymentStatus)

	order, err = srv.Pay(context.Background(), order.ID, PayInput{Amount: 70})
	require.NoError(t, err)
	require.Equal(t, PayPaid, order.PaymentStatus)
	require.Equal(t, 100.0, order.PaidAmount)
	require.Len(t, repo.expenses, 2)
}

func TestPayRejectsOverpayment(t *testing.T) {
	repo := newFakeRepo()
	repo.productUnits[1] = products.UnitPiece
	srv := newTestService(repo)

	order, err := srv.Create(context.Background(), CreateInput{
		SupplierID: 1,
		Items:      []LineInput{{ProductID: 1, Quantity: 1, UnitPrice: 50}},
	})
	require.NoError(t, err)

	_, err = srv.Pay(context.Background(), order.ID, PayInput{Amount: 60})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = srv.Pay(context.Background(), order.ID, PayInput{Amount: 0})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestPayRejectsCancelledOrder(t *testing.T) {
	repo := newFakeRepo()
	repo.productUnits[1] = products.UnitPiece
	srv := newTestService(repo)

	order, err := srv.Create(context.Background(), CreateInput{
		SupplierID: 1,
		Items:      []LineInput{{ProductID: 1, Quantity: 1, UnitPrice: 50}},
	})
	require.NoError(t, err)
	require.NoError(t, srv.Cancel(context.Background(), order.ID))

	_, err = srv.Pay(context.Background(), order.ID, PayInput{Amount: 10})
	require.ErrorIs(t, err, shared.ErrInvalidTransition)
}
