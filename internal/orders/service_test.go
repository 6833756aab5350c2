package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/qiaozhwen/shop-be/internal/masterdata/products"
	"github.com/qiaozhwen/shop-be/internal/shared"
)

type fakeProduct struct {
	name   string
	unit   string
	price  float64
	stock  int
	weight float64
}

type fakeRepo struct {
	products map[int64]*fakeProduct
	orders   map[int64]*Order
	items    map[int64][]Item
	payments map[int64][]Payment
	nextID   int64
	credited map[int64]float64
	income   []float64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		products: map[int64]*fakeProduct{},
		orders:   map[int64]*Order{},
		items:    map[int64][]Item{},
		payments: map[int64][]Payment{},
		credited: map[int64]float64{},
	}
}

func (f *fakeRepo) List(ctx context.Context, filter ListFilter) ([]Order, int, error) {
	out := make([]Order, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Get(ctx context.Context, id int64) (*Order, []Item, []Payment, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, nil, nil, shared.ErrNotFound
	}
	cp := *o
	return &cp, f.items[id], f.payments[id], nil
}

func (f *fakeRepo) Create(ctx context.Context, orderNo string, input CreateInput, now time.Time) (*Order, error) {
	f.nextID++
	order := &Order{
		ID:            f.nextID,
		OrderNo:       orderNo,
		CustomerID:    input.CustomerID,
		PaymentMethod: input.PaymentMethod,
		PaymentStatus: PayUnpaid,
		Status:        StatusPending,
		OperatorID:    input.OperatorID,
		OrderAt:       now,
	}
	var items []Item
	for _, line := range input.Items {
		prod, ok := f.products[line.ProductID]
		if !ok {
			return nil, shared.ErrNotFound
		}
		if prod.stock < line.Quantity {
			return nil, fmt.Errorf("%w: product %s", shared.ErrInsufficientStock, prod.name)
		}
		prod.stock -= line.Quantity
		prod.weight -= line.Weight
		if prod.weight < 0 {
			prod.weight = 0
		}
		price := prod.price
		if line.UnitPrice != nil {
			price = *line.UnitPrice
		}
		amount := LineAmount(prod.unit, line.Quantity, line.Weight, price)
		items = append(items, Item{
			OrderID:     order.ID,
			ProductID:   line.ProductID,
			ProductName: prod.name,
			Unit:        prod.unit,
			Quantity:    line.Quantity,
			Weight:      line.Weight,
			UnitPrice:   price,
			Amount:      amount,
		})
		order.TotalQuantity += line.Quantity
		order.TotalWeight += line.Weight
		order.TotalAmount = Round2(order.TotalAmount + amount)
	}
	order.DiscountAmount = input.DiscountAmount
	order.ActualAmount = Round2(order.TotalAmount - input.DiscountAmount)
	if order.ActualAmount < 0 {
		return nil, fmt.Errorf("%w: discount exceeds order total", shared.ErrValidation)
	}
	f.orders[order.ID] = order
	f.items[order.ID] = items
	cp := *order
	return &cp, nil
}

func (f *fakeRepo) Pay(ctx context.Context, orderID int64, input PayInput, now time.Time) (*Order, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	if err := order.CanPay(); err != nil {
		return nil, err
	}
	f.payments[orderID] = append(f.payments[orderID], Payment{
		OrderID:       orderID,
		PaymentMethod: input.Method,
		Amount:        input.Amount,
		PaidAt:        now,
	})
	order.ApplyPayment(input.Amount, now)
	if input.Method == MethodCredit {
		if order.CustomerID == nil {
			return nil, fmt.Errorf("%w: credit payment requires a customer", shared.ErrValidation)
		}
		f.credited[*order.CustomerID] += input.Amount
	} else {
		f.income = append(f.income, input.Amount)
	}
	cp := *order
	return &cp, nil
}

func (f *fakeRepo) Cancel(ctx context.Context, orderID int64) error {
	order, ok := f.orders[orderID]
	if !ok {
		return shared.ErrNotFound
	}
	if err := order.CanCancel(); err != nil {
		return err
	}
	for _, it := range f.items[orderID] {
		f.products[it.ProductID].stock += it.Quantity
		f.products[it.ProductID].weight += it.Weight
	}
	order.Status = StatusCancelled
	return nil
}

func newTestService(repo *fakeRepo) *Service {
	srv := NewService(repo)
	srv.now = func() time.Time { return time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC) }
	return srv
}

func TestCreateComputesLineAmounts(t *testing.T) {
	repo := newFakeRepo()
	repo.products[1] = &fakeProduct{name: "Cola", unit: products.UnitPiece, price: 3.5, stock: 100}
	repo.products[2] = &fakeProduct{name: "Pork Belly", unit: products.UnitWeight, price: 32, stock: 50}
	srv := newTestService(repo)

	order, err := srv.Create(context.Background(), CreateInput{
		Items: []LineInput{
			{ProductID: 1, Quantity: 4},
			{ProductID: 2, Quantity: 1, Weight: 2.5},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 14.0, repo.items[order.ID][0].Amount)
	require.Equal(t, 80.0, repo.items[order.ID][1].Amount)
	require.Equal(t, 94.0, order.TotalAmount)
	require.Equal(t, 94.0, order.ActualAmount)
	require.Equal(t, StatusPending, order.Status)
	require.Equal(t, PayUnpaid, order.PaymentStatus)
	require.Equal(t, 96, repo.products[1].stock)
}

func TestCreateBlocksOnInsufficientStock(t *testing.T) {
	repo := newFakeRepo()
	repo.products[1] = &fakeProduct{name: "Cola", unit: products.UnitPiece, price: 3.5, stock: 2}
	srv := newTestService(repo)

	_, err := srv.Create(context.Background(), CreateInput{
		Items: []LineInput{{ProductID: 1, Quantity: 3}},
	})
	require.ErrorIs(t, err, shared.ErrInsufficientStock)
}

func TestCreateRejectsExcessDiscount(t *testing.T) {
	repo := newFakeRepo()
	repo.products[1] = &fakeProduct{name: "Cola", unit: products.UnitPiece, price: 3, stock: 10}
	srv := newTestService(repo)

	_, err := srv.Create(context.Background(), CreateInput{
		DiscountAmount: 100,
		Items:          []LineInput{{ProductID: 1, Quantity: 1}},
	})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateValidatesInput(t *testing.T) {
	srv := newTestService(newFakeRepo())

	_, err := srv.Create(context.Background(), CreateInput{})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = srv.Create(context.Background(), CreateInput{
		Items: []LineInput{{ProductID: 1, Quantity: 0}},
	})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = srv.Create(context.Background(), CreateInput{
		PaymentMethod: "barter",
		Items:         []LineInput{{ProductID: 1, Quantity: 1}},
	})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestPayAccumulatesToCompletion(t *testing.T) {
	repo := newFakeRepo()
	repo.products[1] = &fakeProduct{name: "Cola", unit: products.UnitPiece, price: 10, stock: 10}
	srv := newTestService(repo)

	order, err := srv.Create(context.Background(), CreateInput{
		Items: []LineInput{{ProductID: 1, Quantity: 10}},
	})
	require.NoError(t, err)

	order, err = srv.Pay(context.Background(), order.ID, PayInput{Amount: 40})
	require.NoError(t, err)
	require.Equal(t, PayPartial, order.PaymentStatus)
	require.Equal(t, StatusPending, order.Status)

	order, err = srv.Pay(context.Background(), order.ID, PayInput{Amount: 60})
	require.NoError(t, err)
	require.Equal(t, PayPaid, order.PaymentStatus)
	require.Equal(t, StatusCompleted, order.Status)
	require.NotNil(t, order.CompletedAt)

	_, err = srv.Pay(context.Background(), order.ID, PayInput{Amount: 1})
	require.ErrorIs(t, err, shared.ErrInvalidTransition)
}

func TestPayCreditRoutesToCustomerBalance(t *testing.T) {
	repo := newFakeRepo()
	repo.products[1] = &fakeProduct{name: "Cola", unit: products.UnitPiece, price: 10, stock: 10}
	srv := newTestService(repo)

	customerID := int64(7)
	order, err := srv.Create(context.Background(), CreateInput{
		CustomerID: &customerID,
		Items:      []LineInput{{ProductID: 1, Quantity: 2}},
	})
	require.NoError(t, err)

	_, err = srv.Pay(context.Background(), order.ID, PayInput{Amount: 20, Method: MethodCredit})
	require.NoError(t, err)
	require.Equal(t, 20.0, repo.credited[customerID])
	require.Empty(t, repo.income)
}

func TestPayRejectsCancelledOrder(t *testing.T) {
	repo := newFakeRepo()
	repo.products[1] = &fakeProduct{name: "Cola", unit: products.UnitPiece, price: 10, stock: 10}
	srv := newTestService(repo)

	order, err := srv.Create(context.Background(), CreateInput{
		Items: []LineInput{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)
	require.NoError(t, srv.Cancel(context.Background(), order.ID))

	_, err = srv.Pay(context.Background(), order.ID, PayInput{Amount: 10})
	require.ErrorIs(t, err, shared.ErrInvalidTransition)
}

func TestCancelRestoresStock(t *testing.T) {
	repo := newFakeRepo()
	repo.products[1] = &fakeProduct{name: "Pork Belly", unit: products.UnitWeight, price: 10, stock: 5, weight: 12.5}
	srv := newTestService(repo)

	order, err := srv.Create(context.Background(), CreateInput{
		Items: []LineInput{{ProductID: 1, Quantity: 5, Weight: 12.5}},
	})
	require.NoError(t, err)
	require.Equal(t, 0, repo.products[1].stock)
	require.Equal(t, 0.0, repo.products[1].weight)

	require.NoError(t, srv.Cancel(context.Background(), order.ID))
	require.Equal(t, 5, repo.products[1].stock)
	require.Equal(t, 12.5, repo.products[1].weight)
	require.Equal(t, StatusCancelled, repo.orders[order.ID].Status)

	require.ErrorIs(t, srv.Cancel(context.Background(), order.ID), shared.ErrInvalidTransition)
}

func TestCancelRejectsCompletedOrder(t *testing.T) {
	repo := newFakeRepo()
	repo.products[1] = &fakeProduct{name: "Cola", unit: products.UnitPiece, price: 10, stock: 10}
	srv := newTestService(repo)

	order, err := srv.Create(context.Background(), CreateInput{
		Items: []LineInput{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)
	_, err = srv.Pay(context.Background(), order.ID, PayInput{Amount: 10})
	require.NoError(t, err)

	require.ErrorIs(t, srv.Cancel(context.Background(), order.ID), shared.ErrInvalidTransition)
}

func TestRound2(t *testing.T) {
	require.Equal(t, 3.33, Round2(3.3349))
	require.Equal(t, 3.34, Round2(3.335000001))
	require.Equal(t, 0.0, Round2(0))
}
