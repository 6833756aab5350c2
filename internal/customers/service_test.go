package customers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qiaozhwen/shop-be/internal/platform/db"
	"github.com/qiaozhwen/shop-be/internal/shared"
)

type fakeRepo struct {
	nextID int64
	rows   map[int64]*Customer
	logs   []CreditLog
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 1, rows: map[int64]*Customer{}}
}

func (r *fakeRepo) List(_ context.Context, _ ListFilter) ([]Customer, int, error) {
	var list []Customer
	for _, c := range r.rows {
		list = append(list, *c)
	}
	return list, len(list), nil
}

func (r *fakeRepo) Get(_ context.Context, id int64) (*Customer, error) {
	c, ok := r.rows[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *fakeRepo) Create(_ context.Context, customer Customer) (*Customer, error) {
	customer.ID = r.nextID
	r.nextID++
	r.rows[customer.ID] = &customer
	copied := customer
	return &copied, nil
}

func (r *fakeRepo) Update(_ context.Context, id int64, patch Patch) (*Customer, error) {
	c, ok := r.rows[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.CreditLimit != nil {
		c.CreditLimit = *patch.CreditLimit
	}
	copied := *c
	return &copied, nil
}

func (r *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.rows[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *fakeRepo) CreditLogs(_ context.Context, customerID int64, _ shared.PageRequest) ([]CreditLog, int, error) {
	var list []CreditLog
	for _, l := range r.logs {
		if l.CustomerID == customerID {
			list = append(list, l)
		}
	}
	return list, len(list), nil
}

func (r *fakeRepo) Repay(ctx context.Context, input RepayInput, post func(q db.Querier) error) (*Customer, error) {
	c, ok := r.rows[input.CustomerID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	if input.Amount > c.CreditBalance {
		return nil, shared.ErrValidation
	}

	before := c.CreditBalance
	c.CreditBalance -= input.Amount
	r.logs = append(r.logs, CreditLog{
		CustomerID:    input.CustomerID,
		Type:          CreditTypeRepay,
		Amount:        input.Amount,
		BalanceBefore: before,
		BalanceAfter:  c.CreditBalance,
		Remark:        input.Remark,
		OperatorID:    input.OperatorID,
	})
	if post != nil {
		if err := post(nil); err != nil {
			return nil, err
		}
	}
	copied := *c
	return &copied, nil
}

type fakeLedger struct {
	repayments []float64
}

func (l *fakeLedger) RecordCustomerRepay(_ context.Context, _ db.Querier, _ int64, amount float64, _, _ string, _ int64) error {
	l.repayments = append(l.repayments, amount)
	return nil
}

func TestRepayReducesBalanceAndPostsIncome(t *testing.T) {
	repo := newFakeRepo()
	repo.rows[1] = &Customer{ID: 1, Name: "Golden Wok", Phone: "100", CreditLimit: 500, CreditBalance: 300}
	ledger := &fakeLedger{}
	svc := NewService(repo, ledger)

	customer, err := svc.Repay(context.Background(), RepayInput{CustomerID: 1, Amount: 120, Method: "cash", OperatorID: 9})
	require.NoError(t, err)
	require.InDelta(t, 180, customer.CreditBalance, 0.001)

	require.Len(t, repo.logs, 1)
	require.Equal(t, CreditTypeRepay, repo.logs[0].Type)
	require.InDelta(t, 300, repo.logs[0].BalanceBefore, 0.001)
	require.InDelta(t, 180, repo.logs[0].BalanceAfter, 0.001)

	require.Equal(t, []float64{120}, ledger.repayments)
}

func TestRepayRejectsOverpayment(t *testing.T) {
	repo := newFakeRepo()
	repo.rows[1] = &Customer{ID: 1, Name: "Golden Wok", Phone: "100", CreditBalance: 50}
	svc := NewService(repo, &fakeLedger{})

	_, err := svc.Repay(context.Background(), RepayInput{CustomerID: 1, Amount: 80, OperatorID: 9})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestRepayRejectsNonPositiveAmount(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)

	_, err := svc.Repay(context.Background(), RepayInput{CustomerID: 1, Amount: 0})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateRequiresNameAndPhone(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)

	_, err := svc.Create(context.Background(), Customer{Name: "No Phone"})
	require.ErrorIs(t, err, shared.ErrValidation)
}
