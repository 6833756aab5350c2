package customers

import (
	"context"
	"fmt"

	"github.com/qiaozhwen/shop-be/internal/platform/db"
	"github.com/qiaozhwen/shop-be/internal/shared"
)

// RepositoryPort defines data access methods for customers.
type RepositoryPort interface {
	List(ctx context.Context, filter ListFilter) ([]Customer, int, error)
	Get(ctx context.Context, id int64) (*Customer, error)
	Create(ctx context.Context, customer Customer) (*Customer, error)
	Update(ctx context.Context, id int64, patch Patch) (*Customer, error)
	Delete(ctx context.Context, id int64) error
	CreditLogs(ctx context.Context, customerID int64, page shared.PageRequest) ([]CreditLog, int, error)
	Repay(ctx context.Context, input RepayInput, post func(q db.Querier) error) (*Customer, error)
}

// RepayRecorder posts the income side of a repayment into the ledger.
type RepayRecorder interface {
	RecordCustomerRepay(ctx context.Context, q db.Querier, customerID int64, amount float64, method, remark string, operatorID int64) error
}

// Service handles customer business logic.
type Service struct {
	repo   RepositoryPort
	ledger RepayRecorder
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, ledger RepayRecorder) *Service {
	return &Service{repo: repo, ledger: ledger}
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Customer, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id int64) (*Customer, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, customer Customer) (*Customer, error) {
	if customer.Name == "" || customer.Phone == "" {
		return nil, fmt.Errorf("%w: name and phone are required", shared.ErrValidation)
	}
	return s.repo.Create(ctx, customer)
}

func (s *Service) Update(ctx context.Context, id int64, patch Patch) (*Customer, error) {
	return s.repo.Update(ctx, id, patch)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) CreditLogs(ctx context.Context, customerID int64, page shared.PageRequest) ([]CreditLog, int, error) {
	return s.repo.CreditLogs(ctx, customerID, page)
}

// Repay settles part of a customer's outstanding balance and records the
// matching income entry in the ledger.
func (s *Service) Repay(ctx context.Context, input RepayInput) (*Customer, error) {
	if input.Amount <= 0 {
		return nil, fmt.Errorf("%w: repay amount must be positive", shared.ErrValidation)
	}
	if input.OperatorID == 0 {
		input.OperatorID = shared.OperatorID(ctx)
	}

	post := func(q db.Querier) error {
		if s.ledger == nil {
			return nil
		}
		return s.ledger.RecordCustomerRepay(ctx, q, input.CustomerID, input.Amount, input.Method, input.Remark, input.OperatorID)
	}
	return s.repo.Repay(ctx, input, post)
}
