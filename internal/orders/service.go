package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/qiaozhwen/shop-be/internal/shared"
)

// RepositoryPort defines data access methods for orders.
type RepositoryPort interface {
	List(ctx context.Context, filter ListFilter) ([]Order, int, error)
	Get(ctx context.Context, id int64) (*Order, []Item, []Payment, error)
	Create(ctx context.Context, orderNo string, input CreateInput, now time.Time) (*Order, error)
	Pay(ctx context.Context, orderID int64, input PayInput, now time.Time) (*Order, error)
	Cancel(ctx context.Context, orderID int64) error
}

// Service handles order business logic.
type Service struct {
	repo RepositoryPort
	now  func() time.Time
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, now: time.Now}
}

// List returns order headers.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Order, int, error) {
	return s.repo.List(ctx, filter)
}

// Get returns one order with its lines and payments.
func (s *Service) Get(ctx context.Context, id int64) (*Order, []Item, []Payment, error) {
	return s.repo.Get(ctx, id)
}

// Create books a new order. Stock for every line is debited in the same
// transaction; a line that cannot be covered aborts the order.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Order, error) {
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: order needs at least one line", shared.ErrValidation)
	}
	for _, line := range input.Items {
		if line.ProductID <= 0 || line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: every line needs a product and a positive quantity", shared.ErrValidation)
		}
		if line.UnitPrice != nil && *line.UnitPrice < 0 {
			return nil, fmt.Errorf("%w: unit price cannot be negative", shared.ErrValidation)
		}
	}
	if input.DiscountAmount < 0 {
		return nil, fmt.Errorf("%w: discount cannot be negative", shared.ErrValidation)
	}
	if input.PaymentMethod == "" {
		input.PaymentMethod = MethodCash
	}
	if !validMethod(input.PaymentMethod) {
		return nil, fmt.Errorf("%w: unknown payment method %q", shared.ErrValidation, input.PaymentMethod)
	}
	if input.OperatorID == 0 {
		input.OperatorID = shared.OperatorID(ctx)
	}

	now := s.now()
	return s.repo.Create(ctx, shared.DocNumber("ORD", now), input, now)
}

// Pay books a collection against an order. Covering the billed amount
// completes the order; paying a cancelled or settled order is rejected.
func (s *Service) Pay(ctx context.Context, orderID int64, input PayInput) (*Order, error) {
	if input.Amount <= 0 {
		return nil, fmt.Errorf("%w: payment amount must be positive", shared.ErrValidation)
	}
	if input.Method == "" {
		input.Method = MethodCash
	}
	if !validMethod(input.Method) {
		return nil, fmt.Errorf("%w: unknown payment method %q", shared.ErrValidation, input.Method)
	}
	if input.OperatorID == 0 {
		input.OperatorID = shared.OperatorID(ctx)
	}
	return s.repo.Pay(ctx, orderID, input, s.now())
}

// Cancel voids an open order, returning its stock. Completed and already
// cancelled orders are rejected.
func (s *Service) Cancel(ctx context.Context, orderID int64) error {
	return s.repo.Cancel(ctx, orderID)
}
