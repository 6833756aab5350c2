package procurement

import (
	"context"
	"fmt"
	"time"

	"github.com/qiaozhwen/shop-be/internal/shared"
)

// RepositoryPort defines data access methods for purchase orders.
type RepositoryPort interface {
	List(ctx context.Context, filter ListFilter) ([]PurchaseOrder, int, error)
	Get(ctx context.Context, id int64) (*PurchaseOrder, []Item, error)
	Create(ctx context.Context, purchaseNo string, input CreateInput, now time.Time) (*PurchaseOrder, error)
	Confirm(ctx context.Context, id int64) (*PurchaseOrder, error)
	Receive(ctx context.Context, id int64, now time.Time) (*PurchaseOrder, error)
	Cancel(ctx context.Context, id int64) error
	Pay(ctx context.Context, id int64, input PayInput, now time.Time) (*PurchaseOrder, error)
	Statistics(ctx context.Context, startDate, endDate string) (*Statistics, error)
}

// Service handles procurement business logic.
type Service struct {
	repo RepositoryPort
	now  func() time.Time
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, now: time.Now}
}

// List returns purchase order headers.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]PurchaseOrder, int, error) {
	return s.repo.List(ctx, filter)
}

// Get returns one purchase order with its lines.
func (s *Service) Get(ctx context.Context, id int64) (*PurchaseOrder, []Item, error) {
	return s.repo.Get(ctx, id)
}

// Create books a new purchase order. Inventory is untouched until receipt.
func (s *Service) Create(ctx context.Context, input CreateInput) (*PurchaseOrder, error) {
	if input.SupplierID <= 0 {
		return nil, fmt.Errorf("%w: supplier is required", shared.ErrValidation)
	}
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: purchase order needs at least one line", shared.ErrValidation)
	}
	for _, line := range input.Items {
		if line.ProductID <= 0 || line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: every line needs a product and a positive quantity", shared.ErrValidation)
		}
		if line.UnitPrice < 0 {
			return nil, fmt.Errorf("%w: unit price cannot be negative", shared.ErrValidation)
		}
	}
	if input.OperatorID == 0 {
		input.OperatorID = shared.OperatorID(ctx)
	}

	now := s.now()
	return s.repo.Create(ctx, shared.DocNumber("PO", now), input, now)
}

// Confirm moves a pending order to confirmed.
func (s *Service) Confirm(ctx context.Context, id int64) (*PurchaseOrder, error) {
	return s.repo.Confirm(ctx, id)
}

// Receive books the ordered goods into stock and closes the order.
func (s *Service) Receive(ctx context.Context, id int64) (*PurchaseOrder, error) {
	return s.repo.Receive(ctx, id, s.now())
}

// Cancel voids an order that has not been received.
func (s *Service) Cancel(ctx context.Context, id int64) error {
	return s.repo.Cancel(ctx, id)
}

// Pay books a payment towards the supplier. Paying more than the order
// total is rejected.
func (s *Service) Pay(ctx context.Context, id int64, input PayInput) (*PurchaseOrder, error) {
	if input.Amount <= 0 {
		return nil, fmt.Errorf("%w: payment amount must be positive", shared.ErrValidation)
	}
	if input.OperatorID == 0 {
		input.OperatorID = shared.OperatorID(ctx)
	}
	return s.repo.Pay(ctx, id, input, s.now())
}

// Statistics summarises procurement spend over an optional date range.
func (s *Service) Statistics(ctx context.Context, startDate, endDate string) (*Statistics, error) {
	return s.repo.Statistics(ctx, startDate, endDate)
}
