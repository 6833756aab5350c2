package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/qiaozhwen/shop-be/internal/shared"
)

// RepositoryPort defines data access methods for inventory.
type RepositoryPort interface {
	List(ctx context.Context, filter ListFilter) ([]Item, int, error)
	CreateInbound(ctx context.Context, rec InboundRecord) (*InboundRecord, error)
	CreateOutbound(ctx context.Context, rec OutboundRecord) (*OutboundRecord, error)
	ListInbound(ctx context.Context, filter RecordFilter) ([]InboundRecord, int, error)
	ListOutbound(ctx context.Context, filter RecordFilter) ([]OutboundRecord, int, error)
	ListAlerts(ctx context.Context, handled *int16, page shared.PageRequest) ([]Alert, int, error)
	HandleAlert(ctx context.Context, id, staffID int64) error
	LowStockRows(ctx context.Context) ([]Alert, error)
	RecordAlert(ctx context.Context, alert Alert) error
}

// Service handles inventory business logic.
type Service struct {
	repo RepositoryPort
	now  func() time.Time
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, now: time.Now}
}

// List returns current stock joined with product data.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Item, int, error) {
	return s.repo.List(ctx, filter)
}

// PostInbound books a stock receipt and credits the product's stock.
func (s *Service) PostInbound(ctx context.Context, rec InboundRecord) (*InboundRecord, error) {
	if rec.ProductID == 0 {
		return nil, fmt.Errorf("%w: productId is required", shared.ErrValidation)
	}
	if rec.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", shared.ErrValidation)
	}
	if rec.Type == "" {
		rec.Type = InboundPurchase
	}

	now := s.now()
	rec.InboundNo = shared.DocNumber("IN", now)
	rec.InboundAt = now
	if rec.OperatorID == 0 {
		rec.OperatorID = shared.OperatorID(ctx)
	}
	return s.repo.CreateInbound(ctx, rec)
}

// PostOutbound books a stock issue and debits the product's stock.
func (s *Service) PostOutbound(ctx context.Context, rec OutboundRecord) (*OutboundRecord, error) {
	if rec.ProductID == 0 {
		return nil, fmt.Errorf("%w: productId is required", shared.ErrValidation)
	}
	if rec.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", shared.ErrValidation)
	}
	if rec.Type == "" {
		rec.Type = OutboundSale
	}

	now := s.now()
	rec.OutboundNo = shared.DocNumber("OUT", now)
	rec.OutboundAt = now
	if rec.OperatorID == 0 {
		rec.OperatorID = shared.OperatorID(ctx)
	}
	return s.repo.CreateOutbound(ctx, rec)
}

// ListInbound returns receipt history.
func (s *Service) ListInbound(ctx context.Context, filter RecordFilter) ([]InboundRecord, int, error) {
	return s.repo.ListInbound(ctx, filter)
}

// ListOutbound returns issue history.
func (s *Service) ListOutbound(ctx context.Context, filter RecordFilter) ([]OutboundRecord, int, error) {
	return s.repo.ListOutbound(ctx, filter)
}

// Alerts returns stock alerts.
func (s *Service) Alerts(ctx context.Context, handled *int16, page shared.PageRequest) ([]Alert, int, error) {
	return s.repo.ListAlerts(ctx, handled, page)
}

// HandleAlert marks an alert resolved by the calling staff member.
func (s *Service) HandleAlert(ctx context.Context, id int64) error {
	return s.repo.HandleAlert(ctx, id, shared.OperatorID(ctx))
}

// ScanLowStock records an alert for every product at or below its stock
// floor. Returns the number of products flagged.
func (s *Service) ScanLowStock(ctx context.Context) (int, error) {
	rows, err := s.repo.LowStockRows(ctx)
	if err != nil {
		return 0, err
	}
	for _, alert := range rows {
		if err := s.repo.RecordAlert(ctx, alert); err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}
