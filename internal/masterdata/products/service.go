package products

import (
	"context"
	"fmt"

	"github.com/qiaozhwen/shop-be/internal/platform/db"
	"github.com/qiaozhwen/shop-be/internal/shared"
)

// Service handles product business logic.
type Service struct {
	repo Repository
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Product, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, product Product) (*Product, error) {
	if product.Unit != UnitPiece && product.Unit != UnitWeight {
		return nil, fmt.Errorf("%w: unit must be piece or weight", shared.ErrValidation)
	}
	if product.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", shared.ErrValidation)
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: product code already exists", shared.ErrValidation)
		}
		return nil, err
	}
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, patch Patch) (*Product, error) {
	if patch.Unit != nil && *patch.Unit != UnitPiece && *patch.Unit != UnitWeight {
		return nil, fmt.Errorf("%w: unit must be piece or weight", shared.ErrValidation)
	}
	if patch.Price != nil && *patch.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", shared.ErrValidation)
	}
	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: product code already exists", shared.ErrValidation)
		}
		return nil, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
