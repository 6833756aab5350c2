package suppliers

import (
	"context"
	"fmt"

	"github.com/qiaozhwen/shop-be/internal/shared"
)

// Service handles supplier business logic.
type Service struct {
	repo Repository
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Supplier, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id int64) (*Supplier, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, supplier Supplier) (*Supplier, error) {
	if supplier.Name == "" || supplier.Phone == "" {
		return nil, fmt.Errorf("%w: name and phone are required", shared.ErrValidation)
	}
	if supplier.Rating < 1 || supplier.Rating > 5 {
		supplier.Rating = 5
	}
	return s.repo.Create(ctx, supplier)
}

func (s *Service) Update(ctx context.Context, id int64, patch Patch) (*Supplier, error) {
	if patch.Rating != nil && (*patch.Rating < 1 || *patch.Rating > 5) {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", shared.ErrValidation)
	}
	return s.repo.Update(ctx, id, patch)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
