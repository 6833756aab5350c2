package categories

import (
	"context"
	"fmt"

	"github.com/qiaozhwen/shop-be/internal/shared"
)

// Service handles category business logic.
type Service struct {
	repo Repository
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, status *int16) ([]Category, error) {
	return s.repo.List(ctx, status)
}

func (s *Service) Get(ctx context.Context, id int64) (Category, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, category Category) (Category, error) {
	if category.Name == "" {
		return Category{}, fmt.Errorf("%w: name is required", shared.ErrValidation)
	}
	return s.repo.Create(ctx, category)
}

func (s *Service) Update(ctx context.Context, id int64, patch Patch) (Category, error) {
	if patch.Name != nil && *patch.Name == "" {
		return Category{}, fmt.Errorf("%w: name cannot be empty", shared.ErrValidation)
	}
	return s.repo.Update(ctx, id, patch)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
