package staff

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/qiaozhwen/shop-be/internal/platform/db"
	"github.com/qiaozhwen/shop-be/internal/shared"
)

// defaultPassword is assigned when a new employee is created without one.
const defaultPassword = "123456"

// RepositoryPort defines data access methods for staff.
type RepositoryPort interface {
	List(ctx context.Context, filter ListFilter) ([]Staff, int, error)
	Get(ctx context.Context, id int64) (*Staff, error)
	Create(ctx context.Context, input NewStaff, passwordHash string) (*Staff, error)
	Update(ctx context.Context, id int64, patch Patch, passwordHash string) (*Staff, error)
	Delete(ctx context.Context, id int64) error
}

// Service handles staff business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns a page of staff.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Staff, int, error) {
	return s.repo.List(ctx, filter)
}

// Get returns one staff member.
func (s *Service) Get(ctx context.Context, id int64) (*Staff, error) {
	return s.repo.Get(ctx, id)
}

// Create registers a new employee. The password defaults when omitted.
func (s *Service) Create(ctx context.Context, input NewStaff) (*Staff, error) {
	if input.Password == "" {
		input.Password = defaultPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("staff: hash password: %w", err)
	}
	created, err := s.repo.Create(ctx, input, string(hash))
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: username already exists", shared.ErrValidation)
		}
		return nil, err
	}
	return created, nil
}

// Update applies a partial update, rehashing the password when supplied.
func (s *Service) Update(ctx context.Context, id int64, patch Patch) (*Staff, error) {
	var passwordHash string
	if patch.Password != nil && *patch.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("staff: hash password: %w", err)
		}
		passwordHash = string(hash)
	}
	updated, err := s.repo.Update(ctx, id, patch, passwordHash)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: username already exists", shared.ErrValidation)
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes an employee.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
