package staff

import (
	"time"

	"github.com/qiaozhwen/shop-be/internal/shared"
)

// Staff represents an employee account without credential material.
type Staff struct {
	ID          int64
	Username    string
	Name        string
	Phone       string
	Avatar      string
	Role        string
	Status      int16
	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewStaff carries the fields required to create an employee.
type NewStaff struct {
	Username string
	Password string
	Name     string
	Phone    string
	Avatar   string
	Role     string
	Status   int16
}

// Patch carries optional updates. Nil fields are left unchanged.
type Patch struct {
	Username *string
	Password *string
	Name     *string
	Phone    *string
	Avatar   *string
	Role     *string
	Status   *int16
}

// ListFilter narrows staff listings.
type ListFilter struct {
	Keyword string
	Role    string
	Status  *int16
	Page    shared.PageRequest
}
