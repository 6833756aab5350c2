package auth

import "time"

// Staff roles.
const (
	RoleAdmin     = "admin"
	RoleManager   = "manager"
	RoleCashier   = "cashier"
	RoleWarehouse = "warehouse"
)

// Account statuses.
const (
	StatusDisabled int16 = 0
	StatusActive   int16 = 1
)

// Account represents a staff login account.
type Account struct {
	ID           int64
	Username     string
	PasswordHash string
	Name         string
	Phone        string
	Avatar       string
	Role         string
	Status       int16
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
