package customers

import (
	"time"

	"github.com/qiaozhwen/shop-be/internal/shared"
)

// Customer types.
const (
	TypeRestaurant = "restaurant"
	TypeRetail     = "retail"
	TypeWholesale  = "wholesale"
	TypePersonal   = "personal"
)

// Customer levels.
const (
	LevelNormal = "normal"
	LevelVIP    = "vip"
	LevelSVIP   = "svip"
)

// Credit log entry types.
const (
	CreditTypeCredit = "credit"
	CreditTypeRepay  = "repay"
)

// Customer represents a buyer with an optional credit line.
type Customer struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Type          string     `json:"type"`
	Level         string     `json:"level"`
	ContactName   string     `json:"contactName,omitempty"`
	Phone         string     `json:"phone"`
	Address       string     `json:"address,omitempty"`
	CreditLimit   float64    `json:"creditLimit"`
	CreditBalance float64    `json:"creditBalance"`
	TotalOrders   int        `json:"totalOrders"`
	TotalAmount   float64    `json:"totalAmount"`
	LastOrderAt   *time.Time `json:"lastOrderAt,omitempty"`
	Remark        string     `json:"remark,omitempty"`
	Status        int16      `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"-"`
}

// CreditLog records one change to a customer's outstanding balance.
type CreditLog struct {
	ID            int64     `json:"id"`
	CustomerID    int64     `json:"customerId"`
	Type          string    `json:"type"`
	Amount        float64   `json:"amount"`
	OrderID       *int64    `json:"orderId,omitempty"`
	BalanceBefore float64   `json:"balanceBefore"`
	BalanceAfter  float64   `json:"balanceAfter"`
	Remark        string    `json:"remark,omitempty"`
	OperatorID    int64     `json:"operatorId"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Patch carries optional updates. Nil fields are left unchanged.
// Credit balance moves only through orders and repayments.
type Patch struct {
	Name        *string
	Type        *string
	Level       *string
	ContactName *string
	Phone       *string
	Address     *string
	CreditLimit *float64
	Remark      *string
	Status      *int16
}

// ListFilter narrows customer listings.
type ListFilter struct {
	Keyword string
	Type    string
	Level   string
	Status  *int16
	Page    shared.PageRequest
}

// RepayInput carries a repayment request.
type RepayInput struct {
	CustomerID int64
	Amount     float64
	Method     string
	Remark     string
	OperatorID int64
}
