package suppliers

import (
	"time"

	"github.com/qiaozhwen/shop-be/internal/shared"
)

// Supplier represents a purchasing counterparty.
type Supplier struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	ContactName    string  `json:"contactName,omitempty"`
	Phone          string  `json:"phone"`
	Address        string  `json:"address,omitempty"`
	BankName       string  `json:"bankName,omitempty"`
	BankAccount    string  `json:"bankAccount,omitempty"`
	SupplyProducts string  `json:"supplyProducts,omitempty"`
	TotalPurchase  float64 `json:"totalPurchase"`
	UnpaidAmount   float64 `json:"unpaidAmount"`
	Rating         int16   `json:"rating"`
	Remark         string  `json:"remark,omitempty"`
	Status         int16   `json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

// Patch carries optional updates. Nil fields are left unchanged.
// Purchase totals are maintained by the procurement workflow, not here.
type Patch struct {
	Name           *string
	ContactName    *string
	Phone          *string
	Address        *string
	BankName       *string
	BankAccount    *string
	SupplyProducts *string
	Rating         *int16
	Remark         *string
	Status         *int16
}

// ListFilter narrows supplier listings.
type ListFilter struct {
	Keyword string
	Status  *int16
	Page    shared.PageRequest
}
