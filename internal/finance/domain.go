package finance

import (
	"time"

	"github.com/qiaozhwen/shop-be/internal/shared"
)

// Record types.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Record categories.
const (
	CategorySale          = "sale"
	CategoryPurchase      = "purchase"
	CategoryCustomerRepay = "customer_repay"
	CategorySupplierPay   = "supplier_pay"
	CategorySalary        = "salary"
	CategoryRent          = "rent"
	CategoryUtility       = "utility"
	CategoryOther         = "other"
)

// Record is one row in the money ledger.
type Record struct {
	ID            int64     `json:"id"`
	RecordNo      string    `json:"recordNo"`
	Type          string    `json:"type"`
	Category      string    `json:"category"`
	Amount        float64   `json:"amount"`
	PaymentMethod string    `json:"paymentMethod,omitempty"`
	RelatedType   string    `json:"relatedType,omitempty"`
	RelatedID     *int64    `json:"relatedId,omitempty"`
	Description   string    `json:"description,omitempty"`
	Remark        string    `json:"remark,omitempty"`
	OperatorID    int64     `json:"operatorId"`
	RecordAt      time.Time `json:"recordAt"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Summary aggregates the ledger over a date range.
type Summary struct {
	TotalIncome  float64 `json:"totalIncome"`
	TotalExpense float64 `json:"totalExpense"`
	Profit       float64 `json:"profit"`
	StartDate    string  `json:"startDate"`
	EndDate      string  `json:"endDate"`
}

// Settlement is the end-of-day closing row.
type Settlement struct {
	ID           int64      `json:"id"`
	SettleDate   time.Time  `json:"settleDate"`
	TotalOrders  int        `json:"totalOrders"`
	TotalSales   float64    `json:"totalSales"`
	CashAmount   float64    `json:"cashAmount"`
	WechatAmount float64    `json:"wechatAmount"`
	AlipayAmount float64    `json:"alipayAmount"`
	CardAmount   float64    `json:"cardAmount"`
	CreditAmount float64    `json:"creditAmount"`
	TotalExpense float64    `json:"totalExpense"`
	Profit       float64    `json:"profit"`
	OperatorID   *int64     `json:"operatorId,omitempty"`
	SettledAt    *time.Time `json:"settledAt,omitempty"`
}

// RecordFilter narrows ledger listings. Dates are inclusive yyyy-mm-dd.
type RecordFilter struct {
	Type      string
	Category  string
	StartDate string
	EndDate   string
	Page      shared.PageRequest
}

func validType(t string) bool {
	return t == TypeIncome || t == TypeExpense
}

func validCategory(c string) bool {
	switch c {
	case CategorySale, CategoryPurchase, CategoryCustomerRepay, CategorySupplierPay,
		CategorySalary, CategoryRent, CategoryUtility, CategoryOther:
		return true
	}
	return false
}
