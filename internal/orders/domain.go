package orders

import (
	"fmt"
	"math"
	"time"

	"github.com/qiaozhwen/shop-be/internal/masterdata/products"
	"github.com/qiaozhwen/shop-be/internal/shared"
)

// Order statuses. An order is either open (pending), settled in full
// (completed) or cancelled. Completed and cancelled are terminal.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Payment statuses.
const (
	PayUnpaid  = "unpaid"
	PayPartial = "partial"
	PayPaid    = "paid"
)

// Payment methods.
const (
	MethodCash   = "cash"
	MethodWechat = "wechat"
	MethodAlipay = "alipay"
	MethodCard   = "card"
	MethodCredit = "credit"
)

// Order is the sales document header. Customer and product names are
// denormalised at creation time so later master data edits do not rewrite
// history.
type Order struct {
	ID             int64      `json:"id"`
	OrderNo        string     `json:"orderNo"`
	CustomerID     *int64     `json:"customerId,omitempty"`
	CustomerName   string     `json:"customerName,omitempty"`
	TotalQuantity  int        `json:"totalQuantity"`
	TotalWeight    float64    `json:"totalWeight"`
	TotalAmount    float64    `json:"totalAmount"`
	DiscountAmount float64    `json:"discountAmount"`
	ActualAmount   float64    `json:"actualAmount"`
	PaymentMethod  string     `json:"paymentMethod"`
	PaymentStatus  string     `json:"paymentStatus"`
	PaidAmount     float64    `json:"paidAmount"`
	Status         string     `json:"status"`
	Remark         string     `json:"remark,omitempty"`
	OperatorID     int64      `json:"operatorId"`
	OrderAt        time.Time  `json:"orderAt"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// Item is one order line.
type Item struct {
	ID          int64   `json:"id"`
	OrderID     int64   `json:"orderId"`
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	Unit        string  `json:"unit"`
	Quantity    int     `json:"quantity"`
	Weight      float64 `json:"weight,omitempty"`
	UnitPrice   float64 `json:"unitPrice"`
	Amount      float64 `json:"amount"`
}

// Payment is one collection against an order.
type Payment struct {
	ID             int64     `json:"id"`
	OrderID        int64     `json:"orderId"`
	PaymentMethod  string    `json:"paymentMethod"`
	Amount         float64   `json:"amount"`
	ReceivedAmount *float64  `json:"receivedAmount,omitempty"`
	ChangeAmount   *float64  `json:"changeAmount,omitempty"`
	TransactionNo  string    `json:"transactionNo,omitempty"`
	OperatorID     int64     `json:"operatorId"`
	PaidAt         time.Time `json:"paidAt"`
}

// LineInput is one requested order line. UnitPrice overrides the product's
// list price when set.
type LineInput struct {
	ProductID int64
	Quantity  int
	Weight    float64
	UnitPrice *float64
}

// CreateInput carries an order creation request.
type CreateInput struct {
	CustomerID     *int64
	DiscountAmount float64
	PaymentMethod  string
	Remark         string
	Items          []LineInput
	OperatorID     int64
}

// PayInput carries one collection against an order.
type PayInput struct {
	Amount         float64
	Method         string
	ReceivedAmount *float64
	ChangeAmount   *float64
	TransactionNo  string
	OperatorID     int64
}

// ListFilter narrows order listings.
type ListFilter struct {
	Keyword       string
	Status        string
	PaymentStatus string
	Page          shared.PageRequest
}

// Round2 rounds money to cents.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// LineAmount settles one line: piece goods bill by quantity, weight goods
// by their weighed amount.
func LineAmount(unit string, quantity int, weight, unitPrice float64) float64 {
	if unit == products.UnitWeight {
		return Round2(weight * unitPrice)
	}
	return Round2(float64(quantity) * unitPrice)
}

// CanPay reports whether the order accepts further payments.
func (o *Order) CanPay() error {
	if o.Status == StatusCancelled {
		return fmt.Errorf("%w: order %s is cancelled", shared.ErrInvalidTransition, o.OrderNo)
	}
	if o.PaymentStatus == PayPaid {
		return fmt.Errorf("%w: order %s is already paid", shared.ErrInvalidTransition, o.OrderNo)
	}
	return nil
}

// CanCancel reports whether the order may still be cancelled.
func (o *Order) CanCancel() error {
	if o.Status == StatusCompleted || o.Status == StatusCancelled {
		return fmt.Errorf("%w: order %s is %s", shared.ErrInvalidTransition, o.OrderNo, o.Status)
	}
	return nil
}

// ApplyPayment accrues a collection. Once the running total covers the
// billed amount the order completes.
func (o *Order) ApplyPayment(amount float64, now time.Time) {
	o.PaidAmount = Round2(o.PaidAmount + amount)
	if o.PaidAmount >= o.ActualAmount {
		o.PaymentStatus = PayPaid
		o.Status = StatusCompleted
		o.CompletedAt = &now
	} else {
		o.PaymentStatus = PayPartial
	}
}

func validMethod(m string) bool {
	switch m {
	case MethodCash, MethodWechat, MethodAlipay, MethodCard, MethodCredit:
		return true
	}
	return false
}
