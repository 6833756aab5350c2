package procurement

import (
	"fmt"
	"math"
	"time"

	"github.com/qiaozhwen/shop-be/internal/masterdata/products"
	"github.com/qiaozhwen/shop-be/internal/shared"
)

// Purchase order statuses. Received and cancelled are terminal.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusReceived  = "received"
	StatusCancelled = "cancelled"
)

// Payment statuses.
const (
	PayUnpaid  = "unpaid"
	PayPartial = "partial"
	PayPaid    = "paid"
)

// PurchaseOrder is the procurement document header. Goods hit inventory
// only when the order is received.
type PurchaseOrder struct {
	ID            int64      `json:"id"`
	PurchaseNo    string     `json:"purchaseNo"`
	SupplierID    int64      `json:"supplierId"`
	SupplierName  string     `json:"supplierName,omitempty"`
	TotalQuantity int        `json:"totalQuantity"`
	TotalWeight   float64    `json:"totalWeight"`
	TotalAmount   float64    `json:"totalAmount"`
	PaidAmount    float64    `json:"paidAmount"`
	PaymentStatus string     `json:"paymentStatus"`
	Status        string     `json:"status"`
	ExpectedAt    *time.Time `json:"expectedAt,omitempty"`
	ReceivedAt    *time.Time `json:"receivedAt,omitempty"`
	Remark        string     `json:"remark,omitempty"`
	OperatorID    int64      `json:"operatorId"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// Item is one purchase order line.
type Item struct {
	ID               int64   `json:"id"`
	PurchaseID       int64   `json:"purchaseId"`
	ProductID        int64   `json:"productId"`
	ProductName      string  `json:"productName"`
	Quantity         int     `json:"quantity"`
	Weight           float64 `json:"weight,omitempty"`
	UnitPrice        float64 `json:"unitPrice"`
	Amount           float64 `json:"amount"`
	ReceivedQuantity int     `json:"receivedQuantity"`
}

// LineInput is one requested purchase line.
type LineInput struct {
	ProductID int64
	Quantity  int
	Weight    float64
	UnitPrice float64
}

// CreateInput carries a purchase order creation request.
type CreateInput struct {
	SupplierID int64
	ExpectedAt *time.Time
	Remark     string
	Items      []LineInput
	OperatorID int64
}

// PayInput carries one payment against a purchase order.
type PayInput struct {
	Amount     float64
	Method     string
	Remark     string
	OperatorID int64
}

// ListFilter narrows purchase order listings.
type ListFilter struct {
	SupplierID    *int64
	Status        string
	PaymentStatus string
	Page          shared.PageRequest
}

// Statistics summarises procurement spend over a period.
type Statistics struct {
	TotalOrders    int     `json:"totalOrders"`
	TotalAmount    float64 `json:"totalAmount"`
	PaidAmount     float64 `json:"paidAmount"`
	UnpaidAmount   float64 `json:"unpaidAmount"`
	PendingCount   int     `json:"pendingCount"`
	ConfirmedCount int     `json:"confirmedCount"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func lineAmount(unit string, quantity int, weight, unitPrice float64) float64 {
	if unit == products.UnitWeight {
		return round2(weight * unitPrice)
	}
	return round2(float64(quantity) * unitPrice)
}

// CanConfirm reports whether the order may move to confirmed.
func (p *PurchaseOrder) CanConfirm() error {
	if p.Status != StatusPending {
		return fmt.Errorf("%w: purchase %s is %s, only pending orders can be confirmed", shared.ErrInvalidTransition, p.PurchaseNo, p.Status)
	}
	return nil
}

// CanReceive reports whether goods may be booked in. A second receive is
// blocked by the terminal state.
func (p *PurchaseOrder) CanReceive() error {
	if p.Status != StatusPending && p.Status != StatusConfirmed {
		return fmt.Errorf("%w: purchase %s is %s", shared.ErrInvalidTransition, p.PurchaseNo, p.Status)
	}
	return nil
}

// CanCancel reports whether the order may still be cancelled.
func (p *PurchaseOrder) CanCancel() error {
	if p.Status == StatusReceived || p.Status == StatusCancelled {
		return fmt.Errorf("%w: purchase %s is %s", shared.ErrInvalidTransition, p.PurchaseNo, p.Status)
	}
	return nil
}

// ApplyPayment accrues a payment. Overpaying the order total is rejected.
func (p *PurchaseOrder) ApplyPayment(amount float64) error {
	if p.Status == StatusCancelled {
		return fmt.Errorf("%w: purchase %s is cancelled", shared.ErrInvalidTransition, p.PurchaseNo)
	}
	newPaid := round2(p.PaidAmount + amount)
	if newPaid > p.TotalAmount {
		return fmt.Errorf("%w: payment exceeds purchase total", shared.ErrValidation)
	}
	p.PaidAmount = newPaid
	if p.PaidAmount >= p.TotalAmount {
		p.PaymentStatus = PayPaid
	} else {
		p.PaymentStatus = PayPartial
	}
	return nil
}
