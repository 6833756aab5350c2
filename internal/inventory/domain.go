package inventory

import (
	"time"

	"github.com/qiaozhwen/shop-be/internal/shared"
)

// Inbound types.
const (
	InboundPurchase = "purchase"
	InboundReturn   = "return"
	InboundAdjust   = "adjust"
	InboundOther    = "other"
)

// Outbound types.
const (
	OutboundSale   = "sale"
	OutboundDamage = "damage"
	OutboundAdjust = "adjust"
	OutboundOther  = "other"
)

// Alert levels.
const (
	AlertWarning  = "warning"
	AlertCritical = "critical"
)

// Item is one stock row joined with its product master data.
type Item struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	ProductCode string  `json:"productCode,omitempty"`
	Unit        string  `json:"unit"`
	Quantity    int     `json:"quantity"`
	TotalWeight float64 `json:"totalWeight"`
	MinQuantity int     `json:"minQuantity"`
	Notes       string  `json:"notes,omitempty"`
}

// InboundRecord is a stock receipt.
type InboundRecord struct {
	ID          int64     `json:"id"`
	InboundNo   string    `json:"inboundNo"`
	SupplierID  *int64    `json:"supplierId,omitempty"`
	ProductID   int64     `json:"productId"`
	Quantity    int       `json:"quantity"`
	Weight      float64   `json:"weight,omitempty"`
	UnitPrice   float64   `json:"unitPrice,omitempty"`
	TotalAmount float64   `json:"totalAmount,omitempty"`
	BatchNo     string    `json:"batchNo,omitempty"`
	Type        string    `json:"type"`
	Remark      string    `json:"remark,omitempty"`
	OperatorID  int64     `json:"operatorId"`
	InboundAt   time.Time `json:"inboundAt"`
}

// OutboundRecord is a stock issue.
type OutboundRecord struct {
	ID         int64     `json:"id"`
	OutboundNo string    `json:"outboundNo"`
	Type       string    `json:"type"`
	OrderID    *int64    `json:"orderId,omitempty"`
	ProductID  int64     `json:"productId"`
	Quantity   int       `json:"quantity"`
	Weight     float64   `json:"weight,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	OperatorID int64     `json:"operatorId"`
	OutboundAt time.Time `json:"outboundAt"`
}

// Alert flags a product whose stock fell to or below its minimum.
type Alert struct {
	ID           int64      `json:"id"`
	ProductID    int64      `json:"productId"`
	CurrentStock int        `json:"currentStock"`
	MinStock     int        `json:"minStock"`
	AlertLevel   string     `json:"alertLevel"`
	Handled      int16      `json:"handled"`
	HandledBy    *int64     `json:"handledBy,omitempty"`
	HandledAt    *time.Time `json:"handledAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// ListFilter narrows stock listings.
type ListFilter struct {
	Keyword  string
	LowStock bool
	Page     shared.PageRequest
}

// RecordFilter narrows inbound/outbound listings.
type RecordFilter struct {
	ProductID *int64
	Type      string
	Page      shared.PageRequest
}
