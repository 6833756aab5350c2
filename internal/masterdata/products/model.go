package products

import (
	"time"

	"github.com/qiaozhwen/shop-be/internal/shared"
)

// Pricing units. Piece goods are priced per unit sold, weight goods are
// priced by their weighed amount.
const (
	UnitPiece  = "piece"
	UnitWeight = "weight"
)

// Product represents a sellable item.
type Product struct {
	ID          int64    `json:"id"`
	CategoryID  *int64   `json:"categoryId,omitempty"`
	Code        string   `json:"code,omitempty"`
	Name        string   `json:"name"`
	Unit        string   `json:"unit"`
	Price       float64  `json:"price"`
	CostPrice   *float64 `json:"costPrice,omitempty"`
	WeightAvg   *float64 `json:"weightAvg,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	Description string   `json:"description,omitempty"`
	MinStock    int      `json:"minStock"`
	IsActive    int16    `json:"isActive"`
	SKU         string   `json:"sku,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

// PricedByWeight reports whether order lines for the product settle on
// weighed amount rather than quantity.
func (p *Product) PricedByWeight() bool {
	return p.Unit == UnitWeight
}

// Patch carries optional updates. Nil fields are left unchanged.
type Patch struct {
	CategoryID  *int64
	Code        *string
	Name        *string
	Unit        *string
	Price       *float64
	CostPrice   *float64
	WeightAvg   *float64
	ImageURL    *string
	Description *string
	MinStock    *int
	IsActive    *int16
	SKU         *string
}

// ListFilter narrows product listings.
type ListFilter struct {
	Keyword    string
	CategoryID *int64
	IsActive   *int16
	Page       shared.PageRequest
}
