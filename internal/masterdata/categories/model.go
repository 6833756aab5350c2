package categories

import "time"

// Category represents a product category.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon,omitempty"`
	Sort      int       `json:"sort"`
	Status    int16     `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

// Patch carries optional updates. Nil fields are left unchanged.
type Patch struct {
	Name   *string
	Icon   *string
	Sort   *int
	Status *int16
}
