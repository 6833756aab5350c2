package dashboard

import "time"

// Overview is the headline block on the landing page.
type Overview struct {
	TodayOrders   int     `json:"todayOrders"`
	TodaySales    float64 `json:"todaySales"`
	SalesGrowth   float64 `json:"salesGrowth"`
	ProductCount  int     `json:"productCount"`
	CustomerCount int     `json:"customerCount"`
	LowStockCount int     `json:"lowStockCount"`
	PendingOrders int     `json:"pendingOrders"`
}

// Counters groups the catalog-wide totals feeding the overview.
type Counters struct {
	ProductCount  int
	CustomerCount int
	LowStockCount int
	PendingOrders int
}

// TrendPoint is one day of sales history.
type TrendPoint struct {
	Date   string  `json:"date"`
	Sales  float64 `json:"sales"`
	Orders int     `json:"orders"`
}

// TopProduct ranks a product by sales over the lookback window.
type TopProduct struct {
	ProductID     int64   `json:"productId"`
	ProductName   string  `json:"productName"`
	TotalQuantity int     `json:"totalQuantity"`
	TotalAmount   float64 `json:"totalAmount"`
}

// CategorySales aggregates sold lines per product category. Uncategorized
// products fall into a row with a nil id.
type CategorySales struct {
	CategoryID   *int64  `json:"categoryId"`
	CategoryName string  `json:"categoryName"`
	Sales        float64 `json:"sales"`
	Quantity     int     `json:"quantity"`
}

// RecentOrder is a compact order row for the activity feed.
type RecentOrder struct {
	ID           int64     `json:"id"`
	OrderNo      string    `json:"orderNo"`
	CustomerName string    `json:"customerName,omitempty"`
	ActualAmount float64   `json:"actualAmount"`
	Status       string    `json:"status"`
	OrderAt      time.Time `json:"orderAt"`
}

// LowStockItem pairs a product's current stock with its floor.
type LowStockItem struct {
	ProductID    int64  `json:"productId"`
	ProductName  string `json:"productName"`
	Unit         string `json:"unit"`
	CurrentStock int    `json:"currentStock"`
	MinStock     int    `json:"minStock"`
}
