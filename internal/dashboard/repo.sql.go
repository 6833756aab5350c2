package dashboard

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGRepository implements RepositoryPort using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Counters returns the catalog-wide totals in one round trip.
func (r *PGRepository) Counters(ctx context.Context) (Counters, error) {
	var c Counters
	err := r.pool.QueryRow(ctx, `SELECT
(SELECT COUNT(*) FROM product WHERE is_active = 1),
(SELECT COUNT(*) FROM customer WHERE status = 1),
(SELECT COUNT(*) FROM inventory i JOIN product p ON p.id = i.product_id
 WHERE i.quantity <= GREATEST(COALESCE(i.min_quantity, 0), p.min_stock)),
(SELECT COUNT(*) FROM "order" WHERE status = 'pending')`).
		Scan(&c.ProductCount, &c.CustomerCount, &c.LowStockCount, &c.PendingOrders)
	return c, err
}

// DaySales totals non-cancelled orders for one calendar day.
func (r *PGRepository) DaySales(ctx context.Context, day time.Time) (int, float64, error) {
	var orders int
	var sales float64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*), COALESCE(SUM(actual_amount), 0)
FROM "order" WHERE order_at::date = $1::date AND status <> 'cancelled'`,
		day.Format("2006-01-02")).Scan(&orders, &sales)
	return orders, sales, err
}

// SalesTrend returns one point per day starting at start. Days without
// orders come back zero-filled so charts keep a continuous axis.
func (r *PGRepository) SalesTrend(ctx context.Context, start time.Time, days int) ([]TrendPoint, error) {
	rows, err := r.pool.Query(ctx, `SELECT d::date::text, COALESCE(SUM(o.actual_amount), 0), COUNT(o.id)
FROM generate_series($1::date, $1::date + ($2 - 1) * INTERVAL '1 day', INTERVAL '1 day') AS d
LEFT JOIN "order" o ON o.order_at::date = d::date AND o.status <> 'cancelled'
GROUP BY d ORDER BY d`, start.Format("2006-01-02"), days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []TrendPoint
	for rows.Next() {
		var p TrendPoint
		if err := rows.Scan(&p.Date, &p.Sales, &p.Orders); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// TopProducts ranks products by quantity sold since the given day.
func (r *PGRepository) TopProducts(ctx context.Context, since time.Time, limit int) ([]TopProduct, error) {
	rows, err := r.pool.Query(ctx, `SELECT oi.product_id, oi.product_name,
COALESCE(SUM(oi.quantity), 0)::int, COALESCE(SUM(oi.amount), 0)
FROM order_item oi JOIN "order" o ON o.id = oi.order_id
WHERE o.status <> 'cancelled' AND o.order_at >= $1::date
GROUP BY oi.product_id, oi.product_name
ORDER BY SUM(oi.quantity) DESC LIMIT $2`, since.Format("2006-01-02"), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []TopProduct
	for rows.Next() {
		var p TopProduct
		if err := rows.Scan(&p.ProductID, &p.ProductName, &p.TotalQuantity, &p.TotalAmount); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// CategorySales aggregates sold lines per category over an optional
// inclusive date range.
func (r *PGRepository) CategorySales(ctx context.Context, startDate, endDate string) ([]CategorySales, error) {
	rows, err := r.pool.Query(ctx, `SELECT p.category_id, COALESCE(c.name, 'uncategorized'),
COALESCE(SUM(oi.amount), 0), COALESCE(SUM(oi.quantity), 0)::int
FROM order_item oi
JOIN "order" o ON o.id = oi.order_id
JOIN product p ON p.id = oi.product_id
LEFT JOIN category c ON c.id = p.category_id
WHERE o.status <> 'cancelled'
AND (NULLIF($1, '')::date IS NULL OR o.order_at >= NULLIF($1, '')::date)
AND (NULLIF($2, '')::date IS NULL OR o.order_at < NULLIF($2, '')::date + INTERVAL '1 day')
GROUP BY p.category_id, c.name
ORDER BY SUM(oi.amount) DESC`, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []CategorySales
	for rows.Next() {
		var cs CategorySales
		if err := rows.Scan(&cs.CategoryID, &cs.CategoryName, &cs.Sales, &cs.Quantity); err != nil {
			return nil, err
		}
		list = append(list, cs)
	}
	return list, rows.Err()
}

// RecentOrders returns the newest orders regardless of status.
func (r *PGRepository) RecentOrders(ctx context.Context, limit int) ([]RecentOrder, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, order_no, COALESCE(customer_name, ''), actual_amount, status, order_at
FROM "order" ORDER BY order_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []RecentOrder
	for rows.Next() {
		var o RecentOrder
		if err := rows.Scan(&o.ID, &o.OrderNo, &o.CustomerName, &o.ActualAmount, &o.Status, &o.OrderAt); err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// LowStock lists products at or below their stock floor.
func (r *PGRepository) LowStock(ctx context.Context, limit int) ([]LowStockItem, error) {
	rows, err := r.pool.Query(ctx, `SELECT p.id, p.name, p.unit, i.quantity,
GREATEST(COALESCE(i.min_quantity, 0), p.min_stock)
FROM inventory i JOIN product p ON p.id = i.product_id
WHERE i.quantity <= GREATEST(COALESCE(i.min_quantity, 0), p.min_stock)
ORDER BY i.quantity ASC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []LowStockItem
	for rows.Next() {
		var it LowStockItem
		if err := rows.Scan(&it.ProductID, &it.ProductName, &it.Unit, &it.CurrentStock, &it.MinStock); err != nil {
			return nil, err
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

var _ RepositoryPort = (*PGRepository)(nil)
