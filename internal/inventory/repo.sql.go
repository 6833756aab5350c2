package inventory

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qiaozhwen/shop-be/internal/platform/db"
	"github.com/qiaozhwen/shop-be/internal/shared"
)

// PGRepository implements RepositoryPort using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const itemListFilter = `($1 = '' OR p.name ILIKE '%' || $1 || '%' OR p.code ILIKE '%' || $1 || '%')
AND (NOT $2::boolean OR i.quantity <= i.min_quantity)`

// List returns stock rows joined with their products.
func (r *PGRepository) List(ctx context.Context, filter ListFilter) ([]Item, int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM inventory i JOIN product p ON p.id = i.product_id WHERE `+itemListFilter,
		filter.Keyword, filter.LowStock).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT i.id, i.product_id, p.name, COALESCE(p.code, ''), p.unit,
i.quantity, COALESCE(i.total_weight, 0), COALESCE(i.min_quantity, 0), COALESCE(i.notes, '')
FROM inventory i JOIN product p ON p.id = i.product_id
WHERE `+itemListFilter+`
ORDER BY i.id LIMIT $3 OFFSET $4`,
		filter.Keyword, filter.LowStock, filter.Page.PageSize, filter.Page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.ProductID, &it.ProductName, &it.ProductCode, &it.Unit,
			&it.Quantity, &it.TotalWeight, &it.MinQuantity, &it.Notes); err != nil {
			return nil, 0, err
		}
		list = append(list, it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// CreateInbound inserts the receipt and credits stock atomically.
func (r *PGRepository) CreateInbound(ctx context.Context, rec InboundRecord) (*InboundRecord, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `INSERT INTO inventory_inbound
(inbound_no, supplier_id, product_id, quantity, weight, unit_price, total_amount, batch_no, type, remark, operator_id, inbound_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, NULLIF($10, ''), $11, $12, now())
RETURNING id`,
			rec.InboundNo, rec.SupplierID, rec.ProductID, rec.Quantity, rec.Weight, rec.UnitPrice,
			rec.TotalAmount, rec.BatchNo, rec.Type, rec.Remark, rec.OperatorID, rec.InboundAt).Scan(&rec.ID)
		if err != nil {
			return err
		}
		return Credit(ctx, tx, rec.ProductID, rec.Quantity, rec.Weight)
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreateOutbound debits stock and inserts the issue atomically. Fails with
// ErrInsufficientStock when the debit would drive the quantity negative.
func (r *PGRepository) CreateOutbound(ctx context.Context, rec OutboundRecord) (*OutboundRecord, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := Debit(ctx, tx, rec.ProductID, rec.Quantity, rec.Weight); err != nil {
			return err
		}
		return tx.QueryRow(ctx, `INSERT INTO inventory_outbound
(outbound_no, type, order_id, product_id, quantity, weight, reason, operator_id, outbound_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, now())
RETURNING id`,
			rec.OutboundNo, rec.Type, rec.OrderID, rec.ProductID, rec.Quantity, rec.Weight,
			rec.Reason, rec.OperatorID, rec.OutboundAt).Scan(&rec.ID)
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListInbound returns receipts, newest first.
func (r *PGRepository) ListInbound(ctx context.Context, filter RecordFilter) ([]InboundRecord, int, error) {
	const where = `($1::bigint IS NULL OR product_id = $1) AND ($2 = '' OR type = $2)`

	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM inventory_inbound WHERE `+where,
		filter.ProductID, filter.Type).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT id, inbound_no, supplier_id, product_id, quantity, COALESCE(weight, 0),
COALESCE(unit_price, 0), COALESCE(total_amount, 0), COALESCE(batch_no, ''), type, COALESCE(remark, ''), operator_id, inbound_at
FROM inventory_inbound WHERE `+where+`
ORDER BY inbound_at DESC LIMIT $3 OFFSET $4`,
		filter.ProductID, filter.Type, filter.Page.PageSize, filter.Page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []InboundRecord
	for rows.Next() {
		var rec InboundRecord
		if err := rows.Scan(&rec.ID, &rec.InboundNo, &rec.SupplierID, &rec.ProductID, &rec.Quantity, &rec.Weight,
			&rec.UnitPrice, &rec.TotalAmount, &rec.BatchNo, &rec.Type, &rec.Remark, &rec.OperatorID, &rec.InboundAt); err != nil {
			return nil, 0, err
		}
		list = append(list, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListOutbound returns issues, newest first.
func (r *PGRepository) ListOutbound(ctx context.Context, filter RecordFilter) ([]OutboundRecord, int, error) {
	const where = `($1::bigint IS NULL OR product_id = $1) AND ($2 = '' OR type = $2)`

	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM inventory_outbound WHERE `+where,
		filter.ProductID, filter.Type).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT id, outbound_no, type, order_id, product_id, quantity, COALESCE(weight, 0),
COALESCE(reason, ''), operator_id, outbound_at
FROM inventory_outbound WHERE `+where+`
ORDER BY outbound_at DESC LIMIT $3 OFFSET $4`,
		filter.ProductID, filter.Type, filter.Page.PageSize, filter.Page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []OutboundRecord
	for rows.Next() {
		var rec OutboundRecord
		if err := rows.Scan(&rec.ID, &rec.OutboundNo, &rec.Type, &rec.OrderID, &rec.ProductID, &rec.Quantity, &rec.Weight,
			&rec.Reason, &rec.OperatorID, &rec.OutboundAt); err != nil {
			return nil, 0, err
		}
		list = append(list, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListAlerts returns stock alerts, unhandled first.
func (r *PGRepository) ListAlerts(ctx context.Context, handled *int16, page shared.PageRequest) ([]Alert, int, error) {
	const where = `($1::smallint IS NULL OR handled = $1)`

	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM inventory_alert WHERE `+where, handled).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT id, product_id, current_stock, min_stock, alert_level, handled, handled_by, handled_at, created_at
FROM inventory_alert WHERE `+where+`
ORDER BY handled ASC, created_at DESC LIMIT $2 OFFSET $3`, handled, page.PageSize, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []Alert
	for rows.Next() {
		var a Alert
		if err := rows.Scan(&a.ID, &a.ProductID, &a.CurrentStock, &a.MinStock, &a.AlertLevel, &a.Handled, &a.HandledBy, &a.HandledAt, &a.CreatedAt); err != nil {
			return nil, 0, err
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// HandleAlert marks an alert resolved.
func (r *PGRepository) HandleAlert(ctx context.Context, id, staffID int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE inventory_alert SET handled = 1, handled_by = $2, handled_at = now()
WHERE id = $1 AND handled = 0`, id, staffID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// LowStockRows returns products at or below their stock floor. Used by the
// periodic scan, not the HTTP surface.
func (r *PGRepository) LowStockRows(ctx context.Context) ([]Alert, error) {
	rows, err := r.pool.Query(ctx, `SELECT i.product_id, i.quantity, GREATEST(COALESCE(i.min_quantity, 0), p.min_stock)
FROM inventory i JOIN product p ON p.id = i.product_id
WHERE i.quantity <= GREATEST(COALESCE(i.min_quantity, 0), p.min_stock)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []Alert
	for rows.Next() {
		var a Alert
		if err := rows.Scan(&a.ProductID, &a.CurrentStock, &a.MinStock); err != nil {
			return nil, err
		}
		a.AlertLevel = AlertWarning
		if a.CurrentStock <= 0 {
			a.AlertLevel = AlertCritical
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// RecordAlert inserts an alert unless an unhandled one already exists for
// the product.
func (r *PGRepository) RecordAlert(ctx context.Context, alert Alert) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO inventory_alert (product_id, current_stock, min_stock, alert_level, handled, created_at)
SELECT $1, $2, $3, $4, 0, now()
WHERE NOT EXISTS (SELECT 1 FROM inventory_alert WHERE product_id = $1 AND handled = 0)`,
		alert.ProductID, alert.CurrentStock, alert.MinStock, alert.AlertLevel)
	return err
}
