package procurement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qiaozhwen/shop-be/internal/finance"
	"github.com/qiaozhwen/shop-be/internal/inventory"
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

const purchaseColumns = `p.id, p.purchase_no, p.supplier_id, COALESCE(s.name, ''), p.total_quantity,
COALESCE(p.total_weight, 0), p.total_amount, COALESCE(p.paid_amount, 0), p.payment_status, p.status,
p.expected_at, p.received_at, COALESCE(p.remark, ''), p.operator_id, p.created_at`

const purchaseFrom = ` FROM purchase_order p LEFT JOIN supplier s ON s.id = p.supplier_id`

const purchaseListFilter = `($1::bigint IS NULL OR p.supplier_id = $1)
AND ($2 = '' OR p.status = $2)
AND ($3 = '' OR p.payment_status = $3)`

// List returns purchase order headers, newest first.
func (r *PGRepository) List(ctx context.Context, filter ListFilter) ([]PurchaseOrder, int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+purchaseFrom+` WHERE `+purchaseListFilter,
		filter.SupplierID, filter.Status, filter.PaymentStatus).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT `+purchaseColumns+purchaseFrom+` WHERE `+purchaseListFilter+`
ORDER BY p.created_at DESC LIMIT $4 OFFSET $5`,
		filter.SupplierID, filter.Status, filter.PaymentStatus, filter.Page.PageSize, filter.Page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []PurchaseOrder
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Get returns one purchase order with its lines.
func (r *PGRepository) Get(ctx context.Context, id int64) (*PurchaseOrder, []Item, error) {
	purchase, err := getPurchase(ctx, r.pool, id, false)
	if err != nil {
		return nil, nil, err
	}
	items, err := listItems(ctx, r.pool, id)
	if err != nil {
		return nil, nil, err
	}
	return purchase, items, nil
}

// Create books the order header and lines. Stock is untouched until the
// order is received.
func (r *PGRepository) Create(ctx context.Context, purchaseNo string, input CreateInput, now time.Time) (*PurchaseOrder, error) {
	var created *PurchaseOrder
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var supplierName string
		err := tx.QueryRow(ctx, `SELECT name FROM supplier WHERE id = $1`, input.SupplierID).Scan(&supplierName)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("%w: supplier %d", shared.ErrNotFound, input.SupplierID)
			}
			return err
		}

		var purchaseID int64
		err = tx.QueryRow(ctx, `INSERT INTO purchase_order
(purchase_no, supplier_id, total_quantity, total_weight, total_amount, paid_amount, payment_status, status,
 expected_at, remark, operator_id, created_at, updated_at)
VALUES ($1, $2, 0, 0, 0, 0, $3, $4, $5, NULLIF($6, ''), $7, $8, now())
RETURNING id`,
			purchaseNo, input.SupplierID, PayUnpaid, StatusPending,
			input.ExpectedAt, input.Remark, input.OperatorID, now).Scan(&purchaseID)
		if err != nil {
			if db.IsUniqueViolation(err) {
				return fmt.Errorf("%w: %s", shared.ErrDuplicateRecordNumber, purchaseNo)
			}
			return err
		}

		var totalQty int
		var totalWeight, totalAmount float64
		for _, line := range input.Items {
			var name, unit string
			err := tx.QueryRow(ctx, `SELECT name, unit FROM product WHERE id = $1`, line.ProductID).Scan(&name, &unit)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return fmt.Errorf("%w: product %d", shared.ErrNotFound, line.ProductID)
				}
				return err
			}

			amount := lineAmount(unit, line.Quantity, line.Weight, line.UnitPrice)
			if _, err := tx.Exec(ctx, `INSERT INTO purchase_order_item
(purchase_id, product_id, product_name, quantity, weight, unit_price, amount, received_quantity, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, 0, now())`,
				purchaseID, line.ProductID, name, line.Quantity, line.Weight, line.UnitPrice, amount); err != nil {
				return err
			}

			totalQty += line.Quantity
			totalWeight += line.Weight
			totalAmount += amount
		}

		if _, err := tx.Exec(ctx, `UPDATE purchase_order SET total_quantity = $2, total_weight = $3, total_amount = $4, updated_at = now()
WHERE id = $1`, purchaseID, totalQty, totalWeight, round2(totalAmount)); err != nil {
			return err
		}

		created, err = getPurchase(ctx, tx, purchaseID, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Confirm moves a pending order to confirmed.
func (r *PGRepository) Confirm(ctx context.Context, id int64) (*PurchaseOrder, error) {
	var updated *PurchaseOrder
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		purchase, err := getPurchase(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if err := purchase.CanConfirm(); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE purchase_order SET status = $2, updated_at = now() WHERE id = $1`,
			id, StatusConfirmed); err != nil {
			return err
		}
		purchase.Status = StatusConfirmed
		updated = purchase
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Receive books the goods in. Inventory credits, line receipt counters,
// the supplier's running totals and the status flip land in one
// transaction.
func (r *PGRepository) Receive(ctx context.Context, id int64, now time.Time) (*PurchaseOrder, error) {
	var updated *PurchaseOrder
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		purchase, err := getPurchase(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if err := purchase.CanReceive(); err != nil {
			return err
		}

		items, err := listItems(ctx, tx, id)
		if err != nil {
			return err
		}
		for _, item := range items {
			if err := inventory.Credit(ctx, tx, item.ProductID, item.Quantity, item.Weight); err != nil {
				return err
			}
		}
		if _, err := tx.Exec(ctx, `UPDATE purchase_order_item SET received_quantity = quantity WHERE purchase_id = $1`, id); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `UPDATE supplier SET
total_purchase = COALESCE(total_purchase, 0) + $2,
unpaid_amount = COALESCE(unpaid_amount, 0) + $2 - $3,
updated_at = now()
WHERE id = $1`, purchase.SupplierID, purchase.TotalAmount, purchase.PaidAmount); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `UPDATE purchase_order SET status = $2, received_at = $3, updated_at = now() WHERE id = $1`,
			id, StatusReceived, now); err != nil {
			return err
		}
		purchase.Status = StatusReceived
		purchase.ReceivedAt = &now
		updated = purchase
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Cancel voids an order that has not been received. Stock was never
// touched, so there is nothing to reverse.
func (r *PGRepository) Cancel(ctx context.Context, id int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		purchase, err := getPurchase(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if err := purchase.CanCancel(); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `UPDATE purchase_order SET status = $2, updated_at = now() WHERE id = $1`, id, StatusCancelled)
		return err
	})
}

// Pay books one payment against the order. The supplier's open balance
// and the expense ledger entry move in the same transaction.
func (r *PGRepository) Pay(ctx context.Context, id int64, input PayInput, now time.Time) (*PurchaseOrder, error) {
	var updated *PurchaseOrder
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		purchase, err := getPurchase(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if err := purchase.ApplyPayment(input.Amount); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `UPDATE purchase_order SET paid_amount = $2, payment_status = $3, updated_at = now()
WHERE id = $1`, id, purchase.PaidAmount, purchase.PaymentStatus); err != nil {
			return err
		}

		if purchase.Status == StatusReceived {
			if _, err := tx.Exec(ctx, `UPDATE supplier SET
unpaid_amount = GREATEST(0, COALESCE(unpaid_amount, 0) - $2),
updated_at = now()
WHERE id = $1`, purchase.SupplierID, input.Amount); err != nil {
				return err
			}
		}

		if err := finance.PostRecord(ctx, tx, finance.Record{
			RecordNo:      shared.DocNumber("FIN", now),
			Type:          finance.TypeExpense,
			Category:      finance.CategoryPurchase,
			Amount:        input.Amount,
			PaymentMethod: input.Method,
			RelatedType:   "purchase_order",
			RelatedID:     &id,
			Description:   "purchase payment " + purchase.PurchaseNo,
			Remark:        input.Remark,
			OperatorID:    input.OperatorID,
			RecordAt:      now,
		}); err != nil {
			return err
		}

		updated = purchase
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Statistics aggregates procurement spend over an optional date range.
func (r *PGRepository) Statistics(ctx context.Context, startDate, endDate string) (*Statistics, error) {
	var stats Statistics
	err := r.pool.QueryRow(ctx, `SELECT
COUNT(*),
COALESCE(SUM(total_amount), 0),
COALESCE(SUM(paid_amount), 0),
COALESCE(SUM(total_amount) - SUM(paid_amount), 0),
COUNT(*) FILTER (WHERE status = 'pending'),
COUNT(*) FILTER (WHERE status = 'confirmed')
FROM purchase_order
WHERE (NULLIF($1, '')::date IS NULL OR created_at >= NULLIF($1, '')::date)
AND (NULLIF($2, '')::date IS NULL OR created_at < NULLIF($2, '')::date + INTERVAL '1 day')`,
		startDate, endDate).Scan(&stats.TotalOrders, &stats.TotalAmount, &stats.PaidAmount,
		&stats.UnpaidAmount, &stats.PendingCount, &stats.ConfirmedCount)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func getPurchase(ctx context.Context, q db.Querier, id int64, forUpdate bool) (*PurchaseOrder, error) {
	query := `SELECT ` + purchaseColumns + purchaseFrom + ` WHERE p.id = $1`
	if forUpdate {
		query += ` FOR UPDATE OF p`
	}
	p, err := scanPurchase(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func listItems(ctx context.Context, q db.Querier, purchaseID int64) ([]Item, error) {
	rows, err := q.Query(ctx, `SELECT id, purchase_id, product_id, product_name, quantity, COALESCE(weight, 0), unit_price, amount, received_quantity
FROM purchase_order_item WHERE purchase_id = $1 ORDER BY id`, purchaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.PurchaseID, &it.ProductID, &it.ProductName, &it.Quantity, &it.Weight, &it.UnitPrice, &it.Amount, &it.ReceivedQuantity); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func scanPurchase(row pgx.Row) (*PurchaseOrder, error) {
	var p PurchaseOrder
	err := row.Scan(
		&p.ID, &p.PurchaseNo, &p.SupplierID, &p.SupplierName, &p.TotalQuantity,
		&p.TotalWeight, &p.TotalAmount, &p.PaidAmount, &p.PaymentStatus, &p.Status,
		&p.ExpectedAt, &p.ReceivedAt, &p.Remark, &p.OperatorID, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
