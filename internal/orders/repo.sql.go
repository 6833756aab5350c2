package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qiaozhwen/shop-be/internal/customers"
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

const orderColumns = `id, order_no, customer_id, COALESCE(customer_name, ''), total_quantity, COALESCE(total_weight, 0),
total_amount, COALESCE(discount_amount, 0), actual_amount, payment_method, payment_status, COALESCE(paid_amount, 0),
status, COALESCE(remark, ''), operator_id, order_at, completed_at, created_at`

const orderListFilter = `($1 = '' OR order_no ILIKE '%' || $1 || '%' OR customer_name ILIKE '%' || $1 || '%')
AND ($2 = '' OR status = $2)
AND ($3 = '' OR payment_status = $3)`

// List returns order headers, newest first.
func (r *PGRepository) List(ctx context.Context, filter ListFilter) ([]Order, int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM "order" WHERE `+orderListFilter,
		filter.Keyword, filter.Status, filter.PaymentStatus).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT `+orderColumns+` FROM "order" WHERE `+orderListFilter+`
ORDER BY created_at DESC LIMIT $4 OFFSET $5`,
		filter.Keyword, filter.Status, filter.PaymentStatus, filter.Page.PageSize, filter.Page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Get returns one order with its lines and payments.
func (r *PGRepository) Get(ctx context.Context, id int64) (*Order, []Item, []Payment, error) {
	order, err := getOrder(ctx, r.pool, id, false)
	if err != nil {
		return nil, nil, nil, err
	}

	items, err := listItems(ctx, r.pool, id)
	if err != nil {
		return nil, nil, nil, err
	}

	rows, err := r.pool.Query(ctx, `SELECT id, order_id, payment_method, amount, received_amount, change_amount,
COALESCE(transaction_no, ''), operator_id, paid_at
FROM order_payment WHERE order_id = $1 ORDER BY paid_at`, id)
	if err != nil {
		return nil, nil, nil, err
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.OrderID, &p.PaymentMethod, &p.Amount, &p.ReceivedAmount, &p.ChangeAmount,
			&p.TransactionNo, &p.OperatorID, &p.PaidAt); err != nil {
			return nil, nil, nil, err
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, nil, err
	}
	return order, items, payments, nil
}

// Create books the order, its lines, and the stock debits in one
// transaction. Any line with insufficient stock aborts the whole order.
func (r *PGRepository) Create(ctx context.Context, orderNo string, input CreateInput, now time.Time) (*Order, error) {
	var created *Order
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var customerName *string
		if input.CustomerID != nil {
			var name string
			err := tx.QueryRow(ctx, `SELECT name FROM customer WHERE id = $1`, *input.CustomerID).Scan(&name)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return fmt.Errorf("%w: customer %d", shared.ErrNotFound, *input.CustomerID)
				}
				return err
			}
			customerName = &name
		}

		var orderID int64
		err := tx.QueryRow(ctx, `INSERT INTO "order"
(order_no, customer_id, customer_name, total_quantity, total_weight, total_amount, discount_amount, actual_amount,
 payment_method, payment_status, paid_amount, status, remark, operator_id, order_at, created_at, updated_at)
VALUES ($1, $2, $3, 0, 0, 0, $4, 0, $5, $6, 0, $7, NULLIF($8, ''), $9, $10, now(), now())
RETURNING id`,
			orderNo, input.CustomerID, customerName, input.DiscountAmount,
			input.PaymentMethod, PayUnpaid, StatusPending, input.Remark, input.OperatorID, now).Scan(&orderID)
		if err != nil {
			if db.IsUniqueViolation(err) {
				return fmt.Errorf("%w: %s", shared.ErrDuplicateRecordNumber, orderNo)
			}
			return err
		}

		var totalQty int
		var totalWeight, totalAmount float64
		for _, line := range input.Items {
			var name, unit string
			var listPrice float64
			err := tx.QueryRow(ctx, `SELECT name, unit, price FROM product WHERE id = $1`, line.ProductID).Scan(&name, &unit, &listPrice)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return fmt.Errorf("%w: product %d", shared.ErrNotFound, line.ProductID)
				}
				return err
			}

			unitPrice := listPrice
			if line.UnitPrice != nil {
				unitPrice = *line.UnitPrice
			}
			amount := LineAmount(unit, line.Quantity, line.Weight, unitPrice)

			if _, err := tx.Exec(ctx, `INSERT INTO order_item
(order_id, product_id, product_name, unit, quantity, weight, unit_price, amount, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())`,
				orderID, line.ProductID, name, unit, line.Quantity, line.Weight, unitPrice, amount); err != nil {
				return err
			}

			if err := inventory.Debit(ctx, tx, line.ProductID, line.Quantity, line.Weight); err != nil {
				return err
			}

			totalQty += line.Quantity
			totalWeight += line.Weight
			totalAmount += amount
		}

		totalAmount = Round2(totalAmount)
		actual := Round2(totalAmount - input.DiscountAmount)
		if actual < 0 {
			return fmt.Errorf("%w: discount exceeds order total", shared.ErrValidation)
		}

		if _, err := tx.Exec(ctx, `UPDATE "order" SET total_quantity = $2, total_weight = $3, total_amount = $4, actual_amount = $5, updated_at = now()
WHERE id = $1`, orderID, totalQty, totalWeight, totalAmount, actual); err != nil {
			return err
		}

		if input.CustomerID != nil {
			if _, err := tx.Exec(ctx, `UPDATE customer SET
total_orders = COALESCE(total_orders, 0) + 1,
total_amount = COALESCE(total_amount, 0) + $2,
last_order_at = $3,
updated_at = now()
WHERE id = $1`, *input.CustomerID, actual, now); err != nil {
				return err
			}
		}

		created, err = getOrder(ctx, tx, orderID, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Pay books one collection. Completion, the ledger entry and any credit
// charge land in the same transaction as the payment row.
func (r *PGRepository) Pay(ctx context.Context, orderID int64, input PayInput, now time.Time) (*Order, error) {
	var updated *Order
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		order, err := getOrder(ctx, tx, orderID, true)
		if err != nil {
			return err
		}
		if err := order.CanPay(); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `INSERT INTO order_payment
(order_id, payment_method, amount, received_amount, change_amount, transaction_no, operator_id, paid_at, created_at)
VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, now())`,
			orderID, input.Method, input.Amount, input.ReceivedAmount, input.ChangeAmount,
			input.TransactionNo, input.OperatorID, now); err != nil {
			return err
		}

		order.ApplyPayment(input.Amount, now)
		if _, err := tx.Exec(ctx, `UPDATE "order" SET paid_amount = $2, payment_status = $3, status = $4, completed_at = $5, updated_at = now()
WHERE id = $1`, orderID, order.PaidAmount, order.PaymentStatus, order.Status, order.CompletedAt); err != nil {
			return err
		}

		if input.Method == MethodCredit {
			if order.CustomerID == nil {
				return fmt.Errorf("%w: credit payment requires a customer", shared.ErrValidation)
			}
			if err := customers.AddCredit(ctx, tx, *order.CustomerID, input.Amount, &orderID, input.OperatorID); err != nil {
				return err
			}
		} else {
			// Credit collections are not income until repaid; cash-like
			// methods book immediately.
			if err := finance.PostRecord(ctx, tx, finance.Record{
				RecordNo:      shared.DocNumber("FIN", now),
				Type:          finance.TypeIncome,
				Category:      finance.CategorySale,
				Amount:        input.Amount,
				PaymentMethod: input.Method,
				RelatedType:   "order",
				RelatedID:     &orderID,
				Description:   "order payment " + order.OrderNo,
				OperatorID:    input.OperatorID,
				RecordAt:      now,
			}); err != nil {
				return err
			}
		}

		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Cancel voids an open order and returns its stock.
func (r *PGRepository) Cancel(ctx context.Context, orderID int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		order, err := getOrder(ctx, tx, orderID, true)
		if err != nil {
			return err
		}
		if err := order.CanCancel(); err != nil {
			return err
		}

		items, err := listItems(ctx, tx, orderID)
		if err != nil {
			return err
		}
		for _, item := range items {
			if err := inventory.Credit(ctx, tx, item.ProductID, item.Quantity, item.Weight); err != nil {
				return err
			}
		}

		_, err = tx.Exec(ctx, `UPDATE "order" SET status = $2, updated_at = now() WHERE id = $1`, orderID, StatusCancelled)
		return err
	})
}

func getOrder(ctx context.Context, q db.Querier, id int64, forUpdate bool) (*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM "order" WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	o, err := scanOrder(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func listItems(ctx context.Context, q db.Querier, orderID int64) ([]Item, error) {
	rows, err := q.Query(ctx, `SELECT id, order_id, product_id, product_name, unit, quantity, COALESCE(weight, 0), unit_price, amount
FROM order_item WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Unit, &it.Quantity, &it.Weight, &it.UnitPrice, &it.Amount); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.OrderNo, &o.CustomerID, &o.CustomerName, &o.TotalQuantity, &o.TotalWeight,
		&o.TotalAmount, &o.DiscountAmount, &o.ActualAmount, &o.PaymentMethod, &o.PaymentStatus, &o.PaidAmount,
		&o.Status, &o.Remark, &o.OperatorID, &o.OrderAt, &o.CompletedAt, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
