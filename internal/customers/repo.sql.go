package customers

import (
	"context"
	"errors"
	"fmt"

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

const customerColumns = `id, name, type, level, COALESCE(contact_name, ''), phone, COALESCE(address, ''),
COALESCE(credit_limit, 0), COALESCE(credit_balance, 0), COALESCE(total_orders, 0), COALESCE(total_amount, 0),
last_order_at, COALESCE(remark, ''), status, created_at, updated_at`

const customerListFilter = `($1 = '' OR name ILIKE '%' || $1 || '%' OR phone ILIKE '%' || $1 || '%')
AND ($2 = '' OR type = $2)
AND ($3 = '' OR level = $3)
AND ($4::smallint IS NULL OR status = $4)`

func (r *PGRepository) List(ctx context.Context, filter ListFilter) ([]Customer, int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM customer WHERE `+customerListFilter,
		filter.Keyword, filter.Type, filter.Level, filter.Status).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT `+customerColumns+` FROM customer WHERE `+customerListFilter+`
ORDER BY created_at DESC LIMIT $5 OFFSET $6`,
		filter.Keyword, filter.Type, filter.Level, filter.Status, filter.Page.PageSize, filter.Page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *PGRepository) Get(ctx context.Context, id int64) (*Customer, error) {
	return getCustomer(ctx, r.pool, id)
}

func getCustomer(ctx context.Context, q db.Querier, id int64) (*Customer, error) {
	row := q.QueryRow(ctx, `SELECT `+customerColumns+` FROM customer WHERE id = $1`, id)
	c, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *PGRepository) Create(ctx context.Context, customer Customer) (*Customer, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO customer
(name, type, level, contact_name, phone, address, credit_limit, credit_balance, total_orders, total_amount, remark, status, created_at, updated_at)
VALUES ($1, $2, $3, NULLIF($4, ''), $5, NULLIF($6, ''), $7, 0, 0, 0, NULLIF($8, ''), $9, now(), now())
RETURNING id`,
		customer.Name, customer.Type, customer.Level, customer.ContactName, customer.Phone,
		customer.Address, customer.CreditLimit, customer.Remark, customer.Status).Scan(&id)
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *PGRepository) Update(ctx context.Context, id int64, patch Patch) (*Customer, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE customer SET
name = COALESCE($2, name),
type = COALESCE($3, type),
level = COALESCE($4, level),
contact_name = COALESCE($5, contact_name),
phone = COALESCE($6, phone),
address = COALESCE($7, address),
credit_limit = COALESCE($8, credit_limit),
remark = COALESCE($9, remark),
status = COALESCE($10, status),
updated_at = now()
WHERE id = $1`,
		id, patch.Name, patch.Type, patch.Level, patch.ContactName, patch.Phone,
		patch.Address, patch.CreditLimit, patch.Remark, patch.Status)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, shared.ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM customer WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *PGRepository) CreditLogs(ctx context.Context, customerID int64, page shared.PageRequest) ([]CreditLog, int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM customer_credit_log WHERE customer_id = $1`, customerID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT id, customer_id, type, amount, order_id, balance_before, balance_after, COALESCE(remark, ''), operator_id, created_at
FROM customer_credit_log WHERE customer_id = $1
ORDER BY created_at DESC LIMIT $2 OFFSET $3`, customerID, page.PageSize, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []CreditLog
	for rows.Next() {
		var l CreditLog
		if err := rows.Scan(&l.ID, &l.CustomerID, &l.Type, &l.Amount, &l.OrderID, &l.BalanceBefore, &l.BalanceAfter, &l.Remark, &l.OperatorID, &l.CreatedAt); err != nil {
			return nil, 0, err
		}
		list = append(list, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Repay settles part of a customer's outstanding balance inside one
// transaction. The post callback runs in the same transaction so the
// caller can attach bookkeeping rows.
func (r *PGRepository) Repay(ctx context.Context, input RepayInput, post func(q db.Querier) error) (*Customer, error) {
	var updated *Customer
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var balance float64
		err := tx.QueryRow(ctx, `SELECT COALESCE(credit_balance, 0) FROM customer WHERE id = $1 FOR UPDATE`, input.CustomerID).Scan(&balance)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return shared.ErrNotFound
			}
			return err
		}
		if input.Amount > balance {
			return fmt.Errorf("%w: repay amount exceeds outstanding balance", shared.ErrValidation)
		}

		after := balance - input.Amount
		if _, err := tx.Exec(ctx, `UPDATE customer SET credit_balance = $2, updated_at = now() WHERE id = $1`, input.CustomerID, after); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `INSERT INTO customer_credit_log (customer_id, type, amount, balance_before, balance_after, remark, operator_id, created_at)
VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, now())`,
			input.CustomerID, CreditTypeRepay, input.Amount, balance, after, input.Remark, input.OperatorID); err != nil {
			return err
		}
		if post != nil {
			if err := post(tx); err != nil {
				return err
			}
		}

		updated, err = getCustomer(ctx, tx, input.CustomerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func scanCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	err := row.Scan(
		&c.ID, &c.Name, &c.Type, &c.Level, &c.ContactName, &c.Phone, &c.Address,
		&c.CreditLimit, &c.CreditBalance, &c.TotalOrders, &c.TotalAmount,
		&c.LastOrderAt, &c.Remark, &c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
