package suppliers

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qiaozhwen/shop-be/internal/shared"
)

// Repository defines persistence operations for suppliers.
type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]Supplier, int, error)
	Get(ctx context.Context, id int64) (*Supplier, error)
	Create(ctx context.Context, supplier Supplier) (*Supplier, error)
	Update(ctx context.Context, id int64, patch Patch) (*Supplier, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const supplierColumns = `id, name, COALESCE(contact_name, ''), phone, COALESCE(address, ''),
COALESCE(bank_name, ''), COALESCE(bank_account, ''), COALESCE(supply_products, ''),
COALESCE(total_purchase, 0), COALESCE(unpaid_amount, 0), COALESCE(rating, 5),
COALESCE(remark, ''), status, created_at, updated_at`

const supplierListFilter = `($1 = '' OR name ILIKE '%' || $1 || '%' OR contact_name ILIKE '%' || $1 || '%' OR phone ILIKE '%' || $1 || '%')
AND ($2::smallint IS NULL OR status = $2)`

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Supplier, int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM supplier WHERE `+supplierListFilter,
		filter.Keyword, filter.Status).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT `+supplierColumns+` FROM supplier WHERE `+supplierListFilter+`
ORDER BY created_at DESC LIMIT $3 OFFSET $4`,
		filter.Keyword, filter.Status, filter.Page.PageSize, filter.Page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Supplier, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+supplierColumns+` FROM supplier WHERE id = $1`, id)
	s, err := scanSupplier(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *repository) Create(ctx context.Context, supplier Supplier) (*Supplier, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO supplier
(name, contact_name, phone, address, bank_name, bank_account, supply_products, rating, remark, status, total_purchase, unpaid_amount, created_at, updated_at)
VALUES ($1, NULLIF($2, ''), $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), $8, NULLIF($9, ''), $10, 0, 0, now(), now())
RETURNING id`,
		supplier.Name, supplier.ContactName, supplier.Phone, supplier.Address,
		supplier.BankName, supplier.BankAccount, supplier.SupplyProducts,
		supplier.Rating, supplier.Remark, supplier.Status).Scan(&id)
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *repository) Update(ctx context.Context, id int64, patch Patch) (*Supplier, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE supplier SET
name = COALESCE($2, name),
contact_name = COALESCE($3, contact_name),
phone = COALESCE($4, phone),
address = COALESCE($5, address),
bank_name = COALESCE($6, bank_name),
bank_account = COALESCE($7, bank_account),
supply_products = COALESCE($8, supply_products),
rating = COALESCE($9, rating),
remark = COALESCE($10, remark),
status = COALESCE($11, status),
updated_at = now()
WHERE id = $1`,
		id, patch.Name, patch.ContactName, patch.Phone, patch.Address,
		patch.BankName, patch.BankAccount, patch.SupplyProducts,
		patch.Rating, patch.Remark, patch.Status)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, shared.ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM supplier WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanSupplier(row pgx.Row) (*Supplier, error) {
	var s Supplier
	err := row.Scan(
		&s.ID, &s.Name, &s.ContactName, &s.Phone, &s.Address,
		&s.BankName, &s.BankAccount, &s.SupplyProducts,
		&s.TotalPurchase, &s.UnpaidAmount, &s.Rating,
		&s.Remark, &s.Status, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
