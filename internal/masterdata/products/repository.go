package products

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qiaozhwen/shop-be/internal/shared"
)

// Repository defines persistence operations for products.
type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]Product, int, error)
	Get(ctx context.Context, id int64) (*Product, error)
	Create(ctx context.Context, product Product) (*Product, error)
	Update(ctx context.Context, id int64, patch Patch) (*Product, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const productColumns = `id, category_id, COALESCE(code, ''), name, unit, price, cost_price, weight_avg,
COALESCE(image_url, ''), COALESCE(description, ''), min_stock, is_active, COALESCE(sku, ''), created_at, updated_at`

const productListFilter = `($1 = '' OR name ILIKE '%' || $1 || '%' OR code ILIKE '%' || $1 || '%' OR sku ILIKE '%' || $1 || '%')
AND ($2::bigint IS NULL OR category_id = $2)
AND ($3::smallint IS NULL OR is_active = $3)`

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Product, int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM product WHERE `+productListFilter,
		filter.Keyword, filter.CategoryID, filter.IsActive).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM product WHERE `+productListFilter+`
ORDER BY created_at DESC LIMIT $4 OFFSET $5`,
		filter.Keyword, filter.CategoryID, filter.IsActive, filter.Page.PageSize, filter.Page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []Product
	for rows.Next() {
		p, err := scanProduct(rows)
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

func (r *repository) Get(ctx context.Context, id int64) (*Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM product WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *repository) Create(ctx context.Context, product Product) (*Product, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO product
(category_id, code, name, unit, price, cost_price, weight_avg, image_url, description, min_stock, is_active, sku, created_at, updated_at)
VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, NULLIF($8, ''), NULLIF($9, ''), $10, $11, NULLIF($12, ''), now(), now())
RETURNING id`,
		product.CategoryID, product.Code, product.Name, product.Unit, product.Price,
		product.CostPrice, product.WeightAvg, product.ImageURL, product.Description,
		product.MinStock, product.IsActive, product.SKU).Scan(&id)
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *repository) Update(ctx context.Context, id int64, patch Patch) (*Product, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE product SET
category_id = COALESCE($2, category_id),
code = COALESCE($3, code),
name = COALESCE($4, name),
unit = COALESCE($5, unit),
price = COALESCE($6, price),
cost_price = COALESCE($7, cost_price),
weight_avg = COALESCE($8, weight_avg),
image_url = COALESCE($9, image_url),
description = COALESCE($10, description),
min_stock = COALESCE($11, min_stock),
is_active = COALESCE($12, is_active),
sku = COALESCE($13, sku),
updated_at = now()
WHERE id = $1`,
		id, patch.CategoryID, patch.Code, patch.Name, patch.Unit, patch.Price,
		patch.CostPrice, patch.WeightAvg, patch.ImageURL, patch.Description,
		patch.MinStock, patch.IsActive, patch.SKU)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, shared.ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM product WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID, &p.CategoryID, &p.Code, &p.Name, &p.Unit, &p.Price, &p.CostPrice, &p.WeightAvg,
		&p.ImageURL, &p.Description, &p.MinStock, &p.IsActive, &p.SKU, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
