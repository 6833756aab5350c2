package categories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qiaozhwen/shop-be/internal/shared"
)

// Repository defines persistence operations for categories.
type Repository interface {
	List(ctx context.Context, status *int16) ([]Category, error)
	Get(ctx context.Context, id int64) (Category, error)
	Create(ctx context.Context, category Category) (Category, error)
	Update(ctx context.Context, id int64, patch Patch) (Category, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const categoryColumns = `id, name, COALESCE(icon, ''), sort, status, created_at, updated_at`

// List returns categories ordered by their sort weight.
func (r *repository) List(ctx context.Context, status *int16) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+categoryColumns+` FROM category
WHERE ($1::smallint IS NULL OR status = $1) ORDER BY sort ASC, id ASC`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.Sort, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Category, error) {
	var c Category
	err := r.pool.QueryRow(ctx, `SELECT `+categoryColumns+` FROM category WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Icon, &c.Sort, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, shared.ErrNotFound
		}
		return Category{}, err
	}
	return c, nil
}

func (r *repository) Create(ctx context.Context, category Category) (Category, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO category (name, icon, sort, status, created_at, updated_at)
VALUES ($1, NULLIF($2, ''), $3, $4, now(), now()) RETURNING id`,
		category.Name, category.Icon, category.Sort, category.Status).Scan(&id)
	if err != nil {
		return Category{}, err
	}
	return r.Get(ctx, id)
}

func (r *repository) Update(ctx context.Context, id int64, patch Patch) (Category, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE category SET
name = COALESCE($2, name),
icon = COALESCE($3, icon),
sort = COALESCE($4, sort),
status = COALESCE($5, status),
updated_at = now()
WHERE id = $1`, id, patch.Name, patch.Icon, patch.Sort, patch.Status)
	if err != nil {
		return Category{}, err
	}
	if tag.RowsAffected() == 0 {
		return Category{}, shared.ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM category WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
