package staff

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qiaozhwen/shop-be/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const staffColumns = `id, username, name, COALESCE(phone, ''), COALESCE(avatar, ''), role, status, last_login_at, created_at, updated_at`

const staffListFilter = `($1 = '' OR username ILIKE '%' || $1 || '%' OR name ILIKE '%' || $1 || '%' OR phone ILIKE '%' || $1 || '%')
AND ($2 = '' OR role = $2)
AND ($3::smallint IS NULL OR status = $3)`

// List returns a page of staff and the unpaged total.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Staff, int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM staff WHERE `+staffListFilter,
		filter.Keyword, filter.Role, filter.Status).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT `+staffColumns+` FROM staff WHERE `+staffListFilter+`
ORDER BY created_at DESC LIMIT $4 OFFSET $5`,
		filter.Keyword, filter.Role, filter.Status, filter.Page.PageSize, filter.Page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []Staff
	for rows.Next() {
		var s Staff
		if err := rows.Scan(&s.ID, &s.Username, &s.Name, &s.Phone, &s.Avatar, &s.Role, &s.Status, &s.LastLoginAt, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, err
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Get fetches one staff member by id.
func (r *Repository) Get(ctx context.Context, id int64) (*Staff, error) {
	var s Staff
	err := r.pool.QueryRow(ctx, `SELECT `+staffColumns+` FROM staff WHERE id = $1`, id).
		Scan(&s.ID, &s.Username, &s.Name, &s.Phone, &s.Avatar, &s.Role, &s.Status, &s.LastLoginAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Create inserts a staff row. passwordHash must already be bcrypt encoded.
func (r *Repository) Create(ctx context.Context, input NewStaff, passwordHash string) (*Staff, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO staff (username, password, name, phone, avatar, role, status, created_at, updated_at)
VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7, now(), now())
RETURNING id`,
		input.Username, passwordHash, input.Name, input.Phone, input.Avatar, input.Role, input.Status).Scan(&id)
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// Update applies non-nil patch fields. passwordHash replaces the stored
// credential when non-empty.
func (r *Repository) Update(ctx context.Context, id int64, patch Patch, passwordHash string) (*Staff, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE staff SET
username = COALESCE($2, username),
name = COALESCE($3, name),
phone = COALESCE($4, phone),
avatar = COALESCE($5, avatar),
role = COALESCE($6, role),
status = COALESCE($7, status),
password = CASE WHEN $8 <> '' THEN $8 ELSE password END,
updated_at = now()
WHERE id = $1`,
		id, patch.Username, patch.Name, patch.Phone, patch.Avatar, patch.Role, patch.Status, passwordHash)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, shared.ErrNotFound
	}
	return r.Get(ctx, id)
}

// Delete removes a staff row.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM staff WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
