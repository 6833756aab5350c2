package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qiaozhwen/shop-be/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByUsername(ctx context.Context, username string) (*Account, error)
	FindByID(ctx context.Context, id int64) (*Account, error)
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

const accountColumns = `id, username, password, name, COALESCE(phone, ''), COALESCE(avatar, ''), role, status, last_login_at, created_at, updated_at`

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FindByUsername fetches an account by username.
func (r *PGRepository) FindByUsername(ctx context.Context, username string) (*Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM staff WHERE username = $1`, username)
	return scanAccount(row)
}

// FindByID fetches an account by id.
func (r *PGRepository) FindByID(ctx context.Context, id int64) (*Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM staff WHERE id = $1`, id)
	return scanAccount(row)
}

// TouchLastLogin stamps the account's last successful login time.
func (r *PGRepository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE staff SET last_login_at = $2, updated_at = $2 WHERE id = $1`, id, at)
	return err
}

// UpdatePassword replaces the stored bcrypt hash.
func (r *PGRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE staff SET password = $2, updated_at = now() WHERE id = $1`, id, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanAccount(row pgx.Row) (*Account, error) {
	var acct Account
	err := row.Scan(
		&acct.ID,
		&acct.Username,
		&acct.PasswordHash,
		&acct.Name,
		&acct.Phone,
		&acct.Avatar,
		&acct.Role,
		&acct.Status,
		&acct.LastLoginAt,
		&acct.CreatedAt,
		&acct.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &acct, nil
}

var _ Repository = (*PGRepository)(nil)
