package finance

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

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

// CreateRecord inserts a ledger row.
func (r *PGRepository) CreateRecord(ctx context.Context, rec Record) error {
	return PostRecord(ctx, r.pool, rec)
}

const recordListFilter = `($1 = '' OR type = $1)
AND ($2 = '' OR category = $2)
AND (NULLIF($3, '')::date IS NULL OR record_at >= NULLIF($3, '')::date)
AND (NULLIF($4, '')::date IS NULL OR record_at < NULLIF($4, '')::date + INTERVAL '1 day')`

// ListRecords returns ledger rows, newest first.
func (r *PGRepository) ListRecords(ctx context.Context, filter RecordFilter) ([]Record, int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM finance_record WHERE `+recordListFilter,
		filter.Type, filter.Category, filter.StartDate, filter.EndDate).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT id, record_no, type, category, amount, COALESCE(payment_method, ''),
COALESCE(related_type, ''), related_id, COALESCE(description, ''), COALESCE(remark, ''), operator_id, record_at, created_at
FROM finance_record WHERE `+recordListFilter+`
ORDER BY created_at DESC LIMIT $5 OFFSET $6`,
		filter.Type, filter.Category, filter.StartDate, filter.EndDate, filter.Page.PageSize, filter.Page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.RecordNo, &rec.Type, &rec.Category, &rec.Amount, &rec.PaymentMethod,
			&rec.RelatedType, &rec.RelatedID, &rec.Description, &rec.Remark, &rec.OperatorID, &rec.RecordAt, &rec.CreatedAt); err != nil {
			return nil, 0, err
		}
		list = append(list, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Summarize totals income and expense over an inclusive date range.
func (r *PGRepository) Summarize(ctx context.Context, startDate, endDate string) (float64, float64, error) {
	var income, expense float64
	err := r.pool.QueryRow(ctx, `SELECT
COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0)
FROM finance_record WHERE record_at >= $1::date AND record_at < $2::date + INTERVAL '1 day'`,
		startDate, endDate).Scan(&income, &expense)
	if err != nil {
		return 0, 0, err
	}
	return income, expense, nil
}

// ListSettlements returns daily closings, newest first.
func (r *PGRepository) ListSettlements(ctx context.Context, page shared.PageRequest) ([]Settlement, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM daily_settlement`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT id, settle_date, COALESCE(total_orders, 0), COALESCE(total_sales, 0),
COALESCE(cash_amount, 0), COALESCE(wechat_amount, 0), COALESCE(alipay_amount, 0), COALESCE(card_amount, 0),
COALESCE(credit_amount, 0), COALESCE(total_expense, 0), COALESCE(profit, 0), operator_id, settled_at
FROM daily_settlement ORDER BY settle_date DESC LIMIT $1 OFFSET $2`, page.PageSize, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []Settlement
	for rows.Next() {
		var s Settlement
		if err := rows.Scan(&s.ID, &s.SettleDate, &s.TotalOrders, &s.TotalSales,
			&s.CashAmount, &s.WechatAmount, &s.AlipayAmount, &s.CardAmount,
			&s.CreditAmount, &s.TotalExpense, &s.Profit, &s.OperatorID, &s.SettledAt); err != nil {
			return nil, 0, err
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// SettleDay computes the closing figures for one calendar day and upserts
// the settlement row. Safe to run repeatedly for the same day.
func (r *PGRepository) SettleDay(ctx context.Context, day time.Time, operatorID int64) (*Settlement, error) {
	date := day.Format("2006-01-02")
	s := Settlement{SettleDate: day}

	err := r.pool.QueryRow(ctx, `SELECT COUNT(*), COALESCE(SUM(actual_amount), 0)
FROM "order" WHERE status = 'completed' AND completed_at::date = $1::date`, date).
		Scan(&s.TotalOrders, &s.TotalSales)
	if err != nil {
		return nil, err
	}

	err = r.pool.QueryRow(ctx, `SELECT
COALESCE(SUM(amount) FILTER (WHERE payment_method = 'cash'), 0),
COALESCE(SUM(amount) FILTER (WHERE payment_method = 'wechat'), 0),
COALESCE(SUM(amount) FILTER (WHERE payment_method = 'alipay'), 0),
COALESCE(SUM(amount) FILTER (WHERE payment_method = 'card'), 0),
COALESCE(SUM(amount) FILTER (WHERE payment_method = 'credit'), 0)
FROM order_payment WHERE paid_at::date = $1::date`, date).
		Scan(&s.CashAmount, &s.WechatAmount, &s.AlipayAmount, &s.CardAmount, &s.CreditAmount)
	if err != nil {
		return nil, err
	}

	err = r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0)
FROM finance_record WHERE type = 'expense' AND record_at::date = $1::date`, date).Scan(&s.TotalExpense)
	if err != nil {
		return nil, err
	}

	s.Profit = s.TotalSales - s.TotalExpense

	var op *int64
	if operatorID != 0 {
		op = &operatorID
	}
	err = r.pool.QueryRow(ctx, `INSERT INTO daily_settlement
(settle_date, total_orders, total_sales, cash_amount, wechat_amount, alipay_amount, card_amount, credit_amount, total_expense, profit, operator_id, settled_at, created_at)
VALUES ($1::date, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())
ON CONFLICT (settle_date) DO UPDATE SET
total_orders = EXCLUDED.total_orders,
total_sales = EXCLUDED.total_sales,
cash_amount = EXCLUDED.cash_amount,
wechat_amount = EXCLUDED.wechat_amount,
alipay_amount = EXCLUDED.alipay_amount,
card_amount = EXCLUDED.card_amount,
credit_amount = EXCLUDED.credit_amount,
total_expense = EXCLUDED.total_expense,
profit = EXCLUDED.profit,
operator_id = EXCLUDED.operator_id,
settled_at = now()
RETURNING id`,
		date, s.TotalOrders, s.TotalSales, s.CashAmount, s.WechatAmount, s.AlipayAmount,
		s.CardAmount, s.CreditAmount, s.TotalExpense, s.Profit, op).Scan(&s.ID)
	if err != nil {
		return nil, err
	}
	s.OperatorID = op
	return &s, nil
}
