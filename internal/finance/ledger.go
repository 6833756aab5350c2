package finance

import (
	"context"
	"fmt"

	"github.com/qiaozhwen/shop-be/internal/platform/db"
	"github.com/qiaozhwen/shop-be/internal/shared"
)

// PostRecord inserts a ledger row. It accepts any Querier so other modules
// can fold ledger entries into their own transactions.
func PostRecord(ctx context.Context, q db.Querier, rec Record) error {
	_, err := q.Exec(ctx, `INSERT INTO finance_record
(record_no, type, category, amount, payment_method, related_type, related_id, description, remark, operator_id, record_at, created_at)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, NULLIF($8, ''), NULLIF($9, ''), $10, $11, now())`,
		rec.RecordNo, rec.Type, rec.Category, rec.Amount, rec.PaymentMethod,
		rec.RelatedType, rec.RelatedID, rec.Description, rec.Remark, rec.OperatorID, rec.RecordAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %s", shared.ErrDuplicateRecordNumber, rec.RecordNo)
		}
		return err
	}
	return nil
}
