package customers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/qiaozhwen/shop-be/internal/platform/db"
	"github.com/qiaozhwen/shop-be/internal/shared"
)

// AddCredit raises a customer's outstanding balance, guarded by their
// credit limit in a single conditional update. It accepts any Querier so
// the order workflow can fold the charge into its own transaction.
func AddCredit(ctx context.Context, q db.Querier, customerID int64, amount float64, orderID *int64, operatorID int64) error {
	var after float64
	err := q.QueryRow(ctx, `UPDATE customer SET
credit_balance = COALESCE(credit_balance, 0) + $2,
updated_at = now()
WHERE id = $1 AND COALESCE(credit_balance, 0) + $2 <= COALESCE(credit_limit, 0)
RETURNING credit_balance`, customerID, amount).Scan(&after)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			if checkErr := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM customer WHERE id = $1)`, customerID).Scan(&exists); checkErr != nil {
				return checkErr
			}
			if !exists {
				return fmt.Errorf("%w: customer %d", shared.ErrNotFound, customerID)
			}
			return fmt.Errorf("%w: credit limit exceeded", shared.ErrValidation)
		}
		return err
	}

	_, err = q.Exec(ctx, `INSERT INTO customer_credit_log (customer_id, type, amount, order_id, balance_before, balance_after, operator_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now())`,
		customerID, CreditTypeCredit, amount, orderID, after-amount, after, operatorID)
	return err
}
