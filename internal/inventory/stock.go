package inventory

import (
	"context"
	"fmt"

	"github.com/qiaozhwen/shop-be/internal/platform/db"
	"github.com/qiaozhwen/shop-be/internal/shared"
)

// Credit adds stock to a product, creating the stock row on first receipt.
// Runs against any Querier so callers can fold it into their own
// transaction.
func Credit(ctx context.Context, q db.Querier, productID int64, quantity int, weight float64) error {
	_, err := q.Exec(ctx, `INSERT INTO inventory (product_id, quantity, total_weight, min_quantity, created_at, updated_at)
VALUES ($1, $2, $3, 0, now(), now())
ON CONFLICT (product_id) DO UPDATE SET
quantity = inventory.quantity + EXCLUDED.quantity,
total_weight = GREATEST(0, COALESCE(inventory.total_weight, 0) + EXCLUDED.total_weight),
updated_at = now()`, productID, quantity, weight)
	return err
}

// Debit removes stock from a product. The guard in the WHERE clause makes
// the check and the decrement a single atomic statement, so two
// concurrent debits can never drive the quantity negative.
func Debit(ctx context.Context, q db.Querier, productID int64, quantity int, weight float64) error {
	tag, err := q.Exec(ctx, `UPDATE inventory SET
quantity = quantity - $2,
total_weight = GREATEST(0, COALESCE(total_weight, 0) - $3),
updated_at = now()
WHERE product_id = $1 AND quantity - $2 >= 0`, productID, quantity, weight)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: product %d", shared.ErrInsufficientStock, productID)
	}
	return nil
}
