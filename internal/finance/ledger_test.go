package finance

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/qiaozhwen/shop-be/internal/shared"
)

type stubQuerier struct {
	execErr error
	execs   int
}

func (q *stubQuerier) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	q.execs++
	return pgconn.CommandTag{}, q.execErr
}

func (q *stubQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("unexpected query")
}

func (q *stubQuerier) QueryRow(context.Context, string, ...any) pgx.Row {
	return nil
}

func TestPostRecordMapsDuplicateRecordNumber(t *testing.T) {
	q := &stubQuerier{execErr: fmt.Errorf("insert finance_record: %w",
		&pgconn.PgError{Code: "23505", ConstraintName: "finance_record_record_no_key"})}

	err := PostRecord(context.Background(), q, Record{
		RecordNo: "FIN202406011000ABCD",
		Type:     TypeIncome,
		Category: CategoryCustomerRepay,
		Amount:   50,
		RecordAt: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
	})
	require.ErrorIs(t, err, shared.ErrDuplicateRecordNumber)
	require.Contains(t, err.Error(), "FIN202406011000ABCD")
}

func TestPostRecordPassesThroughOtherErrors(t *testing.T) {
	q := &stubQuerier{execErr: errors.New("connection reset")}

	err := PostRecord(context.Background(), q, Record{RecordNo: "FIN1", Type: TypeExpense, Category: CategoryPurchase, Amount: 10})
	require.Error(t, err)
	require.NotErrorIs(t, err, shared.ErrDuplicateRecordNumber)
}

func TestPostRecordSucceeds(t *testing.T) {
	q := &stubQuerier{}

	err := PostRecord(context.Background(), q, Record{RecordNo: "FIN2", Type: TypeIncome, Category: CategorySale, Amount: 10})
	require.NoError(t, err)
	require.Equal(t, 1, q.execs)
}
