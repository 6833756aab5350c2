package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestIsUniqueViolation(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "order_order_no_key"}

	require.True(t, IsUniqueViolation(unique))
	require.True(t, IsUniqueViolation(fmt.Errorf("insert order: %w", unique)))

	require.False(t, IsUniqueViolation(nil))
	require.False(t, IsUniqueViolation(errors.New("connection reset")))
	require.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
}
