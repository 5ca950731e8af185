package dbrepository

import (
	"fmt"
	"testing"
	"time"

	"go-vnpay/internal/paygate/data"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestHandleSQLError(t *testing.T) {
	other := fmt.Errorf("connection reset")

	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{name: "no rows", err: pgx.ErrNoRows, expected: data.ErrNotFound},
		{name: "wrapped no rows", err: fmt.Errorf("scan: %w", pgx.ErrNoRows), expected: data.ErrNotFound},
		{
			name:     "unique violation",
			err:      &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "orders_pkey"},
			expected: data.ErrUniqueConstraintViolation,
		},
		{name: "other pg error", err: &pgconn.PgError{Code: "23503"}, expected: nil},
		{name: "other error", err: other, expected: other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := handleSQLError(tt.err)
			if tt.expected == nil {
				assert.Equal(t, tt.err, got)
				return
			}
			assert.ErrorIs(t, got, tt.expected)
		})
	}
}

func TestFormatParams(t *testing.T) {
	assert.Equal(t, "$2,$3,$4", formatParams(2, 3))
	assert.Equal(t, "$1", formatParams(1, 1))
	assert.Equal(t, "", formatParams(1, 0))
}

func TestSelectOrdersQuery(t *testing.T) {
	createdBefore := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		filter        data.OrdersFilter
		expectedWhere string
		expectedArgs  []any
	}{
		{
			name:         "no filter",
			filter:       data.OrdersFilter{},
			expectedArgs: []any{nil},
		},
		{
			name: "statuses with limit",
			filter: data.OrdersFilter{
				Statuses: []data.PlacementStatus{data.FailedPlacement, data.PendingPlacement},
				Limit:    10,
			},
			expectedWhere: " WHERE placement_status IN ($2,$3)",
			expectedArgs:  []any{10, "FAILED", "PENDING"},
		},
		{
			name: "status created before",
			filter: data.OrdersFilter{
				Statuses:      []data.PlacementStatus{data.PendingPlacement},
				CreatedBefore: createdBefore,
				Limit:         5,
			},
			expectedWhere: " WHERE placement_status IN ($2) AND created_at < $3",
			expectedArgs:  []any{5, "PENDING", createdBefore},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := selectOrdersQuery(tt.filter)
			assert.Equal(
				t,
				"SELECT number, basket_id, site, total, currency, payment_label, placement_status, created_at FROM orders"+
					tt.expectedWhere+" ORDER BY created_at LIMIT $1",
				query,
			)
			assert.Equal(t, tt.expectedArgs, args)
		})
	}
}
