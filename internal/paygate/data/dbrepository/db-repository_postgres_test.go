package dbrepository

import (
	"context"
	"os"
	"testing"
	"time"

	"go-vnpay/internal/paygate/data"
	"go-vnpay/internal/paygate/data/database"
	"go-vnpay/pkg/logging"
	"go-vnpay/pkg/pgxstorage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDatabaseEnv points at a disposable database; migrations are applied to it.
const testDatabaseEnv = "TEST_DATABASE_URI"

func newPostgresRepository(t *testing.T) (*DBRepository, *pgxstorage.DBStorage) {
	t.Helper()
	dsn, ok := os.LookupEnv(testDatabaseEnv)
	if !ok || dsn == "" {
		t.Skipf("%s is not set", testDatabaseEnv)
	}
	storage, err := pgxstorage.New(database.NewPgxDatabaseFactory(database.Config{ConnectionString: dsn}))
	require.NoError(t, err)
	t.Cleanup(storage.Close)
	return New(storage, logging.NewNop()), storage
}

func insertTestBasket(t *testing.T, storage *pgxstorage.DBStorage) int64 {
	t.Helper()
	var basketID int64
	err := storage.QueryValue(
		context.Background(),
		"INSERT INTO baskets (owner_id, site, currency, total_incl_tax) VALUES ($1, $2, $3, $4) RETURNING id",
		[]any{7, "https://shop.example", "VND", decimal.New(50, 0)},
		[]any{&basketID},
	)
	require.NoError(t, err)
	return basketID
}

func testOrder(basketID int64, createdAt time.Time) data.Order {
	return data.Order{
		Number:          "EDX-" + uuid.NewString(),
		BasketID:        basketID,
		Site:            "https://shop.example",
		Total:           decimal.New(50, 0),
		Currency:        "VND",
		PaymentLabel:    "VNPay (ATM)",
		PlacementStatus: data.PendingPlacement,
		CreatedAt:       createdAt,
	}
}

func TestPostgresDuplicateProcessorResponse(t *testing.T) {
	repository, storage := newPostgresRepository(t)
	ctx := context.Background()
	basketID := insertTestBasket(t, storage)

	response := data.ProcessorResponse{
		ProcessorName: "vnpay",
		TransactionID: uuid.NewString(),
		BasketID:      basketID,
		Payload:       []byte(`{"vnp_TxnRef":"EDX-100"}`),
	}
	id, err := repository.InsertProcessorResponse(ctx, response)
	require.NoError(t, err)
	assert.Positive(t, id)

	_, err = repository.InsertProcessorResponse(ctx, response)
	require.ErrorIs(t, err, data.ErrUniqueConstraintViolation)

	exists, err := repository.ProcessorResponseExists(ctx, response.ProcessorName, response.TransactionID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestPostgresDuplicateOrder(t *testing.T) {
	repository, storage := newPostgresRepository(t)
	ctx := context.Background()
	basketID := insertTestBasket(t, storage)

	order := testOrder(basketID, time.Now())
	require.NoError(t, repository.InsertOrder(ctx, &order))

	duplicate := order
	duplicate.PaymentLabel = "VNPay (VISA)"
	err := repository.InsertOrder(ctx, &duplicate)
	require.ErrorIs(t, err, data.ErrUniqueConstraintViolation)

	stored, err := repository.GetOrder(ctx, order.Number)
	require.NoError(t, err)
	assert.Equal(t, "VNPay (ATM)", stored.PaymentLabel)
	assert.True(t, order.Total.Equal(stored.Total))
}

func TestPostgresDuplicateRollsBackTransaction(t *testing.T) {
	repository, storage := newPostgresRepository(t)
	ctx := context.Background()
	basketID := insertTestBasket(t, storage)

	first := testOrder(basketID, time.Now())
	require.NoError(t, repository.InsertOrder(ctx, &first))

	transactionID := uuid.NewString()
	err := pgxstorage.NewTransactionsManager(storage).DoWithTransaction(ctx, func(ctx context.Context) error {
		_, err := repository.InsertProcessorResponse(ctx, data.ProcessorResponse{
			ProcessorName: "vnpay",
			TransactionID: transactionID,
			BasketID:      basketID,
			Payload:       []byte(`{}`),
		})
		if err != nil {
			return err
		}
		duplicate := first
		return repository.InsertOrder(ctx, &duplicate)
	})
	require.ErrorIs(t, err, data.ErrUniqueConstraintViolation)

	exists, err := repository.ProcessorResponseExists(ctx, "vnpay", transactionID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestPostgresGetOrdersCreatedBefore(t *testing.T) {
	repository, storage := newPostgresRepository(t)
	ctx := context.Background()
	basketID := insertTestBasket(t, storage)

	// far in the past so concurrent test data cannot sort ahead of it
	stale := testOrder(basketID, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC))
	fresh := testOrder(basketID, time.Now())
	require.NoError(t, repository.InsertOrder(ctx, &stale))
	require.NoError(t, repository.InsertOrder(ctx, &fresh))

	orders, err := repository.GetOrders(ctx, data.OrdersFilter{
		Statuses:      []data.PlacementStatus{data.PendingPlacement},
		CreatedBefore: time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)

	numbers := make([]string, 0, len(orders))
	for _, order := range orders {
		numbers = append(numbers, order.Number)
	}
	assert.Contains(t, numbers, stale.Number)
	assert.NotContains(t, numbers, fresh.Number)

	require.NoError(t, repository.SetOrderPlacementStatus(ctx, stale.Number, data.PlacedPlacement))
	orders, err = repository.GetOrders(ctx, data.OrdersFilter{
		Statuses: []data.PlacementStatus{data.FailedPlacement},
	})
	require.NoError(t, err)
	for _, order := range orders {
		assert.NotEqual(t, stale.Number, order.Number)
		assert.NotEqual(t, fresh.Number, order.Number)
	}
}
