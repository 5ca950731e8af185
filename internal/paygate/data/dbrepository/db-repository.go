package dbrepository

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strings"

	"go-vnpay/internal/paygate/data"
	"go-vnpay/pkg/logging"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const uniqueViolationCode = "23505"

type DBStorage interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, query string, args ...any) (pgx.Row, error)
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	QueryValue(ctx context.Context, query string, args []any, dest []any) error
}

type DBRepository struct {
	storage DBStorage
	logger  *logging.ZapLogger
}

func New(storage DBStorage, logger *logging.ZapLogger) *DBRepository {
	return &DBRepository{
		storage: storage,
		logger:  logger,
	}
}

//go:embed sql/select_basket.sql
var selectBasketQuery string

// GetBasket returns the basket if its status is one of allowedStatuses
// (any status when none given).
func (db *DBRepository) GetBasket(
	ctx context.Context,
	basketID int64,
	allowedStatuses ...data.BasketStatus,
) (data.Basket, error) {
	db.logger.DebugCtx(ctx, "getting basket", zap.Int64("basketID", basketID))
	var basket data.Basket
	err := db.storage.QueryValue(
		ctx,
		selectBasketQuery,
		[]any{basketID},
		[]any{
			&basket.ID,
			&basket.OwnerID,
			&basket.Site,
			&basket.Status,
			&basket.Currency,
			&basket.TotalInclTax,
			&basket.DiscountInclTax,
		},
	)
	if err != nil {
		return data.Basket{}, handleSQLError(err)
	}
	if len(allowedStatuses) > 0 && !slices.Contains(allowedStatuses, basket.Status) {
		return data.Basket{}, fmt.Errorf("%w: basket %d is %s", data.ErrNotFound, basketID, basket.Status)
	}
	return basket, nil
}

//go:embed sql/update_basket_status.sql
var updateBasketStatusQuery string

func (db *DBRepository) SetBasketStatus(ctx context.Context, basketID int64, status data.BasketStatus) error {
	tag, err := db.storage.Exec(ctx, updateBasketStatusQuery, basketID, string(status))
	if err != nil {
		return handleSQLError(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: basket %d", data.ErrNotFound, basketID)
	}
	return nil
}

//go:embed sql/upsert_basket_attribute.sql
var upsertBasketAttributeQuery string

func (db *DBRepository) SetBasketAttribute(ctx context.Context, attribute data.BasketAttribute) error {
	_, err := db.storage.Exec(
		ctx,
		upsertBasketAttributeQuery,
		attribute.BasketID,
		attribute.Name,
		attribute.Value,
	)
	if err != nil {
		return handleSQLError(err)
	}
	return nil
}

//go:embed sql/select_order_exists.sql
var selectOrderExistsQuery string

func (db *DBRepository) OrderExists(ctx context.Context, orderNumber string) (exists bool, err error) {
	err = db.storage.QueryValue(ctx, selectOrderExistsQuery, []any{orderNumber}, []any{&exists})
	if err != nil {
		return false, handleSQLError(err)
	}
	return exists, nil
}

//go:embed sql/select_processor_response_exists.sql
var selectProcessorResponseExistsQuery string

func (db *DBRepository) ProcessorResponseExists(
	ctx context.Context,
	processorName string,
	transactionID string,
) (exists bool, err error) {
	err = db.storage.QueryValue(
		ctx,
		selectProcessorResponseExistsQuery,
		[]any{processorName, transactionID},
		[]any{&exists},
	)
	if err != nil {
		return false, handleSQLError(err)
	}
	return exists, nil
}

//go:embed sql/insert_processor_response.sql
var insertProcessorResponseQuery string

func (db *DBRepository) InsertProcessorResponse(
	ctx context.Context,
	response data.ProcessorResponse,
) (id int64, err error) {
	err = db.storage.QueryValue(
		ctx,
		insertProcessorResponseQuery,
		[]any{response.ProcessorName, response.TransactionID, response.BasketID, response.Payload},
		[]any{&id},
	)
	if err != nil {
		return 0, handleSQLError(err)
	}
	return id, nil
}

//go:embed sql/insert_order.sql
var insertOrderQuery string

func (db *DBRepository) InsertOrder(ctx context.Context, order *data.Order) error {
	_, err := db.storage.Exec(
		ctx,
		insertOrderQuery,
		order.Number,
		order.BasketID,
		order.Site,
		order.Total,
		order.Currency,
		order.PaymentLabel,
		string(order.PlacementStatus),
		order.CreatedAt,
	)
	if err != nil {
		return handleSQLError(err)
	}
	return nil
}

//go:embed sql/select_order.sql
var selectOrderQuery string

func (db *DBRepository) GetOrder(ctx context.Context, orderNumber string) (data.Order, error) {
	var order data.Order
	err := db.storage.QueryValue(
		ctx,
		selectOrderQuery,
		[]any{orderNumber},
		[]any{
			&order.Number,
			&order.BasketID,
			&order.Site,
			&order.Total,
			&order.Currency,
			&order.PaymentLabel,
			&order.PlacementStatus,
			&order.CreatedAt,
		},
	)
	if err != nil {
		return data.Order{}, handleSQLError(err)
	}
	return order, nil
}

func (db *DBRepository) GetOrders(ctx context.Context, filter data.OrdersFilter) ([]data.Order, error) {
	query, args := selectOrdersQuery(filter)
	rows, err := db.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, handleSQLError(err)
	}
	defer rows.Close()

	result := make([]data.Order, 0)
	for rows.Next() {
		var order data.Order
		err := rows.Scan(
			&order.Number,
			&order.BasketID,
			&order.Site,
			&order.Total,
			&order.Currency,
			&order.PaymentLabel,
			&order.PlacementStatus,
			&order.CreatedAt,
		)
		if err != nil {
			return nil, handleSQLError(err)
		}
		result = append(result, order)
	}
	if err = rows.Err(); err != nil {
		return nil, handleSQLError(err)
	}
	return result, nil
}

//go:embed sql/update_order_placement_status.sql
var updateOrderPlacementStatusQuery string

func (db *DBRepository) SetOrderPlacementStatus(
	ctx context.Context,
	orderNumber string,
	status data.PlacementStatus,
) error {
	_, err := db.storage.Exec(ctx, updateOrderPlacementStatusQuery, orderNumber, string(status))
	if err != nil {
		return handleSQLError(err)
	}
	return nil
}

//go:embed sql/insert_review_flag.sql
var insertReviewFlagQuery string

func (db *DBRepository) InsertReviewFlag(ctx context.Context, flag data.ReviewFlag) error {
	_, err := db.storage.Exec(
		ctx,
		insertReviewFlagQuery,
		flag.ProcessorName,
		flag.OrderNumber,
		flag.TransactionID,
		flag.Amount,
		flag.Payload,
	)
	if err != nil {
		return handleSQLError(err)
	}
	return nil
}

//go:embed sql/select_review_flags.sql
var selectReviewFlagsQuery string

func (db *DBRepository) GetReviewFlags(ctx context.Context, limit int) ([]data.ReviewFlag, error) {
	rows, err := db.storage.Query(ctx, selectReviewFlagsQuery, limit)
	if err != nil {
		return nil, handleSQLError(err)
	}
	defer rows.Close()

	result := make([]data.ReviewFlag, 0)
	for rows.Next() {
		var flag data.ReviewFlag
		err := rows.Scan(
			&flag.ID,
			&flag.ProcessorName,
			&flag.OrderNumber,
			&flag.TransactionID,
			&flag.Amount,
			&flag.Payload,
			&flag.CreatedAt,
		)
		if err != nil {
			return nil, handleSQLError(err)
		}
		result = append(result, flag)
	}
	if err = rows.Err(); err != nil {
		return nil, handleSQLError(err)
	}
	return result, nil
}

func selectOrdersQuery(filter data.OrdersFilter) (string, []any) {
	query := "SELECT number, basket_id, site, total, currency, payment_label, placement_status, created_at FROM orders"
	// LIMIT NULL means no limit
	args := []any{nil}
	if filter.Limit > 0 {
		args[0] = filter.Limit
	}
	conditions := make([]string, 0, 2)
	if len(filter.Statuses) > 0 {
		conditions = append(
			conditions,
			fmt.Sprintf("placement_status IN (%s)", formatParams(len(args)+1, len(filter.Statuses))),
		)
		for _, status := range filter.Statuses {
			args = append(args, string(status))
		}
	}
	if !filter.CreatedBefore.IsZero() {
		args = append(args, filter.CreatedBefore)
		conditions = append(conditions, fmt.Sprintf("created_at < $%d", len(args)))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at LIMIT $1"
	return query, args
}

func handleSQLError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return data.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == uniqueViolationCode {
			return fmt.Errorf("%w: %s", data.ErrUniqueConstraintViolation, pgErr.ConstraintName)
		}
	}
	return err
}

func formatParams(firstNumber, valuesCount int) string {
	currentNum := firstNumber
	values := make([]string, valuesCount)
	for i := range valuesCount {
		values[i] = fmt.Sprintf("$%v", currentNum)
		currentNum++
	}
	return strings.Join(values, ",")
}
