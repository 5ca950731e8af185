package service

import (
	"context"

	"go-vnpay/internal/paygate/data"
)

type TransactionManager interface {
	DoWithTransaction(ctx context.Context, f func(ctx context.Context) error) error
}

type BasketRepository interface {
	GetBasket(ctx context.Context, basketID int64, allowedStatuses ...data.BasketStatus) (data.Basket, error)
	SetBasketStatus(ctx context.Context, basketID int64, status data.BasketStatus) error
	SetBasketAttribute(ctx context.Context, attribute data.BasketAttribute) error
}

type OrderRecords interface {
	OrderExists(ctx context.Context, orderNumber string) (bool, error)
	ProcessorResponseExists(ctx context.Context, processorName string, transactionID string) (bool, error)
}

type PaymentRepository interface {
	OrderRecords
	InsertProcessorResponse(ctx context.Context, response data.ProcessorResponse) (int64, error)
	InsertOrder(ctx context.Context, order *data.Order) error
	InsertReviewFlag(ctx context.Context, flag data.ReviewFlag) error
}

type OrderNumberGenerator interface {
	OrderNumber(basketID int64) string
	BasketID(orderNumber string) (int64, error)
}
