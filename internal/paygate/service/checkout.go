package service

import (
	"context"
	"errors"
	"fmt"

	"go-vnpay/internal/paygate/data"
	"go-vnpay/pkg/logging"

	"go.uber.org/zap"
)

// Checkout resolves baskets from order numbers. All lookups are read-only.
type Checkout struct {
	baskets      BasketRepository
	orderNumbers OrderNumberGenerator
	logger       *logging.ZapLogger
}

func NewCheckout(
	baskets BasketRepository,
	orderNumbers OrderNumberGenerator,
	logger *logging.ZapLogger,
) *Checkout {
	return &Checkout{
		baskets:      baskets,
		orderNumbers: orderNumbers,
		logger:       logger,
	}
}

// BasketForPayment returns the basket a notification claims to pay for.
// Submitted baskets are included so that replays of an already fulfilled
// notification reach reconciliation instead of looking unknown.
func (c *Checkout) BasketForPayment(ctx context.Context, orderNumber string) (data.Basket, error) {
	return c.basketByOrderNumber(
		ctx,
		orderNumber,
		data.OpenBasket,
		data.FrozenBasket,
		data.SubmittedBasket,
	)
}

func (c *Checkout) SubmittedBasket(ctx context.Context, orderNumber string) (data.Basket, error) {
	return c.basketByOrderNumber(ctx, orderNumber, data.SubmittedBasket)
}

func (c *Checkout) OpenBasket(ctx context.Context, basketID int64) (data.Basket, error) {
	basket, err := c.baskets.GetBasket(ctx, basketID, data.OpenBasket)
	if err != nil {
		return data.Basket{}, c.lookupError(ctx, basketID, err)
	}
	return basket, nil
}

func (c *Checkout) OrderNumber(basket data.Basket) string {
	return c.orderNumbers.OrderNumber(basket.ID)
}

func (c *Checkout) basketByOrderNumber(
	ctx context.Context,
	orderNumber string,
	allowedStatuses ...data.BasketStatus,
) (data.Basket, error) {
	basketID, err := c.orderNumbers.BasketID(orderNumber)
	if err != nil {
		c.logger.WarnCtx(ctx, "Unparsable order number", zap.String("orderNumber", orderNumber), zap.Error(err))
		return data.Basket{}, fmt.Errorf("%w: %w", ErrBasketNotFound, err)
	}
	basket, err := c.baskets.GetBasket(ctx, basketID, allowedStatuses...)
	if err != nil {
		return data.Basket{}, c.lookupError(ctx, basketID, err)
	}
	return basket, nil
}

func (c *Checkout) lookupError(ctx context.Context, basketID int64, err error) error {
	switch {
	case errors.Is(err, data.ErrNotFound):
		c.logger.WarnCtx(ctx, "Basket not found", zap.Int64("basketID", basketID))
	default:
		c.logger.ErrorCtx(ctx, "Unexpected error during basket retrieval", zap.Int64("basketID", basketID), zap.Error(err))
	}
	return fmt.Errorf("%w: %w", ErrBasketNotFound, err)
}
