package service

import (
	"context"
	"net/url"
	"strings"

	"go-vnpay/internal/paygate/data"
	"go-vnpay/internal/paygate/vnpay"
	"go-vnpay/pkg/logging"

	"go.uber.org/zap"
)

// customerCancelledCode is the gateway response code for a shopper who
// abandoned the payment page.
const customerCancelledCode = "24"

type ReceiptsConfig struct {
	ReceiptPath string
	ErrorURL    string
	CancelURL   string
}

type SubmittedBasketResolver interface {
	SubmittedBasket(ctx context.Context, orderNumber string) (data.Basket, error)
	OrderNumber(basket data.Basket) string
}

// Receipts picks where the shopper's browser goes after the gateway. It
// never confirms a payment: only IPN fulfills orders.
type Receipts struct {
	baskets SubmittedBasketResolver
	cfg     ReceiptsConfig
	logger  *logging.ZapLogger
}

func NewReceipts(baskets SubmittedBasketResolver, cfg ReceiptsConfig, logger *logging.ZapLogger) *Receipts {
	return &Receipts{
		baskets: baskets,
		cfg:     cfg,
		logger:  logger,
	}
}

func (r *Receipts) RedirectTarget(ctx context.Context, fields map[string]string) string {
	basket, err := r.baskets.SubmittedBasket(ctx, fields[vnpay.FieldTxnRef])
	if err != nil {
		if fields[vnpay.FieldResponseCode] == customerCancelledCode && r.cfg.CancelURL != "" {
			return r.cfg.CancelURL
		}
		r.logger.DebugCtx(ctx, "no submitted basket for return", zap.Error(err))
		return r.cfg.ErrorURL
	}
	return r.receiptURL(basket)
}

func (r *Receipts) receiptURL(basket data.Basket) string {
	query := url.Values{}
	query.Set("order_number", r.baskets.OrderNumber(basket))
	query.Set("disable_back_button", "1")
	return strings.TrimSuffix(basket.Site, "/") + r.cfg.ReceiptPath + "?" + query.Encode()
}
