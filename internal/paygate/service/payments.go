package service

import (
	"context"
	"fmt"
	"time"

	"go-vnpay/internal/paygate/data"
	"go-vnpay/internal/paygate/vnpay"
)

const orderTypeProgram = "program"

type PaymentsConfig struct {
	PaymentURL string
	Version    string
	TmnCode    string
	ReturnURL  string
}

type OpenBasketResolver interface {
	OpenBasket(ctx context.Context, basketID int64) (data.Basket, error)
	OrderNumber(basket data.Basket) string
}

type PaymentURLSigner interface {
	PaymentURL(baseURL string, request vnpay.PaymentRequest) (string, error)
}

// Payments builds the signed gateway URL that starts a payment.
type Payments struct {
	baskets OpenBasketResolver
	signer  PaymentURLSigner
	cfg     PaymentsConfig
	now     func() time.Time
}

func NewPayments(baskets OpenBasketResolver, signer PaymentURLSigner, cfg PaymentsConfig) *Payments {
	return &Payments{
		baskets: baskets,
		signer:  signer,
		cfg:     cfg,
		now:     time.Now,
	}
}

func (p *Payments) PaymentURL(
	ctx context.Context,
	basketID int64,
	clientIP string,
	locale string,
	bankCode string,
) (string, error) {
	basket, err := p.baskets.OpenBasket(ctx, basketID)
	if err != nil {
		return "", err
	}
	orderNumber := p.baskets.OrderNumber(basket)
	paymentURL, err := p.signer.PaymentURL(p.cfg.PaymentURL, vnpay.PaymentRequest{
		Version:    p.cfg.Version,
		TmnCode:    p.cfg.TmnCode,
		Amount:     basket.Total(),
		Currency:   vnpay.Currency,
		TxnRef:     orderNumber,
		OrderInfo:  fmt.Sprintf("order:%s", orderNumber),
		OrderType:  orderTypeProgram,
		Locale:     locale,
		BankCode:   bankCode,
		CreateDate: p.now(),
		IPAddr:     clientIP,
		ReturnURL:  p.cfg.ReturnURL,
	})
	if err != nil {
		return "", fmt.Errorf("building payment url failed: %w", err)
	}
	return paymentURL, nil
}
