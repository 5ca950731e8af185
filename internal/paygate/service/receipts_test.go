package service

import (
	"context"
	"testing"

	"go-vnpay/internal/paygate/data"
	"go-vnpay/internal/paygate/vnpay"
	"go-vnpay/pkg/logging"
	"go-vnpay/pkg/ordernumber"

	"github.com/stretchr/testify/assert"
)

func newTestReceipts(baskets ...data.Basket) *Receipts {
	logger := logging.NewNop()
	checkout := NewCheckout(newMemoryStore(baskets...), ordernumber.New("EDX", ordernumber.DefaultOffset), logger)
	return NewReceipts(checkout, ReceiptsConfig{
		ReceiptPath: "/checkout/receipt/",
		ErrorURL:    "https://shop.example/checkout/error/",
		CancelURL:   "https://shop.example/checkout/cancel-checkout/",
	}, logger)
}

func TestRedirectTargetReceipt(t *testing.T) {
	basket := testBasket()
	basket.Status = data.SubmittedBasket
	receipts := newTestReceipts(basket)

	target := receipts.RedirectTarget(context.Background(), map[string]string{
		vnpay.FieldTxnRef: "EDX-100100",
	})
	assert.Equal(
		t,
		"https://shop.example/checkout/receipt/?disable_back_button=1&order_number=EDX-100100",
		target,
	)
}

func TestRedirectTargetOpenBasketIsNotTrusted(t *testing.T) {
	receipts := newTestReceipts(testBasket())

	target := receipts.RedirectTarget(context.Background(), map[string]string{
		vnpay.FieldTxnRef: "EDX-100100",
	})
	assert.Equal(t, "https://shop.example/checkout/error/", target)
}

func TestRedirectTargetUnknownReference(t *testing.T) {
	receipts := newTestReceipts()

	for _, reference := range []string{"EDX-100999", "garbage", ""} {
		target := receipts.RedirectTarget(context.Background(), map[string]string{
			vnpay.FieldTxnRef: reference,
		})
		assert.Equal(t, "https://shop.example/checkout/error/", target, reference)
	}
}

func TestRedirectTargetCancelled(t *testing.T) {
	receipts := newTestReceipts(testBasket())

	target := receipts.RedirectTarget(context.Background(), map[string]string{
		vnpay.FieldTxnRef:       "EDX-100100",
		vnpay.FieldResponseCode: "24",
	})
	assert.Equal(t, "https://shop.example/checkout/cancel-checkout/", target)
}
