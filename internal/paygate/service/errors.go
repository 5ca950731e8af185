package service

import "errors"

var (
	ErrBasketNotFound        = errors.New("basket not found")
	ErrAmountMismatch        = errors.New("notification amount does not match the basket")
	ErrRedundantNotification = errors.New("notification was already processed")
	ErrExcessivePayment      = errors.New("payment received for an already placed order")
	ErrOrderCreationFailed   = errors.New("order creation failed")
)
