package service

import (
	"context"
	"fmt"
	"strings"

	"go-vnpay/internal/paygate/data"
	"go-vnpay/internal/paygate/vnpay"
)

type Outcome int

const (
	Accepted Outcome = iota
	AmountMismatch
	RedundantNotification
	ExcessivePayment
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "ACCEPTED"
	case AmountMismatch:
		return "AMOUNT_MISMATCH"
	case RedundantNotification:
		return "REDUNDANT"
	case ExcessivePayment:
		return "EXCESSIVE"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Err is nil for Accepted.
func (o Outcome) Err() error {
	switch o {
	case AmountMismatch:
		return ErrAmountMismatch
	case RedundantNotification:
		return ErrRedundantNotification
	case ExcessivePayment:
		return ErrExcessivePayment
	}
	return nil
}

// Reconciler decides whether a verified notification may fulfill a basket.
type Reconciler struct {
	records       OrderRecords
	processorName string
}

func NewReconciler(records OrderRecords, processorName string) *Reconciler {
	return &Reconciler{
		records:       records,
		processorName: processorName,
	}
}

// Reconcile checks, in order: amount and currency, an existing order for the
// reference, and an existing response for the transaction. Only storage
// failures are returned as errors.
func (r *Reconciler) Reconcile(
	ctx context.Context,
	notification vnpay.Notification,
	basket data.Basket,
) (Outcome, error) {
	if !basket.Total().Equal(notification.Amount) ||
		!strings.EqualFold(basket.Currency, notification.Currency) {
		return AmountMismatch, nil
	}

	orderExists, err := r.records.OrderExists(ctx, notification.OrderReference)
	if err != nil {
		return Accepted, fmt.Errorf("checking order existence failed: %w", err)
	}
	if !orderExists {
		return Accepted, nil
	}

	responseExists, err := r.records.ProcessorResponseExists(ctx, r.processorName, notification.TransactionID)
	if err != nil {
		return Accepted, fmt.Errorf("checking processor response existence failed: %w", err)
	}
	if responseExists {
		return RedundantNotification, nil
	}
	return ExcessivePayment, nil
}
