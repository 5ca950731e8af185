package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-vnpay/internal/common/ipnprotocol"
	"go-vnpay/internal/paygate/data"
	"go-vnpay/internal/paygate/vnpay"
	"go-vnpay/pkg/logging"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

// OrganizationAttribute is copied from the notification onto the basket
// when the payment is accepted.
const OrganizationAttribute = "organization"

type BasketResolver interface {
	BasketForPayment(ctx context.Context, orderNumber string) (data.Basket, error)
}

type SignatureVerifier interface {
	Verify(fields map[string]string) bool
}

type OrderPlacer interface {
	Place(ctx context.Context, order data.Order) error
}

// Notifications turns gateway notifications into at most one order per
// order reference.
type Notifications struct {
	baskets            BasketResolver
	basketRepository   BasketRepository
	payments           PaymentRepository
	transactionManager TransactionManager
	reconciler         *Reconciler
	verifier           SignatureVerifier
	placer             OrderPlacer
	logger             *logging.ZapLogger
	now                func() time.Time
}

func NewNotifications(
	baskets BasketResolver,
	basketRepository BasketRepository,
	payments PaymentRepository,
	transactionManager TransactionManager,
	verifier SignatureVerifier,
	placer OrderPlacer,
	logger *logging.ZapLogger,
) *Notifications {
	return &Notifications{
		baskets:            baskets,
		basketRepository:   basketRepository,
		payments:           payments,
		transactionManager: transactionManager,
		reconciler:         NewReconciler(payments, vnpay.ProcessorName),
		verifier:           verifier,
		placer:             placer,
		logger:             logger,
		now:                time.Now,
	}
}

// Handle always returns a well-formed acknowledgement.
func (s *Notifications) Handle(ctx context.Context, fields map[string]string) (response ipnprotocol.Response) {
	orderNumber := fields[vnpay.FieldTxnRef]
	ctx = logging.WithContextFields(
		ctx,
		zap.String("orderNumber", orderNumber),
		zap.String("transactionID", fields[vnpay.FieldTransactionNo]),
	)
	defer func() {
		if rcv := recover(); rcv != nil {
			s.logger.ErrorCtx(ctx, "panic while handling payment notification", zap.Any("recover", rcv))
			response = ipnprotocol.SystemError
		}
	}()

	basket, err := s.baskets.BasketForPayment(ctx, orderNumber)
	if err != nil {
		return ipnprotocol.NotFound
	}
	ctx = logging.WithContextFields(ctx, zap.Int64("basketID", basket.ID))

	var (
		notification vnpay.Notification
		order        data.Order
	)
	err = s.transactionManager.DoWithTransaction(ctx, func(ctx context.Context) error {
		if !s.verifier.Verify(fields) {
			return vnpay.ErrInvalidSignature
		}
		var err error
		notification, err = vnpay.Normalize(fields)
		if err != nil {
			return err
		}
		outcome, err := s.reconciler.Reconcile(ctx, notification, basket)
		if err != nil {
			return err
		}
		s.logger.DebugCtx(ctx, "notification reconciled", zap.Stringer("outcome", outcome))
		if outcome != Accepted {
			return outcome.Err()
		}
		order, err = s.fulfill(ctx, notification, basket)
		return err
	})
	if err != nil {
		return s.reject(ctx, notification, err)
	}

	s.logger.InfoCtx(ctx, "order created", zap.String("amount", order.Total.String()))
	// the gateway may hang up once the order is committed; placement and its
	// status write must still finish
	if err := s.placer.Place(context.WithoutCancel(ctx), order); err != nil {
		s.logger.ErrorCtx(
			ctx,
			"post-order placement failed, order requires replay",
			zap.String("orderNumber", order.Number),
			zap.Int64("basketID", order.BasketID),
			zap.Error(err),
		)
	}
	return ipnprotocol.Success
}

// fulfill records the response before creating the order so that a failed
// creation rolls both back and the gateway's retry starts from scratch.
func (s *Notifications) fulfill(
	ctx context.Context,
	notification vnpay.Notification,
	basket data.Basket,
) (data.Order, error) {
	payload, err := jsoniter.Marshal(notification.RawFields)
	if err != nil {
		return data.Order{}, fmt.Errorf("marshalling processor response failed: %w", err)
	}
	_, err = s.payments.InsertProcessorResponse(ctx, data.ProcessorResponse{
		ProcessorName: vnpay.ProcessorName,
		TransactionID: notification.TransactionID,
		BasketID:      basket.ID,
		Payload:       payload,
	})
	if err != nil {
		if errors.Is(err, data.ErrUniqueConstraintViolation) {
			return data.Order{}, ErrRedundantNotification
		}
		return data.Order{}, fmt.Errorf("recording processor response failed: %w", err)
	}

	if organization := notification.RawFields[OrganizationAttribute]; organization != "" {
		err = s.basketRepository.SetBasketAttribute(ctx, data.BasketAttribute{
			BasketID: basket.ID,
			Name:     OrganizationAttribute,
			Value:    organization,
		})
		if err != nil {
			return data.Order{}, fmt.Errorf("setting basket attribute failed: %w", err)
		}
	}

	order := data.Order{
		Number:          notification.OrderReference,
		BasketID:        basket.ID,
		Site:            basket.Site,
		Total:           notification.Amount,
		Currency:        notification.Currency,
		PaymentLabel:    notification.CardDescriptor(),
		PlacementStatus: data.PendingPlacement,
		CreatedAt:       s.now(),
	}
	if err := s.payments.InsertOrder(ctx, &order); err != nil {
		if errors.Is(err, data.ErrUniqueConstraintViolation) {
			return data.Order{}, ErrExcessivePayment
		}
		return data.Order{}, fmt.Errorf("%w: %w", ErrOrderCreationFailed, err)
	}
	if err := s.basketRepository.SetBasketStatus(ctx, basket.ID, data.SubmittedBasket); err != nil {
		return data.Order{}, fmt.Errorf("%w: submitting basket: %w", ErrOrderCreationFailed, err)
	}
	return order, nil
}

func (s *Notifications) reject(ctx context.Context, notification vnpay.Notification, err error) ipnprotocol.Response {
	switch {
	case errors.Is(err, vnpay.ErrInvalidSignature):
		s.logger.WarnCtx(ctx, "invalid notification signature")
		return ipnprotocol.InvalidSignature
	case errors.Is(err, vnpay.ErrMissingField), errors.Is(err, vnpay.ErrMalformedAmount):
		s.logger.WarnCtx(ctx, "malformed payment notification", zap.Error(err))
		return ipnprotocol.InvalidRequest
	case errors.Is(err, ErrAmountMismatch):
		s.logger.WarnCtx(ctx, "payment amount mismatch", zap.String("amount", notification.Amount.String()))
		return ipnprotocol.InvalidRequest
	case errors.Is(err, ErrRedundantNotification):
		s.logger.InfoCtx(ctx, "redundant payment notification")
		return ipnprotocol.Redundant
	case errors.Is(err, ErrExcessivePayment):
		s.logger.WarnCtx(ctx, "excessive payment for an already placed order")
		s.flagForReview(ctx, notification)
		return ipnprotocol.InvalidRequest
	default:
		s.logger.ErrorCtx(ctx, "payment notification handling failed", zap.Error(err))
		return ipnprotocol.SystemError
	}
}

// flagForReview runs outside the rolled back transaction.
func (s *Notifications) flagForReview(ctx context.Context, notification vnpay.Notification) {
	payload, err := jsoniter.Marshal(notification.RawFields)
	if err != nil {
		s.logger.ErrorCtx(ctx, "marshalling review flag payload failed", zap.Error(err))
		return
	}
	err = s.payments.InsertReviewFlag(ctx, data.ReviewFlag{
		ProcessorName: vnpay.ProcessorName,
		OrderNumber:   notification.OrderReference,
		TransactionID: notification.TransactionID,
		Amount:        notification.Amount,
		Payload:       payload,
	})
	if err != nil {
		s.logger.ErrorCtx(ctx, "flagging excessive payment for review failed", zap.Error(err))
	}
}
