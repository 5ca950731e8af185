package service

import (
	"context"
	"errors"
	"fmt"

	"go-vnpay/internal/paygate/data"
	"go-vnpay/pkg/logging"

	"go.uber.org/zap"
)

type PlacementHook interface {
	OrderPlaced(ctx context.Context, order data.Order) error
}

type PlacementRepository interface {
	SetOrderPlacementStatus(ctx context.Context, orderNumber string, status data.PlacementStatus) error
}

// Placement runs the post-order hooks of a committed order and records
// whether they all succeeded.
type Placement struct {
	hooks      []PlacementHook
	repository PlacementRepository
	logger     *logging.ZapLogger
}

func NewPlacement(repository PlacementRepository, logger *logging.ZapLogger, hooks ...PlacementHook) *Placement {
	return &Placement{
		hooks:      hooks,
		repository: repository,
		logger:     logger,
	}
}

func (p *Placement) Place(ctx context.Context, order data.Order) error {
	var hookErrs []error
	for _, hook := range p.hooks {
		if err := runHook(ctx, hook, order); err != nil {
			hookErrs = append(hookErrs, err)
		}
	}
	hooksErr := errors.Join(hookErrs...)

	status := data.PlacedPlacement
	if hooksErr != nil {
		status = data.FailedPlacement
	}
	if err := p.repository.SetOrderPlacementStatus(ctx, order.Number, status); err != nil {
		return errors.Join(hooksErr, fmt.Errorf("setting placement status failed: %w", err))
	}
	if hooksErr != nil {
		return hooksErr
	}
	p.logger.DebugCtx(ctx, "order placed", zap.String("orderNumber", order.Number))
	return nil
}

func runHook(ctx context.Context, hook PlacementHook, order data.Order) (err error) {
	defer func() {
		if rcv := recover(); rcv != nil {
			err = fmt.Errorf("placement hook panicked: %v", rcv)
		}
	}()
	return hook.OrderPlaced(ctx, order)
}
