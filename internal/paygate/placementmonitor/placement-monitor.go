package placementmonitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go-vnpay/internal/paygate/data"
	"go-vnpay/pkg/logging"
	"go-vnpay/pkg/threadsafe"

	"go.uber.org/zap"
)

type OrdersRepository interface {
	GetOrders(ctx context.Context, filter data.OrdersFilter) ([]data.Order, error)
}

type OrderPlacer interface {
	Place(ctx context.Context, order data.Order) error
}

type Config struct {
	TickPeriod time.Duration
	// PendingGracePeriod is how long a PENDING order may wait for its
	// in-request placement before it is replayed. Zero never replays them.
	PendingGracePeriod time.Duration
	WorkersCount       int
	TasksBufferLength  int
}

// PlacementMonitor re-runs post-order hooks for orders whose placement
// failed, or never finished, after the order itself was committed.
type PlacementMonitor struct {
	repository       OrdersRepository
	placer           OrderPlacer
	processingOrders *threadsafe.HashSet[string]
	config           Config
	logger           *logging.ZapLogger
	done             chan struct{}
	stopOnce         sync.Once
	now              func() time.Time
}

func New(
	config Config,
	repository OrdersRepository,
	placer OrderPlacer,
	logger *logging.ZapLogger,
) *PlacementMonitor {
	return &PlacementMonitor{
		repository:       repository,
		placer:           placer,
		config:           config,
		processingOrders: threadsafe.NewHashSet[string](),
		logger:           logger,
		done:             make(chan struct{}),
		now:              time.Now,
	}
}

// Run blocks until Stop is called. A zero tick period disables the monitor.
func (pm *PlacementMonitor) Run() {
	if pm.config.TickPeriod <= 0 {
		return
	}
	ordersChan := make(chan data.Order, pm.config.TasksBufferLength)

	wg := &sync.WaitGroup{}

	for range pm.config.WorkersCount {
		wg.Add(1)
		go func(ordersChan <-chan data.Order) {
			defer wg.Done()
			pm.worker(ordersChan)
		}(ordersChan)
	}

	wg.Add(1)
	go func(ordersChan chan<- data.Order) {
		defer wg.Done()
		pm.scheduler(ordersChan)
	}(ordersChan)

	wg.Wait()
}

func (pm *PlacementMonitor) Stop() {
	pm.stopOnce.Do(func() {
		close(pm.done)
	})
}

func (pm *PlacementMonitor) scheduler(ordersChan chan<- data.Order) {
	defer close(ordersChan)

	ticker := time.NewTicker(pm.config.TickPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-pm.done:
			return
		case <-ticker.C:
			if err := pm.tick(ordersChan); err != nil {
				pm.logger.ErrorCtx(context.Background(), "error while scheduling order placements", zap.Error(err))
			}
		}
	}
}

func (pm *PlacementMonitor) tick(ordersChan chan<- data.Order) error {
	maxTasksToSchedule := pm.config.TasksBufferLength - len(ordersChan)
	if maxTasksToSchedule <= 0 {
		return nil
	}
	orders, err := pm.repository.GetOrders(context.Background(), data.OrdersFilter{
		Statuses: []data.PlacementStatus{data.FailedPlacement},
		Limit:    maxTasksToSchedule,
	})
	if err != nil {
		return fmt.Errorf("failed to get failed orders: %w", err)
	}
	if pm.config.PendingGracePeriod > 0 && len(orders) < maxTasksToSchedule {
		stale, err := pm.repository.GetOrders(context.Background(), data.OrdersFilter{
			Statuses:      []data.PlacementStatus{data.PendingPlacement},
			CreatedBefore: pm.now().Add(-pm.config.PendingGracePeriod),
			Limit:         maxTasksToSchedule - len(orders),
		})
		if err != nil {
			return fmt.Errorf("failed to get stale pending orders: %w", err)
		}
		orders = append(orders, stale...)
	}
	for _, order := range orders {
		if !pm.processingOrders.Add(order.Number) {
			continue
		}
		pm.logger.DebugCtx(
			context.Background(),
			"scheduling order placement",
			zap.String("orderNumber", order.Number),
			zap.String("status", string(order.PlacementStatus)),
		)
		ordersChan <- order
	}
	return nil
}

func (pm *PlacementMonitor) worker(ordersChan <-chan data.Order) {
	for order := range ordersChan {
		ctx := logging.WithContextFields(
			context.Background(),
			zap.String("orderNumber", order.Number),
			zap.Int64("basketID", order.BasketID),
		)
		err := pm.placer.Place(ctx, order)
		pm.processingOrders.Remove(order.Number)
		if err != nil {
			pm.logger.ErrorCtx(ctx, "failed to replay order placement", zap.Error(err))
			continue
		}
		pm.logger.InfoCtx(ctx, "order placement replayed")
	}
}
