package placementmonitor

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"go-vnpay/internal/paygate/data"
	"go-vnpay/pkg/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	mux    sync.Mutex
	orders map[string]data.Order
}

func (f *fakeRepository) GetOrders(_ context.Context, filter data.OrdersFilter) ([]data.Order, error) {
	f.mux.Lock()
	defer f.mux.Unlock()
	res := make([]data.Order, 0)
	for _, order := range f.orders {
		if filter.Limit > 0 && len(res) >= filter.Limit {
			break
		}
		if !slices.Contains(filter.Statuses, order.PlacementStatus) {
			continue
		}
		if !filter.CreatedBefore.IsZero() && !order.CreatedAt.Before(filter.CreatedBefore) {
			continue
		}
		res = append(res, order)
	}
	return res, nil
}

func (f *fakeRepository) Place(_ context.Context, order data.Order) error {
	f.mux.Lock()
	defer f.mux.Unlock()
	order.PlacementStatus = data.PlacedPlacement
	f.orders[order.Number] = order
	return nil
}

func (f *fakeRepository) status(number string) data.PlacementStatus {
	f.mux.Lock()
	defer f.mux.Unlock()
	return f.orders[number].PlacementStatus
}

func TestPlacementMonitorReplaysFailedOrders(t *testing.T) {
	repository := &fakeRepository{
		orders: map[string]data.Order{
			"EDX-100001": {Number: "EDX-100001", PlacementStatus: data.FailedPlacement},
			"EDX-100002": {Number: "EDX-100002", PlacementStatus: data.PlacedPlacement},
			"EDX-100003": {Number: "EDX-100003", PlacementStatus: data.FailedPlacement},
		},
	}
	monitor := New(
		Config{TickPeriod: 10 * time.Millisecond, WorkersCount: 2, TasksBufferLength: 4},
		repository,
		repository,
		logging.NewNop(),
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		monitor.Run()
	}()

	require.Eventually(t, func() bool {
		return repository.status("EDX-100001") == data.PlacedPlacement &&
			repository.status("EDX-100003") == data.PlacedPlacement
	}, time.Second, 10*time.Millisecond)

	monitor.Stop()
	monitor.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop")
	}
	assert.Equal(t, data.PlacedPlacement, repository.status("EDX-100002"))
}

func TestPlacementMonitor_DisabledWithZeroTick(t *testing.T) {
	repository := &fakeRepository{
		orders: map[string]data.Order{
			"EDX-100001": {Number: "EDX-100001", PlacementStatus: data.FailedPlacement},
		},
	}
	monitor := New(Config{WorkersCount: 1, TasksBufferLength: 1}, repository, repository, logging.NewNop())

	done := make(chan struct{})
	go func() {
		defer close(done)
		monitor.Run()
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("disabled monitor did not return")
	}
	assert.Equal(t, data.FailedPlacement, repository.status("EDX-100001"))
}

func TestPlacementMonitorReplaysStalePendingOrders(t *testing.T) {
	now := time.Now()
	repository := &fakeRepository{
		orders: map[string]data.Order{
			"EDX-100001": {
				Number:          "EDX-100001",
				PlacementStatus: data.PendingPlacement,
				CreatedAt:       now.Add(-time.Hour),
			},
			"EDX-100002": {
				Number:          "EDX-100002",
				PlacementStatus: data.PendingPlacement,
				CreatedAt:       now.Add(time.Hour),
			},
		},
	}
	monitor := New(
		Config{
			TickPeriod:         10 * time.Millisecond,
			PendingGracePeriod: 5 * time.Minute,
			WorkersCount:       1,
			TasksBufferLength:  4,
		},
		repository,
		repository,
		logging.NewNop(),
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		monitor.Run()
	}()

	require.Eventually(t, func() bool {
		return repository.status("EDX-100001") == data.PlacedPlacement
	}, time.Second, 10*time.Millisecond)
	// a few more ticks must leave the order that is still inside its grace period alone
	time.Sleep(50 * time.Millisecond)

	monitor.Stop()
	<-done
	assert.Equal(t, data.PendingPlacement, repository.status("EDX-100002"))
}

func TestPlacementMonitorIgnoresPendingWithoutGracePeriod(t *testing.T) {
	repository := &fakeRepository{
		orders: map[string]data.Order{
			"EDX-100001": {
				Number:          "EDX-100001",
				PlacementStatus: data.PendingPlacement,
				CreatedAt:       time.Now().Add(-time.Hour),
			},
		},
	}
	monitor := New(
		Config{TickPeriod: 5 * time.Millisecond, WorkersCount: 1, TasksBufferLength: 2},
		repository,
		repository,
		logging.NewNop(),
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		monitor.Run()
	}()
	time.Sleep(50 * time.Millisecond)
	monitor.Stop()
	<-done

	assert.Equal(t, data.PendingPlacement, repository.status("EDX-100001"))
}
