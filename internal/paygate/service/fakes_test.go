package service

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"go-vnpay/internal/paygate/data"
)

type memoryState struct {
	baskets    map[int64]data.Basket
	attributes map[int64]map[string]string
	responses  []data.ProcessorResponse
	orders     map[string]data.Order
	flags      []data.ReviewFlag
}

func (s memoryState) clone() memoryState {
	attributes := make(map[int64]map[string]string, len(s.attributes))
	for id, attrs := range s.attributes {
		attributes[id] = maps.Clone(attrs)
	}
	return memoryState{
		baskets:    maps.Clone(s.baskets),
		attributes: attributes,
		responses:  slices.Clone(s.responses),
		orders:     maps.Clone(s.orders),
		flags:      slices.Clone(s.flags),
	}
}

// memoryStore restores a snapshot on error. Whole transactions are
// serialized, so the interleavings ReadCommitted allows between the
// existence checks and the inserts never happen here; racingPayments in
// notifications_test.go simulates them.
type memoryStore struct {
	txMux sync.Mutex
	mux   sync.Mutex
	state memoryState

	insertOrderErr error
	placementErr   error
}

func newMemoryStore(baskets ...data.Basket) *memoryStore {
	store := &memoryStore{
		state: memoryState{
			baskets:    make(map[int64]data.Basket),
			attributes: make(map[int64]map[string]string),
			orders:     make(map[string]data.Order),
		},
	}
	for _, basket := range baskets {
		store.state.baskets[basket.ID] = basket
	}
	return store
}

func (m *memoryStore) DoWithTransaction(ctx context.Context, f func(ctx context.Context) error) error {
	m.txMux.Lock()
	defer m.txMux.Unlock()

	m.mux.Lock()
	snapshot := m.state.clone()
	m.mux.Unlock()

	if err := f(ctx); err != nil {
		m.mux.Lock()
		m.state = snapshot
		m.mux.Unlock()
		return err
	}
	return nil
}

func (m *memoryStore) GetBasket(
	_ context.Context,
	basketID int64,
	allowedStatuses ...data.BasketStatus,
) (data.Basket, error) {
	m.mux.Lock()
	defer m.mux.Unlock()
	basket, ok := m.state.baskets[basketID]
	if !ok {
		return data.Basket{}, data.ErrNotFound
	}
	if len(allowedStatuses) > 0 && !slices.Contains(allowedStatuses, basket.Status) {
		return data.Basket{}, data.ErrNotFound
	}
	return basket, nil
}

func (m *memoryStore) SetBasketStatus(_ context.Context, basketID int64, status data.BasketStatus) error {
	m.mux.Lock()
	defer m.mux.Unlock()
	basket, ok := m.state.baskets[basketID]
	if !ok {
		return data.ErrNotFound
	}
	basket.Status = status
	m.state.baskets[basketID] = basket
	return nil
}

func (m *memoryStore) SetBasketAttribute(_ context.Context, attribute data.BasketAttribute) error {
	m.mux.Lock()
	defer m.mux.Unlock()
	if m.state.attributes[attribute.BasketID] == nil {
		m.state.attributes[attribute.BasketID] = make(map[string]string)
	}
	m.state.attributes[attribute.BasketID][attribute.Name] = attribute.Value
	return nil
}

func (m *memoryStore) OrderExists(_ context.Context, orderNumber string) (bool, error) {
	m.mux.Lock()
	defer m.mux.Unlock()
	_, ok := m.state.orders[orderNumber]
	return ok, nil
}

func (m *memoryStore) ProcessorResponseExists(_ context.Context, processorName string, transactionID string) (bool, error) {
	m.mux.Lock()
	defer m.mux.Unlock()
	for _, response := range m.state.responses {
		if response.ProcessorName == processorName && response.TransactionID == transactionID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryStore) InsertProcessorResponse(_ context.Context, response data.ProcessorResponse) (int64, error) {
	m.mux.Lock()
	defer m.mux.Unlock()
	for _, existing := range m.state.responses {
		if existing.ProcessorName == response.ProcessorName && existing.TransactionID == response.TransactionID {
			return 0, fmt.Errorf("%w: processor_responses_transaction_key", data.ErrUniqueConstraintViolation)
		}
	}
	response.ID = int64(len(m.state.responses) + 1)
	m.state.responses = append(m.state.responses, response)
	return response.ID, nil
}

func (m *memoryStore) InsertOrder(_ context.Context, order *data.Order) error {
	m.mux.Lock()
	defer m.mux.Unlock()
	if m.insertOrderErr != nil {
		return m.insertOrderErr
	}
	if _, ok := m.state.orders[order.Number]; ok {
		return fmt.Errorf("%w: orders_pkey", data.ErrUniqueConstraintViolation)
	}
	m.state.orders[order.Number] = *order
	return nil
}

func (m *memoryStore) InsertReviewFlag(_ context.Context, flag data.ReviewFlag) error {
	m.mux.Lock()
	defer m.mux.Unlock()
	for _, existing := range m.state.flags {
		if existing.ProcessorName == flag.ProcessorName && existing.TransactionID == flag.TransactionID {
			return nil
		}
	}
	m.state.flags = append(m.state.flags, flag)
	return nil
}

func (m *memoryStore) GetReviewFlags(_ context.Context, limit int) ([]data.ReviewFlag, error) {
	m.mux.Lock()
	defer m.mux.Unlock()
	flags := slices.Clone(m.state.flags)
	if len(flags) > limit {
		flags = flags[:limit]
	}
	return flags, nil
}

func (m *memoryStore) SetOrderPlacementStatus(ctx context.Context, orderNumber string, status data.PlacementStatus) error {
	// pgx refuses to run statements on a cancelled context
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mux.Lock()
	defer m.mux.Unlock()
	if m.placementErr != nil {
		return m.placementErr
	}
	order, ok := m.state.orders[orderNumber]
	if !ok {
		return data.ErrNotFound
	}
	order.PlacementStatus = status
	m.state.orders[orderNumber] = order
	return nil
}

func (m *memoryStore) snapshot() memoryState {
	m.mux.Lock()
	defer m.mux.Unlock()
	return m.state.clone()
}

type hookFunc func(ctx context.Context, order data.Order) error

func (f hookFunc) OrderPlaced(ctx context.Context, order data.Order) error {
	return f(ctx, order)
}
