package usecases_test

import (
	"context"
	"errors"
	"sync"

	"github.com/samirrijal/dayroute/internal/core/domain"
)

// --- Mock CacheService ---

type mockCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	setTTLs []int
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, errors.New("miss")
	}
	return v, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.setTTLs = append(m.setTTLs, ttlSeconds)
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	mu     sync.Mutex
	events []domain.OptimizationEvent
	err    error
}

func (m *mockPublisher) PublishOptimized(ctx context.Context, event *domain.OptimizationEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, *event)
	return m.err
}

// --- Mock FuelPriceRepository ---

type mockFuelRepo struct {
	latestFn func(ctx context.Context, region string) (domain.FuelPrice, error)
	upsertFn func(ctx context.Context, price domain.FuelPrice) error
	listFn   func(ctx context.Context) ([]domain.FuelPrice, error)
}

func (m *mockFuelRepo) Latest(ctx context.Context, region string) (domain.FuelPrice, error) {
	if m.latestFn != nil {
		return m.latestFn(ctx, region)
	}
	return domain.FuelPrice{}, domain.ErrNotFound
}

func (m *mockFuelRepo) Upsert(ctx context.Context, price domain.FuelPrice) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, price)
	}
	return nil
}

func (m *mockFuelRepo) List(ctx context.Context) ([]domain.FuelPrice, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

// --- Mock BatchDispatcher ---

type mockDispatcher struct {
	startFn  func(ctx context.Context, days []domain.DayPlanRequest) (string, error)
	resultFn func(ctx context.Context, id string) ([]domain.DayPlanResult, bool, error)
}

func (m *mockDispatcher) Start(ctx context.Context, days []domain.DayPlanRequest) (string, error) {
	if m.startFn != nil {
		return m.startFn(ctx, days)
	}
	return "batch-1", nil
}

func (m *mockDispatcher) Result(ctx context.Context, id string) ([]domain.DayPlanResult, bool, error) {
	if m.resultFn != nil {
		return m.resultFn(ctx, id)
	}
	return nil, false, nil
}
