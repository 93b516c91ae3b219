package ports

import (
	"context"

	"github.com/samirrijal/dayroute/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishOptimized(ctx context.Context, event *domain.OptimizationEvent) error
}

// CacheService provides read-through caching of computed results.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// BatchDispatcher hands a batch of day plans to a durable workflow engine.
type BatchDispatcher interface {
	Start(ctx context.Context, days []domain.DayPlanRequest) (string, error)
	// Result returns done=false while the batch is still running.
	Result(ctx context.Context, batchID string) (results []domain.DayPlanResult, done bool, err error)
}
