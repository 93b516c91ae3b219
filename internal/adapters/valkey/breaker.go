package valkey

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/samirrijal/dayroute/internal/core/domain"
	"github.com/samirrijal/dayroute/internal/core/ports"
)

// ErrCircuitOpen is returned while the breaker short-circuits cache calls.
var ErrCircuitOpen = errors.New("cache circuit breaker is open")

// BreakerSettings tunes the cache circuit breaker.
type BreakerSettings struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// DefaultBreakerSettings trips after five consecutive failures and probes
// again after 30 seconds.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		Name:             "valkey",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// BreakerCache guards a CacheService with a circuit breaker so a dead cache
// costs one fast error instead of a timeout per request. Misses do not
// count as failures.
type BreakerCache struct {
	next ports.CacheService
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerCache wraps next.
func NewBreakerCache(next ports.CacheService, s BreakerSettings, logger *slog.Logger) *BreakerCache {
	if logger == nil {
		logger = slog.Default()
	}
	settings := gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}
	return &BreakerCache{next: next, cb: gobreaker.NewCircuitBreaker(settings)}
}

// cacheMiss marks a miss inside the breaker so it is counted as a success.
type cacheMiss struct{}

func (b *BreakerCache) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := b.execute(func() (interface{}, error) {
		data, err := b.next.Get(ctx, key)
		if errors.Is(err, domain.ErrNotFound) {
			return cacheMiss{}, nil
		}
		return data, err
	})
	if err != nil {
		return nil, err
	}
	if _, miss := v.(cacheMiss); miss {
		return nil, domain.ErrNotFound
	}
	return v.([]byte), nil
}

func (b *BreakerCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	_, err := b.execute(func() (interface{}, error) {
		return nil, b.next.Set(ctx, key, value, ttlSeconds)
	})
	return err
}

func (b *BreakerCache) Delete(ctx context.Context, key string) error {
	_, err := b.execute(func() (interface{}, error) {
		return nil, b.next.Delete(ctx, key)
	})
	return err
}

// State reports the breaker state; /v1/ready lists it.
func (b *BreakerCache) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerCache) execute(fn func() (interface{}, error)) (interface{}, error) {
	v, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
	}
	return v, err
}
