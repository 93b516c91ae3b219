package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/samirrijal/dayroute/internal/core/domain"
	"github.com/samirrijal/dayroute/internal/core/ports"
	"github.com/samirrijal/dayroute/internal/pkg/metrics"
	"github.com/samirrijal/dayroute/internal/pkg/telemetry"
)

// FuelPriceService keeps a snapshot of the reference fuel price used when a
// request does not carry one.
type FuelPriceService struct {
	repo     ports.FuelPriceRepository
	region   string
	fallback float64

	mu       sync.RWMutex
	snapshot domain.FuelPrice
	loaded   bool

	scheduler *cron.Cron
}

// NewFuelPriceService creates a new FuelPriceService. repo may be nil, in
// which case the fallback price is always used.
func NewFuelPriceService(repo ports.FuelPriceRepository, region string, fallback float64) *FuelPriceService {
	if fallback <= 0 {
		fallback = domain.DefaultFuelPricePerLiter
	}
	return &FuelPriceService{repo: repo, region: region, fallback: fallback}
}

// Current returns the snapshot, loading it on first use.
func (s *FuelPriceService) Current(ctx context.Context) domain.FuelPrice {
	s.mu.RLock()
	snap, loaded := s.snapshot, s.loaded
	s.mu.RUnlock()
	if loaded {
		return snap
	}

	if err := s.Refresh(ctx); err != nil {
		slog.Warn("fuel price load failed, using fallback", "region", s.region, "error", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Refresh reloads the snapshot from the repository. On failure the previous
// snapshot is kept, or the fallback when there is none.
func (s *FuelPriceService) Refresh(ctx context.Context) error {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanFuelRefresh)
	defer span.End()

	price, err := s.load(ctx)
	if err != nil {
		metrics.FuelPriceRefreshes.WithLabelValues("error").Inc()
		span.RecordError(err)
		s.mu.Lock()
		if !s.loaded {
			s.snapshot, s.loaded = s.fallbackPrice(), true
		}
		s.mu.Unlock()
		return err
	}

	metrics.FuelPriceRefreshes.WithLabelValues("ok").Inc()
	s.mu.Lock()
	s.snapshot, s.loaded = price, true
	s.mu.Unlock()
	return nil
}

func (s *FuelPriceService) load(ctx context.Context) (domain.FuelPrice, error) {
	if s.repo == nil {
		return s.fallbackPrice(), nil
	}
	price, err := s.repo.Latest(ctx, s.region)
	if errors.Is(err, domain.ErrNotFound) {
		return s.fallbackPrice(), nil
	}
	if err != nil {
		return domain.FuelPrice{}, fmt.Errorf("load fuel price for %s: %w", s.region, err)
	}
	return price, nil
}

func (s *FuelPriceService) fallbackPrice() domain.FuelPrice {
	return domain.FuelPrice{Region: s.region, PricePerLiter: s.fallback, Currency: "EUR"}
}

// Update stores a reference price. Updating the service's own region also
// replaces the snapshot.
func (s *FuelPriceService) Update(ctx context.Context, price domain.FuelPrice) (domain.FuelPrice, error) {
	price.Region = strings.TrimSpace(price.Region)
	if price.Region == "" {
		return domain.FuelPrice{}, &domain.ValidationError{Kind: domain.KindInvalidOption, Message: "region is required"}
	}
	if price.PricePerLiter <= 0 {
		return domain.FuelPrice{}, &domain.ValidationError{Kind: domain.KindInvalidOption, Message: "price_per_liter must be positive"}
	}
	if price.Currency == "" {
		price.Currency = "EUR"
	}
	price.UpdatedAt = time.Now().UTC()

	if s.repo == nil {
		return domain.FuelPrice{}, fmt.Errorf("fuel price storage: %w", domain.ErrUnavailable)
	}
	if err := s.repo.Upsert(ctx, price); err != nil {
		return domain.FuelPrice{}, fmt.Errorf("store fuel price: %w", err)
	}

	if price.Region == s.region {
		s.mu.Lock()
		s.snapshot, s.loaded = price, true
		s.mu.Unlock()
	}
	return price, nil
}

// List returns every stored reference price.
func (s *FuelPriceService) List(ctx context.Context) ([]domain.FuelPrice, error) {
	if s.repo == nil {
		return []domain.FuelPrice{s.Current(ctx)}, nil
	}
	return s.repo.List(ctx)
}

// StartRefresh schedules Refresh on a cron spec such as "@every 1h" or
// "0 */6 * * *".
func (s *FuelPriceService) StartRefresh(schedule string) error {
	s.scheduler = cron.New()
	_, err := s.scheduler.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.Refresh(ctx); err != nil {
			slog.Warn("scheduled fuel price refresh failed", "region", s.region, "error", err)
			return
		}
		slog.Debug("fuel price refreshed", "region", s.region)
	})
	if err != nil {
		return fmt.Errorf("schedule fuel refresh: %w", err)
	}
	s.scheduler.Start()
	slog.Info("fuel price refresh scheduled", "schedule", schedule, "region", s.region)
	return nil
}

// Stop halts the refresh scheduler and waits for a running job.
func (s *FuelPriceService) Stop() {
	if s.scheduler != nil {
		<-s.scheduler.Stop().Done()
	}
}
