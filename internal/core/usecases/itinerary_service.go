package usecases

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/samirrijal/dayroute/internal/core/domain"
	"github.com/samirrijal/dayroute/internal/core/planner"
	"github.com/samirrijal/dayroute/internal/core/ports"
	"github.com/samirrijal/dayroute/internal/pkg/geospatial"
	"github.com/samirrijal/dayroute/internal/pkg/metrics"
	"github.com/samirrijal/dayroute/internal/pkg/telemetry"
)

const cacheKeyPrefix = "itinerary:optimize:"

// ItineraryConfig tunes ItineraryService.
type ItineraryConfig struct {
	CacheTTLSeconds  int
	BatchConcurrency int
	MaxBatchDays     int
	// ValidationMode applies to requests that do not choose one.
	ValidationMode domain.ValidationMode
}

// ItineraryService wraps the optimizer with caching, fuel pricing, events
// and batch fan-out.
type ItineraryService struct {
	optimizer *planner.Optimizer
	cache     ports.CacheService
	events    ports.EventPublisher
	fuel      *FuelPriceService
	cfg       ItineraryConfig
}

// NewItineraryService creates a new ItineraryService. cache, events and fuel
// may be nil.
func NewItineraryService(optimizer *planner.Optimizer, cache ports.CacheService, events ports.EventPublisher, fuel *FuelPriceService, cfg ItineraryConfig) *ItineraryService {
	if optimizer == nil {
		optimizer = planner.NewOptimizer(nil)
	}
	if cfg.BatchConcurrency <= 0 {
		cfg.BatchConcurrency = 4
	}
	if cfg.MaxBatchDays <= 0 {
		cfg.MaxBatchDays = 31
	}
	if cfg.ValidationMode == "" {
		cfg.ValidationMode = domain.ValidationLenient
	}
	return &ItineraryService{optimizer: optimizer, cache: cache, events: events, fuel: fuel, cfg: cfg}
}

// CacheKey derives the content-hash key of a fully defaulted request.
func CacheKey(req domain.DayPlanRequest) (string, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return cacheKeyPrefix + hex.EncodeToString(sum[:]), nil
}

// Optimize runs one day through the optimizer, serving repeated requests
// from the cache.
func (s *ItineraryService) Optimize(ctx context.Context, req domain.DayPlanRequest) (*domain.DayPlanResult, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanOptimize,
		trace.WithAttributes(attribute.Int(telemetry.AttrActivityCount, len(req.Activities))))
	defer span.End()

	req = s.prepare(ctx, req)
	mode := string(req.Options.TravelMode)
	span.SetAttributes(attribute.String(telemetry.AttrTravelMode, mode))

	key, err := CacheKey(req)
	if err != nil {
		slog.Warn("itinerary cache key", "error", err)
		key = ""
	}

	if cached, ok := s.lookup(ctx, key); ok {
		span.SetAttributes(attribute.Bool(telemetry.AttrCacheHit, true))
		metrics.OptimizationsTotal.WithLabelValues(mode, "cached").Inc()
		s.publish(ctx, req, cached)
		return cached, nil
	}

	start := time.Now()
	res, err := s.optimizer.Optimize(req.Activities, req.Options)
	metrics.OptimizationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		outcome := "error"
		if domain.IsValidationError(err) {
			outcome = "rejected"
		}
		metrics.OptimizationsTotal.WithLabelValues(mode, outcome).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	metrics.OptimizationsTotal.WithLabelValues(mode, "ok").Inc()
	metrics.OptimizationEfficiency.Observe(float64(res.Efficiency))
	metrics.SavedMinutes.Observe(float64(res.EstimatedSavings.TimeMinutes))
	metrics.SavedDistanceKm.Observe(res.EstimatedSavings.DistanceKm)
	span.SetAttributes(attribute.Int(telemetry.AttrEfficiency, res.Efficiency))

	out := &domain.DayPlanResult{ID: uuid.NewString(), Result: res}
	s.store(ctx, key, out)
	s.publish(ctx, req, out)
	return out, nil
}

// OptimizeBatch optimizes independent days concurrently. Results keep the
// order of days; the first failing day aborts the batch.
func (s *ItineraryService) OptimizeBatch(ctx context.Context, days []domain.DayPlanRequest) ([]domain.DayPlanResult, error) {
	if err := s.checkBatch(days); err != nil {
		return nil, err
	}

	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanOptimizeBatch,
		trace.WithAttributes(attribute.Int(telemetry.AttrBatchDays, len(days))))
	defer span.End()
	metrics.BatchSize.WithLabelValues("inline").Observe(float64(len(days)))

	results := make([]domain.DayPlanResult, len(days))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.BatchConcurrency)
	for i, day := range days {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.Optimize(gctx, day)
			if err != nil {
				return fmt.Errorf("day %d: %w", i, err)
			}
			results[i] = *res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return results, nil
}

func (s *ItineraryService) checkBatch(days []domain.DayPlanRequest) error {
	if len(days) == 0 {
		return &domain.ValidationError{Kind: domain.KindInvalidOption, Message: "batch has no days"}
	}
	if len(days) > s.cfg.MaxBatchDays {
		return &domain.ValidationError{
			Kind:    domain.KindInvalidOption,
			Message: fmt.Sprintf("batch has %d days, at most %d allowed", len(days), s.cfg.MaxBatchDays),
		}
	}
	return nil
}

// Distance returns the great-circle distance between two points in km.
func (s *ItineraryService) Distance(from, to domain.GeoPoint) (float64, error) {
	if err := checkPoint(from); err != nil {
		return 0, err
	}
	if err := checkPoint(to); err != nil {
		return 0, err
	}
	return planner.CalculateDistance(from, to), nil
}

// TravelTime converts a distance into minutes for a mode name.
func (s *ItineraryService) TravelTime(distanceKm float64, mode string) (int, error) {
	if distanceKm < 0 {
		return 0, &domain.ValidationError{Kind: domain.KindInvalidOption, Message: "distance_km must not be negative"}
	}
	m, err := domain.ParseTravelMode(mode)
	if err != nil {
		return 0, &domain.ValidationError{Kind: domain.KindInvalidOption, Message: err.Error()}
	}
	return planner.EstimateTravelTime(distanceKm, m), nil
}

// Clusters groups activities and describes each group's center and bounds.
func (s *ItineraryService) Clusters(acts []domain.Activity, maxDistanceKm float64) []domain.Cluster {
	groups := planner.FindLocationClusters(acts, maxDistanceKm)
	out := make([]domain.Cluster, len(groups))
	for i, g := range groups {
		points := make([]domain.GeoPoint, len(g))
		for j, a := range g {
			points[j] = a.Location
		}
		out[i] = domain.Cluster{Activities: g, Center: domain.Centroid(points), Bounds: domain.BoundsOf(points)}
	}
	return out
}

// Timing returns advisory strings about scheduled hours.
func (s *ItineraryService) Timing(acts []domain.Activity) domain.TimingAdvice {
	return planner.SuggestOptimalTiming(acts)
}

func (s *ItineraryService) prepare(ctx context.Context, req domain.DayPlanRequest) domain.DayPlanRequest {
	if req.Options.Validation == "" {
		req.Options.Validation = s.cfg.ValidationMode
	}
	if req.Options.FuelPricePerLiter <= 0 && s.fuel != nil {
		req.Options.FuelPricePerLiter = s.fuel.Current(ctx).PricePerLiter
	}
	req.Options = req.Options.WithDefaults()
	if req.Activities == nil {
		req.Activities = []domain.Activity{}
	}
	return req
}

func (s *ItineraryService) lookup(ctx context.Context, key string) (*domain.DayPlanResult, bool) {
	if s.cache == nil || key == "" {
		return nil, false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		metrics.CacheMisses.WithLabelValues("optimize").Inc()
		return nil, false
	}
	var res domain.DayPlanResult
	if err := json.Unmarshal(data, &res); err != nil {
		metrics.CacheMisses.WithLabelValues("optimize").Inc()
		return nil, false
	}
	metrics.CacheHits.WithLabelValues("optimize").Inc()
	res.Cached = true
	return &res, true
}

func (s *ItineraryService) store(ctx context.Context, key string, res *domain.DayPlanResult) {
	if s.cache == nil || key == "" || s.cfg.CacheTTLSeconds <= 0 {
		return
	}
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cfg.CacheTTLSeconds); err != nil {
		slog.Warn("itinerary cache set", "error", err)
	}
}

func (s *ItineraryService) publish(ctx context.Context, req domain.DayPlanRequest, res *domain.DayPlanResult) {
	if s.events == nil {
		return
	}
	r := res.Result
	event := &domain.OptimizationEvent{
		ID:              res.ID,
		Time:            time.Now().UTC(),
		ActivityCount:   len(r.OptimizedActivities),
		TravelMode:      req.Options.TravelMode,
		Efficiency:      r.Efficiency,
		TotalDistanceKm: r.TotalDistanceKm,
		SavedMinutes:    r.EstimatedSavings.TimeMinutes,
		SavedDistanceKm: r.EstimatedSavings.DistanceKm,
		SavedCost:       r.EstimatedSavings.Cost,
		ConflictCount:   len(r.Conflicts),
		Cached:          res.Cached,
	}
	if err := s.events.PublishOptimized(ctx, event); err != nil {
		slog.Warn("publish optimization event", "id", res.ID, "error", err)
	}
}

func checkPoint(p domain.GeoPoint) error {
	if !geospatial.ValidCoordinate(p.Lat, p.Lon) {
		return &domain.ValidationError{
			Kind:    domain.KindInvalidCoordinate,
			Message: fmt.Sprintf("(%g, %g) is outside ±90/±180", p.Lat, p.Lon),
		}
	}
	return nil
}
