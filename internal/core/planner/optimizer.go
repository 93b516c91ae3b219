package planner

import (
	"fmt"
	"math"
	"slices"

	"github.com/samirrijal/dayroute/internal/core/domain"
)

// Suggestion texts. Numeric ones are format strings.
const (
	SuggestAddActivities = "Add activities to your itinerary to get route optimization"
	SuggestTimeSaved     = "Optimized route saves %d minutes of travel time"
	SuggestDistanceSaved = "Reordering cuts %.1f km of travel"
	SuggestCostSaved     = "Estimated savings of %.2f in travel costs"
	SuggestHeavyTraffic  = "Heavy traffic expected on some legs; consider shifting departures outside rush hours"
	SuggestHighEmissions = "This plan emits %.1f kg of CO2; walking or public transport for short legs would cut it"
	SuggestWellOptimized = "Your itinerary is already well optimized"
)

const (
	suggestTimeThreshold   = 15
	suggestDistanceKm      = 1.0
	suggestCostThreshold   = 5.0
	suggestCO2ThresholdKg  = 20.0
	perfectEfficiencyScore = 100
)

// DefaultOptions returns the options used when a caller sets none.
func DefaultOptions() domain.OptimizeOptions {
	return domain.DefaultOptimizeOptions()
}

// Optimizer runs the full pipeline over one day. It keeps no state besides
// its traffic model and is safe for concurrent use.
type Optimizer struct {
	traffic TrafficModel
}

// NewOptimizer builds an Optimizer. A nil model means RushHourModel.
func NewOptimizer(traffic TrafficModel) *Optimizer {
	if traffic == nil {
		traffic = RushHourModel{}
	}
	return &Optimizer{traffic: traffic}
}

type planMetrics struct {
	distanceKm    float64
	travelMinutes int
	traffic       domain.TrafficImpact
	cost          domain.CostBreakdown
}

// Optimize sequences, schedules and prices acts. In lenient mode it never
// fails; in strict mode invalid input and lock conflicts return a
// *domain.ValidationError.
func (o *Optimizer) Optimize(acts []domain.Activity, opts domain.OptimizeOptions) (domain.OptimizationResult, error) {
	opts = opts.WithDefaults()
	strict := opts.Validation == domain.ValidationStrict

	if strict {
		if err := Validate(acts); err != nil {
			return domain.OptimizationResult{}, err
		}
	}

	switch len(acts) {
	case 0:
		return domain.OptimizationResult{
			OptimizedActivities: []domain.Activity{},
			Algorithm:           AlgorithmNone,
			Traffic:             domain.TrafficImpact{Segments: []domain.TrafficDelay{}},
			Efficiency:          perfectEfficiencyScore,
			Suggestions:         []string{SuggestAddActivities},
		}, nil
	case 1:
		return domain.OptimizationResult{
			OptimizedActivities: slices.Clone(acts),
			Algorithm:           AlgorithmNone,
			Traffic:             domain.TrafficImpact{Segments: []domain.TrafficDelay{}},
			Efficiency:          perfectEfficiencyScore,
			Suggestions:         []string{},
		}, nil
	}

	// Both plans are timed by the same clock so traffic delay compares
	// like with like.
	dayStart := dayStartFor(acts, opts.DayStart)
	original := acts
	if opts.PreserveTimeConstraints {
		original = Reconcile(acts, opts.TravelMode, dayStart)
	}
	baseline := o.measure(original, opts)

	ordered, algorithm := Sequence(acts, opts.StartLocation, opts.MaxDetourKm)
	if opts.PreserveTimeConstraints {
		ordered = Reconcile(ordered, opts.TravelMode, dayStart)
	}

	conflicts := DetectLockConflicts(ordered, opts.TravelMode)
	if strict && len(conflicts) > 0 {
		return domain.OptimizationResult{}, lockConflictError(conflicts[0])
	}

	optimized := o.measure(ordered, opts)
	savings := domain.Savings{
		TimeMinutes: max(baseline.travelMinutes-optimized.travelMinutes, 0),
		DistanceKm:  math.Max(baseline.distanceKm-optimized.distanceKm, 0),
		Cost:        math.Max(baseline.cost.Total-optimized.cost.Total, 0),
	}

	return domain.OptimizationResult{
		OptimizedActivities:   ordered,
		Algorithm:             algorithm,
		OriginalDistanceKm:    baseline.distanceKm,
		TotalDistanceKm:       optimized.distanceKm,
		OriginalTravelMinutes: baseline.travelMinutes,
		TotalTravelMinutes:    optimized.travelMinutes,
		Traffic:               optimized.traffic,
		Cost:                  optimized.cost,
		EstimatedSavings:      savings,
		Efficiency:            efficiencyScore(baseline.travelMinutes, optimized.travelMinutes),
		Suggestions:           suggestions(savings, optimized),
		Conflicts:             conflicts,
	}, nil
}

func (o *Optimizer) measure(acts []domain.Activity, opts domain.OptimizeOptions) planMetrics {
	m := planMetrics{traffic: domain.TrafficImpact{Segments: []domain.TrafficDelay{}}}

	segs := BuildSegments(acts, opts.TravelMode)
	for _, s := range segs {
		m.distanceKm += s.DistanceKm
		m.travelMinutes += s.TravelTimeMinutes
	}
	if opts.ConsiderTraffic {
		m.traffic = AnalyzeTraffic(segs, o.traffic)
		m.travelMinutes += m.traffic.TotalDelayMinutes
	}
	m.cost = EstimateCost(acts, CostOptions{
		Vehicle:           opts.Vehicle,
		FuelPricePerLiter: opts.FuelPricePerLiter,
		IncludeTolls:      opts.ConsiderTolls,
		IncludeParking:    opts.ConsiderParking,
	})
	return m
}

// efficiencyScore compares travel time before and after, clamped to 0..100.
// The +1 keeps an already-zero optimized time finite.
func efficiencyScore(originalMinutes, optimizedMinutes int) int {
	score := math.Round(float64(originalMinutes) / float64(optimizedMinutes+1) * 100)
	return int(math.Max(0, math.Min(perfectEfficiencyScore, score)))
}

func suggestions(s domain.Savings, optimized planMetrics) []string {
	out := []string{}
	if s.TimeMinutes > suggestTimeThreshold {
		out = append(out, fmt.Sprintf(SuggestTimeSaved, s.TimeMinutes))
	}
	if s.DistanceKm > suggestDistanceKm {
		out = append(out, fmt.Sprintf(SuggestDistanceSaved, s.DistanceKm))
	}
	if s.Cost > suggestCostThreshold {
		out = append(out, fmt.Sprintf(SuggestCostSaved, s.Cost))
	}
	if optimized.traffic.HasCongestion() {
		out = append(out, SuggestHeavyTraffic)
	}
	if optimized.cost.CO2Kg > suggestCO2ThresholdKg {
		out = append(out, fmt.Sprintf(SuggestHighEmissions, optimized.cost.CO2Kg))
	}
	if len(out) == 0 {
		out = append(out, SuggestWellOptimized)
	}
	return out
}
