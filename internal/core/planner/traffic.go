package planner

import (
	"math"
	"time"

	"github.com/samirrijal/dayroute/internal/core/domain"
)

// MaxTrafficMultiplier caps any multiplier a model returns.
const MaxTrafficMultiplier = 2.5

// minReportedDelay is the largest delay, in minutes, that is counted but
// not listed.
const minReportedDelay = 5

// TrafficModel yields the factor by which a leg's base travel time grows.
// Implementations must be safe for concurrent use.
type TrafficModel interface {
	Multiplier(departAt time.Time, distanceKm float64) float64
}

// RushHourModel is the built-in hour-of-day heuristic.
type RushHourModel struct{}

// Multiplier implements TrafficModel.
func (RushHourModel) Multiplier(departAt time.Time, distanceKm float64) float64 {
	h := departAt.Hour()

	m := 1.0
	switch {
	case (h >= 7 && h < 9) || (h >= 17 && h < 19):
		m = 1.6
	case (h >= 6 && h < 10) || (h >= 16 && h < 20):
		m = 1.3
	case h >= 11 && h < 15:
		m = 1.1
	}

	switch {
	case distanceKm > 10:
		m += 0.2
	case distanceKm > 5:
		m += 0.1
	}
	return math.Min(m, MaxTrafficMultiplier)
}

// ClassifyDelay maps a delay in minutes to a severity.
func ClassifyDelay(minutes int) domain.TrafficSeverity {
	switch {
	case minutes > 30:
		return domain.SeveritySevere
	case minutes > 15:
		return domain.SeverityHeavy
	case minutes > 8:
		return domain.SeverityModerate
	default:
		return domain.SeverityLight
	}
}

// AnalyzeTraffic estimates delays on driving legs. Legs without a departure
// time are skipped. A nil model means RushHourModel.
func AnalyzeTraffic(segments []domain.TravelSegment, model TrafficModel) domain.TrafficImpact {
	if model == nil {
		model = RushHourModel{}
	}
	impact := domain.TrafficImpact{Segments: []domain.TrafficDelay{}}

	for _, seg := range segments {
		if seg.Mode != domain.TravelDriving || seg.DepartAt.IsZero() {
			continue
		}
		mult := math.Min(model.Multiplier(seg.DepartAt, seg.DistanceKm), MaxTrafficMultiplier)
		delay := int(math.Round(float64(seg.TravelTimeMinutes) * (mult - 1)))
		if delay <= 0 {
			continue
		}
		impact.TotalDelayMinutes += delay
		if delay <= minReportedDelay {
			continue
		}
		impact.Segments = append(impact.Segments, domain.TrafficDelay{
			FromID:       seg.FromID,
			ToID:         seg.ToID,
			DepartAt:     seg.DepartAt,
			Multiplier:   mult,
			BaseMinutes:  seg.TravelTimeMinutes,
			DelayMinutes: delay,
			Severity:     ClassifyDelay(delay),
		})
	}
	return impact
}
