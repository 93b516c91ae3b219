package planner

import (
	"math"
	"time"

	"github.com/samirrijal/dayroute/internal/core/domain"
	"github.com/samirrijal/dayroute/internal/pkg/geospatial"
)

// CalculateDistance returns the great-circle distance between a and b in km.
func CalculateDistance(a, b domain.GeoPoint) float64 {
	return geospatial.Haversine(a.Lat, a.Lon, b.Lat, b.Lon)
}

// PathDistance sums the legs between consecutive activities.
func PathDistance(acts []domain.Activity) float64 {
	var total float64
	for i := 1; i < len(acts); i++ {
		total += CalculateDistance(acts[i-1].Location, acts[i].Location)
	}
	return total
}

// EstimateTravelTime converts a distance into whole minutes for the mode.
// A non-finite or negative distance takes no time.
func EstimateTravelTime(distanceKm float64, mode domain.TravelMode) int {
	if math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) || distanceKm <= 0 {
		return 0
	}
	return int(math.Round(distanceKm / mode.SpeedKmh() * 60))
}

func travelDuration(from, to domain.Activity, mode domain.TravelMode) time.Duration {
	minutes := EstimateTravelTime(CalculateDistance(from.Location, to.Location), mode)
	return time.Duration(minutes) * time.Minute
}

// BuildSegments derives the legs of a sequence. A leg departs when the
// activity it leaves ends.
func BuildSegments(acts []domain.Activity, mode domain.TravelMode) []domain.TravelSegment {
	if len(acts) < 2 {
		return nil
	}
	segs := make([]domain.TravelSegment, 0, len(acts)-1)
	for i := 1; i < len(acts); i++ {
		from, to := acts[i-1], acts[i]
		d := CalculateDistance(from.Location, to.Location)
		segs = append(segs, domain.TravelSegment{
			FromID:            from.ID,
			ToID:              to.ID,
			DistanceKm:        d,
			TravelTimeMinutes: EstimateTravelTime(d, mode),
			Mode:              mode,
			DepartAt:          from.TimeSlot.End,
		})
	}
	return segs
}
