package planner

import (
	"math"

	"github.com/samirrijal/dayroute/internal/core/domain"
)

const (
	// CO2KgPerLiter is the emission factor of burned fuel.
	CO2KgPerLiter = 2.31

	tollThresholdKm = 50.0
	tollRatePerKm   = 0.15
	tollCap         = 25.0
)

// CostOptions selects the vehicle and which components are priced.
type CostOptions struct {
	Vehicle           domain.VehicleType
	FuelPricePerLiter float64
	IncludeTolls      bool
	IncludeParking    bool
}

// EstimateCost prices a sequence by its total path distance and the time
// spent at each activity.
func EstimateCost(acts []domain.Activity, opts CostOptions) domain.CostBreakdown {
	distance := PathDistance(acts)

	var b domain.CostBreakdown
	if eff := opts.Vehicle.KmPerLiter(); eff > 0 {
		b.FuelLiters = distance / eff
		b.FuelCost = b.FuelLiters * opts.FuelPricePerLiter
		b.CO2Kg = b.FuelLiters * CO2KgPerLiter
	}
	if opts.IncludeTolls {
		b.TollCost = TollCost(distance)
	}
	if opts.IncludeParking {
		b.ParkingCost = ParkingCost(acts)
	}
	b.Total = b.FuelCost + b.TollCost + b.ParkingCost
	return b
}

// TollCost applies the flat per-km toll to days longer than 50 km.
func TollCost(distanceKm float64) float64 {
	if distanceKm <= tollThresholdKm {
		return 0
	}
	return math.Min(distanceKm*tollRatePerKm, tollCap)
}

// ParkingCost charges each activity's category rate for its duration.
func ParkingCost(acts []domain.Activity) float64 {
	var total float64
	for _, a := range acts {
		hours := math.Max(a.TimeSlot.Duration().Hours(), 0)
		total += a.Category.Profile().ParkingRatePerHour * hours
	}
	return total
}
