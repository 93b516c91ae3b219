package domain

import "time"

// ValidationMode decides how malformed input is treated.
type ValidationMode string

const (
	// ValidationLenient never rejects input; degenerate coordinates yield
	// degenerate distances and lock conflicts are only reported.
	ValidationLenient ValidationMode = "lenient"
	// ValidationStrict rejects bad coordinates, duplicate IDs, negative
	// durations and lock conflicts with a *ValidationError.
	ValidationStrict ValidationMode = "strict"
)

// OptimizeOptions tunes a single optimization run.
type OptimizeOptions struct {
	TravelMode              TravelMode     `json:"travel_mode"`
	StartLocation           *GeoPoint      `json:"start_location,omitempty"`
	Vehicle                 VehicleType    `json:"vehicle_type"`
	FuelPricePerLiter       float64        `json:"fuel_price_per_liter"`
	ConsiderTraffic         bool           `json:"consider_traffic"`
	ConsiderTolls           bool           `json:"consider_tolls"`
	ConsiderParking         bool           `json:"consider_parking"`
	PreserveTimeConstraints bool           `json:"preserve_time_constraints"`
	MaxDetourKm             float64        `json:"max_detour_km,omitempty"`
	DayStart                time.Time      `json:"day_start,omitempty"`
	Validation              ValidationMode `json:"validation,omitempty"`
}

// DayPlanRequest is one day's worth of activities with its options.
type DayPlanRequest struct {
	Activities []Activity      `json:"activities"`
	Options    OptimizeOptions `json:"options"`
}

// DayPlanResult wraps an optimization result with service metadata.
type DayPlanResult struct {
	ID     string             `json:"id"`
	Cached bool               `json:"cached"`
	Result OptimizationResult `json:"result"`
}

// OptimizationEvent is published after every successful optimization.
type OptimizationEvent struct {
	ID              string     `json:"id"`
	Time            time.Time  `json:"time"`
	ActivityCount   int        `json:"activity_count"`
	TravelMode      TravelMode `json:"travel_mode"`
	Efficiency      int        `json:"efficiency"`
	TotalDistanceKm float64    `json:"total_distance_km"`
	SavedMinutes    int        `json:"saved_minutes"`
	SavedDistanceKm float64    `json:"saved_distance_km"`
	SavedCost       float64    `json:"saved_cost"`
	ConflictCount   int        `json:"conflict_count"`
	Cached          bool       `json:"cached"`
}

// FuelPrice is a reference fuel price for a region.
type FuelPrice struct {
	Region        string    `json:"region"`
	PricePerLiter float64   `json:"price_per_liter"`
	Currency      string    `json:"currency"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DefaultFuelPricePerLiter is used when a request carries no fuel price.
const DefaultFuelPricePerLiter = 1.45

// DefaultOptimizeOptions returns driving with a standard car, traffic
// considered, time constraints preserved and lenient validation.
func DefaultOptimizeOptions() OptimizeOptions {
	return OptimizeOptions{
		TravelMode:              TravelDriving,
		Vehicle:                 VehicleStandard,
		FuelPricePerLiter:       DefaultFuelPricePerLiter,
		ConsiderTraffic:         true,
		PreserveTimeConstraints: true,
		Validation:              ValidationLenient,
	}
}

// WithDefaults fills unknown or zero enum values and a non-positive fuel
// price. Boolean switches are left as given.
func (o OptimizeOptions) WithDefaults() OptimizeOptions {
	if !o.TravelMode.Valid() {
		o.TravelMode = TravelDriving
	}
	if !o.Vehicle.Valid() {
		o.Vehicle = VehicleStandard
	}
	if o.FuelPricePerLiter <= 0 {
		o.FuelPricePerLiter = DefaultFuelPricePerLiter
	}
	if o.Validation != ValidationStrict {
		o.Validation = ValidationLenient
	}
	if o.MaxDetourKm < 0 {
		o.MaxDetourKm = 0
	}
	return o
}

// BatchState is the lifecycle of an asynchronous batch.
type BatchState string

const (
	BatchRunning   BatchState = "running"
	BatchCompleted BatchState = "completed"
)

// BatchStatus reports an asynchronous batch and, once completed, its
// results in request order.
type BatchStatus struct {
	ID      string          `json:"batch_id"`
	Status  BatchState      `json:"status"`
	Results []DayPlanResult `json:"results,omitempty"`
}
