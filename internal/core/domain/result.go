package domain

import "time"

// TravelSegment is the transient edge between two consecutive activities.
type TravelSegment struct {
	FromID            string     `json:"from_id"`
	ToID              string     `json:"to_id"`
	DistanceKm        float64    `json:"distance_km"`
	TravelTimeMinutes int        `json:"travel_time_minutes"`
	Mode              TravelMode `json:"mode"`
	DepartAt          time.Time  `json:"depart_at"`
}

// TrafficSeverity classifies a reported delay.
type TrafficSeverity string

const (
	SeverityLight    TrafficSeverity = "light"
	SeverityModerate TrafficSeverity = "moderate"
	SeverityHeavy    TrafficSeverity = "heavy"
	SeveritySevere   TrafficSeverity = "severe"
)

// TrafficDelay is the reported extra travel time of one driving leg.
type TrafficDelay struct {
	FromID       string          `json:"from_id"`
	ToID         string          `json:"to_id"`
	DepartAt     time.Time       `json:"depart_at"`
	Multiplier   float64         `json:"multiplier"`
	BaseMinutes  int             `json:"base_minutes"`
	DelayMinutes int             `json:"delay_minutes"`
	Severity     TrafficSeverity `json:"severity"`
}

// TrafficImpact aggregates delays over a sequence. Segments only lists
// delays long enough to be worth surfacing; TotalDelayMinutes counts all.
type TrafficImpact struct {
	TotalDelayMinutes int            `json:"total_delay_minutes"`
	Segments          []TrafficDelay `json:"segments"`
}

// HasCongestion reports whether any listed leg is heavy or severe.
func (t TrafficImpact) HasCongestion() bool {
	for _, s := range t.Segments {
		if s.Severity == SeverityHeavy || s.Severity == SeveritySevere {
			return true
		}
	}
	return false
}

// CostBreakdown keeps every cost component retrievable on its own.
type CostBreakdown struct {
	FuelLiters  float64 `json:"fuel_liters"`
	FuelCost    float64 `json:"fuel_cost"`
	CO2Kg       float64 `json:"co2_kg"`
	TollCost    float64 `json:"toll_cost"`
	ParkingCost float64 `json:"parking_cost"`
	Total       float64 `json:"total"`
}

// Savings of the optimized plan over the input order. Never negative.
type Savings struct {
	TimeMinutes int     `json:"time_minutes"`
	DistanceKm  float64 `json:"distance_km"`
	Cost        float64 `json:"cost"`
}

// LockConflict reports a locked activity that cannot be reached in time
// from its predecessor.
type LockConflict struct {
	ActivityID     string    `json:"activity_id"`
	PreviousID     string    `json:"previous_id"`
	RequiredStart  time.Time `json:"required_start"`
	LockedStart    time.Time `json:"locked_start"`
	OverlapMinutes int       `json:"overlap_minutes"`
}

// OptimizationResult is the output of a single optimization run.
type OptimizationResult struct {
	OptimizedActivities   []Activity     `json:"optimized_activities"`
	Algorithm             string         `json:"algorithm"`
	OriginalDistanceKm    float64        `json:"original_distance_km"`
	TotalDistanceKm       float64        `json:"total_distance_km"`
	OriginalTravelMinutes int            `json:"original_travel_minutes"`
	TotalTravelMinutes    int            `json:"total_travel_minutes"`
	Traffic               TrafficImpact  `json:"traffic"`
	Cost                  CostBreakdown  `json:"cost"`
	EstimatedSavings      Savings        `json:"estimated_savings"`
	Efficiency            int            `json:"efficiency"`
	Suggestions           []string       `json:"suggestions"`
	Conflicts             []LockConflict `json:"conflicts,omitempty"`
}

// Cluster is a group of activities close enough to visit together.
type Cluster struct {
	Activities []Activity `json:"activities"`
	Center     GeoPoint   `json:"center"`
	Bounds     Bounds     `json:"bounds"`
}

// TimingAdvice holds advisory strings about scheduled hours.
type TimingAdvice struct {
	Suggestions []string `json:"suggestions"`
}
