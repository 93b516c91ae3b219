package domain

import (
	"fmt"
	"strings"
	"time"
)

// TimeSlot is a half-open window [Start, End).
type TimeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration is End - Start.
func (t TimeSlot) Duration() time.Duration {
	return t.End.Sub(t.Start)
}

// DurationMinutes is the duration rounded to whole minutes.
func (t TimeSlot) DurationMinutes() int {
	return int(t.Duration().Round(time.Minute) / time.Minute)
}

// IsZero reports whether no window has been assigned.
func (t TimeSlot) IsZero() bool {
	return t.Start.IsZero() && t.End.IsZero()
}

// Activity is a single scheduled stop of a day plan.
type Activity struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Category Category `json:"category"`
	Location GeoPoint `json:"location"`
	TimeSlot TimeSlot `json:"time_slot"`
	IsLocked bool     `json:"is_locked"`
}

// TravelMode selects the speed model used between activities.
type TravelMode string

const (
	TravelWalking         TravelMode = "walking"
	TravelDriving         TravelMode = "driving"
	TravelPublicTransport TravelMode = "public_transport"
)

// SpeedKmh returns the average door-to-door speed of the mode.
// Unknown modes travel at driving speed.
func (m TravelMode) SpeedKmh() float64 {
	switch m {
	case TravelWalking:
		return 5
	case TravelPublicTransport:
		return 20
	default:
		return 25
	}
}

// Valid reports whether m is a known mode.
func (m TravelMode) Valid() bool {
	switch m {
	case TravelWalking, TravelDriving, TravelPublicTransport:
		return true
	}
	return false
}

// ParseTravelMode maps a mode name to its value.
func ParseTravelMode(s string) (TravelMode, error) {
	m := TravelMode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unknown travel mode %q", s)
	}
	return m, nil
}

// VehicleType selects the fuel efficiency used by the cost estimator.
type VehicleType string

const (
	VehicleCompact  VehicleType = "compact"
	VehicleStandard VehicleType = "standard"
	VehicleSUV      VehicleType = "suv"
	VehicleElectric VehicleType = "electric"
)

// KmPerLiter returns the fuel efficiency. Electric vehicles return 0 and
// burn no fuel.
func (v VehicleType) KmPerLiter() float64 {
	switch v {
	case VehicleCompact:
		return 16
	case VehicleSUV:
		return 9
	case VehicleElectric:
		return 0
	default:
		return 12
	}
}

// Valid reports whether v is a known vehicle profile.
func (v VehicleType) Valid() bool {
	switch v {
	case VehicleCompact, VehicleStandard, VehicleSUV, VehicleElectric:
		return true
	}
	return false
}

// ParseVehicleType maps a vehicle name to its value.
func ParseVehicleType(s string) (VehicleType, error) {
	v := VehicleType(strings.ToLower(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", fmt.Errorf("unknown vehicle type %q", s)
	}
	return v, nil
}
