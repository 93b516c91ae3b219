package domain

import (
	"fmt"
	"strings"
)

// Category classifies an activity. It only drives cost-rate lookup and
// ideal-time heuristics.
type Category int

const (
	CategorySightseeing Category = iota + 1
	CategoryDining
	CategoryShopping
	CategoryEntertainment
	CategoryAccommodation
	CategoryTransport
)

// HourRange is an inclusive range of hours of the day (0-23).
type HourRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Contains reports whether hour lies within the range.
func (r HourRange) Contains(hour int) bool {
	return hour >= r.From && hour <= r.To
}

func (r HourRange) String() string {
	return fmt.Sprintf("%02d:00-%02d:00", r.From, r.To)
}

// CategoryProfile carries the per-category data used by the planner.
type CategoryProfile struct {
	Name               string
	ParkingRatePerHour float64
	Ideal              []HourRange
	Avoid              []HourRange
}

var categoryProfiles = [...]CategoryProfile{
	CategorySightseeing: {
		Name:               "sightseeing",
		ParkingRatePerHour: 3.0,
		Ideal:              []HourRange{{9, 11}, {14, 16}},
		Avoid:              []HourRange{{12, 13}},
	},
	CategoryDining: {
		Name:               "dining",
		ParkingRatePerHour: 2.0,
		Ideal:              []HourRange{{12, 13}, {18, 20}},
		Avoid:              []HourRange{{15, 17}},
	},
	CategoryShopping: {
		Name:               "shopping",
		ParkingRatePerHour: 2.5,
		Ideal:              []HourRange{{10, 12}, {14, 17}},
		Avoid:              []HourRange{{21, 23}},
	},
	CategoryEntertainment: {
		Name:               "entertainment",
		ParkingRatePerHour: 4.0,
		Ideal:              []HourRange{{14, 17}, {19, 22}},
		Avoid:              []HourRange{{6, 9}},
	},
	CategoryAccommodation: {
		Name:               "accommodation",
		ParkingRatePerHour: 0,
		Ideal:              []HourRange{{15, 18}, {21, 23}},
		Avoid:              []HourRange{{0, 5}},
	},
	CategoryTransport: {
		Name:               "transport",
		ParkingRatePerHour: 1.5,
		Ideal:              []HourRange{{9, 11}, {13, 15}},
		Avoid:              []HourRange{{7, 8}, {17, 18}},
	},
}

// Categories lists every valid category in declaration order.
func Categories() []Category {
	return []Category{
		CategorySightseeing, CategoryDining, CategoryShopping,
		CategoryEntertainment, CategoryAccommodation, CategoryTransport,
	}
}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	return c >= CategorySightseeing && c <= CategoryTransport
}

// Profile returns the table entry for c. Invalid categories get an empty
// profile: no parking cost and no timing advice.
func (c Category) Profile() CategoryProfile {
	if !c.Valid() {
		return CategoryProfile{Name: "unknown"}
	}
	return categoryProfiles[c]
}

func (c Category) String() string {
	return c.Profile().Name
}

// ParseCategory maps a category name to its enum value.
func ParseCategory(s string) (Category, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories() {
		if categoryProfiles[c].Name == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

// MarshalText encodes the category name. The zero value encodes as an
// empty string so unset categories survive a round trip.
func (c Category) MarshalText() ([]byte, error) {
	if c == 0 {
		return []byte{}, nil
	}
	if !c.Valid() {
		return nil, fmt.Errorf("invalid category %d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*c = 0
		return nil
	}
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
