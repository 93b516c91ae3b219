package geospatial

import (
	"math"
	"testing"
)

func TestHaversine_OneDegreeAtEquator(t *testing.T) {
	got := Haversine(0, 0, 0, 1)
	if math.Abs(got-111.195) > 0.01 {
		t.Errorf("expected ~111.195 km, got %.4f", got)
	}
}

func TestHaversine_Symmetric(t *testing.T) {
	a := Haversine(43.263, -2.935, 40.4168, -3.7038)
	b := Haversine(40.4168, -3.7038, 43.263, -2.935)
	if math.Abs(a-b) > 1e-9 {
		t.Errorf("expected symmetric distance, got %v and %v", a, b)
	}
}

func TestHaversine_SamePoint(t *testing.T) {
	if d := Haversine(43.263, -2.935, 43.263, -2.935); d != 0 {
		t.Errorf("expected 0, got %v", d)
	}
}

func TestHaversine_AntipodalIsFinite(t *testing.T) {
	halfCircumference := math.Pi * EarthRadiusKm
	for lat := -89.0; lat <= 89.0; lat += 0.01 {
		for lon := -179.0; lon <= 0; lon += 1 {
			d := Haversine(lat, lon, -lat, lon+180)
			if math.IsNaN(d) || math.IsInf(d, 0) {
				t.Fatalf("expected finite distance for (%v,%v)-(%v,%v), got %v", lat, lon, -lat, lon+180, d)
			}
			if d > halfCircumference+1e-6 {
				t.Fatalf("expected at most %.3f km, got %.3f", halfCircumference, d)
			}
		}
	}

	if d := Haversine(-86.77999999999997, -179, 86.77999999999997, 1); math.Abs(d-halfCircumference) > 0.01 {
		t.Errorf("expected ~%.3f km, got %.4f", halfCircumference, d)
	}
}

func TestValidCoordinate(t *testing.T) {
	cases := []struct {
		lat, lon float64
		want     bool
	}{
		{0, 0, true},
		{90, 180, true},
		{-90, -180, true},
		{90.1, 0, false},
		{0, -180.5, false},
		{math.NaN(), 0, false},
		{0, math.Inf(1), false},
	}
	for _, c := range cases {
		if got := ValidCoordinate(c.lat, c.lon); got != c.want {
			t.Errorf("ValidCoordinate(%v, %v) = %v, want %v", c.lat, c.lon, got, c.want)
		}
	}
}
