package geospatial

import "math"

// EarthRadiusKm is the mean Earth radius used by every distance in the module.
const EarthRadiusKm = 6371.0

// Haversine calculates the great-circle distance in kilometers between two points.
// Coordinates are not range checked.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	// Rounding can push a just past 1 for near-antipodal points.
	a = math.Max(0, math.Min(1, a))

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// ValidCoordinate reports whether lat/lon are finite and within ±90/±180.
func ValidCoordinate(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
