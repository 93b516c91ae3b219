package domain

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// BoundsOf returns the smallest box containing every point.
// The zero Bounds is returned for an empty slice.
func BoundsOf(points []GeoPoint) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}
	b := Bounds{
		MinLat: points[0].Lat, MaxLat: points[0].Lat,
		MinLon: points[0].Lon, MaxLon: points[0].Lon,
	}
	for _, p := range points[1:] {
		b.MinLat = min(b.MinLat, p.Lat)
		b.MaxLat = max(b.MaxLat, p.Lat)
		b.MinLon = min(b.MinLon, p.Lon)
		b.MaxLon = max(b.MaxLon, p.Lon)
	}
	return b
}

// Centroid returns the arithmetic mean of the points.
func Centroid(points []GeoPoint) GeoPoint {
	if len(points) == 0 {
		return GeoPoint{}
	}
	var lat, lon float64
	for _, p := range points {
		lat += p.Lat
		lon += p.Lon
	}
	n := float64(len(points))
	return GeoPoint{Lat: lat / n, Lon: lon / n}
}
