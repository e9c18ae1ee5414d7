package discovery

import "math"

const earthRadiusKm = 6371.0088

// Point is a WGS84 coordinate in degrees
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether p is inside the coordinate ranges
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// DistanceKm is the great-circle (haversine) distance between a and b
func DistanceKm(a, b Point) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := lat2 - lat1
	dLng := radians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// Box is a lat/lng rectangle. When the box crosses the antimeridian
// MinLng > MaxLng.
type Box struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// BoundingBox returns a box containing every point within radiusKm of center.
// Near the poles the longitude range widens to the full circle.
func BoundingBox(center Point, radiusKm float64) Box {
	dLat := radiusKm / earthRadiusKm * 180 / math.Pi
	box := Box{
		MinLat: math.Max(-90, center.Lat-dLat),
		MaxLat: math.Min(90, center.Lat+dLat),
	}

	if box.MinLat <= -90 || box.MaxLat >= 90 {
		box.MinLng, box.MaxLng = -180, 180
		return box
	}

	dLng := math.Asin(math.Min(1, math.Sin(radiusKm/earthRadiusKm)/math.Cos(radians(center.Lat)))) * 180 / math.Pi
	box.MinLng = center.Lng - dLng
	box.MaxLng = center.Lng + dLng
	if box.MinLng < -180 {
		box.MinLng += 360
	}
	if box.MaxLng > 180 {
		box.MaxLng -= 360
	}
	return box
}

// CrossesAntimeridian reports whether the longitude range wraps
func (b Box) CrossesAntimeridian() bool {
	return b.MinLng > b.MaxLng
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
