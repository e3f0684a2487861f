package valueobjects

import (
	"errors"
	"math"
)

// earthRadiusKm is the mean radius of the Earth used for haversine distances.
const earthRadiusKm = 6371.0

// GeoPoint is a value object for a geographic coordinate pair
type GeoPoint struct {
	latitude  float64
	longitude float64
}

// NewGeoPoint creates a GeoPoint with range validation
func NewGeoPoint(latitude, longitude float64) (GeoPoint, error) {
	if latitude < -90 || latitude > 90 {
		return GeoPoint{}, errors.New("latitude must be between -90 and 90")
	}
	if longitude < -180 || longitude > 180 {
		return GeoPoint{}, errors.New("longitude must be between -180 and 180")
	}
	return GeoPoint{latitude: latitude, longitude: longitude}, nil
}

// Latitude returns the latitude in degrees
func (p GeoPoint) Latitude() float64 {
	return p.latitude
}

// Longitude returns the longitude in degrees
func (p GeoPoint) Longitude() float64 {
	return p.longitude
}

// Equals checks if two points are identical
func (p GeoPoint) Equals(other GeoPoint) bool {
	return p.latitude == other.latitude && p.longitude == other.longitude
}

// DistanceKm returns the haversine great-circle distance to another point in kilometers
func (p GeoPoint) DistanceKm(other GeoPoint) float64 {
	lat1 := p.latitude * math.Pi / 180
	lat2 := other.latitude * math.Pi / 180
	dLat := (other.latitude - p.latitude) * math.Pi / 180
	dLon := (other.longitude - p.longitude) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// Centroid returns the arithmetic center of a set of points.
// Good enough at venue and city scale; not meridian-wrap aware.
func Centroid(points []GeoPoint) GeoPoint {
	if len(points) == 0 {
		return GeoPoint{}
	}

	var sumLat, sumLon float64
	for _, pt := range points {
		sumLat += pt.latitude
		sumLon += pt.longitude
	}

	return GeoPoint{
		latitude:  sumLat / float64(len(points)),
		longitude: sumLon / float64(len(points)),
	}
}
