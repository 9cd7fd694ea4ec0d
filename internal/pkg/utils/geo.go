package utils

import "math"

// EarthRadiusMeters is the mean Earth radius used by the haversine formula.
const EarthRadiusMeters = 6371000

// CalculateHaversineDistance returns the great-circle distance between two
// coordinates (in degrees) in meters.
func CalculateHaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := degreesToRadians(lat2 - lat1)
	dLon := degreesToRadians(lon2 - lon1)

	lat1Rad := degreesToRadians(lat1)
	lat2Rad := degreesToRadians(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// WithinRadius reports whether distanceMeters is inside radiusMeters. The
// boundary itself counts as inside.
func WithinRadius(distanceMeters, radiusMeters float64) bool {
	return distanceMeters <= radiusMeters
}

// IsWithinRadius reports whether the distance between the two coordinates is
// within radiusMeters, and returns that distance.
func IsWithinRadius(lat1, lon1, lat2, lon2, radiusMeters float64) (bool, float64) {
	distance := CalculateHaversineDistance(lat1, lon1, lat2, lon2)
	return WithinRadius(distance, radiusMeters), distance
}

func degreesToRadians(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}
