// Package geo contains pure geographic computation helpers: great-circle
// distance and the tiered delivery fee derived from it.
package geo

import "math"

const earthRadiusMeters = 6371000.0

// Delivery fee: 10 currency units per 500-meter tier from the depot, any
// partial tier charged in full.
const (
	feeTierMeters   = 500.0
	feeUnitsPerTier = 10.0
)

// DistanceMeters returns the haversine distance in meters between two points
// given in decimal degrees.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := degreesToRadians(lat2 - lat1)
	dLon := degreesToRadians(lon2 - lon1)

	rLat1 := degreesToRadians(lat1)
	rLat2 := degreesToRadians(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// DeliveryFeeUnits computes the delivery fee in whole currency units for a
// dropoff relative to the depot origin: ceil(distance/500 * 10). Zero
// distance yields zero fee.
func DeliveryFeeUnits(dropoffLat, dropoffLon, originLat, originLon float64) int64 {
	d := DistanceMeters(dropoffLat, dropoffLon, originLat, originLon)
	return FeeUnitsForDistance(d)
}

// FeeUnitsForDistance converts a raw distance in meters to fee units.
func FeeUnitsForDistance(distanceMeters float64) int64 {
	if distanceMeters <= 0 {
		return 0
	}
	return int64(math.Ceil(distanceMeters / feeTierMeters * feeUnitsPerTier))
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
