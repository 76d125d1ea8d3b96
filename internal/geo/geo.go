// Package geo provides the geographic and unit-conversion helpers the
// telemetry model and overlay renderer depend on. All functions are
// stateless.
package geo

import (
	"math"
)

// earthRadius is the mean Earth radius in meters.
const earthRadius = 6371000.0

// Distance returns the great-circle distance in meters between two
// WGS84 coordinates, using the haversine formula.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := Radians(lat1)
	lat2Rad := Radians(lat2)
	dLat := Radians(lat2 - lat1)
	dLon := Radians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Asin(math.Sqrt(a))

	return earthRadius * c
}

// Bearing returns the initial bearing in degrees (0-360) from the first
// coordinate to the second.
func Bearing(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := Radians(lat1)
	lat2Rad := Radians(lat2)
	dLon := Radians(lon2 - lon1)

	y := math.Sin(dLon) * math.Cos(lat2Rad)
	x := math.Cos(lat1Rad)*math.Sin(lat2Rad) - math.Sin(lat1Rad)*math.Cos(lat2Rad)*math.Cos(dLon)

	return NormalizeAngle(Degrees(math.Atan2(y, x)))
}

// Destination returns the coordinate reached by travelling the given
// distance in meters on the given bearing from a starting coordinate.
func Destination(lat, lon, bearing, distance float64) (float64, float64) {
	latRad := Radians(lat)
	lonRad := Radians(lon)
	bearingRad := Radians(bearing)
	angular := distance / earthRadius

	lat2Rad := math.Asin(math.Sin(latRad)*math.Cos(angular) +
		math.Cos(latRad)*math.Sin(angular)*math.Cos(bearingRad))
	lon2Rad := lonRad + math.Atan2(
		math.Sin(bearingRad)*math.Sin(angular)*math.Cos(latRad),
		math.Cos(angular)-math.Sin(latRad)*math.Sin(lat2Rad))

	return Degrees(lat2Rad), Degrees(lon2Rad)
}

// MsToKmh converts meters per second to kilometers per hour.
func MsToKmh(ms float64) float64 { return ms * 3.6 }

// KmhToMs converts kilometers per hour to meters per second.
func KmhToMs(kmh float64) float64 { return kmh / 3.6 }

// MsToMph converts meters per second to miles per hour.
func MsToMph(ms float64) float64 { return ms * 2.23694 }

// MphToMs converts miles per hour to meters per second.
func MphToMs(mph float64) float64 { return mph / 2.23694 }

// GForceMagnitude returns the magnitude of a three-axis g-force vector.
func GForceMagnitude(gx, gy, gz float64) float64 {
	return math.Sqrt(gx*gx + gy*gy + gz*gz)
}

// Acceleration returns the mean acceleration in m/s² between two speed
// readings taken dt seconds apart. A zero dt yields zero.
func Acceleration(speed1, speed2, dt float64) float64 {
	if dt == 0 {
		return 0
	}
	return (speed2 - speed1) / dt
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 { return deg * math.Pi / 180 }

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

// NormalizeAngle wraps an angle in degrees into [0, 360).
func NormalizeAngle(angle float64) float64 {
	normalized := math.Mod(angle, 360)
	if normalized < 0 {
		normalized += 360
	}
	return normalized
}

// Clamp limits v to the inclusive range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp linearly interpolates between a and b by t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
