// Package units provides shared constants and conversions for hypocenter
// and station-geometry quantities.
//
// The event model carries depths and location errors in meters and
// epicentral distances in degrees; the solver buffers carry kilometers.
// All crossings of that boundary go through this package.
package units

import "math"

const (
	// MetersPerKm converts between the meter-valued event model and the
	// kilometer-valued solver buffers.
	MetersPerKm = 1000.0

	// KmPerDegree is the great-circle distance of one degree of epicentral
	// distance at the Earth's surface.
	KmPerDegree = 111.2
)

// MetersToKm converts a length in meters to kilometers.
func MetersToKm(m float64) float64 {
	return m / MetersPerKm
}

// KmToMeters converts a length in kilometers to meters.
func KmToMeters(km float64) float64 {
	return km * MetersPerKm
}

// DegreesToKm converts an epicentral distance in degrees to kilometers.
func DegreesToKm(deg float64) float64 {
	return deg * KmPerDegree
}

// KmToDegrees converts an epicentral distance in kilometers to degrees.
func KmToDegrees(km float64) float64 {
	return km / KmPerDegree
}

// NormalizeAzimuth maps an azimuth in degrees into [0, 360).
// Non-negative azimuths below 360 pass through unchanged.
func NormalizeAzimuth(az float64) float64 {
	az = math.Mod(az, 360.0)
	if az < 0 {
		az += 360.0
	}
	return az
}
