// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package geo provides great-circle geodesy primitives. All functions are
// pure and deterministic.
package geo

import (
	"math"
)

// EarthRadius is the mean earth radius in meters.
const EarthRadius = 6371000.0

// Coordinate represents a geographic coordinate in degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Valid checks if the coordinate is valid according to the EPSG logic
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// IsZero reports whether the coordinate is the zero value. Null Island is
// treated as "unset" throughout seekr.
func (c Coordinate) IsZero() bool {
	return c.Lat == 0 && c.Lon == 0
}

// Distance returns the great-circle distance between two coordinates in
// meters, using the Haversine formula.
func Distance(from, to Coordinate) float64 {
	dLat := radians(to.Lat - from.Lat)
	dLon := radians(to.Lon - from.Lon)
	lat1 := radians(from.Lat)
	lat2 := radians(to.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadius * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Bearing returns the initial great-circle bearing (forward azimuth) from one
// coordinate to another, in radians normalized to [0, 2π). Identical
// coordinates yield 0.
func Bearing(from, to Coordinate) float64 {
	lat1 := radians(from.Lat)
	lat2 := radians(to.Lat)
	dLon := radians(to.Lon - from.Lon)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	return NormalizeAngle(math.Atan2(y, x))
}

// NormalizeAngle wraps an angle in radians into [0, 2π).
func NormalizeAngle(rad float64) float64 {
	rad = math.Mod(rad, 2*math.Pi)
	if rad < 0 {
		rad += 2 * math.Pi
	}
	return rad
}

// Midpoint returns the simple arithmetic midpoint between two coordinates.
// Good enough for centering a view over short pedestrian distances.
func Midpoint(a, b Coordinate) Coordinate {
	return Coordinate{
		Lat: (a.Lat + b.Lat) / 2,
		Lon: (a.Lon + b.Lon) / 2,
	}
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
