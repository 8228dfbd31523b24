// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package route requests routes from an OSRM-compatible directions service
// and manages the currently held route during navigation.
package route

import (
	"github.com/wneessen/seekr/internal/geo"
)

// Step is one maneuver segment of a route with its own sub-polyline.
type Step struct {
	Geometry []geo.Coordinate
	Name     string
	// Distance is the step length in meters.
	Distance float64
}

// Route is an ordered polyline from origin to destination plus its step
// list. A Route is immutable once built; recalculation replaces it
// wholesale.
type Route struct {
	Geometry []geo.Coordinate
	Steps    []Step
	// Distance is the total route length in meters.
	Distance float64
	// Duration is the estimated travel time in seconds.
	Duration float64
}

// NextStep returns the coordinate of the first upcoming maneuver, used to
// pull the compass needle towards the path. The first step starts at the
// route origin, so the target is the end of the first step's geometry.
func (r *Route) NextStep() (geo.Coordinate, bool) {
	if r == nil || len(r.Steps) == 0 {
		return geo.Coordinate{}, false
	}
	g := r.Steps[0].Geometry
	if len(g) == 0 {
		return geo.Coordinate{}, false
	}
	return g[len(g)-1], true
}
