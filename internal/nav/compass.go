// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package nav

import (
	"math"

	"github.com/wneessen/seekr/internal/geo"
)

const (
	destinationWeight = 0.8
	nextStepWeight    = 0.2
)

// Compass computes the display bearing for the compass needle from the
// latest location, heading, destination and upcoming route step. Without a
// destination the needle simply mirrors the device heading.
//
// Compass is not safe for concurrent use.
type Compass struct {
	location    geo.Coordinate
	heading     float64
	destination geo.Coordinate
	hasDest     bool
	nextStep    geo.Coordinate
	hasNextStep bool
}

// NewCompass returns a Compass without a destination.
func NewCompass() *Compass {
	return &Compass{}
}

// SetDestination points the compass at a destination.
func (c *Compass) SetDestination(dest geo.Coordinate) {
	c.destination = dest
	c.hasDest = true
}

// ClearDestination removes the destination and the next route step.
func (c *Compass) ClearDestination() {
	c.hasDest = false
	c.hasNextStep = false
}

// SetNextStep sets the coordinate of the next upcoming route step, which
// pulls the needle slightly towards the path instead of the beeline.
func (c *Compass) SetNextStep(step geo.Coordinate) {
	c.nextStep = step
	c.hasNextStep = true
}

// ClearNextStep removes the next route step.
func (c *Compass) ClearNextStep() {
	c.hasNextStep = false
}

// UpdateLocation records the latest location fix.
func (c *Compass) UpdateLocation(loc geo.Coordinate) {
	c.location = loc
}

// UpdateHeading records the latest device heading in radians and returns the
// recomputed display bearing, normalized to [0, 2π).
func (c *Compass) UpdateHeading(heading float64) float64 {
	c.heading = geo.NormalizeAngle(heading)
	return c.Bearing()
}

// Bearing returns the current display bearing. With a destination set, the
// needle points at a weighted blend of the beeline bearing and the bearing of
// the next route step, relative to the device heading.
func (c *Compass) Bearing() float64 {
	if !c.hasDest {
		return c.heading
	}

	destinationBearing := geo.Bearing(c.location, c.destination)
	if !c.hasNextStep {
		return geo.NormalizeAngle(destinationBearing - c.heading)
	}

	nextStepBearing := geo.Bearing(c.location, c.nextStep)

	// Reconcile the two angles across the 0/2π wraparound so that e.g. 1°
	// and 359° average to 0°, not 180°.
	if math.Abs(destinationBearing-nextStepBearing) > math.Pi {
		if destinationBearing < nextStepBearing {
			destinationBearing += 2 * math.Pi
		} else {
			nextStepBearing += 2 * math.Pi
		}
	}

	weighted := geo.NormalizeAngle(destinationWeight*destinationBearing + nextStepWeight*nextStepBearing)
	return geo.NormalizeAngle(weighted - c.heading)
}
