// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package nav implements the live guidance core: the wrong-direction
// detector, compass bearing computation, progress tracking and landmark
// proximity monitoring. The package performs no I/O; callers feed it
// positioning samples and consume the returned state.
package nav

import (
	"github.com/wneessen/seekr/internal/geo"
	"github.com/wneessen/seekr/internal/navbus"
)

const (
	// DefaultDeviationThreshold is the accumulated off-course distance in
	// meters after which the detector signals a wrong direction.
	DefaultDeviationThreshold = 50.0
	// DefaultResetThreshold is the number of consecutive on-course samples
	// needed to reset the deviation accumulator.
	DefaultResetThreshold = 3
)

// Verdict is the outcome of a single detector update.
type Verdict struct {
	// Deviating is set while the accumulated deviation has reached the
	// threshold. Alert rate-limiting is the caller's concern, see Gate.
	Deviating bool
	// Corrected is set on the sample that completed a run of consecutive
	// on-course samples and reset the accumulator.
	Corrected bool
	// Distance is the current distance to the destination in meters.
	Distance float64
}

// Detector decides from a stream of location samples whether the user is
// persistently moving away from the destination. Single-sample distance
// increases are GPS jitter; the detector requires an accumulated deviation
// past a threshold before signaling and several consecutive corrective
// samples before resetting, which gives the signal hysteresis.
//
// Detector is not safe for concurrent use. Samples must be applied in
// arrival order.
type Detector struct {
	deviationThreshold float64
	resetThreshold     int

	cumulativeDeviation float64
	previousDistance    float64
	havePrevious        bool
	consecutiveCorrect  int
}

// NewDetector returns a Detector with the given thresholds. Non-positive
// values fall back to the defaults.
func NewDetector(deviationThreshold float64, resetThreshold int) *Detector {
	if deviationThreshold <= 0 {
		deviationThreshold = DefaultDeviationThreshold
	}
	if resetThreshold < 1 {
		resetThreshold = DefaultResetThreshold
	}
	return &Detector{
		deviationThreshold: deviationThreshold,
		resetThreshold:     resetThreshold,
	}
}

// Update applies one location sample against the destination and returns the
// verdict for this step. The first sample of a session only seeds the
// distance baseline.
func (d *Detector) Update(sample navbus.LocationSample, destination geo.Coordinate) Verdict {
	currentDistance := geo.Distance(sample.Coordinate, destination)

	if !d.havePrevious {
		d.previousDistance = currentDistance
		d.havePrevious = true
		return Verdict{Distance: currentDistance}
	}

	verdict := Verdict{Distance: currentDistance}
	delta := currentDistance - d.previousDistance

	if sample.Moving() && delta > 0 {
		d.cumulativeDeviation += delta
		d.consecutiveCorrect = 0
		if d.cumulativeDeviation >= d.deviationThreshold {
			verdict.Deviating = true
		}
	} else {
		d.consecutiveCorrect++
		if d.consecutiveCorrect >= d.resetThreshold {
			d.cumulativeDeviation = 0
			d.consecutiveCorrect = 0
			verdict.Corrected = true
		}
	}

	d.previousDistance = currentDistance
	return verdict
}

// Deviation returns the currently accumulated off-course distance in meters.
func (d *Detector) Deviation() float64 {
	return d.cumulativeDeviation
}

// Reset clears all mutable detector state. Called when a session starts, the
// destination changes or the route is cancelled.
func (d *Detector) Reset() {
	d.cumulativeDeviation = 0
	d.previousDistance = 0
	d.havePrevious = false
	d.consecutiveCorrect = 0
}

// Gate rate-limits wrong-direction alerts to one per deviation episode. The
// detector itself stays a pure function of its own state; the gate is owned
// by whoever dispatches alerts.
type Gate struct {
	open bool
}

// NewGate returns an open Gate.
func NewGate() *Gate {
	return &Gate{open: true}
}

// TryClose closes the gate and reports whether it was open. A true return
// means the caller owns this alert and should dispatch it.
func (g *Gate) TryClose() bool {
	if !g.open {
		return false
	}
	g.open = false
	return true
}

// Reopen re-arms the gate for the next deviation episode.
func (g *Gate) Reopen() {
	g.open = true
}

// IsOpen reports whether an alert may currently be dispatched.
func (g *Gate) IsOpen() bool {
	return g.open
}
