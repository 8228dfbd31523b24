// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package nav

// DefaultArrivalRadius is the distance to the destination in meters at which
// the user counts as arrived.
const DefaultArrivalRadius = 45.0

// totalEpsilon guards the progress fraction against a destination set at the
// current location. A total distance at or below this is immediate arrival.
const totalEpsilon = 1e-9

// ProgressTracker converts the remaining distance to the destination into a
// completion fraction and detects arrival. Arrival is reported exactly once.
//
// ProgressTracker is not safe for concurrent use.
type ProgressTracker struct {
	arrivalRadius float64
	total         float64
	fraction      float64
	arrived       bool
	announced     bool
}

// NewProgressTracker returns a tracker for a route of the given total
// distance in meters. A non-positive arrival radius falls back to the
// default. A total distance of (near) zero means the destination is already
// reached.
func NewProgressTracker(total, arrivalRadius float64) *ProgressTracker {
	if arrivalRadius <= 0 {
		arrivalRadius = DefaultArrivalRadius
	}
	t := &ProgressTracker{
		arrivalRadius: arrivalRadius,
		total:         total,
	}
	if total <= totalEpsilon {
		t.fraction = 1
		t.arrived = true
	}
	return t
}

// Update applies the latest remaining distance in meters and returns the
// clamped completion fraction together with a flag that is true exactly once,
// on the update that detected arrival.
func (t *ProgressTracker) Update(remaining float64) (float64, bool) {
	if t.arrived {
		return t.fraction, t.announceOnce()
	}

	switch {
	case remaining <= 0:
		t.fraction = 1
	default:
		fraction := (t.total - remaining) / t.total
		if fraction < 0 {
			fraction = 0
		}
		if fraction > 1 {
			fraction = 1
		}
		t.fraction = fraction
	}

	if remaining < t.arrivalRadius {
		t.arrived = true
		t.fraction = 1
		return t.fraction, t.announceOnce()
	}

	return t.fraction, false
}

// Fraction returns the last computed completion fraction.
func (t *ProgressTracker) Fraction() float64 {
	return t.fraction
}

// Arrived reports whether the destination has been reached.
func (t *ProgressTracker) Arrived() bool {
	return t.arrived
}

func (t *ProgressTracker) announceOnce() bool {
	if t.announced {
		return false
	}
	t.announced = true
	return true
}
