// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package nav

import (
	"time"

	"github.com/wneessen/seekr/internal/geo"
)

// Session is the aggregate state of one active navigation: the destination,
// the beeline distance at start, the wrong-direction detector and the
// progress tracker. Only one session is active at a time; a new session gets
// fresh detector and tracker state.
type Session struct {
	Destination     geo.Coordinate
	DestinationName string
	StartedAt       time.Time

	Detector *Detector
	Progress *ProgressTracker
	Gate     *Gate
}

// SessionConfig carries the tunable guidance constants for a new session.
type SessionConfig struct {
	DeviationThreshold float64
	ResetThreshold     int
	ArrivalRadius      float64
}

// NewSession starts a session towards the given destination. The origin is
// used to fix the total distance the progress fraction is computed against.
func NewSession(origin, destination geo.Coordinate, name string, conf SessionConfig) *Session {
	return &Session{
		Destination:     destination,
		DestinationName: name,
		StartedAt:       time.Now(),
		Detector:        NewDetector(conf.DeviationThreshold, conf.ResetThreshold),
		Progress:        NewProgressTracker(geo.Distance(origin, destination), conf.ArrivalRadius),
		Gate:            NewGate(),
	}
}
