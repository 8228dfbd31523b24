// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package navbus

import (
	"time"

	"github.com/wneessen/seekr/internal/geo"
)

// LocationSample is a single positioning fix. Samples are immutable once
// published.
type LocationSample struct {
	Coordinate geo.Coordinate
	// Speed over ground in meters per second. Negative means unknown.
	Speed  float64
	Source string
	At     time.Time
}

// HeadingSample is a single device heading reading in radians, normalized
// to [0, 2π).
type HeadingSample struct {
	Radians float64
	Source  string
	At      time.Time
}

// Moving reports whether the sample indicates actual movement. Unknown speed
// does not count as movement.
func (s LocationSample) Moving() bool {
	return s.Speed > 0
}

// Update is a union of the two sample kinds carried by the bus. Exactly one
// of the two fields is non-nil.
type Update struct {
	Location *LocationSample
	Heading  *HeadingSample
}
