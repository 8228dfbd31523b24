// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package nav

import (
	"math"
	"testing"

	"github.com/wneessen/seekr/internal/geo"
)

func TestCompass_Bearing(t *testing.T) {
	t.Run("without destination the needle mirrors the heading", func(t *testing.T) {
		c := NewCompass()
		c.UpdateLocation(geo.Coordinate{Lat: 10, Lon: 10})
		got := c.UpdateHeading(1.25)
		if math.Abs(got-1.25) > 1e-9 {
			t.Errorf("expected raw heading 1.25, got %f", got)
		}
	})
	t.Run("destination due north with northward heading is straight ahead", func(t *testing.T) {
		c := NewCompass()
		c.UpdateLocation(geo.Coordinate{Lat: 0, Lon: 0})
		c.SetDestination(geo.Coordinate{Lat: 1, Lon: 0})
		got := c.UpdateHeading(0)
		if math.Abs(got) > 1e-9 {
			t.Errorf("expected bearing 0, got %f", got)
		}
	})
	t.Run("heading is subtracted from the destination bearing", func(t *testing.T) {
		c := NewCompass()
		c.UpdateLocation(geo.Coordinate{Lat: 0, Lon: 0})
		c.SetDestination(geo.Coordinate{Lat: 1, Lon: 0})
		// Facing east while the destination is north: the needle points
		// a quarter turn to the left.
		got := c.UpdateHeading(math.Pi / 2)
		if math.Abs(got-3*math.Pi/2) > 1e-9 {
			t.Errorf("expected bearing 3π/2, got %f", got)
		}
	})
	t.Run("next step pulls the needle towards the path", func(t *testing.T) {
		c := NewCompass()
		c.UpdateLocation(geo.Coordinate{Lat: 0, Lon: 0})
		// Destination due east, next step due north.
		c.SetDestination(geo.Coordinate{Lat: 0, Lon: 1})
		c.SetNextStep(geo.Coordinate{Lat: 1, Lon: 0})
		got := c.UpdateHeading(0)
		want := 0.8 * (math.Pi / 2)
		if math.Abs(got-want) > 1e-6 {
			t.Errorf("expected weighted bearing %f, got %f", want, got)
		}
	})
	t.Run("angles close to north average across the wraparound", func(t *testing.T) {
		c := NewCompass()
		c.UpdateLocation(geo.Coordinate{Lat: 0, Lon: 0})
		// Destination slightly west of north, next step slightly east of
		// north. A naive average would point south.
		c.SetDestination(geo.Coordinate{Lat: 0.0100, Lon: -0.0018})
		c.SetNextStep(geo.Coordinate{Lat: 0.0100, Lon: 0.0018})
		got := c.UpdateHeading(0)
		if got > 0.5 && got < 2*math.Pi-0.5 {
			t.Errorf("expected a bearing near north, got %f", got)
		}
	})
	t.Run("clearing the next step falls back to the beeline", func(t *testing.T) {
		c := NewCompass()
		c.UpdateLocation(geo.Coordinate{Lat: 0, Lon: 0})
		c.SetDestination(geo.Coordinate{Lat: 0, Lon: 1})
		c.SetNextStep(geo.Coordinate{Lat: 1, Lon: 0})
		c.ClearNextStep()
		got := c.UpdateHeading(0)
		if math.Abs(got-math.Pi/2) > 1e-9 {
			t.Errorf("expected beeline bearing π/2, got %f", got)
		}
	})
	t.Run("clearing the destination returns to raw heading", func(t *testing.T) {
		c := NewCompass()
		c.UpdateLocation(geo.Coordinate{Lat: 0, Lon: 0})
		c.SetDestination(geo.Coordinate{Lat: 1, Lon: 0})
		c.ClearDestination()
		got := c.UpdateHeading(2.5)
		if math.Abs(got-2.5) > 1e-9 {
			t.Errorf("expected raw heading 2.5, got %f", got)
		}
	})
	t.Run("result is always normalized", func(t *testing.T) {
		c := NewCompass()
		c.UpdateLocation(geo.Coordinate{Lat: 0, Lon: 0})
		c.SetDestination(geo.Coordinate{Lat: -1, Lon: -1})
		for _, heading := range []float64{0, 1, 3, 6, 9, -2} {
			got := c.UpdateHeading(heading)
			if got < 0 || got >= 2*math.Pi {
				t.Errorf("expected normalized bearing for heading %f, got %f", heading, got)
			}
		}
	})
}
