// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package navbus

import (
	"testing"
	"time"

	"github.com/wneessen/seekr/internal/geo"
)

func TestBus_Subscribe(t *testing.T) {
	t.Run("subscriber receives published samples in order", func(t *testing.T) {
		bus := New()
		sub, unsub := bus.Subscribe(8)
		defer unsub()

		for i := 0; i < 3; i++ {
			bus.PublishLocation(LocationSample{
				Coordinate: geo.Coordinate{Lat: float64(i + 1), Lon: 1},
				Speed:      1,
			})
		}

		for i := 0; i < 3; i++ {
			select {
			case u := <-sub:
				if u.Location == nil {
					t.Fatal("expected a location update")
				}
				if u.Location.Coordinate.Lat != float64(i+1) {
					t.Errorf("expected sample %d to have latitude %d, got %f", i, i+1,
						u.Location.Coordinate.Lat)
				}
			case <-time.After(time.Second):
				t.Fatal("timed out waiting for sample")
			}
		}
	})
	t.Run("late subscriber receives last known location", func(t *testing.T) {
		bus := New()
		bus.PublishLocation(LocationSample{Coordinate: geo.Coordinate{Lat: 2, Lon: 3}, Speed: 1})

		sub, unsub := bus.Subscribe(1)
		defer unsub()
		select {
		case u := <-sub:
			if u.Location == nil || u.Location.Coordinate.Lat != 2 {
				t.Error("expected replay of the last known location")
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for replayed sample")
		}
	})
	t.Run("unsubscribed channel receives no further samples", func(t *testing.T) {
		bus := New()
		sub, unsub := bus.Subscribe(1)
		unsub()
		bus.PublishLocation(LocationSample{Coordinate: geo.Coordinate{Lat: 1, Lon: 1}})
		if _, ok := <-sub; ok {
			t.Error("expected subscription channel to be closed")
		}
	})
	t.Run("full subscriber buffer drops instead of blocking", func(t *testing.T) {
		bus := New()
		_, unsub := bus.Subscribe(1)
		defer unsub()

		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := 0; i < 10; i++ {
				bus.PublishLocation(LocationSample{Coordinate: geo.Coordinate{Lat: 1, Lon: 1}})
			}
		}()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("publishing blocked on a full subscriber")
		}
	})
}

func TestBus_Publish(t *testing.T) {
	t.Run("invalid coordinates are discarded", func(t *testing.T) {
		bus := New()
		bus.PublishLocation(LocationSample{Coordinate: geo.Coordinate{Lat: 91, Lon: 0}})
		if _, ok := bus.LastLocation(); ok {
			t.Error("expected invalid sample to be discarded")
		}
	})
	t.Run("missing timestamp is filled in", func(t *testing.T) {
		bus := New()
		bus.PublishLocation(LocationSample{Coordinate: geo.Coordinate{Lat: 1, Lon: 1}})
		last, ok := bus.LastLocation()
		if !ok {
			t.Fatal("expected a last known location")
		}
		if last.At.IsZero() {
			t.Error("expected the publish timestamp to be set")
		}
	})
	t.Run("heading samples update last heading", func(t *testing.T) {
		bus := New()
		bus.PublishHeading(HeadingSample{Radians: 1.5})
		last, ok := bus.LastHeading()
		if !ok {
			t.Fatal("expected a last known heading")
		}
		if last.Radians != 1.5 {
			t.Errorf("expected heading 1.5, got %f", last.Radians)
		}
	})
}

func TestLocationSample_Moving(t *testing.T) {
	tests := []struct {
		name   string
		speed  float64
		moving bool
	}{
		{"positive speed", 1.4, true},
		{"zero speed", 0, false},
		{"unknown speed", -1, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := LocationSample{Speed: tc.speed}
			if s.Moving() != tc.moving {
				t.Errorf("expected Moving() to be %t for speed %f", tc.moving, tc.speed)
			}
		})
	}
}
