// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/wneessen/seekr/internal/config"
	"github.com/wneessen/seekr/internal/geo"
	"github.com/wneessen/seekr/internal/geocode"
	"github.com/wneessen/seekr/internal/i18n"
	"github.com/wneessen/seekr/internal/logger"
	"github.com/wneessen/seekr/internal/nav"
	"github.com/wneessen/seekr/internal/navbus"
	"github.com/wneessen/seekr/internal/route"
)

// latStep20m is the latitude delta of roughly twenty meters.
const latStep20m = 20.0 / 111194.9

var testDestination = geo.Coordinate{Lat: 0, Lon: 0}

func TestNew(t *testing.T) {
	t.Run("new service succeeds", func(t *testing.T) {
		serv, err := testService(t)
		if err != nil {
			t.Fatalf("failed to create service: %s", err)
		}
		if serv == nil {
			t.Fatal("expected service to be non-nil")
		}
	})
	t.Run("invalid template configuration should fail", func(t *testing.T) {
		t.Setenv("SEEKR_TEMPLATES_TEXT", "{{")
		_, err := testService(t)
		if err == nil {
			t.Fatal("expected service creation to fail")
		}
		wantErr := "failed to parse"
		if !strings.Contains(err.Error(), wantErr) {
			t.Errorf("expected error to contain %q, got %q", wantErr, err)
		}
	})
}

func TestService_selectProviders(t *testing.T) {
	tests := []struct {
		name       string
		confFn     func(*config.Config)
		wantCount  int
		shouldFail bool
	}{
		{
			name:      "gpsd only",
			confFn:    func(c *config.Config) {},
			wantCount: 1,
		},
		{
			name: "gpsd and track file",
			confFn: func(c *config.Config) {
				c.Stream.TrackFile = "/tmp/track.jsonl"
			},
			wantCount: 2,
		},
		{
			name: "track file only",
			confFn: func(c *config.Config) {
				c.Stream.DisableGPSD = true
				c.Stream.TrackFile = "/tmp/track.jsonl"
			},
			wantCount: 1,
		},
		{
			name: "no provider fails",
			confFn: func(c *config.Config) {
				c.Stream.DisableGPSD = true
			},
			shouldFail: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			serv, err := testService(t)
			if err != nil {
				t.Fatalf("failed to create service: %s", err)
			}
			tc.confFn(serv.config)

			providers, err := serv.selectProviders()
			if tc.shouldFail {
				if err == nil {
					t.Fatal("expected provider selection to fail")
				}
				return
			}
			if err != nil {
				t.Fatalf("failed to select providers: %s", err)
			}
			if len(providers) != tc.wantCount {
				t.Errorf("expected %d providers, got %d", tc.wantCount, len(providers))
			}
		})
	}
}

func TestService_applyLocation(t *testing.T) {
	t.Run("persistent deviation alerts exactly once", func(t *testing.T) {
		serv, notifier := testGuidanceService(t)
		for i := range 4 {
			serv.applyLocation(t.Context(), walkingSampleAt(float64(100+i)*latStep20m))
		}
		if got := notifier.count("Wrong direction"); got != 1 {
			t.Errorf("expected exactly one wrong-direction alert, got %d", got)
		}
	})
	t.Run("correction reopens the alert gate", func(t *testing.T) {
		serv, notifier := testGuidanceService(t)
		for i := range 4 {
			serv.applyLocation(t.Context(), walkingSampleAt(float64(100+i)*latStep20m))
		}
		for i := range 3 {
			serv.applyLocation(t.Context(), walkingSampleAt(float64(103-1-i)*latStep20m))
		}
		if got := notifier.count("Back on track"); got != 1 {
			t.Errorf("expected one back-on-track notification, got %d", got)
		}
		if !serv.session.Gate.IsOpen() {
			t.Error("expected alert gate to be open again")
		}
		for i := range 4 {
			serv.applyLocation(t.Context(), walkingSampleAt(float64(101+i)*latStep20m))
		}
		if got := notifier.count("Wrong direction"); got != 2 {
			t.Errorf("expected a second wrong-direction alert, got %d", got)
		}
	})
	t.Run("reaching the destination ends the session", func(t *testing.T) {
		serv, notifier := testGuidanceService(t)
		serv.applyLocation(t.Context(), walkingSampleAt(latStep20m))
		if got := notifier.count("You have arrived"); got != 1 {
			t.Errorf("expected one arrival notification, got %d", got)
		}
		serv.sessionLock.RLock()
		defer serv.sessionLock.RUnlock()
		if serv.session != nil {
			t.Error("expected session to be ended after arrival")
		}
	})
	t.Run("samples without a session update the compass only", func(t *testing.T) {
		serv, notifier := testGuidanceService(t)
		serv.EndNavigation(t.Context())
		notifier.reset()
		serv.applyLocation(t.Context(), walkingSampleAt(100*latStep20m))
		if got := notifier.total(); got != 0 {
			t.Errorf("expected no notifications without a session, got %d", got)
		}
	})
}

func TestService_printGuidance(t *testing.T) {
	t.Run("print guidance to a buffer", func(t *testing.T) {
		t.Setenv("SEEKR_TEMPLATES_TEXT", "text")
		t.Setenv("SEEKR_TEMPLATES_TOOLTIP", "tooltip")

		serv, _ := testGuidanceService(t)
		buf := bytes.NewBuffer(nil)
		serv.output = buf
		serv.applyLocation(t.Context(), walkingSampleAt(100*latStep20m))

		serv.printGuidance(t.Context())

		var output outputData
		if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
			t.Fatalf("failed to unmarshal JSON: %s", err)
		}
		if output.Text != "text" {
			t.Errorf("expected Text to be %q, got %q", "text", output.Text)
		}
		if output.Tooltip != "tooltip" {
			t.Errorf("expected Tooltip to be %q, got %q", "tooltip", output.Tooltip)
		}
		if output.Class != "navigating" {
			t.Errorf("expected Class to be %q, got %q", "navigating", output.Class)
		}
	})
	t.Run("print guidance returns without an active session", func(t *testing.T) {
		serv, err := testService(t)
		if err != nil {
			t.Fatalf("failed to create service: %s", err)
		}
		buf := bytes.NewBuffer(nil)
		serv.output = buf
		serv.printGuidance(t.Context())
		if buf.Len() != 0 {
			t.Errorf("expected output buffer to be empty, got %q", buf.String())
		}
	})
}

func TestService_StartNavigation(t *testing.T) {
	t.Run("starting navigation with a geocoder query", func(t *testing.T) {
		serv, notifier := testGuidanceService(t)
		serv.EndNavigation(t.Context())
		notifier.reset()
		serv.geocoder = &mockGeocoder{}
		serv.bus.PublishLocation(navbus.LocationSample{
			Coordinate: geo.Coordinate{Lat: 100 * latStep20m, Lon: 0},
		})

		err := serv.StartNavigation(t.Context(), StartRequest{Query: "test square"})
		if err != nil {
			t.Fatalf("failed to start navigation: %s", err)
		}
		serv.sessionLock.RLock()
		defer serv.sessionLock.RUnlock()
		if serv.session == nil {
			t.Fatal("expected session to be active")
		}
		if serv.session.DestinationName != "Test Square" {
			t.Errorf("expected destination name to be %q, got %q", "Test Square",
				serv.session.DestinationName)
		}
		if got := notifier.count("Navigation started"); got != 1 {
			t.Errorf("expected one start notification, got %d", got)
		}
	})
	t.Run("failing geocoder fails the start", func(t *testing.T) {
		serv, _ := testGuidanceService(t)
		serv.geocoder = &mockGeocoder{shouldFail: true}
		err := serv.StartNavigation(t.Context(), StartRequest{Query: "test square"})
		if err == nil {
			t.Fatal("expected start to fail")
		}
		wantErr := "failed to resolve destination"
		if !strings.Contains(err.Error(), wantErr) {
			t.Errorf("expected error to contain %q, got %q", wantErr, err)
		}
	})
	t.Run("invalid raw destination fails the start", func(t *testing.T) {
		serv, _ := testGuidanceService(t)
		err := serv.StartNavigation(t.Context(), StartRequest{
			Destination: geo.Coordinate{Lat: 91, Lon: 0},
		})
		if err == nil {
			t.Fatal("expected start to fail")
		}
		wantErr := "invalid destination coordinate"
		if !strings.Contains(err.Error(), wantErr) {
			t.Errorf("expected error to contain %q, got %q", wantErr, err)
		}
	})
	t.Run("cancelled context aborts waiting for a fix", func(t *testing.T) {
		serv, _ := testGuidanceService(t)
		serv.EndNavigation(t.Context())
		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		err := serv.StartNavigation(ctx, StartRequest{Destination: testDestination})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context cancellation error, got %s", err)
		}
	})
}

func TestService_HandleCancelSignal(t *testing.T) {
	t.Run("USR1 signal ends the session", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		serv, notifier := testGuidanceService(t)
		sigChan := make(chan os.Signal, 1)
		go serv.HandleCancelSignal(ctx, sigChan)

		sigChan <- syscall.SIGUSR1
		time.Sleep(time.Millisecond * 100)
		serv.sessionLock.RLock()
		defer serv.sessionLock.RUnlock()
		if serv.session != nil {
			t.Error("expected session to be ended")
		}
		if got := notifier.count("Navigation ended"); got != 1 {
			t.Errorf("expected one end notification, got %d", got)
		}
	})
}

func TestService_recalculateRoute(t *testing.T) {
	t.Run("recalculation feeds the next step to the compass", func(t *testing.T) {
		serv, _ := testGuidanceService(t)
		serv.applyLocation(t.Context(), walkingSampleAt(100*latStep20m))
		serv.recalculateRoute(t.Context())

		if serv.routes.Current() == nil {
			t.Fatal("expected a route to be held")
		}
		if got := serv.routes.Generation(); got != 1 {
			t.Errorf("expected route generation to be 1, got %d", got)
		}
	})
	t.Run("recalculation is a no-op without a session", func(t *testing.T) {
		serv, _ := testGuidanceService(t)
		serv.EndNavigation(t.Context())
		serv.recalculateRoute(t.Context())
		if serv.routes.Current() != nil {
			t.Error("expected no route to be held")
		}
	})
	t.Run("failing directions keep the previous route", func(t *testing.T) {
		serv, _ := testGuidanceService(t)
		serv.applyLocation(t.Context(), walkingSampleAt(100*latStep20m))
		serv.recalculateRoute(t.Context())
		serv.routes = route.NewManager(&mockDirections{shouldFail: true})
		serv.recalculateRoute(t.Context())
		if got := serv.routes.Generation(); got != 0 {
			t.Errorf("expected fresh manager generation to stay 0, got %d", got)
		}
	})
}

// testService builds a service from default configuration with discarded
// log output.
func testService(_ *testing.T) (*Service, error) {
	conf, err := config.New()
	if err != nil {
		return nil, err
	}
	conf.Weather.Disable = true
	conf.Notifications.Disable = true

	log := logger.NewLogger(conf.LogLevel, io.Discard)
	lang, err := i18n.New("en")
	if err != nil {
		return nil, err
	}
	return New(conf, log, lang)
}

// testGuidanceService returns a service with an active session towards
// coordinate origin, a recording notifier and mocked directions.
func testGuidanceService(t *testing.T) (*Service, *mockNotifier) {
	t.Helper()
	serv, err := testService(t)
	if err != nil {
		t.Fatalf("failed to create service: %s", err)
	}
	notifier := &mockNotifier{}
	serv.notifier = notifier
	serv.routes = route.NewManager(&mockDirections{})

	origin := geo.Coordinate{Lat: 100 * latStep20m, Lon: 0}
	serv.session = nav.NewSession(origin, testDestination, "Test", nav.SessionConfig{
		DeviationThreshold: serv.config.Guidance.DeviationThreshold,
		ResetThreshold:     serv.config.Guidance.ResetThreshold,
		ArrivalRadius:      serv.config.Guidance.ArrivalRadius,
	})
	serv.compass.SetDestination(testDestination)
	serv.applyLocation(t.Context(), walkingSampleAt(100*latStep20m))
	notifier.reset()
	return serv, notifier
}

func walkingSampleAt(lat float64) navbus.LocationSample {
	return navbus.LocationSample{
		Coordinate: geo.Coordinate{Lat: lat, Lon: 0},
		Speed:      1.4,
		Source:     "test",
		At:         time.Now(),
	}
}

type (
	mockNotifier struct {
		mu        sync.Mutex
		summaries []string
	}
	mockDirections struct{ shouldFail bool }
)

func (m *mockNotifier) Dispatch(_ context.Context, summary, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summaries = append(m.summaries, summary)
	return nil
}

func (m *mockNotifier) count(summary string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.summaries {
		if s == summary {
			n++
		}
	}
	return n
}

func (m *mockNotifier) total() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.summaries)
}

func (m *mockNotifier) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summaries = nil
}

func (m *mockDirections) Name() string { return "mock directions" }

func (m *mockDirections) Directions(_ context.Context, from, to geo.Coordinate) (*route.Route, error) {
	if m.shouldFail {
		return nil, errors.New("intentionally failing")
	}
	mid := geo.Midpoint(from, to)
	return &route.Route{
		Geometry: []geo.Coordinate{from, mid, to},
		Steps: []route.Step{
			{Geometry: []geo.Coordinate{from, mid}, Name: "Test Street", Distance: geo.Distance(from, mid)},
			{Geometry: []geo.Coordinate{mid, to}, Name: "Test Square", Distance: geo.Distance(mid, to)},
		},
		Distance: geo.Distance(from, to),
	}, nil
}

type mockGeocoder struct{ shouldFail bool }

func (m *mockGeocoder) Name() string { return "mock geocoder" }

func (m *mockGeocoder) Search(context.Context, string) ([]geocode.Place, error) {
	if m.shouldFail {
		return nil, errors.New("intentionally failing")
	}
	return []geocode.Place{{
		Name:        "Test Square",
		DisplayName: "Test Square, Test City",
		Coordinate:  testDestination,
	}}, nil
}
