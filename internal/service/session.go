// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wneessen/seekr/internal/geo"
	"github.com/wneessen/seekr/internal/logger"
	"github.com/wneessen/seekr/internal/nav"
)

// FixTimeout is how long StartNavigation waits for a first position fix.
const FixTimeout = 2 * time.Minute

// StartRequest describes where a new navigation session should lead. Either
// Query is resolved through the geocoder, or Destination is used directly.
type StartRequest struct {
	Query       string
	Destination geo.Coordinate
	Name        string
}

// StartNavigation resolves the requested destination, waits for a position
// fix and starts a fresh session. Any previously active session is replaced.
func (s *Service) StartNavigation(ctx context.Context, req StartRequest) error {
	destination := req.Destination
	name := req.Name
	if req.Query != "" {
		places, err := s.geocoder.Search(ctx, req.Query)
		if err != nil {
			return fmt.Errorf("failed to resolve destination: %w", err)
		}
		if len(places) == 0 {
			return fmt.Errorf("no results for destination query %q", req.Query)
		}
		destination = places[0].Coordinate
		if name == "" {
			name = places[0].Name
		}
	}
	if !destination.Valid() {
		return fmt.Errorf("invalid destination coordinate: %+v", destination)
	}
	if name == "" {
		name = fmt.Sprintf("%.5f, %.5f", destination.Lat, destination.Lon)
	}

	origin, err := s.waitForFix(ctx)
	if err != nil {
		return err
	}

	session := nav.NewSession(origin, destination, name, nav.SessionConfig{
		DeviationThreshold: s.config.Guidance.DeviationThreshold,
		ResetThreshold:     s.config.Guidance.ResetThreshold,
		ArrivalRadius:      s.config.Guidance.ArrivalRadius,
	})

	s.sessionLock.Lock()
	s.session = session
	s.sessionLock.Unlock()

	s.stateLock.Lock()
	s.lastVerdict = nav.Verdict{}
	s.compass.SetDestination(destination)
	s.compass.ClearNextStep()
	s.stateLock.Unlock()

	s.logger.Info("navigation started", slog.String("destination", name),
		slog.Float64("lat", destination.Lat), slog.Float64("lon", destination.Lon))
	s.dispatch(ctx, s.localizer.Get("Navigation started"),
		s.localizer.Getf("Navigating to %s", name))

	s.recalculateRoute(ctx)
	if !s.config.Weather.Disable {
		s.fetchDestinationWeather(ctx, destination)
	}
	return nil
}

// EndNavigation drops the active session and all derived state. Safe to call
// without an active session.
func (s *Service) EndNavigation(ctx context.Context) {
	s.sessionLock.Lock()
	active := s.session != nil
	s.session = nil
	s.sessionLock.Unlock()

	s.routes.Clear()

	s.stateLock.Lock()
	s.compass.ClearDestination()
	s.compass.ClearNextStep()
	s.lastVerdict = nav.Verdict{}
	s.weatherText = ""
	s.stateLock.Unlock()

	if active {
		s.logger.Info("navigation ended")
		s.dispatch(ctx, s.localizer.Get("Navigation ended"), "")
	}
}

// waitForFix blocks until the bus delivers a location sample. The
// subscription replays the last known location, so an already running stream
// returns immediately.
func (s *Service) waitForFix(ctx context.Context) (geo.Coordinate, error) {
	sub, unsub := s.bus.Subscribe(1)
	defer unsub()

	timer := time.NewTimer(FixTimeout)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return geo.Coordinate{}, ctx.Err()
		case <-timer.C:
			return geo.Coordinate{}, fmt.Errorf("no position fix after %s", FixTimeout)
		case u, ok := <-sub:
			if !ok {
				return geo.Coordinate{}, fmt.Errorf("positioning stream closed")
			}
			if u.Location != nil {
				return u.Location.Coordinate, nil
			}
		}
	}
}

// fetchDestinationWeather fetches the current conditions at the destination
// once per session, for display in the tooltip.
func (s *Service) fetchDestinationWeather(ctx context.Context, dest geo.Coordinate) {
	ctxFetch, cancelFetch := context.WithTimeout(ctx, 10*time.Second)
	defer cancelFetch()

	loc, err := omgoLocation(dest)
	if err != nil {
		s.logger.Error("failed to create weather location", logger.Err(err))
		return
	}
	current, err := s.omclient.CurrentWeather(ctxFetch, loc, nil)
	if err != nil {
		s.logger.Error("failed to fetch destination weather", logger.Err(err))
		return
	}

	text := fmt.Sprintf("%.0f°C", current.Temperature)
	if cond, ok := wmoConditions[int(current.WeatherCode)]; ok {
		text = cond + ", " + text
	}

	s.stateLock.Lock()
	s.weatherText = text
	s.stateLock.Unlock()
}
