// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package service wires the positioning bus, the guidance components, the
// route manager and the output rendering together and owns the lifecycle of
// a navigation session.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/hectormalot/omgo"
	"github.com/vorlif/spreak"

	"github.com/wneessen/seekr/internal/config"
	"github.com/wneessen/seekr/internal/geo"
	"github.com/wneessen/seekr/internal/geocode"
	"github.com/wneessen/seekr/internal/http"
	"github.com/wneessen/seekr/internal/logger"
	"github.com/wneessen/seekr/internal/nav"
	"github.com/wneessen/seekr/internal/navbus"
	"github.com/wneessen/seekr/internal/notify"
	"github.com/wneessen/seekr/internal/presenter"
	"github.com/wneessen/seekr/internal/route"
)

const (
	// DesktopID identifies this process on the positioning bus.
	DesktopID = "seekr"

	cacheHitTTL  = 24 * time.Hour
	cacheMissTTL = 10 * time.Minute
)

type outputData struct {
	Text    string `json:"text"`
	Tooltip string `json:"tooltip"`
	Class   string `json:"class"`
}

type Service struct {
	config       *config.Config
	logger       *logger.Logger
	localizer    *spreak.Localizer
	bus          *navbus.Bus
	orchestrator *navbus.Orchestrator
	scheduler    gocron.Scheduler
	routes       *route.Manager
	geocoder     geocode.Geocoder
	notifier     notify.Notifier
	presenter    *presenter.Presenter
	omclient     omgo.Client
	output       io.Writer

	sessionLock sync.RWMutex
	session     *nav.Session

	stateLock   sync.RWMutex
	compass     *nav.Compass
	landmarks   *nav.LandmarkMonitor
	lastSample  *navbus.LocationSample
	lastVerdict nav.Verdict
	weatherText string
}

func New(conf *config.Config, log *logger.Logger, localizer *spreak.Localizer) (*Service, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	omclient, err := omgo.NewClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create Open-Meteo client: %w", err)
	}

	pres, err := presenter.New(conf, localizer)
	if err != nil {
		return nil, fmt.Errorf("failed to create presenter: %w", err)
	}

	httpClient := http.New(log)
	var notifier notify.Notifier = notify.NewDBusNotifier(log)
	if conf.Notifications.Disable {
		notifier = notify.NopNotifier{}
	}

	service := &Service{
		config:    conf,
		logger:    log,
		localizer: localizer,
		bus:       navbus.New(),
		scheduler: scheduler,
		routes:    route.NewManager(route.NewOSRM(httpClient, conf.Routing.BaseURL, conf.Routing.Profile)),
		geocoder:  geocode.NewCachedGeocoder(geocode.NewNominatim(httpClient, conf.Locale), cacheHitTTL, cacheMissTTL),
		notifier:  notifier,
		presenter: pres,
		omclient:  omclient,
		output:    os.Stdout,
		compass:   nav.NewCompass(),
		landmarks: nav.NewLandmarkMonitor(nil),
	}

	if landmarks, err := nav.LoadLandmarks(conf.Landmarks.File); err != nil {
		log.Debug("no landmark catalog loaded", logger.Err(err))
	} else {
		service.landmarks = nav.NewLandmarkMonitor(landmarks)
	}

	return service, nil
}

func (s *Service) Run(ctx context.Context) error {
	if err := s.createScheduledJob(ctx, s.config.Intervals.Output, s.printGuidance,
		"guidance_output_job"); err != nil {
		return err
	}
	if err := s.createScheduledJob(ctx, s.config.Intervals.Recalculation, s.recalculateRoute,
		"route_recalculation_job"); err != nil {
		return err
	}
	s.scheduler.Start()

	providers, err := s.selectProviders()
	if err != nil {
		return err
	}
	s.orchestrator = s.bus.NewOrchestrator(providers)

	sub, unsub := s.bus.Subscribe(32)
	go s.processUpdates(ctx, sub)
	go s.orchestrator.Track(ctx)
	go s.monitorSleepResume(ctx)

	<-ctx.Done()
	if unsub != nil {
		unsub()
	}
	return s.scheduler.Shutdown()
}

func (s *Service) createScheduledJob(ctx context.Context, interval time.Duration, task func(context.Context),
	jobName string,
) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithContext(ctx),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName(jobName),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", jobName, err)
	}
	return nil
}

// processUpdates consumes the bus subscription and fans each sample out to
// the guidance components in a fixed order: progress, then the
// wrong-direction detector, then landmarks, then the compass.
func (s *Service) processUpdates(ctx context.Context, sub <-chan navbus.Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-sub:
			if !ok {
				return
			}
			if u.Location != nil {
				s.logger.Debug("received location update",
					slog.Float64("lat", u.Location.Coordinate.Lat),
					slog.Float64("lon", u.Location.Coordinate.Lon),
					slog.String("source", u.Location.Source))
				s.applyLocation(ctx, *u.Location)
			}
			if u.Heading != nil {
				s.applyHeading(u.Heading.Radians)
			}
		}
	}
}

// applyLocation runs one location sample through the guidance pipeline and
// dispatches any alerts it produced.
func (s *Service) applyLocation(ctx context.Context, sample navbus.LocationSample) {
	s.sessionLock.RLock()
	session := s.session
	s.sessionLock.RUnlock()

	var (
		verdict nav.Verdict
		arrived bool
		entered []nav.Landmark
	)

	s.stateLock.Lock()
	s.lastSample = &sample
	if session != nil {
		remaining := geo.Distance(sample.Coordinate, session.Destination)
		_, arrived = session.Progress.Update(remaining)
		verdict = session.Detector.Update(sample, session.Destination)
		s.lastVerdict = verdict
	}
	entered = s.landmarks.Update(sample)
	s.compass.UpdateLocation(sample.Coordinate)
	s.stateLock.Unlock()

	for _, lm := range entered {
		s.dispatch(ctx, s.localizer.Get("Landmark nearby"), lm.Name+"\n"+lm.Description)
	}

	if session == nil {
		return
	}
	if verdict.Deviating && session.Gate.TryClose() {
		s.dispatch(ctx, s.localizer.Get("Wrong direction"),
			s.localizer.Get("You are moving away from your destination. Turn around."))
	}
	if verdict.Corrected && !session.Gate.IsOpen() {
		session.Gate.Reopen()
		s.dispatch(ctx, s.localizer.Get("Back on track"),
			s.localizer.Get("You are heading towards your destination again."))
	}
	if arrived {
		s.dispatch(ctx, s.localizer.Get("You have arrived"),
			s.localizer.Get("You reached your destination."))
		s.EndNavigation(ctx)
	}
}

func (s *Service) applyHeading(heading float64) {
	s.stateLock.Lock()
	s.compass.UpdateHeading(heading)
	s.stateLock.Unlock()
}

// recalculateRoute refreshes the held route from the current position and
// feeds the next maneuver point to the compass. A no-op without an active
// session or position fix.
func (s *Service) recalculateRoute(ctx context.Context) {
	s.sessionLock.RLock()
	session := s.session
	s.sessionLock.RUnlock()
	if session == nil {
		return
	}

	s.stateLock.RLock()
	sample := s.lastSample
	s.stateLock.RUnlock()
	if sample == nil {
		return
	}

	if _, err := s.routes.Recalculate(ctx, sample.Coordinate, session.Destination); err != nil {
		s.logger.Error("failed to recalculate route", logger.Err(err))
		return
	}

	s.stateLock.Lock()
	if step, ok := s.routes.NextStep(); ok {
		s.compass.SetNextStep(step)
	} else {
		s.compass.ClearNextStep()
	}
	s.stateLock.Unlock()
}

// printGuidance renders the current navigation state as a single JSON line.
func (s *Service) printGuidance(context.Context) {
	snap, ok := s.buildSnapshot()
	if !ok {
		return
	}

	tplCtx := s.presenter.BuildContext(snap)
	rendered, err := s.presenter.Render(tplCtx)
	if err != nil {
		s.logger.Error("failed to render guidance output", logger.Err(err))
		return
	}

	out := outputData{
		Text:    rendered["text"],
		Tooltip: rendered["tooltip"],
		Class:   tplCtx.Class,
	}
	if err = json.NewEncoder(s.output).Encode(out); err != nil {
		s.logger.Error("failed to encode guidance output", logger.Err(err))
	}
}

func (s *Service) buildSnapshot() (presenter.Snapshot, bool) {
	s.sessionLock.RLock()
	session := s.session
	s.sessionLock.RUnlock()

	s.stateLock.RLock()
	defer s.stateLock.RUnlock()
	if session == nil || s.lastSample == nil {
		return presenter.Snapshot{}, false
	}

	var found []string
	for _, lm := range s.landmarks.Landmarks() {
		if lm.Found() {
			found = append(found, lm.Name)
		}
	}

	return presenter.Snapshot{
		DestinationName: session.DestinationName,
		Destination:     session.Destination,
		Position:        s.lastSample.Coordinate,
		RelativeBearing: s.compass.Bearing(),
		Progress:        session.Progress.Fraction(),
		Remaining:       geo.Distance(s.lastSample.Coordinate, session.Destination),
		Speed:           s.lastSample.Speed,
		Deviating:       s.lastVerdict.Deviating,
		Arrived:         session.Progress.Arrived(),
		WeatherText:     s.weatherText,
		Landmarks:       found,
		Now:             time.Now(),
	}, true
}

func (s *Service) dispatch(ctx context.Context, summary, body string) {
	if err := s.notifier.Dispatch(ctx, summary, body); err != nil {
		s.logger.Error("failed to dispatch notification", logger.Err(err))
	}
}
