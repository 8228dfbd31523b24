// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package route

import (
	"context"
	"sync"

	"github.com/wneessen/seekr/internal/geo"
)

// Directions is the contract of an external routing service.
type Directions interface {
	Name() string
	Directions(ctx context.Context, from, to geo.Coordinate) (*Route, error)
}

// Manager holds the route of the active navigation session and refreshes it
// from a directions service. The previous route stays in place until a new
// one has been confirmed, so consumers never observe a gap. Completions of
// superseded requests are discarded (last-writer-wins), a failed refresh
// leaves the held route untouched.
type Manager struct {
	directions Directions

	mu         sync.Mutex
	current    *Route
	generation uint64
	inFlight   uint64
}

// NewManager returns a Manager using the given directions service.
func NewManager(directions Directions) *Manager {
	return &Manager{directions: directions}
}

// Recalculate requests a fresh route from the current live location to the
// destination and swaps it in on success. If a newer request was issued
// while this one was in flight, its result is dropped.
func (m *Manager) Recalculate(ctx context.Context, from, to geo.Coordinate) (*Route, error) {
	m.mu.Lock()
	m.inFlight++
	request := m.inFlight
	m.mu.Unlock()

	fresh, err := m.directions.Directions(ctx, from, to)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if request < m.inFlight {
		// A newer request has been issued since; keep whatever route it
		// will deliver and drop this one.
		return m.current, nil
	}
	m.current = fresh
	m.generation++
	return fresh, nil
}

// Current returns the held route, or nil if none has been calculated yet.
func (m *Manager) Current() *Route {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// NextStep returns the coordinate of the first upcoming maneuver of the held
// route.
func (m *Manager) NextStep() (geo.Coordinate, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current.NextStep()
}

// Generation returns how many route swaps have been applied. Useful to
// detect whether a recalculation actually took effect.
func (m *Manager) Generation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation
}

// Clear drops the held route when a session ends. In-flight recalculations
// issued before the clear are discarded on completion.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = nil
	m.inFlight++
}
