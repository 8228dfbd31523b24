// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package navbus distributes location and heading samples from one or more
// positioning providers to the guidance components. Consumers receive an
// explicit subscription handle instead of registering with a process-wide
// observer list.
package navbus

import (
	"context"
	"sync"
	"time"
)

const (
	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
)

// Provider defines an interface for positioning sample sources.
type Provider interface {
	Name() string
	WatchStream(ctx context.Context) <-chan Update
}

// Bus fans incoming samples out to all subscribers. Publish order is
// preserved per subscriber; slow subscribers drop samples rather than block
// the stream.
type Bus struct {
	mu           sync.RWMutex
	subscribers  map[chan Update]struct{}
	lastLocation *LocationSample
	lastHeading  *HeadingSample
}

// New returns an empty Bus.
func New() *Bus {
	return &Bus{
		subscribers: make(map[chan Update]struct{}),
	}
}

// NewOrchestrator returns an Orchestrator feeding this bus from the given
// providers.
func (b *Bus) NewOrchestrator(provider []Provider) *Orchestrator {
	return &Orchestrator{
		Bus:       b,
		Providers: provider,
	}
}

// Subscribe registers a new subscriber with the given channel buffer size and
// returns the sample channel together with an unsubscribe function. The last
// known location, if any, is replayed immediately.
func (b *Bus) Subscribe(buffer int) (<-chan Update, func()) {
	updateChan := make(chan Update, buffer)
	b.mu.Lock()
	b.subscribers[updateChan] = struct{}{}
	if b.lastLocation != nil {
		updateChan <- Update{Location: b.lastLocation}
	}
	b.mu.Unlock()

	unsub := func() {
		b.mu.Lock()
		delete(b.subscribers, updateChan)
		b.mu.Unlock()
		close(updateChan)
	}

	return updateChan, unsub
}

// PublishLocation broadcasts a location sample to all subscribers.
func (b *Bus) PublishLocation(sample LocationSample) {
	if !sample.Coordinate.Valid() {
		return
	}
	if sample.At.IsZero() {
		sample.At = time.Now()
	}

	b.mu.Lock()
	b.lastLocation = &sample
	b.broadcast(Update{Location: &sample})
	b.mu.Unlock()
}

// PublishHeading broadcasts a heading sample to all subscribers.
func (b *Bus) PublishHeading(sample HeadingSample) {
	if sample.At.IsZero() {
		sample.At = time.Now()
	}

	b.mu.Lock()
	b.lastHeading = &sample
	b.broadcast(Update{Heading: &sample})
	b.mu.Unlock()
}

// LastLocation returns the most recently published location sample.
func (b *Bus) LastLocation() (LocationSample, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.lastLocation == nil {
		return LocationSample{}, false
	}
	return *b.lastLocation, true
}

// LastHeading returns the most recently published heading sample.
func (b *Bus) LastHeading() (HeadingSample, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.lastHeading == nil {
		return HeadingSample{}, false
	}
	return *b.lastHeading, true
}

func (b *Bus) broadcast(u Update) {
	for ch := range b.subscribers {
		select {
		case ch <- u:
		default:
		}
	}
}

func sleepOrDone(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func nextBackoff(d time.Duration) time.Duration {
	if d *= 2; d > maxBackoff {
		return maxBackoff
	}
	return d
}
