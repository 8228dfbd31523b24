// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package navbus

import (
	"context"
	"sync"
)

// Orchestrator feeds the Bus from multiple positioning providers, restarting
// failed provider streams with exponential backoff.
type Orchestrator struct {
	Bus       *Bus
	Providers []Provider
}

// Track runs all providers concurrently until the context is cancelled.
func (o *Orchestrator) Track(ctx context.Context) {
	var wg sync.WaitGroup
	for _, p := range o.Providers {
		wg.Add(1)
		go func(p Provider) {
			defer wg.Done()
			o.trackProvider(ctx, p)
		}(p)
	}
	<-ctx.Done()
	wg.Wait()
}

// trackProvider continuously consumes a provider stream, publishing samples
// to the Bus and backing off when the stream ends or fails to start.
func (o *Orchestrator) trackProvider(ctx context.Context, p Provider) {
	backoff := initialBackoff
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		watchChan := o.safeWatch(ctx, p)
		if watchChan == nil {
			if !sleepOrDone(ctx, backoff) {
				return
			}
			backoff = nextBackoff(backoff)
			continue
		}

	consume:
		for {
			select {
			case <-ctx.Done():
				return
			case u, ok := <-watchChan:
				if !ok {
					if !sleepOrDone(ctx, backoff) {
						return
					}
					backoff = nextBackoff(backoff)
					break consume
				}
				switch {
				case u.Location != nil:
					o.Bus.PublishLocation(*u.Location)
				case u.Heading != nil:
					o.Bus.PublishHeading(*u.Heading)
				}
				backoff = initialBackoff
			}
		}
	}
}

// safeWatch invokes WatchStream on a provider and recovers from potential
// panics. Returns nil if the provider failed to start.
func (o *Orchestrator) safeWatch(ctx context.Context, provider Provider) (ch <-chan Update) {
	defer func() { _ = recover() }()
	return provider.WatchStream(ctx)
}
