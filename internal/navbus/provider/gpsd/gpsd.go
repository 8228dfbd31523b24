// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package gpsd provides positioning samples from a local gpsd daemon.
package gpsd

import (
	"context"
	"math"
	"net"
	"time"

	"github.com/stratoberry/go-gpsd"

	"github.com/wneessen/seekr/internal/geo"
	"github.com/wneessen/seekr/internal/navbus"
)

const reconnectDelay = time.Second * 5

// Provider streams TPV reports from gpsd as location and heading samples.
type Provider struct {
	name string
	addr string
}

// New returns a gpsd Provider for the given host and port.
func New(host, port string) *Provider {
	return &Provider{
		name: "gpsd",
		addr: net.JoinHostPort(host, port),
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return p.name
}

// WatchStream connects to gpsd and emits an Update for every TPV report with
// at least a 2D fix. The course over ground doubles as the heading sample, so
// headings are only meaningful while the receiver is moving.
func (p *Provider) WatchStream(ctx context.Context) <-chan navbus.Update {
	out := make(chan navbus.Update)

	go func() {
		defer close(out)

		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			session, err := gpsd.Dial(p.addr)
			if err != nil {
				select {
				case <-ctx.Done():
					return
				case <-time.After(reconnectDelay):
					continue
				}
			}

			session.AddFilter("TPV", func(r interface{}) {
				tpv, ok := r.(*gpsd.TPVReport)
				if !ok {
					return
				}
				if tpv.Mode < gpsd.Mode2D {
					return
				}

				location := navbus.LocationSample{
					Coordinate: geo.Coordinate{Lat: tpv.Lat, Lon: tpv.Lon},
					Speed:      tpv.Speed,
					Source:     p.name,
					At:         tpv.Time,
				}
				select {
				case <-ctx.Done():
					return
				case out <- navbus.Update{Location: &location}:
				}

				// gpsd reports course over ground in degrees; only
				// emit it while moving, a stationary track is noise.
				if tpv.Speed > 0 {
					heading := navbus.HeadingSample{
						Radians: geo.NormalizeAngle(tpv.Track * math.Pi / 180),
						Source:  p.name,
						At:      tpv.Time,
					}
					select {
					case <-ctx.Done():
						return
					case out <- navbus.Update{Heading: &heading}:
					}
				}
			})

			// Watch() returns a channel that closes when the watch ends,
			// e.g. on connection loss.
			done := session.Watch()

			select {
			case <-ctx.Done():
				return
			case <-done:
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(reconnectDelay):
			}
		}
	}()

	return out
}
