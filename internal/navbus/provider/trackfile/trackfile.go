// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package trackfile replays positioning samples from a JSON-lines track file.
// Each line holds one fix:
//
//	{"lat": 36.9741, "lon": -122.0308, "speed": 1.4, "heading": 90, "delay_ms": 1000}
//
// The optional heading is in degrees, delay_ms is the pause before the fix is
// emitted. The provider is meant for demos and testing without a GPS device.
package trackfile

import (
	"bufio"
	"context"
	"encoding/json"
	"math"
	"os"
	"strings"
	"time"

	"github.com/wneessen/seekr/internal/geo"
	"github.com/wneessen/seekr/internal/navbus"
)

const name = "trackfile"

const defaultDelay = time.Second

type trackLine struct {
	Lat     float64  `json:"lat"`
	Lon     float64  `json:"lon"`
	Speed   float64  `json:"speed"`
	Heading *float64 `json:"heading,omitempty"`
	DelayMS int64    `json:"delay_ms,omitempty"`
}

// Provider replays a track file once and then closes its stream.
type Provider struct {
	name string
	path string
}

// New returns a trackfile Provider for the given path.
func New(path string) *Provider {
	return &Provider{
		name: name,
		path: path,
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return p.name
}

// WatchStream reads the track file line by line and emits each fix after its
// configured delay. Malformed lines are skipped.
func (p *Provider) WatchStream(ctx context.Context) <-chan navbus.Update {
	out := make(chan navbus.Update)

	go func() {
		defer close(out)

		file, err := os.Open(p.path)
		if err != nil {
			return
		}
		defer func() {
			_ = file.Close()
		}()

		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			var fix trackLine
			if err = json.Unmarshal([]byte(line), &fix); err != nil {
				continue
			}

			delay := defaultDelay
			if fix.DelayMS > 0 {
				delay = time.Duration(fix.DelayMS) * time.Millisecond
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}

			location := navbus.LocationSample{
				Coordinate: geo.Coordinate{Lat: fix.Lat, Lon: fix.Lon},
				Speed:      fix.Speed,
				Source:     p.name,
				At:         time.Now(),
			}
			select {
			case <-ctx.Done():
				return
			case out <- navbus.Update{Location: &location}:
			}

			if fix.Heading != nil {
				heading := navbus.HeadingSample{
					Radians: geo.NormalizeAngle(*fix.Heading * math.Pi / 180),
					Source:  p.name,
					At:      time.Now(),
				}
				select {
				case <-ctx.Done():
					return
				case out <- navbus.Update{Heading: &heading}:
				}
			}
		}
	}()

	return out
}
