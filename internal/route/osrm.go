// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package route

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	stdhttp "net/http"
	"time"

	"github.com/wneessen/seekr/internal/geo"
	"github.com/wneessen/seekr/internal/http"
)

const APITimeout = time.Second * 10

// ErrNoRoute is returned when the directions service cannot find a route
// between the given coordinates.
var ErrNoRoute = errors.New("no route found")

// OSRM requests routes from an OSRM-compatible HTTP endpoint.
type OSRM struct {
	baseURL string
	profile string
	http    *http.Client
}

// osrmResponse matches the subset of the OSRM route response we care about.
type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64      `json:"distance"`
		Duration float64      `json:"duration"`
		Geometry osrmGeometry `json:"geometry"`
		Legs     []struct {
			Steps []struct {
				Distance float64      `json:"distance"`
				Name     string       `json:"name"`
				Geometry osrmGeometry `json:"geometry"`
			} `json:"steps"`
		} `json:"legs"`
	} `json:"routes"`
}

type osrmGeometry struct {
	// Coordinates are GeoJSON lon/lat pairs.
	Coordinates [][]float64 `json:"coordinates"`
}

func (g osrmGeometry) toCoordinates() []geo.Coordinate {
	coords := make([]geo.Coordinate, 0, len(g.Coordinates))
	for _, pair := range g.Coordinates {
		if len(pair) < 2 {
			continue
		}
		coords = append(coords, geo.Coordinate{Lat: pair[1], Lon: pair[0]})
	}
	return coords
}

// NewOSRM returns an OSRM client for the given base URL and routing profile.
func NewOSRM(client *http.Client, baseURL, profile string) *OSRM {
	return &OSRM{
		baseURL: baseURL,
		profile: profile,
		http:    client,
	}
}

// Name returns the name of the directions service.
func (o *OSRM) Name() string {
	return "osrm"
}

// Directions requests a route from origin to destination. The full geometry
// and the per-step sub-polylines are requested so that the compass can be
// fed the next maneuver coordinate.
func (o *OSRM) Directions(ctx context.Context, from, to geo.Coordinate) (*Route, error) {
	endpoint := fmt.Sprintf("%s/route/v1/%s/%f,%f;%f,%f", o.baseURL, o.profile,
		from.Lon, from.Lat, to.Lon, to.Lat)
	query := url.Values{}
	query.Set("overview", "full")
	query.Set("geometries", "geojson")
	query.Set("steps", "true")

	var response osrmResponse
	status, err := o.http.GetWithTimeout(ctx, endpoint, &response, query, APITimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to request directions from OSRM API: %w", err)
	}
	if status != stdhttp.StatusOK || response.Code != "Ok" || len(response.Routes) == 0 {
		return nil, ErrNoRoute
	}

	raw := response.Routes[0]
	result := &Route{
		Geometry: raw.Geometry.toCoordinates(),
		Distance: raw.Distance,
		Duration: raw.Duration,
	}
	for _, leg := range raw.Legs {
		for _, step := range leg.Steps {
			result.Steps = append(result.Steps, Step{
				Geometry: step.Geometry.toCoordinates(),
				Name:     step.Name,
				Distance: step.Distance,
			})
		}
	}

	return result, nil
}
