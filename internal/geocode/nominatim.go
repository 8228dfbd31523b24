// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/wneessen/seekr/internal/geo"
	"github.com/wneessen/seekr/internal/http"
)

const (
	nominatimEndpoint = "https://nominatim.openstreetmap.org/search"
	nominatimTimeout  = time.Second * 10
	nominatimLimit    = 5
)

// Nominatim searches places using the OSM Nominatim API.
type Nominatim struct {
	endpoint string
	locale   string
	http     *http.Client
}

type nominatimResult struct {
	PlaceID     int    `json:"place_id"`
	APILat      string `json:"lat"`
	APILon      string `json:"lon"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

// NewNominatim returns a Nominatim geocoder. Results are localized to the
// given locale.
func NewNominatim(client *http.Client, locale string) *Nominatim {
	return &Nominatim{
		endpoint: nominatimEndpoint,
		locale:   locale,
		http:     client,
	}
}

// Name returns the name of the geocoding provider.
func (n *Nominatim) Name() string {
	return "osm-nominatim"
}

// Search performs a free-text forward search and returns candidate places
// with parsed coordinates. Results without parsable coordinates are skipped.
func (n *Nominatim) Search(ctx context.Context, query string) ([]Place, error) {
	params := url.Values{}
	params.Set("format", "jsonv2")
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(nominatimLimit))
	params.Set("accept-language", n.locale)

	var results []nominatimResult
	if _, err := n.http.GetWithTimeout(ctx, n.endpoint, &results, params, nominatimTimeout); err != nil {
		return nil, fmt.Errorf("failed to search places via Nominatim API: %w", err)
	}

	places := make([]Place, 0, len(results))
	for _, result := range results {
		lat, err := strconv.ParseFloat(result.APILat, 64)
		if err != nil {
			continue
		}
		lon, err := strconv.ParseFloat(result.APILon, 64)
		if err != nil {
			continue
		}
		coord := geo.Coordinate{Lat: lat, Lon: lon}
		if !coord.Valid() {
			continue
		}
		places = append(places, Place{
			Name:        result.Name,
			DisplayName: result.DisplayName,
			Coordinate:  coord,
		})
	}

	return places, nil
}
