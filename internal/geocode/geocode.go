// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package geocode resolves free-text destination queries to coordinates.
package geocode

import (
	"context"

	"github.com/wneessen/seekr/internal/geo"
)

// Place is one candidate destination returned by a search.
type Place struct {
	Name        string
	DisplayName string
	Coordinate  geo.Coordinate
}

// Geocoder is the contract of a place-search provider.
type Geocoder interface {
	Name() string
	Search(ctx context.Context, query string) ([]Place, error)
}
