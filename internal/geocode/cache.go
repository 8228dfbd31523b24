// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"context"
	"strings"
	"sync"
	"time"
)

type cacheKey struct {
	Provider string
	Query    string
}

type cacheEntry struct {
	Places []Place
	Expiry time.Time
}

// CachedGeocoder wraps a Geocoder with an in-memory result cache. Successful
// lookups and empty results get separate TTLs so that a temporary "no
// results" does not stick around as long as a real hit.
type CachedGeocoder struct {
	coder   Geocoder
	ttlHit  time.Duration
	ttlMiss time.Duration

	mu    sync.RWMutex
	cache map[cacheKey]cacheEntry
}

// NewCachedGeocoder returns a caching wrapper around the given Geocoder.
func NewCachedGeocoder(coder Geocoder, ttlHit, ttlMiss time.Duration) *CachedGeocoder {
	return &CachedGeocoder{
		coder:   coder,
		ttlHit:  ttlHit,
		ttlMiss: ttlMiss,
		cache:   make(map[cacheKey]cacheEntry),
	}
}

// Name returns the name of the wrapped provider.
func (c *CachedGeocoder) Name() string {
	return "geocoder cache using " + c.coder.Name()
}

// Search returns cached results when available and delegates to the wrapped
// Geocoder otherwise. Queries are normalized before keying.
func (c *CachedGeocoder) Search(ctx context.Context, query string) ([]Place, error) {
	key := newKey(c.coder.Name(), query)

	c.mu.RLock()
	entry, ok := c.cache[key]
	if ok && time.Now().Before(entry.Expiry) {
		places := entry.Places
		c.mu.RUnlock()
		return places, nil
	}
	c.mu.RUnlock()

	places, err := c.coder.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ttl := c.ttlHit
	if len(places) == 0 {
		ttl = c.ttlMiss
	}
	c.cache[key] = cacheEntry{
		Places: places,
		Expiry: time.Now().Add(ttl),
	}

	return places, nil
}

func newKey(provider, query string) cacheKey {
	return cacheKey{
		Provider: provider,
		Query:    strings.Join(strings.Fields(strings.ToLower(query)), " "),
	}
}
