// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package nav

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/wneessen/seekr/internal/geo"
	"github.com/wneessen/seekr/internal/navbus"
)

// Landmark is a point of interest with a proximity trigger radius. The found
// flag flips permanently on first entry; landmarks are process-scoped and
// survive the end of a navigation session.
type Landmark struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Coordinate  geo.Coordinate `json:"coordinate"`
	// Radius is the trigger radius in meters.
	Radius float64 `json:"radius"`

	found bool
}

// Found reports whether the landmark has been entered.
func (l Landmark) Found() bool {
	return l.found
}

// LandmarkMonitor scans a fixed landmark catalog against incoming location
// samples and reports each landmark entry exactly once.
//
// LandmarkMonitor is not safe for concurrent use.
type LandmarkMonitor struct {
	landmarks []Landmark
}

// NewLandmarkMonitor returns a monitor over the given catalog.
func NewLandmarkMonitor(landmarks []Landmark) *LandmarkMonitor {
	return &LandmarkMonitor{landmarks: landmarks}
}

// LoadLandmarks reads a landmark catalog from a JSON file.
func LoadLandmarks(path string) ([]Landmark, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read landmark catalog %q: %w", path, err)
	}
	var landmarks []Landmark
	if err = json.Unmarshal(data, &landmarks); err != nil {
		return nil, fmt.Errorf("failed to parse landmark catalog %q: %w", path, err)
	}
	for _, l := range landmarks {
		if !l.Coordinate.Valid() {
			return nil, fmt.Errorf("landmark %q has invalid coordinates", l.Name)
		}
		if l.Radius <= 0 {
			return nil, fmt.Errorf("landmark %q has invalid radius %f", l.Name, l.Radius)
		}
	}
	return landmarks, nil
}

// Update checks every unfound landmark against the sample location and
// returns all landmarks entered by this sample, in catalog order.
func (m *LandmarkMonitor) Update(sample navbus.LocationSample) []Landmark {
	var entered []Landmark
	for i, landmark := range m.landmarks {
		if landmark.found {
			continue
		}
		if geo.Distance(sample.Coordinate, landmark.Coordinate) <= landmark.Radius {
			m.landmarks[i].found = true
			entered = append(entered, m.landmarks[i])
		}
	}
	return entered
}

// Landmarks returns a copy of the catalog with its current found flags.
func (m *LandmarkMonitor) Landmarks() []Landmark {
	out := make([]Landmark, len(m.landmarks))
	copy(out, m.landmarks)
	return out
}

// FoundCount returns the number of landmarks entered so far.
func (m *LandmarkMonitor) FoundCount() int {
	var n int
	for _, l := range m.landmarks {
		if l.found {
			n++
		}
	}
	return n
}
