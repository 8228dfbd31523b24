// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"fmt"

	"github.com/wneessen/seekr/internal/navbus"
	"github.com/wneessen/seekr/internal/navbus/provider/gpsd"
	"github.com/wneessen/seekr/internal/navbus/provider/trackfile"
)

func (s *Service) selectProviders() ([]navbus.Provider, error) {
	var provider []navbus.Provider

	if !s.config.Stream.DisableGPSD {
		provider = append(provider, gpsd.New(s.config.GPSD.Host, s.config.GPSD.Port))
	}

	if s.config.Stream.TrackFile != "" {
		provider = append(provider, trackfile.New(s.config.Stream.TrackFile))
	}

	if len(provider) == 0 {
		return nil, fmt.Errorf("no positioning providers enabled")
	}
	return provider, nil
}
