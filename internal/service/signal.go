// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"os"
)

// HandleCancelSignal ends the active navigation session whenever a signal
// arrives on the given channel. Wired to SIGUSR1 by the main command.
func (s *Service) HandleCancelSignal(ctx context.Context, sigChan chan os.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sigChan:
			s.EndNavigation(ctx)
		}
	}
}
