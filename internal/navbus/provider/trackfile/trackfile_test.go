// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package trackfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTrack(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "track.jsonl")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write track file: %s", err)
	}
	return path
}

func TestProvider_WatchStream(t *testing.T) {
	t.Run("replays fixes and closes the stream", func(t *testing.T) {
		track := `# demo walk
{"lat": 36.9741, "lon": -122.0308, "speed": 1.4, "delay_ms": 1}
{"lat": 36.9745, "lon": -122.0310, "speed": 1.4, "heading": 90, "delay_ms": 1}
`
		p := New(writeTrack(t, track))
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var locations, headings int
		for u := range p.WatchStream(ctx) {
			switch {
			case u.Location != nil:
				locations++
			case u.Heading != nil:
				headings++
			}
		}
		if locations != 2 {
			t.Errorf("expected 2 location samples, got %d", locations)
		}
		if headings != 1 {
			t.Errorf("expected 1 heading sample, got %d", headings)
		}
	})
	t.Run("malformed lines are skipped", func(t *testing.T) {
		track := `not json
{"lat": 1, "lon": 2, "speed": 0, "delay_ms": 1}
`
		p := New(writeTrack(t, track))
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var count int
		for range p.WatchStream(ctx) {
			count++
		}
		if count != 1 {
			t.Errorf("expected 1 sample, got %d", count)
		}
	})
	t.Run("missing file closes the stream immediately", func(t *testing.T) {
		p := New(filepath.Join(t.TempDir(), "does-not-exist"))
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		if _, ok := <-p.WatchStream(ctx); ok {
			t.Error("expected stream to close without samples")
		}
	})
	t.Run("cancellation stops the replay", func(t *testing.T) {
		track := `{"lat": 1, "lon": 2, "speed": 0, "delay_ms": 60000}`
		p := New(writeTrack(t, track))
		ctx, cancel := context.WithCancel(context.Background())
		stream := p.WatchStream(ctx)
		cancel()

		select {
		case _, ok := <-stream:
			if ok {
				t.Error("expected stream to close without samples")
			}
		case <-time.After(time.Second):
			t.Fatal("stream did not close after cancellation")
		}
	})
}
