// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("new should successfully create a logger", func(t *testing.T) {
		l := New(slog.LevelInfo)
		if l == nil {
			t.Fatal("expected logger to be non-nil")
		}
	})
}

func TestNewLogger(t *testing.T) {
	t.Run("logger honors the configured level", func(t *testing.T) {
		tests := []struct {
			name    string
			level   slog.Level
			wantMin int
		}{
			{"DEBUG", slog.LevelDebug, 0},
			{"INFO", slog.LevelInfo, 1},
			{"WARN", slog.LevelWarn, 2},
			{"ERROR", slog.LevelError, 3},
		}
		messages := []string{"debug msg", "info msg", "warn msg", "error msg"}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				buf := bytes.NewBuffer(nil)
				l := NewLogger(tc.level, buf)
				l.Debug(messages[0])
				l.Info(messages[1])
				l.Warn(messages[2])
				l.Error(messages[3])

				for i, msg := range messages {
					logged := strings.Contains(buf.String(), msg)
					if i >= tc.wantMin && !logged {
						t.Errorf("expected %q to be logged at level %s", msg, tc.level)
					}
					if i < tc.wantMin && logged {
						t.Errorf("did not expect %q to be logged at level %s", msg, tc.level)
					}
				}
			})
		}
	})
}

func TestErr(t *testing.T) {
	t.Run("error attributes should be logged", func(t *testing.T) {
		buf := bytes.NewBuffer(nil)
		l := NewLogger(slog.LevelDebug, buf)
		want := "intentionally failing"
		l.Error("this is a test", Err(errors.New(want)))

		if !strings.Contains(buf.String(), `error="`+want+`"`) {
			t.Errorf("expected error message to contain %q, got: %q", want, buf.String())
		}
	})
}
