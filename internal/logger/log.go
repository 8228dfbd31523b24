// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package logger provides the structured logging facilities for seekr.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// Logger is a thin wrapper around slog.Logger so that packages do not need
// to import log/slog directly.
type Logger struct {
	*slog.Logger
}

// New returns a Logger writing to STDERR with the given log level. Guidance
// output goes to STDOUT, so logging must never write there.
func New(level slog.Level) *Logger {
	return NewLogger(level, os.Stderr)
}

// NewLogger returns a Logger writing to the given writer with the given log level.
func NewLogger(level slog.Level, output io.Writer) *Logger {
	return &Logger{slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: level}))}
}

// Err returns a slog attribute for an error value.
func Err(err error) slog.Attr {
	return slog.Any("error", err)
}
