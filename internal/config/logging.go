// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	slogmulti "github.com/samber/slog-multi"
)

// SetupLogging builds the process logger from the logging config: JSON to
// the log file, plus text to stderr when verbose. The TUI must not pass
// verbose=true since it owns the terminal. Returns a cleanup that closes
// the log file.
func SetupLogging(cfg LoggingConfig, logPath string) (*slog.Logger, func() error, error) {
	level := ParseLevel(cfg.Level)

	if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
		return nil, nil, err
	}
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, err
	}

	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level})

	var logger *slog.Logger
	if cfg.Verbose {
		stderrHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
		logger = slog.New(slogmulti.Fanout(fileHandler, stderrHandler))
	} else {
		logger = slog.New(fileHandler)
	}

	cleanup := func() error { return file.Close() }
	return logger, cleanup, nil
}

// NewTestLogger writes to the given writers, for tests that assert on log
// output.
func NewTestLogger(file, stderr io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slogmulti.Fanout(
		slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level}),
		slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}),
	))
}

// ParseLevel maps a config level string to a slog.Level, defaulting to
// info for unknown values.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
