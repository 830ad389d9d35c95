/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package log sets up the process-wide slog logger. Records go to stderr in a
// compact console form (or JSON) and, when a file is configured, to a rotating
// JSON log file as well. Every record carries the app name, version and a
// per-process session id.
package log

import (
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	lj "gopkg.in/natefinch/lumberjack.v2"

	"glyphedit/internal/version"
)

// Options controls logger initialization. FromEnv reads them from
//   - GLE_LOG_LEVEL=debug|info|warn|error
//   - GLE_LOG_FORMAT=console|json
//   - GLE_LOG_FILE=<path> (rotated JSON file in addition to stderr)
//   - GLE_LOG_SOURCE=true|false
type Options struct {
	Level     string
	Format    string // "console" or "json"
	AddSource bool
	File      string

	// Rotation limits for File; zero picks the defaults below.
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

const (
	defaultMaxSizeMB  = 10
	defaultMaxBackups = 3
	defaultMaxAgeDays = 28
)

var (
	mu      sync.RWMutex
	current *slog.Logger
	closer  *lj.Logger

	session = uuid.NewString()
)

// SessionID identifies this process in log records and telemetry.
func SessionID() string { return session }

// L returns the application logger, initializing it from the environment on
// first use.
func L() *slog.Logger {
	mu.RLock()
	l := current
	mu.RUnlock()
	if l != nil {
		return l
	}
	Init(FromEnv())
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Init replaces the application logger and slog.Default.
func Init(opts Options) {
	lvl := parseLevel(opts.Level)
	hopts := &slog.HandlerOptions{Level: lvl, AddSource: opts.AddSource}

	var handlers []slog.Handler
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		handlers = append(handlers, slog.NewJSONHandler(os.Stderr, hopts))
	} else {
		handlers = append(handlers, newConsoleHandler(os.Stderr, lvl, opts.AddSource))
	}

	var rot *lj.Logger
	if f := strings.TrimSpace(opts.File); f != "" {
		rot = &lj.Logger{
			Filename:   f,
			MaxSize:    orDefault(opts.MaxSizeMB, defaultMaxSizeMB),
			MaxBackups: orDefault(opts.MaxBackups, defaultMaxBackups),
			MaxAge:     orDefault(opts.MaxAgeDays, defaultMaxAgeDays),
			Compress:   true,
		}
		handlers = append(handlers, slog.NewJSONHandler(rot, hopts))
	}

	h := handlers[0]
	if len(handlers) > 1 {
		h = fanout(handlers...)
	}
	logger := slog.New(h).With(
		slog.String("app", "glyphedit"),
		slog.String("ver", version.Version),
		slog.String("session", session),
	)

	mu.Lock()
	prev := closer
	current, closer = logger, rot
	mu.Unlock()
	if prev != nil {
		_ = prev.Close()
	}
	slog.SetDefault(logger)
}

// Close releases the rotating log file, if any.
func Close() error {
	mu.Lock()
	c := closer
	closer = nil
	mu.Unlock()
	if c == nil {
		return nil
	}
	return c.Close()
}

// FromEnv builds Options from GLE_LOG_* variables.
func FromEnv() Options {
	return Options{
		Level:     getenv("GLE_LOG_LEVEL", "info"),
		Format:    getenv("GLE_LOG_FORMAT", "console"),
		AddSource: strings.EqualFold(getenv("GLE_LOG_SOURCE", "false"), "true"),
		File:      os.Getenv("GLE_LOG_FILE"),
	}
}

// WithComponent returns a logger tagged with component=name.
func WithComponent(name string) *slog.Logger { return L().With(slog.String("component", name)) }

// WithOperation tags l with op=name.
func WithOperation(l *slog.Logger, op string) *slog.Logger { return l.With(slog.String("op", op)) }

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
