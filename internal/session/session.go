/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package session is the single-threaded event loop gluing the widget tree,
// the canvas and the command bus together, plus the glyph component lists
// being edited.
package session

import (
	"log/slog"
	"sync"
	"time"

	"glyphedit/internal/command"
	"glyphedit/internal/entity"
	applog "glyphedit/internal/log"
	"glyphedit/internal/storage"
	"glyphedit/internal/telemetry"
	"glyphedit/internal/tools"
	"glyphedit/internal/undo"
	"glyphedit/internal/vector"
	"glyphedit/internal/widget"
)

// maxDrainRounds bounds command cascades within one event.
const maxDrainRounds = 8

// Observer receives every command delivered on the bus.
type Observer interface {
	Command(cmd command.Command)
}

// Result describes what one input event caused.
type Result struct {
	Handled bool
	Repaint bool
	// Emitted lists the commands delivered on the bus, in order.
	Emitted []command.Command
}

// Session owns the widget tree, the canvas, the observers and the glyph
// lists. All methods are safe to call from several goroutines; events are
// processed one at a time.
type Session struct {
	mu        sync.Mutex
	alloc     *entity.Allocator
	reg       *tools.Registry
	toolbar   *widget.Toolbar
	root      *widget.FloatingPanel
	size      vector.Size
	queue     command.Queue
	canvas    *Canvas
	observers []Observer

	glyphs  map[string]*glyphState
	undo    *undo.Manager
	history *storage.History
	keep    int
	tel     *telemetry.Client

	tbOpts  []widget.ToolbarOption
	undoCfg undo.Config
	log     *slog.Logger
	now     func() time.Time
}

type Option func(*Session)

// WithRegistry replaces the default tool registry.
func WithRegistry(r *tools.Registry) Option { return func(s *Session) { s.reg = r } }

// WithToolbarOptions passes options through to the toolbar.
func WithToolbarOptions(opts ...widget.ToolbarOption) Option {
	return func(s *Session) { s.tbOpts = append(s.tbOpts, opts...) }
}

// WithUndo configures the undo manager.
func WithUndo(cfg undo.Config) Option { return func(s *Session) { s.undoCfg = cfg } }

// WithHistory attaches a persistent history store used by Save and Autosave.
func WithHistory(h *storage.History) Option { return func(s *Session) { s.history = h } }

// WithHistoryKeep makes Save prune each glyph to its n newest snapshots.
// n <= 0 keeps everything.
func WithHistoryKeep(n int) Option { return func(s *Session) { s.keep = n } }

// WithTelemetry reports bus traffic to c. A nil client disables reporting.
func WithTelemetry(c *telemetry.Client) Option { return func(s *Session) { s.tel = c } }

func WithLogger(l *slog.Logger) Option { return func(s *Session) { s.log = l } }

// WithClock replaces time.Now for undo timestamps.
func WithClock(now func() time.Time) Option { return func(s *Session) { s.now = now } }

// New builds a session with the toolbar laid out inside a floating panel.
func New(opts ...Option) *Session {
	s := &Session{alloc: entity.NewAllocator(), glyphs: make(map[string]*glyphState), now: time.Now}
	for _, o := range opts {
		o(s)
	}
	if s.reg == nil {
		s.reg = tools.DefaultRegistry()
	}
	if s.log == nil {
		s.log = applog.WithComponent("session")
	}
	s.undo = undo.NewManager(s.undoCfg)
	s.toolbar = widget.NewToolbar(s.reg, s.tbOpts...)
	s.root = widget.NewFloatingPanel(s.toolbar)
	s.size = s.root.Layout(widget.Unbounded())
	s.canvas = newCanvas(s.reg, s.toolbar.SelectedTool())
	return s
}

// Observe registers o for every command delivered after this call.
func (s *Session) Observe(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

func (s *Session) Toolbar() *widget.Toolbar     { return s.toolbar }
func (s *Session) Panel() *widget.FloatingPanel { return s.root }
func (s *Session) Canvas() *Canvas              { return s.canvas }
func (s *Session) Registry() *tools.Registry    { return s.reg }

// Size is the laid-out size of the floating toolbar.
func (s *Session) Size() vector.Size { return s.size }

// SelectedTool is the toolbar's current selection.
func (s *Session) SelectedTool() tools.ToolID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.toolbar.SelectedTool()
}

// PanelHidden reports whether the floating panel is hidden.
func (s *Session) PanelHidden() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root.Hidden()
}

// HandleInput runs one input event through the widget tree, gives unhandled
// input to the canvas and then delivers everything queued meanwhile.
func (s *Session) HandleInput(ev widget.Event) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx := widget.NewEventCtx(&s.queue)
	s.root.Event(ctx, ev)
	if !ctx.IsHandled() {
		s.canvas.Event(ctx, ev)
	}
	res := Result{Handled: ctx.IsHandled(), Repaint: ctx.PaintRequested()}
	s.drainLocked(&res, command.Local)
	return res
}

// Dispatch delivers a command that arrived from outside the window, such as
// a menu action or a script.
func (s *Session) Dispatch(cmd command.Command) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res Result
	s.queue.Submit(cmd)
	s.drainLocked(&res, command.External)
	return res
}

// drainLocked delivers queued commands to the widget tree, the canvas and the
// observers. The first round carries origin; anything queued while
// delivering was raised locally. Delivery into the tree is always external,
// so the toolbar never re-announces a selection it was told about.
func (s *Session) drainLocked(res *Result, origin command.Origin) {
	for round := 0; s.queue.Len() > 0; round++ {
		if round == maxDrainRounds {
			dropped := s.queue.Drain()
			s.log.Warn("command cascade cut off", slog.Int("dropped", len(dropped)))
			return
		}
		for _, cmd := range s.queue.Drain() {
			ctx := widget.NewEventCtx(&s.queue)
			s.root.Event(ctx, widget.CommandEvent(cmd))
			if ctx.PaintRequested() {
				res.Repaint = true
			}
			s.canvas.Command(cmd)
			for _, o := range s.observers {
				o.Command(cmd)
			}
			res.Emitted = append(res.Emitted, cmd)
			s.report(cmd, origin)
		}
		origin = command.Local
	}
}

func (s *Session) report(cmd command.Command, origin command.Origin) {
	s.log.Debug("command delivered", slog.String("cmd", cmd.String()), slog.String("origin", origin.String()))
	switch cmd.Kind {
	case command.KindSetActiveTool:
		s.tel.ToolSelected(string(cmd.Tool), origin.String())
	case command.KindSetPreviewVisibility:
		s.tel.PreviewToggled(cmd.Preview)
	}
}
