/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package widget

import (
	"log/slog"

	"glyphedit/internal/command"
	applog "glyphedit/internal/log"
	"glyphedit/internal/paint"
	"glyphedit/internal/tools"
	"glyphedit/internal/vector"
)

const (
	DefaultItemSize    = 40.0
	DefaultItemPadding = 2.0
	iconPadding        = 5.0
	borderStrokeWidth  = 2.0
	itemStrokeWidth    = 1.5
)

var (
	bgDefault  = vector.Grey8(0xDD)
	bgSelected = vector.Grey8(0xAD)
)

// toolSlot is one clickable toolbar cell. It reports a completed click
// (press and release inside its frame) through clicked.
type toolSlot struct {
	icon     vector.Path // fitted to the slot, slot-local coordinates
	frame    vector.Rect // in toolbar coordinates
	selected bool        // set by the toolbar right before painting
	active   bool
	clicked  bool
}

func (s *toolSlot) Kind() Kind { return KindToolSlot }
func (s *toolSlot) sealed()    {}

func (s *toolSlot) Event(ctx *EventCtx, ev Event) {
	switch ev.Kind {
	case EventMouseDown:
		if s.frame.Contains(ev.Pos) {
			s.active = true
			ctx.SetHandled()
		}
	case EventMouseUp:
		if s.active && s.frame.Contains(ev.Pos) {
			s.clicked = true
			ctx.SetHandled()
		}
		s.active = false
	}
}

func (s *toolSlot) Layout(bc Constraints) vector.Size { return bc.Constrain(s.frame.Size()) }

func (s *toolSlot) Paint(l *paint.List) {
	bg := bgDefault
	if s.selected {
		bg = bgSelected
	}
	l.WithSave(func(l *paint.List) {
		l.Translate(s.frame.X, s.frame.Y)
		l.Fill(vector.RectPath(vector.R(0, 0, s.frame.W, s.frame.H)), bg)
		l.Fill(s.icon, vector.White)
		l.Stroke(s.icon, vector.Black, itemStrokeWidth)
	})
}

// Toolbar holds the active tool over a fixed registry. Exactly one index is
// selected at any time; it starts at 0.
//
// Selection changes caused by a hotkey or a click are announced with a
// SetActiveTool command. Changes caused by an incoming SetActiveTool command
// are only mirrored, never re-announced, so the toolbar and other listeners
// cannot echo the command back and forth.
type Toolbar struct {
	reg      *tools.Registry
	slots    []*toolSlot
	selected int
	itemSize float64
	padding  float64
	size     vector.Size
	log      *slog.Logger
}

// ToolbarOption customises a Toolbar.
type ToolbarOption func(*Toolbar)

// WithItemSize sets the square slot size.
func WithItemSize(s float64) ToolbarOption {
	return func(t *Toolbar) {
		if s > 0 {
			t.itemSize = s
		}
	}
}

// WithItemPadding sets the gap between slots.
func WithItemPadding(p float64) ToolbarOption {
	return func(t *Toolbar) {
		if p >= 0 {
			t.padding = p
		}
	}
}

// WithLogger replaces the component logger.
func WithLogger(l *slog.Logger) ToolbarOption {
	return func(t *Toolbar) { t.log = l }
}

// NewToolbar builds a toolbar over reg with the first tool selected.
func NewToolbar(reg *tools.Registry, opts ...ToolbarOption) *Toolbar {
	t := &Toolbar{reg: reg, itemSize: DefaultItemSize, padding: DefaultItemPadding}
	for _, o := range opts {
		o(t)
	}
	if t.log == nil {
		t.log = applog.WithComponent("toolbar")
	}
	box := vector.Size{W: t.itemSize, H: t.itemSize}
	t.slots = make([]*toolSlot, 0, reg.Len())
	for i, d := range reg.Descriptors() {
		t.slots = append(t.slots, &toolSlot{
			icon:  tools.Fit(d.Icon, box, iconPadding),
			frame: vector.RectFromOriginSize(vector.Pt{X: float64(i) * (t.itemSize + t.padding)}, box),
		})
	}
	return t
}

func (t *Toolbar) Kind() Kind { return KindToolbar }
func (t *Toolbar) sealed()    {}

// Registry returns the tools shown by the toolbar.
func (t *Toolbar) Registry() *tools.Registry { return t.reg }

// Selected returns the selected index.
func (t *Toolbar) Selected() int { return t.selected }

// SelectedTool returns the id of the selected tool.
func (t *Toolbar) SelectedTool() tools.ToolID { return t.reg.At(t.selected).Name }

// ToolForKeypress returns the first tool whose hotkey matches ev.
func (t *Toolbar) ToolForKeypress(ev tools.KeyEvent) (tools.ToolID, bool) {
	i, ok := t.reg.Match(ev)
	if !ok {
		return "", false
	}
	return t.reg.At(i).Name, true
}

// SlotFrame returns the frame of slot i in toolbar coordinates.
func (t *Toolbar) SlotFrame(i int) vector.Rect { return t.slots[i].frame }

func (t *Toolbar) Event(ctx *EventCtx, ev Event) {
	switch ev.Kind {
	case EventCommand:
		if ev.Command.Kind != command.KindSetActiveTool {
			return
		}
		i, ok := t.reg.Index(ev.Command.Tool)
		if !ok {
			t.log.Debug("ignoring unknown tool", slog.String("tool", string(ev.Command.Tool)))
			return
		}
		t.selectIndex(ctx, i, command.External)
	case EventKeyDown:
		i, ok := t.reg.Match(ev.Key)
		if !ok {
			return
		}
		t.selectIndex(ctx, i, command.Local)
		ctx.SetHandled()
	case EventMouseDown, EventMouseUp:
		for i, s := range t.slots {
			s.Event(ctx, ev)
			if s.clicked {
				s.clicked = false
				t.selectIndex(ctx, i, command.Local)
			}
		}
		// clicks on the toolbar, gaps included, never fall through to the canvas
		if vector.RectFromOriginSize(vector.Pt{}, t.size).Contains(ev.Pos) {
			ctx.SetHandled()
		}
	}
}

// selectIndex is the only place that mutates the selection.
func (t *Toolbar) selectIndex(ctx *EventCtx, i int, origin command.Origin) {
	if i < 0 || i >= len(t.slots) || i == t.selected {
		return
	}
	prev := t.selected
	t.selected = i
	ctx.RequestPaint()
	tool := t.reg.At(i).Name
	t.log.Debug("tool selected",
		slog.String("tool", string(tool)),
		slog.String("prev", string(t.reg.At(prev).Name)),
		slog.String("origin", origin.String()),
	)
	if origin == command.Local {
		ctx.Submit(command.SetActiveTool(tool))
	}
}

func (t *Toolbar) Layout(bc Constraints) vector.Size {
	x := 0.0
	item := vector.Size{W: t.itemSize, H: t.itemSize}
	for _, s := range t.slots {
		s.frame = vector.RectFromOriginSize(vector.Pt{X: x}, item)
		s.Layout(Tight(item))
		x += t.itemSize + t.padding
	}
	// size does not account for stroke
	t.size = bc.Constrain(vector.Size{W: x - t.padding, H: t.itemSize})
	return t.size
}

func (t *Toolbar) Paint(l *paint.List) {
	for i, s := range t.slots {
		s.selected = i == t.selected
		s.Paint(l)
	}
	inset := borderStrokeWidth / 2
	for _, s := range t.slots[1:] {
		f := s.frame
		l.Stroke(vector.LinePath(vector.Pt{X: f.X - inset, Y: f.Y}, vector.Pt{X: f.X - inset, Y: f.Y + f.H}), vector.Black, borderStrokeWidth)
	}
}
