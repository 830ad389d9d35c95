/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package widget implements the floating toolbar and its panel chrome as a
// small, closed set of widgets sharing one Event/Layout/Paint contract.
//
// Events carry their command queue explicitly in an EventCtx; nothing here
// reaches for global state.
package widget

import (
	"math"

	"glyphedit/internal/command"
	"glyphedit/internal/paint"
	"glyphedit/internal/tools"
	"glyphedit/internal/vector"
)

// EventKind discriminates input events.
type EventKind uint8

const (
	EventKeyDown EventKind = iota + 1
	EventKeyUp
	EventMouseDown
	EventMouseUp
	EventCommand
)

// Event is an input event or a command delivered from the bus.
// Pos is in the receiving widget's coordinate space.
type Event struct {
	Kind    EventKind
	Key     tools.KeyEvent
	Pos     vector.Pt
	Command command.Command
}

func KeyDown(k tools.KeyEvent) Event       { return Event{Kind: EventKeyDown, Key: k} }
func KeyUp(k tools.KeyEvent) Event         { return Event{Kind: EventKeyUp, Key: k} }
func MouseDown(p vector.Pt) Event          { return Event{Kind: EventMouseDown, Pos: p} }
func MouseUp(p vector.Pt) Event            { return Event{Kind: EventMouseUp, Pos: p} }
func CommandEvent(c command.Command) Event { return Event{Kind: EventCommand, Command: c} }

// EventCtx is threaded through one event's handling.
type EventCtx struct {
	queue   *command.Queue
	handled bool
	repaint bool
}

// NewEventCtx returns a context submitting into q.
func NewEventCtx(q *command.Queue) *EventCtx { return &EventCtx{queue: q} }

// Submit queues c for delivery after the current event.
func (c *EventCtx) Submit(cmd command.Command) { c.queue.Submit(cmd) }

func (c *EventCtx) SetHandled()          { c.handled = true }
func (c *EventCtx) IsHandled() bool      { return c.handled }
func (c *EventCtx) RequestPaint()        { c.repaint = true }
func (c *EventCtx) PaintRequested() bool { return c.repaint }

// Constraints bound a widget's size during layout.
type Constraints struct {
	Min, Max vector.Size
}

// Tight forces exactly s.
func Tight(s vector.Size) Constraints { return Constraints{Min: s, Max: s} }

// Unbounded allows any size.
func Unbounded() Constraints {
	return Constraints{Max: vector.Size{W: math.Inf(1), H: math.Inf(1)}}
}

// Constrain clamps s into c.
func (c Constraints) Constrain(s vector.Size) vector.Size {
	return vector.Size{
		W: math.Max(c.Min.W, math.Min(c.Max.W, s.W)),
		H: math.Max(c.Min.H, math.Min(c.Max.H, s.H)),
	}
}

// Kind names the concrete widget variants.
type Kind uint8

const (
	KindToolSlot Kind = iota + 1
	KindToolbar
	KindFloatingPanel
)

// Widget is implemented by the variants in this package only.
type Widget interface {
	Kind() Kind
	Event(ctx *EventCtx, ev Event)
	Layout(bc Constraints) vector.Size
	Paint(l *paint.List)
	sealed()
}
