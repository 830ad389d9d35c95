/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package session

import (
	"glyphedit/internal/command"
	"glyphedit/internal/tools"
	"glyphedit/internal/widget"
)

// Canvas is the editing surface beneath the floating toolbar. It mirrors
// the active tool from the bus, ignoring ids its registry does not know,
// and turns a held space bar into a
// temporary preview.
type Canvas struct {
	reg        *tools.Registry
	tool       tools.ToolID
	preview    bool
	spaceHeld  bool
	toolEvents int
}

func newCanvas(reg *tools.Registry, initial tools.ToolID) *Canvas {
	return &Canvas{reg: reg, tool: initial}
}

// ActiveTool is the tool last announced on the bus.
func (c *Canvas) ActiveTool() tools.ToolID { return c.tool }

// PreviewActive reports whether temporary preview is on.
func (c *Canvas) PreviewActive() bool { return c.preview }

// ToolChanges counts accepted SetActiveTool deliveries.
func (c *Canvas) ToolChanges() int { return c.toolEvents }

// Event receives input the widget tree did not handle.
func (c *Canvas) Event(ctx *widget.EventCtx, ev widget.Event) {
	if ev.Key.Key != "space" || ev.Key.Mods != 0 {
		return
	}
	switch ev.Kind {
	case widget.EventKeyDown:
		if !c.spaceHeld {
			c.spaceHeld = true
			ctx.Submit(command.SetPreviewVisibility(true))
		}
		ctx.SetHandled()
	case widget.EventKeyUp:
		if c.spaceHeld {
			c.spaceHeld = false
			ctx.Submit(command.SetPreviewVisibility(false))
		}
		ctx.SetHandled()
	}
}

// Command implements Observer.
func (c *Canvas) Command(cmd command.Command) {
	switch cmd.Kind {
	case command.KindSetActiveTool:
		if _, ok := c.reg.Index(cmd.Tool); !ok {
			return
		}
		c.tool = cmd.Tool
		c.toolEvents++
	case command.KindSetPreviewVisibility:
		c.preview = cmd.Preview
	}
}
